package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentRepo_CreateAndList(t *testing.T) {
	db := testutil.NewTestDB(t)
	g := testutil.NewTestPlanGroup("G")
	require.NoError(t, NewSQLitePlanGroupRepo(db).Create(context.Background(), g))
	repo := NewSQLiteContentRepo(db)
	ctx := context.Background()

	lecture := testutil.NewTestContent("lec-1",
		testutil.WithContentType(domain.ContentLecture),
		testutil.WithSubject("english", domain.SubjectStrategy),
		testutil.WithRange(0, 3),
		testutil.WithEpisodes(20, 0, 40),
		testutil.WithWeeklyDays(2),
	)
	book := testutil.NewTestContent("book-1", testutil.WithMinutesPerUnit(3), testutil.WithPriority(1))

	require.NoError(t, repo.Create(ctx, g.ID, 1, lecture))
	require.NoError(t, repo.Create(ctx, g.ID, 0, book))

	list, err := repo.ListByGroup(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "book-1", list[0].ID, "ordered by seq")
	require.NotNil(t, list[0].MinutesPerUnit)
	assert.InDelta(t, 3.0, *list[0].MinutesPerUnit, 1e-9)
	assert.Nil(t, list[0].EpisodeMinutes)

	assert.Equal(t, []int{20, 0, 40}, list[1].EpisodeMinutes)
	assert.Equal(t, domain.SubjectStrategy, list[1].SubjectType)
	assert.Equal(t, 2, list[1].WeeklyAllocationDays)
	assert.Nil(t, list[1].Difficulty)
}

func TestContentRepo_UpdateRange(t *testing.T) {
	db := testutil.NewTestDB(t)
	g := testutil.NewTestPlanGroup("G")
	require.NoError(t, NewSQLitePlanGroupRepo(db).Create(context.Background(), g))
	repo := NewSQLiteContentRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, g.ID, 0, testutil.NewTestContent("book-1")))
	require.NoError(t, repo.UpdateRange(ctx, "book-1", 40, 60))

	got, err := repo.GetByID(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, 40, got.StartUnit)
	assert.Equal(t, 100, got.EndUnit())

	assert.ErrorIs(t, repo.UpdateRange(ctx, "nope", 0, 1), ErrNotFound)
}
