package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarRepo_Blocks(t *testing.T) {
	db := testutil.NewTestDB(t)
	g := testutil.NewTestPlanGroup("G")
	require.NoError(t, NewSQLitePlanGroupRepo(db).Create(context.Background(), g))
	repo := NewSQLiteCalendarRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateBlock(ctx, g.ID, domain.RecurringBlock{
		ID: "b2", DayOfWeek: time.Tuesday, Range: domain.MustTimeRange("14:00", "16:00"),
	}))
	require.NoError(t, repo.CreateBlock(ctx, g.ID, domain.RecurringBlock{
		ID: "b1", DayOfWeek: time.Monday, Range: domain.MustTimeRange("09:00", "11:00"),
	}))

	blocks, err := repo.ListBlocks(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "b1", blocks[0].ID)
	assert.Equal(t, time.Monday, blocks[0].DayOfWeek)
	assert.Equal(t, "14:00-16:00", blocks[1].Range.String())
}

func TestCalendarRepo_Exclusions(t *testing.T) {
	db := testutil.NewTestDB(t)
	g := testutil.NewTestPlanGroup("G")
	require.NoError(t, NewSQLitePlanGroupRepo(db).Create(context.Background(), g))
	repo := NewSQLiteCalendarRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateExclusion(ctx, g.ID, domain.Exclusion{
		Date: testutil.Date("2025-03-07"), Type: domain.ExclusionVacation, Reason: "trip",
	}))
	require.NoError(t, repo.CreateExclusion(ctx, g.ID, domain.Exclusion{
		Date: testutil.Date("2025-03-04"), Type: domain.ExclusionDesignatedHoliday,
	}))

	// Same date twice violates the primary key.
	err := repo.CreateExclusion(ctx, g.ID, domain.Exclusion{
		Date: testutil.Date("2025-03-04"), Type: domain.ExclusionOther,
	})
	assert.Error(t, err)

	list, err := repo.ListExclusions(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2025-03-04", domain.FormatDate(list[0].Date))
	assert.Equal(t, domain.ExclusionVacation, list[1].Type)
	assert.Equal(t, "trip", list[1].Reason)
}

func TestCalendarRepo_Academies(t *testing.T) {
	db := testutil.NewTestDB(t)
	g := testutil.NewTestPlanGroup("G")
	require.NoError(t, NewSQLitePlanGroupRepo(db).Create(context.Background(), g))
	repo := NewSQLiteCalendarRepo(db)
	ctx := context.Background()

	travel := 30
	require.NoError(t, repo.CreateAcademy(ctx, g.ID, domain.AcademyConflict{
		ID: "a1", DayOfWeek: time.Wednesday, Range: domain.MustTimeRange("15:00", "17:00"),
		Label: "Piano", TravelMinutes: &travel,
	}))
	require.NoError(t, repo.CreateAcademy(ctx, g.ID, domain.AcademyConflict{
		ID: "a2", DayOfWeek: time.Friday, Range: domain.MustTimeRange("18:00", "19:00"),
		Label: "Math academy", Subject: "math",
	}))

	list, err := repo.ListAcademies(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 30, list[0].Travel())
	assert.Nil(t, list[1].TravelMinutes)
	assert.Equal(t, domain.DefaultTravelMinutes, list[1].Travel())
	assert.Equal(t, "math", list[1].Subject)
}
