package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/studyplan/internal/contract"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/repository"
)

// committedWeek imports and commits a week, then leaves Monday's row
// partially done (4 of 10 pages) and Tuesday's untouched.
func committedWeek(t *testing.T, env *testEnv) (*domain.PlanGroup, []*domain.PlanRow) {
	t.Helper()
	ctx := context.Background()
	g := env.importWeek(t, "Week", "book-1")
	_, err := env.plans.Commit(ctx, g.ID, nil)
	require.NoError(t, err)

	rows, err := env.rows.ListByGroup(ctx, g.ID, repository.PlanRowFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 7)
	_, err = env.progress.Record(ctx, rows[0].ID, 4)
	require.NoError(t, err)
	return g, rows
}

func TestRescheduleService_CatchUp(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	g, rows := committedWeek(t, env)

	resp, err := env.reschedule.Reschedule(ctx, contract.NewRescheduleRequest(g.ID, "2025-03-05"))
	require.NoError(t, err)

	assert.Equal(t, "2025-03-05", resp.ReplanFrom)
	require.Len(t, resp.Bounds, 1)
	assert.Equal(t, domain.UncompletedBounds{ContentID: "book-1", StartUnit: 4, EndUnit: 20, TotalUncompleted: 16}, resp.Bounds[0])
	assert.Equal(t, 2, resp.CanceledRows)
	assert.Equal(t, 5, resp.RemovedRows)
	assert.Equal(t, len(resp.Plan.Segments), resp.CreatedRows)
	require.NotEmpty(t, resp.Plan.Segments)
	assert.Equal(t, 4, resp.Plan.Segments[0].StartUnit)
	for _, s := range resp.Plan.Segments {
		assert.False(t, s.Date.Before(testDate("2025-03-05")), "nothing planned before the replan date")
	}

	c, err := env.contents.GetByID(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, 4, c.StartUnit)
	assert.Equal(t, 56, c.TotalExtent)

	old, err := env.rows.GetByID(ctx, rows[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanCanceled, old.Status)
}

func TestRescheduleService_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	g, _ := committedWeek(t, env)
	req := contract.NewRescheduleRequest(g.ID, "2025-03-05")

	first, err := env.reschedule.Reschedule(ctx, req)
	require.NoError(t, err)
	second, err := env.reschedule.Reschedule(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, 0, second.CanceledRows)
	assert.Equal(t, first.Adjusted, second.Adjusted)
	assert.Equal(t, first.Plan.Segments, second.Plan.Segments)
	assert.Equal(t, first.CreatedRows, second.RemovedRows)
}

func TestRescheduleService_TodayInProgressIsFoldedNotDoubleBooked(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	g, rows := committedWeek(t, env)

	// Wednesday is under way and Thursday was finished ahead of time.
	_, err := env.progress.Record(ctx, rows[2].ID, 1)
	require.NoError(t, err)
	_, err = env.progress.Record(ctx, rows[3].ID, rows[3].Span())
	require.NoError(t, err)

	resp, err := env.reschedule.Reschedule(ctx, contract.NewRescheduleRequest(g.ID, "2025-03-05"))
	require.NoError(t, err)

	assert.Equal(t, 3, resp.CanceledRows)
	require.Len(t, resp.Bounds, 1)
	assert.Equal(t, domain.UncompletedBounds{ContentID: "book-1", StartUnit: 4, EndUnit: 30, TotalUncompleted: 25}, resp.Bounds[0])

	wed, err := env.rows.GetByID(ctx, rows[2].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanCanceled, wed.Status)
	thu, err := env.rows.GetByID(ctx, rows[3].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanCompleted, thu.Status)

	live, err := env.rows.ListByGroup(ctx, g.ID, repository.PlanRowFilter{
		From:     testDate("2025-03-05"),
		Statuses: []domain.PlanStatus{domain.PlanPending, domain.PlanInProgress, domain.PlanCompleted},
	})
	require.NoError(t, err)
	byDate := make(map[string][]*domain.PlanRow)
	for _, r := range live {
		key := domain.FormatDate(r.PlanDate)
		for _, other := range byDate[key] {
			assert.False(t, r.StartTime < other.EndTime && other.StartTime < r.EndTime,
				"%s: %s-%s overlaps %s-%s", key, r.StartTime, r.EndTime, other.StartTime, other.EndTime)
		}
		byDate[key] = append(byDate[key], r)
	}
	require.NotEmpty(t, byDate["2025-03-05"])
}

func TestRescheduleService_IncludeToday(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	g, _ := committedWeek(t, env)

	req := contract.NewRescheduleRequest(g.ID, "2025-03-05")
	req.IncludeToday = true
	req.DryRun = true
	resp, err := env.reschedule.Reschedule(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, "2025-03-06", resp.ReplanFrom)
	assert.Equal(t, 3, resp.CanceledRows)
	require.Len(t, resp.Bounds, 1)
	assert.Equal(t, 26, resp.Bounds[0].TotalUncompleted)
}

func TestRescheduleService_DryRunWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	g, _ := committedWeek(t, env)

	req := contract.NewRescheduleRequest(g.ID, "2025-03-05")
	req.DryRun = true
	resp, err := env.reschedule.Reschedule(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.CanceledRows)

	canceled, err := env.rows.ListByGroup(ctx, g.ID, repository.PlanRowFilter{Statuses: []domain.PlanStatus{domain.PlanCanceled}})
	require.NoError(t, err)
	assert.Empty(t, canceled)
	c, err := env.contents.GetByID(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, 0, c.StartUnit)
}

func TestRescheduleService_SelectedContentKeepsOthers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	schema := weekSchema("Two books", "book-1")
	second := schema.Contents[0]
	second.ID, second.Title = "book-2", "Geometry"
	schema.Contents = append(schema.Contents, second)
	res, err := env.imports.ImportGroupFromSchema(ctx, schema)
	require.NoError(t, err)
	_, err = env.plans.Commit(ctx, res.Group.ID, nil)
	require.NoError(t, err)

	before, err := env.rows.ListByGroup(ctx, res.Group.ID, repository.PlanRowFilter{From: testDate("2025-03-05")})
	require.NoError(t, err)
	var untouched []string
	for _, r := range before {
		if r.ContentID == "book-2" {
			untouched = append(untouched, r.ID)
		}
	}
	require.NotEmpty(t, untouched)

	req := contract.NewRescheduleRequest(res.Group.ID, "2025-03-05")
	req.ContentIDs = []string{"book-1"}
	resp, err := env.reschedule.Reschedule(ctx, req)
	require.NoError(t, err)
	for _, s := range resp.Plan.Segments {
		assert.Equal(t, "book-1", s.ContentID)
	}

	for _, id := range untouched {
		r, err := env.rows.GetByID(ctx, id)
		require.NoError(t, err, "book-2 rows survive")
		assert.Equal(t, domain.PlanPending, r.Status)
	}
}

func TestRescheduleService_NewPeriod(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	g, _ := committedWeek(t, env)

	end := "2025-03-16"
	req := contract.NewRescheduleRequest(g.ID, "2025-03-05")
	req.PeriodEnd = &end
	resp, err := env.reschedule.Reschedule(ctx, req)
	require.NoError(t, err)
	last := resp.Plan.Segments[len(resp.Plan.Segments)-1]
	assert.True(t, last.Date.After(testDate("2025-03-09")))

	stored, err := env.groups.GetByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-16", domain.FormatDate(stored.PeriodEnd))
}

func TestRescheduleService_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	g, _ := committedWeek(t, env)

	_, err := env.reschedule.Reschedule(ctx, contract.NewRescheduleRequest(g.ID, "yesterday"))
	var ce *contract.ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, contract.ErrInvalidPeriod, ce.Code)

	req := contract.NewRescheduleRequest(g.ID, "2025-03-05")
	req.ContentIDs = []string{"nope"}
	_, err = env.reschedule.Reschedule(ctx, req)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = env.reschedule.Reschedule(ctx, contract.NewRescheduleRequest(g.ID, "2025-03-20"))
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, contract.ErrEmptyPeriod, ce.Code)
}
