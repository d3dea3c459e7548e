package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/studyplan/internal/contract"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/importer"
	"github.com/alexanderramin/studyplan/internal/repository"
	"github.com/alexanderramin/studyplan/internal/scheduler"
	"github.com/alexanderramin/studyplan/internal/testutil"
)

func TestPlanService_Preview(t *testing.T) {
	env := newTestEnv(t)
	g := env.importWeek(t, "Week", "book-1")

	resp, err := env.plans.Preview(context.Background(), g.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, resp.Diagnostics)
	require.Len(t, resp.Segments, 7)
	assert.Equal(t, 24, resp.Segments[0].Minutes())
	assert.Equal(t, domain.SessionReview, resp.Segments[6].Kind)
	assert.Equal(t, 58, resp.Segments[6].Minutes())

	ev := env.observer.last()
	assert.Equal(t, "preview-plan", ev.Name)
	assert.True(t, ev.Success)
	assert.Equal(t, 7, ev.Fields["segments"])

	rows, err := env.rows.ListByGroup(context.Background(), g.ID, repository.PlanRowFilter{})
	require.NoError(t, err)
	assert.Empty(t, rows, "preview writes nothing")
}

func TestPlanService_Preview_UnknownGroup(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.plans.Preview(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.False(t, env.observer.last().Success)
}

func TestPlanService_Preview_PolicyOverride(t *testing.T) {
	env := newTestEnv(t)
	schema := weekSchema("Tight", "book-1")
	schema.Group.StudyHours = &importer.TimeRangeImport{Start: "10:00", End: "10:20"}
	schema.Group.Lunch = &importer.TimeRangeImport{Start: "13:00", End: "14:00"}
	res, err := env.imports.ImportGroupFromSchema(context.Background(), schema)
	require.NoError(t, err)

	resp, err := env.plans.Preview(context.Background(), res.Group.ID, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Diagnostics)

	abort := domain.ShortfallAbort
	_, err = env.plans.Preview(context.Background(), res.Group.ID, &abort)
	var infeasible *contract.InfeasibleError
	assert.ErrorAs(t, err, &infeasible)
}

func TestPlanService_CommitReplacesPendingRows(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	g := env.importWeek(t, "Week", "book-1")

	first, err := env.plans.Commit(ctx, g.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 7, first.CreatedRows)
	assert.Equal(t, 0, first.RemovedRows)

	rows, err := env.rows.ListByGroup(ctx, g.ID, repository.PlanRowFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 7)
	assert.Equal(t, domain.PlanPending, rows[0].Status)
	assert.Equal(t, 0, rows[0].PlannedStart)
	assert.Equal(t, 10, rows[0].PlannedEnd)

	_, err = env.progress.Record(ctx, rows[0].ID, 10)
	require.NoError(t, err)

	second, err := env.plans.Commit(ctx, g.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 6, second.RemovedRows, "completed history is kept")
	assert.Equal(t, 6, second.CreatedRows, "the completed session is not written again")

	all, err := env.rows.ListByGroup(ctx, g.ID, repository.PlanRowFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 7)
	monday, err := env.rows.ListByGroup(ctx, g.ID, repository.PlanRowFilter{From: rows[0].PlanDate, To: rows[0].PlanDate})
	require.NoError(t, err)
	require.Len(t, monday, 1)
	assert.Equal(t, rows[0].ID, monday[0].ID)
	done, err := env.rows.ListByGroup(ctx, g.ID, repository.PlanRowFilter{Statuses: []domain.PlanStatus{domain.PlanCompleted}})
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, rows[0].ID, done[0].ID)
}

func TestPlanService_CommitRollsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	g := env.importWeek(t, "Week", "book-1")

	// Exec #1 is the pending-row delete; #3 fails the second insert.
	failUoW := &testutil.FailOnNthExecUoW{DB: env.db, FailOn: 3, Err: fmt.Errorf("injected insert failure")}
	svc := NewPlanService(env.groups, env.calendar, env.contents, env.rows, failUoW, scheduler.NewPlanner(), PlanOptions{})

	_, err := svc.Commit(ctx, g.ID, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected insert failure")

	rows, err := env.rows.ListByGroup(ctx, g.ID, repository.PlanRowFilter{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestPlanService_OtherGroupsReduceCapacity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.importWeek(t, "A", "book-a")
	b := env.importWeek(t, "B", "book-b")

	_, err := env.plans.Commit(ctx, b.ID, nil)
	require.NoError(t, err)

	resp, err := env.plans.Preview(ctx, a.ID, nil)
	require.NoError(t, err)

	booked, err := env.rows.ListByGroup(ctx, b.ID, repository.PlanRowFilter{})
	require.NoError(t, err)
	for _, row := range booked {
		taken := domain.TimeRange{Start: row.StartTime, End: row.EndTime}
		for _, seg := range segmentsOn(resp, domain.FormatDate(row.PlanDate)) {
			assert.False(t, taken.Overlaps(domain.TimeRange{Start: seg.Start, End: seg.End}),
				"segment %s overlaps booked %s on %s", seg.Start, taken, domain.FormatDate(row.PlanDate))
		}
	}
}

func TestPlanService_PreviewBatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.importWeek(t, "A", "book-a")
	b := env.importWeek(t, "B", "book-b")
	c := env.importWeek(t, "C", "book-c")

	out, err := env.plans.PreviewBatch(ctx, []string{c.ID, a.ID, b.ID}, nil)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "book-c", out[0].Segments[0].ContentID)
	assert.Equal(t, "book-a", out[1].Segments[0].ContentID)
	assert.Equal(t, "book-b", out[2].Segments[0].ContentID)

	_, err = env.plans.PreviewBatch(ctx, []string{a.ID, "missing"}, nil)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPlanService_ListRows(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	g := env.importWeek(t, "Week", "book-1")
	_, err := env.plans.Commit(ctx, g.ID, nil)
	require.NoError(t, err)

	rows, err := env.plans.ListRows(ctx, g.ID, "2025-03-04", "2025-03-05")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = env.plans.ListRows(ctx, g.ID, "03/04", "")
	assert.Error(t, err)

	_, err = env.plans.ListRows(ctx, "missing", "", "")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProgressService_Record(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	g := env.importWeek(t, "Week", "book-1")
	_, err := env.plans.Commit(ctx, g.ID, nil)
	require.NoError(t, err)
	rows, err := env.rows.ListByGroup(ctx, g.ID, repository.PlanRowFilter{})
	require.NoError(t, err)

	row, err := env.progress.Record(ctx, rows[0].ID, 4)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanInProgress, row.Status)

	row, err = env.progress.Record(ctx, rows[0].ID, 99)
	require.NoError(t, err)
	assert.Equal(t, 10, row.CompletedAmount, "clamped to span")
	assert.Equal(t, domain.PlanCompleted, row.Status)

	row, err = env.progress.Record(ctx, rows[0].ID, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanPending, row.Status)

	stored, err := env.rows.GetByID(ctx, rows[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanPending, stored.Status)
	assert.True(t, stored.UpdatedAt.After(time.Time{}))

	_, err = env.progress.Record(ctx, "missing", 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
