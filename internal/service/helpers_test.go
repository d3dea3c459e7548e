package service

import (
	"context"
	"database/sql"
	"sync"
	"time"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/studyplan/internal/contract"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/importer"
	"github.com/alexanderramin/studyplan/internal/repository"
	"github.com/alexanderramin/studyplan/internal/scheduler"
	"github.com/alexanderramin/studyplan/internal/testutil"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}

type testEnv struct {
	db       *sql.DB
	groups   *repository.SQLitePlanGroupRepo
	calendar *repository.SQLiteCalendarRepo
	contents *repository.SQLiteContentRepo
	rows     *repository.SQLitePlanRowRepo
	cache    *scheduler.MetadataCache
	observer *recordingObserver

	imports    ImportService
	plans      PlanService
	reschedule RescheduleService
	progress   ProgressService
	groupSvc   GroupService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	env := &testEnv{
		db:       database,
		groups:   repository.NewSQLitePlanGroupRepo(database),
		calendar: repository.NewSQLiteCalendarRepo(database),
		contents: repository.NewSQLiteContentRepo(database),
		rows:     repository.NewSQLitePlanRowRepo(database),
		cache:    scheduler.NewMetadataCache(),
		observer: &recordingObserver{},
	}
	planner := scheduler.NewPlanner(scheduler.WithMetadataCache(env.cache))
	opts := PlanOptions{BatchConcurrency: 2}

	env.imports = NewImportService(uow, importer.DefaultDefaults(), env.observer)
	env.plans = NewPlanService(env.groups, env.calendar, env.contents, env.rows, uow, planner, opts, env.observer)
	env.reschedule = NewRescheduleService(env.groups, env.calendar, env.contents, env.rows, uow, planner, opts, env.observer)
	env.progress = NewProgressService(uow, env.observer)
	env.groupSvc = NewGroupService(env.groups, env.calendar, env.contents, env.cache)
	return env
}

// weekSchema is one Monday-to-Sunday week with a 60-page weakness book:
// 24 minutes on each of six study days and a 58 minute review on Sunday.
func weekSchema(name, contentID string) *importer.ImportSchema {
	return &importer.ImportSchema{
		Group: importer.GroupImport{
			Name:        name,
			PeriodStart: "2025-03-03",
			PeriodEnd:   "2025-03-09",
		},
		Contents: []importer.ContentImport{{
			ID:          contentID,
			Type:        "book",
			Title:       "Algebra",
			Subject:     "math",
			SubjectType: "weakness",
			TotalExtent: 60,
		}},
	}
}

func (e *testEnv) importWeek(t *testing.T, name, contentID string) *domain.PlanGroup {
	t.Helper()
	res, err := e.imports.ImportGroupFromSchema(context.Background(), weekSchema(name, contentID))
	require.NoError(t, err)
	return res.Group
}

func segmentsOn(resp *contract.PlanResponse, date string) []domain.TimelineSegment {
	var out []domain.TimelineSegment
	for _, s := range resp.Segments {
		if domain.FormatDate(s.Date) == date {
			out = append(out, s)
		}
	}
	return out
}

func testDate(s string) time.Time {
	return testutil.Date(s)
}
