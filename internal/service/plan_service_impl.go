package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/studyplan/internal/contract"
	"github.com/alexanderramin/studyplan/internal/db"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/repository"
	"github.com/alexanderramin/studyplan/internal/scheduler"
)

// PlanOptions carries configured engine settings into the plan services.
type PlanOptions struct {
	Factors          contract.FactorOverrides
	BatchConcurrency int
}

type planService struct {
	loader   groupLoader
	rows     repository.PlanRowRepo
	uow      db.UnitOfWork
	planner  *scheduler.Planner
	opts     PlanOptions
	observer UseCaseObserver
}

func NewPlanService(
	groups repository.PlanGroupRepo,
	calendar repository.CalendarRepo,
	contents repository.ContentRepo,
	rows repository.PlanRowRepo,
	uow db.UnitOfWork,
	planner *scheduler.Planner,
	opts PlanOptions,
	observers ...UseCaseObserver,
) PlanService {
	if opts.BatchConcurrency <= 0 {
		opts.BatchConcurrency = 1
	}
	return &planService{
		loader:   groupLoader{groups: groups, calendar: calendar, contents: contents},
		rows:     rows,
		uow:      uow,
		planner:  planner,
		opts:     opts,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *planService) Preview(ctx context.Context, groupID string, policy *domain.ShortfallPolicy) (resp *contract.PlanResponse, err error) {
	fields := map[string]any{"group_id": groupID}
	defer observe(ctx, s.observer, "preview-plan", fields)(&err)

	resp, _, err = s.compute(ctx, groupID, policy)
	if err != nil {
		return nil, err
	}
	fields["segments"] = len(resp.Segments)
	fields["diagnostics"] = len(resp.Diagnostics)
	return resp, nil
}

func (s *planService) Commit(ctx context.Context, groupID string, policy *domain.ShortfallPolicy) (result *contract.CommitResult, err error) {
	fields := map[string]any{"group_id": groupID}
	defer observe(ctx, s.observer, "commit-plan", fields)(&err)

	resp, detail, err := s.compute(ctx, groupID, policy)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result = &contract.CommitResult{GroupID: groupID, Plan: resp}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txRows := repository.NewSQLitePlanRowRepo(tx)
		removed, err := txRows.DeletePendingFrom(ctx, groupID, detail.Group.PeriodStart, nil)
		if err != nil {
			return err
		}
		result.RemovedRows = removed

		// Rows with progress survive the delete; their sessions are not
		// written again.
		touched, err := txRows.ListByGroup(ctx, groupID, repository.PlanRowFilter{
			From:     detail.Group.PeriodStart,
			Statuses: []domain.PlanStatus{domain.PlanInProgress, domain.PlanCompleted},
		})
		if err != nil {
			return err
		}
		rows := withoutTouchedSessions(segmentsToRows(groupID, resp.Segments, now), touched)
		result.CreatedRows = len(rows)
		if err := txRows.CreateBatch(ctx, rows); err != nil {
			return fmt.Errorf("saving plan rows: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["removed_rows"] = result.RemovedRows
	fields["created_rows"] = result.CreatedRows
	return result, nil
}

// PreviewBatch previews several groups concurrently. Results keep the input
// order; the first failure cancels the rest.
func (s *planService) PreviewBatch(ctx context.Context, groupIDs []string, policy *domain.ShortfallPolicy) (out []*contract.PlanResponse, err error) {
	defer observe(ctx, s.observer, "preview-batch", map[string]any{
		"groups":      len(groupIDs),
		"concurrency": s.opts.BatchConcurrency,
	})(&err)

	out = make([]*contract.PlanResponse, len(groupIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.BatchConcurrency)
	for i, id := range groupIDs {
		g.Go(func() error {
			resp, _, err := s.compute(gctx, id, policy)
			if err != nil {
				return fmt.Errorf("group %s: %w", id, err)
			}
			out[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *planService) ListRows(ctx context.Context, groupID string, from, to string) ([]*domain.PlanRow, error) {
	if _, err := s.loader.groups.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	var f repository.PlanRowFilter
	var err error
	if from != "" {
		if f.From, err = domain.ParseDate(from); err != nil {
			return nil, fmt.Errorf("from date: %w", err)
		}
	}
	if to != "" {
		if f.To, err = domain.ParseDate(to); err != nil {
			return nil, fmt.Errorf("to date: %w", err)
		}
	}
	return s.rows.ListByGroup(ctx, groupID, f)
}

// compute loads the group, books time taken by other groups and runs the
// engine.
func (s *planService) compute(ctx context.Context, groupID string, policy *domain.ShortfallPolicy) (*contract.PlanResponse, *GroupDetail, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	detail, err := s.loader.load(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	others, err := s.rows.ListOtherGroups(ctx, groupID, detail.Group.PeriodStart, planEnd(detail.Group))
	if err != nil {
		return nil, nil, err
	}

	req := buildPlanRequest(detail, s.opts.Factors, policy)
	req.Bookings = rowsToBookings(others)

	resp, err := s.planner.Plan(req)
	if err != nil {
		return nil, nil, err
	}
	return resp, detail, nil
}
