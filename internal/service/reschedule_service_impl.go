package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/studyplan/internal/contract"
	"github.com/alexanderramin/studyplan/internal/db"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/repository"
	"github.com/alexanderramin/studyplan/internal/scheduler"
)

type rescheduleService struct {
	loader   groupLoader
	rows     repository.PlanRowRepo
	uow      db.UnitOfWork
	planner  *scheduler.Planner
	opts     PlanOptions
	observer UseCaseObserver
}

func NewRescheduleService(
	groups repository.PlanGroupRepo,
	calendar repository.CalendarRepo,
	contents repository.ContentRepo,
	rows repository.PlanRowRepo,
	uow db.UnitOfWork,
	planner *scheduler.Planner,
	opts PlanOptions,
	observers ...UseCaseObserver,
) RescheduleService {
	return &rescheduleService{
		loader:   groupLoader{groups: groups, calendar: calendar, contents: contents},
		rows:     rows,
		uow:      uow,
		planner:  planner,
		opts:     opts,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Reschedule moves unfinished past work forward. Open rows before today (or
// through today with IncludeToday) are folded into per-content remainders,
// the selected contents are replanned from the replan date, and the old rows
// are canceled in the same transaction that stores the new ones.
func (s *rescheduleService) Reschedule(ctx context.Context, req contract.RescheduleRequest) (resp *contract.RescheduleResponse, err error) {
	fields := map[string]any{"group_id": req.GroupID, "today": req.Today, "dry_run": req.DryRun}
	defer observe(ctx, s.observer, "reschedule", fields)(&err)

	today, err := domain.ParseDate(req.Today)
	if err != nil {
		return nil, contract.NewConfigError(contract.ErrInvalidPeriod, "today: %v", err)
	}
	replanFrom := today
	if req.IncludeToday {
		replanFrom = today.AddDate(0, 0, 1)
	}

	detail, err := s.loader.load(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	group := *detail.Group
	if err := applyNewPeriod(&group, req.PeriodStart, req.PeriodEnd); err != nil {
		return nil, err
	}

	selected, err := selectContents(detail.Contents, req.ContentIDs)
	if err != nil {
		return nil, err
	}
	pick := make(map[string]bool, len(selected))
	for _, c := range selected {
		pick[c.ID] = true
	}

	open, err := s.rows.ListOpenBefore(ctx, req.GroupID, today, req.IncludeToday)
	if err != nil {
		return nil, err
	}
	// Rows on or after the replan date that already carry progress survive
	// DeletePendingFrom. In-progress ones are folded into the history like
	// past rows; completed ones stay and block their slot.
	touched, err := s.rows.ListByGroup(ctx, req.GroupID, repository.PlanRowFilter{
		From:     replanFrom,
		Statuses: []domain.PlanStatus{domain.PlanInProgress, domain.PlanCompleted},
	})
	if err != nil {
		return nil, err
	}
	var finished []*domain.PlanRow
	for _, r := range touched {
		if !pick[r.ContentID] {
			continue
		}
		if r.Status == domain.PlanInProgress {
			open = append(open, r)
		} else {
			finished = append(finished, r)
		}
	}

	var history []domain.HistoricalRow
	var cancelIDs []string
	for _, r := range open {
		if !pick[r.ContentID] {
			continue
		}
		cancelIDs = append(cancelIDs, r.ID)
		if r.Kind != domain.SessionStudy {
			continue
		}
		history = append(history, domain.HistoricalRow{
			ContentID:       r.ContentID,
			PlannedStart:    r.PlannedStart,
			PlannedEnd:      r.PlannedEnd,
			CompletedAmount: r.CompletedAmount,
		})
	}
	bounds := scheduler.CalculateUncompletedBounds(history)

	done, err := s.rows.ListByGroup(ctx, req.GroupID, repository.PlanRowFilter{
		To:       replanFrom.AddDate(0, 0, -1),
		Statuses: []domain.PlanStatus{domain.PlanCompleted},
	})
	if err != nil {
		return nil, err
	}
	advanced := advanceToFrontier(selected, done, bounds)
	adjusted := scheduler.ApplyUncompletedBounds(advanced, bounds, nil)

	// Rows of unselected contents keep their slots and block that time.
	var kept []*domain.PlanRow
	if len(req.ContentIDs) > 0 {
		own, err := s.rows.ListByGroup(ctx, req.GroupID, repository.PlanRowFilter{From: replanFrom})
		if err != nil {
			return nil, err
		}
		for _, r := range own {
			if !pick[r.ContentID] {
				kept = append(kept, r)
			}
		}
	}
	others, err := s.rows.ListOtherGroups(ctx, req.GroupID, replanFrom, planEnd(&group))
	if err != nil {
		return nil, err
	}

	catchUp := &GroupDetail{
		Group:      &group,
		Blocks:     detail.Blocks,
		Exclusions: detail.Exclusions,
		Academies:  detail.Academies,
		Contents:   adjusted,
	}
	planReq := buildPlanRequest(catchUp, s.opts.Factors, nil)
	if replanFrom.After(group.PeriodStart) {
		planReq.PeriodStart = domain.FormatDate(replanFrom)
	}
	if ap := group.AdditionalPeriod; ap != nil && ap.PeriodStart.Before(replanFrom) {
		planReq.AdditionalPeriod = nil
	}
	planReq.Bookings = append(rowsToBookings(others), rowsToBookings(kept)...)
	planReq.Bookings = append(planReq.Bookings, rowsToBookings(finished)...)

	plan, err := s.planner.Plan(planReq)
	if err != nil {
		return nil, err
	}

	resp = &contract.RescheduleResponse{
		GroupID:    req.GroupID,
		ReplanFrom: domain.FormatDate(replanFrom),
		Bounds:     bounds,
		Adjusted:   adjusted,
		Plan:       plan,
	}
	now := time.Now().UTC()
	newRows := segmentsToRows(req.GroupID, plan.Segments, now)
	resp.CreatedRows = len(newRows)
	fields["bounds"] = len(bounds)
	fields["created_rows"] = len(newRows)
	if req.DryRun {
		resp.CanceledRows = len(cancelIDs)
		return resp, nil
	}

	var deleteFor []string
	if len(req.ContentIDs) > 0 {
		deleteFor = make([]string, 0, len(selected))
		for _, c := range selected {
			deleteFor = append(deleteFor, c.ID)
		}
	}
	periodChanged := !group.PeriodStart.Equal(detail.Group.PeriodStart) || !group.PeriodEnd.Equal(detail.Group.PeriodEnd)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txRows := repository.NewSQLitePlanRowRepo(tx)
		txContents := repository.NewSQLiteContentRepo(tx)
		txGroups := repository.NewSQLitePlanGroupRepo(tx)

		canceled, err := txRows.Cancel(ctx, cancelIDs, now)
		if err != nil {
			return err
		}
		resp.CanceledRows = canceled

		removed, err := txRows.DeletePendingFrom(ctx, req.GroupID, replanFrom, deleteFor)
		if err != nil {
			return err
		}
		resp.RemovedRows = removed

		if err := txRows.CreateBatch(ctx, newRows); err != nil {
			return fmt.Errorf("saving rescheduled rows: %w", err)
		}
		for _, c := range adjusted {
			if err := txContents.UpdateRange(ctx, c.ID, c.StartUnit, c.TotalExtent); err != nil {
				return err
			}
		}
		if periodChanged {
			group.UpdatedAt = now
			if err := txGroups.Update(ctx, &group); err != nil {
				return fmt.Errorf("updating group period: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["canceled_rows"] = resp.CanceledRows
	return resp, nil
}

func applyNewPeriod(g *domain.PlanGroup, start, end *string) error {
	if start != nil {
		d, err := domain.ParseDate(*start)
		if err != nil {
			return contract.NewConfigError(contract.ErrInvalidPeriod, "period start: %v", err)
		}
		g.PeriodStart = d
	}
	if end != nil {
		d, err := domain.ParseDate(*end)
		if err != nil {
			return contract.NewConfigError(contract.ErrInvalidPeriod, "period end: %v", err)
		}
		g.PeriodEnd = d
	}
	if g.PeriodEnd.Before(g.PeriodStart) {
		return contract.NewConfigError(contract.ErrEmptyPeriod, "period ends %s before it starts %s",
			domain.FormatDate(g.PeriodEnd), domain.FormatDate(g.PeriodStart))
	}
	return nil
}

// selectContents returns the contents named by ids, or all of them when ids
// is empty.
func selectContents(all []domain.ContentItem, ids []string) ([]domain.ContentItem, error) {
	if len(ids) == 0 {
		return all, nil
	}
	byID := make(map[string]domain.ContentItem, len(all))
	for _, c := range all {
		byID[c.ID] = c
	}
	out := make([]domain.ContentItem, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		c, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("content %s: %w", id, repository.ErrNotFound)
		}
		if !seen[id] {
			out = append(out, c)
			seen[id] = true
		}
	}
	return out, nil
}

// advanceToFrontier moves contents with no open remainder past the units
// already completed, so finished work is not planned again.
func advanceToFrontier(contents []domain.ContentItem, completed []*domain.PlanRow, bounds []domain.UncompletedBounds) []domain.ContentItem {
	open := make(map[string]bool, len(bounds))
	for _, b := range bounds {
		if b.TotalUncompleted > 0 {
			open[b.ContentID] = true
		}
	}
	frontier := make(map[string]int)
	for _, r := range completed {
		if r.Kind == domain.SessionStudy && r.PlannedEnd > frontier[r.ContentID] {
			frontier[r.ContentID] = r.PlannedEnd
		}
	}

	out := make([]domain.ContentItem, len(contents))
	for i, c := range contents {
		out[i] = c
		f, ok := frontier[c.ID]
		if !ok || open[c.ID] || f <= c.StartUnit {
			continue
		}
		end := c.EndUnit()
		if f > end {
			f = end
		}
		out[i].StartUnit = f
		out[i].TotalExtent = end - f
	}
	return out
}
