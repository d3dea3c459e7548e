package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/studyplan/internal/contract"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/repository"
)

// groupLoader reads a full group definition through the pool. Callers must
// not use it inside a unit of work.
type groupLoader struct {
	groups   repository.PlanGroupRepo
	calendar repository.CalendarRepo
	contents repository.ContentRepo
}

func (l groupLoader) load(ctx context.Context, id string) (*GroupDetail, error) {
	g, err := l.groups.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &GroupDetail{Group: g}
	if d.Blocks, err = l.calendar.ListBlocks(ctx, id); err != nil {
		return nil, err
	}
	if d.Exclusions, err = l.calendar.ListExclusions(ctx, id); err != nil {
		return nil, err
	}
	if d.Academies, err = l.calendar.ListAcademies(ctx, id); err != nil {
		return nil, err
	}
	if d.Contents, err = l.contents.ListByGroup(ctx, id); err != nil {
		return nil, err
	}
	return d, nil
}

// buildPlanRequest maps a stored group onto an engine request.
func buildPlanRequest(d *GroupDetail, factors contract.FactorOverrides, policy *domain.ShortfallPolicy) contract.PlanRequest {
	g := d.Group
	req := contract.NewPlanRequest(domain.FormatDate(g.PeriodStart), domain.FormatDate(g.PeriodEnd))
	req.StudyDays = g.StudyDays
	req.ReviewDays = g.ReviewDays
	req.StudentLevel = g.StudentLevel
	req.ShortfallPolicy = g.ShortfallPolicy
	if policy != nil {
		req.ShortfallPolicy = *policy
	}
	req.Blocks = d.Blocks
	req.Exclusions = d.Exclusions
	req.Academies = d.Academies
	req.Contents = d.Contents
	req.SubjectAllocations = g.SubjectAllocations
	req.Factors = factors
	req.Windows = contract.WindowSettings{
		Lunch:                  g.Lunch,
		StudyHours:             g.StudyHours,
		SelfStudyHours:         g.SelfStudyHours,
		EnableSelfStudy:        g.SelfStudyEnabled,
		EnableHolidaySelfStudy: g.HolidaySelfStudy,
	}
	if ap := g.AdditionalPeriod; ap != nil {
		req.AdditionalPeriod = &contract.AdditionalPeriodRequest{
			PeriodStart:          domain.FormatDate(ap.PeriodStart),
			PeriodEnd:            domain.FormatDate(ap.PeriodEnd),
			OriginalStart:        domain.FormatDate(ap.OriginalStart),
			OriginalEnd:          domain.FormatDate(ap.OriginalEnd),
			Subjects:             ap.Subjects,
			ReviewOfReviewFactor: ap.ReviewOfReviewFactor,
		}
	}
	return req
}

// planEnd is the last date the group's plan can touch.
func planEnd(g *domain.PlanGroup) time.Time {
	if g.AdditionalPeriod != nil && g.AdditionalPeriod.PeriodEnd.After(g.PeriodEnd) {
		return g.AdditionalPeriod.PeriodEnd
	}
	return g.PeriodEnd
}

// rowsToBookings turns persisted rows into occupied time for the engine.
func rowsToBookings(rows []*domain.PlanRow) []contract.Booking {
	out := make([]contract.Booking, 0, len(rows))
	for _, r := range rows {
		if r.Status == domain.PlanCanceled {
			continue
		}
		out = append(out, contract.Booking{
			Date:  domain.FormatDate(r.PlanDate),
			Range: domain.TimeRange{Start: r.StartTime, End: r.EndTime},
		})
	}
	return out
}

// withoutTouchedSessions drops new rows for a (date, content, kind) that
// already has a row with recorded progress.
func withoutTouchedSessions(rows, touched []*domain.PlanRow) []*domain.PlanRow {
	if len(touched) == 0 {
		return rows
	}
	key := func(r *domain.PlanRow) string {
		return domain.FormatDate(r.PlanDate) + "|" + r.ContentID + "|" + string(r.Kind)
	}
	taken := make(map[string]bool, len(touched))
	for _, r := range touched {
		taken[key(r)] = true
	}
	out := rows[:0:0]
	for _, r := range rows {
		if !taken[key(r)] {
			out = append(out, r)
		}
	}
	return out
}

// segmentsToRows builds pending rows for a computed timeline.
func segmentsToRows(groupID string, segs []domain.TimelineSegment, now time.Time) []*domain.PlanRow {
	rows := make([]*domain.PlanRow, 0, len(segs))
	for _, s := range segs {
		rows = append(rows, &domain.PlanRow{
			ID:           uuid.New().String(),
			GroupID:      groupID,
			ContentID:    s.ContentID,
			PlanDate:     s.Date,
			BlockIndex:   s.BlockIndex,
			StartTime:    s.Start,
			EndTime:      s.End,
			PlannedStart: s.StartUnit,
			PlannedEnd:   s.EndUnit,
			Status:       domain.PlanPending,
			Kind:         s.Kind,
			IsPartial:    s.IsPartial,
			IsContinued:  s.IsContinued,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return rows
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
