package domain

import (
	"fmt"
	"time"
)

type Allocation struct {
	ContentID string
	Date      time.Time
}

type RangeAssignment struct {
	ContentID string
	Date      time.Time
	StartUnit int
	EndUnit   int
}

func (a RangeAssignment) Extent() int {
	return a.EndUnit - a.StartUnit
}

type DurationEstimate struct {
	ContentID string
	Date      time.Time
	Kind      SessionKind
	Minutes   int
}

// TimelineSegment is the final output unit of a scheduling run.
type TimelineSegment struct {
	ContentID   string
	Date        time.Time
	Start       Clock
	End         Clock
	IsPartial   bool
	IsContinued bool
	BlockIndex  int
	StartUnit   int
	EndUnit     int
	Kind        SessionKind
}

func (s TimelineSegment) Minutes() int {
	return int(s.End - s.Start)
}

// PlanGroup is one student's stored scheduling configuration.
type PlanGroup struct {
	ID           string
	Name         string
	PeriodStart  time.Time
	PeriodEnd    time.Time
	StudyDays    int
	ReviewDays   int
	StudentLevel StudentLevel

	// nil windows fall back to the planner defaults.
	Lunch            *TimeRange
	StudyHours       *TimeRange
	SelfStudyHours   *TimeRange
	SelfStudyEnabled bool
	HolidaySelfStudy bool

	ShortfallPolicy    ShortfallPolicy
	AdditionalPeriod   *AdditionalPeriod
	SubjectAllocations []SubjectAllocation

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AdditionalPeriod re-reviews material from an original period.
type AdditionalPeriod struct {
	PeriodStart          time.Time
	PeriodEnd            time.Time
	OriginalStart        time.Time
	OriginalEnd          time.Time
	Subjects             []string
	ReviewOfReviewFactor *float64
}

// PlanRow is a persisted timeline segment.
type PlanRow struct {
	ID              string
	GroupID         string
	ContentID       string
	PlanDate        time.Time
	BlockIndex      int
	StartTime       Clock
	EndTime         Clock
	PlannedStart    int
	PlannedEnd      int
	CompletedAmount int
	Status          PlanStatus
	Kind            SessionKind
	IsPartial       bool
	IsContinued     bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Span is the planned unit extent of the row.
func (r PlanRow) Span() int {
	return r.PlannedEnd - r.PlannedStart
}

// RecordProgress sets the completed amount, clamped to the row span, and
// derives the status from it.
func (r *PlanRow) RecordProgress(amount int, now time.Time) error {
	if r.Status == PlanCanceled {
		return fmt.Errorf("plan row %s is canceled", r.ID)
	}
	span := r.Span()
	if amount < 0 {
		amount = 0
	}
	if amount > span {
		amount = span
	}
	r.CompletedAmount = amount
	switch {
	case span > 0 && amount == span:
		r.Status = PlanCompleted
	case amount > 0:
		r.Status = PlanInProgress
	default:
		r.Status = PlanPending
	}
	r.UpdatedAt = now
	return nil
}

// HistoricalRow is the slice of a plan row the reschedule pass reads.
type HistoricalRow struct {
	ContentID       string
	PlannedStart    int
	PlannedEnd      int
	CompletedAmount int
}

type UncompletedBounds struct {
	ContentID        string
	StartUnit        int
	EndUnit          int
	TotalUncompleted int
}
