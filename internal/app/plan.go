package app

import (
	"github.com/alexanderramin/studyplan/internal/domain"
)

// WindowSettings are the fixed daily windows applied on top of blocks.
// nil ranges fall back to the planner defaults.
type WindowSettings struct {
	Lunch          *domain.TimeRange
	NonStudy       []domain.TimeRange
	StudyHours     *domain.TimeRange // used when the request has no blocks
	SelfStudyHours *domain.TimeRange
	HolidayHours   *domain.TimeRange

	EnableSelfStudy        bool
	EnableHolidaySelfStudy bool

	// Study windows granted to excluded dates, by exclusion type.
	ExclusionWindows map[domain.ExclusionType]domain.TimeRange
}

// Booking is time already taken on a date by other committed plans.
type Booking struct {
	Date  string
	Range domain.TimeRange
}

type AdditionalPeriodRequest struct {
	PeriodStart          string
	PeriodEnd            string
	OriginalStart        string
	OriginalEnd          string
	Subjects             []string
	ReviewOfReviewFactor *float64
}

// FactorOverrides replace individual duration factors; nil keeps the default.
type FactorOverrides struct {
	LevelHigh      *float64
	LevelMedium    *float64
	LevelLow       *float64
	Weakness       *float64
	Strategy       *float64
	Difficulty     *float64
	Review         *float64
	ReviewOfReview *float64
}

type PlanRequest struct {
	PeriodStart  string
	PeriodEnd    string
	StudyDays    int
	ReviewDays   int
	StudentLevel domain.StudentLevel

	Blocks             []domain.RecurringBlock
	Exclusions         []domain.Exclusion
	Academies          []domain.AcademyConflict
	Contents           []domain.ContentItem
	SubjectAllocations []domain.SubjectAllocation

	Windows          WindowSettings
	Bookings         []Booking
	Factors          FactorOverrides
	ShortfallPolicy  domain.ShortfallPolicy
	AdditionalPeriod *AdditionalPeriodRequest
}

func NewPlanRequest(periodStart, periodEnd string) PlanRequest {
	return PlanRequest{
		PeriodStart:     periodStart,
		PeriodEnd:       periodEnd,
		StudyDays:       6,
		ReviewDays:      1,
		StudentLevel:    domain.LevelMedium,
		ShortfallPolicy: domain.ShortfallReport,
	}
}

type DayPlan struct {
	Date           string
	Weekday        string
	DayType        domain.DayType
	CycleNumber    int
	CycleDayNumber int
	WeekNumber     int
	Additional     bool

	AvailableMin int
	SelfStudyMin int
	ScheduledMin int

	Ranges    []domain.TimeRange
	SelfStudy []domain.TimeRange
	Slots     []domain.TimeSlot
	Segments  []domain.TimelineSegment
}

type AcademyStat struct {
	Label               string
	Subject             string
	WeeklySessions      int
	WeeklyMinutes       int
	WeeklyTravelMinutes int
}

type AvailabilitySummary struct {
	TotalDays        int
	StudyDays        int
	ReviewDays       int
	ExcludedDays     int
	ZeroCapacityDays int
	ExclusionCounts  map[domain.ExclusionType]int
	StudyMinutes     int
	SelfStudyMinutes int
	Academies        []AcademyStat
}

type PlanResponse struct {
	Days        []DayPlan
	Segments    []domain.TimelineSegment
	Allocations []domain.Allocation
	Assignments []domain.RangeAssignment
	Estimates   []domain.DurationEstimate
	Diagnostics []Diagnostic
	Summary     AvailabilitySummary
}

// ScheduledMinutes totals every segment in the plan.
func (r *PlanResponse) ScheduledMinutes() int {
	total := 0
	for _, s := range r.Segments {
		total += s.Minutes()
	}
	return total
}
