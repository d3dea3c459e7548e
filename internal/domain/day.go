package domain

import "time"

// DayKind is the tagged variant of a classified date. Variant data is only
// reachable after a type switch on the concrete kind.
type DayKind interface {
	dayKind()
}

// StudyDay is an active date inside the study part of a cycle.
type StudyDay struct {
	CycleDayNumber int
	CycleNumber    int
}

// ReviewDay is an active date inside the review part of a cycle.
type ReviewDay struct {
	CycleDayNumber int
	CycleNumber    int
}

// ExcludedDay is a date removed from cycle counting.
type ExcludedDay struct {
	Exclusion   Exclusion
	CycleNumber int
}

func (StudyDay) dayKind()    {}
func (ReviewDay) dayKind()   {}
func (ExcludedDay) dayKind() {}

// DayRecord is one calendar date of a scheduling run.
type DayRecord struct {
	Date       time.Time
	Kind       DayKind
	Ranges     []TimeRange
	SelfStudy  []TimeRange
	Slots      []TimeSlot
	WeekNumber int
}

func (d DayRecord) Type() DayType {
	switch k := d.Kind.(type) {
	case StudyDay:
		return DayStudy
	case ReviewDay:
		return DayReview
	case ExcludedDay:
		return k.Exclusion.Type.DayType()
	}
	return ""
}

// CycleDayNumber is the 1-based position within the cycle, 0 when excluded.
func (d DayRecord) CycleDayNumber() int {
	switch k := d.Kind.(type) {
	case StudyDay:
		return k.CycleDayNumber
	case ReviewDay:
		return k.CycleDayNumber
	}
	return 0
}

func (d DayRecord) CycleNumber() int {
	switch k := d.Kind.(type) {
	case StudyDay:
		return k.CycleNumber
	case ReviewDay:
		return k.CycleNumber
	case ExcludedDay:
		return k.CycleNumber
	}
	return 0
}

func (d DayRecord) IsActive() bool {
	switch d.Kind.(type) {
	case StudyDay, ReviewDay:
		return true
	}
	return false
}

// AvailableMinutes sums the primary ranges.
func (d DayRecord) AvailableMinutes() int {
	return SumMinutes(d.Ranges)
}

// SumMinutes totals the length of ranges.
func SumMinutes(ranges []TimeRange) int {
	total := 0
	for _, r := range ranges {
		total += r.Minutes()
	}
	return total
}
