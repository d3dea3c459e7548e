package domain

import "time"

// DefaultTravelMinutes applies to academy conflicts that omit travel time.
const DefaultTravelMinutes = 60

// RecurringBlock is a weekly free-time block.
type RecurringBlock struct {
	ID        string
	DayOfWeek time.Weekday
	Range     TimeRange
}

// Exclusion removes a date from normal cycle counting.
type Exclusion struct {
	Date   time.Time
	Type   ExclusionType
	Reason string
}

// AcademyConflict is a recurring lesson that blocks part of a weekday.
type AcademyConflict struct {
	ID            string
	DayOfWeek     time.Weekday
	Range         TimeRange
	Label         string
	Subject       string
	TravelMinutes *int
}

// Travel returns the one-way travel time, applying the default when unset.
func (a AcademyConflict) Travel() int {
	return IntFromPtrWithDefault(DefaultTravelMinutes, a.TravelMinutes)
}

// Blocked returns the span removed from the day: the lesson widened by
// travel on both sides, clipped to the day.
func (a AcademyConflict) Blocked() TimeRange {
	t := Clock(a.Travel())
	r := TimeRange{Start: a.Range.Start - t, End: a.Range.End + t}
	if r.Start < 0 {
		r.Start = 0
	}
	if r.End > MinutesPerDay {
		r.End = MinutesPerDay
	}
	return r
}

// TimeSlot is a labelled span of a day used for display.
type TimeSlot struct {
	Kind  SlotKind
	Range TimeRange
	Label string
}
