package scheduler

import (
	"sort"
	"time"

	"github.com/alexanderramin/studyplan/internal/contract"
	"github.com/alexanderramin/studyplan/internal/domain"
)

// Windows are the fixed daily windows applied on top of recurring blocks.
type Windows struct {
	Lunch          *domain.TimeRange
	NonStudy       []domain.TimeRange
	StudyHours     domain.TimeRange
	SelfStudyHours domain.TimeRange
	HolidayHours   domain.TimeRange

	EnableSelfStudy bool

	// Study windows granted to excluded dates, by exclusion type.
	ExclusionWindows map[domain.ExclusionType]domain.TimeRange
}

// DefaultWindows returns the camp-style defaults: study 10:00-19:00,
// lunch 12:00-13:00, self-study 19:00-22:00, holiday study 13:00-19:00.
func DefaultWindows() Windows {
	lunch := domain.MustTimeRange("12:00", "13:00")
	return Windows{
		Lunch:          &lunch,
		StudyHours:     domain.MustTimeRange("10:00", "19:00"),
		SelfStudyHours: domain.MustTimeRange("19:00", "22:00"),
		HolidayHours:   domain.MustTimeRange("13:00", "19:00"),
	}
}

// ResolveWindows layers request settings over DefaultWindows.
func ResolveWindows(s contract.WindowSettings) Windows {
	w := DefaultWindows()
	if s.Lunch != nil {
		lunch := *s.Lunch
		w.Lunch = &lunch
	}
	w.NonStudy = append([]domain.TimeRange(nil), s.NonStudy...)
	w.StudyHours = domain.RangeFromPtrWithDefault(w.StudyHours, s.StudyHours)
	w.SelfStudyHours = domain.RangeFromPtrWithDefault(w.SelfStudyHours, s.SelfStudyHours)
	w.HolidayHours = domain.RangeFromPtrWithDefault(w.HolidayHours, s.HolidayHours)
	w.EnableSelfStudy = s.EnableSelfStudy

	w.ExclusionWindows = make(map[domain.ExclusionType]domain.TimeRange, len(s.ExclusionWindows)+1)
	for t, r := range s.ExclusionWindows {
		w.ExclusionWindows[t] = r
	}
	if _, ok := w.ExclusionWindows[domain.ExclusionDesignatedHoliday]; !ok && s.EnableHolidaySelfStudy {
		w.ExclusionWindows[domain.ExclusionDesignatedHoliday] = w.HolidayHours
	}
	return w
}

type namedRange struct {
	name string
	r    domain.TimeRange
}

func (w Windows) validate() error {
	checks := []namedRange{
		{"study hours", w.StudyHours},
		{"self-study hours", w.SelfStudyHours},
		{"holiday hours", w.HolidayHours},
	}
	if w.Lunch != nil {
		checks = append(checks, namedRange{"lunch", *w.Lunch})
	}
	for _, c := range checks {
		if !c.r.Valid() {
			return contract.NewConfigError(contract.ErrInvalidTimeRange, "%s %s must end after it starts", c.name, c.r)
		}
	}
	for _, r := range w.NonStudy {
		if !r.Valid() {
			return contract.NewConfigError(contract.ErrInvalidTimeRange, "non-study window %s must end after it starts", r)
		}
	}
	for t, r := range w.ExclusionWindows {
		if !r.Valid() {
			return contract.NewConfigError(contract.ErrInvalidTimeRange, "%s window %s must end after it starts", t, r)
		}
	}
	return nil
}

// AvailabilityInput is everything the availability builder reads.
type AvailabilityInput struct {
	Start      time.Time
	End        time.Time
	Blocks     []domain.RecurringBlock
	Exclusions []domain.Exclusion
	Academies  []domain.AcademyConflict
	Bookings   map[string][]domain.TimeRange // keyed by YYYY-MM-DD
	Windows    Windows
}

// DayAvailability is the free time of one date before cycle classification.
type DayAvailability struct {
	Date      time.Time
	Exclusion *domain.Exclusion
	Ranges    []domain.TimeRange
	SelfStudy []domain.TimeRange
	Slots     []domain.TimeSlot
}

// ExclusionIndex maps YYYY-MM-DD to its exclusion, rejecting duplicates and
// unknown types.
func ExclusionIndex(exclusions []domain.Exclusion) (map[string]domain.Exclusion, error) {
	idx := make(map[string]domain.Exclusion, len(exclusions))
	for _, e := range exclusions {
		if !e.Type.Valid() {
			return nil, contract.NewConfigError(contract.ErrInvalidExclusion, "exclusion on %s has unknown type %q", domain.FormatDate(e.Date), e.Type)
		}
		key := domain.FormatDate(e.Date)
		if _, dup := idx[key]; dup {
			return nil, contract.NewConfigError(contract.ErrDuplicateExclusion, "date %s is excluded more than once", key)
		}
		e.Date = domain.TruncateDate(e.Date)
		idx[key] = e
	}
	return idx, nil
}

// BuildAvailability produces one DayAvailability per date in [Start, End]
// plus the period summary.
func BuildAvailability(in AvailabilityInput) ([]DayAvailability, contract.AvailabilitySummary, error) {
	var summary contract.AvailabilitySummary
	if err := in.Windows.validate(); err != nil {
		return nil, summary, err
	}
	excluded, err := ExclusionIndex(in.Exclusions)
	if err != nil {
		return nil, summary, err
	}

	blocksByDay := make(map[time.Weekday][]domain.TimeRange)
	for _, b := range in.Blocks {
		if b.DayOfWeek < time.Sunday || b.DayOfWeek > time.Saturday {
			return nil, summary, contract.NewConfigError(contract.ErrInvalidTimeRange, "block has invalid day of week %d", b.DayOfWeek)
		}
		if !b.Range.Valid() {
			return nil, summary, contract.NewConfigError(contract.ErrInvalidTimeRange, "block %s on %s must end after it starts", b.Range, b.DayOfWeek)
		}
		blocksByDay[b.DayOfWeek] = append(blocksByDay[b.DayOfWeek], b.Range)
	}
	academiesByDay := make(map[time.Weekday][]domain.AcademyConflict)
	for _, a := range in.Academies {
		if !a.Range.Valid() || a.Travel() < 0 {
			return nil, summary, contract.NewConfigError(contract.ErrInvalidTimeRange, "academy %q %s on %s is invalid", a.Label, a.Range, a.DayOfWeek)
		}
		academiesByDay[a.DayOfWeek] = append(academiesByDay[a.DayOfWeek], a)
	}

	dates := domain.DatesBetween(in.Start, in.End)
	days := make([]DayAvailability, 0, len(dates))
	for _, date := range dates {
		key := domain.FormatDate(date)
		wd := date.Weekday()

		// Start from the weekday's blocks, or the fallback hours when the
		// group has none at all.
		var base []domain.TimeRange
		if len(in.Blocks) == 0 {
			base = []domain.TimeRange{in.Windows.StudyHours}
		} else {
			base = mergeRanges(blocksByDay[wd])
		}

		day := DayAvailability{Date: date}
		bookings := in.Bookings[key]

		// Excluded dates only get their type's window, if any.
		if ex, ok := excluded[key]; ok {
			day.Exclusion = &ex
			if w, ok := in.Windows.ExclusionWindows[ex.Type]; ok {
				day.Ranges = subtractAll([]domain.TimeRange{w}, bookings)
			}
			day.Slots = slotsFor(day.Ranges, nil, nil, nil)
			days = append(days, day)
			continue
		}

		var academyCuts []domain.TimeRange
		for _, a := range academiesByDay[wd] {
			academyCuts = append(academyCuts, a.Blocked())
		}
		fixedCuts := append([]domain.TimeRange(nil), in.Windows.NonStudy...)
		if in.Windows.Lunch != nil {
			fixedCuts = append(fixedCuts, *in.Windows.Lunch)
		}

		// Academies (with travel), fixed windows, then booked rows.
		cuts := make([]domain.TimeRange, 0, len(academyCuts)+len(fixedCuts)+len(bookings))
		cuts = append(cuts, academyCuts...)
		cuts = append(cuts, fixedCuts...)
		cuts = append(cuts, bookings...)
		day.Ranges = subtractAll(base, cuts)

		// Self-study never overlaps the primary blocks.
		if in.Windows.EnableSelfStudy {
			selfCuts := append(append([]domain.TimeRange(nil), cuts...), base...)
			day.SelfStudy = subtractAll([]domain.TimeRange{in.Windows.SelfStudyHours}, selfCuts)
		}

		var lunch *domain.TimeRange
		if in.Windows.Lunch != nil && len(base) > 0 {
			envelope := domain.TimeRange{Start: base[0].Start, End: base[len(base)-1].End}
			if envelope.Overlaps(*in.Windows.Lunch) {
				lunch = in.Windows.Lunch
			}
		}
		day.Slots = slotsFor(day.Ranges, day.SelfStudy, lunch, academiesByDay[wd])
		days = append(days, day)
	}

	summary = summarize(days, in.Academies)
	return days, summary, nil
}

// slotsFor labels a day's spans for display, ordered by start time.
func slotsFor(ranges, selfStudy []domain.TimeRange, lunch *domain.TimeRange, academies []domain.AcademyConflict) []domain.TimeSlot {
	var slots []domain.TimeSlot
	for _, r := range ranges {
		slots = append(slots, domain.TimeSlot{Kind: domain.SlotStudy, Range: r})
	}
	if lunch != nil {
		slots = append(slots, domain.TimeSlot{Kind: domain.SlotLunch, Range: *lunch})
	}
	for _, a := range academies {
		label := domain.CoalesceStr(a.Label, a.Subject)
		t := domain.Clock(a.Travel())
		blocked := a.Blocked()
		if t > 0 && blocked.Start < a.Range.Start {
			slots = append(slots, domain.TimeSlot{Kind: domain.SlotTravel, Range: domain.TimeRange{Start: blocked.Start, End: a.Range.Start}, Label: label})
		}
		slots = append(slots, domain.TimeSlot{Kind: domain.SlotAcademy, Range: a.Range, Label: label})
		if t > 0 && blocked.End > a.Range.End {
			slots = append(slots, domain.TimeSlot{Kind: domain.SlotTravel, Range: domain.TimeRange{Start: a.Range.End, End: blocked.End}, Label: label})
		}
	}
	for _, r := range selfStudy {
		slots = append(slots, domain.TimeSlot{Kind: domain.SlotSelfStudy, Range: r})
	}
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Range.Start != slots[j].Range.Start {
			return slots[i].Range.Start < slots[j].Range.Start
		}
		return slots[i].Range.End < slots[j].Range.End
	})
	return slots
}

func summarize(days []DayAvailability, academies []domain.AcademyConflict) contract.AvailabilitySummary {
	s := contract.AvailabilitySummary{
		TotalDays:       len(days),
		ExclusionCounts: make(map[domain.ExclusionType]int),
	}
	for _, d := range days {
		primary := domain.SumMinutes(d.Ranges)
		self := domain.SumMinutes(d.SelfStudy)
		s.StudyMinutes += primary
		s.SelfStudyMinutes += self
		if d.Exclusion != nil {
			s.ExcludedDays++
			s.ExclusionCounts[d.Exclusion.Type]++
			continue
		}
		if primary+self == 0 {
			s.ZeroCapacityDays++
		}
	}

	type key struct{ label, subject string }
	stats := make(map[key]*contract.AcademyStat)
	var order []key
	for _, a := range academies {
		k := key{a.Label, a.Subject}
		st, ok := stats[k]
		if !ok {
			st = &contract.AcademyStat{Label: a.Label, Subject: a.Subject}
			stats[k] = st
			order = append(order, k)
		}
		st.WeeklySessions++
		st.WeeklyMinutes += a.Range.Minutes()
		st.WeeklyTravelMinutes += a.Travel() * 2
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].label != order[j].label {
			return order[i].label < order[j].label
		}
		return order[i].subject < order[j].subject
	})
	for _, k := range order {
		s.Academies = append(s.Academies, *stats[k])
	}
	return s
}
