package scheduler

import (
	"sort"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
)

// Assignment is one content's work for a day, ready for packing.
type Assignment struct {
	ContentID   string
	SubjectType domain.SubjectType
	Priority    int
	Kind        domain.SessionKind
	Minutes     int
	StartUnit   int
	EndUnit     int
	// Continued marks a remainder carried from an earlier day.
	Continued bool
}

// unitAt maps minutes done within the assignment to a unit boundary with
// half-up rounding, so consecutive pieces never drift.
func (a Assignment) unitAt(done int) int {
	ext := a.EndUnit - a.StartUnit
	if a.Minutes <= 0 || done >= a.Minutes {
		return a.EndUnit
	}
	return a.StartUnit + (2*ext*done+a.Minutes)/(2*a.Minutes)
}

// Shortfall is the part of an assignment that found no capacity.
type Shortfall struct {
	ContentID string
	Required  int
	Placed    int
	Shortage  int
}

// DayTimeline is the packing result for one date.
type DayTimeline struct {
	Segments   []domain.TimelineSegment
	Shortfalls []Shortfall
	// Leftover holds unplaced remainders marked Continued, in input order.
	Leftover []Assignment
	Capacity int
}

// SortAssignments orders a day's work deterministically:
// 1. Explicit priority: lower first, unset (0) last
// 2. Subject type: weakness before strategy
// 3. Carried-over remainders before fresh work
// 4. Content ID: lexical ascending
func SortAssignments(as []Assignment) {
	sort.SliceStable(as, func(i, j int) bool {
		a, b := as[i], as[j]

		if (a.Priority == 0) != (b.Priority == 0) {
			return a.Priority != 0
		}
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}

		if subjectRank(a.SubjectType) != subjectRank(b.SubjectType) {
			return subjectRank(a.SubjectType) < subjectRank(b.SubjectType)
		}

		if a.Continued != b.Continued {
			return a.Continued
		}

		return a.ContentID < b.ContentID
	})
}

func subjectRank(t domain.SubjectType) int {
	if t == domain.SubjectWeakness {
		return 0
	}
	return 1
}

// BuildTimeline packs assignments, in the given order, into the primary
// ranges and then the self-study ranges. An assignment that outgrows its
// range is split: the cut piece is partial and every later piece is
// continued. Minutes that fit nowhere become a shortfall and a leftover.
func BuildTimeline(date time.Time, assignments []Assignment, primary, selfStudy []domain.TimeRange) DayTimeline {
	ranges := make([]domain.TimeRange, 0, len(primary)+len(selfStudy))
	ranges = append(ranges, primary...)
	ranges = append(ranges, selfStudy...)

	out := DayTimeline{Capacity: domain.SumMinutes(ranges)}
	idx := 0
	var cursor domain.Clock
	if len(ranges) > 0 {
		cursor = ranges[0].Start
	}
	// Each range gets a fresh cursor. Self-study can sit earlier in the day
	// than the last primary range.
	next := func() {
		idx++
		if idx < len(ranges) {
			cursor = ranges[idx].Start
		}
	}

	for _, a := range assignments {
		if a.Minutes <= 0 {
			continue
		}
		done := 0
		for done < a.Minutes && idx < len(ranges) {
			r := ranges[idx]
			free := int(r.End - cursor)
			if free <= 0 {
				next()
				continue
			}
			take := clamp(a.Minutes-done, 0, free)
			seg := domain.TimelineSegment{
				ContentID:   a.ContentID,
				Date:        date,
				Start:       cursor,
				End:         cursor + domain.Clock(take),
				IsContinued: done > 0 || a.Continued,
				StartUnit:   a.unitAt(done),
				Kind:        a.Kind,
			}
			done += take
			seg.EndUnit = a.unitAt(done)
			seg.IsPartial = done < a.Minutes
			out.Segments = append(out.Segments, seg)

			cursor += domain.Clock(take)
			if cursor >= r.End {
				next()
			}
		}

		if rest := a.Minutes - done; rest > 0 {
			out.Shortfalls = append(out.Shortfalls, Shortfall{
				ContentID: a.ContentID,
				Required:  a.Minutes,
				Placed:    done,
				Shortage:  rest,
			})
			left := a
			left.Minutes = rest
			left.StartUnit = a.unitAt(done)
			left.Continued = true
			out.Leftover = append(out.Leftover, left)
		}
	}

	// Pieces were emitted in fill order; number them by start time.
	sort.SliceStable(out.Segments, func(i, j int) bool {
		return out.Segments[i].Start < out.Segments[j].Start
	})
	for i := range out.Segments {
		out.Segments[i].BlockIndex = i + 1
	}
	return out
}

func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
