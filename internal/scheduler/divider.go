package scheduler

import (
	"fmt"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
)

// UnitRange is a half-open span of content units.
type UnitRange struct {
	Start int
	End   int
}

// Extent is the number of units in the range.
func (r UnitRange) Extent() int {
	return r.End - r.Start
}

// DivideRange splits total units into count consecutive pieces. Each
// boundary is the rounded ideal cumulative share and the last boundary is
// pinned to total, so the pieces always sum to total exactly.
func DivideRange(total, count int) []UnitRange {
	if count <= 0 {
		return nil
	}
	pieces := make([]UnitRange, count)
	prev := 0
	// Round each cumulative share half up. The last piece absorbs drift.
	for i := 0; i < count; i++ {
		boundary := (2*total*(i+1) + count) / (2 * count)
		if i == count-1 {
			boundary = total
		}
		pieces[i] = UnitRange{Start: prev, End: boundary}
		prev = boundary
	}

	// Verify the pieces tile [0, total).
	sum := 0
	for _, p := range pieces {
		if p.End < p.Start {
			panic(fmt.Sprintf("scheduler: divided range %d/%d produced decreasing boundary %v", total, count, p))
		}
		sum += p.Extent()
	}
	if sum != total {
		panic(fmt.Sprintf("scheduler: divided range %d/%d sums to %d", total, count, sum))
	}
	return pieces
}

// AssignRanges spreads a content's extent over its allocated dates, offset
// by the content's start unit.
func AssignRanges(c domain.ContentItem, dates []time.Time) []domain.RangeAssignment {
	return assignSpan(c.ID, UnitRange{Start: c.StartUnit, End: c.EndUnit()}, dates)
}

func assignSpan(contentID string, span UnitRange, dates []time.Time) []domain.RangeAssignment {
	pieces := DivideRange(span.Extent(), len(dates))
	out := make([]domain.RangeAssignment, len(pieces))
	for i, p := range pieces {
		out[i] = domain.RangeAssignment{
			ContentID: contentID,
			Date:      dates[i],
			StartUnit: span.Start + p.Start,
			EndUnit:   span.Start + p.End,
		}
	}
	return out
}
