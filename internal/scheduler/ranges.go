package scheduler

import (
	"sort"

	"github.com/alexanderramin/studyplan/internal/domain"
)

// mergeRanges sorts ranges by start and joins overlapping or touching ones.
// Empty ranges are dropped.
func mergeRanges(ranges []domain.TimeRange) []domain.TimeRange {
	if len(ranges) == 0 {
		return nil
	}
	sorted := make([]domain.TimeRange, 0, len(ranges))
	for _, r := range ranges {
		if r.End > r.Start {
			sorted = append(sorted, r)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	var merged []domain.TimeRange
	for _, r := range sorted {
		if n := len(merged); n > 0 && r.Start <= merged[n-1].End {
			if r.End > merged[n-1].End {
				merged[n-1].End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// subtractRange removes cut from every range, splitting where needed.
func subtractRange(ranges []domain.TimeRange, cut domain.TimeRange) []domain.TimeRange {
	if cut.End <= cut.Start {
		return ranges
	}
	var out []domain.TimeRange
	for _, r := range ranges {
		if !r.Overlaps(cut) {
			out = append(out, r)
			continue
		}
		if r.Start < cut.Start {
			out = append(out, domain.TimeRange{Start: r.Start, End: cut.Start})
		}
		if cut.End < r.End {
			out = append(out, domain.TimeRange{Start: cut.End, End: r.End})
		}
	}
	return out
}

func subtractAll(ranges []domain.TimeRange, cuts []domain.TimeRange) []domain.TimeRange {
	for _, c := range cuts {
		ranges = subtractRange(ranges, c)
	}
	return mergeRanges(ranges)
}
