package scheduler

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/studyplan/internal/contract"
	"github.com/alexanderramin/studyplan/internal/domain"
)

// DefaultWeeklyAllocationDays applies to strategy content that sets none.
const DefaultWeeklyAllocationDays = 3

// ResolveContents returns copies of contents with SubjectType and
// WeeklyAllocationDays filled in. The content's own subject type wins, then
// the allocation for its subject, then weakness.
func ResolveContents(contents []domain.ContentItem, subjects []domain.SubjectAllocation) ([]domain.ContentItem, error) {
	bySubject := make(map[string]domain.SubjectAllocation, len(subjects))
	for _, s := range subjects {
		if !s.SubjectType.Valid() {
			return nil, contract.NewConfigError(contract.ErrUnknownSubjectType, "subject %q has unknown subject type %q", s.Subject, s.SubjectType)
		}
		bySubject[normalizeSubject(s.Subject)] = s
	}

	out := make([]domain.ContentItem, 0, len(contents))
	for _, c := range contents {
		weekly := c.WeeklyAllocationDays
		switch {
		case c.SubjectType != "":
			if !c.SubjectType.Valid() {
				return nil, contract.NewConfigError(contract.ErrUnknownSubjectType, "content %s has unknown subject type %q", c.ID, c.SubjectType)
			}
		default:
			if s, ok := bySubject[normalizeSubject(c.Subject)]; ok && c.Subject != "" {
				c.SubjectType = s.SubjectType
				weekly = domain.CoalesceInt(weekly, s.WeeklyAllocationDays)
			} else {
				c.SubjectType = domain.SubjectWeakness
			}
		}

		if c.SubjectType == domain.SubjectStrategy {
			weekly = domain.CoalesceInt(weekly, DefaultWeeklyAllocationDays)
			if weekly < 2 || weekly > 4 {
				return nil, contract.NewConfigError(contract.ErrInvalidWeeklyDays, "content %s: weekly allocation days must be 2-4, got %d", c.ID, weekly)
			}
		}
		c.WeeklyAllocationDays = weekly
		out = append(out, c)
	}
	return out, nil
}

func normalizeSubject(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SelectStrategyIndexes picks min(k, w) of w study-day positions, one at
// the midpoint of each of the equal stride buckets.
func SelectStrategyIndexes(w, k int) []int {
	if k > w {
		k = w
	}
	if k <= 0 {
		return nil
	}
	idx := make([]int, k)
	for j := 0; j < k; j++ {
		idx[j] = ((2*j + 1) * w) / (2 * k)
	}
	return idx
}

// AllocationResult holds the allocator's facts and any diagnostics.
type AllocationResult struct {
	Dates       map[string][]time.Time // ascending, by content ID
	Allocations []domain.Allocation
	Diagnostics []contract.Diagnostic
}

// Allocate assigns resolved contents to the study days in days. Weakness
// content gets every study day. Strategy content gets its weekly count per
// cycle, spread with SelectStrategyIndexes.
func Allocate(days []domain.DayRecord, contents []domain.ContentItem) AllocationResult {
	// Group study days by cycle, keeping cycle order.
	var cycles []int
	studyByCycle := make(map[int][]time.Time)
	var allStudy []time.Time
	for _, d := range days {
		n := d.CycleNumber()
		if _, seen := studyByCycle[n]; !seen {
			studyByCycle[n] = nil
			cycles = append(cycles, n)
		}
		if _, ok := d.Kind.(domain.StudyDay); ok {
			studyByCycle[n] = append(studyByCycle[n], d.Date)
			allStudy = append(allStudy, d.Date)
		}
	}
	sort.Ints(cycles)

	res := AllocationResult{Dates: make(map[string][]time.Time, len(contents))}
	for _, c := range contents {
		var dates []time.Time
		switch c.SubjectType {
		case domain.SubjectStrategy:
			// A fixed count per cycle, spread across that cycle's study days.
			for _, n := range cycles {
				study := studyByCycle[n]
				if len(study) == 0 {
					res.Diagnostics = append(res.Diagnostics, contract.Diagnostic{
						Code:      contract.DiagNoStudyDaysInWeek,
						Week:      n,
						ContentID: c.ID,
						Message:   fmt.Sprintf("Week %d: no study days for strategy content %s", n, c.ID),
					})
					continue
				}
				for _, i := range SelectStrategyIndexes(len(study), c.WeeklyAllocationDays) {
					dates = append(dates, study[i])
				}
			}
		default:
			// Weakness: every study day.
			dates = append(dates, allStudy...)
		}

		if len(dates) == 0 {
			res.Diagnostics = append(res.Diagnostics, contract.Diagnostic{
				Code:      contract.DiagNoAllocation,
				ContentID: c.ID,
				Message:   fmt.Sprintf("content %s has no study days to be scheduled on", c.ID),
			})
		}
		res.Dates[c.ID] = dates
		for _, d := range dates {
			res.Allocations = append(res.Allocations, domain.Allocation{ContentID: c.ID, Date: d})
		}
	}

	sort.SliceStable(res.Allocations, func(i, j int) bool {
		a, b := res.Allocations[i], res.Allocations[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.ContentID < b.ContentID
	})
	return res
}
