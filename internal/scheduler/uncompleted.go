package scheduler

import (
	"sort"

	"github.com/alexanderramin/studyplan/internal/domain"
)

// CalculateUncompletedBounds folds historical rows into one remainder per
// content, sorted by content ID. A row's own remainder starts at
// plannedStart + completed, with completed clamped to the row span.
func CalculateUncompletedBounds(rows []domain.HistoricalRow) []domain.UncompletedBounds {
	byContent := make(map[string]*domain.UncompletedBounds)
	for _, r := range rows {
		span := r.PlannedEnd - r.PlannedStart
		if span < 0 {
			span = 0
		}
		done := clamp(r.CompletedAmount, 0, span)

		b, ok := byContent[r.ContentID]
		if !ok {
			b = &domain.UncompletedBounds{
				ContentID: r.ContentID,
				StartUnit: r.PlannedStart + done,
				EndUnit:   r.PlannedEnd,
			}
			byContent[r.ContentID] = b
		}
		b.TotalUncompleted += span - done
		b.StartUnit = min(b.StartUnit, r.PlannedStart+done)
		b.EndUnit = max(b.EndUnit, r.PlannedEnd)
	}

	out := make([]domain.UncompletedBounds, 0, len(byContent))
	for _, b := range byContent {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ContentID < out[j].ContentID })
	return out
}

// ApplyUncompletedBounds returns copies of contents whose start unit is
// raised to the computed remainder start. Only selected contents are
// touched; an empty selection selects all. Bounds with nothing left leave
// the content as is. The end of the range never moves.
func ApplyUncompletedBounds(contents []domain.ContentItem, bounds []domain.UncompletedBounds, selected []string) []domain.ContentItem {
	byID := make(map[string]domain.UncompletedBounds, len(bounds))
	for _, b := range bounds {
		byID[b.ContentID] = b
	}
	pick := make(map[string]bool, len(selected))
	for _, id := range selected {
		pick[id] = true
	}

	out := make([]domain.ContentItem, len(contents))
	for i, c := range contents {
		out[i] = c
		if len(pick) > 0 && !pick[c.ID] {
			continue
		}
		b, ok := byID[c.ID]
		if !ok || b.TotalUncompleted <= 0 {
			continue
		}
		end := c.EndUnit()
		start := max(c.StartUnit, b.StartUnit)
		if start > end {
			start = end
		}
		out[i].StartUnit = start
		out[i].TotalExtent = end - start
	}
	return out
}
