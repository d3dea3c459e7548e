package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// ShortDate renders a date as "Mon 03-03".
func ShortDate(t time.Time) string {
	return t.Format("Mon 01-02")
}

// PeriodLabel renders an inclusive date span.
func PeriodLabel(start, end time.Time) string {
	return domain.FormatDate(start) + " → " + domain.FormatDate(end)
}

// StatusPill returns a colored indicator for a plan row status.
func StatusPill(status domain.PlanStatus) string {
	switch status {
	case domain.PlanPending:
		return StyleBlue.Render("○ Pending")
	case domain.PlanInProgress:
		return StyleYellow.Render("◐ In Progress")
	case domain.PlanCompleted:
		return StyleGreen.Render("✔ Done")
	case domain.PlanCanceled:
		return StyleDim.Render("✖ Canceled")
	default:
		return StyleDim.Render(string(status))
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// FormatMinutes converts raw minutes into human-friendly format.
func FormatMinutes(min int) string {
	if min <= 0 {
		return "0m"
	}
	h := min / 60
	m := min % 60
	if h > 0 && m > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if h > 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dm", m)
}

// FormatRanges joins clock ranges as "09:00-12:00, 13:00-18:00".
func FormatRanges(ranges []domain.TimeRange) string {
	if len(ranges) == 0 {
		return Dim("--")
	}
	parts := make([]string, len(ranges))
	for i, r := range ranges {
		parts[i] = r.String()
	}
	return strings.Join(parts, ", ")
}

// UnitSpan renders a half-open unit range for display as 1-based
// inclusive, e.g. [0,10) becomes "p1-10" for books.
func UnitSpan(t domain.ContentType, start, end int) string {
	if end <= start {
		return Dim("--")
	}
	prefix := ""
	switch t {
	case domain.ContentBook:
		prefix = "p"
	case domain.ContentLecture:
		prefix = "ep"
	}
	if end-start == 1 {
		return fmt.Sprintf("%s%d", prefix, start+1)
	}
	return fmt.Sprintf("%s%d-%d", prefix, start+1, end)
}
