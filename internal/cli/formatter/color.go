package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// DayTypeStyle colors a day by how it counts in the cycle: study days green,
// review days blue, every excluded kind dimmed or warm.
func DayTypeStyle(t domain.DayType) lipgloss.Style {
	switch t {
	case domain.DayStudy:
		return StyleGreen
	case domain.DayReview:
		return StyleBlue
	case domain.DayDesignatedHoliday:
		return StylePurple
	case domain.DayVacation, domain.DayPersonal:
		return StyleYellow
	default:
		return StyleDim
	}
}

// DayTypeLabel renders a short colored label such as "● STUDY".
func DayTypeLabel(t domain.DayType) string {
	switch t {
	case domain.DayStudy:
		return DayTypeStyle(t).Render("● STUDY")
	case domain.DayReview:
		return DayTypeStyle(t).Render("◆ REVIEW")
	case domain.DayDesignatedHoliday:
		return DayTypeStyle(t).Render("○ HOLIDAY")
	case domain.DayVacation:
		return DayTypeStyle(t).Render("○ VACATION")
	case domain.DayPersonal:
		return DayTypeStyle(t).Render("○ PERSONAL")
	default:
		return DayTypeStyle(t).Render("○ EXCLUDED")
	}
}

// SessionBadge labels a segment or plan row by its session kind.
func SessionBadge(k domain.SessionKind) string {
	switch k {
	case domain.SessionReview:
		return StyleBlue.Render("review")
	case domain.SessionAdditionalReview:
		return StylePurple.Render("re-review")
	default:
		return StyleFg.Render("study")
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
