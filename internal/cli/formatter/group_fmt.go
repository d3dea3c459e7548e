package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/studyplan/internal/contract"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/scheduler"
	"github.com/charmbracelet/lipgloss"
)

// GroupDetailData holds everything rendered by the group show view.
type GroupDetailData struct {
	Group      *domain.PlanGroup
	Blocks     []domain.RecurringBlock
	Exclusions []domain.Exclusion
	Academies  []domain.AcademyConflict
	Contents   []domain.ContentItem
}

// FormatGroupList renders stored plan groups inside a bordered box.
func FormatGroupList(groups []*domain.PlanGroup) string {
	headers := []string{"ID", "NAME", "PERIOD", "CYCLE", "LEVEL", "POLICY"}
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{
			TruncID(g.ID),
			Bold(g.Name),
			PeriodLabel(g.PeriodStart, g.PeriodEnd),
			fmt.Sprintf("%d+%d", g.StudyDays, g.ReviewDays),
			string(g.StudentLevel),
			string(g.ShortfallPolicy),
		})
	}
	return RenderBox("Plan Groups", RenderTable(headers, rows))
}

// FormatGroupDetail renders group settings beside its calendar, followed by
// the content table.
func FormatGroupDetail(data GroupDetailData) string {
	left := groupSettingsPanel(data.Group)
	right := calendarPanel(data)
	top := lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right)

	var b strings.Builder
	b.WriteString(top)
	b.WriteString("\n\n")
	b.WriteString(Header("Contents") + "\n")
	b.WriteString(FormatContents(data.Contents))
	return RenderBox("", b.String())
}

func groupSettingsPanel(g *domain.PlanGroup) string {
	var b strings.Builder
	b.WriteString(StyleBold.Render(g.Name) + "\n\n")
	field := func(label, value string) {
		fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render(fmt.Sprintf("%-10s", label)), value)
	}
	field("ID", Dim(g.ID))
	field("PERIOD", PeriodLabel(g.PeriodStart, g.PeriodEnd))
	field("CYCLE", fmt.Sprintf("%d study + %d review", g.StudyDays, g.ReviewDays))
	field("LEVEL", string(g.StudentLevel))
	field("POLICY", string(g.ShortfallPolicy))
	if g.StudyHours != nil {
		field("HOURS", g.StudyHours.String())
	}
	if g.Lunch != nil {
		field("LUNCH", g.Lunch.String())
	}
	if g.SelfStudyEnabled {
		self := "on"
		if g.SelfStudyHours != nil {
			self = g.SelfStudyHours.String()
		}
		if g.HolidaySelfStudy {
			self += Dim(" (holidays too)")
		}
		field("SELF-STUDY", self)
	}
	if ap := g.AdditionalPeriod; ap != nil {
		field("EXTRA", PeriodLabel(ap.PeriodStart, ap.PeriodEnd)+Dim(" reviews ")+PeriodLabel(ap.OriginalStart, ap.OriginalEnd))
	}
	for _, sa := range g.SubjectAllocations {
		alloc := string(sa.SubjectType)
		if sa.WeeklyAllocationDays > 0 {
			alloc += fmt.Sprintf(", %d days/week", sa.WeeklyAllocationDays)
		}
		field("SUBJECT", sa.Subject+Dim(" → ")+alloc)
	}
	return b.String()
}

func calendarPanel(data GroupDetailData) string {
	var b strings.Builder
	b.WriteString(StyleHeader.Render("WEEKLY BLOCKS") + "\n")
	if len(data.Blocks) == 0 {
		b.WriteString(Dim("  default study hours") + "\n")
	}
	for _, bl := range data.Blocks {
		fmt.Fprintf(&b, "  %s  %s\n", fmt.Sprintf("%-3s", bl.DayOfWeek.String()[:3]), bl.Range)
	}

	if len(data.Academies) > 0 {
		b.WriteString("\n" + StyleHeader.Render("ACADEMIES") + "\n")
		for _, a := range data.Academies {
			fmt.Fprintf(&b, "  %s  %s  %s %s\n", a.DayOfWeek.String()[:3], a.Range,
				StylePurple.Render(a.Label), Dim(fmt.Sprintf("±%dm", a.Travel())))
		}
	}

	if len(data.Exclusions) > 0 {
		b.WriteString("\n" + StyleHeader.Render("EXCLUSIONS") + "\n")
		for _, e := range data.Exclusions {
			line := fmt.Sprintf("  %s  %s", domain.FormatDate(e.Date), DayTypeLabel(e.Type.DayType()))
			if e.Reason != "" {
				line += " " + Dim(e.Reason)
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

// FormatContents renders content items with their scheduled unit ranges.
func FormatContents(items []domain.ContentItem) string {
	if len(items) == 0 {
		return Dim("  none") + "\n"
	}
	headers := []string{"ID", "TITLE", "TYPE", "SUBJECT", "ALLOCATION", "RANGE", "PRIORITY"}
	rows := make([][]string, 0, len(items))
	for _, c := range items {
		alloc := Dim("by subject")
		switch c.SubjectType {
		case domain.SubjectWeakness:
			alloc = StyleRed.Render("weakness")
		case domain.SubjectStrategy:
			days := domain.CoalesceInt(c.WeeklyAllocationDays, scheduler.DefaultWeeklyAllocationDays)
			alloc = StyleGreen.Render(fmt.Sprintf("strategy %d/wk", days))
		}
		prio := Dim("--")
		if c.Priority > 0 {
			prio = fmt.Sprintf("%d", c.Priority)
		}
		rows = append(rows, []string{
			c.ID,
			Bold(c.Title),
			string(c.Type),
			c.Subject,
			alloc,
			UnitSpan(c.Type, c.StartUnit, c.EndUnit()),
			prio,
		})
	}
	return RenderTable(headers, rows)
}

// FormatImport reports a successful group import.
func FormatImport(res *contract.ImportResult) string {
	g := res.Group
	return fmt.Sprintf("Imported %s [%s]: %s\n  %d contents, %d blocks, %d exclusions, %d academies\n",
		Bold(g.Name), g.ID, PeriodLabel(g.PeriodStart, g.PeriodEnd),
		res.ContentCount, res.BlockCount, res.ExclusionCount, res.AcademyCount)
}
