package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/studyplan/internal/contract"
	"github.com/alexanderramin/studyplan/internal/domain"
)

// ContentIndex resolves content IDs to their items for titles and units.
type ContentIndex map[string]domain.ContentItem

func NewContentIndex(items []domain.ContentItem) ContentIndex {
	idx := make(ContentIndex, len(items))
	for _, c := range items {
		idx[c.ID] = c
	}
	return idx
}

func (idx ContentIndex) title(id string) string {
	if c, ok := idx[id]; ok && c.Title != "" {
		return c.Title
	}
	return id
}

func (idx ContentIndex) units(id string, start, end int) string {
	return UnitSpan(idx[id].Type, start, end)
}

// FormatDays renders one line per calendar day with its cycle position and
// capacity.
func FormatDays(resp *contract.PlanResponse) string {
	headers := []string{"DATE", "TYPE", "CYCLE", "WEEK", "AVAILABLE", "SCHEDULED", "WINDOWS"}
	rows := make([][]string, 0, len(resp.Days))
	for _, d := range resp.Days {
		cycle := Dim("--")
		if d.CycleNumber > 0 {
			cycle = fmt.Sprintf("%d/%d", d.CycleNumber, d.CycleDayNumber)
		}
		date := d.Date
		if d.Additional {
			date += StylePurple.Render(" +")
		}
		windows := FormatRanges(d.Ranges)
		if len(d.SelfStudy) > 0 {
			windows += Dim(" self ") + FormatRanges(d.SelfStudy)
		}
		rows = append(rows, []string{
			date + " " + Dim(abbrev(d.Weekday)),
			DayTypeLabel(d.DayType),
			cycle,
			fmt.Sprintf("%d", d.WeekNumber),
			FormatMinutes(d.AvailableMin),
			scheduledCell(d),
			windows,
		})
	}
	return RenderTable(headers, rows)
}

func abbrev(weekday string) string {
	if len(weekday) > 3 {
		return weekday[:3]
	}
	return weekday
}

func scheduledCell(d contract.DayPlan) string {
	if d.ScheduledMin == 0 {
		return Dim("0m")
	}
	if d.ScheduledMin > d.AvailableMin+d.SelfStudyMin {
		return StyleRed.Render(FormatMinutes(d.ScheduledMin))
	}
	return FormatMinutes(d.ScheduledMin)
}

// FormatDaySlots renders the labelled slots of one day, lunch and academy
// blocks included.
func FormatDaySlots(d contract.DayPlan) string {
	if len(d.Slots) == 0 {
		return Dim("  no slots")
	}
	var b strings.Builder
	for _, s := range d.Slots {
		label := s.Label
		if label == "" {
			label = string(s.Kind)
		}
		style := StyleFg
		switch s.Kind {
		case domain.SlotLunch:
			style = StyleYellow
		case domain.SlotAcademy, domain.SlotTravel:
			style = StylePurple
		case domain.SlotSelfStudy:
			style = StyleBlue
		}
		fmt.Fprintf(&b, "  %s  %s\n", Dim(s.Range.String()), style.Render(label))
	}
	return b.String()
}

// FormatTimeline renders the scheduled segments grouped by date.
func FormatTimeline(resp *contract.PlanResponse, idx ContentIndex) string {
	if len(resp.Segments) == 0 {
		return Dim("No sessions scheduled.")
	}

	var b strings.Builder
	headers := []string{"#", "TIME", "CONTENT", "KIND", "UNITS", "LENGTH", ""}
	for _, d := range resp.Days {
		if len(d.Segments) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s  %s\n", Bold(d.Date+" "+d.Weekday), DayTypeLabel(d.DayType))
		rows := make([][]string, 0, len(d.Segments))
		for _, s := range d.Segments {
			rows = append(rows, []string{
				fmt.Sprintf("%d", s.BlockIndex),
				fmt.Sprintf("%s-%s", s.Start, s.End),
				idx.title(s.ContentID),
				SessionBadge(s.Kind),
				idx.units(s.ContentID, s.StartUnit, s.EndUnit),
				FormatMinutes(s.Minutes()),
				segmentFlags(s),
			})
		}
		b.WriteString(RenderTable(headers, rows))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func segmentFlags(s domain.TimelineSegment) string {
	var flags []string
	if s.IsContinued {
		flags = append(flags, "cont.")
	}
	if s.IsPartial {
		flags = append(flags, "split")
	}
	return Dim(strings.Join(flags, " "))
}

// FormatDiagnostics lists non-fatal infeasibilities, shortfalls in red.
func FormatDiagnostics(diags []contract.Diagnostic) string {
	if len(diags) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(Header("Diagnostics") + "\n")
	for _, d := range diags {
		style := StyleYellow
		if d.Code == contract.DiagInsufficientTime || d.Code == contract.DiagCarryOverUnplaced {
			style = StyleRed
		}
		line := d.Message
		if line == "" {
			line = string(d.Code)
		}
		if d.ContentID != "" {
			line += Dim(" [" + d.ContentID + "]")
		}
		fmt.Fprintf(&b, "  %s %s\n", style.Render("▲"), line)
	}
	return b.String()
}

// FormatSummary renders the availability summary with scheduled totals.
func FormatSummary(resp *contract.PlanResponse) string {
	s := resp.Summary
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d  %s %d  %s %d  %s %d\n",
		Dim("days"), s.TotalDays,
		StyleGreen.Render("study"), s.StudyDays,
		StyleBlue.Render("review"), s.ReviewDays,
		Dim("excluded"), s.ExcludedDays)
	if s.ZeroCapacityDays > 0 {
		fmt.Fprintf(&b, "%s %d\n", StyleYellow.Render("days without capacity"), s.ZeroCapacityDays)
	}
	if len(s.ExclusionCounts) > 0 {
		types := make([]string, 0, len(s.ExclusionCounts))
		for t := range s.ExclusionCounts {
			types = append(types, string(t))
		}
		sort.Strings(types)
		parts := make([]string, len(types))
		for i, t := range types {
			parts[i] = fmt.Sprintf("%s %d", t, s.ExclusionCounts[domain.ExclusionType(t)])
		}
		fmt.Fprintf(&b, "%s %s\n", Dim("exclusions"), strings.Join(parts, ", "))
	}
	fmt.Fprintf(&b, "%s %s  %s %s  %s %s\n",
		Dim("study time"), FormatMinutes(s.StudyMinutes),
		Dim("self-study"), FormatMinutes(s.SelfStudyMinutes),
		Dim("scheduled"), Bold(FormatMinutes(resp.ScheduledMinutes())))
	for _, a := range s.Academies {
		label := a.Label
		if a.Subject != "" {
			label += Dim(" (" + a.Subject + ")")
		}
		fmt.Fprintf(&b, "%s %s: %dx/week, %s + %s travel\n",
			StylePurple.Render("academy"), label, a.WeeklySessions,
			FormatMinutes(a.WeeklyMinutes), FormatMinutes(a.WeeklyTravelMinutes))
	}
	return b.String()
}

// FormatPlan renders a full preview: summary, timeline and diagnostics.
func FormatPlan(title string, resp *contract.PlanResponse, idx ContentIndex) string {
	var b strings.Builder
	b.WriteString(RenderBox(title, strings.TrimRight(FormatSummary(resp), "\n")))
	b.WriteString("\n\n")
	b.WriteString(FormatTimeline(resp, idx))
	b.WriteString("\n")
	if diag := FormatDiagnostics(resp.Diagnostics); diag != "" {
		b.WriteString("\n" + diag)
	}
	return b.String()
}

// FormatCommit reports what a plan commit wrote.
func FormatCommit(res *contract.CommitResult) string {
	out := fmt.Sprintf("Generated %s plan rows for group %s (%d stale rows replaced)\n",
		Bold(fmt.Sprintf("%d", res.CreatedRows)), TruncID(res.GroupID), res.RemovedRows)
	if res.Plan != nil {
		out += FormatDiagnostics(res.Plan.Diagnostics)
	}
	return out
}

// FormatRows renders stored plan rows with their progress.
func FormatRows(rows []*domain.PlanRow, idx ContentIndex) string {
	if len(rows) == 0 {
		return Dim("No plan rows.")
	}
	headers := []string{"ID", "DATE", "TIME", "CONTENT", "KIND", "UNITS", "DONE", "STATUS"}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			Dim(r.ID),
			ShortDate(r.PlanDate),
			fmt.Sprintf("%s-%s", r.StartTime, r.EndTime),
			idx.title(r.ContentID),
			SessionBadge(r.Kind),
			idx.units(r.ContentID, r.PlannedStart, r.PlannedEnd),
			fmt.Sprintf("%d/%d", r.CompletedAmount, r.Span()),
			StatusPill(r.Status),
		})
	}
	return RenderTable(headers, out)
}

// FormatRowProgress summarises study-row completion per content.
func FormatRowProgress(rows []*domain.PlanRow, idx ContentIndex) string {
	type tally struct{ done, total int }
	totals := make(map[string]*tally)
	var ids []string
	for _, r := range rows {
		if r.Kind != domain.SessionStudy || r.Status == domain.PlanCanceled {
			continue
		}
		t, ok := totals[r.ContentID]
		if !ok {
			t = &tally{}
			totals[r.ContentID] = t
			ids = append(ids, r.ContentID)
		}
		t.done += r.CompletedAmount
		t.total += r.Span()
	}
	if len(ids) == 0 {
		return ""
	}
	sort.Strings(ids)

	var b strings.Builder
	for _, id := range ids {
		fmt.Fprintf(&b, "  %-24s %s\n", idx.title(id), RenderProgress(totals[id].done, totals[id].total, 20))
	}
	return b.String()
}

// FormatReschedule reports a catch-up pass.
func FormatReschedule(res *contract.RescheduleResponse, idx ContentIndex, dryRun bool) string {
	var b strings.Builder
	title := "Reschedule"
	if dryRun {
		title += " (dry run)"
	}
	b.WriteString(Header(title) + "\n")
	fmt.Fprintf(&b, "  Replan from: %s\n", res.ReplanFrom)
	if !dryRun {
		fmt.Fprintf(&b, "  Rows:        %d canceled, %d removed, %d created\n",
			res.CanceledRows, res.RemovedRows, res.CreatedRows)
	}

	if len(res.Bounds) > 0 {
		b.WriteString("\n")
		headers := []string{"CONTENT", "REMAINING", "FROM", "TO"}
		rows := make([][]string, 0, len(res.Bounds))
		for _, bd := range res.Bounds {
			rows = append(rows, []string{
				idx.title(bd.ContentID),
				fmt.Sprintf("%d", bd.TotalUncompleted),
				fmt.Sprintf("%d", bd.StartUnit),
				fmt.Sprintf("%d", bd.EndUnit),
			})
		}
		b.WriteString(RenderTable(headers, rows))
	} else {
		b.WriteString(Dim("  Nothing left behind.") + "\n")
	}

	if res.Plan != nil {
		b.WriteString("\n" + FormatTimeline(res.Plan, idx) + "\n")
		if diag := FormatDiagnostics(res.Plan.Diagnostics); diag != "" {
			b.WriteString("\n" + diag)
		}
	}
	return b.String()
}
