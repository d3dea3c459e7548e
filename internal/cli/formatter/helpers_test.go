package formatter

import (
	"regexp"
	"strings"
	"testing"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/stretchr/testify/assert"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0m"},
		{-5, "0m"},
		{45, "45m"},
		{60, "1h"},
		{95, "1h 35m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMinutes(tt.in))
	}
}

func TestUnitSpan(t *testing.T) {
	assert.Equal(t, "p1-10", stripANSI(UnitSpan(domain.ContentBook, 0, 10)))
	assert.Equal(t, "ep3", stripANSI(UnitSpan(domain.ContentLecture, 2, 3)))
	assert.Equal(t, "31-60", stripANSI(UnitSpan(domain.ContentCustom, 30, 60)))
	assert.Equal(t, "--", stripANSI(UnitSpan(domain.ContentBook, 5, 5)))
}

func TestTruncID(t *testing.T) {
	assert.Equal(t, "abcdef12", stripANSI(TruncID("abcdef12-3456-7890")))
	assert.Equal(t, "short", stripANSI(TruncID("short")))
}

func TestStatusPill(t *testing.T) {
	assert.Contains(t, stripANSI(StatusPill(domain.PlanCompleted)), "Done")
	assert.Contains(t, stripANSI(StatusPill(domain.PlanInProgress)), "In Progress")
	assert.Contains(t, stripANSI(StatusPill(domain.PlanStatus("weird"))), "weird")
}

func TestRenderProgress(t *testing.T) {
	tests := []struct {
		name        string
		done, total int
		want        string
	}{
		{"empty", 0, 60, "0% (0/60)"},
		{"half", 30, 60, "50% (30/60)"},
		{"over", 90, 60, "100% (90/60)"},
		{"zero total", 0, 0, "0% (0/0)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stripANSI(RenderProgress(tt.done, tt.total, 10))
			assert.Contains(t, got, tt.want)
			assert.Equal(t, 10, strings.Count(got, "█")+strings.Count(got, "░"))
		})
	}
}

func TestRenderTable_AlignsStyledCells(t *testing.T) {
	out := stripANSI(RenderTable(
		[]string{"A", "B"},
		[][]string{{StyleGreen.Render("long cell"), "x"}, {"s", "y"}},
	))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, strings.Index(lines[2], "x"), strings.Index(lines[3], "y"))
	assert.Equal(t, strings.Index(lines[0], "B"), strings.Index(lines[2], "x"))
}

func TestRenderTable_NoHeaders(t *testing.T) {
	assert.Empty(t, RenderTable(nil, [][]string{{"a"}}))
}
