package formatter

import (
	"fmt"
	"strings"
)

// RenderProgress renders completed units out of total as a bar like
// [████░░░░] 45% (27/60). Green from two thirds up, red below one third.
func RenderProgress(done, total, width int) string {
	if width < 2 {
		width = 2
	}
	pct := 0.0
	if total > 0 {
		pct = float64(done) / float64(total)
	}
	pct = min(max(pct, 0), 1)

	filled := min(int(pct*float64(width)), width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	style := StyleGreen
	switch {
	case pct < 0.33:
		style = StyleRed
	case pct < 0.66:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%% (%d/%d)", style.Render(bar), pct*100, done, total)
}
