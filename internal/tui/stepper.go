package tui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/mark3labs/handyhire/internal/tui/theme"
)

// RenderStepper draws "Step n of N · Name" above a segmented progress bar.
// current is 1-based.
func RenderStepper(names []string, current, width int) string {
	if len(names) == 0 {
		return ""
	}
	current = min(max(current, 1), len(names))

	t := theme.Current()
	s := t.S()
	title := s.HeaderTitle.Render(fmt.Sprintf("Step %d of %d", current, len(names))) +
		s.Muted.Render(" · ") + s.Value.Render(names[current-1])

	seg := max((width-len(names)+1)/len(names), 2)
	colors := theme.Gradient(t.Primary, t.Tertiary, len(names))
	parts := make([]string, len(names))
	for i := range names {
		bar := strings.Repeat("━", seg)
		switch {
		case i+1 < current:
			parts[i] = s.StepDone.Render(bar)
		case i+1 == current:
			parts[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(colors[i])).Bold(true).Render(bar)
		default:
			parts[i] = s.StepPending.Render(strings.Repeat("─", seg))
		}
	}
	return title + "\n" + strings.Join(parts, " ")
}
