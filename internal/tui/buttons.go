package tui

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/mark3labs/handyhire/internal/tui/theme"
)

// ButtonState represents the visual state of a button.
type ButtonState int

const (
	ButtonNormal   ButtonState = iota // Normal state (enabled)
	ButtonDisabled                    // Disabled state (grayed out)
	ButtonFocused                     // Focused/highlighted state
)

// Button represents a single button in the button bar.
type Button struct {
	Label string
	State ButtonState
}

// ButtonBar renders a centered row of buttons.
type ButtonBar struct {
	buttons []Button
	width   int
}

// NewButtonBar creates a button bar with the given buttons.
func NewButtonBar(buttons []Button) *ButtonBar {
	return &ButtonBar{buttons: buttons, width: 60}
}

// SetWidth updates the width the bar is centered in.
func (b *ButtonBar) SetWidth(width int) {
	b.width = width
}

// Render renders the button bar.
func (b *ButtonBar) Render() string {
	if len(b.buttons) == 0 {
		return ""
	}

	s := theme.Current().S()
	rendered := make([]string, 0, len(b.buttons))
	for _, btn := range b.buttons {
		switch btn.State {
		case ButtonDisabled:
			rendered = append(rendered, s.ButtonDisabled.Render(btn.Label))
		case ButtonFocused:
			rendered = append(rendered, s.ButtonFocused.Render(btn.Label))
		default:
			rendered = append(rendered, s.ButtonNormal.Render(btn.Label))
		}
	}
	return lipgloss.Place(b.width, 1, lipgloss.Center, lipgloss.Center, strings.Join(rendered, ""))
}

// NavButtons builds the Back/Next pair for a wizard step. On the first step
// Back reads Cancel; on the last step Next reads Submit. busy disables both.
func NavButtons(step, total int, busy bool) []Button {
	back := Button{Label: "← Back", State: ButtonNormal}
	if step <= 1 {
		back.Label = "Cancel"
	}
	next := Button{Label: "Next →", State: ButtonFocused}
	if step >= total {
		next.Label = "Submit"
	}
	if busy {
		back.State = ButtonDisabled
		next.State = ButtonDisabled
	}
	return []Button{back, next}
}
