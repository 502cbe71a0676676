package tui

import (
	"errors"
	"strings"

	"github.com/mark3labs/handyhire/internal/tui/theme"
)

// ErrCancelled is returned when the user leaves a wizard without finishing.
var ErrCancelled = errors.New("wizard cancelled")

// Page is the standard wizard card layout.
type Page struct {
	Title   string
	Stepper string
	Body    string
	Error   string
	Buttons []Button
	Hints   string
}

// Render lays the page out inside a Card sized for screenWidth.
func (p Page) Render(screenWidth int) string {
	s := theme.Current().S()
	var b strings.Builder

	b.WriteString(s.HeaderTitle.Render(p.Title))
	b.WriteString("\n")
	if p.Stepper != "" {
		b.WriteString(p.Stepper)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(p.Body)
	if p.Error != "" {
		b.WriteString("\n\n")
		b.WriteString(s.Error.Render("✗ " + p.Error))
	}
	if len(p.Buttons) > 0 {
		b.WriteString("\n\n")
		bar := NewButtonBar(p.Buttons)
		bar.SetWidth(ModalContentWidth)
		b.WriteString(bar.Render())
	}
	if p.Hints != "" {
		b.WriteString("\n\n")
		b.WriteString(p.Hints)
	}
	return Card(b.String(), screenWidth)
}
