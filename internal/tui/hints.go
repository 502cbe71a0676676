package tui

import (
	"strings"

	"github.com/mark3labs/handyhire/internal/tui/theme"
)

// Standard key representations for consistent hints across the app.
const (
	KeyUpDown   = "↑/↓"
	KeyUpDownJK = "↑↓/jk"
	KeyEnter    = "enter"
	KeySpace    = "space"
	KeyEsc      = "esc"
	KeyTab      = "tab"
	KeyShiftTab = "shift+tab"
	KeyCtrlN    = "ctrl+n"
	KeyCtrlS    = "ctrl+s"
	KeyCtrlC    = "ctrl+c"
	KeyPgUpDown = "pgup/pgdn"
)

// RenderHint renders a single key-description pair.
// Example: RenderHint("enter", "select") -> "enter select"
func RenderHint(key, desc string) string {
	s := theme.Current().S()
	return s.HintKey.Render(key) + " " + s.HintDesc.Render(desc)
}

// RenderHintBar renders key-description pairs separated by bullets.
// Example: RenderHintBar("tab", "next field", "esc", "back")
// Returns: "tab next field • esc back"
func RenderHintBar(pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return ""
	}

	s := theme.Current().S()
	sep := " " + s.HintSeparator.Render("•") + " "
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		parts = append(parts, RenderHint(pairs[i], pairs[i+1]))
	}
	return strings.Join(parts, sep)
}

// HintForm returns hints for a step made of text fields.
func HintForm(first bool) string {
	back := "back"
	if first {
		back = "quit"
	}
	return RenderHintBar(KeyTab, "next field", KeyCtrlN, "next step", KeyEsc, back, KeyCtrlC, "quit")
}

// HintList returns hints for a step with a selectable list.
func HintList() string {
	return RenderHintBar(KeyUpDownJK, "move", KeyEnter, "choose", KeyCtrlN, "next step", KeyEsc, "back")
}

// HintReview returns hints for the final review step.
func HintReview() string {
	return RenderHintBar(KeyUpDownJK, "scroll", "p", "request", KeyCtrlS, "submit", KeyEsc, "back")
}
