package tui

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/mark3labs/handyhire/internal/tui/theme"
)

// Option is one entry of an OptionList.
type Option struct {
	Value  string
	Label  string
	Detail string
}

// OptionList is a vertical single-choice list. The cursor moves freely; the
// chosen entry only changes on enter or space.
type OptionList struct {
	Options []Option
	cursor  int
	chosen  int
	focused bool
}

// NewOptionList creates a list with nothing chosen.
func NewOptionList(opts []Option) *OptionList {
	return &OptionList{Options: opts, chosen: -1}
}

// SetOptions replaces the entries and clears the choice.
func (l *OptionList) SetOptions(opts []Option) {
	l.Options = opts
	l.cursor = 0
	l.chosen = -1
}

// Focus gives the list keyboard focus.
func (l *OptionList) Focus() { l.focused = true }

// Blur removes keyboard focus.
func (l *OptionList) Blur() { l.focused = false }

// Focused reports whether the list has focus.
func (l *OptionList) Focused() bool { return l.focused }

// Cursor returns the highlighted index.
func (l *OptionList) Cursor() int { return l.cursor }

// Chosen returns the chosen option, if any.
func (l *OptionList) Chosen() (Option, bool) {
	if l.chosen < 0 || l.chosen >= len(l.Options) {
		return Option{}, false
	}
	return l.Options[l.chosen], true
}

// Choose marks the option with the given value as chosen and moves the
// cursor to it. Unknown values clear the choice.
func (l *OptionList) Choose(value string) {
	l.chosen = -1
	for i, o := range l.Options {
		if o.Value == value {
			l.chosen = i
			l.cursor = i
			return
		}
	}
}

// Update handles navigation keys. It returns the newly chosen option when
// enter or space picked one.
func (l *OptionList) Update(msg tea.Msg) (Option, bool) {
	k, ok := msg.(tea.KeyPressMsg)
	if !ok || !l.focused || len(l.Options) == 0 {
		return Option{}, false
	}
	switch k.String() {
	case "up", "k":
		if l.cursor > 0 {
			l.cursor--
		}
	case "down", "j":
		if l.cursor < len(l.Options)-1 {
			l.cursor++
		}
	case "home", "g":
		l.cursor = 0
	case "end", "G":
		l.cursor = len(l.Options) - 1
	case "enter", "space", " ":
		l.chosen = l.cursor
		return l.Options[l.cursor], true
	}
	return Option{}, false
}

// View renders the list. The cursor row is highlighted and the chosen
// entry is marked with a filled bullet.
func (l *OptionList) View() string {
	s := theme.Current().S()
	if len(l.Options) == 0 {
		return s.Muted.Italic(true).Render("Nothing to choose from")
	}

	var b strings.Builder
	for i, o := range l.Options {
		mark := "○ "
		if i == l.chosen {
			mark = "● "
		}
		line := mark + o.Label
		if o.Detail != "" {
			line += "  " + s.Muted.Render(o.Detail)
		}
		if i == l.cursor && l.focused {
			line = s.Selected.Render("▸ " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		if i < len(l.Options)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
