package tui

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mark3labs/handyhire/internal/tui/theme"
)

// TextField is a labelled single-line input.
type TextField struct {
	Key   string
	Label string
	input textinput.Model
	err   string
}

// NewTextField creates an unfocused field.
func NewTextField(key, label, placeholder string) *TextField {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = placeholder
	ti.CharLimit = 120
	ti.SetWidth(40)

	t := theme.Current()
	styles := textinput.DefaultStyles(t.IsDark)
	styles.Focused.Prompt = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Primary))
	styles.Focused.Text = lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBright))
	styles.Blurred.Prompt = lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted))
	styles.Cursor.Color = lipgloss.Color(t.Secondary)
	styles.Cursor.Shape = tea.CursorBlock
	styles.Cursor.Blink = true
	ti.SetStyles(styles)

	return &TextField{Key: key, Label: label, input: ti}
}

// Value returns the trimmed text.
func (f *TextField) Value() string { return strings.TrimSpace(f.input.Value()) }

// SetValue replaces the text and moves the cursor to its end.
func (f *TextField) SetValue(v string) {
	f.input.SetValue(v)
	f.input.CursorEnd()
}

// SetError sets the inline error shown under the field; "" clears it.
func (f *TextField) SetError(msg string) { f.err = msg }

// Error returns the inline error.
func (f *TextField) Error() string { return f.err }

// SetWidth sets the visible input width.
func (f *TextField) SetWidth(w int) { f.input.SetWidth(max(w-4, 10)) }

// Focus focuses the field.
func (f *TextField) Focus() tea.Cmd { return f.input.Focus() }

// Blur removes focus.
func (f *TextField) Blur() { f.input.Blur() }

// Focused reports whether the field has focus.
func (f *TextField) Focused() bool { return f.input.Focused() }

// Update forwards msg to the input and reports whether the value changed.
func (f *TextField) Update(msg tea.Msg) (tea.Cmd, bool) {
	before := f.input.Value()
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd, f.input.Value() != before
}

// View renders label, input and any error.
func (f *TextField) View() string {
	s := theme.Current().S()
	label := s.Label
	if f.input.Focused() {
		label = s.LabelActive
	}
	var b strings.Builder
	b.WriteString(label.Render(f.Label))
	b.WriteString("\n")
	b.WriteString(f.input.View())
	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(s.FieldError.Render("  " + f.err))
	}
	return b.String()
}

// FieldGroup cycles focus among text fields.
type FieldGroup struct {
	Fields []*TextField
	focus  int
}

// NewFieldGroup creates a group with the first field focused.
func NewFieldGroup(fields ...*TextField) *FieldGroup {
	g := &FieldGroup{Fields: fields}
	return g
}

// Focus focuses the first field.
func (g *FieldGroup) Focus() tea.Cmd {
	return g.focusIndex(0)
}

// Blur removes focus from every field.
func (g *FieldGroup) Blur() {
	for _, f := range g.Fields {
		f.Blur()
	}
}

// Focused returns the focused field, or nil for an empty group.
func (g *FieldGroup) Focused() *TextField {
	if len(g.Fields) == 0 {
		return nil
	}
	return g.Fields[g.focus]
}

// Field returns the field with the given key, or nil.
func (g *FieldGroup) Field(key string) *TextField {
	for _, f := range g.Fields {
		if f.Key == key {
			return f
		}
	}
	return nil
}

// FocusKey focuses the field with the given key.
func (g *FieldGroup) FocusKey(key string) tea.Cmd {
	for i, f := range g.Fields {
		if f.Key == key {
			return g.focusIndex(i)
		}
	}
	return nil
}

func (g *FieldGroup) focusIndex(i int) tea.Cmd {
	if len(g.Fields) == 0 {
		return nil
	}
	g.focus = (i + len(g.Fields)) % len(g.Fields)
	g.Blur()
	return g.Fields[g.focus].Focus()
}

// ClearErrors clears every inline error.
func (g *FieldGroup) ClearErrors() {
	for _, f := range g.Fields {
		f.SetError("")
	}
}

// SetWidth sets the width of every field.
func (g *FieldGroup) SetWidth(w int) {
	for _, f := range g.Fields {
		f.SetWidth(w)
	}
}

// Update handles tab/shift+tab and forwards other messages to the focused
// field. changed is the key of the field whose value changed, or "".
func (g *FieldGroup) Update(msg tea.Msg) (cmd tea.Cmd, changed string) {
	if len(g.Fields) == 0 {
		return nil, ""
	}
	if k, ok := msg.(tea.KeyPressMsg); ok {
		switch k.String() {
		case "tab", "down":
			return g.focusIndex(g.focus + 1), ""
		case "shift+tab", "up":
			return g.focusIndex(g.focus - 1), ""
		}
	}
	f := g.Fields[g.focus]
	cmd, ok := f.Update(msg)
	if ok {
		f.SetError("")
		return cmd, f.Key
	}
	return cmd, ""
}

// View renders every field separated by a blank line.
func (g *FieldGroup) View() string {
	views := make([]string, 0, len(g.Fields))
	for _, f := range g.Fields {
		views = append(views, f.View())
	}
	return strings.Join(views, "\n\n")
}
