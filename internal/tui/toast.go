package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mark3labs/handyhire/internal/tui/theme"
)

// ToastDuration is how long a toast stays visible.
const ToastDuration = 4 * time.Second

// ToastKind selects the toast color.
type ToastKind int

const (
	ToastInfo ToastKind = iota
	ToastSuccess
	ToastError
)

// ToastDismissMsg is sent when a toast should be dismissed. Only the toast
// with the matching sequence number is hidden.
type ToastDismissMsg struct{ seq int }

// Toast is a single-line notification that auto-dismisses.
type Toast struct {
	message string
	kind    ToastKind
	visible bool
	seq     int
}

// NewToast creates a new Toast component.
func NewToast() *Toast {
	return &Toast{}
}

// Show displays msg and schedules its dismissal. A newer toast replaces an
// older one and outlives the older one's timer.
func (t *Toast) Show(msg string, kind ToastKind) tea.Cmd {
	t.seq++
	t.message = msg
	t.kind = kind
	t.visible = true
	seq := t.seq
	return tea.Tick(ToastDuration, func(time.Time) tea.Msg {
		return ToastDismissMsg{seq: seq}
	})
}

// Update handles dismissal messages.
func (t *Toast) Update(msg tea.Msg) {
	if m, ok := msg.(ToastDismissMsg); ok && m.seq == t.seq {
		t.visible = false
		t.message = ""
	}
}

// View renders the toast right-aligned within width, or "" when hidden.
func (t *Toast) View(width int) string {
	if !t.visible || t.message == "" {
		return ""
	}

	s := theme.Current().S()
	style := s.ToastInfo
	switch t.kind {
	case ToastSuccess:
		style = s.ToastSuccess
	case ToastError:
		style = s.ToastError
	}

	content := style.Render(t.message)
	if lipgloss.Width(content) > width-2 && width > 4 {
		content = style.Width(width - 2).Render(t.message)
	}
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Right).PaddingRight(1).Render(content)
}

// IsVisible returns whether the toast is currently visible.
func (t *Toast) IsVisible() bool {
	return t.visible
}

// Message returns the current toast message (empty if not visible).
func (t *Toast) Message() string {
	if !t.visible {
		return ""
	}
	return t.message
}
