package theme

import (
	"image/color"
	"sync"

	"charm.land/lipgloss/v2"
)

// Theme defines the color palette for the TUI.
type Theme struct {
	Name   string
	IsDark bool

	// Semantic colors
	Primary   string
	Secondary string
	Tertiary  string

	// Background hierarchy (dark→light)
	BgCrust    string
	BgBase     string
	BgMantle   string
	BgSurface0 string
	BgSurface1 string
	BgSurface2 string
	BgOverlay  string

	// Foreground hierarchy (dim→bright)
	FgMuted  string
	FgSubtle string
	FgBase   string
	FgBright string

	// Status colors
	Success string
	Warning string
	Error   string
	Info    string

	// Diff colors
	DiffInsertBg string
	DiffDeleteBg string

	// Lazy-built styles
	styles     *Styles
	stylesOnce sync.Once
}

var (
	mu      sync.RWMutex
	current = NewCatppuccinMocha()
)

// Current returns the active theme.
func Current() *Theme {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// SetCurrent replaces the active theme.
func SetCurrent(t *Theme) {
	if t == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	current = t
}

// S returns the pre-built styles for this theme.
// Styles are lazily initialized on first call.
func (t *Theme) S() *Styles {
	t.stylesOnce.Do(func() {
		t.styles = t.buildStyles()
	})
	return t.styles
}

// HexToColor converts a "#rrggbb" string to a color usable by tea.View.
func HexToColor(hex string) color.Color {
	return lipgloss.Color(hex)
}

// buildStyles constructs the pre-built styles from theme colors.
func (t *Theme) buildStyles() *Styles {
	c := lipgloss.Color
	button := lipgloss.NewStyle().Padding(0, 2).MarginLeft(1).MarginRight(1)

	return &Styles{
		HeaderTitle: lipgloss.NewStyle().Foreground(c(t.Primary)).Bold(true),
		Subtitle:    lipgloss.NewStyle().Foreground(c(t.FgSubtle)),

		Label:       lipgloss.NewStyle().Foreground(c(t.FgBase)).Bold(true),
		LabelActive: lipgloss.NewStyle().Foreground(c(t.Secondary)).Bold(true),
		Value:       lipgloss.NewStyle().Foreground(c(t.FgBright)),
		Muted:       lipgloss.NewStyle().Foreground(c(t.FgMuted)),
		FieldError:  lipgloss.NewStyle().Foreground(c(t.Error)),

		Success: lipgloss.NewStyle().Foreground(c(t.Success)).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(c(t.Warning)),
		Error:   lipgloss.NewStyle().Foreground(c(t.Error)).Bold(true),

		Selected: lipgloss.NewStyle().
			Foreground(c(t.Primary)).
			Background(c(t.BgSurface0)).
			Bold(true),

		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c(t.Secondary)).
			Padding(1, 2),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(c(t.BgSurface2)).
			Padding(0, 1),

		HintKey:       lipgloss.NewStyle().Foreground(c(t.FgSubtle)).Bold(true),
		HintDesc:      lipgloss.NewStyle().Foreground(c(t.FgMuted)),
		HintSeparator: lipgloss.NewStyle().Foreground(c(t.BgSurface2)),

		ButtonNormal: button.
			Foreground(c(t.FgBase)).
			Background(c(t.BgSurface0)),
		ButtonDisabled: button.
			Foreground(c(t.FgMuted)).
			Background(c(t.BgMantle)),
		ButtonFocused: button.
			Foreground(c(t.BgBase)).
			Background(c(t.Secondary)).
			Bold(true),

		StepDone:    lipgloss.NewStyle().Foreground(c(t.Success)),
		StepActive:  lipgloss.NewStyle().Foreground(c(t.Primary)).Bold(true),
		StepPending: lipgloss.NewStyle().Foreground(c(t.FgMuted)),

		ToastInfo:    lipgloss.NewStyle().Foreground(c(t.BgBase)).Background(c(t.Info)).Padding(0, 1).Bold(true),
		ToastSuccess: lipgloss.NewStyle().Foreground(c(t.BgBase)).Background(c(t.Success)).Padding(0, 1).Bold(true),
		ToastError:   lipgloss.NewStyle().Foreground(c(t.BgBase)).Background(c(t.Error)).Padding(0, 1).Bold(true),

		Code: lipgloss.NewStyle().Background(c(t.BgSurface0)).Padding(0, 1),

		DiffInsert: lipgloss.NewStyle().Foreground(c(t.Success)).Background(c(t.DiffInsertBg)),
		DiffDelete: lipgloss.NewStyle().Foreground(c(t.Error)).Background(c(t.DiffDeleteBg)),
		DiffHeader: lipgloss.NewStyle().Foreground(c(t.Info)),
	}
}
