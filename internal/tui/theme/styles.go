package theme

import "charm.land/lipgloss/v2"

// Styles contains all pre-built lipgloss styles for the TUI.
type Styles struct {
	HeaderTitle lipgloss.Style
	Subtitle    lipgloss.Style

	// Form fields
	Label       lipgloss.Style
	LabelActive lipgloss.Style
	Value       lipgloss.Style
	Muted       lipgloss.Style
	FieldError  lipgloss.Style

	// Status text
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	Selected lipgloss.Style

	// Containers
	Modal lipgloss.Style
	Panel lipgloss.Style

	// Hint bar
	HintKey       lipgloss.Style
	HintDesc      lipgloss.Style
	HintSeparator lipgloss.Style

	// Buttons
	ButtonNormal   lipgloss.Style
	ButtonDisabled lipgloss.Style
	ButtonFocused  lipgloss.Style

	// Step indicator
	StepDone    lipgloss.Style
	StepActive  lipgloss.Style
	StepPending lipgloss.Style

	// Toasts
	ToastInfo    lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastError   lipgloss.Style

	Code lipgloss.Style

	// Unified diff lines
	DiffInsert lipgloss.Style
	DiffDelete lipgloss.Style
	DiffHeader lipgloss.Style
}
