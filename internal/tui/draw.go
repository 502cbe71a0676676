package tui

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/mark3labs/handyhire/internal/tui/theme"
)

// ModalWidth is the outer width of the wizard card.
const ModalWidth = 76

// ModalContentWidth is the usable width inside the card border and padding.
const ModalContentWidth = ModalWidth - 2*2 - 2

// DrawText renders plain or pre-styled text into area.
func DrawText(scr uv.Screen, area uv.Rectangle, text string) {
	uv.NewStyledString(text).Draw(scr, area)
}

// Card wraps content in the bordered modal style at ModalWidth, narrowed to
// fit screens smaller than that.
func Card(content string, screenWidth int) string {
	w := ModalWidth
	if screenWidth > 0 && screenWidth-2 < w {
		w = max(screenWidth-2, 20)
	}
	return theme.Current().S().Modal.Width(w).Render(content)
}

// Screen builds the full-screen view: body centered, toast on the last row.
func Screen(width, height int, body, toast string) tea.View {
	var view tea.View
	view.AltScreen = true

	if width == 0 || height == 0 {
		view.Content = lipgloss.NewLayer("")
		return view
	}

	canvas := uv.NewScreenBuffer(width, height)
	centered := lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
	DrawText(canvas, canvas.Bounds(), centered)

	if toast != "" {
		DrawText(canvas, uv.Rect(0, height-1, width, 1), toast)
	}

	view.Content = lipgloss.NewLayer(canvas.Render())
	view.BackgroundColor = theme.HexToColor(theme.Current().BgBase)
	return view
}
