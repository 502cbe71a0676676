package tui

import (
	"strings"

	"charm.land/glamour/v2"
	"charm.land/lipgloss/v2"
)

// RenderMarkdown renders markdown for the terminal with glamour.
// Falls back to plain wrapped text if rendering fails.
func RenderMarkdown(content string, width int) string {
	// Cap width to 100 for readability
	if width > 100 {
		width = 100
	}
	if width < 20 {
		width = 20
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return wrapText(content, width)
	}

	rendered, err := r.Render(content)
	if err != nil {
		return wrapText(content, width)
	}

	// Remove trailing newline that glamour adds
	return strings.TrimSuffix(rendered, "\n")
}

// wrapText wraps text to the given width.
func wrapText(text string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(text)
}

// MarkdownTable renders label/value pairs as a two-column markdown table.
// Pipes in values are escaped.
func MarkdownTable(header [2]string, rows [][2]string) string {
	esc := func(s string) string {
		s = strings.ReplaceAll(s, "|", `\|`)
		if strings.TrimSpace(s) == "" {
			return "-"
		}
		return s
	}
	var b strings.Builder
	b.WriteString("| " + header[0] + " | " + header[1] + " |\n")
	b.WriteString("|---|---|\n")
	for _, r := range rows {
		b.WriteString("| " + esc(r[0]) + " | " + esc(r[1]) + " |\n")
	}
	return b.String()
}
