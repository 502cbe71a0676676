package theme

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
)

// Gradient returns n hex colors blended evenly from colorA to colorB.
func Gradient(colorA, colorB string, n int) []string {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []string{colorA}
	}
	out := make([]string, n)
	for i := range out {
		out[i] = InterpolateColor(colorA, colorB, float64(i)/float64(n-1))
	}
	return out
}

// InterpolateColor blends between two "#rrggbb" colors; pos runs 0.0 to 1.0.
func InterpolateColor(colorA, colorB string, pos float64) string {
	pos = min(max(pos, 0), 1)
	r1, g1, b1 := ParseHexColor(colorA)
	r2, g2, b2 := ParseHexColor(colorB)

	mix := func(a, b uint8) uint8 {
		return uint8(float64(a)*(1-pos) + float64(b)*pos + 0.5)
	}
	return FormatHexColor(mix(r1, r2), mix(g1, g2), mix(b1, b2))
}

// ParseHexColor extracts RGB values from a hex color string. Malformed input
// yields black.
func ParseHexColor(hex string) (uint8, uint8, uint8) {
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}
	var r, g, b uint8
	if len(hex) == 6 {
		if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
			return 0, 0, 0
		}
	}
	return r, g, b
}

// FormatHexColor converts RGB values to a "#rrggbb" string.
func FormatHexColor(r, g, b uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// ApplyGradient colors each rune of text along a gradient from colorA to
// colorB. Spaces keep their position but are not styled.
func ApplyGradient(text, colorA, colorB string) string {
	runes := []rune(text)
	colors := Gradient(colorA, colorB, len(runes))
	var b strings.Builder
	for i, r := range runes {
		if r == ' ' {
			b.WriteRune(r)
			continue
		}
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(colors[i])).Render(string(r)))
	}
	return b.String()
}
