package theme

// NewCatppuccinMocha creates the default Catppuccin Mocha theme.
func NewCatppuccinMocha() *Theme {
	return &Theme{
		Name:   "catppuccin-mocha",
		IsDark: true,

		Primary:   "#cba6f7", // Mauve
		Secondary: "#b4befe", // Lavender
		Tertiary:  "#89dceb", // Sky

		BgCrust:    "#11111b",
		BgBase:     "#1e1e2e",
		BgMantle:   "#181825",
		BgSurface0: "#313244",
		BgSurface1: "#45475a",
		BgSurface2: "#585b70",
		BgOverlay:  "#6c7086",

		FgMuted:  "#6c7086", // Overlay0
		FgSubtle: "#a6adc8", // Subtext0
		FgBase:   "#cdd6f4", // Text
		FgBright: "#f5e0dc", // Rosewater

		Success: "#a6e3a1", // Green
		Warning: "#f9e2af", // Yellow
		Error:   "#f38ba8", // Red
		Info:    "#89b4fa", // Blue

		DiffInsertBg: "#303a30",
		DiffDeleteBg: "#3a3030",
	}
}

// NewCatppuccinLatte creates the light Catppuccin Latte theme.
func NewCatppuccinLatte() *Theme {
	return &Theme{
		Name:   "catppuccin-latte",
		IsDark: false,

		Primary:   "#8839ef",
		Secondary: "#7287fd",
		Tertiary:  "#04a5e5",

		BgCrust:    "#dce0e8",
		BgBase:     "#eff1f5",
		BgMantle:   "#e6e9ef",
		BgSurface0: "#ccd0da",
		BgSurface1: "#bcc0cc",
		BgSurface2: "#acb0be",
		BgOverlay:  "#9ca0b0",

		FgMuted:  "#9ca0b0",
		FgSubtle: "#6c6f85",
		FgBase:   "#4c4f69",
		FgBright: "#dc8a78",

		Success: "#40a02b",
		Warning: "#df8e1d",
		Error:   "#d20f39",
		Info:    "#1e66f5",

		DiffInsertBg: "#d5ecd2",
		DiffDeleteBg: "#f4d3d9",
	}
}

// ByName returns a built-in theme, or nil for unknown names.
func ByName(name string) *Theme {
	switch name {
	case "catppuccin-mocha", "dark", "":
		return NewCatppuccinMocha()
	case "catppuccin-latte", "light":
		return NewCatppuccinLatte()
	}
	return nil
}
