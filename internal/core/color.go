package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for room elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
	ColorDarkGray
	ColorPink
	ColorTeal
)

// Grayscale maps a color to its closest neutral tone.
// Used when the scene is fully desaturated.
func (c Color) Grayscale() Color {
	switch c {
	case ColorDefault, ColorGray, ColorDarkGray:
		return c
	case ColorWhite, ColorBrightWhite, ColorBrightYellow, ColorBrightCyan, ColorBrightGreen:
		return ColorWhite
	case ColorBlue, ColorMagenta, ColorRed:
		return ColorDarkGray
	default:
		return ColorGray
	}
}

var colorNames = map[string]Color{
	"default":        ColorDefault,
	"red":            ColorRed,
	"green":          ColorGreen,
	"yellow":         ColorYellow,
	"blue":           ColorBlue,
	"magenta":        ColorMagenta,
	"cyan":           ColorCyan,
	"white":          ColorWhite,
	"bright-red":     ColorBrightRed,
	"bright-green":   ColorBrightGreen,
	"bright-yellow":  ColorBrightYellow,
	"bright-blue":    ColorBrightBlue,
	"bright-magenta": ColorBrightMagenta,
	"bright-cyan":    ColorBrightCyan,
	"bright-white":   ColorBrightWhite,
	"orange":         ColorOrange,
	"gray":           ColorGray,
	"dark-gray":      ColorDarkGray,
	"pink":           ColorPink,
	"teal":           ColorTeal,
}

// ParseColor resolves a color name such as "bright-cyan".
func ParseColor(name string) (Color, bool) {
	c, ok := colorNames[name]
	return c, ok
}
