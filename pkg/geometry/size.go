package geometry

import "unicode/utf8"

// Sizing holds the adaptive shape-sizing constants. A shape's diameter or
// width is a step function of its text length: short text gets the minimum
// size, longer text grows at a fixed per-character pixel cost, clamped to a
// maximum. This avoids text clipping without measuring rendered glyph widths.
type Sizing struct {
	MinDiameter float64 // smallest circle diameter
	MaxDiameter float64 // largest circle diameter
	MinWidth    float64 // smallest box width
	MaxWidth    float64 // largest box width
	BoxHeight   float64 // fixed box height
	PerChar     float64 // estimated pixel cost per character
	ShortText   int     // rune count at or below which the minimum applies
}

// DefaultSizing returns the built-in sizing constants. These can be
// overridden through the engine configuration file.
func DefaultSizing() Sizing {
	return Sizing{
		MinDiameter: 90,
		MaxDiameter: 220,
		MinWidth:    120,
		MaxWidth:    320,
		BoxHeight:   48,
		PerChar:     11,
		ShortText:   8,
	}
}

// Diameter returns the circle diameter for the given text.
func (s Sizing) Diameter(text string) float64 {
	return s.stepped(text, s.MinDiameter, s.MaxDiameter)
}

// BoxWidth returns the rectangle width for the given text.
func (s Sizing) BoxWidth(text string) float64 {
	return s.stepped(text, s.MinWidth, s.MaxWidth)
}

// Box returns the rectangle dimensions for the given text.
func (s Sizing) Box(text string) (width, height float64) {
	return s.BoxWidth(text), s.BoxHeight
}

func (s Sizing) stepped(text string, min, max float64) float64 {
	n := utf8.RuneCountInString(text)
	if n <= s.ShortText {
		return min
	}
	size := min + float64(n-s.ShortText)*s.PerChar
	if size > max {
		return max
	}
	return size
}
