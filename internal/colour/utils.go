package colour

import (
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Luminance calculates the relative luminance of a colour according to WCAG 2.0.
// Returns a value between 0 (darkest) and 1 (lightest).
// https://www.w3.org/TR/WCAG20/#relativeluminancedef.
func Luminance(c color.Color) float64 {
	r, g, b, _ := c.RGBA()
	// Convert from 16-bit to 8-bit.
	rf := float64(r>>8) / 255.0
	rg := float64(g>>8) / 255.0
	rb := float64(b>>8) / 255.0

	// Apply gamma correction.
	rf = gammaCorrect(rf)
	rg = gammaCorrect(rg)
	rb = gammaCorrect(rb)

	// Calculate luminance using WCAG formula.
	return 0.2126*rf + 0.7152*rg + 0.0722*rb
}

// gammaCorrect applies gamma correction to a colour component.
func gammaCorrect(v float64) float64 {
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// ContrastRatio calculates the contrast ratio between two colours according to WCAG 2.0.
// Returns a value between 1 and 21, where 21 is maximum contrast (black vs white).
// https://www.w3.org/TR/WCAG20/#contrast-ratiodef.
func ContrastRatio(c1, c2 color.Color) float64 {
	l1 := Luminance(c1)
	l2 := Luminance(c2)

	// Ensure l1 is the lighter colour.
	if l1 < l2 {
		l1, l2 = l2, l1
	}

	return (l1 + 0.05) / (l2 + 0.05)
}

// Composite paints fg over bg using source-over blending of straight-alpha colours.
func Composite(fg, bg RGBA) RGBA {
	fa, ba := int(fg.A), int(bg.A)
	a := 0xFF - ((0xFF - ba) * (0xFF - fa) / 0xFF)
	return RGBA{
		R: compositeComponent(int(fg.R), fa, int(bg.R), ba, a),
		G: compositeComponent(int(fg.G), fa, int(bg.G), ba, a),
		B: compositeComponent(int(fg.B), fa, int(bg.B), ba, a),
		A: uint8(a),
	}
}

func compositeComponent(fgC, fgA, bgC, bgA, a int) uint8 {
	if a == 0 {
		return 0
	}
	return uint8(((0xFF * fgC * fgA) + (bgC * bgA * (0xFF - fgA))) / (a * 0xFF))
}

// contrastOver returns the contrast of a possibly translucent fg drawn on an opaque bg.
func contrastOver(fg RGBA, bg RGB) float64 {
	opaqueBg := bg.RGBA(255)
	if !fg.IsOpaque() {
		fg = Composite(fg, opaqueBg)
	}
	return ContrastRatio(RGBToColor(fg.RGB()), RGBToColor(bg))
}

const (
	minAlphaSearchIterations = 10
	minAlphaSearchPrecision  = 1
)

// MinimumAlpha returns the lowest alpha at which fg drawn over bg reaches
// minRatio, or -1 if fully opaque fg does not.
func MinimumAlpha(fg, bg RGB, minRatio float64) int {
	if contrastOver(fg.RGBA(255), bg) < minRatio {
		return -1
	}

	minAlpha, maxAlpha := 0, 255
	for i := 0; i <= minAlphaSearchIterations && maxAlpha-minAlpha > minAlphaSearchPrecision; i++ {
		test := (minAlpha + maxAlpha) / 2
		if contrastOver(fg.RGBA(uint8(test)), bg) < minRatio {
			minAlpha = test
		} else {
			maxAlpha = test
		}
	}
	return maxAlpha
}

// HSL holds hue (0-360), saturation (0-1) and lightness (0-1).
type HSL struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	L float64 `json:"l"`
}

// ToHSL converts an RGB colour to HSL.
func ToHSL(rgb RGB) HSL {
	c := colorful.Color{
		R: float64(rgb.R) / 255.0,
		G: float64(rgb.G) / 255.0,
		B: float64(rgb.B) / 255.0,
	}
	h, s, l := c.Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return HSL{H: h, S: s, L: l}
}
