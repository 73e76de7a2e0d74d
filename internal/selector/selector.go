// Package selector picks the single best representative swatch of a palette
// and derives the overlay text colour drawn over it.
//
// Every function is pure: palettes are read, never retained or modified, so
// callers may use the package from any number of goroutines.
package selector

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/jmylchreest/swatch/internal/colour"
	"github.com/jmylchreest/swatch/internal/palette"
)

// Priority lists the targets consulted before falling back to the generic swatches.
var Priority = []palette.Target{palette.LightVibrant, palette.LightMuted, palette.Vibrant}

// tieBreak is the order bound targets win a population tie in.
var tieBreak = []palette.Target{palette.LightVibrant, palette.Vibrant, palette.LightMuted, palette.Muted}

// Fallback is returned when a palette offers no usable swatch at all.
func Fallback() palette.Swatch {
	return palette.NewSwatch(colour.White, 1)
}

// Rule names the step of SelectBest that produced a result.
type Rule string

const (
	RuleLightVibrant Rule = "LIGHT_VIBRANT"
	RuleLightMuted   Rule = "LIGHT_MUTED"
	RuleVibrant      Rule = "VIBRANT"
	RuleDefaults     Rule = "DEFAULTS"
	RuleFallback     Rule = "FALLBACK"
)

// Result is the outcome of Explain.
type Result struct {
	Swatch  palette.Swatch `json:"swatch"`
	Rule    Rule           `json:"rule"`
	Overlay colour.RGBA    `json:"-"`
}

// SelectBest returns the best representative swatch of p. It never fails:
// an empty or nil palette yields Fallback.
func SelectBest(p *palette.Palette) palette.Swatch {
	return Explain(p).Swatch
}

// Explain is SelectBest that also reports which rule decided and the overlay colour.
func Explain(p *palette.Palette) Result {
	s, rule := selectBest(p)
	return Result{Swatch: s, Rule: rule, Overlay: OverlayTextColor(s)}
}

func selectBest(p *palette.Palette) (palette.Swatch, Rule) {
	for _, t := range Priority {
		if s, ok := p.SwatchForTarget(t); ok {
			return s, Rule(t.String())
		}
	}
	if s, ok := selectFromDefaults(p); ok {
		return s, RuleDefaults
	}
	return Fallback(), RuleFallback
}

// selectFromDefaults compares the best of the vibrant family with the best
// of the muted family. Muted wins unless vibrant is strictly more populous.
func selectFromDefaults(p *palette.Palette) (palette.Swatch, bool) {
	vibrant, hasVibrant := maxByPopulationThenPriority(p, p.Vibrant, p.LightVibrant, p.DarkVibrant)
	muted, hasMuted := maxByPopulationThenPriority(p, p.Muted, p.LightMuted, p.DarkMuted)

	switch {
	case hasVibrant && hasMuted:
		if vibrant.Population() > muted.Population() {
			return vibrant, true
		}
		return muted, true
	case hasVibrant:
		return vibrant, true
	case hasMuted:
		return muted, true
	default:
		return palette.Swatch{}, false
	}
}

// maxByPopulationThenPriority folds the present candidates left to right,
// replacing the current best only when the next one compares greater.
//
// compare is not a strict total order: two tied swatches that match none of
// the tie-break targets compare equal, so whichever came first is kept.
func maxByPopulationThenPriority(p *palette.Palette, candidates ...func() (palette.Swatch, bool)) (palette.Swatch, bool) {
	var best palette.Swatch
	found := false
	for _, candidate := range candidates {
		s, ok := candidate()
		if !ok {
			continue
		}
		if !found || compare(p, s, best) > 0 {
			best, found = s, true
		}
	}
	return best, found
}

// compare orders by population, then by identity with the swatches bound to
// the tie-break targets. It returns 0 when neither side is bound to one.
func compare(p *palette.Palette, a, b palette.Swatch) int {
	if d := a.Population() - b.Population(); d != 0 {
		if d > 0 {
			return 1
		}
		return -1
	}
	for _, t := range tieBreak {
		if p.IsBound(t, a) {
			return 1
		}
		if p.IsBound(t, b) {
			return -1
		}
	}
	return 0
}

// OverlayTextColor paints the swatch colour onto a blank pixel, paints the
// body text colour over it with its own alpha, and returns the result.
func OverlayTextColor(s palette.Swatch) colour.RGBA {
	px := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	bounds := px.Bounds()
	draw.Draw(px, bounds, image.NewUniform(s.RGB().RGBA(255).NRGBA()), image.Point{}, draw.Over)
	draw.Draw(px, bounds, image.NewUniform(s.BodyTextColor().NRGBA()), image.Point{}, draw.Over)

	c := color.NRGBAModel.Convert(px.At(0, 0)).(color.NRGBA)
	return colour.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
