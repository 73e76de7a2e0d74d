package palette

import (
	"fmt"
	"image"
	"math"

	"github.com/jmylchreest/swatch/internal/colour"
)

// DefaultMaximumColorCount is the number of clusters requested from the extractor.
const DefaultMaximumColorCount = 75

// PriorityTargets are always requested, after any configured targets.
var PriorityTargets = []Target{LightVibrant, LightMuted, Vibrant}

// Options configures palette generation.
type Options struct {
	// MaximumColorCount bounds the number of extracted swatches (1-256).
	MaximumColorCount int
	// Targets are the requested targets. PriorityTargets are added when missing.
	Targets []Target
	// Filter drops near-black, near-white and the red "I line" band.
	Filter bool
	// Seed makes extraction reproducible.
	Seed int64
	// Algorithm selects the colour extractor.
	Algorithm colour.Algorithm
}

// DefaultOptions returns the default generation options.
func DefaultOptions() Options {
	return Options{
		MaximumColorCount: DefaultMaximumColorCount,
		Targets:           DefaultTargets(),
		Filter:            false,
		Seed:              1,
		Algorithm:         colour.AlgorithmKMeans,
	}
}

// Validate checks the options.
func (o Options) Validate() error {
	if o.MaximumColorCount < colour.MinColourCount || o.MaximumColorCount > colour.MaxColourCount {
		return fmt.Errorf("%w: %d (valid range %d-%d)", colour.ErrInvalidColourCount,
			o.MaximumColorCount, colour.MinColourCount, colour.MaxColourCount)
	}
	for _, t := range o.Targets {
		if !t.Valid() {
			return fmt.Errorf("unknown target: %d", int(t))
		}
	}
	return nil
}

// requestedTargets appends any missing priority targets to o.Targets, without duplicates.
func (o Options) requestedTargets() []Target {
	b := NewBuilder()
	for _, t := range o.Targets {
		b.AddTarget(t)
	}
	for _, t := range PriorityTargets {
		b.AddTarget(t)
	}
	return b.targets
}

// Generator turns images into palettes.
type Generator struct {
	opts Options
}

// NewGenerator creates a Generator after validating opts.
func NewGenerator(opts Options) (*Generator, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid palette options: %w", err)
	}
	return &Generator{opts: opts}, nil
}

// Options returns the generator's options.
func (g *Generator) Options() Options {
	return g.opts
}

// Generate extracts clusters from img and builds a palette from them.
func (g *Generator) Generate(img image.Image) (*Palette, error) {
	// A fresh extractor per call keeps the generator safe for concurrent use.
	extractor, err := colour.NewExtractor(g.opts.Algorithm, g.opts.Seed)
	if err != nil {
		return nil, err
	}
	clusters, err := extractor.Extract(img, g.opts.MaximumColorCount)
	if err != nil {
		return nil, fmt.Errorf("failed to extract colours: %w", err)
	}
	return g.FromClusters(clusters), nil
}

// FromClusters builds a palette from already extracted clusters.
func (g *Generator) FromClusters(clusters []colour.Cluster) *Palette {
	b := NewBuilder()
	for _, c := range clusters {
		if g.opts.Filter && !allowed(colour.ToHSL(c.RGB)) {
			continue
		}
		b.AddSwatch(c.RGB, c.Population)
	}

	targets := g.opts.requestedTargets()
	for _, t := range targets {
		b.AddTarget(t)
	}
	for t, s := range scoreTargets(b.swatches, targets) {
		b.BindTarget(t, s)
	}
	for t, s := range scoreTargets(b.swatches, DefaultTargets()) {
		b.SetGeneric(t, s)
	}

	return b.Build()
}

// scoreTargets assigns each target its best scoring swatch, in target order.
func scoreTargets(swatches []Swatch, targets []Target) map[Target]Swatch {
	result := make(map[Target]Swatch, len(targets))
	if len(swatches) == 0 {
		return result
	}

	maxPopulation := 0
	for _, s := range swatches {
		maxPopulation = max(maxPopulation, s.population)
	}

	used := make(map[int]bool)
	for _, t := range targets {
		profile := t.Profile()
		best, bestScore, found := Swatch{}, math.Inf(-1), false
		for _, s := range swatches {
			if used[s.id] || !matches(s.hsl, profile) {
				continue
			}
			if sc := score(s, profile, maxPopulation); !found || sc > bestScore {
				best, bestScore, found = s, sc, true
			}
		}
		if !found {
			continue
		}
		result[t] = best
		if profile.Exclusive {
			used[best.id] = true
		}
	}
	return result
}

func matches(hsl colour.HSL, p Profile) bool {
	return p.Saturation.contains(hsl.S) && p.Lightness.contains(hsl.L)
}

func score(s Swatch, p Profile, maxPopulation int) float64 {
	satW, lightW, popW := p.normalisedWeights()

	var sat, light, pop float64
	if satW > 0 {
		sat = satW * (1 - math.Abs(s.hsl.S-p.Saturation.Target))
	}
	if lightW > 0 {
		light = lightW * (1 - math.Abs(s.hsl.L-p.Lightness.Target))
	}
	if popW > 0 && maxPopulation > 0 {
		pop = popW * (float64(s.population) / float64(maxPopulation))
	}
	return sat + light + pop
}

// allowed is the default swatch filter: not near black, not near white, not on the red I line.
func allowed(hsl colour.HSL) bool {
	return hsl.L > 0.05 && hsl.L < 0.95 && !isRedILine(hsl)
}

func isRedILine(hsl colour.HSL) bool {
	return hsl.H >= 10 && hsl.H <= 37 && hsl.S <= 0.82
}
