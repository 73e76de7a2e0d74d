package palette

import (
	"encoding/json"
	"slices"

	"github.com/jmylchreest/swatch/internal/colour"
)

// Palette is a read-only set of swatches with their target bindings.
//
// It carries two kinds of binding: the requested targets (SwatchForTarget)
// and the six generic family slots (Vibrant, Muted, ...). A generated palette
// fills both from the same scoring, but producers may set them independently.
type Palette struct {
	swatches []Swatch
	targets  []Target
	bound    map[Target]Swatch
	generic  map[Target]Swatch
	dominant Swatch
	hasDom   bool
}

// Swatches returns a copy of every candidate swatch in the palette.
func (p *Palette) Swatches() []Swatch {
	if p == nil {
		return nil
	}
	return slices.Clone(p.swatches)
}

// Len returns the number of candidate swatches.
func (p *Palette) Len() int {
	if p == nil {
		return 0
	}
	return len(p.swatches)
}

// Targets returns the requested targets in order.
func (p *Palette) Targets() []Target {
	if p == nil {
		return nil
	}
	return slices.Clone(p.targets)
}

// SwatchForTarget returns the swatch bound to t, if any.
func (p *Palette) SwatchForTarget(t Target) (Swatch, bool) {
	if p == nil {
		return Swatch{}, false
	}
	s, ok := p.bound[t]
	return s, ok
}

// IsBound reports whether s is the swatch currently bound to t.
func (p *Palette) IsBound(t Target, s Swatch) bool {
	b, ok := p.SwatchForTarget(t)
	return ok && b.Same(s)
}

// Generic returns the generic family swatch for t, if any.
func (p *Palette) Generic(t Target) (Swatch, bool) {
	if p == nil {
		return Swatch{}, false
	}
	s, ok := p.generic[t]
	return s, ok
}

// Vibrant returns the generic vibrant swatch.
func (p *Palette) Vibrant() (Swatch, bool) { return p.Generic(Vibrant) }

// LightVibrant returns the generic light vibrant swatch.
func (p *Palette) LightVibrant() (Swatch, bool) { return p.Generic(LightVibrant) }

// DarkVibrant returns the generic dark vibrant swatch.
func (p *Palette) DarkVibrant() (Swatch, bool) { return p.Generic(DarkVibrant) }

// Muted returns the generic muted swatch.
func (p *Palette) Muted() (Swatch, bool) { return p.Generic(Muted) }

// LightMuted returns the generic light muted swatch.
func (p *Palette) LightMuted() (Swatch, bool) { return p.Generic(LightMuted) }

// DarkMuted returns the generic dark muted swatch.
func (p *Palette) DarkMuted() (Swatch, bool) { return p.Generic(DarkMuted) }

// Dominant returns the swatch with the largest population.
func (p *Palette) Dominant() (Swatch, bool) {
	if p == nil || !p.hasDom {
		return Swatch{}, false
	}
	return p.dominant, true
}

// IsDominant reports whether s is the dominant swatch.
func (p *Palette) IsDominant(s Swatch) bool {
	d, ok := p.Dominant()
	return ok && d.Same(s)
}

type paletteJSON struct {
	Swatches []Swatch          `json:"swatches"`
	Targets  map[string]Swatch `json:"targets"`
	Generic  map[string]Swatch `json:"generic"`
	Order    []Target          `json:"order"`
	Dominant *Swatch           `json:"dominant,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (p *Palette) MarshalJSON() ([]byte, error) {
	out := paletteJSON{
		Swatches: p.Swatches(),
		Targets:  make(map[string]Swatch),
		Generic:  make(map[string]Swatch),
		Order:    p.Targets(),
	}
	if out.Swatches == nil {
		out.Swatches = []Swatch{}
	}
	if out.Order == nil {
		out.Order = []Target{}
	}
	if p != nil {
		for t, s := range p.bound {
			out.Targets[t.String()] = s
		}
		for t, s := range p.generic {
			out.Generic[t.String()] = s
		}
	}
	if d, ok := p.Dominant(); ok {
		out.Dominant = &d
	}
	return json.Marshal(out)
}

// Builder assembles a Palette. A Builder is not safe for concurrent use.
type Builder struct {
	swatches []Swatch
	targets  []Target
	bound    map[Target]Swatch
	generic  map[Target]Swatch
	dominant *Swatch
}

// NewBuilder creates an empty palette builder.
func NewBuilder() *Builder {
	return &Builder{
		bound:   make(map[Target]Swatch),
		generic: make(map[Target]Swatch),
	}
}

// AddSwatch adds a candidate swatch and returns it with its palette ID.
// IDs are assigned in insertion order starting at zero.
func (b *Builder) AddSwatch(rgb colour.RGB, population int) Swatch {
	s := newSwatch(len(b.swatches), rgb, population)
	b.swatches = append(b.swatches, s)
	return s
}

// AddTarget appends t to the requested targets unless already present.
func (b *Builder) AddTarget(t Target) *Builder {
	if !slices.Contains(b.targets, t) {
		b.targets = append(b.targets, t)
	}
	return b
}

// BindTarget binds s to t, requesting t if needed. Unbound swatches
// (created with NewSwatch) are added to the palette first.
func (b *Builder) BindTarget(t Target, s Swatch) *Builder {
	b.AddTarget(t)
	b.bound[t] = b.intern(s)
	return b
}

// SetGeneric sets the generic family slot for t.
func (b *Builder) SetGeneric(t Target, s Swatch) *Builder {
	b.generic[t] = b.intern(s)
	return b
}

// SetDominant overrides the computed dominant swatch.
func (b *Builder) SetDominant(s Swatch) *Builder {
	in := b.intern(s)
	b.dominant = &in
	return b
}

func (b *Builder) intern(s Swatch) Swatch {
	if s.id != NoID && s.id < len(b.swatches) && b.swatches[s.id] == s {
		return s
	}
	return b.AddSwatch(s.rgb, s.population)
}

// Build returns the finished palette. The builder may keep being used;
// later changes do not affect palettes already built.
func (b *Builder) Build() *Palette {
	p := &Palette{
		swatches: slices.Clone(b.swatches),
		targets:  slices.Clone(b.targets),
		bound:    make(map[Target]Swatch, len(b.bound)),
		generic:  make(map[Target]Swatch, len(b.generic)),
	}
	for t, s := range b.bound {
		p.bound[t] = s
	}
	for t, s := range b.generic {
		p.generic[t] = s
	}

	if b.dominant != nil {
		p.dominant, p.hasDom = *b.dominant, true
	} else if len(p.swatches) > 0 {
		p.dominant, p.hasDom = findDominant(p.swatches), true
	}

	return p
}

// findDominant returns the highest population swatch; the first wins a tie.
func findDominant(swatches []Swatch) Swatch {
	best := swatches[0]
	for _, s := range swatches[1:] {
		if s.population > best.population {
			best = s
		}
	}
	return best
}
