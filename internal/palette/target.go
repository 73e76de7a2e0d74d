package palette

import (
	"fmt"
	"strings"
)

// Target is a semantic slot a swatch may be assigned to.
type Target int

const (
	LightVibrant Target = iota
	Vibrant
	DarkVibrant
	LightMuted
	Muted
	DarkMuted
)

var targetNames = map[Target]string{
	LightVibrant: "LIGHT_VIBRANT",
	Vibrant:      "VIBRANT",
	DarkVibrant:  "DARK_VIBRANT",
	LightMuted:   "LIGHT_MUTED",
	Muted:        "MUTED",
	DarkMuted:    "DARK_MUTED",
}

// String returns the upper snake case target name, e.g. "LIGHT_VIBRANT".
func (t Target) String() string {
	if name, ok := targetNames[t]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether t is one of the six known targets.
func (t Target) Valid() bool {
	_, ok := targetNames[t]
	return ok
}

// MarshalText implements encoding.TextMarshaler.
func (t Target) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("unknown target: %d", int(t))
	}
	return []byte(t.String()), nil
}

// ParseTarget parses a target name. Case, dashes and underscores are ignored,
// so "light-vibrant", "LightVibrant" and "LIGHT_VIBRANT" are all accepted.
func ParseTarget(s string) (Target, error) {
	norm := strings.ToUpper(strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.TrimSpace(s)))
	for t, name := range targetNames {
		if strings.ReplaceAll(name, "_", "") == norm {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown target: %q (valid: %s)", s, strings.Join(TargetNames(), ", "))
}

// ParseTargets parses a comma separated list of target names.
func ParseTargets(s string) ([]Target, error) {
	var targets []Target
	for part := range strings.SplitSeq(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		t, err := ParseTarget(part)
		if err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	return targets, nil
}

// DefaultTargets returns the six targets in extraction order.
func DefaultTargets() []Target {
	return []Target{LightVibrant, Vibrant, DarkVibrant, LightMuted, Muted, DarkMuted}
}

// TargetNames returns the names of DefaultTargets.
func TargetNames() []string {
	targets := DefaultTargets()
	names := make([]string, len(targets))
	for i, t := range targets {
		names[i] = t.String()
	}
	return names
}

// Range is a min/target/max triple in the 0-1 range.
type Range struct {
	Min, Target, Max float64
}

// contains reports whether v lies within [Min, Max].
func (r Range) contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Profile describes how swatches are scored against a target.
type Profile struct {
	Saturation       Range
	Lightness        Range
	SaturationWeight float64
	LightnessWeight  float64
	PopulationWeight float64
	// Exclusive targets claim their swatch so later targets cannot reuse it.
	Exclusive bool
}

var (
	lightLightness  = Range{Min: 0.55, Target: 0.74, Max: 1}
	normalLightness = Range{Min: 0.3, Target: 0.5, Max: 0.7}
	darkLightness   = Range{Min: 0, Target: 0.26, Max: 0.45}

	vibrantSaturation = Range{Min: 0.35, Target: 1, Max: 1}
	mutedSaturation   = Range{Min: 0, Target: 0.3, Max: 0.4}
)

// Profile returns the scoring profile for t.
func (t Target) Profile() Profile {
	p := Profile{
		SaturationWeight: 0.24,
		LightnessWeight:  0.52,
		PopulationWeight: 0.24,
		Exclusive:        true,
	}

	switch t {
	case LightVibrant, LightMuted:
		p.Lightness = lightLightness
	case Vibrant, Muted:
		p.Lightness = normalLightness
	default:
		p.Lightness = darkLightness
	}

	switch t {
	case LightVibrant, Vibrant, DarkVibrant:
		p.Saturation = vibrantSaturation
	default:
		p.Saturation = mutedSaturation
	}

	return p
}

// normalisedWeights scales the positive weights so they sum to one.
func (p Profile) normalisedWeights() (sat, light, pop float64) {
	sat, light, pop = max(p.SaturationWeight, 0), max(p.LightnessWeight, 0), max(p.PopulationWeight, 0)
	total := sat + light + pop
	if total == 0 {
		return 0, 0, 0
	}
	return sat / total, light / total, pop / total
}
