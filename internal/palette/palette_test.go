package palette

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/jmylchreest/swatch/internal/colour"
)

func TestNewSwatch(t *testing.T) {
	s := NewSwatch(colour.RGBFromUint32(0xAABBCC), -5)

	if s.ID() != NoID {
		t.Errorf("ID() = %d, want NoID", s.ID())
	}
	if s.Population() != 0 {
		t.Errorf("Population() = %d, want negative population clamped to 0", s.Population())
	}
	if got := s.HexCode(); got != "AABBCC" {
		t.Errorf("HexCode() = %q, want %q", got, "AABBCC")
	}
	if s.IsZero() {
		t.Error("IsZero() = true for a constructed swatch")
	}
	if !(Swatch{}).IsZero() {
		t.Error("IsZero() = false for the zero swatch")
	}
	if s.Same(s) {
		t.Error("Same() = true for an unbound swatch")
	}
}

func TestSwatchTextColours(t *testing.T) {
	tests := []struct {
		name string
		rgb  colour.RGB
		want colour.RGB
	}{
		{name: "black swatch gets white text", rgb: colour.Black, want: colour.White},
		{name: "white swatch gets black text", rgb: colour.White, want: colour.Black},
		{name: "navy swatch gets white text", rgb: colour.RGBFromUint32(0x101040), want: colour.White},
		{name: "pale yellow swatch gets black text", rgb: colour.RGBFromUint32(0xFFF3B0), want: colour.Black},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSwatch(tt.rgb, 1)
			if got := s.BodyTextColor().RGB(); got != tt.want {
				t.Errorf("BodyTextColor() = %s, want %s", got.Hex(), tt.want.Hex())
			}
			if got := s.TitleTextColor().RGB(); got != tt.want {
				t.Errorf("TitleTextColor() = %s, want %s", got.Hex(), tt.want.Hex())
			}
			// Titles need less contrast, so they never need more opacity.
			if s.TitleTextColor().A > s.BodyTextColor().A {
				t.Errorf("title alpha %d > body alpha %d", s.TitleTextColor().A, s.BodyTextColor().A)
			}
		})
	}
}

func TestBuilderAssignsIDs(t *testing.T) {
	b := NewBuilder()
	first := b.AddSwatch(colour.RGBFromUint32(0x112233), 4)
	second := b.AddSwatch(colour.RGBFromUint32(0x112233), 4)

	if first.ID() != 0 || second.ID() != 1 {
		t.Errorf("IDs = %d, %d, want 0, 1", first.ID(), second.ID())
	}
	if first.Same(second) {
		t.Error("Same() = true for two swatches with equal values but different IDs")
	}
	if !first.Same(first) {
		t.Error("Same() = false for a palette swatch and itself")
	}
}

func TestBuilderTargets(t *testing.T) {
	b := NewBuilder()
	b.AddTarget(Vibrant).AddTarget(Muted).AddTarget(Vibrant)

	unbound := NewSwatch(colour.RGBFromUint32(0xAABBCC), 3)
	b.BindTarget(LightVibrant, unbound)
	p := b.Build()

	want := []Target{Vibrant, Muted, LightVibrant}
	got := p.Targets()
	if len(got) != len(want) {
		t.Fatalf("Targets() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Targets()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if p.Len() != 1 {
		t.Errorf("Len() = %d, want the bound swatch added to the palette", p.Len())
	}
	s, ok := p.SwatchForTarget(LightVibrant)
	if !ok {
		t.Fatal("SwatchForTarget(LightVibrant) not found")
	}
	if s.ID() == NoID {
		t.Error("bound swatch has no palette ID")
	}
	if !p.IsBound(LightVibrant, s) {
		t.Error("IsBound(LightVibrant) = false for the bound swatch")
	}
	if p.IsBound(LightVibrant, unbound) {
		t.Error("IsBound() = true for the original unbound swatch")
	}
	if _, ok := p.SwatchForTarget(Vibrant); ok {
		t.Error("SwatchForTarget(Vibrant) found a swatch for a requested but unbound target")
	}
}

func TestBuilderDominant(t *testing.T) {
	b := NewBuilder()
	b.AddSwatch(colour.RGBFromUint32(0x111111), 5)
	tie := b.AddSwatch(colour.RGBFromUint32(0x222222), 9)
	b.AddSwatch(colour.RGBFromUint32(0x333333), 9)

	d, ok := b.Build().Dominant()
	if !ok || !d.Same(tie) {
		t.Errorf("Dominant() = %v, want the first of the tied swatches %v", d, tie)
	}

	other := b.AddSwatch(colour.RGBFromUint32(0x444444), 1)
	b.SetDominant(other)
	p := b.Build()
	if !p.IsDominant(other) {
		t.Error("SetDominant() was not honoured")
	}
	if p.IsDominant(tie) {
		t.Error("IsDominant() = true for a swatch that is no longer dominant")
	}

	if _, ok := NewBuilder().Build().Dominant(); ok {
		t.Error("Dominant() found a swatch in an empty palette")
	}
}

func TestBuildSnapshot(t *testing.T) {
	b := NewBuilder()
	b.SetGeneric(Muted, b.AddSwatch(colour.RGBFromUint32(0x445566), 8))
	p := b.Build()

	b.SetGeneric(Vibrant, b.AddSwatch(colour.RGBFromUint32(0x112233), 5))

	if p.Len() != 1 {
		t.Errorf("Len() = %d after later builder changes, want 1", p.Len())
	}
	if _, ok := p.Vibrant(); ok {
		t.Error("Vibrant() visible in a palette built before it was set")
	}
	if s, ok := p.Muted(); !ok || s.Population() != 8 {
		t.Errorf("Muted() = %v, %v, want the population 8 swatch", s, ok)
	}
}

func TestNilPalette(t *testing.T) {
	var p *Palette

	if p.Len() != 0 || p.Swatches() != nil || p.Targets() != nil {
		t.Error("nil palette is not empty")
	}
	for _, get := range []func() (Swatch, bool){p.Vibrant, p.LightVibrant, p.DarkVibrant, p.Muted, p.LightMuted, p.DarkMuted, p.Dominant} {
		if _, ok := get(); ok {
			t.Error("nil palette returned a swatch")
		}
	}
	if _, err := json.Marshal(p); err != nil {
		t.Errorf("json.Marshal(nil palette) error = %v", err)
	}
}

func TestPaletteMarshalJSON(t *testing.T) {
	b := NewBuilder()
	b.BindTarget(LightVibrant, b.AddSwatch(colour.RGBFromUint32(0xAABBCC), 3))
	b.SetGeneric(Muted, b.AddSwatch(colour.RGBFromUint32(0x445566), 8))

	data, err := json.Marshal(b.Build())
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	var got struct {
		Swatches []map[string]any `json:"swatches"`
		Targets  map[string]any   `json:"targets"`
		Generic  map[string]any   `json:"generic"`
		Order    []string         `json:"order"`
		Dominant map[string]any   `json:"dominant"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}

	if len(got.Swatches) != 2 {
		t.Errorf("swatches = %d, want 2", len(got.Swatches))
	}
	if _, ok := got.Targets["LIGHT_VIBRANT"]; !ok {
		t.Errorf("targets = %v, want LIGHT_VIBRANT", got.Targets)
	}
	if _, ok := got.Generic["MUTED"]; !ok {
		t.Errorf("generic = %v, want MUTED", got.Generic)
	}
	if len(got.Order) != 1 || got.Order[0] != "LIGHT_VIBRANT" {
		t.Errorf("order = %v, want [LIGHT_VIBRANT]", got.Order)
	}
	if got.Dominant["hex"] != "#445566" {
		t.Errorf("dominant = %v, want #445566", got.Dominant)
	}
	if !strings.Contains(string(data), `"bodyTextColor":"#`) {
		t.Errorf("swatch JSON has no body text colour: %s", data)
	}
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		input   string
		want    Target
		wantErr bool
	}{
		{input: "LIGHT_VIBRANT", want: LightVibrant},
		{input: "light-vibrant", want: LightVibrant},
		{input: "LightMuted", want: LightMuted},
		{input: " vibrant ", want: Vibrant},
		{input: "dark_muted", want: DarkMuted},
		{input: "dominant", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTarget(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTarget(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseTarget(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTargets(t *testing.T) {
	got, err := ParseTargets("vibrant, light-muted,,DARK_VIBRANT")
	if err != nil {
		t.Fatalf("ParseTargets() error = %v", err)
	}
	want := []Target{Vibrant, LightMuted, DarkVibrant}
	if len(got) != len(want) {
		t.Fatalf("ParseTargets() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ParseTargets()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if _, err := ParseTargets("vibrant,neon"); err == nil {
		t.Error("ParseTargets() with an unknown name succeeded")
	}
}

func TestTargetString(t *testing.T) {
	if got := strings.Join(TargetNames(), ","); got != "LIGHT_VIBRANT,VIBRANT,DARK_VIBRANT,LIGHT_MUTED,MUTED,DARK_MUTED" {
		t.Errorf("TargetNames() = %s", got)
	}
	if Target(42).Valid() {
		t.Error("Target(42).Valid() = true")
	}
	if _, err := Target(42).MarshalText(); err == nil {
		t.Error("Target(42).MarshalText() succeeded")
	}
}

func TestTargetProfile(t *testing.T) {
	for _, target := range DefaultTargets() {
		p := target.Profile()
		if !p.Exclusive {
			t.Errorf("%s profile is not exclusive", target)
		}
		sat, light, pop := p.normalisedWeights()
		if sum := sat + light + pop; sum < 0.999 || sum > 1.001 {
			t.Errorf("%s normalised weights sum to %f, want 1", target, sum)
		}
		if p.Lightness.Min > p.Lightness.Target || p.Lightness.Target > p.Lightness.Max {
			t.Errorf("%s lightness range %+v is not ordered", target, p.Lightness)
		}
	}

	if sat, light, pop := (Profile{}).normalisedWeights(); sat+light+pop != 0 {
		t.Error("normalisedWeights() of a zero profile is not zero")
	}
}
