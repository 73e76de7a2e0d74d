// Package palette models extracted swatches, semantic targets and the
// read-only palettes that bind one to the other.
package palette

import (
	"encoding/json"
	"fmt"

	"github.com/jmylchreest/swatch/internal/colour"
)

// NoID is the identifier of a swatch that does not belong to a palette.
const NoID = -1

// Minimum contrast ratios for text drawn over a swatch.
const (
	MinContrastTitleText = 3.0
	MinContrastBodyText  = 4.5
)

// Swatch is an immutable extracted colour with its pixel population.
//
// Identity is the palette-assigned ID, not the colour: two swatches with the
// same RGB and population are still different swatches.
type Swatch struct {
	id         int
	rgb        colour.RGB
	population int
	hsl        colour.HSL
	titleText  colour.RGBA
	bodyText   colour.RGBA
}

// NewSwatch creates a swatch that is not bound to any palette.
// Negative populations are clamped to zero.
func NewSwatch(rgb colour.RGB, population int) Swatch {
	return newSwatch(NoID, rgb, population)
}

func newSwatch(id int, rgb colour.RGB, population int) Swatch {
	if population < 0 {
		population = 0
	}
	title, body := textColours(rgb)
	return Swatch{
		id:         id,
		rgb:        rgb,
		population: population,
		hsl:        colour.ToHSL(rgb),
		titleText:  title,
		bodyText:   body,
	}
}

// textColours picks white or black, at the lowest alpha that stays readable.
func textColours(rgb colour.RGB) (title, body colour.RGBA) {
	lightBody := colour.MinimumAlpha(colour.White, rgb, MinContrastBodyText)
	lightTitle := colour.MinimumAlpha(colour.White, rgb, MinContrastTitleText)
	if lightBody != -1 && lightTitle != -1 {
		return colour.White.RGBA(uint8(lightTitle)), colour.White.RGBA(uint8(lightBody))
	}

	darkBody := colour.MinimumAlpha(colour.Black, rgb, MinContrastBodyText)
	darkTitle := colour.MinimumAlpha(colour.Black, rgb, MinContrastTitleText)
	if darkBody != -1 && darkTitle != -1 {
		return colour.Black.RGBA(uint8(darkTitle)), colour.Black.RGBA(uint8(darkBody))
	}

	if lightBody != -1 {
		body = colour.White.RGBA(uint8(lightBody))
	} else {
		body = colour.Black.RGBA(uint8(max(darkBody, 0)))
	}
	if lightTitle != -1 {
		title = colour.White.RGBA(uint8(lightTitle))
	} else {
		title = colour.Black.RGBA(uint8(max(darkTitle, 0)))
	}
	return title, body
}

// ID returns the palette-assigned identifier, or NoID.
func (s Swatch) ID() int { return s.id }

// RGB returns the swatch colour.
func (s Swatch) RGB() colour.RGB { return s.rgb }

// Population returns the number of pixels the swatch represents.
func (s Swatch) Population() int { return s.population }

// HSL returns the swatch colour in HSL space.
func (s Swatch) HSL() colour.HSL { return s.hsl }

// TitleTextColor returns a colour suitable for title text over the swatch.
func (s Swatch) TitleTextColor() colour.RGBA { return s.titleText }

// BodyTextColor returns a colour suitable for body text over the swatch.
func (s Swatch) BodyTextColor() colour.RGBA { return s.bodyText }

// HexCode returns the colour as six upper-case hex digits without a hash.
func (s Swatch) HexCode() string {
	return fmt.Sprintf("%06X", s.rgb.Uint32())
}

// IsZero reports whether s is the zero value rather than a constructed swatch.
func (s Swatch) IsZero() bool {
	return s == Swatch{}
}

// Same reports whether s and other are the same palette swatch.
// Unbound swatches are never the same as anything.
func (s Swatch) Same(other Swatch) bool {
	return s.id != NoID && !s.IsZero() && !other.IsZero() && s.id == other.id
}

// String returns a short human-readable form.
func (s Swatch) String() string {
	return fmt.Sprintf("%s (population: %d)", s.rgb.Hex(), s.population)
}

type swatchJSON struct {
	ID         int        `json:"id"`
	Hex        string     `json:"hex"`
	RGB        colour.RGB `json:"rgb"`
	Population int        `json:"population"`
	HSL        colour.HSL `json:"hsl"`
	TitleText  string     `json:"titleTextColor"`
	BodyText   string     `json:"bodyTextColor"`
}

// MarshalJSON implements json.Marshaler.
func (s Swatch) MarshalJSON() ([]byte, error) {
	return json.Marshal(swatchJSON{
		ID:         s.id,
		Hex:        s.rgb.Hex(),
		RGB:        s.rgb,
		Population: s.population,
		HSL:        s.hsl,
		TitleText:  s.titleText.HexAlpha(),
		BodyText:   s.bodyText.HexAlpha(),
	})
}
