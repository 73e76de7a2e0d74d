// Package colour provides colour primitives, contrast maths and palette extraction.
package colour

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// RGB represents an opaque colour in RGB format.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Common colours.
var (
	White = RGB{R: 255, G: 255, B: 255}
	Black = RGB{R: 0, G: 0, B: 0}
)

// String returns the RGB colour as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB colour as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// Uint32 packs the colour as 0xRRGGBB.
func (rgb RGB) Uint32() uint32 {
	return uint32(rgb.R)<<16 | uint32(rgb.G)<<8 | uint32(rgb.B)
}

// RGBA returns the colour with the given alpha.
func (rgb RGB) RGBA(alpha uint8) RGBA {
	return RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: alpha}
}

// RGBFromUint32 unpacks a 0xRRGGBB value. Bits above 24 are ignored.
func RGBFromUint32(v uint32) RGB {
	return RGB{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}
}

// ToRGB converts a color.Color to RGB.
func ToRGB(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	// RGBA returns values in the range [0, 65535], convert to [0, 255]
	return RGB{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// RGBToColor converts an RGB value to a color.Color (RGBA).
func RGBToColor(rgb RGB) color.Color {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// ParseHex parses "#rrggbb" or "rrggbb" into an RGB value.
func ParseHex(s string) (RGB, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return RGB{}, fmt.Errorf("invalid hex colour %q: expected 6 hex digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	return RGBFromUint32(uint32(v)), nil
}

// RGBA is a colour with straight (non-premultiplied) alpha.
type RGBA struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// RGB drops the alpha channel.
func (c RGBA) RGB() RGB {
	return RGB{R: c.R, G: c.G, B: c.B}
}

// WithAlpha returns a copy of the colour with alpha replaced.
func (c RGBA) WithAlpha(alpha uint8) RGBA {
	c.A = alpha
	return c
}

// AlphaFloat returns the alpha channel in the range 0.0-1.0.
func (c RGBA) AlphaFloat() float64 {
	return float64(c.A) / 255.0
}

// Hex returns "#rrggbb", ignoring alpha.
func (c RGBA) Hex() string {
	return c.RGB().Hex()
}

// HexAlpha returns "#rrggbbaa".
func (c RGBA) HexAlpha() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// ARGB packs the colour as 0xAARRGGBB.
func (c RGBA) ARGB() uint32 {
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// NRGBA converts to the standard library's straight-alpha colour type.
func (c RGBA) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// IsOpaque reports whether alpha is 255.
func (c RGBA) IsOpaque() bool {
	return c.A == 255
}
