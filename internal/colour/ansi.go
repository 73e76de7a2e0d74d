package colour

import (
	"fmt"
	"strings"
)

// ANSI escape codes for terminal colours.
const (
	ansiReset    = "\033[0m"
	ansiFgPrefix = "\033[38;2;"
	ansiBgPrefix = "\033[48;2;"
	ansiSuffix   = "m"
	defaultWidth = 8
)

// DisableColourOutput can be used to disable colour output.
var DisableColourOutput = false

// flatten resolves translucency against white, the colour a blank card shows through.
func flatten(c RGBA) RGB {
	if c.IsOpaque() {
		return c.RGB()
	}
	return Composite(c, White.RGBA(255)).RGB()
}

// ColourPreview returns an ANSI-coloured solid block for a colour.
// Width specifies how many characters wide the colour block should be.
func ColourPreview(c RGB, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	block := strings.Repeat(" ", width)
	if DisableColourOutput {
		return block
	}
	return bgSequence(c) + block + ansiReset
}

// Preview renders text on a background colour using the given text colour.
// Translucent colours are flattened over white first.
func Preview(bg, fg RGBA, text string) string {
	if DisableColourOutput {
		return text
	}
	return bgSequence(flatten(bg)) + fgSequence(flatten(Composite(fg, flatten(bg).RGBA(255)))) + text + ansiReset
}

// FormatColourWithPreview formats a colour with its preview and hex code.
func FormatColourWithPreview(rgb RGB, width int) string {
	return fmt.Sprintf("%s %s", ColourPreview(rgb, width), rgb.Hex())
}

// ColourString returns a coloured string if colour output is enabled, plain text otherwise.
func ColourString(rgb RGB, text string) string {
	if DisableColourOutput {
		return text
	}
	return fgSequence(rgb) + text + ansiReset
}

func bgSequence(c RGB) string {
	return fmt.Sprintf("%s%d;%d;%d%s", ansiBgPrefix, c.R, c.G, c.B, ansiSuffix)
}

func fgSequence(c RGB) string {
	return fmt.Sprintf("%s%d;%d;%d%s", ansiFgPrefix, c.R, c.G, c.B, ansiSuffix)
}
