package card

import (
	"fmt"
	"io"
	"strings"

	"github.com/jmylchreest/swatch/internal/colour"
	"github.com/mattn/go-runewidth"
)

// RenderOptions controls text rendering.
type RenderOptions struct {
	// ColumnWidth is the cell width of each of the two columns.
	ColumnWidth int
	// Gap is the number of spaces between the columns.
	Gap int
}

// DefaultRenderOptions returns the default text layout.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{ColumnWidth: 30, Gap: 2}
}

// Render writes the card as text. Colours are emitted as ANSI sequences
// unless colour.DisableColourOutput is set.
func (c Card) Render(w io.Writer, opts RenderOptions) error {
	if opts.ColumnWidth <= 0 {
		opts.ColumnWidth = DefaultRenderOptions().ColumnWidth
	}
	if opts.Gap < 0 {
		opts.Gap = 0
	}
	total := opts.ColumnWidth*2 + opts.Gap

	var b strings.Builder
	if c.Name != "" {
		b.WriteString(c.Name)
		b.WriteString("\n")
	}

	best := c.Preview.Best.Swatch
	header := center(fmt.Sprintf("%s  %s", best.HexCode(), c.Preview.Best.Rule), total)
	b.WriteString(colour.Preview(c.Preview.Background, c.Preview.Foreground, header))
	b.WriteString("\n")

	rows := max(len(c.Columns[0]), len(c.Columns[1]))
	gap := strings.Repeat(" ", opts.Gap)
	for i := range rows {
		b.WriteString(cell(c.Columns[0], i, opts.ColumnWidth))
		b.WriteString(gap)
		b.WriteString(cell(c.Columns[1], i, opts.ColumnWidth))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// String renders the card with the default options.
func (c Card) String() string {
	var b strings.Builder
	_ = c.Render(&b, DefaultRenderOptions())
	return b.String()
}

func cell(col []Row, i, width int) string {
	if i >= len(col) {
		return strings.Repeat(" ", width)
	}
	r := col[i]
	return colour.Preview(r.Background, r.Foreground, center(r.Text, width))
}

// center pads s to width display cells, truncating when it does not fit.
func center(s string, width int) string {
	s = runewidth.Truncate(s, width, "…")
	pad := width - runewidth.StringWidth(s)
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}

// RenderDetail writes the detail view of a swatch: a title and a body line
// with their own text colours.
func RenderDetail(w io.Writer, d Detail, width int) error {
	if width <= 0 {
		width = DefaultRenderOptions().ColumnWidth
	}
	bg := d.Background.RGBA(255)
	lines := []string{
		colour.Preview(bg, d.TitleText, center(d.Background.Hex(), width)),
		colour.Preview(bg, d.BodyText, center(fmt.Sprintf("title %s  body %s", d.TitleText.HexAlpha(), d.BodyText.HexAlpha()), width)),
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}
