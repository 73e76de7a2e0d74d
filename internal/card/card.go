// Package card lays a palette out as a swatch card: two alternating columns
// of target rows, a dominant row, and a preview tinted with the best swatch.
package card

import (
	"encoding/json"
	"fmt"

	"github.com/jmylchreest/swatch/internal/colour"
	"github.com/jmylchreest/swatch/internal/palette"
	"github.com/jmylchreest/swatch/internal/selector"
)

// DominantTitle is the title of the row showing the dominant swatch.
const DominantTitle = "DOMINANT"

// PreviewAlpha is the opacity of the best swatch behind the preview text (0.9).
const PreviewAlpha uint8 = 229

var (
	emptyBackground = colour.White.RGBA(255)
	emptyText       = colour.Black.RGBA(255)
)

// Row is one swatch line on a card.
type Row struct {
	Title      string
	Text       string
	Background colour.RGBA
	Foreground colour.RGBA
	// Swatch is zero when the target had no swatch.
	Swatch   palette.Swatch
	Present  bool
	Dominant bool
}

// Clip returns the text copied for the row: the hex code, or "" when empty.
func (r Row) Clip() string {
	if !r.Present {
		return ""
	}
	return r.Swatch.HexCode()
}

// Preview is the card header tinted with the best swatch.
type Preview struct {
	Background colour.RGBA
	Foreground colour.RGBA
	Best       selector.Result
}

// Card is the rendered model of one image's palette.
type Card struct {
	Name    string
	Columns [2][]Row
	Preview Preview
}

// Build lays out p. Target rows alternate between the two columns, starting
// with the first; the dominant row goes to whichever column is next.
func Build(name string, p *palette.Palette) Card {
	c := Card{Name: name}

	col := 0
	for _, t := range p.Targets() {
		s, ok := p.SwatchForTarget(t)
		c.Columns[col] = append(c.Columns[col], newRow(p, t.String(), s, ok))
		col = 1 - col
	}
	dominant, ok := p.Dominant()
	c.Columns[col] = append(c.Columns[col], newRow(p, DominantTitle, dominant, ok))

	best := selector.Explain(p)
	c.Preview = Preview{
		Background: best.Swatch.RGB().RGBA(PreviewAlpha),
		Foreground: best.Overlay,
		Best:       best,
	}

	return c
}

func newRow(p *palette.Palette, title string, s palette.Swatch, ok bool) Row {
	if !ok {
		return Row{
			Title:      title,
			Text:       title + " (null)",
			Background: emptyBackground,
			Foreground: emptyText,
		}
	}

	dominant := p.IsDominant(s)
	text := fmt.Sprintf("%s %d ", title, s.Population())
	if dominant {
		text += " (dominant)"
	}
	return Row{
		Title:      title,
		Text:       text,
		Background: s.RGB().RGBA(255),
		Foreground: s.BodyTextColor(),
		Swatch:     s,
		Present:    true,
		Dominant:   dominant,
	}
}

// Rows returns every row, column by column.
func (c Card) Rows() []Row {
	rows := make([]Row, 0, len(c.Columns[0])+len(c.Columns[1]))
	rows = append(rows, c.Columns[0]...)
	return append(rows, c.Columns[1]...)
}

// Find returns the first row with the given title.
func (c Card) Find(title string) (Row, bool) {
	for _, r := range c.Rows() {
		if r.Title == title {
			return r, true
		}
	}
	return Row{}, false
}

// Detail is the full-screen view of a single swatch with its text colours.
type Detail struct {
	Background colour.RGB  `json:"background"`
	TitleText  colour.RGBA `json:"titleText"`
	BodyText   colour.RGBA `json:"bodyText"`
}

// DetailFor returns the detail view of s.
func DetailFor(s palette.Swatch) Detail {
	return Detail{
		Background: s.RGB(),
		TitleText:  s.TitleTextColor(),
		BodyText:   s.BodyTextColor(),
	}
}

type rowJSON struct {
	Title      string `json:"title"`
	Text       string `json:"text"`
	Hex        string `json:"hex,omitempty"`
	Clip       string `json:"clip,omitempty"`
	Population *int   `json:"population,omitempty"`
	Background string `json:"background"`
	Foreground string `json:"foreground"`
	Dominant   bool   `json:"dominant,omitempty"`
}

type cardJSON struct {
	Name    string       `json:"name"`
	Columns [2][]rowJSON `json:"columns"`
	Preview struct {
		Background string         `json:"background"`
		Foreground string         `json:"foreground"`
		Best       palette.Swatch `json:"best"`
		Rule       selector.Rule  `json:"rule"`
	} `json:"preview"`
}

// MarshalJSON implements json.Marshaler.
func (c Card) MarshalJSON() ([]byte, error) {
	var out cardJSON
	out.Name = c.Name
	for i, col := range c.Columns {
		out.Columns[i] = make([]rowJSON, len(col))
		for j, r := range col {
			rj := rowJSON{
				Title:      r.Title,
				Text:       r.Text,
				Background: r.Background.HexAlpha(),
				Foreground: r.Foreground.HexAlpha(),
				Dominant:   r.Dominant,
			}
			if r.Present {
				pop := r.Swatch.Population()
				rj.Hex = r.Swatch.RGB().Hex()
				rj.Clip = r.Clip()
				rj.Population = &pop
			}
			out.Columns[i][j] = rj
		}
	}
	out.Preview.Background = c.Preview.Background.HexAlpha()
	out.Preview.Foreground = c.Preview.Foreground.HexAlpha()
	out.Preview.Best = c.Preview.Best.Swatch
	out.Preview.Rule = c.Preview.Best.Rule
	return json.Marshal(out)
}
