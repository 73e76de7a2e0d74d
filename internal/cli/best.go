package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/swatch/internal/card"
	"github.com/jmylchreest/swatch/internal/colour"
	"github.com/jmylchreest/swatch/internal/config"
	"github.com/jmylchreest/swatch/internal/image"
	"github.com/jmylchreest/swatch/internal/palette"
	"github.com/jmylchreest/swatch/internal/selector"
)

// bestJSON is the JSON form of the best swatch of one image.
type bestJSON struct {
	Image   string         `json:"image"`
	Hex     string         `json:"hex"`
	Clip    string         `json:"clip"`
	RGB     colour.RGB     `json:"rgb"`
	Rule    selector.Rule  `json:"rule"`
	Overlay string         `json:"overlay"`
	Detail  card.Detail    `json:"detail"`
	Swatch  palette.Swatch `json:"swatch"`
}

func newBestCmd() *cobra.Command {
	var (
		format  string
		explain bool
		detail  bool
	)

	cmd := &cobra.Command{
		Use:   "best <image>",
		Short: "Print the best representative swatch of an image",
		Long: `Print the single best representative swatch of an image.

The light vibrant swatch wins if present, then light muted, then vibrant.
Otherwise the most populous of the vibrant and muted families is used, and a
white swatch when the image offered nothing at all.

Examples:
  # Hex code of the best swatch (as copied to the clipboard)
  swatch best photo.jpg

  # Which rule decided, and the overlay text colour
  swatch best --explain photo.jpg

  # Show the swatch with its title and body text colours
  swatch best --detail photo.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "hex" && format != "json" {
				return fmt.Errorf("unsupported format: %s (supported: hex, json)", format)
			}
			if err := image.ValidateImagePath(args[0]); err != nil {
				return fmt.Errorf("invalid image path: %w", err)
			}

			rt, err := newSession(cmd)
			if err != nil {
				return err
			}

			result := rt.service.ProcessOne(cmd.Context(), args[0])
			if result.Err != nil {
				return result.Err
			}
			best := result.Card.Preview.Best
			rt.logger.Debug("best swatch selected", "hex", best.Swatch.RGB().Hex(), "rule", best.Rule)

			w := cmd.OutOrStdout()
			setColourOutput(w, rt.cfg.NoColour)
			return writeBest(w, args[0], best, format, explain, detail)
		},
	}

	config.RegisterFlags(cmd.Flags())
	cmd.Flags().StringVarP(&format, "format", "f", "hex", "output format (hex, json)")
	cmd.Flags().BoolVar(&explain, "explain", false, "show the deciding rule and overlay colour")
	cmd.Flags().BoolVar(&detail, "detail", false, "show the swatch with its text colours")

	return cmd
}

func writeBest(w io.Writer, name string, best selector.Result, format string, explain, detail bool) error {
	s := best.Swatch

	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(bestJSON{
			Image:   name,
			Hex:     s.RGB().Hex(),
			Clip:    s.HexCode(),
			RGB:     s.RGB(),
			Rule:    best.Rule,
			Overlay: best.Overlay.HexAlpha(),
			Detail:  card.DetailFor(s),
			Swatch:  s,
		}); err != nil {
			return fmt.Errorf("failed to convert to JSON: %w", err)
		}
		return nil
	}

	fmt.Fprintln(w, s.HexCode())
	if explain {
		t := NewTable([]string{"Field", "Value"})
		t.AddRow([]string{"rule", string(best.Rule)})
		t.AddRow([]string{"population", fmt.Sprint(s.Population())})
		t.AddRow([]string{"overlay", best.Overlay.HexAlpha()})
		t.AddRow([]string{"title text", s.TitleTextColor().HexAlpha()})
		t.AddRow([]string{"body text", s.BodyTextColor().HexAlpha()})
		fmt.Fprint(w, t.Render())
	}
	if detail {
		if err := card.RenderDetail(w, card.DetailFor(s), 0); err != nil {
			return fmt.Errorf("failed to render detail: %w", err)
		}
	}
	return nil
}
