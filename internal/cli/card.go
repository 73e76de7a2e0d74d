package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/swatch/internal/card"
	"github.com/jmylchreest/swatch/internal/config"
	"github.com/jmylchreest/swatch/internal/gallery"
	"github.com/jmylchreest/swatch/internal/image"
)

func newCardCmd() *cobra.Command {
	var (
		format string
		output string
		width  int
	)

	cmd := &cobra.Command{
		Use:   "card <image|dir|url>...",
		Short: "Render a swatch card for each image",
		Long: `Extract a palette from each image and render it as a swatch card.

Directories are expanded to the images they contain. Every requested target
gets a row; targets with no matching swatch are shown as "(null)". The
header is tinted with the best swatch of the image.

Supported image formats: JPEG, PNG, GIF, WebP, AVIF

Examples:
  # Render a card for a photo
  swatch card photo.jpg

  # Render cards for a whole directory, eight images at a time
  swatch card --workers 8 ~/Pictures/import

  # Only the vibrant family, as JSON
  swatch card --targets vibrant,light-vibrant,dark-vibrant -f json photo.png`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" {
				return fmt.Errorf("unsupported format: %s (supported: text, json)", format)
			}

			rt, err := newSession(cmd)
			if err != nil {
				return err
			}

			paths, err := image.ExpandImagePaths(args)
			if err != nil {
				return fmt.Errorf("invalid image path: %w", err)
			}
			rt.logger.Debug("processing images", "count", len(paths))

			results := rt.service.Process(cmd.Context(), paths)

			w, closeOutput, err := openOutput(cmd, output)
			if err != nil {
				return err
			}
			if output == "" {
				setColourOutput(w, rt.cfg.NoColour)
			} else {
				setColourOutput(nil, true)
			}

			if err := writeCards(w, results, format, width); err != nil {
				_ = closeOutput()
				return err
			}
			if err := closeOutput(); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}

			return gallery.Errors(results)
		},
	}

	config.RegisterFlags(cmd.Flags())
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, xz-compressed when it ends in .xz (default: stdout)")
	cmd.Flags().IntVar(&width, "width", card.DefaultRenderOptions().ColumnWidth, "width of each card column")

	return cmd
}

func writeCards(w io.Writer, results []gallery.Result, format string, width int) error {
	switch format {
	case "text", "":
		opts := card.DefaultRenderOptions()
		opts.ColumnWidth = width
		for i, r := range results {
			if r.Err != nil {
				continue
			}
			if i > 0 {
				fmt.Fprintln(w)
			}
			if err := r.Card.Render(w, opts); err != nil {
				return fmt.Errorf("failed to render card: %w", err)
			}
		}
		return nil
	case "json":
		cards := make([]card.Card, 0, len(results))
		for _, r := range results {
			if r.Err == nil {
				cards = append(cards, r.Card)
			}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cards); err != nil {
			return fmt.Errorf("failed to convert to JSON: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json)", format)
	}
}
