package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/swatch/internal/colour"
	"github.com/jmylchreest/swatch/internal/config"
	"github.com/jmylchreest/swatch/internal/image"
	"github.com/jmylchreest/swatch/internal/palette"
)

func newSwatchesCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "swatches <image>",
		Short: "List every extracted swatch and the targets it is bound to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "table" && format != "json" {
				return fmt.Errorf("unsupported format: %s (supported: table, json)", format)
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

			w := cmd.OutOrStdout()
			setColourOutput(w, rt.cfg.NoColour)
			return writeSwatches(w, result.Palette, format)
		},
	}

	config.RegisterFlags(cmd.Flags())
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format (table, json)")

	return cmd
}

func writeSwatches(w io.Writer, p *palette.Palette, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("failed to convert to JSON: %w", err)
		}
		return nil
	}

	t := NewTable([]string{"", "ID", "Hex", "Population", "HSL", "Targets"})
	for _, s := range p.Swatches() {
		hsl := s.HSL()
		t.AddRow([]string{
			"",
			fmt.Sprint(s.ID()),
			s.RGB().Hex(),
			fmt.Sprint(s.Population()),
			fmt.Sprintf("%3.0f %.2f %.2f", hsl.H, hsl.S, hsl.L),
			strings.Join(boundTargets(p, s), ","),
		})
	}

	// Colour blocks are prefixed per line so they do not skew column widths.
	lines := strings.Split(strings.TrimRight(t.Render(), "\n"), "\n")
	swatches := p.Swatches()
	for i, line := range lines {
		prefix := "  "
		if i >= 2 && i-2 < len(swatches) {
			prefix = colour.ColourPreview(swatches[i-2].RGB(), 2)
		}
		fmt.Fprintf(w, "%s%s\n", prefix, line)
	}
	return nil
}

func boundTargets(p *palette.Palette, s palette.Swatch) []string {
	var names []string
	for _, t := range p.Targets() {
		if p.IsBound(t, s) {
			names = append(names, t.String())
		}
	}
	if p.IsDominant(s) {
		names = append(names, "DOMINANT")
	}
	return names
}
