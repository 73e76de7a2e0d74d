package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/swatch/internal/card"
	"github.com/jmylchreest/swatch/internal/config"
	"github.com/jmylchreest/swatch/internal/gallery"
)

func newWatchCmd() *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Render a card for every image added to a directory",
		Long: `Watch a directory and render a swatch card whenever an image is created
or rewritten in it. Stop with Ctrl-C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := os.Stat(args[0])
			if err != nil {
				return fmt.Errorf("invalid directory: %w", err)
			}
			if !info.IsDir() {
				return fmt.Errorf("not a directory: %s", args[0])
			}

			rt, err := newSession(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := cmd.OutOrStdout()
			setColourOutput(w, rt.cfg.NoColour)
			opts := card.DefaultRenderOptions()
			opts.ColumnWidth = width

			return rt.service.Watch(ctx, args[0], func(r gallery.Result) {
				if r.Err != nil {
					rt.logger.Error("failed to process image", "path", r.Path, "error", r.Err)
					return
				}
				if err := r.Card.Render(w, opts); err != nil {
					rt.logger.Error("failed to render card", "path", r.Path, "error", err)
				}
				fmt.Fprintln(w)
			})
		},
	}

	config.RegisterFlags(cmd.Flags())
	cmd.Flags().IntVar(&width, "width", card.DefaultRenderOptions().ColumnWidth, "width of each card column")

	return cmd
}
