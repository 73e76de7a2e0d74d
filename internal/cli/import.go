package cli

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/swatch/internal/card"
	"github.com/jmylchreest/swatch/internal/config"
	"github.com/jmylchreest/swatch/internal/gallery"
	"github.com/jmylchreest/swatch/internal/security"
	"github.com/jmylchreest/swatch/internal/util/imagecache"
)

func newImportCmd() *cobra.Command {
	var (
		dir       string
		overwrite bool
		width     int
	)

	cmd := &cobra.Command{
		Use:   "import <url>...",
		Short: "Download photos into the import directory and render their cards",
		Long: `Download each photo into the import directory, then render its swatch card.

Photos that were already imported are reused unless --overwrite is given.
A running "swatch watch" on the same directory picks the new photos up too.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newSession(cmd)
			if err != nil {
				return err
			}

			opts := imagecache.Options{
				Dir:       dir,
				Overwrite: overwrite,
				Policy:    security.URLPolicy{AllowHTTP: true, AllowPrivateHosts: rt.cfg.AllowPrivateHosts},
			}

			var paths []string
			var failed []gallery.Result
			for _, url := range args {
				path, err := imagecache.Import(cmd.Context(), url, opts)
				if err != nil {
					rt.logger.Warn("import failed", "url", url, "error", err)
					failed = append(failed, gallery.Result{Path: url, Err: err})
					continue
				}
				rt.logger.Debug("imported", "url", url, "path", path)
				paths = append(paths, path)
			}

			results := rt.service.Process(cmd.Context(), paths)

			w := cmd.OutOrStdout()
			setColourOutput(w, rt.cfg.NoColour)
			if err := writeCards(w, results, "text", width); err != nil {
				return err
			}

			return gallery.Errors(append(failed, results...))
		},
	}

	config.RegisterFlags(cmd.Flags())
	cmd.Flags().StringVar(&dir, "dir", "", "import directory (default: user cache dir)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "download photos again even if already imported")
	cmd.Flags().IntVar(&width, "width", card.DefaultRenderOptions().ColumnWidth, "width of each card column")

	return cmd
}
