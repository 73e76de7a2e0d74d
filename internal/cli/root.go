// Package cli provides the command-line interface for swatch.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/ulikunitz/xz"
	"golang.org/x/term"

	"github.com/jmylchreest/swatch/internal/colour"
	"github.com/jmylchreest/swatch/internal/config"
	"github.com/jmylchreest/swatch/internal/gallery"
	"github.com/jmylchreest/swatch/internal/image"
	"github.com/jmylchreest/swatch/internal/palette"
	"github.com/jmylchreest/swatch/internal/security"
	httputil "github.com/jmylchreest/swatch/internal/util/http"
	"github.com/jmylchreest/swatch/internal/version"
)

// NewRootCmd builds the swatch command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "swatch",
		Short: "Palette swatch cards for your photos",
		Long: `swatch imports photos, extracts a colour palette from each one and shows
the representative swatches as a card: one row per target (vibrant, muted,
light and dark variants), the dominant colour, and a preview tinted with the
single best swatch of the photo.`,
		Version:      version.Short(),
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().Bool("no-colour", false, "disable ANSI colour output")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCardCmd())
	rootCmd.AddCommand(newBestCmd())
	rootCmd.AddCommand(newSwatchesCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newImportCmd())

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

// newLogger configures an hclog logger from the verbose and quiet flags.
func newLogger(cmd *cobra.Command) hclog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")

	level := hclog.Info
	switch {
	case quiet:
		level = hclog.Error
	case verbose:
		level = hclog.Debug
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   "swatch",
		Output: cmd.ErrOrStderr(),
		Level:  level,
	})
}

// session bundles what every extraction command needs.
type session struct {
	cfg     config.Config
	logger  hclog.Logger
	service *gallery.Service
}

func newSession(cmd *cobra.Command) (*session, error) {
	logger := newLogger(cmd)

	cfg, err := config.NewBuilder().
		WithEnvConfig().
		WithFlags(cmd.Flags()).
		Build()
	if err != nil {
		return nil, err
	}

	generator, err := palette.NewGenerator(cfg.PaletteOptions())
	if err != nil {
		return nil, err
	}

	loader := image.NewSmartLoader(
		security.URLPolicy{AllowHTTP: true, AllowPrivateHosts: cfg.AllowPrivateHosts},
		httputil.FetchOptions{},
	)

	logger.Debug("configuration loaded",
		"colours", cfg.Colours,
		"targets", fmt.Sprint(cfg.Targets),
		"filter", cfg.Filter,
		"workers", cfg.Workers,
	)

	service := gallery.NewService(generator,
		gallery.WithLogger(logger),
		gallery.WithWorkers(cfg.Workers),
		gallery.WithLoader(loader),
	)

	return &session{cfg: cfg, logger: logger, service: service}, nil
}

// setColourOutput enables ANSI colours only when writing to a terminal.
func setColourOutput(w io.Writer, disabled bool) {
	if disabled {
		colour.DisableColourOutput = true
		return
	}
	f, ok := w.(*os.File)
	colour.DisableColourOutput = !ok || !term.IsTerminal(int(f.Fd()))
}

// openOutput returns the file named by path, or the command's stdout when path
// is empty. Paths ending in .xz are written xz-compressed.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path) // #nosec G304 - User-specified output path
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".xz") {
		return f, f.Close, nil
	}

	xzw, err := xz.NewWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("failed to create xz writer: %w", err)
	}
	closeAll := func() error {
		if err := xzw.Close(); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to finish xz stream: %w", err)
		}
		return f.Close()
	}
	return xzw, closeAll, nil
}
