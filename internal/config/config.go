// Package config holds runtime settings assembled from defaults, the
// environment and command-line flags, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/jmylchreest/swatch/internal/palette"
)

// Environment variables read by WithEnv.
const (
	EnvColours  = "SWATCH_COLOURS"
	EnvTargets  = "SWATCH_TARGETS"
	EnvFilter   = "SWATCH_FILTER"
	EnvSeed     = "SWATCH_SEED"
	EnvWorkers  = "SWATCH_WORKERS"
	EnvNoColour = "SWATCH_NO_COLOUR"
	EnvAllowLAN = "SWATCH_ALLOW_PRIVATE_HOSTS"
)

// MaxWorkers caps concurrent image extraction.
const MaxWorkers = 8

// Config is the resolved runtime configuration.
type Config struct {
	Colours           int
	Targets           []palette.Target
	Filter            bool
	Seed              int64
	Workers           int
	NoColour          bool
	AllowPrivateHosts bool
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Colours: palette.DefaultMaximumColorCount,
		Targets: palette.DefaultTargets(),
		Seed:    1,
		Workers: min(runtime.NumCPU(), MaxWorkers),
	}
}

// PaletteOptions converts the config into palette generation options.
func (c Config) PaletteOptions() palette.Options {
	opts := palette.DefaultOptions()
	opts.MaximumColorCount = c.Colours
	opts.Targets = c.Targets
	opts.Filter = c.Filter
	opts.Seed = c.Seed
	return opts
}

// Validate checks the config for out of range values.
func (c Config) Validate() error {
	if err := c.PaletteOptions().Validate(); err != nil {
		return err
	}
	if c.Workers < 1 || c.Workers > MaxWorkers {
		return fmt.Errorf("workers must be between 1 and %d, got %d", MaxWorkers, c.Workers)
	}
	return nil
}

// Builder assembles a Config.
type Builder struct {
	config Config
	getenv func(string) string
	useEnv bool
	flags  *pflag.FlagSet
}

// NewBuilder starts from DefaultConfig.
func NewBuilder() *Builder {
	return &Builder{config: DefaultConfig(), getenv: os.Getenv}
}

// WithEnvConfig applies SWATCH_* environment variables.
func (b *Builder) WithEnvConfig() *Builder {
	b.useEnv = true
	return b
}

// WithLookup replaces os.Getenv, useful for testing.
func (b *Builder) WithLookup(getenv func(string) string) *Builder {
	b.getenv = getenv
	return b
}

// WithFlags applies flags that were explicitly set on fs. Flags win over the environment.
func (b *Builder) WithFlags(fs *pflag.FlagSet) *Builder {
	b.flags = fs
	return b
}

// Build resolves the configuration and validates it.
func (b *Builder) Build() (Config, error) {
	cfg := b.config

	if b.useEnv {
		if err := applyEnv(&cfg, b.getenv); err != nil {
			return Config{}, err
		}
	}
	if b.flags != nil {
		if err := applyFlags(&cfg, b.flags); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv(EnvColours); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvColours, err)
		}
		cfg.Colours = n
	}
	if v := getenv(EnvTargets); v != "" {
		targets, err := palette.ParseTargets(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTargets, err)
		}
		cfg.Targets = targets
	}
	if v := getenv(EnvSeed); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}
		cfg.Seed = n
	}
	if v := getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		cfg.Workers = n
	}

	var err error
	if cfg.Filter, err = envBool(getenv, EnvFilter, cfg.Filter); err != nil {
		return err
	}
	if cfg.NoColour, err = envBool(getenv, EnvNoColour, cfg.NoColour); err != nil {
		return err
	}
	if cfg.AllowPrivateHosts, err = envBool(getenv, EnvAllowLAN, cfg.AllowPrivateHosts); err != nil {
		return err
	}
	return nil
}

func envBool(getenv func(string) string, key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

// Flag names registered by RegisterFlags.
const (
	FlagColours  = "colours"
	FlagTargets  = "targets"
	FlagFilter   = "filter"
	FlagSeed     = "seed"
	FlagWorkers  = "workers"
	FlagAllowLAN = "allow-private-hosts"
)

// RegisterFlags defines the extraction flags on fs with DefaultConfig values.
func RegisterFlags(fs *pflag.FlagSet) {
	d := DefaultConfig()
	fs.IntP(FlagColours, "c", d.Colours, "maximum number of colours to extract (1-256)")
	fs.String(FlagTargets, strings.Join(palette.TargetNames(), ","), "comma separated targets to bind")
	fs.Bool(FlagFilter, d.Filter, "filter out near-black, near-white and skin-tone swatches")
	fs.Int64(FlagSeed, d.Seed, "random seed for colour extraction")
	fs.IntP(FlagWorkers, "w", d.Workers, fmt.Sprintf("number of images processed concurrently (1-%d)", MaxWorkers))
	fs.Bool(FlagAllowLAN, d.AllowPrivateHosts, "allow fetching images from local or private hosts")
}

func applyFlags(cfg *Config, fs *pflag.FlagSet) error {
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case FlagColours:
			cfg.Colours, err = fs.GetInt(FlagColours)
		case FlagTargets:
			var v string
			if v, err = fs.GetString(FlagTargets); err == nil {
				cfg.Targets, err = palette.ParseTargets(v)
			}
		case FlagFilter:
			cfg.Filter, err = fs.GetBool(FlagFilter)
		case FlagSeed:
			cfg.Seed, err = fs.GetInt64(FlagSeed)
		case FlagWorkers:
			cfg.Workers, err = fs.GetInt(FlagWorkers)
		case FlagAllowLAN:
			cfg.AllowPrivateHosts, err = fs.GetBool(FlagAllowLAN)
		case "no-colour":
			cfg.NoColour, err = fs.GetBool("no-colour")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid flag: %w", err)
	}
	return nil
}
