package main

import (
	"errors"
	"flag"
	"fmt"
	stdcolor "image/color"
	"log/slog"

	"github.com/caarlos0/env/v11"

	"github.com/gogpu/iconmine"
	"github.com/gogpu/iconmine/internal/color"
)

// Config holds iconmine command configuration.
type Config struct {
	Src     string `env:"ICONMINE_SRC"`
	Out     string `env:"ICONMINE_OUT" envDefault:"out"`
	Prefix  string `env:"ICONMINE_PREFIX"`
	Linear  bool   `env:"ICONMINE_LINEAR"`
	Workers int    `env:"ICONMINE_WORKERS"`
	All     bool   `env:"ICONMINE_ALL"`
	Preview string `env:"ICONMINE_PREVIEW"`
	Title   string `env:"ICONMINE_TITLE" envDefault:"Editor Built-in Icons"`
	Dark    string `env:"ICONMINE_DARK" envDefault:"#0d1117"`
	Light   string `env:"ICONMINE_LIGHT" envDefault:"#ffffff"`
	Verbose bool   `env:"ICONMINE_VERBOSE"`
}

// ParseConfig parses environment and flags into a Config. Flags override
// the environment.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	fs.StringVar(&cfg.Src, "src", cfg.Src, "directory holding the icons (.png and .asset files)")
	fs.StringVar(&cfg.Out, "out", cfg.Out, "output directory for img/, meta/ and README.md")
	fs.StringVar(&cfg.Prefix, "prefix", cfg.Prefix, "only process identifiers starting with this prefix")
	fs.BoolVar(&cfg.Linear, "linear", cfg.Linear, "average and blend in linear color space")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "icons processed at once (0 = GOMAXPROCS)")
	fs.BoolVar(&cfg.All, "all", cfg.All, "render every variant, not only the catalog pair")
	fs.StringVar(&cfg.Preview, "preview", cfg.Preview, "also write a contact sheet PNG to this file")
	fs.StringVar(&cfg.Title, "title", cfg.Title, "README heading")
	fs.StringVar(&cfg.Dark, "dark", cfg.Dark, "background for light icons (#rrggbb)")
	fs.StringVar(&cfg.Light, "light", cfg.Light, "background for dark icons (#rrggbb)")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "log per-icon diagnostics")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.Src == "" {
		return Config{}, errors.New("missing -src")
	}
	return cfg, nil
}

// Options translates the configuration into miner options.
func (c Config) Options() ([]iconmine.Option, error) {
	dark, err := hexColor(c.Dark)
	if err != nil {
		return nil, fmt.Errorf("dark background: %w", err)
	}
	light, err := hexColor(c.Light)
	if err != nil {
		return nil, fmt.Errorf("light background: %w", err)
	}

	space := iconmine.ColorSpaceGamma
	if c.Linear {
		space = iconmine.ColorSpaceLinear
	}
	return []iconmine.Option{
		iconmine.WithColorSpace(space),
		iconmine.WithWorkers(c.Workers),
		iconmine.WithPrefix(c.Prefix),
		iconmine.WithAllVariants(c.All),
		iconmine.WithBackgrounds(dark, light),
	}, nil
}

// Level returns the log level the configuration asks for.
func (c Config) Level() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func hexColor(s string) (stdcolor.RGBA, error) {
	t, err := color.ParseHex(s)
	if err != nil {
		return stdcolor.RGBA{}, err
	}
	u := color.F32ToU8(t.In(color.ColorSpaceGamma))
	return stdcolor.RGBA{R: u.R, G: u.G, B: u.B, A: 255}, nil
}
