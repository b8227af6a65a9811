// Command iconmine renders a directory of icons into color-correct PNGs and
// a Markdown catalog.
//
// Usage:
//
//	iconmine -src DIR -out DIR [-linear] [-workers N] [-all] [-preview FILE] [-v]
//
// Every flag can also be set through an ICONMINE_* environment variable.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gogpu/iconmine"
	"github.com/gogpu/iconmine/asset"
	"github.com/gogpu/iconmine/catalog"

	_ "github.com/gogpu/iconmine/gpu"
)

func main() {
	cfg, err := ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	iconmine.SetLogger(logger)

	opts, err := cfg.Options()
	if err != nil {
		return err
	}

	sinkOpts := []catalog.Option{catalog.WithTitle(cfg.Title)}
	if cfg.Preview != "" {
		sinkOpts = append(sinkOpts, catalog.WithPreview(cfg.Preview))
	}
	sink := catalog.NewDir(cfg.Out, sinkOpts...)

	m := iconmine.New(asset.NewDir(os.DirFS(cfg.Src)), opts...)
	report, err := m.Run(ctx, sink)
	if err != nil {
		return err
	}

	for _, f := range report.Failures {
		logger.Warn("icon not rendered", "icon", f.Identifier, "err", f.Err)
	}
	logger.Info("catalog written",
		"dir", sink.Root(), "families", report.Families, "icons", report.Icons,
		"missing", len(report.Missing), "failed", len(report.Failures))
	return nil
}
