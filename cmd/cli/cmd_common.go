package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/time/rate"

	"github.com/wardenbench/wardenbench/pkg/config"
	"github.com/wardenbench/wardenbench/pkg/httpclient"
	"github.com/wardenbench/wardenbench/pkg/output"
	"github.com/wardenbench/wardenbench/pkg/overrides"
	"github.com/wardenbench/wardenbench/pkg/pipeline"
	"github.com/wardenbench/wardenbench/pkg/source"
	"github.com/wardenbench/wardenbench/pkg/ui"
)

// newLogger builds the run logger. Warnings stay visible by default so
// skipped records are never silent, verbose opens the debug stream and
// silent leaves only errors.
func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	if cfg.Silent {
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// handleParseError maps flag parsing failures to exit codes. -h lands
// here as flag.ErrHelp after the flag set printed its defaults.
func handleParseError(err error) {
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	exitWithError("%v", err)
}

// loadOverrides merges a user overrides file on top of the built-in
// corrections.
func loadOverrides(path string) (*overrides.Overrides, error) {
	ov := overrides.Default()
	if path == "" {
		return ov, nil
	}
	extra, err := overrides.Load(path)
	if err != nil {
		return nil, err
	}
	return ov.Merge(extra), nil
}

// templateConfigFor treats the template argument as a file when one
// exists at that path and as a built-in name otherwise.
func templateConfigFor(template string) output.TemplateConfig {
	if template == "" {
		return output.TemplateConfig{}
	}
	if _, err := os.Stat(template); err == nil {
		return output.TemplateConfig{Path: template}
	}
	return output.TemplateConfig{BuiltIn: template}
}

// newSource picks the report source. A contest index downloads
// reports (reusing the cache when one is configured), a plain path
// reads them from disk.
func newSource(cfg *config.Config, log *slog.Logger) (source.Source, error) {
	if cfg.IndexFile == "" {
		local := source.NewLocal(cfg.InputPath)
		local.Log = log
		return local, nil
	}
	entries, err := source.LoadIndex(cfg.IndexFile)
	if err != nil {
		return nil, err
	}
	fetcher := source.NewFetcher(cfg.Token, cfg.CacheDir)
	fetcher.Log = log
	fetcher.Limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	fetcher.Client = httpclient.New(httpclient.Config{
		Timeout:    cfg.Timeout,
		UserAgent:  ui.UserAgentWithContext("Fetcher"),
		RetryCount: 2,
	})
	return source.NewRemote(entries, fetcher), nil
}

// runScoring executes the shared analyze/leaderboard flow: load
// reports, run the pipeline, render the outcome.
func runScoring(cfg *config.Config, baselineID string) {
	ui.SetSilent(cfg.Silent)
	ui.SetNoColor(cfg.NoColor)
	log := newLogger(cfg)

	input := cfg.InputPath
	if cfg.IndexFile != "" {
		input = cfg.IndexFile
	}

	ui.PrintBanner()
	echo := map[string]string{
		"Input":      input,
		"Baseline":   baselineID,
		"Percentile": fmt.Sprintf("%.2f", cfg.Percentile),
		"Weights":    fmt.Sprintf("high %.1f / medium %.1f", cfg.HighWeight, cfg.MediumWeight),
		"Overrides":  cfg.OverridesFile,
		"Format":     cfg.OutputFormat,
		"Output":     cfg.OutputFile,
	}
	if cfg.ExcludeZero {
		echo["Exclude Zero"] = "true"
	}
	ui.PrintConfigBanner(echo, []string{
		"Input", "Baseline", "Percentile", "Weights", "Exclude Zero",
		"Overrides", "Format", "Output",
	})

	ov, err := loadOverrides(cfg.OverridesFile)
	if err != nil {
		exitWithError("loading overrides: %v", err)
	}

	src, err := newSource(cfg, log)
	if err != nil {
		exitWithError("%v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	reports, err := src.Reports(ctx)
	stop()
	if err != nil {
		exitWithError("loading reports: %v", err)
	}

	outcome, err := pipeline.Run(reports, pipeline.Options{
		BaselineID:  baselineID,
		Percentile:  cfg.Percentile,
		Weights:     cfg.Weights(),
		Overrides:   ov,
		ExcludeZero: cfg.ExcludeZero,
		Log:         log,
	})
	if err != nil {
		exitWithError("%v", err)
	}

	writer, err := output.NewWriter(cfg.OutputFormat, cfg.OutputFile, output.Options{
		Limit:    cfg.Top,
		Template: templateConfigFor(cfg.Template),
	})
	if err != nil {
		exitWithError("%v", err)
	}
	if err := writer.Write(outcome); err != nil {
		writer.Close()
		exitWithError("writing report: %v", err)
	}
	if err := writer.Close(); err != nil {
		exitWithError("closing output: %v", err)
	}

	if cfg.OutputFile != "" {
		ui.PrintSuccess("report written to %s", cfg.OutputFile)
	}
}
