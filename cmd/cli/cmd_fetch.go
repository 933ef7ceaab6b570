package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/time/rate"

	"github.com/wardenbench/wardenbench/pkg/config"
	"github.com/wardenbench/wardenbench/pkg/httpclient"
	"github.com/wardenbench/wardenbench/pkg/source"
	"github.com/wardenbench/wardenbench/pkg/ui"
)

// runFetch downloads the findings reports listed in a contest index
// into the local report cache.
func runFetch() {
	cfg, err := config.ParseFetchFlags(os.Args[2:])
	if err != nil {
		handleParseError(err)
	}
	ui.SetSilent(cfg.Silent)
	ui.SetNoColor(cfg.NoColor)
	log := newLogger(cfg)

	if cfg.Proxy != "" {
		if err := httpclient.ValidateProxy(cfg.Proxy); err != nil {
			exitWithError("invalid proxy: %v", err)
		}
	}

	ui.PrintBanner()
	token := "not set"
	if cfg.Token != "" {
		token = "provided"
	}
	ui.PrintConfigBanner(map[string]string{
		"Index":       cfg.IndexFile,
		"Cache":       cfg.CacheDir,
		"Token":       token,
		"Rate":        fmt.Sprintf("%d req/s", cfg.RateLimit),
		"Concurrency": fmt.Sprintf("%d", cfg.Concurrency),
		"Timeout":     cfg.Timeout.String(),
		"Proxy":       cfg.Proxy,
	}, []string{"Index", "Cache", "Token", "Rate", "Concurrency", "Timeout", "Proxy"})

	entries, err := source.LoadIndex(cfg.IndexFile)
	if err != nil {
		exitWithError("%v", err)
	}
	if len(entries) == 0 {
		exitWithError("no findings repositories listed in %s", cfg.IndexFile)
	}
	ui.PrintInfo("%d findings repositories indexed", len(entries))

	fetcher := source.NewFetcher(cfg.Token, cfg.CacheDir)
	fetcher.Log = log
	fetcher.Concurrency = cfg.Concurrency
	fetcher.Limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	fetcher.Client = httpclient.New(httpclient.Config{
		Timeout:    cfg.Timeout,
		Proxy:      cfg.Proxy,
		UserAgent:  ui.UserAgentWithContext("Fetcher"),
		RetryCount: 2,
	})

	progress := ui.NewProgress("fetching reports", len(entries))
	fetcher.OnReport = func(contestID string, err error) {
		progress.Increment(err != nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fetched, failed, err := fetcher.FetchAll(ctx, entries)
	progress.Finish()
	if err != nil {
		exitWithError("fetch aborted after %d reports: %v", fetched, err)
	}
	if failed > 0 {
		ui.PrintWarning("%d of %d reports unavailable (private or unpublished)", failed, len(entries))
	}
	ui.PrintSuccess("%d reports cached in %s", fetched, cfg.CacheDir)
}
