// Package config parses command line flags into the flat configuration
// the commands run on.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/wardenbench/wardenbench/pkg/scoring"
)

// Config holds all CLI configuration options.
type Config struct {
	// Input settings
	InputPath     string // report markdown file or directory of reports
	IndexFile     string // contest index CSV produced by the scraper
	OverridesFile string // YAML file with per-contest handle corrections

	// Scoring settings
	BaselineID   string  // baseline handle to compare against
	Percentile   float64 // percentile cut for the top warden set
	HighWeight   float64 // points for a sole high finding
	MediumWeight float64 // points for a sole medium finding
	ExcludeZero  bool    // drop zero-score wardens before ranking

	// Fetch settings
	Token       string        // GitHub token for raw report downloads
	CacheDir    string        // where fetched reports are stored
	RateLimit   int           // report downloads per second
	Concurrency int           // parallel downloads during a bulk fetch
	Timeout     time.Duration // HTTP timeout
	Proxy       string        // HTTP/SOCKS5 proxy URL

	// Output settings
	OutputFile   string // output file path (empty = stdout)
	OutputFormat string // console, json, csv, markdown, template, pdf
	Template     string // template file or built-in name for -format template
	Top          int    // console leaderboard row cap (0 = all)
	Verbose      bool   // verbose logging
	Silent       bool   // suppress decorative output
	NoColor      bool   // disable colored output
}

// tokenFromEnv resolves the GitHub token from the environment. The
// scraper era used GITHUB_KEY, newer setups use GITHUB_TOKEN.
func tokenFromEnv() string {
	if t := os.Getenv("GITHUB_TOKEN"); t != "" {
		return t
	}
	return os.Getenv("GITHUB_KEY")
}

// analyzeFlags registers the flags shared by analyze and leaderboard.
func analyzeFlags(fs *flag.FlagSet, cfg *Config) *int {
	// === INPUT ===
	fs.StringVar(&cfg.InputPath, "input", "", "Report file or directory of report markdown files")
	fs.StringVar(&cfg.InputPath, "i", "", "Input path (alias)")
	fs.StringVar(&cfg.IndexFile, "index", "", "Contest index CSV, downloads reports instead of reading -input")
	fs.StringVar(&cfg.Token, "token", tokenFromEnv(), "GitHub token (defaults to GITHUB_TOKEN or GITHUB_KEY)")
	fs.StringVar(&cfg.CacheDir, "cache", "", "Reuse downloaded reports from this directory")
	fs.IntVar(&cfg.RateLimit, "rate", 2, "Report downloads per second")
	fs.StringVar(&cfg.OverridesFile, "overrides", "", "YAML file with per-contest handle corrections")

	// === SCORING ===
	fs.Float64Var(&cfg.Percentile, "percentile", scoring.DefaultPercentile, "Percentile cut in (0,1]")
	fs.Float64Var(&cfg.Percentile, "p", scoring.DefaultPercentile, "Percentile (alias)")
	fs.Float64Var(&cfg.HighWeight, "weight-high", scoring.DefaultWeights().High, "Points for a sole high finding")
	fs.Float64Var(&cfg.MediumWeight, "weight-medium", scoring.DefaultWeights().Medium, "Points for a sole medium finding")
	fs.BoolVar(&cfg.ExcludeZero, "exclude-zero", false, "Drop zero-score wardens before ranking")

	// === OUTPUT ===
	fs.StringVar(&cfg.OutputFile, "output", "", "Output file path")
	fs.StringVar(&cfg.OutputFile, "o", "", "Output file (alias)")
	fs.StringVar(&cfg.OutputFormat, "format", "console", "Output format: console,json,csv,markdown,template,pdf")
	fs.StringVar(&cfg.OutputFormat, "f", "console", "Output format (alias)")
	fs.StringVar(&cfg.Template, "template", "", "Template file or built-in name for -format template")
	fs.IntVar(&cfg.Top, "top", 0, "Limit console leaderboard rows (0 = all)")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Verbose (alias)")
	fs.BoolVar(&cfg.Silent, "silent", false, "Silent mode")
	fs.BoolVar(&cfg.Silent, "s", false, "Silent (alias)")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&cfg.NoColor, "nc", false, "No color (alias)")

	timeout := fs.Int("timeout", 10, "HTTP timeout in seconds")
	return timeout
}

// ParseAnalyzeFlags parses flags for the analyze command.
func ParseAnalyzeFlags(args []string) (*Config, error) {
	cfg := &Config{}
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)

	timeout := analyzeFlags(fs, cfg)
	fs.StringVar(&cfg.BaselineID, "baseline", "", "Baseline submitter handle to compare against")
	fs.StringVar(&cfg.BaselineID, "b", "", "Baseline handle (alias)")

	if err := parseCommon(fs, cfg, timeout, args); err != nil {
		return nil, err
	}
	if cfg.BaselineID == "" {
		return nil, fmt.Errorf("%w: baseline required, use -baseline", ErrMissingRequired)
	}
	return cfg, nil
}

// ParseLeaderboardFlags parses flags for the leaderboard command. The
// command scores wardens without a baseline comparison, so no baseline
// flag exists here.
func ParseLeaderboardFlags(args []string) (*Config, error) {
	cfg := &Config{}
	fs := flag.NewFlagSet("leaderboard", flag.ContinueOnError)

	timeout := analyzeFlags(fs, cfg)

	if err := parseCommon(fs, cfg, timeout, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseCommon(fs *flag.FlagSet, cfg *Config, timeout *int, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg.Timeout = time.Duration(*timeout) * time.Second

	if cfg.InputPath == "" && cfg.IndexFile == "" {
		return fmt.Errorf("%w: input required, use -input or -index", ErrMissingRequired)
	}
	if cfg.InputPath != "" && cfg.IndexFile != "" {
		return fmt.Errorf("%w: -input and -index are mutually exclusive", ErrInvalidConfig)
	}
	if cfg.RateLimit <= 0 {
		return fmt.Errorf("%w: rate must be positive, got %d", ErrInvalidConfig, cfg.RateLimit)
	}
	if cfg.Percentile <= 0 || cfg.Percentile > 1 {
		return fmt.Errorf("%w: percentile must be in (0,1], got %v", ErrInvalidConfig, cfg.Percentile)
	}
	if cfg.HighWeight < 0 || cfg.MediumWeight < 0 {
		return fmt.Errorf("%w: weights must not be negative", ErrInvalidConfig)
	}
	return nil
}

// ParseFetchFlags parses flags for the fetch command.
func ParseFetchFlags(args []string) (*Config, error) {
	cfg := &Config{}
	fs := flag.NewFlagSet("fetch", flag.ContinueOnError)

	fs.StringVar(&cfg.IndexFile, "index", "", "Contest index CSV from the scraper")
	fs.StringVar(&cfg.IndexFile, "i", "", "Index CSV (alias)")
	fs.StringVar(&cfg.CacheDir, "cache", "reports", "Directory for downloaded reports")
	fs.StringVar(&cfg.Token, "token", tokenFromEnv(), "GitHub token (defaults to GITHUB_TOKEN or GITHUB_KEY)")
	fs.IntVar(&cfg.RateLimit, "rate", 2, "Report downloads per second")
	fs.IntVar(&cfg.Concurrency, "concurrency", 4, "Parallel downloads")
	fs.IntVar(&cfg.Concurrency, "c", 4, "Concurrency (alias)")
	fs.StringVar(&cfg.Proxy, "proxy", "", "HTTP/SOCKS5 proxy URL")
	fs.StringVar(&cfg.Proxy, "x", "", "Proxy (alias)")
	timeout := fs.Int("timeout", 10, "HTTP timeout in seconds")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Verbose (alias)")
	fs.BoolVar(&cfg.Silent, "silent", false, "Silent mode")
	fs.BoolVar(&cfg.Silent, "s", false, "Silent (alias)")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&cfg.NoColor, "nc", false, "No color (alias)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.Timeout = time.Duration(*timeout) * time.Second

	if cfg.IndexFile == "" {
		return nil, fmt.Errorf("%w: index required, use -index", ErrMissingRequired)
	}
	if cfg.RateLimit <= 0 {
		return nil, fmt.Errorf("%w: rate must be positive, got %d", ErrInvalidConfig, cfg.RateLimit)
	}
	if cfg.Concurrency <= 0 {
		return nil, fmt.Errorf("%w: concurrency must be positive, got %d", ErrInvalidConfig, cfg.Concurrency)
	}
	return cfg, nil
}

// Weights converts the configured weights into the scoring type.
func (c *Config) Weights() scoring.Weights {
	return scoring.Weights{High: c.HighWeight, Medium: c.MediumWeight}
}
