package main

import (
	"os"

	"github.com/wardenbench/wardenbench/pkg/config"
)

// runAnalyze scores every warden and compares the baseline submitter
// against the top percentile.
func runAnalyze() {
	cfg, err := config.ParseAnalyzeFlags(os.Args[2:])
	if err != nil {
		handleParseError(err)
	}
	runScoring(cfg, cfg.BaselineID)
}
