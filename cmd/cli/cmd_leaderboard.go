package main

import (
	"os"

	"github.com/wardenbench/wardenbench/pkg/config"
)

// runLeaderboard scores every warden without a baseline comparison.
func runLeaderboard() {
	cfg, err := config.ParseLeaderboardFlags(os.Args[2:])
	if err != nil {
		handleParseError(err)
	}
	runScoring(cfg, "")
}
