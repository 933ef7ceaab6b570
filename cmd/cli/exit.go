package main

import (
	"fmt"
	"os"

	"github.com/wardenbench/wardenbench/pkg/ui"
)

// exitWithError prints a formatted error message and exits with code 1.
func exitWithError(format string, args ...any) {
	ui.PrintError(format, args...)
	os.Exit(1)
}

// exitWithUsage prints an error message followed by a usage hint, then exits.
func exitWithUsage(msg, usage string) {
	ui.PrintError("%s", msg)
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Usage:", usage)
	os.Exit(1)
}
