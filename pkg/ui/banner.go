// Package ui renders the terminal surface of warden-bench: banner,
// configuration echo, status lines and fetch progress. Everything prints
// to stderr so stdout stays clean for report output.
package ui

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Build metadata. Overridden at release time via
// -ldflags "-X github.com/wardenbench/wardenbench/pkg/ui.Version=...".
var (
	Version   = "1.2.0"
	BuildDate = "unknown"
	Commit    = "unknown"
)

const (
	// Tool identity shown in the banner and help output.
	ToolName = "warden-bench"
	Website  = "https://github.com/wardenbench/wardenbench"
)

var (
	uiMu        sync.RWMutex
	silentMode  bool
	noColorMode bool
)

// SetSilent suppresses all decorative output. Status lines and results
// keep flowing, banners and dividers do not.
func SetSilent(silent bool) {
	uiMu.Lock()
	defer uiMu.Unlock()
	silentMode = silent
}

// IsSilent reports whether decorative output is suppressed.
func IsSilent() bool {
	uiMu.RLock()
	defer uiMu.RUnlock()
	return silentMode
}

// SetNoColor disables colored output globally, including lipgloss styles.
func SetNoColor(noColor bool) {
	uiMu.Lock()
	noColorMode = noColor
	uiMu.Unlock()
	if noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// IsNoColor reports whether colored output is disabled.
func IsNoColor() bool {
	uiMu.RLock()
	defer uiMu.RUnlock()
	return noColorMode
}

// UserAgent returns the HTTP user agent for outbound requests.
func UserAgent() string {
	return fmt.Sprintf("%s/%s", ToolName, Version)
}

// UserAgentWithContext appends a component name to the user agent so
// server logs can tell fetcher traffic from other requests.
func UserAgentWithContext(context string) string {
	if context == "" {
		return UserAgent()
	}
	return fmt.Sprintf("%s/%s (%s)", ToolName, Version, context)
}

const bannerArt = `
 _       __               __          ____                  __
| |     / /___ _ ________/ /__  ____ / __ )___  ____  _____/ /_
| | /| / / __ '/ ___/ __  / _ \/ __ \/ __  / _ \/ __ \/ ___/ __ \
| |/ |/ / /_/ / /  / /_/ /  __/ / / / /_/ /  __/ / / / /__/ / / /
|__/|__/\__,_/_/   \__,_/\___/_/ /_/_____/\___/_/ /_/\___/_/ /_/
`

// PrintBanner renders the startup banner with version information.
func PrintBanner() {
	if IsSilent() {
		return
	}
	for _, line := range strings.Split(strings.Trim(bannerArt, "\n"), "\n") {
		fmt.Fprintln(os.Stderr, BannerStyle.Render(line))
	}
	version := VersionStyle.Render("v" + Version)
	tagline := SubtitleStyle.Render("warden vs. baseline contest benchmarking")
	fmt.Fprintf(os.Stderr, "\n %s  %s\n\n", version, tagline)
}

// PrintMiniBanner renders a single-line banner for quiet runs.
func PrintMiniBanner() {
	if IsSilent() {
		return
	}
	fmt.Fprintf(os.Stderr, "%s %s\n",
		TitleStyle.Render(ToolName),
		VersionStyle.Render("v"+Version))
}

func printOption(key, value string) {
	fmt.Fprintf(os.Stderr, " :: %s : %s\n",
		ConfigLabelStyle.Render(key),
		ConfigValueStyle.Render(value))
}

// PrintConfigBanner echoes the effective run configuration. Keys in
// order are printed first, any extras follow alphabetically.
func PrintConfigBanner(cfg map[string]string, order []string) {
	if IsSilent() {
		return
	}
	PrintDivider()
	seen := make(map[string]bool, len(order))
	for _, key := range order {
		if value, ok := cfg[key]; ok && value != "" {
			printOption(key, value)
			seen[key] = true
		}
	}
	var rest []string
	for key, value := range cfg {
		if !seen[key] && value != "" {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		printOption(key, cfg[key])
	}
	PrintDivider()
}

// PrintDivider renders a horizontal rule.
func PrintDivider() {
	if IsSilent() {
		return
	}
	fmt.Fprintln(os.Stderr, DividerStyle.Render(strings.Repeat("_", 64)))
}

// Status lines interpolate report-derived text (contest IDs, paths), so
// they sanitize for the terminal in one step.

// PrintSuccess renders a success status line.
func PrintSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n",
		SuccessStyle.Render("[+]"),
		Sanitizef(format, args...))
}

// PrintError renders an error status line.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n",
		FailureStyle.Render("[x]"),
		Sanitizef(format, args...))
}

// PrintWarning renders a warning status line.
func PrintWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n",
		WarningStyle.Render("[!]"),
		Sanitizef(format, args...))
}

// PrintInfo renders an informational status line. Suppressed in silent
// mode, unlike warnings and errors.
func PrintInfo(format string, args ...any) {
	if IsSilent() {
		return
	}
	fmt.Fprintf(os.Stderr, "%s %s\n",
		BracketStyle.Render("[*]"),
		Sanitizef(format, args...))
}
