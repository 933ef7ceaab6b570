// Package strutil provides shared string helpers for report rendering.
package strutil

import "unicode/utf8"

// Truncate returns s cut to maxLen runes, with a "..." suffix counted
// inside maxLen when the cut happens. Warden handles are user-chosen
// and unbounded, so every fixed-width surface (terminal columns, PDF
// cells) goes through here. Rune-aware, never produces invalid UTF-8.
// maxLen <= 0 returns the empty string.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string([]rune(s)[:maxLen])
	}
	return string([]rune(s)[:maxLen-3]) + "..."
}
