package ui

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

var (
	unicodeOnce sync.Once
	unicodeOK   bool
)

// UnicodeTerminal reports whether stderr is an interactive terminal that
// can be expected to render non-ASCII glyphs. Dumb terminals, pipes and
// CI logs get the ASCII fallback.
func UnicodeTerminal() bool {
	unicodeOnce.Do(func() {
		if os.Getenv("TERM") == "dumb" {
			unicodeOK = false
			return
		}
		if !term.IsTerminal(int(os.Stderr.Fd())) {
			unicodeOK = false
			return
		}
		lang := strings.ToUpper(os.Getenv("LANG") + os.Getenv("LC_ALL"))
		if lang != "" && !strings.Contains(lang, "UTF") {
			unicodeOK = false
			return
		}
		unicodeOK = true
	})
	return unicodeOK
}

// Icon picks between a unicode glyph and its ASCII stand-in based on
// terminal capability.
func Icon(unicode, ascii string) string {
	if UnicodeTerminal() {
		return unicode
	}
	return ascii
}

// SanitizeString strips glyphs that legacy terminals render as mojibake.
// On capable terminals the input passes through untouched.
func SanitizeString(s string) string {
	if UnicodeTerminal() {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isSafeForLegacy(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Sanitizef formats and sanitizes in one step.
func Sanitizef(format string, args ...any) string {
	return SanitizeString(fmt.Sprintf(format, args...))
}

func isVariationSelector(r rune) bool {
	return r >= 0xFE00 && r <= 0xFE0F
}

func isSafeForLegacy(r rune) bool {
	if isVariationSelector(r) {
		return false
	}
	// Emoji and symbol blocks beyond the basic multilingual planes.
	if r >= 0x1F000 {
		return false
	}
	// Dingbats and miscellaneous symbols.
	if r >= 0x2600 && r <= 0x27BF {
		return false
	}
	return true
}
