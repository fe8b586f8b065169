// Package config resolves ambient presentation settings — the diff-editor's
// color mode and the checkbox glyph set, plus the optional keybinding
// override file of config.go — the way the teacher's internal/config
// package resolves its own settings: read environment/terminal state once
// at startup, fail soft to a sane default.
package config

import (
	"os"

	"golang.org/x/term"
)

// ColorMode is the diff-editor CLI's --color flag (spec.md section 6).
type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// ParseColorMode parses the --color flag's argument, defaulting to
// ColorAuto for an empty string.
func ParseColorMode(s string) (ColorMode, bool) {
	switch s {
	case "", "auto":
		return ColorAuto, true
	case "always":
		return ColorAlways, true
	case "never":
		return ColorNever, true
	default:
		return ColorAuto, false
	}
}

// ResolveColor decides whether color should be enabled, answering
// spec.md section 9's open question: auto means "color unless NO_COLOR is
// set, or stdout is not a terminal" (independent of whether some other
// controlling terminal exists) — see DESIGN.md for the rationale.
func ResolveColor(mode ColorMode, stdout *os.File) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		return term.IsTerminal(int(stdout.Fd()))
	}
}

// UseUnicode decides whether to render Unicode checkbox/ellipsis glyphs.
// It looks only at the locale: the first non-empty of LC_ALL, LC_CTYPE and
// LANG decides, and a value without a UTF-8 charset falls back to ASCII;
// with none of them set, Unicode is used. NO_COLOR and whether stdout is a
// terminal do not affect it.
func UseUnicode() bool {
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return containsUTF8(v)
		}
	}
	return true
}

func containsUTF8(localeVar string) bool {
	for i := 0; i+4 <= len(localeVar); i++ {
		if (localeVar[i] == 'u' || localeVar[i] == 'U') &&
			(localeVar[i+1] == 't' || localeVar[i+1] == 'T') &&
			(localeVar[i+2] == 'f' || localeVar[i+2] == 'F') {
			return true
		}
	}
	return false
}
