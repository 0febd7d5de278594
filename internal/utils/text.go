package utils

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

// CapitalizeFirst upper-cases the first rune of s and leaves the rest alone.
func CapitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// uriComponentUnescape undoes the url.QueryEscape output that a browser's
// encodeURIComponent leaves alone: '+' for space, and ! ' ( ) *.
var uriComponentUnescape = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeURIComponent percent-encodes s for use as a single query value,
// producing the same text as a browser's encodeURIComponent. Spaces become
// %20 rather than '+', which wa.me renders literally.
func EncodeURIComponent(s string) string {
	return uriComponentUnescape.Replace(url.QueryEscape(s))
}

// DigitsOnly strips the usual phone number decoration (+, spaces, dashes,
// dots, parentheses) and reports whether only digits remain.
func DigitsOnly(phone string) (string, bool) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '+', ' ', '-', '.', '(', ')':
			return -1
		}
		return r
	}, phone)
	if cleaned == "" {
		return "", false
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return cleaned, false
		}
	}
	return cleaned, true
}
