package pos

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// separators are the bytes that delimit ledger fields and rows.
const separators = "\t\n\r"

// ValidText reports whether s is non-empty and free of field or row
// separators.
func ValidText(s string) bool {
	return s != "" && !strings.ContainsAny(s, separators)
}

// SanitizeText prepares free text (names, comments) for the ledger:
// separators become spaces, surrounding space is trimmed and the result is
// NFC normalized so that "Kávé" typed on different keyboards compares equal.
func SanitizeText(s string) string {
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(separators, r) {
			return ' '
		}
		return r
	}, s)
	return norm.NFC.String(strings.TrimSpace(s))
}
