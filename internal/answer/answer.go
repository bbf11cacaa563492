package answer

import "strings"

// Delimiter separates accepted alternatives inside one field.
const Delimiter = ";"

// Normalize trims surrounding whitespace and lowercases s.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Alternatives splits an expected answer into its normalized accepted forms.
// Empty alternatives (e.g. from a trailing ';') are dropped.
func Alternatives(expected string) []string {
	parts := strings.Split(expected, Delimiter)
	alts := make([]string, 0, len(parts))
	for _, p := range parts {
		if n := Normalize(p); n != "" {
			alts = append(alts, n)
		}
	}
	return alts
}

// Matches reports whether the normalized submission equals any alternative.
func Matches(expected, submitted string) bool {
	got := Normalize(submitted)
	for _, alt := range Alternatives(expected) {
		if got == alt {
			return true
		}
	}
	return false
}
