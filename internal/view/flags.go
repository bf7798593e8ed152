package view

import "strings"

// Offset from 'A' to the Unicode regional indicator symbols; a pair of
// them renders as an emoji flag.
const regionalIndicatorBase = 0x1F1E6

// Flag converts an ISO 3166-1 alpha-2 country code to its emoji flag.
// Unknown or malformed codes render as an empty string.
func Flag(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 2 {
		return ""
	}
	var b strings.Builder
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return ""
		}
		b.WriteRune(rune(regionalIndicatorBase + int(c-'A')))
	}
	return b.String()
}

// CountryFlags renders a space-separated run of flags for the given
// country codes, skipping any it cannot render.
func CountryFlags(codes []string) string {
	flags := make([]string, 0, len(codes))
	for _, code := range codes {
		if f := Flag(code); f != "" {
			flags = append(flags, f)
		}
	}
	return strings.Join(flags, " ")
}
