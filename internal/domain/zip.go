package domain

import "regexp"

// zipRe matches a five-digit ZIP, optionally with a ZIP+4 suffix which is
// discarded, e.g. "92701-1234" -> "92701".
var zipRe = regexp.MustCompile(`\b(\d{5})(?:-\d{4})?\b`)

// ExtractZip pulls the first five-digit ZIP out of free text, dropping any
// +4 suffix. Returns "" when none is present.
func ExtractZip(text string) string {
	m := zipRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}
