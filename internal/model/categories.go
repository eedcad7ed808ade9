package model

import "strings"

// SplitCategories parses the stored comma-delimited category string into
// an ordered list.  An empty string, a whitespace-only string and the
// literal "[]" all normalize to an empty list.  Surrounding bracket
// characters are stripped so values imported as "[공연, 전시]" parse the
// same as "공연, 전시".  Individual tokens are trimmed and empty tokens
// are dropped.
func SplitCategories(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "[]" {
		return []string{}
	}
	cleaned := strings.NewReplacer("[", "", "]", "").Replace(raw)
	parts := strings.Split(cleaned, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinCategories converts an ordered category list back into the stored
// comma-delimited form.  A nil or empty list yields an empty string.
func JoinCategories(categories []string) string {
	return strings.Join(categories, ",")
}
