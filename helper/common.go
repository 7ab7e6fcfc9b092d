package helper

import (
	"strings"
	"unicode"
)

// RestrictedPrefixes are matched against the trimmed, lower-cased query.
// This is a plain prefix check, so "vacuuming_log" is rejected as well.
var RestrictedPrefixes = []string{"pragma", "attach", "detach", "vacuum"}

// isTrimSpace is the whitespace set browsers trim: the byte order mark
// counts, NEL (U+0085) does not.
func isTrimSpace(r rune) bool {
	if r == '\u0085' {
		return false
	}
	return r == '\ufeff' || unicode.IsSpace(r)
}

func trim(s string) string {
	return strings.TrimFunc(s, isTrimSpace)
}

// ExtractQuery pulls the "query" field out of a decoded JSON body. It reports
// false when the body is not an object, or the field is missing, not a
// string, or blank after trimming. The returned string is untouched.
func ExtractQuery(body any) (string, bool) {
	obj, ok := body.(map[string]any)
	if !ok {
		return "", false
	}

	query, ok := obj["query"].(string)
	if !ok || trim(query) == "" {
		return "", false
	}
	return query, true
}

func IsRestrictedQuery(query string) bool {
	normalized := strings.ToLower(trim(query))
	for _, prefix := range RestrictedPrefixes {
		if strings.HasPrefix(normalized, prefix) {
			return true
		}
	}
	return false
}
