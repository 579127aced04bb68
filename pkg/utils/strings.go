package utils

import "strings"

func LastSegment(s string) string {
	segs := strings.Split(s, "/")
	return segs[len(segs)-1]
}

// ContainsFold reports whether s contains sub, case-insensitively.
func ContainsFold(s, sub string) bool {
	return strings.Contains(strings.ToUpper(s), strings.ToUpper(sub))
}

// ContainsAnyFold reports whether s contains any of the patterns,
// case-insensitively.
func ContainsAnyFold(s string, patterns []string) bool {
	for _, p := range patterns {
		if ContainsFold(s, p) {
			return true
		}
	}
	return false
}
