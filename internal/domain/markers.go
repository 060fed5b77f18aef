package domain

import "strings"

// ContainsMarker reports whether text contains any marker, ignoring case.
func ContainsMarker(text string, markers []string) bool {
	lower := strings.ToLower(text)
	for _, marker := range markers {
		m := strings.ToLower(strings.TrimSpace(marker))
		if m == "" {
			continue
		}
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// MatchesLabel reports whether value equals one of the labels after trimming.
// Submit controls are matched exactly, the way the form renders them.
func MatchesLabel(value string, labels []string) bool {
	v := strings.TrimSpace(value)
	for _, label := range labels {
		if v == strings.TrimSpace(label) {
			return true
		}
	}
	return false
}
