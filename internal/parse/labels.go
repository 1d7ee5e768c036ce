package parse

import "strings"

// SplitLabels extracts the label set from a free-text tag string such as
// "Labels: Inbox, Starred". Only the segment between the first and second
// colon is considered; it splits on commas with whitespace trimmed and
// empty or repeated entries dropped.
func SplitLabels(s string) []string {
	segments := strings.Split(s, ":")
	if len(segments) < 2 {
		return nil
	}

	seen := make(map[string]bool)
	var labels []string
	for _, part := range strings.Split(segments[1], ",") {
		label := strings.TrimSpace(part)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		labels = append(labels, label)
	}
	return labels
}
