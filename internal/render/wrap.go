package render

import (
	"strings"
	"unicode/utf8"
)

// WrapWords breaks text greedily into lines of at most maxChars characters.
// A single word longer than maxChars keeps its own line. When maxLines > 0,
// lines past the cap are merged into the last allowed line.
func WrapWords(text string, maxChars, maxLines int) []string {
	var lines []string
	current := ""
	for _, w := range strings.Fields(text) {
		candidate := w
		if current != "" {
			candidate = current + " " + w
		}
		if utf8.RuneCountInString(candidate) > maxChars && current != "" {
			lines = append(lines, current)
			current = w
			continue
		}
		current = candidate
	}
	if current != "" {
		lines = append(lines, current)
	}
	if maxLines > 0 && len(lines) > maxLines {
		merged := strings.Join(lines[maxLines-1:], " ")
		lines = append(lines[:maxLines-1:maxLines-1], merged)
	}
	return lines
}
