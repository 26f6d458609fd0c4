package review

import (
	"strings"
)

// ExtractJSON pulls a JSON object out of a model reply that may wrap it in
// a markdown fence or surround it with prose
func ExtractJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "{") {
		return s
	}

	if body, ok := fenced(s, "```json"); ok {
		return body
	}
	if body, ok := fenced(s, "```"); ok {
		return body
	}

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end > start {
			return s[start : end+1]
		}
	}
	return s
}

// fenced returns the body of the first code fence opened by marker. Any
// language tag on the opening line is skipped.
func fenced(s, marker string) (string, bool) {
	idx := strings.Index(s, marker)
	if idx == -1 {
		return "", false
	}
	start := idx + len(marker)
	if nl := strings.IndexByte(s[start:], '\n'); nl != -1 {
		start += nl + 1
	}
	end := strings.Index(s[start:], "```")
	if end == -1 {
		return "", false
	}
	return strings.TrimSpace(s[start : start+end]), true
}

// TruncateForError truncates a string for inclusion in error messages
func TruncateForError(s string) string {
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
