// internal/nlp/extract.go
package nlp

import (
	"regexp"
	"strings"
)

var (
	// Canonical references look like WO/2024/0042.
	woRefPattern = regexp.MustCompile(`(?i)\bWO/\d{4}/\d+\b`)

	// Fallback for phrasing like "work order 42" or "work order #0042".
	woPhrasePattern = regexp.MustCompile(`(?i)\bwork\s*orders?\b\s*(?:no\.?|number|#)?\s*([A-Za-z0-9/\-]+)`)
)

// ExtractWorkOrderRef pulls a work order reference out of free text when
// the model failed to tag one. Returns "" when nothing plausible appears.
func ExtractWorkOrderRef(text string) string {
	if m := woRefPattern.FindString(text); m != "" {
		return strings.ToUpper(m)
	}

	if m := woPhrasePattern.FindStringSubmatch(text); len(m) == 2 {
		candidate := strings.Trim(m[1], ".,?!")
		if candidate != "" && !isStopWord(candidate) {
			return strings.ToUpper(candidate)
		}
	}

	return ""
}

func isStopWord(s string) bool {
	switch strings.ToLower(s) {
	case "details", "finances", "papers", "documents", "cost", "profit", "status", "for", "the":
		return true
	}
	return false
}
