package citation

import (
	"regexp"
	"strings"
)

var leadingPageRe = regexp.MustCompile(`(?i)^page\s*`)

// NormalizePage converts a raw page value into its compact display form:
//
//   - any value containing "unknown" (case-insensitive) becomes "?"
//   - a leading "Page" token and surrounding whitespace are stripped
//   - a comma-separated list keeps only the first entry, suffixed with "+"
func NormalizePage(page string) string {
	page = strings.TrimSpace(page)

	if strings.Contains(strings.ToLower(page), "unknown") {
		return "?"
	}

	page = strings.TrimSpace(leadingPageRe.ReplaceAllString(page, ""))

	if i := strings.Index(page, ","); i >= 0 {
		first := strings.TrimSpace(page[:i])
		return first + "+"
	}

	return page
}
