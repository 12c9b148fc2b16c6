package mdbrief

import (
	"regexp"
	"strings"
)

// defaultTitle is used when the document has no H1 heading.
const defaultTitle = "Document"

// Metadata extraction patterns.
var (
	// First H1 heading
	titlePattern = regexp.MustCompile(`(?m)^# (.+)$`)

	// First fully-italic blockquote line, e.g. "> *A short tagline*"
	subtitlePattern = regexp.MustCompile(`(?m)^> \*(.+)\*$`)

	// Cover titles split on " — ", " – " or " : " for two-tone display
	titleSplitPattern = regexp.MustCompile(`\s[—–:]\s`)
)

// extractTitle returns the first H1 as the document title.
func extractTitle(mdContent string) string {
	if m := titlePattern.FindStringSubmatch(mdContent); m != nil {
		return strings.TrimSpace(m[1])
	}
	return defaultTitle
}

// extractSubtitle returns the first italic blockquote line as a subtitle,
// or "" when the document has none.
func extractSubtitle(mdContent string) string {
	if m := subtitlePattern.FindStringSubmatch(mdContent); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// splitCoverTitle splits a title on the first " — ", " – " or " : " into a
// main part and an accent part for the cover page. The accent is "" when the
// title has no separator.
func splitCoverTitle(title string) (main, accent string) {
	loc := titleSplitPattern.FindStringIndex(title)
	if loc == nil {
		return title, ""
	}
	return title[:loc[0]], title[loc[1]:]
}
