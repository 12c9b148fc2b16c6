package mdbrief

import (
	"context"
	"regexp"
	"strings"
)

// Precompiled regex patterns for preprocessing.
var (
	// Fenced code block delimiter (backticks or tildes)
	fencedCodeBlock = regexp.MustCompile("^(```|~~~)")

	// Blockquote pattern
	blockquotePattern = regexp.MustCompile(`^>`)

	// List item patterns (unordered and ordered)
	unorderedListPattern = regexp.MustCompile(`^\s*[-*]\s`)
	orderedListPattern   = regexp.MustCompile(`^\s*[0-9]+\.\s`)
)

// markdownPreprocessor defines the contract for markdown preprocessing.
type markdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// quirkPreprocessor fixes Markdown quirks that render poorly: blockquotes
// without hard line breaks and lists glued to the preceding paragraph.
type quirkPreprocessor struct{}

// PreprocessMarkdown applies all transformations.
// Order matters: blockquote line breaks first, then list separation.
func (p *quirkPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}
	content = fixBlockquoteLineBreaks(content)
	content = fixListSeparation(content)
	return content
}

// fixBlockquoteLineBreaks appends two trailing spaces to a blockquote line
// when the next line is also a blockquote, so consecutive "> " lines render
// as hard line breaks instead of flowing together. Skips fenced code blocks.
func fixBlockquoteLineBreaks(content string) string {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))
	inCodeBlock := false

	for i, line := range lines {
		stripped := strings.TrimRight(line, " \t")
		if fencedCodeBlock.MatchString(stripped) {
			inCodeBlock = !inCodeBlock
		}
		if !inCodeBlock && blockquotePattern.MatchString(stripped) {
			nextIsQuote := i+1 < len(lines) &&
				blockquotePattern.MatchString(strings.TrimRight(lines[i+1], " \t"))
			if nextIsQuote && !strings.HasSuffix(stripped, "  ") {
				result = append(result, stripped+"  ")
				continue
			}
		}
		result = append(result, line)
	}
	return strings.Join(result, "\n")
}

// fixListSeparation inserts a blank line before a list item that directly
// follows body text, so the list is not absorbed into the paragraph.
// Headings and other list items do not trigger a separation.
// Skips fenced code blocks.
func fixListSeparation(content string) string {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))
	inCodeBlock := false

	for i, line := range lines {
		stripped := strings.TrimRight(line, " \t")
		if fencedCodeBlock.MatchString(stripped) {
			inCodeBlock = !inCodeBlock
		}
		if !inCodeBlock && isListLine(stripped) && i > 0 {
			prev := strings.TrimRight(lines[i-1], " \t")
			if prev != "" && !isListLine(prev) && !strings.HasPrefix(prev, "#") {
				result = append(result, "")
			}
		}
		result = append(result, line)
	}
	return strings.Join(result, "\n")
}

// isListLine returns true if the line starts with a list marker (-, *, or 1.).
func isListLine(line string) bool {
	return unorderedListPattern.MatchString(line) || orderedListPattern.MatchString(line)
}
