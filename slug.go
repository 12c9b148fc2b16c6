package mdbrief

import (
	"fmt"
	"regexp"
	"strings"
)

// Precompiled patterns for slug derivation.
var (
	// Markup tags (angle-bracket delimited spans)
	slugTagPattern = regexp.MustCompile(`<[^>]*>`)

	// HTML character references, named or numeric (&amp; &lt; &#39;)
	slugEntityPattern = regexp.MustCompile(`&#?[0-9A-Za-z]+;`)

	// Runs of whitespace or underscores become a single hyphen
	slugSeparatorPattern = regexp.MustCompile(`[\s_]+`)

	// Everything that is not a word character or hyphen is dropped
	slugInvalidPattern = regexp.MustCompile(`[^\p{L}\p{N}_-]`)

	// Runs of hyphens collapse to one
	slugHyphenRunPattern = regexp.MustCompile(`-{2,}`)
)

// slugDashReplacer normalizes em and en dashes to plain hyphens.
var slugDashReplacer = strings.NewReplacer("—", "-", "–", "-")

// Slugify derives a URL-fragment identifier from heading text.
//
// The same function is used when building TOC links from raw Markdown
// headings and when injecting id attributes into rendered headings, so
// logically-equivalent input (same visible text, regardless of markup or
// entity escaping) always produces an identical slug. Character references
// are dropped, not decoded: "Embed &amp; Export" and "Embed & Export" both
// slugify to "embed-export".
//
// Slugify is total: input with no retainable characters yields the empty
// string. The output contains only lowercase word characters and hyphens,
// with no leading, trailing, or doubled hyphen, and is a fixed point of
// Slugify.
func Slugify(text string) string {
	s := slugTagPattern.ReplaceAllString(text, "")
	s = slugDashReplacer.Replace(s)
	s = slugEntityPattern.ReplaceAllString(s, "")
	s = strings.ToLower(s)
	s = slugSeparatorPattern.ReplaceAllString(s, "-")
	s = slugInvalidPattern.ReplaceAllString(s, "")
	s = slugHyphenRunPattern.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// slugRegistry tracks base-slug occurrences within one document run so that
// every emitted heading id is unique. The first occurrence keeps the base
// slug; the Kth duplicate gets "base-K". Empty base slugs are counted like
// any other.
type slugRegistry struct {
	seen map[string]int
}

func newSlugRegistry() *slugRegistry {
	return &slugRegistry{seen: make(map[string]int)}
}

// claim returns the unique id for the next occurrence of base.
func (r *slugRegistry) claim(base string) string {
	n := r.seen[base]
	r.seen[base]++
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n)
}

// renderedHeadingPattern matches h2/h3 tags in rendered HTML.
// Captures: 1=level digit, 2=attributes, 3=inner HTML (may contain inline tags).
// RE2 has no backreferences, so the closing tag matches either level; goldmark
// never nests headings, making a mismatch impossible in practice.
var renderedHeadingPattern = regexp.MustCompile(`(?is)<h([23])([^>]*)>(.*?)</h[23]>`)

// injectHeadingIDs adds an id attribute to every h2/h3 in rendered HTML,
// derived from the heading text with Slugify and made unique with a fresh
// per-document registry. Headings that already carry an id keep it and do
// not advance the registry.
func injectHeadingIDs(htmlContent string) string {
	registry := newSlugRegistry()
	return renderedHeadingPattern.ReplaceAllStringFunc(htmlContent, func(m string) string {
		parts := renderedHeadingPattern.FindStringSubmatch(m)
		level, attrs, inner := parts[1], parts[2], parts[3]
		if strings.Contains(strings.ToLower(attrs), `id="`) {
			return m
		}
		id := registry.claim(Slugify(inner))
		return fmt.Sprintf(`<h%s id="%s"%s>%s</h%s>`, level, id, attrs, inner, level)
	})
}
