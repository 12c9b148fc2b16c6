package mdbrief

import (
	"regexp"
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple heading",
			input:    "Overview",
			expected: "overview",
		},
		{
			name:     "spaces become hyphens",
			input:    "System Design Notes",
			expected: "system-design-notes",
		},
		{
			name:     "punctuation dropped",
			input:    "3.1 Embed & External Impact",
			expected: "31-embed-external-impact",
		},
		{
			name:     "escaped ampersand matches raw ampersand",
			input:    "3.1 Embed &amp; External Impact",
			expected: "31-embed-external-impact",
		},
		{
			name:     "em dash normalized",
			input:    "API — Design",
			expected: "api-design",
		},
		{
			name:     "en dash normalized",
			input:    "2024 – 2025",
			expected: "2024-2025",
		},
		{
			name:     "embedded markup stripped",
			input:    `Usage of <code>Convert</code>`,
			expected: "usage-of-convert",
		},
		{
			name:     "named entity dropped not decoded",
			input:    "Tips &lt;advanced&gt;",
			expected: "tips-advanced",
		},
		{
			name:     "numeric entity dropped",
			input:    "It&#39;s Alive",
			expected: "its-alive",
		},
		{
			name:     "underscores collapse like whitespace",
			input:    "snake_case_name",
			expected: "snake-case-name",
		},
		{
			name:     "multiple spaces collapse",
			input:    "a    b",
			expected: "a-b",
		},
		{
			name:     "leading and trailing separators stripped",
			input:    "  -- trimmed -- ",
			expected: "trimmed",
		},
		{
			name:     "unicode letters retained",
			input:    "Présentation Générale",
			expected: "présentation-générale",
		},
		{
			name:     "emoji only yields empty slug",
			input:    "🎨🎨🎨",
			expected: "",
		},
		{
			name:     "punctuation only yields empty slug",
			input:    "!!!",
			expected: "",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slugify(tt.input)
			if got != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSlugify_RawAndRenderedEquivalence(t *testing.T) {
	// A raw heading and its HTML-escaped rendering must slugify identically.
	pairs := []struct {
		name     string
		raw      string
		rendered string
	}{
		{
			name:     "ampersand",
			raw:      "Embed & Export",
			rendered: "Embed &amp; Export",
		},
		{
			name:     "angle brackets",
			raw:      "Inputs < Outputs",
			rendered: "Inputs &lt; Outputs",
		},
		{
			name:     "inline markup",
			raw:      "Using Convert",
			rendered: "Using <code>Convert</code>",
		},
		{
			name:     "emphasis markup with entity",
			raw:      "Fast & Loose",
			rendered: "<em>Fast</em> &amp; <em>Loose</em>",
		},
	}

	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			rawSlug := Slugify(tt.raw)
			renderedSlug := Slugify(tt.rendered)
			if rawSlug != renderedSlug {
				t.Errorf("Slugify diverges: raw %q -> %q, rendered %q -> %q",
					tt.raw, rawSlug, tt.rendered, renderedSlug)
			}
		})
	}
}

func TestSlugify_OutputCharset(t *testing.T) {
	valid := regexp.MustCompile(`^[\p{Ll}\p{N}_-]*$`)

	inputs := []string{
		"Plain Title",
		"3.1 Embed &amp; External Impact",
		"API — Design",
		"  __weird__   input!!  ",
		"<h2>Nested <em>tags</em></h2>",
		"MiXeD CaSe",
	}

	for _, input := range inputs {
		got := Slugify(input)
		if !valid.MatchString(got) {
			t.Errorf("Slugify(%q) = %q contains invalid characters", input, got)
		}
		if strings.HasPrefix(got, "-") || strings.HasSuffix(got, "-") {
			t.Errorf("Slugify(%q) = %q has leading or trailing hyphen", input, got)
		}
		if strings.Contains(got, "--") {
			t.Errorf("Slugify(%q) = %q has doubled hyphen", input, got)
		}
	}
}

func TestSlugify_FixedPoint(t *testing.T) {
	inputs := []string{
		"Overview",
		"3.1 Embed &amp; External Impact",
		"API — Design",
		"Présentation Générale",
		"",
	}

	for _, input := range inputs {
		once := Slugify(input)
		twice := Slugify(once)
		if once != twice {
			t.Errorf("Slugify not a fixed point: %q -> %q -> %q", input, once, twice)
		}
	}
}

func TestSlugRegistry_Claim(t *testing.T) {
	tests := []struct {
		name     string
		bases    []string
		expected []string
	}{
		{
			name:     "unique bases unchanged",
			bases:    []string{"intro", "design", "summary"},
			expected: []string{"intro", "design", "summary"},
		},
		{
			name:     "first duplicate gets suffix 1",
			bases:    []string{"overview", "overview"},
			expected: []string{"overview", "overview-1"},
		},
		{
			name:     "suffix counts per base",
			bases:    []string{"a", "b", "a", "a", "b"},
			expected: []string{"a", "b", "a-1", "a-2", "b-1"},
		},
		{
			name:     "empty base counted like any other",
			bases:    []string{"", ""},
			expected: []string{"", "-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := newSlugRegistry()
			for i, base := range tt.bases {
				got := registry.claim(base)
				if got != tt.expected[i] {
					t.Errorf("claim(%q) occurrence %d = %q, want %q", base, i, got, tt.expected[i])
				}
			}
		})
	}
}

func TestInjectHeadingIDs(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "h2 gets slug id",
			input:    "<h2>System Design</h2>",
			expected: `<h2 id="system-design">System Design</h2>`,
		},
		{
			name:     "h3 gets slug id",
			input:    "<h3>Edge Cases</h3>",
			expected: `<h3 id="edge-cases">Edge Cases</h3>`,
		},
		{
			name:     "inline markup stripped from slug but kept in heading",
			input:    "<h2>Using <code>Convert</code></h2>",
			expected: `<h2 id="using-convert">Using <code>Convert</code></h2>`,
		},
		{
			name:     "escaped entity produces same slug as raw text",
			input:    "<h2>3.1 Embed &amp; External Impact</h2>",
			expected: `<h2 id="31-embed-external-impact">3.1 Embed &amp; External Impact</h2>`,
		},
		{
			name:     "duplicate headings get suffixed ids",
			input:    "<h2>Overview</h2><p>x</p><h2>Overview</h2>",
			expected: `<h2 id="overview">Overview</h2><p>x</p><h2 id="overview-1">Overview</h2>`,
		},
		{
			name:     "existing id preserved",
			input:    `<h2 id="custom">Kept</h2>`,
			expected: `<h2 id="custom">Kept</h2>`,
		},
		{
			name:     "h1 and h4 untouched",
			input:    "<h1>Title</h1><h4>Deep</h4>",
			expected: "<h1>Title</h1><h4>Deep</h4>",
		},
		{
			name:     "no headings",
			input:    "<p>just text</p>",
			expected: "<p>just text</p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := injectHeadingIDs(tt.input)
			if got != tt.expected {
				t.Errorf("injectHeadingIDs():\ngot:  %q\nwant: %q", got, tt.expected)
			}
		})
	}
}
