package main

import "testing"

func TestParseFlags(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		flags, args, err := parseFlags([]string{"doc.md"})
		if err != nil {
			t.Fatalf("parseFlags() error: %v", err)
		}
		if len(args) != 1 || args[0] != "doc.md" {
			t.Errorf("args = %v, want [doc.md]", args)
		}
		if flags.output != "" || flags.config != "" || flags.timeout != "" {
			t.Errorf("string flags not empty by default: %+v", flags)
		}
		if flags.noCover || flags.noCache || flags.html || flags.htmlOnly || flags.quiet || flags.verbose {
			t.Errorf("bool flags not false by default: %+v", flags)
		}
	})

	t.Run("long flags", func(t *testing.T) {
		flags, args, err := parseFlags([]string{
			"--output", "out.pdf",
			"--config", "work",
			"--title", "My Title",
			"--subtitle", "My Subtitle",
			"--author", "Jane",
			"--timeout", "2m",
			"--no-cover",
			"--no-cache",
			"--html",
			"doc.md",
		})
		if err != nil {
			t.Fatalf("parseFlags() error: %v", err)
		}
		if flags.output != "out.pdf" || flags.config != "work" || flags.title != "My Title" ||
			flags.subtitle != "My Subtitle" || flags.author != "Jane" || flags.timeout != "2m" {
			t.Errorf("string flags = %+v", flags)
		}
		if !flags.noCover || !flags.noCache || !flags.html {
			t.Errorf("bool flags = %+v", flags)
		}
		if len(args) != 1 || args[0] != "doc.md" {
			t.Errorf("args = %v, want [doc.md]", args)
		}
	})

	t.Run("shorthands", func(t *testing.T) {
		flags, _, err := parseFlags([]string{"-o", "out.pdf", "-c", "work", "-t", "45s", "-q", "-v", "doc.md"})
		if err != nil {
			t.Fatalf("parseFlags() error: %v", err)
		}
		if flags.output != "out.pdf" || flags.config != "work" || flags.timeout != "45s" {
			t.Errorf("string flags = %+v", flags)
		}
		if !flags.quiet || !flags.verbose {
			t.Errorf("bool flags = %+v", flags)
		}
	})

	t.Run("positional args preserved in order", func(t *testing.T) {
		_, args, err := parseFlags([]string{"--html-only", "in.md", "out.pdf"})
		if err != nil {
			t.Fatalf("parseFlags() error: %v", err)
		}
		if len(args) != 2 || args[0] != "in.md" || args[1] != "out.pdf" {
			t.Errorf("args = %v, want [in.md out.pdf]", args)
		}
	})

	t.Run("unknown flag rejected", func(t *testing.T) {
		if _, _, err := parseFlags([]string{"--bogus"}); err == nil {
			t.Error("parseFlags() accepted an unknown flag")
		}
	})
}
