package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mdbrief"
)

// Sentinel errors for CLI operations.
var (
	ErrMissingInput     = errors.New("usage: mdbrief [flags] <input.md> [output.pdf]")
	ErrReadMarkdown     = errors.New("failed to read markdown file")
	ErrInvalidExtension = errors.New("file must have .md or .markdown extension")
	ErrInvalidTimeout   = errors.New("invalid timeout")
)

// printUsage writes the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "mdbrief - convert Markdown with Mermaid diagrams to a styled PDF")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: mdbrief [flags] <input.md> [output.pdf]")
}

// run resolves config and flags, reads the input, and drives the conversion.
func run(flags *cliFlags, args []string, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		return ErrMissingInput
	}
	inputPath := args[0]

	if err := validateMarkdownExtension(inputPath); err != nil {
		return err
	}

	cfg := DefaultConfig()
	if flags.config != "" {
		loaded, err := LoadConfig(flags.config)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	outputPath := resolveOutputPath(flags.output, args, inputPath)

	mdBytes, err := os.ReadFile(inputPath) // #nosec G304 -- input path is user-provided
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadMarkdown, err)
	}

	opts, err := serviceOptions(flags, cfg)
	if err != nil {
		return err
	}

	svc := mdbrief.New(opts...)
	defer func() { _ = svc.Close() }()

	author := flags.author
	if author == "" {
		author = cfg.Author
	}

	if flags.verbose {
		fmt.Fprintf(stderr, "Input:  %s\n", inputPath)
		fmt.Fprintf(stderr, "Output: %s\n", outputPath)
	}

	result, err := svc.Convert(context.Background(), mdbrief.Input{
		Markdown: string(mdBytes),
		Title:    flags.title,
		Subtitle: flags.subtitle,
		Author:   author,
		NoCover:  flags.noCover,
		NoCache:  flags.noCache,
		HTMLOnly: flags.htmlOnly,
	})
	if err != nil {
		return err
	}

	if flags.verbose {
		fmt.Fprintf(stderr, "Diagrams: %d\n", result.Diagrams)
	}

	// Debug HTML next to the output
	if flags.html || flags.htmlOnly {
		htmlPath := strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".html"
		if err := os.WriteFile(htmlPath, []byte(result.HTML), 0o600); err != nil {
			return fmt.Errorf("writing HTML: %w", err)
		}
		if !flags.quiet {
			fmt.Fprintf(stdout, "Created %s\n", htmlPath)
		}
	}

	if flags.htmlOnly {
		return nil
	}

	if err := os.WriteFile(outputPath, result.PDF, 0o600); err != nil {
		return fmt.Errorf("writing PDF: %w", err)
	}
	if !flags.quiet {
		fmt.Fprintf(stdout, "Created %s\n", outputPath)
	}
	return nil
}

// serviceOptions builds service options from flags and config.
// Flags take precedence over config values.
func serviceOptions(flags *cliFlags, cfg *Config) ([]mdbrief.Option, error) {
	var opts []mdbrief.Option

	if cfg.CacheDir != "" {
		opts = append(opts, mdbrief.WithCacheDir(cfg.CacheDir))
	}
	if cfg.KrokiURL != "" {
		opts = append(opts, mdbrief.WithKrokiURL(cfg.KrokiURL))
	}

	timeoutStr := flags.timeout
	if timeoutStr == "" {
		timeoutStr = cfg.Timeout
	}
	if timeoutStr != "" {
		d, err := time.ParseDuration(timeoutStr)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTimeout, timeoutStr)
		}
		opts = append(opts, mdbrief.WithTimeout(d))
	}

	return opts, nil
}

// resolveOutputPath picks the output file: the -o flag, the second
// positional argument, or the input path with a .pdf extension.
func resolveOutputPath(flagOutput string, args []string, inputPath string) string {
	if flagOutput != "" {
		return flagOutput
	}
	if len(args) > 1 {
		return args[1]
	}
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".pdf"
}

// validateMarkdownExtension checks that the file has a .md or .markdown extension.
func validateMarkdownExtension(path string) error {
	ext := filepath.Ext(path)
	if ext != ".md" && ext != ".markdown" {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, ext)
	}
	return nil
}
