package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// cliFlags holds all flags for the converter.
type cliFlags struct {
	output   string
	config   string
	title    string
	subtitle string
	author   string
	timeout  string
	noCover  bool
	noCache  bool
	html     bool
	htmlOnly bool
	quiet    bool
	verbose  bool
}

// parseFlags parses command-line flags and returns positional args.
func parseFlags(args []string) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("mdbrief", flag.ContinueOnError)
	f := &cliFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file (\"\" = input with .pdf extension)")
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVar(&f.title, "title", "", "document title (\"\" = auto from first H1)")
	fs.StringVar(&f.subtitle, "subtitle", "", "document subtitle (\"\" = auto from blockquote)")
	fs.StringVar(&f.author, "author", "", "author name for cover page")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF generation timeout (e.g., 30s, 2m)")
	fs.BoolVar(&f.noCover, "no-cover", false, "skip cover page")
	fs.BoolVar(&f.noCache, "no-cache", false, "force re-render all diagrams")
	fs.BoolVar(&f.html, "html", false, "write debug HTML alongside PDF")
	fs.BoolVar(&f.htmlOnly, "html-only", false, "output HTML only, skip PDF")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show progress details")

	fs.Usage = func() { printUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
