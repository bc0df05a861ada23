package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// markupFlags holds flags controlling how markup is read.
type markupFlags struct {
	orgMode     string
	escapeHTML  bool
	noNormalize bool
}

// pageFlags holds standalone page flags.
type pageFlags struct {
	standalone bool
	title      string
	css        string
	style      string
	baseURL    string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common  commonFlags
	output  string
	workers int
	markup  markupFlags
	page    pageFlags

	// set reports whether a flag was given on the command line.
	set func(name string) bool
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common commonFlags
	addr   string
}

// configFlags holds flags for the config command.
type configFlags struct {
	common commonFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addMarkupFlags adds markup flags to a FlagSet.
func addMarkupFlags(fs *flag.FlagSet, f *markupFlags) {
	fs.StringVar(&f.orgMode, "org-mode", "", "org mode: auto, on, off")
	fs.BoolVar(&f.escapeHTML, "escape-html", true, "escape HTML in the source text")
	fs.BoolVar(&f.noNormalize, "no-normalize", false, "skip Unicode NFC normalization")
}

// addPageFlags adds standalone page flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.BoolVar(&f.standalone, "standalone", false, "wrap output in a complete HTML document")
	fs.StringVar(&f.title, "title", "", "page title (implies --standalone)")
	fs.StringVar(&f.css, "css", "", "stylesheet to inline (implies --standalone)")
	fs.StringVar(&f.style, "style", "", "built-in style name (implies --standalone)")
	fs.StringVar(&f.baseURL, "base-url", "", "resolve relative links against this URL")
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, usageOut io.Writer) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(usageOut)
	f := &convertFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")

	addCommonFlags(fs, &f.common)
	addMarkupFlags(fs, &f.markup)
	addPageFlags(fs, &f.page)

	fs.Usage = func() { printConvertUsage(usageOut) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	f.set = func(name string) bool { return fs.Changed(name) }
	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags.
func parseServeFlags(args []string, usageOut io.Writer) (*serveFlags, error) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(usageOut)
	f := &serveFlags{}

	fs.StringVar(&f.addr, "addr", "", "listen address (default "+defaultAddrHelp+")")
	addCommonFlags(fs, &f.common)

	fs.Usage = func() { printServeUsage(usageOut) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// parseConfigFlags parses config command flags.
func parseConfigFlags(args []string, usageOut io.Writer) (*configFlags, error) {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(usageOut)
	f := &configFlags{}

	addCommonFlags(fs, &f.common)

	fs.Usage = func() { printConfigUsage(usageOut) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}
