package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-kiwimark"
	"github.com/alnah/go-kiwimark/internal/assets"
	"github.com/alnah/go-kiwimark/internal/config"
	"github.com/alnah/go-kiwimark/internal/hints"
)

// stdinPath selects stdin as input and stdout as output.
const stdinPath = "-"

// runConvertCmd parses flags and runs the convert command.
func runConvertCmd(args []string, env *Environment) int {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		// pflag has already printed the error and usage
		return ExitUsage
	}

	warnUnknownEnvVars(env.Stderr)

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runConvert(ctx, positional, flags, env); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	// Validate worker count early
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config, loadEnvConfig())
	if err != nil {
		return err
	}

	// Merge CLI flags into config (CLI wins), then fill the rest
	mergeFlags(flags, cfg)
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	env.Config = cfg

	conv, err := buildConverter(cfg)
	if err != nil {
		return err
	}

	params, err := buildParams(cfg)
	if err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}

	if inputPath == stdinPath {
		return convertStream(conv, params, env)
	}

	outputDir := resolveOutputDir(flags.output, cfg)

	files, err := discoverFiles(inputPath, outputDir, cfg.InputExtensions(), cfg.OutputExtension())
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}

	if len(files) == 0 {
		return fmt.Errorf("%w in %s%s", ErrNoFiles, inputPath, hints.ForExtensions(cfg.InputExtensions()))
	}

	workers := resolveWorkers(cfg.Workers)
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Workers: %d\n", workers)
	}

	start := env.Now()
	results := convertBatch(ctx, conv, workers, files, params)

	failedCount := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Total: %v\n", env.Now().Sub(start).Round(time.Millisecond))
	}
	if failedCount > 0 {
		return fmt.Errorf("%w: %d of %d file(s)", ErrConversionFailed, failedCount, len(results))
	}

	return nil
}

// loadConfig resolves the config file from the flag, then KIWIMARK_CONFIG,
// and layers environment values onto fields the file left unset.
// Defaults are not applied here.
func loadConfig(flagConfig string, envCfg *envConfig) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg := &config.Config{}
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
			}
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	if flags.workers > 0 {
		cfg.Workers = flags.workers
	}

	// Markup
	if flags.markup.orgMode != "" {
		cfg.Markup.OrgMode = flags.markup.orgMode
	}
	if flags.set != nil && flags.set("escape-html") {
		cfg.Markup.RawHTML = !flags.markup.escapeHTML
	}
	if flags.markup.noNormalize {
		cfg.Markup.SkipNormalize = true
	}

	// Page: a title or stylesheet only makes sense on a full document
	if flags.page.standalone {
		cfg.Page.Standalone = true
	}
	if flags.page.title != "" {
		cfg.Page.Title = flags.page.title
		cfg.Page.Standalone = true
	}
	if flags.page.css != "" {
		cfg.Page.CSSFile = flags.page.css
		cfg.Page.Standalone = true
	}
	if flags.page.style != "" {
		cfg.Page.Style = flags.page.style
		cfg.Page.Standalone = true
	}
	if flags.page.baseURL != "" {
		cfg.Page.BaseURL = flags.page.baseURL
	}
}

// buildConverter creates a converter from the markup settings.
func buildConverter(cfg *config.Config) (*kiwimark.Converter, error) {
	mode, err := kiwimark.ParseOrgMode(cfg.Markup.OrgMode)
	if err != nil {
		return nil, fmt.Errorf("%w%s", err, hints.ForOrgMode())
	}

	return kiwimark.NewConverter(
		kiwimark.WithOrgMode(mode),
		kiwimark.WithEscapeHTML(!cfg.Markup.RawHTML),
		kiwimark.WithNormalization(!cfg.Markup.SkipNormalize),
	), nil
}

// buildParams checks the base URL and reads the stylesheet once for the
// whole batch.
func buildParams(cfg *config.Config) (*conversionParams, error) {
	if err := kiwimark.ValidateBaseURL(cfg.Page.BaseURL); err != nil {
		return nil, fmt.Errorf("%w%s", err, hints.ForBaseURL())
	}

	params := &conversionParams{baseURL: cfg.Page.BaseURL}
	if !cfg.Page.Standalone {
		return params, nil
	}

	css, err := resolveCSSContent(cfg.Page)
	if err != nil {
		return nil, err
	}
	params.page = &kiwimark.Page{Title: cfg.Page.Title, CSS: css}
	return params, nil
}

// resolveCSSContent builds the page stylesheet: the named style, if any,
// followed by the CSS file so its rules win.
func resolveCSSContent(page config.PageConfig) (string, error) {
	var parts []string

	if page.Style != "" {
		resolver, err := assets.NewStyleResolver(page.StyleDir)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrReadCSS, err)
		}
		defer func() { _ = resolver.Close() }()

		css, err := resolver.LoadStyle(page.Style)
		if err != nil {
			names, _ := resolver.Names()
			return "", fmt.Errorf("%w: %v%s", ErrReadCSS, err, hints.ForStyle(names))
		}
		parts = append(parts, css)
	}

	if page.CSSFile != "" {
		content, err := os.ReadFile(page.CSSFile) // #nosec G304 -- user-provided path
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrReadCSS, err)
		}
		parts = append(parts, string(content))
	}

	return strings.Join(parts, "\n"), nil
}

// resolveInputPath determines the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir determines the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// convertStream converts stdin to stdout.
func convertStream(conv DocConverter, params *conversionParams, env *Environment) error {
	content, err := io.ReadAll(env.Stdin)
	if err != nil {
		return fmt.Errorf("%w: stdin: %v", ErrReadInput, err)
	}

	result, err := conv.Convert(params.input(string(content)))
	if err != nil {
		return err
	}
	printWarnings(env, "stdin", result.Warnings)

	if _, err := io.WriteString(env.Stdout, result.HTML); err != nil {
		return fmt.Errorf("%w: stdout: %v", ErrWriteOutput, err)
	}
	return nil
}
