package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-kiwimark/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // KIWIMARK_CONFIG: config file name or path
	OrgMode    string // KIWIMARK_ORG_MODE: auto, on, off
	InputDir   string // KIWIMARK_INPUT_DIR: default input directory
	OutputDir  string // KIWIMARK_OUTPUT_DIR: default output directory
	BaseURL    string // KIWIMARK_BASE_URL: link rebasing base
	Addr       string // KIWIMARK_ADDR: serve listen address
	Workers    int    // KIWIMARK_WORKERS: parallel workers
}

// knownEnvVars lists valid KIWIMARK_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"KIWIMARK_CONFIG":     true,
	"KIWIMARK_ORG_MODE":   true,
	"KIWIMARK_INPUT_DIR":  true,
	"KIWIMARK_OUTPUT_DIR": true,
	"KIWIMARK_BASE_URL":   true,
	"KIWIMARK_ADDR":       true,
	"KIWIMARK_WORKERS":    true,
	"KIWIMARK_CONTAINER":  true, // doctor: force container detection
}

// loadEnvConfig reads configuration from environment variables.
// Returns a struct with all recognized KIWIMARK_* values.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("KIWIMARK_CONFIG"),
		OrgMode:    os.Getenv("KIWIMARK_ORG_MODE"),
		InputDir:   os.Getenv("KIWIMARK_INPUT_DIR"),
		OutputDir:  os.Getenv("KIWIMARK_OUTPUT_DIR"),
		BaseURL:    os.Getenv("KIWIMARK_BASE_URL"),
		Addr:       os.Getenv("KIWIMARK_ADDR"),
	}

	// Malformed or non-positive values are ignored
	if workers := os.Getenv("KIWIMARK_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized KIWIMARK_* variables.
// Helps catch typos like KIWIMARK_ORGMODE instead of KIWIMARK_ORG_MODE.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "KIWIMARK_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty/zero.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags, defaults via ApplyDefaults)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.OrgMode != "" && cfg.Markup.OrgMode == "" {
		cfg.Markup.OrgMode = env.OrgMode
	}

	if env.InputDir != "" && cfg.Input.DefaultDir == "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}

	if env.BaseURL != "" && cfg.Page.BaseURL == "" {
		cfg.Page.BaseURL = env.BaseURL
	}

	if env.Addr != "" && cfg.Server.Addr == "" {
		cfg.Server.Addr = env.Addr
	}

	if env.Workers > 0 && cfg.Workers == 0 {
		cfg.Workers = env.Workers
	}
}
