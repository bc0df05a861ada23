package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-kiwimark/internal/assets"
	"github.com/alnah/go-kiwimark/internal/fileutil"
	"github.com/alnah/go-kiwimark/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength  = 4096 // PATH_MAX on Linux
	MaxURLLength   = 2048 // Browser limit
	MaxTitleLength = 200  // <title> text
	MaxAddrLength  = 255  // host:port
	MaxExtensions  = 16
	MaxWorkers     = 64
)

// Default values applied by DefaultConfig.
const (
	DefaultOutputExtension = ".html"
	DefaultAddr            = "127.0.0.1:8080"
	DefaultMaxBodyBytes    = 4 << 20
)

// DefaultInputExtensions are the source extensions picked up by directory discovery.
var DefaultInputExtensions = []string{".kiwi", ".txt", ".md"}

// Config holds all settings for the kiwimark CLI and server.
type Config struct {
	Markup  MarkupConfig `yaml:"markup"`
	Input   InputConfig  `yaml:"input"`
	Output  OutputConfig `yaml:"output"`
	Page    PageConfig   `yaml:"page"`
	Server  ServerConfig `yaml:"server"`
	Workers int          `yaml:"workers"` // 0 = auto
}

// MarkupConfig controls how Kiwi text is interpreted.
type MarkupConfig struct {
	OrgMode       string `yaml:"orgMode"`       // "auto", "on", "off" (empty = auto)
	RawHTML       bool   `yaml:"rawHTML"`       // pass source HTML through unescaped
	SkipNormalize bool   `yaml:"skipNormalize"` // disable NFC normalization
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string   `yaml:"defaultDir"` // Default input directory (empty = must specify)
	Extensions []string `yaml:"extensions"` // Extensions picked up in directory mode
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
	Extension  string `yaml:"extension"`  // Output extension (default: ".html")
}

// PageConfig controls standalone page output.
type PageConfig struct {
	Standalone bool   `yaml:"standalone"` // wrap fragments in a full HTML document
	Title      string `yaml:"title"`      // empty = first header, then "Document"
	CSSFile    string `yaml:"cssFile"`    // stylesheet inlined into <head>
	Style      string `yaml:"style"`      // built-in or styleDir style name
	StyleDir   string `yaml:"styleDir"`   // directory holding styles/{name}.css
	BaseURL    string `yaml:"baseURL"`    // resolve relative links against this URL
}

// ServerConfig defines options for `kiwimark serve`.
type ServerConfig struct {
	Addr         string `yaml:"addr"`
	MaxBodyBytes int64  `yaml:"maxBodyBytes"`
}

// Validate checks field values and lengths.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Markup.OrgMode)) {
	case "", "auto", "on", "off", "true", "false":
	default:
		return fmt.Errorf("%w: markup.orgMode %q (must be auto, on, or off)", ErrInvalidValue, c.Markup.OrgMode)
	}

	if err := validateFieldLength("input.defaultDir", c.Input.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if len(c.Input.Extensions) > MaxExtensions {
		return fmt.Errorf("%w: input.extensions has %d entries (max %d)", ErrInvalidValue, len(c.Input.Extensions), MaxExtensions)
	}
	for i, ext := range c.Input.Extensions {
		if err := fileutil.ValidateExtension(ext); err != nil {
			return fmt.Errorf("input.extensions[%d]: %w", i, err)
		}
	}

	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if c.Output.Extension != "" {
		if err := fileutil.ValidateExtension(c.Output.Extension); err != nil {
			return fmt.Errorf("output.extension: %w", err)
		}
	}

	if err := validateFieldLength("page.title", c.Page.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.cssFile", c.Page.CSSFile, MaxPathLength); err != nil {
		return err
	}
	if c.Page.Style != "" {
		if err := assets.ValidateAssetName(c.Page.Style); err != nil {
			return fmt.Errorf("%w: page.style: %v", ErrInvalidValue, err)
		}
	}
	if err := validateFieldLength("page.styleDir", c.Page.StyleDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.baseURL", c.Page.BaseURL, MaxURLLength); err != nil {
		return err
	}

	if err := validateFieldLength("server.addr", c.Server.Addr, MaxAddrLength); err != nil {
		return err
	}
	if c.Server.MaxBodyBytes < 0 {
		return fmt.Errorf("%w: server.maxBodyBytes must not be negative, got %d", ErrInvalidValue, c.Server.MaxBodyBytes)
	}

	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Workers)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// InputExtensions returns the configured discovery extensions, or the defaults.
func (c *Config) InputExtensions() []string {
	if len(c.Input.Extensions) == 0 {
		return DefaultInputExtensions
	}
	return c.Input.Extensions
}

// OutputExtension returns the configured output extension, or ".html".
func (c *Config) OutputExtension() string {
	if c.Output.Extension == "" {
		return DefaultOutputExtension
	}
	return fileutil.NormalizeExtension(c.Output.Extension)
}

// ApplyDefaults fills fields left empty with their default values.
// LoadConfig does not call it, so callers can layer environment
// overrides onto unset fields first.
func (c *Config) ApplyDefaults() {
	if c.Markup.OrgMode == "" {
		c.Markup.OrgMode = "auto"
	}
	if len(c.Input.Extensions) == 0 {
		c.Input.Extensions = append([]string(nil), DefaultInputExtensions...)
	}
	if c.Output.Extension == "" {
		c.Output.Extension = DefaultOutputExtension
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.Decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConfigParse, yamlutil.FormatError(err))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SearchPaths lists the files LoadConfig tries for a config name, in order:
// the current directory, then the user config directory, each with
// .yaml before .yml.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, "kiwimark", name+ext))
		}
	}

	return paths
}

// resolveConfigPath returns the first existing entry of SearchPaths.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}

// Marshal renders cfg as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yamlutil.Encode(c)
}
