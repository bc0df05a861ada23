package kiwimark

import (
	"fmt"
	"strings"
)

// OrgMode selects org-mode compatibility.
type OrgMode int

const (
	// OrgModeUnset defers to the converter's setting. It is the zero value
	// of Input.OrgMode.
	OrgModeUnset OrgMode = iota
	// OrgModeAuto enables org mode when line 1 carries the org marker.
	OrgModeAuto
	// OrgModeOn always enables org mode.
	OrgModeOn
	// OrgModeOff never enables org mode.
	OrgModeOff
)

func (m OrgMode) String() string {
	switch m {
	case OrgModeUnset:
		return "unset"
	case OrgModeAuto:
		return "auto"
	case OrgModeOn:
		return "on"
	case OrgModeOff:
		return "off"
	default:
		return fmt.Sprintf("OrgMode(%d)", int(m))
	}
}

// ParseOrgMode parses "auto", "on" or "off" (case-insensitive). An empty
// string is OrgModeUnset.
func ParseOrgMode(s string) (OrgMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return OrgModeUnset, nil
	case "auto":
		return OrgModeAuto, nil
	case "on", "true":
		return OrgModeOn, nil
	case "off", "false":
		return OrgModeOff, nil
	}
	return OrgModeUnset, fmt.Errorf("%w: %q (must be auto, on or off)", ErrInvalidOrgMode, s)
}

func (m OrgMode) valid() bool {
	return m >= OrgModeUnset && m <= OrgModeOff
}

// Input contains the markup for one conversion.
type Input struct {
	Text    string   // raw markup, used when Lines is nil
	Lines   []string // markup already split into lines (optional)
	OrgMode OrgMode  // per-call override (optional, zero = converter setting)
	BaseURL string   // base for relative src/href values (optional)
	Page    *Page    // wrap the result in a standalone HTML page (optional)
}

// Page configures standalone page output.
type Page struct {
	Title string // <title>, defaults to the first header, then "Document"
	CSS   string // injected as a <style> block
}

// ConvertResult contains the output of a conversion.
type ConvertResult struct {
	HTML     string
	Title    string  // source text of the first header, empty if none
	OrgMode  bool    // whether org mode was in effect
	Warnings []error // recoverable problems, each wrapping a sentinel error
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	orgMode    OrgMode
	escapeHTML bool
	normalize  bool
}

func defaultConfig() converterConfig {
	return converterConfig{
		orgMode:    OrgModeAuto,
		escapeHTML: true,
		normalize:  true,
	}
}

// WithOrgMode sets the default org-mode behavior. OrgModeUnset restores
// the default, OrgModeAuto.
// Panics if m is not a defined OrgMode (programmer error).
func WithOrgMode(m OrgMode) Option {
	if !m.valid() {
		panic("kiwimark: WithOrgMode called with an undefined OrgMode")
	}
	return func(c *Converter) {
		if m == OrgModeUnset {
			m = OrgModeAuto
		}
		c.cfg.orgMode = m
	}
}

// WithEscapeHTML controls whether text is HTML-escaped before spans are
// applied. Disabling it lets raw HTML in the markup pass through.
// Preformatted and code blocks are always escaped.
func WithEscapeHTML(escape bool) Option {
	return func(c *Converter) {
		c.cfg.escapeHTML = escape
	}
}

// WithNormalization controls Unicode NFC normalization of input lines.
func WithNormalization(normalize bool) Option {
	return func(c *Converter) {
		c.cfg.normalize = normalize
	}
}
