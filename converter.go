package kiwimark

import (
	"fmt"

	"github.com/alnah/go-kiwimark/internal/pipeline"
)

// Converter runs the Kiwi-to-HTML pipeline.
// Create with NewConverter; a Converter is immutable and safe for
// concurrent use.
type Converter struct {
	cfg converterConfig

	// Pipeline stages, replaceable in tests.
	segment func(lines []string, orgMode bool) *pipeline.Document
	render  func(doc *pipeline.Document, escape bool) string
}

// NewConverter creates a Converter with default configuration: org mode
// detected from line 1, HTML escaping on, NFC normalization on.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		cfg:     defaultConfig(),
		segment: pipeline.Segment,
		render:  pipeline.Render,
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert runs the full pipeline on input.
// Empty input produces empty HTML and no error.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if !input.OrgMode.valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOrgMode, input.OrgMode)
	}

	lines := input.Lines
	if lines == nil {
		lines = pipeline.SplitLines(input.Text)
	}
	lines = pipeline.PrepareLines(lines, c.cfg.normalize)

	orgMode := c.resolveOrgMode(input.OrgMode, lines)
	doc := c.segment(lines, orgMode)
	htmlContent := c.render(doc, c.cfg.escapeHTML)

	if input.BaseURL != "" {
		htmlContent, err = pipeline.RebaseLinks(htmlContent, input.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("rebasing links: %w", err)
		}
	}

	title := firstHeader(doc)
	if input.Page != nil {
		pageTitle := input.Page.Title
		if pageTitle == "" {
			pageTitle = title
		}
		htmlContent = pipeline.WrapPage(htmlContent, pipeline.PageOptions{
			Title: pageTitle,
			CSS:   input.Page.CSS,
		})
	}

	res := &ConvertResult{
		HTML:    htmlContent,
		Title:   title,
		OrgMode: orgMode,
	}
	for _, w := range doc.Warnings {
		res.Warnings = append(res.Warnings, w)
	}
	return res, nil
}

func firstHeader(doc *pipeline.Document) string {
	for _, b := range doc.Blocks {
		if h, ok := b.(*pipeline.Header); ok {
			return h.Text
		}
	}
	return ""
}

// resolveOrgMode applies the per-call override, then the converter
// setting. Auto looks for the marker on the first prepared line.
func (c *Converter) resolveOrgMode(override OrgMode, lines []string) bool {
	mode := c.cfg.orgMode
	if override != OrgModeUnset {
		mode = override
	}

	switch mode {
	case OrgModeOn:
		return true
	case OrgModeOff:
		return false
	default:
		return pipeline.DetectOrgMode(lines)
	}
}

// defaultConverter backs ToHTML.
var defaultConverter = NewConverter()

// ToHTML converts lines to an HTML fragment with default options.
func ToHTML(lines []string) string {
	res, err := defaultConverter.Convert(Input{Lines: lines})
	if err != nil {
		return ""
	}
	return res.HTML
}

// ValidateBaseURL checks a base URL for Input.BaseURL before converting.
// Errors wrap ErrInvalidBaseURL.
func ValidateBaseURL(baseURL string) error {
	return pipeline.ValidateBaseURL(baseURL)
}

// SplitLines splits text into lines for Input.Lines or ToHTML. \r\n and \r
// count as line breaks and a single trailing newline is ignored.
func SplitLines(text string) []string {
	return pipeline.SplitLines(text)
}
