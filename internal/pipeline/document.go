package pipeline

import (
	"errors"
	"fmt"
)

// ErrUnterminatedCodeBlock is recorded as a warning when a code: fence has
// no matching :code line. The remainder of the input becomes the block.
var ErrUnterminatedCodeBlock = errors.New("unterminated code block")

// Document is the block sequence produced by one segmentation pass.
type Document struct {
	Blocks    []Block
	Footnotes FootnoteTable
	OrgMode   bool
	Warnings  []Warning
}

// Warning reports a recoverable problem found while segmenting.
// Line is 1-based.
type Warning struct {
	Line int
	Err  error
}

func (w Warning) Error() string {
	return fmt.Sprintf("line %d: %v", w.Line, w.Err)
}

func (w Warning) Unwrap() error {
	return w.Err
}

// FootnoteTable maps a footnote label to its definition text.
type FootnoteTable map[string]string

// Has reports whether label has a definition.
func (t FootnoteTable) Has(label string) bool {
	_, ok := t[label]
	return ok
}

// Block is one top-level structural unit of a Document.
// The set of implementations is closed.
type Block interface {
	block()
}

// Header is a heading of level 1 to 6.
type Header struct {
	Level int
	Text  string
}

// Paragraph holds consecutive ordinary lines.
type Paragraph struct {
	Lines []string
}

// List is an unordered list. Children are owned by their parent item.
type List struct {
	Items []*ListItem
}

// ListItem is one entry of a List. Children is nil when the item has no
// nested list.
type ListItem struct {
	Text     string
	Children *List
}

// Row is the cell text of one table row.
type Row []string

// Dialect identifies the junction character of a table divider line.
type Dialect int

const (
	DialectNone Dialect = iota // no divider
	DialectPipe                // ---|---
	DialectPlus                // ---+---
)

func (d Dialect) String() string {
	switch d {
	case DialectPipe:
		return "pipe"
	case DialectPlus:
		return "plus"
	default:
		return "none"
	}
}

// Table holds header rows (those before the divider) and data rows.
type Table struct {
	Head    []Row
	Rows    []Row
	Dialect Dialect
}

// Pre is an indented preformatted block with the indentation removed.
type Pre struct {
	Lines []string
}

// Code is a fenced code: ... :code block.
type Code struct {
	Lang  string
	Lines []string
}

// Rule is a horizontal rule.
type Rule struct{}

// Footnote is the in-place entry that footnote references link to.
type Footnote struct {
	Label string
	Text  string
}

func (*Header) block()    {}
func (*Paragraph) block() {}
func (*List) block()      {}
func (*Table) block()     {}
func (*Pre) block()       {}
func (*Code) block()      {}
func (*Rule) block()      {}
func (*Footnote) block()  {}
