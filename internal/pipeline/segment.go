package pipeline

import (
	"regexp"
	"strings"
)

// Precompiled line patterns.
var (
	// code: or code:lang on a line of its own
	codeStartPattern = regexp.MustCompile(`^\s*code:(\S*)\s*$`)

	// :code on a line of its own
	codeEndPattern = regexp.MustCompile(`^\s*:code\s*$`)

	// Org headlines start at column 0 with one to six asterisks.
	orgHeadlinePattern = regexp.MustCompile(`^(\*{1,6})\s+(.*)$`)

	// [^label]: text
	footnoteDefPattern = regexp.MustCompile(`^ {0,3}\[\^([^\]\s]+)\]:\s*(.*)$`)

	// Underlines for level 1 and level 2 headers.
	underlineH1Pattern = regexp.MustCompile(`^ {0,3}={5,}$`)
	underlineH2Pattern = regexp.MustCompile(`^ {0,3}-{5,}$`)
)

// preIndent is the indentation that turns a line into preformatted text.
const preIndent = 4

// maxHeaderLevel bounds '#' and org headline runs.
const maxHeaderLevel = 6

// state is the kind of block the segmenter is accumulating.
type state int

const (
	stateNone state = iota
	stateParagraph
	stateList
	stateTable
	statePre
	stateCode
)

// lineKind classifies a line that is not absorbed by an open block.
type lineKind int

const (
	kindBlank lineKind = iota
	kindCodeStart
	kindHeader
	kindOrgHeadline
	kindPre
	kindFootnote
	kindListItem
	kindTable
	kindRule
	kindText
)

// Segment splits prepared lines into a Document in a single forward pass
// with one line of lookahead. orgMode switches column-0 asterisk lines to
// headlines and disables bold.
func Segment(lines []string, orgMode bool) *Document {
	s := &segmenter{
		lines: lines,
		doc: &Document{
			Footnotes: FootnoteTable{},
			OrgMode:   orgMode,
		},
	}
	s.run()
	return s.doc
}

type segmenter struct {
	lines []string
	pos   int
	state state
	doc   *Document

	para      []string
	items     []listLine
	table     []string
	pre       []string
	code      *Code
	codeStart int // 1-based line of the open code fence
}

func (s *segmenter) run() {
	for s.pos < len(s.lines) {
		line := s.lines[s.pos]
		if s.continueBlock(line) {
			s.pos++
			continue
		}
		s.classify(line)
	}

	if s.state == stateCode {
		s.doc.Warnings = append(s.doc.Warnings, Warning{Line: s.codeStart, Err: ErrUnterminatedCodeBlock})
	}
	s.flush()
}

// continueBlock feeds line to the open list, table, pre or code block.
// It returns false when the line does not belong to it; the block is then
// flushed and the line classified afresh.
func (s *segmenter) continueBlock(line string) bool {
	switch s.state {
	case stateCode:
		if codeEndPattern.MatchString(line) {
			s.flush()
			return true
		}
		s.code.Lines = append(s.code.Lines, line)
		return true

	case stateList:
		if isBlank(line) {
			// A blank line only separates items of the same list.
			if _, ok := s.listItem(s.nextNonBlank()); !ok {
				s.flush()
			}
			return true
		}
		if item, ok := s.listItem(line); ok {
			s.items = append(s.items, item)
			return true
		}
		if last := &s.items[len(s.items)-1]; indentOf(line) > last.indent {
			last.text += " " + strings.TrimSpace(line)
			return true
		}

	case stateTable:
		if !isBlank(line) && (strings.Contains(line, "|") || isDivider(line)) {
			s.table = append(s.table, line)
			return true
		}

	case statePre:
		if indentOf(line) >= preIndent {
			s.pre = append(s.pre, line[preIndent:])
			return true
		}
		if isBlank(line) && indentOf(s.nextNonBlank()) >= preIndent {
			s.pre = append(s.pre, "")
			return true
		}
	}

	if s.state != stateParagraph {
		s.flush()
	}
	return false
}

// classify handles a line outside any list, table, pre or code block and
// advances the cursor past every line it consumes.
func (s *segmenter) classify(line string) {
	next := s.peek()
	kind := s.kindOf(line, next)

	if kind == kindText {
		if level := underlineLevel(next); level > 0 {
			s.flush()
			s.emit(&Header{Level: level, Text: strings.TrimSpace(line)})
			s.pos += 2
			return
		}
		if s.state != stateParagraph {
			s.flush()
			s.state = stateParagraph
		}
		s.para = append(s.para, strings.TrimLeft(line, " "))
		s.pos++
		return
	}

	s.flush()
	s.pos++

	switch kind {
	case kindCodeStart:
		m := codeStartPattern.FindStringSubmatch(line)
		s.code = &Code{Lang: m[1]}
		s.codeStart = s.pos
		s.state = stateCode

	case kindHeader:
		level, text, _ := parseHeader(line)
		s.emit(&Header{Level: level, Text: text})

	case kindOrgHeadline:
		m := orgHeadlinePattern.FindStringSubmatch(line)
		s.emit(&Header{Level: len(m[1]), Text: m[2]})

	case kindPre:
		s.pre = []string{line[preIndent:]}
		s.state = statePre

	case kindFootnote:
		m := footnoteDefPattern.FindStringSubmatch(line)
		s.doc.Footnotes[m[1]] = m[2]
		s.emit(&Footnote{Label: m[1], Text: m[2]})

	case kindListItem:
		item, _ := s.listItem(line)
		s.items = []listLine{item}
		s.state = stateList

	case kindTable:
		s.table = []string{line}
		s.state = stateTable

	case kindRule:
		s.emit(&Rule{})
	}
}

// kindOf classifies line in priority order. Underline headers are decided
// by the caller because they consume the lookahead line.
func (s *segmenter) kindOf(line, next string) lineKind {
	switch {
	case isBlank(line):
		return kindBlank
	case codeStartPattern.MatchString(line):
		return kindCodeStart
	case isHeader(line):
		return kindHeader
	case s.doc.OrgMode && orgHeadlinePattern.MatchString(line):
		return kindOrgHeadline
	case indentOf(line) >= preIndent:
		return kindPre
	case footnoteDefPattern.MatchString(line):
		return kindFootnote
	case s.isListItem(line):
		return kindListItem
	case strings.Count(line, "|") >= 2 || isDivider(line) || isDivider(next):
		return kindTable
	case underlineH2Pattern.MatchString(line):
		return kindRule
	default:
		return kindText
	}
}

// listItem parses line as a list item. In org mode column-0 asterisks are
// headlines, not items.
func (s *segmenter) listItem(line string) (listLine, bool) {
	if s.doc.OrgMode && orgHeadlinePattern.MatchString(line) {
		return listLine{}, false
	}
	return parseListItem(line)
}

func (s *segmenter) isListItem(line string) bool {
	_, ok := s.listItem(line)
	return ok
}

// flush closes the open block, if any, and appends it to the document.
func (s *segmenter) flush() {
	switch s.state {
	case stateParagraph:
		s.emit(&Paragraph{Lines: s.para})
	case stateList:
		s.emit(buildList(s.items))
	case stateTable:
		// A run of dividers alone has no cells to show.
		if t := parseTable(s.table); len(t.Head) > 0 || len(t.Rows) > 0 {
			s.emit(t)
		} else {
			s.emit(&Paragraph{Lines: s.table})
		}
	case statePre:
		s.emit(&Pre{Lines: s.pre})
	case stateCode:
		s.emit(s.code)
	}

	s.state = stateNone
	s.para, s.items, s.table, s.pre, s.code = nil, nil, nil, nil, nil
}

func (s *segmenter) emit(b Block) {
	s.doc.Blocks = append(s.doc.Blocks, b)
}

// peek returns the line after the cursor, or "" at the end of input.
func (s *segmenter) peek() string {
	if s.pos+1 < len(s.lines) {
		return s.lines[s.pos+1]
	}
	return ""
}

// nextNonBlank returns the first non-blank line after the cursor, or "".
func (s *segmenter) nextNonBlank() string {
	for i := s.pos + 1; i < len(s.lines); i++ {
		if !isBlank(s.lines[i]) {
			return s.lines[i]
		}
	}
	return ""
}

// parseHeader parses a '#' header: up to three leading spaces, a run of one
// to six '#', then the text. A closing run of '#' is dropped. Seven or more
// '#' is not a header.
func parseHeader(line string) (level int, text string, ok bool) {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return 0, "", false
	}

	n := 0
	for n < len(trimmed) && trimmed[n] == '#' {
		n++
	}
	if n == 0 || n > maxHeaderLevel {
		return 0, "", false
	}

	text = strings.TrimSpace(trimmed[n:])
	if closed := strings.TrimRight(text, "#"); closed != text && (closed == "" || strings.HasSuffix(closed, " ")) {
		text = strings.TrimSpace(closed)
	}
	return n, text, true
}

func isHeader(line string) bool {
	_, _, ok := parseHeader(line)
	return ok
}

// underlineLevel returns 1 for a '=' underline, 2 for a '-' underline and
// 0 otherwise.
func underlineLevel(line string) int {
	switch {
	case underlineH1Pattern.MatchString(line):
		return 1
	case underlineH2Pattern.MatchString(line):
		return 2
	default:
		return 0
	}
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// indentOf counts leading spaces. Tabs are expanded before segmentation.
func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " "))
}
