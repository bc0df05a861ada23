package pipeline

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// closingPunctuation may directly follow a closing bold or emphasis marker.
const closingPunctuation = ",.;)(?:"

// audioFallback is shown by browsers without audio support.
const audioFallback = "Your browser does not support audio playback."

// extendedKinds are the keywords of [kind.class:alt](path) spans.
var extendedKinds = [...]string{"img", "audio", "link"}

// spanner applies inline span markup to already escaped text.
type spanner struct {
	footnotes map[string]bool
	orgMode   bool
}

// newSpanner builds a spanner for one document. Footnote labels are keyed
// the way they appear in the text the spanner will see, so escaped text is
// matched against escaped labels.
func newSpanner(footnotes FootnoteTable, orgMode, escaped bool) *spanner {
	labels := make(map[string]bool, len(footnotes))
	for label := range footnotes {
		if escaped {
			label = escapeHTML(label)
		}
		labels[label] = true
	}
	return &spanner{footnotes: labels, orgMode: orgMode}
}

// transform returns text with all spans rendered. Spans never overlap and
// are matched leftmost first.
func (s *spanner) transform(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	s.writeSpans(&b, newSpanIndex(text))
	return b.String()
}

func (s *spanner) writeSpans(b *strings.Builder, x *spanIndex) {
	text := x.text
	last := 0
	for i := 0; i < len(text); {
		n, html := s.matchAt(x, i)
		if n == 0 {
			i++
			continue
		}
		b.WriteString(text[last:i])
		b.WriteString(html)
		i += n
		last = i
	}
	b.WriteString(text[last:])
}

// matchAt tries every span at position i and returns the number of bytes
// consumed and the replacement, or 0 when nothing matches.
func (s *spanner) matchAt(x *spanIndex, i int) (int, string) {
	switch x.text[i] {
	case '!', '[':
		return s.renderBracket(x, i)
	case '*':
		if s.orgMode {
			return 0, ""
		}
		return s.matchDelimited(x, i, "**", "<b>", "</b>")
	case '_':
		return s.matchDelimited(x, i, "_", "<i>", "</i>")
	}
	return 0, ""
}

func (s *spanner) renderBracket(x *spanIndex, i int) (int, string) {
	m := x.bracketAt(i)
	switch m.kind {
	case spanImage, spanImg:
		return m.n, imageTag(m.target, m.class, m.text)
	case spanAudio:
		return m.n, audioTag(m.target, m.class, m.text)
	case spanExtLink:
		body := m.text
		if body == "" {
			body = m.target
		}
		return m.n, anchorTag(m.target, m.class, s.transform(body))
	case spanOrgLink, spanLink:
		return m.n, anchorTag(m.target, "", s.transform(m.text))
	case spanFootnote:
		if !s.footnotes[m.text] {
			// Undefined references stay literal.
			return m.n, x.text[i : i+m.n]
		}
		return m.n, footnoteRef(m.text)
	}
	return 0, ""
}

// matchDelimited matches a bold or emphasis span opened by marker at i.
// The closer search steps over link and image spans so a span never ends
// inside one.
func (s *spanner) matchDelimited(x *spanIndex, i int, marker, open, close string) (int, string) {
	text := x.text
	m := len(marker)
	if !strings.HasPrefix(text[i:], marker) || !isOpener(text, i, m, marker[0]) {
		return 0, ""
	}

	// isOpener rules out a marker at i+m, so any closer found is past it.
	j := x.closerFrom(i+m, marker)
	if j < 0 {
		return 0, ""
	}
	inner := s.transform(text[i+m : j])
	return j + m - i, open + inner + close
}

type spanKind int

const (
	spanNone     spanKind = iota
	spanImage             // ![alt](path)
	spanImg               // [img.class:alt](path)
	spanAudio             // [audio.class:alt](path)
	spanExtLink           // [link.class:text](url)
	spanOrgLink           // [[url][title]]
	spanFootnote          // [^label]
	spanLink              // [title](url)
)

// bracketSpan is a span starting with '!' or '['. A zero n means no match.
type bracketSpan struct {
	kind   spanKind
	n      int
	class  string
	text   string
	target string
}

// spanIndex answers span lookups over one text in constant or logarithmic
// time. Offsets of the bytes that end bracket spans are collected in a
// single pass, and span lengths and closer positions are memoized, so a
// full scan stays linear however many openers fail to match.
type spanIndex struct {
	text string

	built    bool
	brackets []int // ']'
	parens   []int // ')'
	colons   []int // ':'
	spaces   []int // bytes matched by \s

	spanLens []int          // n+1 per offset, 0 when unresolved
	closers  map[byte][]int // closer+2 per chain offset, 1 for none, 0 when unresolved
}

func newSpanIndex(text string) *spanIndex {
	return &spanIndex{text: text}
}

func (x *spanIndex) build() {
	if x.built {
		return
	}
	x.built = true
	for i := 0; i < len(x.text); i++ {
		switch x.text[i] {
		case ']':
			x.brackets = append(x.brackets, i)
		case ')':
			x.parens = append(x.parens, i)
		case ':':
			x.colons = append(x.colons, i)
		case ' ', '\t', '\n', '\f', '\r':
			x.spaces = append(x.spaces, i)
		}
	}
	x.spanLens = make([]int, len(x.text))
	x.closers = make(map[byte][]int, 2)
}

// nextOffset returns the first offset in offsets at or after from, or -1.
func nextOffset(offsets []int, from int) int {
	k, _ := slices.BinarySearch(offsets, from)
	if k == len(offsets) {
		return -1
	}
	return offsets[k]
}

func (x *spanIndex) hasByte(i int, c byte) bool {
	return i < len(x.text) && x.text[i] == c
}

// bracketAt parses the bracket span at i, trying the forms in precedence
// order.
func (x *spanIndex) bracketAt(i int) bracketSpan {
	text := x.text
	if text[i] != '!' && text[i] != '[' {
		return bracketSpan{}
	}
	x.build()

	if text[i] == '!' {
		if !x.hasByte(i+1, '[') {
			return bracketSpan{}
		}
		c, p, ok := x.labelTarget(i + 2)
		if !ok {
			return bracketSpan{}
		}
		return bracketSpan{kind: spanImage, n: p + 1 - i, text: text[i+2 : c], target: text[c+2 : p]}
	}

	if m := x.extended(i); m.n > 0 {
		return m
	}
	if m := x.orgLink(i); m.n > 0 {
		return m
	}
	if m := x.footnoteRef(i); m.n > 0 {
		return m
	}

	c, p, ok := x.labelTarget(i + 1)
	if !ok {
		return bracketSpan{}
	}
	return bracketSpan{kind: spanLink, n: p + 1 - i, text: text[i+1 : c], target: text[c+2 : p]}
}

// labelTarget matches "label](target)" from offset from and returns the
// offsets of the closing bracket and parenthesis.
func (x *spanIndex) labelTarget(from int) (c, p int, ok bool) {
	c = nextOffset(x.brackets, from)
	if c < 0 || !x.hasByte(c+1, '(') {
		return 0, 0, false
	}
	p = nextOffset(x.parens, c+2)
	return c, p, p >= 0
}

// extended matches [img...](path), [audio...](path) and [link...](url).
// A bare [img](path) is an image; bare [audio](x) and [link](x) are plain
// links titled by the keyword.
func (x *spanIndex) extended(i int) bracketSpan {
	text := x.text
	for _, kw := range extendedKinds {
		if !strings.HasPrefix(text[i+1:], kw) {
			continue
		}
		k := i + 1 + len(kw)
		c, p, ok := x.labelTarget(k)
		if !ok {
			return bracketSpan{}
		}

		var class, alt string
		switch {
		case c == k:
			if kw != "img" {
				return bracketSpan{}
			}
		case text[k] == '.':
			class = text[k+1 : c]
			if colon := nextOffset(x.colons, k+1); colon >= 0 && colon < c {
				class, alt = text[k+1:colon], text[colon+1:c]
			}
		case text[k] == ':':
			alt = text[k+1 : c]
		default:
			return bracketSpan{}
		}

		kind := spanImg
		switch kw {
		case "audio":
			kind = spanAudio
		case "link":
			kind = spanExtLink
		}
		return bracketSpan{kind: kind, n: p + 1 - i, class: class, text: alt, target: text[c+2 : p]}
	}
	return bracketSpan{}
}

// orgLink matches [[url][title]].
func (x *spanIndex) orgLink(i int) bracketSpan {
	if !x.hasByte(i+1, '[') {
		return bracketSpan{}
	}
	c1 := nextOffset(x.brackets, i+2)
	if c1 < 0 || !x.hasByte(c1+1, '[') {
		return bracketSpan{}
	}
	c2 := nextOffset(x.brackets, c1+2)
	if c2 < 0 || !x.hasByte(c2+1, ']') {
		return bracketSpan{}
	}
	return bracketSpan{kind: spanOrgLink, n: c2 + 2 - i, target: x.text[i+2 : c1], text: x.text[c1+2 : c2]}
}

// footnoteRef matches [^label] with a non-empty label free of whitespace.
func (x *spanIndex) footnoteRef(i int) bracketSpan {
	if !x.hasByte(i+1, '^') {
		return bracketSpan{}
	}
	c := nextOffset(x.brackets, i+2)
	if c <= i+2 {
		return bracketSpan{}
	}
	if sp := nextOffset(x.spaces, i+2); sp >= 0 && sp < c {
		return bracketSpan{}
	}
	return bracketSpan{kind: spanFootnote, n: c + 1 - i, text: x.text[i+2 : c]}
}

// spanLen returns the length of the bracket span at i, or 0.
func (x *spanIndex) spanLen(i int) int {
	if c := x.text[i]; c != '!' && c != '[' {
		return 0
	}
	x.build()
	if v := x.spanLens[i]; v > 0 {
		return v - 1
	}
	n := x.bracketAt(i).n
	x.spanLens[i] = n + 1
	return n
}

// closerFrom returns the offset of the first marker at or after from that
// can close a span, stepping over whole bracket spans, or -1. Every offset
// on the walked path shares the answer, so each one is walked once per
// marker.
func (x *spanIndex) closerFrom(from int, marker string) int {
	x.build()
	memo := x.closers[marker[0]]
	if memo == nil {
		memo = make([]int, len(x.text))
		x.closers[marker[0]] = memo
	}

	var path []int
	found := -1
	for j := from; j < len(x.text); {
		if v := memo[j]; v > 0 {
			found = v - 2
			break
		}
		path = append(path, j)
		if n := x.spanLen(j); n > 0 {
			j += n
			continue
		}
		if strings.HasPrefix(x.text[j:], marker) && isCloser(x.text, j, len(marker), marker[0]) {
			found = j
			break
		}
		j++
	}

	for _, j := range path {
		memo[j] = found + 2
	}
	return found
}

// isOpener reports whether the marker of length m at i can open a span:
// it follows start-of-text or whitespace and precedes a character that is
// neither whitespace nor the marker character.
func isOpener(text string, i, m int, markerChar byte) bool {
	if i > 0 {
		prev, _ := utf8.DecodeLastRuneInString(text[:i])
		if !unicode.IsSpace(prev) {
			return false
		}
	}
	if i+m >= len(text) {
		return false
	}
	next, _ := utf8.DecodeRuneInString(text[i+m:])
	return !unicode.IsSpace(next) && next != rune(markerChar)
}

// isCloser reports whether the marker of length m at j can close a span:
// it follows a non-space character other than the marker and precedes
// end-of-text, whitespace or closing punctuation.
func isCloser(text string, j, m int, markerChar byte) bool {
	prev, _ := utf8.DecodeLastRuneInString(text[:j])
	if unicode.IsSpace(prev) || prev == rune(markerChar) {
		return false
	}
	if j+m == len(text) {
		return true
	}
	next, _ := utf8.DecodeRuneInString(text[j+m:])
	return unicode.IsSpace(next) || strings.ContainsRune(closingPunctuation, next)
}

func imageTag(src, class, alt string) string {
	var b strings.Builder
	b.WriteString(`<img src="`)
	b.WriteString(src)
	b.WriteByte('"')
	writeAttr(&b, "class", class)
	b.WriteString(` alt="`)
	b.WriteString(alt)
	b.WriteByte('"')
	writeAttr(&b, "title", alt)
	b.WriteString("/>")
	return b.String()
}

func audioTag(src, class, alt string) string {
	if alt == "" {
		alt = audioFallback
	}
	var b strings.Builder
	b.WriteString(`<audio src="`)
	b.WriteString(src)
	b.WriteByte('"')
	writeAttr(&b, "class", class)
	b.WriteString(` controls="controls">`)
	b.WriteString(alt)
	b.WriteString("</audio>")
	return b.String()
}

func anchorTag(href, class, body string) string {
	var b strings.Builder
	b.WriteString(`<a href="`)
	b.WriteString(href)
	b.WriteByte('"')
	writeAttr(&b, "class", class)
	b.WriteByte('>')
	b.WriteString(body)
	b.WriteString("</a>")
	return b.String()
}

func footnoteRef(label string) string {
	return `<a id="footnote_ref_` + label + `" href="#footnote_target_` + label + `">[<sup>` + label + `</sup>]</a>`
}

// writeAttr writes name="value", skipping empty values.
func writeAttr(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	b.WriteByte(' ')
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(value)
	b.WriteByte('"')
}
