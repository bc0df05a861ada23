package pipeline

import (
	"strconv"
	"strings"
)

// indentUnit is the indentation of one nesting level in the output.
const indentUnit = "    "

// Render serializes doc as an HTML fragment, one element per line. When
// escape is set every text is HTML-escaped once before span markup is
// applied; otherwise span text passes through as raw HTML. Pre and code
// content is always escaped and never span-transformed.
func Render(doc *Document, escape bool) string {
	if doc == nil || len(doc.Blocks) == 0 {
		return ""
	}

	r := &renderer{
		escape: escape,
		spans:  newSpanner(doc.Footnotes, doc.OrgMode, escape),
	}
	for _, b := range doc.Blocks {
		r.block(b)
	}
	return r.b.String()
}

type renderer struct {
	b      strings.Builder
	escape bool
	spans  *spanner
}

func (r *renderer) block(b Block) {
	switch b := b.(type) {
	case *Header:
		level := strconv.Itoa(b.Level)
		r.line(0, "<h"+level+">"+r.inline(b.Text)+"</h"+level+">")

	case *Paragraph:
		r.line(0, "<p>")
		for _, l := range b.Lines {
			r.line(0, r.inline(l))
		}
		r.line(0, "</p>")

	case *List:
		r.list(b, 0)

	case *Table:
		r.table(b)

	case *Pre:
		r.line(0, "<pre>")
		for _, l := range b.Lines {
			r.line(0, escapeHTML(l))
		}
		r.line(0, "</pre>")

	case *Code:
		r.code(b)

	case *Rule:
		r.line(0, "<hr/>")

	case *Footnote:
		label := r.text(b.Label)
		r.line(0, `<p class="footnote" id="footnote_target_`+label+`">`+
			label+". "+r.inline(b.Text)+
			` <a href="#footnote_ref_`+label+`">&#8617;</a></p>`)
	}
}

// list writes l with its <ul> at the given depth. Child lists nest inside
// the <li> of their parent item.
func (r *renderer) list(l *List, depth int) {
	r.line(depth, "<ul>")
	for _, item := range l.Items {
		text := r.inline(item.Text)
		if item.Children == nil || len(item.Children.Items) == 0 {
			r.line(depth+1, "<li>"+text+"</li>")
			continue
		}
		r.line(depth+1, "<li>"+text)
		r.list(item.Children, depth+2)
		r.line(depth+1, "</li>")
	}
	r.line(depth, "</ul>")
}

func (r *renderer) table(t *Table) {
	r.line(0, "<table>")
	for _, row := range t.Head {
		r.row(row, "th")
	}
	for _, row := range t.Rows {
		r.row(row, "td")
	}
	r.line(0, "</table>")
}

func (r *renderer) row(row Row, tag string) {
	r.line(1, "<tr>")
	for _, cell := range row {
		r.line(2, "<"+tag+">"+r.inline(cell)+"</"+tag+">")
	}
	r.line(1, "</tr>")
}

// code writes a code block as a single <pre><code> element so the content
// keeps its exact line breaks.
func (r *renderer) code(c *Code) {
	var b strings.Builder
	b.WriteString("<pre><code")
	if c.Lang != "" {
		b.WriteString(` class="language-`)
		b.WriteString(escapeHTML(c.Lang))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	for i, l := range c.Lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(escapeHTML(l))
	}
	b.WriteString("</code></pre>")
	r.line(0, b.String())
}

// text escapes s when escaping is enabled.
func (r *renderer) text(s string) string {
	if r.escape {
		return escapeHTML(s)
	}
	return s
}

// inline escapes s once, then applies span markup.
func (r *renderer) inline(s string) string {
	return r.spans.transform(r.text(s))
}

func (r *renderer) line(depth int, s string) {
	for range depth {
		r.b.WriteString(indentUnit)
	}
	r.b.WriteString(s)
	r.b.WriteByte('\n')
}
