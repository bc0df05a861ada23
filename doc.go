// Package kiwimark converts Kiwi markup, a small Markdown-like dialect,
// to HTML.
//
// # Quick Start
//
//	conv := kiwimark.NewConverter()
//	result, err := conv.Convert(kiwimark.Input{
//	    Text: "Title\n=====\n\nSome **bold** text.",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(result.HTML)
//
// For the common case ToHTML converts prepared lines with default options.
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. Line preparation (trailing whitespace, tabs, Unicode NFC, org marker)
//  2. Block segmentation (headers, paragraphs, lists, tables, pre and code
//     blocks, rules, footnotes)
//  3. Rendering, which escapes text once and applies inline spans
//  4. Optional link rebasing and standalone page wrapping
//
// Malformed markup never fails a conversion: unmatched markers and
// undefined footnote references are rendered literally. Recoverable
// problems, such as a code block without its closing :code line, are
// reported in ConvertResult.Warnings.
//
// # Org Mode
//
// When the first line contains "-*- mode: org -*-" (or WithOrgMode(OrgModeOn)
// is used), lines starting with one to six asterisks at column 0 become
// headers and **bold** markup is left as literal text.
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv := kiwimark.NewConverter(
//	    kiwimark.WithOrgMode(kiwimark.OrgModeOff),
//	    kiwimark.WithEscapeHTML(false),
//	)
//
// Per-conversion options are passed via Input:
//
//	result, err := conv.Convert(kiwimark.Input{
//	    Text:    content,
//	    OrgMode: kiwimark.OrgModeOn,
//	    BaseURL: "https://example.com/notes/",
//	    Page:    &kiwimark.Page{Title: "Notes", CSS: "body { max-width: 40em }"},
//	})
//
// A Converter holds no mutable state and is safe for concurrent use.
package kiwimark
