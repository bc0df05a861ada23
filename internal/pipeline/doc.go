// Package pipeline implements the Kiwi-markup-to-HTML conversion pipeline.
//
// The stages run strictly in one direction:
//   - Line preparation (trailing whitespace, tab expansion, NFC, org marker)
//   - Block segmentation into a Document (headers, paragraphs, lists,
//     tables, preformatted and code blocks, rules, footnote entries)
//   - HTML rendering, which escapes raw text once and then applies inline
//     spans (bold, emphasis, links, images, audio, footnote references)
//
// All state lives in the Document returned by Segment, so independent
// conversions can run in parallel without synchronization.
//
// Page wrapping (WrapPage) and link rebasing (RebaseLinks) are site-assembly
// helpers used by the CLI. They operate on finished HTML and are not part of
// the conversion itself.
package pipeline
