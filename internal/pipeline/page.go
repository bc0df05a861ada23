package pipeline

import (
	"fmt"
	"strings"
)

// DefaultPageTitle is used when a standalone page has no title.
const DefaultPageTitle = "Document"

// pageTemplate wraps a rendered fragment in a complete HTML5 document.
const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s</body>
</html>
`

// PageOptions configures WrapPage.
type PageOptions struct {
	Title string
	CSS   string
}

// WrapPage returns fragment as a standalone HTML5 page. The title is
// escaped and the CSS, if any, is injected as a <style> block in the head.
func WrapPage(fragment string, opts PageOptions) string {
	title := opts.Title
	if title == "" {
		title = DefaultPageTitle
	}
	page := fmt.Sprintf(pageTemplate, escapeHTML(title), fragment)
	return InjectCSS(page, opts.CSS)
}

// InjectCSS inserts a <style> block into htmlContent.
// Tries </head> first, then <body>, then prepends to the HTML.
func InjectCSS(htmlContent, css string) string {
	if css == "" {
		return htmlContent
	}

	style := "<style>\n" + sanitizeCSS(css) + "\n</style>\n"
	lower := strings.ToLower(htmlContent)

	if idx := strings.Index(lower, "</head>"); idx != -1 {
		return htmlContent[:idx] + style + htmlContent[idx:]
	}

	if idx := strings.Index(lower, "<body"); idx != -1 {
		if end := strings.Index(htmlContent[idx:], ">"); end != -1 {
			pos := idx + end + 1
			return htmlContent[:pos] + style + htmlContent[pos:]
		}
	}

	return style + htmlContent
}

// sanitizeCSS escapes "</" so the stylesheet cannot close its <style> tag.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
