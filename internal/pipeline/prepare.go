package pipeline

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// OrgModeMarker enables org-mode compatibility when found on line 1.
const OrgModeMarker = "-*- mode: org -*-"

// tabWidth is the number of columns a tab expands to.
const tabWidth = 4

// Line ending normalization
var crlfOrCR = regexp.MustCompile(`\r\n?`)

// SplitLines splits text into lines. \r\n and \r count as line breaks and
// a single trailing newline does not produce an empty last line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = crlfOrCR.ReplaceAllString(text, "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

// PrepareLines returns a cleaned copy of lines: trailing whitespace removed,
// tabs expanded and, when normalize is set, text in Unicode NFC form.
// The input slice is not modified.
func PrepareLines(lines []string, normalize bool) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = prepareLine(line, normalize)
	}
	return out
}

func prepareLine(line string, normalize bool) string {
	line = strings.TrimRightFunc(line, unicode.IsSpace)
	if strings.IndexByte(line, '\t') >= 0 {
		line = strings.ReplaceAll(line, "\t", strings.Repeat(" ", tabWidth))
	}
	if normalize && !norm.NFC.IsNormalString(line) {
		line = norm.NFC.String(line)
	}
	return line
}

// DetectOrgMode reports whether the first line carries the org-mode marker.
func DetectOrgMode(lines []string) bool {
	return len(lines) > 0 && strings.Contains(lines[0], OrgModeMarker)
}
