package pipeline

import (
	"github.com/yuin/goldmark/util"
)

// escapeHTML escapes &, <, > and " in s. Single quotes are left alone;
// the renderer always double-quotes attribute values.
func escapeHTML(s string) string {
	return string(util.EscapeHTML([]byte(s)))
}
