package pipeline

import "regexp"

// List items are optionally indented and marked by a single asterisk
// followed by whitespace and the item text.
var listItemPattern = regexp.MustCompile(`^( *)\*\s+(.*)$`)

// listLine is one list item as read from the input. Continuation lines are
// already folded into text.
type listLine struct {
	indent int
	text   string
}

// parseListItem returns the indentation column and text of a list item.
func parseListItem(line string) (listLine, bool) {
	m := listItemPattern.FindStringSubmatch(line)
	if m == nil {
		return listLine{}, false
	}
	return listLine{indent: len(m[1]), text: m[2]}, true
}

// listLevel pairs an indentation column with the list opened at it.
type listLevel struct {
	indent int
	list   *List
}

// buildList nests list lines by comparing indentation columns: deeper
// opens a child list under the last item, equal appends a sibling and
// shallower closes lists until an ancestor is at or above the column.
// Columns only need to be consistently greater, equal or smaller.
func buildList(lines []listLine) *List {
	root := &List{}
	if len(lines) == 0 {
		return root
	}

	stack := []listLevel{{indent: lines[0].indent, list: root}}
	for _, ln := range lines {
		for len(stack) > 1 && stack[len(stack)-1].indent > ln.indent {
			stack = stack[:len(stack)-1]
		}

		top := stack[len(stack)-1]
		if ln.indent > top.indent && len(top.list.Items) > 0 {
			parent := top.list.Items[len(top.list.Items)-1]
			if parent.Children == nil {
				parent.Children = &List{}
			}
			top = listLevel{indent: ln.indent, list: parent.Children}
			stack = append(stack, top)
		}

		top.list.Items = append(top.list.Items, &ListItem{Text: ln.text})
	}
	return root
}
