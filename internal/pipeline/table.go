package pipeline

import "strings"

// minDividerDashes is the shortest run of '-' accepted as a divider cell.
const minDividerDashes = 3

// parseDivider reports whether line is a table divider: cells of at least
// three '-' joined by '|' or '+'. At least one junction is required, so a
// bare run of hyphens is never a divider. The dialect is taken from the
// junction between columns, or from the outer junction of a single-column
// divider.
func parseDivider(line string) (Dialect, bool) {
	s := strings.TrimSpace(line)
	if s == "" {
		return DialectNone, false
	}

	var outer byte
	if isJunction(s[0]) {
		outer = s[0]
		s = s[1:]
	}
	if s != "" && isJunction(s[len(s)-1]) {
		if outer == 0 {
			outer = s[len(s)-1]
		}
		s = s[:len(s)-1]
	}
	if s == "" {
		return DialectNone, false
	}

	inner := strings.IndexAny(s, "|+")
	junction := outer
	if inner >= 0 {
		junction = s[inner]
	}
	if junction == 0 {
		return DialectNone, false
	}

	start := 0
	for i := 0; i <= len(s); i++ {
		if i < len(s) && !isJunction(s[i]) {
			continue
		}
		if !isDashCell(s[start:i]) {
			return DialectNone, false
		}
		start = i + 1
	}

	if junction == '+' {
		return DialectPlus, true
	}
	return DialectPipe, true
}

func isJunction(c byte) bool {
	return c == '|' || c == '+'
}

func isDashCell(cell string) bool {
	cell = strings.TrimSpace(cell)
	return len(cell) >= minDividerDashes && strings.Trim(cell, "-") == ""
}

// isDivider is parseDivider without the dialect.
func isDivider(line string) bool {
	_, ok := parseDivider(line)
	return ok
}

// splitRow splits a table row on '|'. One leading and one trailing pipe
// are dropped and every cell is trimmed.
func splitRow(line string) Row {
	s := strings.TrimSpace(line)
	s = strings.TrimPrefix(s, "|")
	s = strings.TrimSuffix(s, "|")

	cells := strings.Split(s, "|")
	row := make(Row, len(cells))
	for i, c := range cells {
		row[i] = strings.TrimSpace(c)
	}
	return row
}

// parseTable builds a Table from a contiguous run of table lines. Rows
// before the first divider become the header; rows after it are data.
// Without a divider every row is data. Divider lines are never rows.
func parseTable(lines []string) *Table {
	t := &Table{}
	var before []Row
	seen := false

	for _, line := range lines {
		if d, ok := parseDivider(line); ok {
			if !seen {
				seen = true
				t.Dialect = d
				t.Head = before
				before = nil
			}
			continue
		}

		row := splitRow(line)
		if seen {
			t.Rows = append(t.Rows, row)
		} else {
			before = append(before, row)
		}
	}

	if !seen {
		t.Rows = before
	}
	return t
}
