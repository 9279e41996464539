package style

import (
	"regexp"
	"strings"
)

// Column defines a table column with a header and fixed width.
type Column struct {
	Name  string
	Width int
	Right bool // right-align values (counts, depths)
}

// Table renders small fixed-width status tables.
type Table struct {
	columns []Column
	rows    [][]string
	indent  string
}

// NewTable creates a table with the given columns.
func NewTable(columns ...Column) *Table {
	return &Table{columns: columns, indent: "  "}
}

// AddRow appends a row. Missing cells render empty.
func (t *Table) AddRow(values ...string) *Table {
	t.rows = append(t.rows, values)
	return t
}

// Render returns the formatted table, header first, separator, then rows.
func (t *Table) Render() string {
	if len(t.columns) == 0 {
		return ""
	}

	var sb strings.Builder

	sb.WriteString(t.indent)
	total := -1
	for i, col := range t.columns {
		sb.WriteString(t.cell(Bold.Render(col.Name), col.Name, col))
		if i < len(t.columns)-1 {
			sb.WriteString(" ")
		}
		total += col.Width + 1
	}
	sb.WriteString("\n")
	sb.WriteString(t.indent)
	sb.WriteString(Dim.Render(strings.Repeat("─", total)))
	sb.WriteString("\n")

	for _, row := range t.rows {
		sb.WriteString(t.indent)
		for i, col := range t.columns {
			val := ""
			if i < len(row) {
				val = row[i]
			}
			plain := stripAnsi(val)
			if len(plain) > col.Width && col.Width > 3 {
				val = plain[:col.Width-3] + "..."
				plain = val
			}
			sb.WriteString(t.cell(val, plain, col))
			if i < len(t.columns)-1 {
				sb.WriteString(" ")
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// cell pads styled text to the column width using the plain text's length,
// so ANSI escape codes don't skew alignment.
func (t *Table) cell(styled, plain string, col Column) string {
	if len(plain) >= col.Width {
		return styled
	}
	pad := strings.Repeat(" ", col.Width-len(plain))
	if col.Right {
		return pad + styled
	}
	return styled + pad
}

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripAnsi(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}
