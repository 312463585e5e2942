package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
	"unicode/utf8"
)

// TimeLayout is the timestamp layout used in tables.
const TimeLayout = "2006-01-02 15:04"

// TableFormatter writes a prebuilt Table. Commands build their own columns,
// so any other value is an error.
type TableFormatter struct{}

// Format renders data, which must be a *Table or Table. Nil writes nothing.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch t := data.(type) {
	case nil:
		return nil
	case *Table:
		if t == nil {
			return nil
		}
		return t.Render(w)
	case Table:
		return t.Render(w)
	default:
		return fmt.Errorf("table output is not available for %T", data)
	}
}

// FormatTime renders t in local time, or "-" for the zero time.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(TimeLayout)
}

// Truncate shortens s to at most n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	if n <= 3 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

// Table is a header row plus cells, aligned on render.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Render writes the table with columns separated by two spaces. A table
// without headers prints only its rows.
func (t *Table) Render(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if len(t.Headers) > 0 {
		fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	}
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// AddRow appends a row.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}
