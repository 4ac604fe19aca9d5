package analyze

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
)

// treeWriter accumulates indented human readable report.
type treeWriter struct {
	w *strings.Builder
}

func newTreeWriter() *treeWriter {
	return &treeWriter{w: &strings.Builder{}}
}

func (tw *treeWriter) String() string {
	return tw.w.String()
}

func (tw *treeWriter) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, tw.w.String())
	return int64(n), err
}

func (tw *treeWriter) indent(depth int) {
	for range depth {
		tw.w.WriteString("  ")
	}
}

func (tw *treeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

func (tw *treeWriter) TextBlock(depth int, label, value string) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

// Table writes rows with aligned columns, every row indented to depth.
func (tw *treeWriter) Table(depth int, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	var sb strings.Builder
	tab := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		fmt.Fprintln(tab, strings.Join(row, "\t"))
	}
	tab.Flush()

	for line := range strings.Lines(sb.String()) {
		tw.indent(depth)
		tw.w.WriteString(strings.TrimRight(line, " \n"))
		tw.w.WriteByte('\n')
	}
}

// encodeText quotes value only when it would be ambiguous otherwise.
func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	if strings.ContainsFunc(raw, func(r rune) bool {
		return r == '"' || r == '\\' || !strconv.IsPrint(r)
	}) || strings.TrimSpace(raw) != raw {
		return strconv.Quote(raw)
	}
	return raw
}
