package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
)

// PlainTableWriter provides kubectl-style plain table output without
// box-drawing characters, so that `scalectl list` can be piped to grep, awk
// and cut. Cells may carry color escape sequences; they do not count towards
// the column width.
type PlainTableWriter struct {
	// headers contains the column header names
	headers []string
	// rows contains the table data rows
	rows [][]string
	// columnWidths tracks the maximum visible width of each column
	columnWidths []int
	// minPadding is the minimum space between columns
	minPadding int
	// showHeaders controls whether to display the header row
	showHeaders bool
	// output is the writer to output to
	output io.Writer
}

// NewPlainTableWriter creates a new plain table writer.
// By default, headers are shown. Use SetNoHeaders(true) to suppress them.
func NewPlainTableWriter(output io.Writer) *PlainTableWriter {
	return &PlainTableWriter{
		minPadding:  3,
		showHeaders: true,
		output:      output,
	}
}

// SetHeaders sets the column headers for the table. Headers are displayed
// in uppercase.
func (w *PlainTableWriter) SetHeaders(headers []string) {
	w.headers = make([]string, len(headers))
	w.columnWidths = make([]int, len(headers))
	for i, h := range headers {
		upper := strings.ToUpper(h)
		w.headers[i] = upper
		w.columnWidths[i] = text.RuneWidthWithoutEscSequences(upper)
	}
}

// SetNoHeaders controls whether to suppress the header row.
func (w *PlainTableWriter) SetNoHeaders(noHeaders bool) {
	w.showHeaders = !noHeaders
}

// AppendRow adds a row to the table. Missing cells are left empty and
// cells beyond the last header are dropped.
func (w *PlainTableWriter) AppendRow(row []string) {
	normalized := make([]string, len(w.headers))
	for i := range w.headers {
		if i >= len(row) {
			continue
		}
		normalized[i] = row[i]
		if width := text.RuneWidthWithoutEscSequences(row[i]); width > w.columnWidths[i] {
			w.columnWidths[i] = width
		}
	}
	w.rows = append(w.rows, normalized)
}

// Render writes the table.
func (w *PlainTableWriter) Render() {
	if len(w.headers) == 0 {
		return
	}
	if len(w.rows) == 0 && !w.showHeaders {
		return
	}

	if w.showHeaders {
		w.printRow(w.headers)
	}
	for _, row := range w.rows {
		w.printRow(row)
	}
}

func (w *PlainTableWriter) printRow(row []string) {
	var sb strings.Builder
	for i, cell := range row {
		sb.WriteString(cell)
		if i < len(row)-1 {
			pad := w.columnWidths[i] + w.minPadding - text.RuneWidthWithoutEscSequences(cell)
			sb.WriteString(strings.Repeat(" ", pad))
		}
	}
	fmt.Fprintln(w.output, strings.TrimRight(sb.String(), " "))
}
