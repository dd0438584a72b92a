package outfmt

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/tsiemens/fxreport/report"
)

// STDWriter renders the report as a text table once it is closed. It is
// used to preview a report on the terminal.
type STDWriter struct {
	w     io.Writer
	title string
	table *report.RenderTable
	rows  []*report.Row
	order rowOrder
}

func NewSTDWriter(w io.Writer, title string) *STDWriter {
	return &STDWriter{
		w:     w,
		title: title,
	}
}

// WriteHeader implements ReportWriter.
func (w *STDWriter) WriteHeader(header []report.Column) error {
	w.table = report.NewRenderTable(header)
	w.order.header()
	return nil
}

// WriteRow implements ReportWriter.
func (w *STDWriter) WriteRow(row *report.Row) error {
	if err := w.order.next(row); err != nil {
		return err
	}
	w.table.Add(row)
	w.rows = append(w.rows, row)
	return nil
}

// Close implements ReportWriter.
func (w *STDWriter) Close() error {
	if w.table == nil {
		return nil
	}
	w.table.SetSummary(w.rows)
	PrintRenderTable(w.title, w.table, w.w)
	return nil
}

func (w *STDWriter) Target() string {
	return "terminal"
}

func PrintRenderTable(title string, tableModel *report.RenderTable, out io.Writer) {
	for _, err := range tableModel.Errors {
		fmt.Fprintf(out, "[!] %v\n", err)
	}
	if title != "" {
		fmt.Fprintf(out, "%s\n", title)
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader(tableModel.Header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetRowLine(true)

	for _, row := range tableModel.Rows {
		table.Append(row)
	}

	if len(tableModel.Footer) > 0 {
		table.SetFooter(tableModel.Footer)
	}

	table.Render()

	for _, note := range tableModel.Notes {
		fmt.Fprintln(out, note)
	}

	fmt.Fprintln(out, "")
}
