package outfmt

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/tsiemens/fxreport/report"
)

// CSVWriter streams a report to a csv file, flushing after every row.
type CSVWriter struct {
	fp    *os.File
	csvW  *csv.Writer
	order rowOrder
}

func NewCSVWriter(fp *os.File) *CSVWriter {
	return &CSVWriter{fp: fp, csvW: csv.NewWriter(fp)}
}

// WriteHeader implements ReportWriter.
func (w *CSVWriter) WriteHeader(header []report.Column) error {
	if err := w.write(report.HeaderTitles(header)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	w.order.header()
	return nil
}

// WriteRow implements ReportWriter.
func (w *CSVWriter) WriteRow(row *report.Row) error {
	if err := w.order.next(row); err != nil {
		return err
	}
	if err := w.write(row.Cells()); err != nil {
		return fmt.Errorf("write row %d: %w", row.SheetRow(), err)
	}
	return nil
}

func (w *CSVWriter) write(record []string) error {
	if err := w.csvW.Write(record); err != nil {
		return err
	}
	w.csvW.Flush()
	return w.csvW.Error()
}

// Close implements ReportWriter.
func (w *CSVWriter) Close() error {
	w.csvW.Flush()
	flushErr := w.csvW.Error()
	if err := w.fp.Close(); err != nil {
		return fmt.Errorf("close %q: %w", w.fp.Name(), err)
	}
	return flushErr
}

func (w *CSVWriter) Target() string {
	return w.fp.Name()
}
