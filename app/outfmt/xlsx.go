package outfmt

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/tsiemens/fxreport/report"
)

const (
	headerRowHeight = 75
	rateColWidth    = 15
	// Built in number format "0.00".
	twoDecimalsNumFmt = 2
)

// XLSXWriter builds a workbook in memory and writes it to its file on
// Close. Provider header cells link to the provider's site.
type XLSXWriter struct {
	fp    *os.File
	book  *excelize.File
	sheet string
	order rowOrder

	headerStyle int
	linkStyle   int
	rateStyle   int
	styleErr    error
}

func NewXLSXWriter(fp *os.File) *XLSXWriter {
	book := excelize.NewFile()
	w := &XLSXWriter{
		fp:    fp,
		book:  book,
		sheet: book.GetSheetName(0),
	}
	w.styleErr = w.initStyles()
	return w
}

func (w *XLSXWriter) initStyles() error {
	align := &excelize.Alignment{Horizontal: "left", Vertical: "top", WrapText: true}
	var err error
	if w.headerStyle, err = w.book.NewStyle(&excelize.Style{Alignment: align}); err != nil {
		return err
	}
	if w.linkStyle, err = w.book.NewStyle(&excelize.Style{
		Alignment: align,
		Font:      &excelize.Font{Color: "0000FF", Underline: "single"},
	}); err != nil {
		return err
	}
	if w.rateStyle, err = w.book.NewStyle(&excelize.Style{NumFmt: twoDecimalsNumFmt}); err != nil {
		return err
	}
	if err = w.book.SetRowHeight(w.sheet, 1, headerRowHeight); err != nil {
		return err
	}
	return w.book.SetColWidth(w.sheet, "E", "CW", rateColWidth)
}

// cellName converts 0 based sheet coordinates into an A1 style name.
func cellName(row, col int) (string, error) {
	return excelize.CoordinatesToCellName(col+1, row+1)
}

// WriteHeader implements ReportWriter.
func (w *XLSXWriter) WriteHeader(header []report.Column) error {
	if w.styleErr != nil {
		return fmt.Errorf("xlsx styles: %w", w.styleErr)
	}
	for col, c := range header {
		cell, err := cellName(0, col)
		if err != nil {
			return err
		}
		if err := w.book.SetCellValue(w.sheet, cell, c.Title); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		style := w.headerStyle
		if c.IsLink() {
			style = w.linkStyle
			if err := w.book.SetCellHyperLink(w.sheet, cell, c.Link, "External"); err != nil {
				return fmt.Errorf("write header link: %w", err)
			}
		}
		if err := w.book.SetCellStyle(w.sheet, cell, cell, style); err != nil {
			return fmt.Errorf("write header style: %w", err)
		}
	}
	w.order.header()
	return nil
}

// WriteRow implements ReportWriter.
func (w *XLSXWriter) WriteRow(row *report.Row) error {
	if err := w.order.next(row); err != nil {
		return err
	}
	r := row.SheetRow()
	for col, f := range row.Pair.Fields() {
		if err := w.setCell(r, col, f, -1); err != nil {
			return err
		}
	}
	for i, q := range row.Quotes {
		rate := report.RoundedRate(q).InexactFloat64()
		if err := w.setCell(r, report.PairColumns+i, rate, w.rateStyle); err != nil {
			return err
		}
	}
	return nil
}

func (w *XLSXWriter) setCell(row, col int, value interface{}, style int) error {
	cell, err := cellName(row, col)
	if err != nil {
		return err
	}
	if err := w.book.SetCellValue(w.sheet, cell, value); err != nil {
		return fmt.Errorf("write cell %s: %w", cell, err)
	}
	if style >= 0 {
		if err := w.book.SetCellStyle(w.sheet, cell, cell, style); err != nil {
			return fmt.Errorf("style cell %s: %w", cell, err)
		}
	}
	return nil
}

// Close implements ReportWriter.
func (w *XLSXWriter) Close() error {
	writeErr := w.book.Write(w.fp)
	if err := w.book.Close(); err != nil && writeErr == nil {
		writeErr = err
	}
	if err := w.fp.Close(); err != nil && writeErr == nil {
		writeErr = err
	}
	if writeErr != nil {
		return fmt.Errorf("write %q: %w", w.fp.Name(), writeErr)
	}
	return nil
}

func (w *XLSXWriter) Target() string {
	return w.fp.Name()
}
