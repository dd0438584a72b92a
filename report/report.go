// Package report holds the shape of a rate report: header columns, rows and
// how rates are formatted in them.
package report

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tsiemens/fxreport/fx"
)

// RatePlaces is the number of decimal places rates are written with.
const RatePlaces = 2

// PairColumnTitles are the fixed leading columns of every report.
var PairColumnTitles = [4]string{
	"Source Country Code",
	"Source Currency Code",
	"Destination Country Code",
	"Destination Currency Code",
}

const PairColumns = len(PairColumnTitles)

// Column is one header cell. Link is set for provider columns.
type Column struct {
	Title string
	Link  string
}

func (c Column) IsLink() bool {
	return c.Link != ""
}

// Header returns the fixed columns followed by one column per provider, in
// selection order.
func Header(providers []fx.RateProvider) []Column {
	cols := make([]Column, 0, PairColumns+len(providers))
	for _, title := range PairColumnTitles {
		cols = append(cols, Column{Title: title})
	}
	for _, p := range providers {
		cols = append(cols, Column{Title: string(p.ID()), Link: p.SiteURL()})
	}
	return cols
}

func HeaderTitles(cols []Column) []string {
	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.Title
	}
	return titles
}

// Row is one currency pair with one quote per selected provider. Index is
// the pair's position in the input (0 based); data rows are written at
// Index+1, below the header.
type Row struct {
	Index  int
	Pair   fx.CurrencyPair
	Quotes []fx.Quote
}

func (r *Row) SheetRow() int {
	return r.Index + 1
}

// Len is the number of cells in the row.
func (r *Row) Len() int {
	return PairColumns + len(r.Quotes)
}

// Cells renders every cell as text, rates with RatePlaces decimals.
func (r *Row) Cells() []string {
	cells := make([]string, 0, r.Len())
	for _, f := range r.Pair.Fields() {
		cells = append(cells, f)
	}
	for _, q := range r.Quotes {
		cells = append(cells, FormatRate(q))
	}
	return cells
}

// Failures returns the quotes that could not be fetched.
func (r *Row) Failures() []fx.Quote {
	var failed []fx.Quote
	for _, q := range r.Quotes {
		if q.Failed() {
			failed = append(failed, q)
		}
	}
	return failed
}

// RoundedRate is the value written for a quote: the rate rounded to
// RatePlaces, or zero when the fetch failed.
func RoundedRate(q fx.Quote) decimal.Decimal {
	return q.Rate.OrZero().Round(RatePlaces)
}

func FormatRate(q fx.Quote) string {
	return q.Rate.OrZero().StringFixed(RatePlaces)
}

// RenderTable is a fully rendered report, for display.
type RenderTable struct {
	Header []string
	Rows   [][]string
	Footer []string
	Notes  []string
	Errors []error
}

func NewRenderTable(header []Column) *RenderTable {
	return &RenderTable{Header: HeaderTitles(header)}
}

// Add appends row, noting any quotes that were reported as 0.
func (t *RenderTable) Add(row *Row) {
	t.Rows = append(t.Rows, row.Cells())
	for _, q := range row.Failures() {
		t.Notes = append(t.Notes, fmt.Sprintf("Row %d (%s): %s reported as %s: %v",
			row.SheetRow(), row.Pair, q.Provider, FormatRate(q), q.Err))
	}
}

// SetSummary fills the footer with the count of failed cells per column.
func (t *RenderTable) SetSummary(rows []*Row) {
	if len(t.Header) == 0 {
		return
	}
	footer := make([]string, len(t.Header))
	footer[0] = fmt.Sprintf("%d pairs", len(rows))
	for col := PairColumns; col < len(t.Header); col++ {
		failed := 0
		for _, r := range rows {
			i := col - PairColumns
			if i < len(r.Quotes) && r.Quotes[i].Failed() {
				failed++
			}
		}
		footer[col] = fmt.Sprintf("%d failed", failed)
	}
	t.Footer = footer
}
