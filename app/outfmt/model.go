package outfmt

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tsiemens/fxreport/report"
	"github.com/tsiemens/fxreport/util"
)

type Format string

const (
	XLSX Format = "xlsx"
	CSV  Format = "csv"
)

var Formats = []Format{XLSX, CSV}

var (
	ErrUnknownFormat    = errors.New("unknown output format")
	ErrRowOutOfOrder    = errors.New("row written out of order")
	ErrHeaderNotWritten = errors.New("header must be written before rows")
)

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w %q (want xlsx or csv)", ErrUnknownFormat, s)
}

// ReportWriter is an output target for one run. The header is written
// first, then rows in increasing order; nothing is rewritten. Close
// finalizes the target and must be called even after a failed write.
type ReportWriter interface {
	WriteHeader(header []report.Column) error
	WriteRow(row *report.Row) error
	Close() error
	// Target describes where the report goes, eg. its file path.
	Target() string
}

// Opener creates a fresh target for a run started at runStart.
type Opener func(runStart time.Time) (ReportWriter, error)

// NewFileOpener returns an Opener creating report_<timestamp>.<format>
// files in dir.
func NewFileOpener(format Format, dir string) Opener {
	return func(runStart time.Time) (ReportWriter, error) {
		if _, err := ParseFormat(string(format)); err != nil {
			return nil, err
		}
		fp, err := createReportFile(dir, "report_"+util.FileTimestamp(runStart), string(format))
		if err != nil {
			return nil, err
		}
		if format == CSV {
			return NewCSVWriter(fp), nil
		}
		return NewXLSXWriter(fp), nil
	}
}

// createReportFile creates a new file named base.ext in dir, adding a
// counter suffix when that name is taken.
func createReportFile(dir, base, ext string) (*os.File, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("Output directory %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("Output directory %q: not a directory", dir)
	}

	for i := 1; ; i++ {
		name := util.Tern(i == 1,
			fmt.Sprintf("%s.%s", base, ext),
			fmt.Sprintf("%s_%d.%s", base, i, ext))
		fp, err := os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("Create file %q: %w", name, err)
		}
		return fp, nil
	}
}

// rowOrder enforces the append-only contract shared by the writers.
type rowOrder struct {
	headerWritten bool
	lastRow       int
}

func (o *rowOrder) header() {
	o.headerWritten = true
}

func (o *rowOrder) next(row *report.Row) error {
	if !o.headerWritten {
		return ErrHeaderNotWritten
	}
	if row.SheetRow() <= o.lastRow {
		return fmt.Errorf("%w: row %d after row %d", ErrRowOutOfOrder, row.SheetRow(), o.lastRow)
	}
	o.lastRow = row.SheetRow()
	return nil
}

// MultiWriter writes the same report to several targets.
type MultiWriter struct {
	writers []ReportWriter
}

func NewMultiWriter(writers ...ReportWriter) *MultiWriter {
	return &MultiWriter{writers: writers}
}

func (m *MultiWriter) WriteHeader(header []report.Column) error {
	for _, w := range m.writers {
		if err := w.WriteHeader(header); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiWriter) WriteRow(row *report.Row) error {
	for _, w := range m.writers {
		if err := w.WriteRow(row); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every writer, returning the first error.
func (m *MultiWriter) Close() error {
	var first error
	for _, w := range m.writers {
		if err := w.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *MultiWriter) Target() string {
	targets := make([]string, 0, len(m.writers))
	for _, w := range m.writers {
		targets = append(targets, w.Target())
	}
	return strings.Join(targets, ", ")
}
