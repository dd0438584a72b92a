package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	FormatJSON = "json"
	FormatText = "text"
)

// Forces debug level regardless of the configured level.
var VerboseEnabled = false

var logger = zerolog.Nop()

// Init builds the process logger. An unparsable level falls back to info.
// format is either "json" or "text" (human readable console output).
func Init(level, format string, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if VerboseEnabled {
		lvl = zerolog.DebugLevel
	}

	// Providers log from several goroutines when fetching in parallel.
	w = zerolog.SyncWriter(w)
	if strings.ToLower(format) == FormatText {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	logger = zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	return logger
}

// Logger returns the process logger, a no-op logger until Init is called.
func Logger() zerolog.Logger {
	return logger
}

// ErrorPrinter is where user-facing notifications go, as opposed to
// diagnostic logs.
type ErrorPrinter interface {
	Ln(v ...interface{})
	F(format string, v ...interface{})
}

// The default ErrorPrinter
type StderrErrorPrinter struct{}

func (p *StderrErrorPrinter) Ln(v ...interface{}) {
	fmt.Fprintln(os.Stderr, v...)
}

func (p *StderrErrorPrinter) F(format string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, format, v...)
}

// BufErrorPrinter collects notifications, for callers that display them
// somewhere other than stderr.
type BufErrorPrinter struct {
	Buf strings.Builder
}

func (p *BufErrorPrinter) Ln(v ...interface{}) {
	fmt.Fprintln(&p.Buf, v...)
}

func (p *BufErrorPrinter) F(format string, v ...interface{}) {
	fmt.Fprintf(&p.Buf, format, v...)
}
