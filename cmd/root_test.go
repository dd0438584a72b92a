package cmd

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tsiemens/fxreport/app"
	"github.com/tsiemens/fxreport/app/outfmt"
	"github.com/tsiemens/fxreport/config"
	"github.com/tsiemens/fxreport/fx"
	"github.com/tsiemens/fxreport/log"
)

// newUpstream serves every provider's API under its own path prefix.
// Instarem never answers in time.
func newUpstream(t *testing.T) map[fx.ProviderID]string {
	mux := http.NewServeMux()
	mux.HandleFunc("/wise", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"value":0.791}]`)
	})
	mux.HandleFunc("/xendpay/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "0.7842")
	})
	mux.HandleFunc("/currencyfair", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"quote":{"estimate":{"rate":"0.7866"}}}`)
	})
	mux.HandleFunc("/instarem", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return map[fx.ProviderID]string{
		fx.Wise:         srv.URL + "/wise",
		fx.Xendpay:      srv.URL + "/xendpay",
		fx.CurrencyFair: srv.URL + "/currencyfair",
		fx.Instarem:     srv.URL + "/instarem",
	}
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Providers: []string{"xendpay", "wise", "currencyfair", "instarem"},
		OutDir:    t.TempDir(),
		Format:    outfmt.CSV,
		Timeout:   100 * time.Millisecond,
		LogLevel:  "warn",
		LogFormat: log.FormatJSON,
		BaseURLs:  newUpstream(t),
	}
}

type testIO struct {
	reportIO
	out, err *bytes.Buffer
	printer  *log.BufErrorPrinter
}

func newTestIO() *testIO {
	tio := &testIO{out: &bytes.Buffer{}, err: &bytes.Buffer{}, printer: &log.BufErrorPrinter{}}
	tio.reportIO = reportIO{Out: tio.out, Err: tio.err, Errors: tio.printer}
	return tio
}

func readCsv(t *testing.T, dir string) [][]string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.Nil(t, err)
	require.Equal(t, 1, len(entries))
	fp, err := os.Open(filepath.Join(dir, entries[0].Name()))
	require.Nil(t, err)
	defer fp.Close()
	records, err := csv.NewReader(fp).ReadAll()
	require.Nil(t, err)
	return records
}

func TestRunReport(t *testing.T) {
	rq := require.New(t)

	cfg := testConfig(t)
	cfg.Parallel = 2
	tio := newTestIO()
	code := runReport(context.Background(), cfg, "us usd gb gbp\nCA CAD FR EUR\n", tio.reportIO)
	rq.Equal(0, code, tio.printer.Buf.String())

	rq.Equal([][]string{
		{"Source Country Code", "Source Currency Code", "Destination Country Code",
			"Destination Currency Code", "xendpay", "wise", "currencyfair", "instarem"},
		{"US", "USD", "GB", "GBP", "0.78", "0.79", "0.79", "0.00"},
		{"CA", "CAD", "FR", "EUR", "0.78", "0.79", "0.79", "0.00"},
	}, readCsv(t, cfg.OutDir))

	rq.Contains(tio.out.String(), "(2 rows, 2 rates reported as 0)")
	rq.Contains(tio.err.String(), "100%")
	rq.Contains(tio.err.String(), `"provider":"instarem"`)
	rq.Empty(tio.printer.Buf.String())
}

func TestRunReportPreview(t *testing.T) {
	rq := require.New(t)

	cfg := testConfig(t)
	cfg.Providers = []string{"wise"}
	cfg.Preview = true
	tio := newTestIO()
	rq.Equal(0, runReport(context.Background(), cfg, "US USD GB GBP", tio.reportIO))

	rq.Contains(tio.out.String(), "Rates\n")
	rq.Contains(tio.out.String(), "1 pairs")
	rq.Contains(tio.out.String(), "Report written to "+cfg.OutDir)
}

func TestRunReportRejectedInput(t *testing.T) {
	rq := require.New(t)

	cfg := testConfig(t)
	tio := newTestIO()
	rq.Equal(1, runReport(context.Background(), cfg, "bad input", tio.reportIO))

	rq.Contains(tio.printer.Buf.String(), app.ErrInputSyntax.Error())
	rq.Contains(tio.printer.Buf.String(), app.InputSyntaxHelp)
	entries, err := os.ReadDir(cfg.OutDir)
	rq.Nil(err)
	rq.Empty(entries)
}

func TestRunReportOutputError(t *testing.T) {
	rq := require.New(t)

	cfg := testConfig(t)
	cfg.OutDir = filepath.Join(cfg.OutDir, "missing")
	tio := newTestIO()
	rq.Equal(1, runReport(context.Background(), cfg, "US USD GB GBP", tio.reportIO))
	rq.Contains(tio.printer.Buf.String(), "Output directory")
}

func TestRunReportCanceled(t *testing.T) {
	rq := require.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := testConfig(t)
	tio := newTestIO()
	rq.Equal(1, runReport(ctx, cfg, "US USD GB GBP", tio.reportIO))
	rq.Contains(tio.printer.Buf.String(), "Canceled")
}

func TestReadInput(t *testing.T) {
	rq := require.New(t)

	text, err := readInput(nil, strings.NewReader("US USD GB GBP\n"))
	rq.Nil(err)
	rq.Equal("US USD GB GBP\n", text)
	text, err = readInput([]string{"-"}, strings.NewReader("CA CAD FR EUR"))
	rq.Nil(err)
	rq.Equal("CA CAD FR EUR", text)

	path := filepath.Join(t.TempDir(), "pairs.txt")
	rq.Nil(os.WriteFile(path, []byte("JP JPY US USD"), 0644))
	text, err = readInput([]string{path}, nil)
	rq.Nil(err)
	rq.Equal("JP JPY US USD", text)

	_, err = readInput([]string{path + ".missing"}, nil)
	rq.ErrorIs(err, os.ErrNotExist)
}

func TestProgressBar(t *testing.T) {
	rq := require.New(t)

	var buf bytes.Buffer
	b := newProgressBar(&buf)
	b.Done(true)
	rq.Empty(buf.String())

	b.Update(app.Event{Kind: app.EventProgress, State: app.Running, Percent: 50})
	rq.Contains(buf.String(), "0 rows (running)")
	rq.Equal(0.5, b.bar.State().CurrentPercent)

	b.Update(app.Event{Kind: app.EventRow, State: app.Running, Percent: 50})
	rq.Contains(buf.String(), "1 rows (running)")
	b.Update(app.Event{Kind: app.EventProgress, State: app.Running, Percent: 25})
	rq.Equal(0.5, b.bar.State().CurrentPercent)

	b.Done(true)
	rq.Equal(1.0, b.bar.State().CurrentPercent)
	rq.True(strings.HasSuffix(buf.String(), "\n"))
}

func TestProgressBarFailedRun(t *testing.T) {
	rq := require.New(t)

	var buf bytes.Buffer
	b := newProgressBar(&buf)
	b.Update(app.Event{Kind: app.EventProgress, State: app.Running, Percent: 30})
	b.Done(false)
	rq.Equal(0.3, b.bar.State().CurrentPercent)
	rq.True(strings.HasSuffix(buf.String(), "\n"))
}

// Many failing providers fetched in parallel log warnings while the
// progress bar redraws on the same writer.
func TestRunReportParallelSharedOutput(t *testing.T) {
	rq := require.New(t)

	cfg := testConfig(t)
	cfg.Providers = []string{"instarem", "transfergo", "wise", "xendpay", "currencyfair"}
	cfg.BaseURLs[fx.TransferGo] = cfg.BaseURLs[fx.Instarem]
	cfg.Parallel = 5
	tio := newTestIO()

	text := strings.Repeat("US USD GB GBP\nCA CAD FR EUR\n", 4)
	rq.Equal(0, runReport(context.Background(), cfg, text, tio.reportIO))

	records := readCsv(t, cfg.OutDir)
	rq.Equal(9, len(records))
	for _, r := range records[1:] {
		rq.Equal([]string{"0.00", "0.00", "0.79", "0.78", "0.79"}, r[4:])
	}
	rq.Contains(tio.out.String(), "16 rates reported as 0")
	rq.Equal(16, strings.Count(tio.err.String(), "Rate fetch failed"))
}

func TestPrintProviders(t *testing.T) {
	rq := require.New(t)

	var buf bytes.Buffer
	printProviders(fx.DefaultRegistry(fx.ProviderOptions{}), []string{"wise"}, &buf)
	out := buf.String()
	for _, id := range []string{"wise", "xendpay", "instarem", "currencyfair", "transfergo"} {
		rq.Contains(out, id)
	}
	rq.Contains(out, "https://my.transfergo.com/")
	rq.Regexp(`wise\s+\|\s+https://wise.com/\s+\|\s+yes`, out)
	rq.NotRegexp(`xendpay.*yes`, out)
}

func TestSuggestions(t *testing.T) {
	rq := require.New(t)

	s, err := loadSuggestions("")
	rq.Nil(err)
	rq.Equal(app.DefaultSuggestions(), s)

	path := filepath.Join(t.TempDir(), "currencies.config")
	rq.Nil(os.WriteFile(path, []byte("LT EUR - Lithuania, Euro\n"), 0644))
	s, err = loadSuggestions(path)
	rq.Nil(err)
	rq.Equal([]app.Suggestion{{Tokens: "LT EUR", Description: "Lithuania, Euro"}}, s)

	var buf bytes.Buffer
	printSuggestions(s, &buf)
	rq.Contains(buf.String(), "LT EUR")
	rq.Contains(buf.String(), "Lithuania, Euro")

	_, err = loadSuggestions(path + ".missing")
	rq.NotNil(err)
}
