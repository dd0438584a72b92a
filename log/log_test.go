package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitJSONLevel(t *testing.T) {
	rq := require.New(t)
	var buf bytes.Buffer

	l := Init("warn", FormatJSON, &buf)
	l.Info().Msg("hidden")
	l.Warn().Str("provider", "wise").Msg("rate fetch failed")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	rq.Len(lines, 1)

	var entry map[string]interface{}
	rq.Nil(json.Unmarshal(lines[0], &entry))
	rq.Equal("warn", entry["level"])
	rq.Equal("wise", entry["provider"])
	rq.Equal("rate fetch failed", entry["message"])
	rq.Contains(entry, "time")
}

func TestInitBadLevelDefaultsToInfo(t *testing.T) {
	rq := require.New(t)
	var buf bytes.Buffer

	l := Init("loud", FormatJSON, &buf)
	l.Debug().Msg("hidden")
	l.Info().Msg("shown")
	rq.NotContains(buf.String(), "hidden")
	rq.Contains(buf.String(), "shown")
}

func TestVerboseForcesDebug(t *testing.T) {
	VerboseEnabled = true
	defer func() { VerboseEnabled = false }()
	var buf bytes.Buffer

	Init("error", FormatText, &buf)
	l := Logger()
	l.Debug().Msg("details")
	require.Contains(t, buf.String(), "details")
}

func TestBufErrorPrinter(t *testing.T) {
	p := &BufErrorPrinter{}
	p.Ln("Oops", "- Syntax Error")
	p.F("line %d\n", 2)
	require.Equal(t, "Oops - Syntax Error\nline 2\n", p.Buf.String())
}
