package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	decimal_opt "github.com/tsiemens/fxreport/decimal_value"
	"github.com/tsiemens/fxreport/fx"
)

func TestControllerSingleFlight(t *testing.T) {
	rq := require.New(t)

	started := make(chan struct{})
	release := make(chan struct{})
	blocking := &stubProvider{id: "wise", quote: func(ctx context.Context, pair fx.CurrencyPair) fx.Quote {
		close(started)
		<-release
		return fx.Quote{Provider: "wise", Rate: decimal_opt.NewFromFloat(0.5)}
	}}
	te := newTestEngine(blocking)
	c := NewController(te.Engine)
	rq.False(c.Busy())
	rq.Equal("", c.LastOutDir())

	req := RunRequest{Text: "US USD GB GBP", Providers: []string{"wise"}}
	run, err := c.Start(context.Background(), req)
	rq.Nil(err)
	<-started
	rq.True(c.Busy())

	_, err = c.Start(context.Background(), req)
	rq.ErrorIs(err, ErrRunInProgress)

	close(release)
	res, err := run.Wait()
	rq.Nil(err)
	rq.Equal(1, len(res.Rows))
	rq.False(c.Busy())
	rq.Equal("/reports", c.LastOutDir())
}

func TestControllerEvents(t *testing.T) {
	rq := require.New(t)

	te := newTestEngine(rateProvider("wise", "0.5"), rateProvider("xendpay", "0.6"))
	c := NewController(te.Engine)
	run, err := c.Start(context.Background(), RunRequest{
		Text: "US USD GB GBP\nCA CAD FR EUR", Providers: []string{"wise", "xendpay"}})
	rq.Nil(err)

	var last Event
	rows := 0
	for ev := range run.Events() {
		if ev.Kind == EventRow {
			rows++
		}
		last = ev
	}
	rq.Equal(2, rows)
	rq.Equal(Idle, last.State)
	rq.Equal(100, last.Percent)

	res, err := run.Wait()
	rq.Nil(err)
	rq.Equal(res.RunID, last.RunID)
}

func TestControllerReleasedAfterFailure(t *testing.T) {
	rq := require.New(t)

	te := newTestEngine(rateProvider("wise", "0.5"))
	te.writer.failRow = 1
	c := NewController(te.Engine)

	run, err := c.Start(context.Background(), RunRequest{Text: "US USD GB GBP", Providers: []string{"wise"}})
	rq.Nil(err)
	_, err = run.Wait()
	rq.ErrorIs(err, errWriteFailed)
	rq.False(c.Busy())

	run, err = c.Start(context.Background(), RunRequest{Text: "bad", Providers: []string{"wise"}})
	rq.Nil(err)
	res, err := run.Wait()
	rq.ErrorIs(err, ErrInputSyntax)
	rq.Equal(RejectedInput, res.State)
	rq.False(c.Busy())
}
