package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tsiemens/fxreport/app/outfmt"
	"github.com/tsiemens/fxreport/fx"
	"github.com/tsiemens/fxreport/metrics"
	"github.com/tsiemens/fxreport/report"
)

type State int

const (
	Idle State = iota
	Validating
	Initializing
	Running
	Finalizing
	RejectedInput
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Initializing:
		return "initializing"
	case Running:
		return "running"
	case Finalizing:
		return "finalizing"
	case RejectedInput:
		return "rejected-input"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// RunRequest is everything a run needs from the user.
type RunRequest struct {
	Text string
	// Providers are provider IDs, in column order.
	Providers []string
	// Parallel is how many providers of one pair may be queried at once.
	// Values below 2 fetch sequentially.
	Parallel int
}

type EventKind int

const (
	EventState EventKind = iota
	EventProgress
	EventRow
)

// Event is sent from the run's worker to whoever displays its progress.
type Event struct {
	Kind    EventKind
	RunID   uuid.UUID
	State   State
	Percent int
	// Set for EventRow.
	Row *report.Row
}

// Result summarizes a run, including a rejected or failed one.
type Result struct {
	RunID    uuid.UUID
	State    State
	Target   string
	Header   []report.Column
	Rows     []*report.Row
	Failures int
	Elapsed  time.Duration
}

// RunContext holds all state of one run. It is created when the run starts
// and dropped when it ends; nothing in it outlives the run.
type RunContext struct {
	ID        uuid.UUID
	Start     time.Time
	State     State
	Pairs     []fx.CurrencyPair
	Providers []fx.RateProvider
	Progress  *ProgressTracker
	Writer    outfmt.ReportWriter

	mu     sync.Mutex
	events chan<- Event
	logger zerolog.Logger
}

func (rc *RunContext) send(ev Event) {
	if rc.events == nil {
		return
	}
	ev.RunID = rc.ID
	ev.State = rc.State
	rc.events <- ev
}

func (rc *RunContext) setState(s State) {
	rc.State = s
	rc.logger.Debug().Stringer("state", s).Msg("Run state")
	rc.send(Event{Kind: EventState, Percent: rc.percent()})
}

func (rc *RunContext) percent() int {
	if rc.Progress == nil {
		return 0
	}
	return rc.Progress.Percent()
}

// advance is called once per finished fetch, possibly from several
// goroutines.
func (rc *RunContext) advance() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	p := rc.Progress.Advance()
	rc.send(Event{Kind: EventProgress, Percent: p})
}

// Engine runs the validate, open, fetch, write, finalize sequence for one
// request at a time. It is stateless between runs.
type Engine struct {
	Registry *fx.Registry
	Open     outfmt.Opener
	Logger   zerolog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

func (e *Engine) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// Run executes req. Events, if non-nil, receives state changes, progress
// and written rows; sends block, so it must be drained. The returned Result
// is never nil.
func (e *Engine) Run(ctx context.Context, req RunRequest, events chan<- Event) (*Result, error) {
	rc := &RunContext{
		ID:     uuid.New(),
		Start:  e.now(),
		State:  Idle,
		events: events,
	}
	rc.logger = e.Logger.With().Str("run", rc.ID.String()).Logger()
	res := &Result{RunID: rc.ID}

	err := e.run(ctx, rc, req, res)
	res.State = rc.State
	res.Elapsed = e.now().Sub(rc.Start)

	switch {
	case err == nil:
		metrics.RecordRun(metrics.StatusOK)
		rc.logger.Info().
			Str("target", res.Target).
			Int("rows", len(res.Rows)).
			Int("failed_quotes", res.Failures).
			Dur("took", res.Elapsed).
			Msg("Report written")
	case rc.State == RejectedInput:
		metrics.RecordRun(metrics.StatusRejected)
		rc.logger.Info().Err(err).Msg("Input rejected")
	case errors.Is(err, context.Canceled):
		metrics.RecordRun(metrics.StatusCanceled)
		rc.logger.Warn().Str("target", res.Target).Msg("Run canceled")
	default:
		metrics.RecordRun(metrics.StatusFailed)
		rc.logger.Error().Err(err).Str("target", res.Target).Msg("Run failed")
	}
	return res, err
}

func (e *Engine) run(ctx context.Context, rc *RunContext, req RunRequest, res *Result) (err error) {
	rc.setState(Validating)
	if err := ValidateInput(req.Text); err != nil {
		rc.setState(RejectedInput)
		return err
	}
	providers, err := e.Registry.Select(req.Providers)
	if err != nil {
		rc.setState(RejectedInput)
		return err
	}
	rc.Providers = providers
	rc.Pairs = ParseInput(req.Text)
	if rc.Progress, err = NewProgressTracker(len(rc.Pairs), len(rc.Providers)); err != nil {
		rc.setState(RejectedInput)
		return err
	}

	rc.setState(Initializing)
	rc.logger.Info().
		Int("pairs", len(rc.Pairs)).
		Int("providers", len(rc.Providers)).
		Int("unit_percent", rc.Progress.UnitPercent()).
		Msg("Starting run")
	rc.Writer, err = e.Open(rc.Start)
	if err != nil {
		rc.setState(Failed)
		return fmt.Errorf("open report: %w", err)
	}
	res.Target = rc.Writer.Target()

	defer func() {
		if err == nil {
			rc.setState(Finalizing)
		}
		if cerr := rc.Writer.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close report: %w", cerr)
		}
		if err != nil {
			rc.setState(Failed)
			return
		}
		rc.send(Event{Kind: EventProgress, Percent: rc.Progress.Finish()})
		rc.setState(Idle)
	}()

	res.Header = report.Header(rc.Providers)
	if err := rc.Writer.WriteHeader(res.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	rc.setState(Running)
	for i, pair := range rc.Pairs {
		quotes, err := e.fetchQuotes(ctx, rc, pair, req.Parallel)
		if err != nil {
			return err
		}
		// A fetch cut short by cancellation would otherwise be written as 0.
		if err := ctx.Err(); err != nil {
			return err
		}
		row := &report.Row{Index: i, Pair: pair, Quotes: quotes}
		if err := rc.Writer.WriteRow(row); err != nil {
			return fmt.Errorf("write row %d: %w", row.SheetRow(), err)
		}
		metrics.RecordRow()
		res.Rows = append(res.Rows, row)
		res.Failures += len(row.Failures())
		rc.send(Event{Kind: EventRow, Percent: rc.percent(), Row: row})
	}
	return nil
}

// fetchQuotes queries every provider for pair, returning quotes in provider
// order. Cancellation is checked before each fetch.
func (e *Engine) fetchQuotes(
	ctx context.Context, rc *RunContext, pair fx.CurrencyPair, parallel int) ([]fx.Quote, error) {

	quotes := make([]fx.Quote, len(rc.Providers))
	if parallel < 2 {
		for i, p := range rc.Providers {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			quotes[i] = p.Quote(ctx, pair)
			rc.advance()
		}
		return quotes, nil
	}

	g := &errgroup.Group{}
	g.SetLimit(parallel)
	for i, p := range rc.Providers {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			quotes[i] = p.Quote(ctx, pair)
			rc.advance()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return quotes, nil
}
