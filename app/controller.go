package app

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
)

var ErrRunInProgress = errors.New("a report is already being generated")

const eventBuffer = 64

// Controller allows a single run at a time. Each run executes on its own
// goroutine and reports back through its event channel.
type Controller struct {
	engine *Engine
	busy   atomic.Bool

	mu         sync.Mutex
	lastOutDir string
}

func NewController(engine *Engine) *Controller {
	return &Controller{engine: engine}
}

// Run is a handle on a started run.
type Run struct {
	events chan Event
	done   chan struct{}
	res    *Result
	err    error
}

// Events is closed once the run has ended.
func (r *Run) Events() <-chan Event {
	return r.events
}

// Wait blocks until the run ends, discarding any events not yet read.
func (r *Run) Wait() (*Result, error) {
	for range r.events {
	}
	<-r.done
	return r.res, r.err
}

// Start begins a run, or fails with ErrRunInProgress if one is active.
func (c *Controller) Start(ctx context.Context, req RunRequest) (*Run, error) {
	if !c.busy.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}

	run := &Run{
		events: make(chan Event, eventBuffer),
		done:   make(chan struct{}),
	}
	go func() {
		defer close(run.done)
		defer close(run.events)
		defer c.busy.Store(false)

		run.res, run.err = c.engine.Run(ctx, req, run.events)
		if run.res.Target != "" {
			c.mu.Lock()
			c.lastOutDir = filepath.Dir(run.res.Target)
			c.mu.Unlock()
		}
	}()
	return run, nil
}

func (c *Controller) Busy() bool {
	return c.busy.Load()
}

// LastOutDir is the directory of the most recent report, or "" if none has
// been opened.
func (c *Controller) LastOutDir() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastOutDir
}
