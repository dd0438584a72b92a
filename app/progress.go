package app

import (
	"errors"
	"fmt"

	"github.com/tsiemens/fxreport/util"
)

var ErrEmptyWorkload = errors.New("nothing to fetch")

// ProgressTracker maps a pairs x providers workload onto 0..100. It is
// owned by a single run and not safe for concurrent use.
type ProgressTracker struct {
	pairs     int
	providers int
	completed int
	percent   int
}

func NewProgressTracker(pairs, providers int) (*ProgressTracker, error) {
	if pairs <= 0 || providers <= 0 {
		return nil, fmt.Errorf("%w: %d pairs x %d providers", ErrEmptyWorkload, pairs, providers)
	}
	return &ProgressTracker{pairs: pairs, providers: providers}, nil
}

// UnitPercent is the whole percentage one fetch is worth, rounded down.
func (t *ProgressTracker) UnitPercent() int {
	return 100 / t.pairs / t.providers
}

func (t *ProgressTracker) Total() int {
	return t.pairs * t.providers
}

// Advance records one finished fetch and returns the new percentage. The
// percentage is recomputed from the completed count rather than
// accumulated, so it cannot drift past 100.
func (t *ProgressTracker) Advance() int {
	t.completed++
	t.set(t.completed * 100 / t.Total())
	return t.percent
}

// Finish forces completion.
func (t *ProgressTracker) Finish() int {
	t.completed = t.Total()
	t.set(100)
	return t.percent
}

func (t *ProgressTracker) Percent() int {
	return t.percent
}

func (t *ProgressTracker) set(p int) {
	p = util.Clamp(p, 0, 100)
	if p > t.percent {
		t.percent = p
	}
}
