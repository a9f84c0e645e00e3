// Package timing accumulates the time spent in named components, e.g. each
// storage tier, over the lifetime of the process.
package timing

import (
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Clock returns the current time.
type Clock func() time.Time

// Timing is a set of named accumulators.
type Timing struct {
	now Clock

	mx   sync.Mutex
	accs map[string]*Accumulator
}

// New returns a new Timing that measures durations with now. If now is nil,
// time.Now is used.
func New(now Clock) *Timing {
	if now == nil {
		now = time.Now
	}
	return &Timing{now: now, accs: map[string]*Accumulator{}}
}

// Get returns the accumulator with the given name, creating it if needed.
func (t *Timing) Get(name string) *Accumulator {
	t.mx.Lock()
	defer t.mx.Unlock()

	acc, ok := t.accs[name]
	if !ok {
		acc = &Accumulator{name: name, now: t.now}
		t.accs[name] = acc
	}

	return acc
}

// Totals returns the accumulated duration per name.
func (t *Timing) Totals() map[string]time.Duration {
	t.mx.Lock()
	defer t.mx.Unlock()

	totals := make(map[string]time.Duration, len(t.accs))
	for name, acc := range t.accs {
		totals[name] = acc.Total()
	}

	return totals
}

// Log writes the accumulated durations to logger at debug level, sorted by
// name.
func (t *Timing) Log(logger *slog.Logger) {
	totals := t.Totals()
	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		logger.Debug("timing", "name", name, "total", totals[name])
	}
}

// Accumulator sums the durations of the calls it measures.
type Accumulator struct {
	name string
	now  Clock

	mx    sync.Mutex
	total time.Duration
}

// Start starts measuring a call, and returns the function that ends it.
// Concurrent calls are measured independently. It's safe to call on a nil
// Accumulator, in which case nothing is measured.
//
//	defer acc.Start()()
func (a *Accumulator) Start() (end func()) {
	if a == nil {
		return func() {}
	}

	start := a.now()
	return func() {
		elapsed := a.now().Sub(start)
		a.mx.Lock()
		a.total += elapsed
		a.mx.Unlock()
	}
}

// Total returns the accumulated duration.
func (a *Accumulator) Total() time.Duration {
	a.mx.Lock()
	defer a.mx.Unlock()
	return a.total
}
