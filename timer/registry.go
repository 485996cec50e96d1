// Package timer keeps named interval timers driven by directives embedded in
// log events, and rewrites "stop" directives with the measured timings.
package timer

import (
	"sort"
	"sync"
	"time"
)

const DefaultPrecision = 2

// State is the accumulated timing of one named timer.
type State struct {
	// TotalTime is nil until a start/stop cycle completes, and again after a
	// stop that had no matching start.
	TotalTime *time.Duration `json:"totalTime"`
	Count     int            `json:"count"`
	// StartedAt is set only while the timer is running.
	StartedAt *time.Time `json:"start,omitempty"`
}

func (s State) Running() bool {
	return s.StartedAt != nil
}

func (s State) clone() State {
	c := State{Count: s.Count}
	if s.TotalTime != nil {
		t := *s.TotalTime
		c.TotalTime = &t
	}
	if s.StartedAt != nil {
		t := *s.StartedAt
		c.StartedAt = &t
	}
	return c
}

type Option func(*Registry)

func WithClock(c Clock) Option {
	return func(r *Registry) {
		if c != nil {
			r.clock = c
		}
	}
}

// WithPrecision sets the number of decimals in formatted durations.
// Negative values are ignored.
func WithPrecision(p int) Option {
	return func(r *Registry) {
		if p >= 0 {
			r.precision = p
		}
	}
}

// Registry owns the state of every timer referenced through it. It is safe
// for concurrent use; all transitions are serialized by one lock.
type Registry struct {
	mu        sync.Mutex
	clock     Clock
	precision int
	timers    map[string]*State
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		clock:     SystemClock,
		precision: DefaultPrecision,
		timers:    map[string]*State{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) Precision() int {
	return r.precision
}

// Process applies the directive block of rec in place and returns rec.
// Records without a usable block are returned untouched.
func (r *Registry) Process(rec *Record) *Record {
	if rec == nil || rec.Context == nil {
		return rec
	}

	switch block := rec.Context[ContextKey].(type) {
	case map[string]any:
		r.Apply(block)
	case map[string]string:
		// a string map cannot hold a result block, so it is swapped for an
		// equivalent map[string]any
		converted := make(map[string]any, len(block))
		for name, v := range block {
			converted[name] = v
		}
		r.Apply(converted)
		rec.Context[ContextKey] = converted
	}

	return rec
}

// Apply runs every directive in block and replaces "stop" values with their
// Result. Names are visited in sorted order.
func (r *Registry) Apply(block map[string]any) {
	if len(block) == 0 {
		return
	}

	names := make([]string, 0, len(block))
	for name := range block {
		names = append(names, name)
	}
	sort.Strings(names)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range names {
		switch ParseDirective(block[name]) {
		case Start:
			r.startLocked(name)
		case Stop:
			block[name] = r.stopLocked(name)
		case Unknown:
		}
	}
}

// Start (re)starts the named timer. A pending start is overwritten and its
// unmeasured span is dropped.
func (r *Registry) Start(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.startLocked(name)
}

// Stop ends the running cycle of the named timer. Stopping a timer that is
// not running resets it.
func (r *Registry) Stop(name string) Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopLocked(name)
}

func (r *Registry) entryLocked(name string) *State {
	s, ok := r.timers[name]
	if !ok {
		s = &State{}
		r.timers[name] = s
	}
	return s
}

func (r *Registry) startLocked(name string) {
	now := r.clock.Now()
	r.entryLocked(name).StartedAt = &now
}

func (r *Registry) stopLocked(name string) Result {
	s := r.entryLocked(name)

	if s.StartedAt == nil {
		s.TotalTime = nil
		s.Count = 0
		return Result{}
	}

	elapsed := r.clock.Now().Sub(*s.StartedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	s.StartedAt = nil

	var total time.Duration
	if s.TotalTime != nil {
		total = *s.TotalTime
	}
	total += elapsed
	s.TotalTime = &total
	s.Count++

	return Result{
		Time:      formatOptional(&elapsed, r.precision),
		TotalTime: formatOptional(&total, r.precision),
		Count:     s.Count,
	}
}

// Snapshot returns a copy of every timer referenced so far.
func (r *Registry) Snapshot() map[string]State {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]State, len(r.timers))
	for name, s := range r.timers {
		out[name] = s.clone()
	}
	return out
}
