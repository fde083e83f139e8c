package logging

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// StartupTrace records named milestones from process start until the first
// frame is drawn. Safe for concurrent use; startup steps run in parallel.
// A disabled or nil trace ignores every call.
type StartupTrace struct {
	mu         sync.Mutex
	t0         time.Time
	milestones []Milestone
	enabled    bool
	logger     *zerolog.Logger
	pending    []Milestone // recorded before a logger was attached
	finished   bool
}

// Milestone represents a timing checkpoint during startup.
type Milestone struct {
	Name    string
	Elapsed time.Duration // since t0
	Delta   time.Duration // since the previous milestone
}

// NewStartupTrace starts a trace. It is enabled only at debug or trace level.
func NewStartupTrace(logLevel string) *StartupTrace {
	lvl := ParseLevel(logLevel, zerolog.InfoLevel)
	st := &StartupTrace{
		t0:      time.Now(),
		enabled: lvl <= zerolog.DebugLevel,
	}
	st.Mark("process_start")
	return st
}

// SetLogger attaches a logger and flushes milestones recorded before it.
func (st *StartupTrace) SetLogger(logger *zerolog.Logger) {
	if !st.Enabled() {
		return
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	st.logger = logger
	for _, m := range st.pending {
		st.emit(m)
	}
	st.pending = nil
}

// Mark records a milestone.
func (st *StartupTrace) Mark(name string) {
	if !st.Enabled() {
		return
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if st.finished {
		return
	}

	elapsed := time.Since(st.t0)
	var delta time.Duration
	if n := len(st.milestones); n > 0 {
		delta = elapsed - st.milestones[n-1].Elapsed
	}

	m := Milestone{Name: name, Elapsed: elapsed, Delta: delta}
	st.milestones = append(st.milestones, m)

	if st.logger == nil {
		st.pending = append(st.pending, m)
		return
	}
	st.emit(m)
}

// emit logs one milestone. Caller must hold mu.
func (st *StartupTrace) emit(m Milestone) {
	event := st.logger.Debug().
		Str("milestone", m.Name).
		Int64("t_ms", m.Elapsed.Milliseconds())
	if m.Delta > 0 {
		event = event.Int64("delta_ms", m.Delta.Milliseconds())
	}
	event.Msg("startup milestone")
}

// Finish stops recording and logs a one-line summary.
func (st *StartupTrace) Finish() {
	if !st.Enabled() {
		return
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if st.finished {
		return
	}
	st.finished = true

	if st.logger == nil {
		return
	}

	parts := make([]string, 0, len(st.milestones))
	for _, m := range st.milestones {
		parts = append(parts, fmt.Sprintf("%s:%d", m.Name, m.Elapsed.Milliseconds()))
	}

	st.logger.Info().
		Int64("total_ms", time.Since(st.t0).Milliseconds()).
		Str("milestones", strings.Join(parts, ",")).
		Msg("startup complete")
}

// Milestones returns a copy of the recorded milestones.
func (st *StartupTrace) Milestones() []Milestone {
	if !st.Enabled() {
		return nil
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]Milestone, len(st.milestones))
	copy(out, st.milestones)
	return out
}

// Enabled returns whether the trace is active.
func (st *StartupTrace) Enabled() bool {
	return st != nil && st.enabled
}
