// Package monitor implements the host-side event stream monitor: it
// consumes wire-format lines from a debug transport, tracks per-test
// state, and terminates when a completion predicate is satisfied or
// the run deadline elapses.
package monitor

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/rttmon/rttmon/rttwire"
)

// Outcome is the terminal result of one monitoring run.
type Outcome string

const (
	// OutcomeCompleted means a completion predicate was satisfied.
	OutcomeCompleted Outcome = "completed"
	// OutcomeTimedOut means the deadline elapsed, or the line source
	// was exhausted, before any predicate was satisfied. Running out
	// of input before completion is a failure mode, not a success.
	OutcomeTimedOut Outcome = "timed_out"
)

// LineSource supplies the lazy, possibly infinite sequence of text
// lines from the debug transport. The channel is closed when the
// transport terminates; it may also simply stall forever. The source
// owns the transport resource; the monitor only consumes lines.
type LineSource interface {
	Lines() <-chan string
}

// Monitor drives the parse/track/evaluate loop over one line source.
// It exclusively owns its tracker and buffer for the duration of a
// run; there is no concurrent access to mutable state.
type Monitor struct {
	source    LineSource
	tracker   *Tracker
	evaluator *Evaluator
	logger    zerolog.Logger
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithPredicates replaces the default completion predicates
// (SawCompleteStatus, AllTerminalAndNonEmpty).
func WithPredicates(preds ...Predicate) Option {
	return func(m *Monitor) {
		m.evaluator = NewEvaluator(preds...)
	}
}

// WithExtraPredicates registers predicates in addition to the
// defaults.
func WithExtraPredicates(preds ...Predicate) Option {
	return func(m *Monitor) {
		for _, p := range preds {
			m.evaluator.Register(p)
		}
	}
}

// WithLogger sets the logger used for per-event progress output.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Monitor) {
		m.logger = logger
	}
}

// ErrNilSource is returned by New when no line source is supplied.
// This is the only construction-time failure; everything at run time
// resolves into an Outcome instead.
var ErrNilSource = errors.New("monitor: nil line source")

// New returns a monitor reading from src. The default evaluator
// completes on a TEST_COMPLETE status or on every tracked test
// reaching a terminal state.
func New(src LineSource, opts ...Option) (*Monitor, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	m := &Monitor{
		source:    src,
		tracker:   NewTracker(),
		evaluator: NewEvaluator(SawCompleteStatus, AllTerminalAndNonEmpty),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Run pulls lines until a completion predicate is satisfied or ctx
// expires. Each pull is bounded by the remaining deadline; a stalled
// source simply consumes the budget. The loop is strictly
// forward-only and single-pass: no line is retried or re-applied.
func (m *Monitor) Run(ctx context.Context) (Outcome, *Snapshot) {
	lines := m.source.Lines()
	for {
		select {
		case <-ctx.Done():
			m.logger.Warn().Msg("Deadline reached before completion")
			return OutcomeTimedOut, m.tracker.Snapshot()
		case line, ok := <-lines:
			if !ok {
				m.logger.Warn().Msg("Line source exhausted before completion")
				return OutcomeTimedOut, m.tracker.Snapshot()
			}
			if m.observe(line) {
				m.logger.Info().Msg("Completion condition met")
				return OutcomeCompleted, m.tracker.Snapshot()
			}
		}
	}
}

// observe captures one line, applies it if it parsed, and reports
// whether a completion predicate is now satisfied.
func (m *Monitor) observe(line string) bool {
	m.tracker.Capture(line)

	ev := rttwire.ParseLine(line)
	if ev == nil {
		return false
	}

	switch e := ev.(type) {
	case rttwire.StatusEvent:
		m.logger.Info().
			Str("test", e.TestName).
			Str("status", string(e.Status)).
			Msg("Test status")
	case rttwire.ResultEvent:
		m.logger.Info().
			Str("test", e.TestName).
			Bool("passed", e.Passed).
			Uint64("duration_ms", e.DurationMS).
			Msg("Test result")
	case rttwire.SummaryEvent:
		m.logger.Info().
			Int("total", e.Total).
			Int("passed", e.Passed).
			Int("failed", e.Failed).
			Msg("Target summary")
	case rttwire.LogEvent:
		m.logger.Debug().
			Str("level", e.Level).
			Msg(e.Text)
	}

	m.tracker.Apply(ev)
	return m.evaluator.Evaluate(m.tracker.Snapshot())
}
