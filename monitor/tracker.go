package monitor

import (
	"time"

	"github.com/rttmon/rttmon/model"
	"github.com/rttmon/rttmon/rttwire"
)

// Tracker maintains the lifecycle state of every test name seen on
// the stream. Transitions are monotone overwrites: no event is ever
// rejected, the tracker always reflects the most recently observed
// event for a name. The target can re-run a name with a fresh
// Running -> Pass/Fail cycle; cycles are not distinguished.
type Tracker struct {
	tests map[string]*model.TestRecord
	// Insertion order of test names, for reporting
	order []string
	// Raw capture of every line, parsed or not
	buffer []model.LogEntry
	// Whether a STATUS:TEST_COMPLETE has ever been observed
	sawComplete bool
	// Last advisory SUMMARY event, if any
	summary *rttwire.SummaryEvent
	// Name of the most recently TEST_RUNNING test, for best-effort
	// log attribution
	lastRunning string

	now func() time.Time
}

// NewTracker returns an empty tracker using the wall clock.
func NewTracker() *Tracker {
	return &Tracker{
		tests: make(map[string]*model.TestRecord),
		now:   time.Now,
	}
}

// Capture appends one raw line to the log buffer, regardless of
// whether it parses as a structured event.
func (t *Tracker) Capture(raw string) {
	t.buffer = append(t.buffer, model.LogEntry{Timestamp: t.now(), Raw: raw})
}

// Apply updates tracker state from one parsed event.
func (t *Tracker) Apply(ev rttwire.Event) {
	switch e := ev.(type) {
	case rttwire.StatusEvent:
		t.applyStatus(e)
	case rttwire.ResultEvent:
		t.applyResult(e)
	case rttwire.SummaryEvent:
		// Advisory only; counts are derived from tracked state.
		t.summary = &e
	case rttwire.LogEvent:
		t.applyLog(e)
	}
}

func (t *Tracker) record(name string) *model.TestRecord {
	if rec, ok := t.tests[name]; ok {
		return rec
	}
	rec := &model.TestRecord{
		Name:        name,
		FirstSeenAt: t.now(),
	}
	t.tests[name] = rec
	t.order = append(t.order, name)
	return rec
}

func (t *Tracker) applyStatus(e rttwire.StatusEvent) {
	if e.Status == model.StatusComplete {
		// TEST_COMPLETE is a run-level marker ("All Tests"), not a
		// test case; it must not show up in the per-test records.
		t.sawComplete = true
		return
	}
	rec := t.record(e.TestName)
	rec.Status = e.Status
	rec.LastUpdatedAt = t.now()
	if e.Status == model.StatusRunning {
		t.lastRunning = e.TestName
	}
}

func (t *Tracker) applyResult(e rttwire.ResultEvent) {
	rec := t.record(e.TestName)
	if e.Passed {
		rec.Status = model.StatusPass
	} else {
		rec.Status = model.StatusFail
	}
	duration := e.DurationMS
	rec.DurationMS = &duration
	rec.LastUpdatedAt = t.now()
}

func (t *Tracker) applyLog(e rttwire.LogEvent) {
	// Best-effort attribution to the test that last went Running.
	if t.lastRunning == "" {
		return
	}
	if rec, ok := t.tests[t.lastRunning]; ok {
		rec.LogMessages = append(rec.LogMessages, e.Text)
	}
}

// Snapshot is a read-only view of tracker state. Predicates and the
// reporter receive snapshots, never the live tracker.
type Snapshot struct {
	// Test records copied by value, keyed by name
	Tests map[string]model.TestRecord
	// Test names in first-seen order
	Order []string
	// Raw line capture in arrival order
	LogBuffer []model.LogEntry
	// Whether a TEST_COMPLETE status has been observed
	SawComplete bool
	// Advisory counts from the last SUMMARY event, nil if none
	TargetSummary *rttwire.SummaryEvent
}

// Snapshot copies the current state. Record values are copied so a
// predicate cannot reach back into live tracker state; the slices
// inside records are shared but treated as read-only by contract.
func (t *Tracker) Snapshot() *Snapshot {
	s := &Snapshot{
		Tests:       make(map[string]model.TestRecord, len(t.tests)),
		Order:       append([]string(nil), t.order...),
		LogBuffer:   t.buffer,
		SawComplete: t.sawComplete,
	}
	for name, rec := range t.tests {
		s.Tests[name] = *rec
	}
	if t.summary != nil {
		sum := *t.summary
		s.TargetSummary = &sum
	}
	return s
}

// Totals folds over the tracked tests and returns derived counts.
// Only terminal statuses count as passed or failed.
func (s *Snapshot) Totals() model.Summary {
	sum := model.Summary{TotalTests: len(s.Tests)}
	for _, rec := range s.Tests {
		switch rec.Status {
		case model.StatusPass:
			sum.PassedTests++
		case model.StatusFail:
			sum.FailedTests++
		}
	}
	return sum
}
