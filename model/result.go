package model

import "time"

// TestStatus is the lifecycle state of a single test case, named after
// the wire-format status tokens the target emits.
type TestStatus string

const (
	StatusInit     TestStatus = "TEST_INIT"
	StatusRunning  TestStatus = "TEST_RUNNING"
	StatusPass     TestStatus = "TEST_PASS"
	StatusFail     TestStatus = "TEST_FAIL"
	StatusComplete TestStatus = "TEST_COMPLETE"
)

// Terminal reports whether no further transition is expected for a
// test in this status. Nothing structurally forbids a later event
// from overwriting a terminal status.
func (s TestStatus) Terminal() bool {
	return s == StatusPass || s == StatusFail
}

// Valid reports whether s is one of the defined wire-format statuses.
func (s TestStatus) Valid() bool {
	switch s {
	case StatusInit, StatusRunning, StatusPass, StatusFail, StatusComplete:
		return true
	}
	return false
}

// TestRecord is the tracked state of one test case, keyed by name.
// The target can legitimately re-run a name; the record always
// reflects the most recently observed event, not attempt history.
type TestRecord struct {
	// Test name as reported by the target (unique key)
	Name string `json:"name"`
	// Most recently observed status
	Status TestStatus `json:"status"`
	// Duration reported by a RESULT event, nil until one arrives
	DurationMS *uint64 `json:"duration_ms"`
	// When this name was first seen (monitor clock, not target clock)
	FirstSeenAt time.Time `json:"timestamp"`
	// When the record was last touched by an event
	LastUpdatedAt time.Time `json:"last_updated_at"`
	// Log lines attributed to this test while it was running (best-effort)
	LogMessages []string `json:"log_messages"`
}

// LogEntry is one raw captured line with the monitor-local time it
// arrived. Every line is kept, whether or not it parsed as an event.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Raw       string    `json:"raw"`
}

// Summary holds the derived test counts computed at snapshot time.
type Summary struct {
	TotalTests  int `json:"total_tests"`
	PassedTests int `json:"passed_tests"`
	FailedTests int `json:"failed_tests"`
}

// Result is the persisted document for one monitoring run.
type Result struct {
	// Terminal outcome of the run ("completed" or "timed_out")
	Outcome string `json:"outcome"`
	// Per-test records keyed by test name
	TestResults map[string]*TestRecord `json:"test_results"`
	// Every raw line captured during the run, in arrival order
	LogBuffer []LogEntry `json:"log_buffer"`
	// Counts derived from the terminal statuses in TestResults
	Summary Summary `json:"summary"`
}
