// Package report projects a finished monitoring run into the
// persisted result document.
package report

import (
	"github.com/rttmon/rttmon/model"
	"github.com/rttmon/rttmon/monitor"
)

// Render builds the result document from a terminal snapshot. It is a
// pure projection: no I/O, and the snapshot is not mutated. Where the
// result is written is the caller's concern.
func Render(snap *monitor.Snapshot, outcome monitor.Outcome) *model.Result {
	results := make(map[string]*model.TestRecord, len(snap.Tests))
	for _, name := range snap.Order {
		rec := snap.Tests[name]
		results[name] = &rec
	}
	return &model.Result{
		Outcome:     string(outcome),
		TestResults: results,
		LogBuffer:   snap.LogBuffer,
		Summary:     snap.Totals(),
	}
}

// Succeeded reports whether the run should exit zero: a completed
// outcome with no failed tests.
func Succeeded(res *model.Result, outcome monitor.Outcome) bool {
	return outcome == monitor.OutcomeCompleted && res.Summary.FailedTests == 0
}
