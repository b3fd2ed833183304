package cli

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/rttmon/rttmon/history"
	"github.com/rttmon/rttmon/model"
)

func TestDisplayRun_ShortID(t *testing.T) {
	// A hand-edited or legacy run.json can carry an ID shorter than
	// the displayed prefix; view must truncate, not panic.
	root := t.TempDir()
	run := &model.Run{
		ID:        "ab12",
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Outcome:   "completed",
		Summary:   model.Summary{TotalTests: 1, PassedTests: 1},
	}
	duration := uint64(120)
	result := &model.Result{
		Outcome: "completed",
		TestResults: map[string]*model.TestRecord{
			"T1": {Name: "T1", Status: model.StatusPass, DurationMS: &duration},
		},
		Summary: model.Summary{TotalTests: 1, PassedTests: 1},
	}
	runDir, err := history.SaveRun(root, run, result)
	require.NoError(t, err)

	a := &App{logger: zerolog.Nop()}
	entry := &history.Entry{Run: *run, FullPath: runDir}
	require.NoError(t, a.displayRun(entry))
}
