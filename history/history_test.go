package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/rttmon/rttmon/model"
)

func TestSaveAndLoadRun(t *testing.T) {
	root := t.TempDir()

	duration := uint64(120)
	run := &model.Run{
		ID:        "abc123def456",
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Args:      []string{"rttmon", "run", "--device", "STM32F407VG"},
		Outcome:   "completed",
		Target:    &model.Target{Device: "STM32F407VG", Interface: "SWD", Speed: 4000},
		Summary:   model.Summary{TotalTests: 1, PassedTests: 1},
	}
	result := &model.Result{
		Outcome: "completed",
		TestResults: map[string]*model.TestRecord{
			"T1": {Name: "T1", Status: model.StatusPass, DurationMS: &duration},
		},
		LogBuffer: []model.LogEntry{{Timestamp: run.Timestamp, Raw: "RESULT:T1:PASS:120"}},
		Summary:   model.Summary{TotalTests: 1, PassedTests: 1},
	}

	runDir, err := SaveRun(root, run, result)
	require.NoError(t, err)
	require.DirExists(t, runDir)

	entries, err := LoadEntries(zerolog.Nop(), root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, run.ID, entries[0].Run.ID)
	require.Equal(t, "STM32F407VG", entries[0].Run.Target.Device)

	loaded, err := LoadResult(entries[0].FullPath)
	require.NoError(t, err)
	require.Equal(t, model.StatusPass, loaded.TestResults["T1"].Status)
	require.Equal(t, uint64(120), *loaded.TestResults["T1"].DurationMS)
}

func TestLoadEntries_SkipsCorruptRun(t *testing.T) {
	root := t.TempDir()

	badDir := filepath.Join(root, "1_bad")
	require.NoError(t, os.MkdirAll(badDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(badDir, "run.json"), []byte("{not json"), 0644))

	run := &model.Run{ID: "good", Timestamp: time.Now()}
	_, err := SaveRun(root, run, &model.Result{})
	require.NoError(t, err)

	entries, err := LoadEntries(zerolog.Nop(), root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "good", entries[0].Run.ID)
}
