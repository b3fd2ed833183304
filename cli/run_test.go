package cli

import (
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/rttmon/rttmon/model"
)

func settingsContext(t *testing.T, args ...string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range monitorFlags() {
		require.NoError(t, f.Apply(set))
	}
	require.NoError(t, set.Parse(args))
	return cli.NewContext(nil, set, nil)
}

func TestSettings_FlagsWinOverConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), ".rttmon.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
device = "nRF52840"
speed = 8000
complete_when = ["saw_complete"]
`), 0644))

	a := &App{logger: zerolog.Nop()}
	s, err := a.settings(settingsContext(t,
		"--config", cfgPath,
		"--device", "STM32F407VG",
		"--timeout", "5",
		"--complete-when", "failed > 0",
	))
	require.NoError(t, err)

	require.Equal(t, "STM32F407VG", s.device, "flag overrides config")
	require.Equal(t, 8000, s.speed, "config overrides default")
	require.Equal(t, "SWD", s.probeIface, "default survives")
	require.Equal(t, 5*time.Second, s.timeout)
	require.Equal(t, []string{"saw_complete", "failed > 0"}, s.completeWhen)
}

func TestSettings_MissingConfigUsesDefaults(t *testing.T) {
	a := &App{logger: zerolog.Nop()}
	s, err := a.settings(settingsContext(t,
		"--config", filepath.Join(t.TempDir(), "nope.toml"),
	))
	require.NoError(t, err)
	require.Equal(t, 60*time.Second, s.timeout)
	require.Equal(t, 4000, s.speed)
	require.Empty(t, s.device)
}

func TestSettings_Output(t *testing.T) {
	a := &App{logger: zerolog.Nop()}
	s, err := a.settings(settingsContext(t,
		"--config", filepath.Join(t.TempDir(), "nope.toml"),
		"--output", "results/latest.json",
	))
	require.NoError(t, err)
	require.Equal(t, "results/latest.json", s.output)
}

func TestWriteResultFile(t *testing.T) {
	duration := uint64(120)
	result := &model.Result{
		Outcome: "completed",
		TestResults: map[string]*model.TestRecord{
			"T1": {Name: "T1", Status: model.StatusPass, DurationMS: &duration},
		},
		LogBuffer: []model.LogEntry{{Raw: "RESULT:T1:PASS:120"}},
		Summary:   model.Summary{TotalTests: 1, PassedTests: 1},
	}

	path := filepath.Join(t.TempDir(), "latest.json")
	require.NoError(t, writeResultFile(path, result))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var loaded model.Result
	require.NoError(t, json.Unmarshal(data, &loaded))
	require.Equal(t, "completed", loaded.Outcome)
	require.Equal(t, model.StatusPass, loaded.TestResults["T1"].Status)
	require.Equal(t, uint64(120), *loaded.TestResults["T1"].DurationMS)
	require.Len(t, loaded.LogBuffer, 1)
}

func TestWriteResultFile_BadPath(t *testing.T) {
	err := writeResultFile(filepath.Join(t.TempDir(), "missing", "latest.json"), &model.Result{})
	require.Error(t, err)
}

func TestNewRunID(t *testing.T) {
	id := newRunID()
	require.Len(t, id, 24)
	require.NotEqual(t, id, newRunID())
}
