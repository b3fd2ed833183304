// Package history persists and loads monitoring run records under
// the .rttmon directory.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/rttmon/rttmon/model"
)

const dirName = ".rttmon"

// Entry is one persisted run with its on-disk location.
type Entry struct {
	Run      model.Run
	FullPath string
}

// Root returns the .rttmon directory under the current working
// directory, creating it if needed.
func Root() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to determine working directory: %w", err)
	}
	root := filepath.Join(cwd, dirName)
	if err := os.MkdirAll(root, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", root, err)
	}
	return root, nil
}

// SaveRun writes run.json and result.json into a per-run directory
// named <unix-ms>_<id> and returns the directory path.
func SaveRun(root string, run *model.Run, result *model.Result) (string, error) {
	runDir := filepath.Join(root, fmt.Sprintf("%d_%s", run.Timestamp.UnixMilli(), run.ID))
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create run directory: %w", err)
	}

	if err := writeJSON(filepath.Join(runDir, "run.json"), run); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "result.json"), result); err != nil {
		return "", err
	}
	return runDir, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// LoadEntries loads all run records under root. Unparseable entries
// are skipped with a warning rather than failing the whole listing.
func LoadEntries(logger zerolog.Logger, root string) ([]Entry, error) {
	var entries []Entry

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}

		runPath := filepath.Join(path, "run.json")
		if _, err := os.Stat(runPath); err != nil {
			return nil
		}

		run, err := parseRunJSON(runPath)
		if err != nil {
			logger.Warn().Err(err).Str("path", runPath).Msg("Failed to parse run.json")
			return nil
		}
		entries = append(entries, Entry{Run: run, FullPath: path})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	return entries, nil
}

// LoadResult reads the result document stored in a run directory.
func LoadResult(runDir string) (*model.Result, error) {
	data, err := os.ReadFile(filepath.Join(runDir, "result.json"))
	if err != nil {
		return nil, err
	}
	var result model.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse result.json: %w", err)
	}
	return &result, nil
}

func parseRunJSON(path string) (model.Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Run{}, err
	}
	var run model.Run
	if err := json.Unmarshal(data, &run); err != nil {
		return model.Run{}, err
	}
	return run, nil
}
