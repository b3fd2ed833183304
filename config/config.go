// Package config loads run defaults from an optional .rttmon.toml
// file. Command-line flags always win over file values.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// FileName is the config file looked up in the working directory.
const FileName = ".rttmon.toml"

// Config holds the file-supplied defaults for a run.
type Config struct {
	// Target device identifier (e.g. "STM32F407VG")
	Device string `toml:"device"`
	// Firmware image to flash before monitoring
	Firmware string `toml:"firmware"`
	// Debug interface name
	Interface string `toml:"interface"`
	// Debug interface speed in kHz
	Speed int `toml:"speed"`
	// Monitor timeout in seconds
	TimeoutSeconds int `toml:"timeout_seconds"`
	// Additional completion expressions, same syntax as --complete-when
	CompleteWhen []string `toml:"complete_when"`
}

// Defaults match the original host tooling.
func Defaults() Config {
	return Config{
		Interface:      "SWD",
		Speed:          4000,
		TimeoutSeconds: 60,
	}
}

// Load reads path if it exists and merges it over the defaults. A
// missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if cfg.Interface == "" {
		cfg.Interface = Defaults().Interface
	}
	if cfg.Speed <= 0 {
		cfg.Speed = Defaults().Speed
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = Defaults().TimeoutSeconds
	}
	return cfg, nil
}
