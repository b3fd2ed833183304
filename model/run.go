package model

import "time"

// Run is the metadata record written alongside each persisted result.
type Run struct {
	// Unique ID for this run (12 random bytes, hex encoded)
	ID string `json:"id"`
	// Timestamp when the run started
	Timestamp time.Time `json:"timestamp"`
	// Command-line arguments (including command name)
	Args []string `json:"args"`
	// Working directory where the run was started
	WorkDir string `json:"workdir"`
	// Terminal outcome ("completed" or "timed_out")
	Outcome string `json:"outcome"`
	// Exit code reported to the shell
	ExitCode int `json:"exit_code"`
	// Wall-clock duration of the run
	Duration time.Duration `json:"duration"`
	// Target device and probe settings
	Target *Target `json:"target,omitempty"`
	// Summary copied from the result document for cheap listing
	Summary Summary `json:"summary"`
}

// Target describes the device and debug-probe settings a run used.
type Target struct {
	// Device identifier passed to the debug probe (e.g. "STM32F407VG")
	Device string `json:"device,omitempty"`
	// Firmware image that was flashed, if any
	Firmware string `json:"firmware,omitempty"`
	// Debug interface name (e.g. "SWD")
	Interface string `json:"interface,omitempty"`
	// Debug interface speed in kHz
	Speed int `json:"speed,omitempty"`
	// Monitor timeout in seconds
	TimeoutSeconds int `json:"timeout_seconds,omitempty"`
}
