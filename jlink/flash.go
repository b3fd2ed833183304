package jlink

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// FlashOptions describes a firmware programming operation.
type FlashOptions struct {
	Options
	// Path to the firmware image to load
	Firmware string
}

// flashBinary is the J-Link commander executable name.
const flashBinary = "JLinkExe"

// Flash programs the firmware image onto the target by driving
// JLinkExe with a generated command script: reset, load, reset, go,
// quit. There is no retry; a failed flash is reported as-is.
func Flash(logger zerolog.Logger, opts FlashOptions) error {
	if opts.Firmware == "" {
		return fmt.Errorf("no firmware image specified")
	}
	if _, err := os.Stat(opts.Firmware); err != nil {
		return fmt.Errorf("firmware image not found: %w", err)
	}

	script := strings.Join([]string{
		"r",
		"loadfile " + opts.Firmware,
		"r",
		"g",
		"qc",
		"",
	}, "\n")

	scriptPath := filepath.Join(os.TempDir(), fmt.Sprintf("rttmon-flash-%d.jlink", os.Getpid()))
	if err := os.WriteFile(scriptPath, []byte(script), 0644); err != nil {
		return fmt.Errorf("failed to write flash script: %w", err)
	}
	defer os.Remove(scriptPath)

	args := []string{
		"-Device", opts.Device,
		"-If", opts.Interface,
		"-Speed", fmt.Sprintf("%d", opts.Speed),
		"-AutoConnect", "1",
		"-CommandFile", scriptPath,
	}

	logger.Info().
		Str("device", opts.Device).
		Str("firmware", opts.Firmware).
		Str("command", renderCommand(flashBinary, args)).
		Msg("Flashing firmware")

	cmd := exec.Command(flashBinary, args...)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		logger.Error().Str("output", output.String()).Msg("Flash failed")
		if exitErr, ok := err.(*exec.ExitError); ok {
			return fmt.Errorf("flash failed with exit code %d", exitErr.ExitCode())
		}
		return fmt.Errorf("failed to run %s (is the J-Link software installed?): %w", flashBinary, err)
	}

	logger.Info().Msg("Firmware flashed")
	return nil
}
