package cli

// This file contains the run and monitor commands: connecting the
// line source, driving the monitor loop, and recording the result.

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/rttmon/rttmon/config"
	"github.com/rttmon/rttmon/history"
	"github.com/rttmon/rttmon/jlink"
	"github.com/rttmon/rttmon/model"
	"github.com/rttmon/rttmon/monitor"
	"github.com/rttmon/rttmon/report"
)

// runSettings is the merged flag/config view one run operates on.
type runSettings struct {
	device       string
	firmware     string
	probeIface   string
	speed        int
	timeout      time.Duration
	completeWhen []string
	output       string
}

// settings merges the config file with command-line flags; flags win.
func (a *App) settings(ctx *cli.Context) (runSettings, error) {
	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return runSettings{}, err
	}

	s := runSettings{
		device:       cfg.Device,
		firmware:     cfg.Firmware,
		probeIface:   cfg.Interface,
		speed:        cfg.Speed,
		timeout:      time.Duration(cfg.TimeoutSeconds) * time.Second,
		completeWhen: append([]string(nil), cfg.CompleteWhen...),
	}
	if ctx.IsSet("device") {
		s.device = ctx.String("device")
	}
	if ctx.IsSet("firmware") {
		s.firmware = ctx.String("firmware")
	}
	if ctx.IsSet("interface") {
		s.probeIface = ctx.String("interface")
	}
	if ctx.IsSet("speed") {
		s.speed = ctx.Int("speed")
	}
	if ctx.IsSet("timeout") {
		s.timeout = time.Duration(ctx.Int("timeout")) * time.Second
	}
	s.completeWhen = append(s.completeWhen, ctx.StringSlice("complete-when")...)
	s.output = ctx.String("output")
	return s, nil
}

func (a *App) run(ctx *cli.Context) error {
	s, err := a.settings(ctx)
	if err != nil {
		return err
	}
	if s.device == "" {
		return fmt.Errorf("no device specified: use --device or set it in %s", config.FileName)
	}

	probeOpts := jlink.Options{
		Device:    s.device,
		Interface: s.probeIface,
		Speed:     s.speed,
	}

	if s.firmware != "" {
		if err := jlink.Flash(a.logger, jlink.FlashOptions{Options: probeOpts, Firmware: s.firmware}); err != nil {
			return err
		}
	}

	client, err := jlink.Connect(a.logger, probeOpts)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("Failed to stop RTT client")
		}
	}()

	return a.runMonitor(ctx, s, client)
}

func (a *App) monitorStdin(ctx *cli.Context) error {
	s, err := a.settings(ctx)
	if err != nil {
		return err
	}
	src := monitor.NewReaderSource(os.Stdin)
	defer src.Close()
	return a.runMonitor(ctx, s, src)
}

// runMonitor drives one monitoring run over src and records the
// outcome. The exit code is 0 only for a completed run with no
// failed tests.
func (a *App) runMonitor(ctx *cli.Context, s runSettings, src monitor.LineSource) error {
	opts := []monitor.Option{monitor.WithLogger(a.logger)}
	for _, expression := range s.completeWhen {
		pred, err := monitor.CompileExprPredicate(expression)
		if err != nil {
			return err
		}
		a.logger.Debug().Str("expression", expression).Msg("Registered completion predicate")
		opts = append(opts, monitor.WithExtraPredicates(pred))
	}

	m, err := monitor.New(src, opts...)
	if err != nil {
		return err
	}

	startTime := time.Now()
	a.logger.Info().
		Dur("timeout", s.timeout).
		Msg("Monitoring until completion or timeout")

	runCtx, cancel := context.WithTimeout(ctx.Context, s.timeout)
	defer cancel()

	outcome, snap := m.Run(runCtx)
	result := report.Render(snap, outcome)

	a.logger.Info().
		Str("outcome", string(outcome)).
		Int("total", result.Summary.TotalTests).
		Int("passed", result.Summary.PassedTests).
		Int("failed", result.Summary.FailedTests).
		Msg("Run finished")

	exitCode := 0
	if !report.Succeeded(result, outcome) {
		exitCode = 1
	}

	// Write the result to an explicit path if requested (non-fatal if
	// it fails)
	if s.output != "" {
		if err := writeResultFile(s.output, result); err != nil {
			a.logger.Warn().Err(err).Str("path", s.output).Msg("Failed to write result file")
		} else {
			a.logger.Info().Str("path", s.output).Msg("Result written")
		}
	}

	// Record the run (non-fatal if it fails)
	run := &model.Run{
		ID:        newRunID(),
		Timestamp: startTime,
		Args:      os.Args,
		Outcome:   string(outcome),
		ExitCode:  exitCode,
		Duration:  time.Since(startTime),
		Target: &model.Target{
			Device:         s.device,
			Firmware:       s.firmware,
			Interface:      s.probeIface,
			Speed:          s.speed,
			TimeoutSeconds: int(s.timeout / time.Second),
		},
		Summary: result.Summary,
	}
	if cwd, err := os.Getwd(); err == nil {
		run.WorkDir = cwd
	}
	if root, err := history.Root(); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to locate history directory")
	} else if runDir, err := history.SaveRun(root, run, result); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to record run")
	} else {
		a.logger.Info().Str("path", runDir).Msg("Results saved")
	}

	if exitCode != 0 {
		return cli.Exit(fmt.Sprintf("%s: %d/%d tests passed", outcome, result.Summary.PassedTests, result.Summary.TotalTests), exitCode)
	}
	return nil
}

// writeResultFile writes the result document as indented JSON.
func writeResultFile(path string, result *model.Result) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}

// newRunID returns a 12-byte random hex identifier.
func newRunID() string {
	idBytes := make([]byte, 12)
	if _, err := rand.Read(idBytes); err != nil {
		// Fall back to a timestamp-derived ID; collisions are harmless
		// because the run directory name also carries the timestamp.
		return fmt.Sprintf("%024x", time.Now().UnixNano())
	}
	return hex.EncodeToString(idBytes)
}
