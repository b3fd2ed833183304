// Package jlink drives the SEGGER J-Link host tools: it flashes
// firmware with JLinkExe and exposes the RTT output of JLinkRTTClient
// as a line source for the monitor.
package jlink

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"al.essio.dev/pkg/shellescape"
	"github.com/rs/zerolog"
)

// Options selects the target device and probe settings.
type Options struct {
	// Device identifier understood by the J-Link tools (e.g. "STM32F407VG")
	Device string
	// Debug interface name, typically "SWD"
	Interface string
	// Interface speed in kHz
	Speed int
}

// Client wraps a running JLinkRTTClient process and turns its stdout
// into a channel of lines. The client owns the process; consumers
// only read lines and must tolerate the channel stalling or closing
// at any point.
type Client struct {
	logger zerolog.Logger
	cmd    *exec.Cmd
	lines  chan string
	done   chan struct{}
	once   sync.Once
}

// rttClientBinary is the J-Link RTT client executable name.
const rttClientBinary = "JLinkRTTClient"

// Connect starts the RTT client and begins streaming its output.
func Connect(logger zerolog.Logger, opts Options) (*Client, error) {
	args := []string{
		"-Device", opts.Device,
		"-If", opts.Interface,
		"-Speed", fmt.Sprintf("%d", opts.Speed),
	}
	cmd := exec.Command(rttClientBinary, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open RTT client stdout: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s (is the J-Link software installed?): %w", rttClientBinary, err)
	}

	logger.Info().
		Str("device", opts.Device).
		Str("command", renderCommand(rttClientBinary, args)).
		Msg("Started J-Link RTT client")

	c := &Client{
		logger: logger,
		cmd:    cmd,
		lines:  make(chan string),
		done:   make(chan struct{}),
	}
	go c.stream(stdout)

	return c, nil
}

// stream scans r into the line channel until the reader is exhausted
// or the client is closed. The done channel gives the goroutine an
// exit path when the consumer stops reading with lines still pending.
func (c *Client) stream(r io.Reader) {
	defer close(c.lines)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case c.lines <- scanner.Text():
		case <-c.done:
			return
		}
	}
	if err := scanner.Err(); err != nil {
		c.logger.Warn().Err(err).Msg("RTT stream read error")
	}
}

// Lines implements monitor.LineSource. The channel closes when the
// RTT client terminates.
func (c *Client) Lines() <-chan string {
	return c.lines
}

// Close releases the stream goroutine and terminates the RTT client,
// escalating to SIGKILL if it does not exit within the grace period.
func (c *Client) Close() error {
	c.once.Do(func() { close(c.done) })

	if c.cmd == nil || c.cmd.Process == nil {
		return nil
	}
	if err := c.cmd.Process.Signal(termSignal); err != nil {
		c.logger.Debug().Err(err).Msg("Failed to signal RTT client")
	}

	done := make(chan error, 1)
	go func() { done <- c.cmd.Wait() }()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		c.logger.Warn().Msg("RTT client did not exit, killing")
		if err := c.cmd.Process.Kill(); err != nil {
			return fmt.Errorf("failed to kill RTT client: %w", err)
		}
		<-done
	}

	c.logger.Info().Msg("RTT client stopped")
	return nil
}

// renderCommand formats an executable and its arguments as a
// shell-safe string for log output.
func renderCommand(bin string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, bin)
	for _, arg := range args {
		parts = append(parts, shellescape.Quote(arg))
	}
	return strings.Join(parts, " ")
}
