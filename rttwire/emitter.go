package rttwire

import (
	"fmt"
	"io"
	"sync/atomic"
)

// Log levels in wire-format order.
const (
	LevelError = "ERROR"
	LevelWarn  = "WARN"
	LevelInfo  = "INFO"
	LevelDebug = "DEBUG"
)

// Emitter writes wire-format lines the way the target firmware does:
// one newline-terminated event per line, best-effort (write errors
// are ignored, matching the target's non-blocking RTT buffer).
type Emitter struct {
	w     io.Writer
	ticks atomic.Uint64
}

// NewEmitter returns an Emitter writing to w.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{w: w}
}

// Log writes a "[<8-digit-ts>] [<LEVEL>] <text>" line. The timestamp
// is a free-running tick counter, zero-padded to eight digits.
func (e *Emitter) Log(level, format string, args ...any) {
	tick := e.ticks.Add(1) - 1
	fmt.Fprintf(e.w, "[%08d] [%s] %s\n", tick, level, fmt.Sprintf(format, args...))
}

// Status writes a "STATUS:<STATUS>:<name>" line.
func (e *Emitter) Status(status, testName string) {
	fmt.Fprintf(e.w, "STATUS:%s:%s\n", status, testName)
}

// Result writes a "RESULT:<name>:<PASS|FAIL>:<duration_ms>" line.
func (e *Emitter) Result(testName string, passed bool, durationMS uint64) {
	verdict := "FAIL"
	if passed {
		verdict = "PASS"
	}
	fmt.Fprintf(e.w, "RESULT:%s:%s:%d\n", testName, verdict, durationMS)
}

// Summary writes a "SUMMARY:<total>:<passed>:<failed>" line.
func (e *Emitter) Summary(total, passed, failed int) {
	fmt.Fprintf(e.w, "SUMMARY:%d:%d:%d\n", total, passed, failed)
}
