package rttwire

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rttmon/rttmon/model"
)

// Event is one parsed wire-format line. Exactly one of the concrete
// event types is returned per line; unrecognized lines parse to nil.
type Event interface {
	isEvent()
}

// LogEvent is a free-text log line with a level and target timestamp.
type LogEvent struct {
	// Target-side tick counter from the bracketed timestamp field
	Ticks uint64
	Level string
	Text  string
}

// StatusEvent is a test lifecycle transition for a named test.
type StatusEvent struct {
	Status   model.TestStatus
	TestName string
}

// ResultEvent is a final verdict with measured duration for a named test.
type ResultEvent struct {
	TestName   string
	Passed     bool
	DurationMS uint64
}

// SummaryEvent is the target's own count of executed tests. It is
// advisory: the monitor derives its counts from tracked state.
type SummaryEvent struct {
	Total  int
	Passed int
	Failed int
}

func (LogEvent) isEvent()     {}
func (StatusEvent) isEvent()  {}
func (ResultEvent) isEvent()  {}
func (SummaryEvent) isEvent() {}

// logLinePattern matches "[<8-digit-ts>] [<LEVEL>] <text>".
var logLinePattern = regexp.MustCompile(`^\[(\d{8})\] \[(ERROR|WARN|INFO|DEBUG)\] (.*)$`)

// ParseLine classifies one line of RTT output. Parsing is stateless
// and line-local: a malformed structured-looking line returns nil
// rather than an error, so noise on the stream is ignored, never
// rejected.
//
// Field separators are literal ':'. Test names may themselves contain
// ':', so STATUS lines split only on the first two separators (the
// remainder is the name) and RESULT lines take the verdict and
// duration from the last two fields.
func ParseLine(line string) Event {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	switch {
	case strings.HasPrefix(line, "STATUS:"):
		if ev := parseStatus(line); ev != nil {
			return ev
		}
	case strings.HasPrefix(line, "RESULT:"):
		if ev := parseResult(line); ev != nil {
			return ev
		}
	case strings.HasPrefix(line, "SUMMARY:"):
		if ev := parseSummary(line); ev != nil {
			return ev
		}
	}

	if m := logLinePattern.FindStringSubmatch(line); m != nil {
		ticks, err := strconv.ParseUint(m[1], 10, 64)
		if err != nil {
			return nil
		}
		return LogEvent{Ticks: ticks, Level: m[2], Text: m[3]}
	}

	return nil
}

// parseStatus parses "STATUS:<STATUS>:<name>".
func parseStatus(line string) Event {
	parts := strings.SplitN(line, ":", 3)
	if len(parts) != 3 || parts[2] == "" {
		return nil
	}
	status := model.TestStatus(parts[1])
	if !status.Valid() {
		return nil
	}
	return StatusEvent{Status: status, TestName: parts[2]}
}

// parseResult parses "RESULT:<name>:<PASS|FAIL>:<duration_ms>".
func parseResult(line string) Event {
	rest := strings.TrimPrefix(line, "RESULT:")

	// Duration is the last field, verdict the second to last; whatever
	// sits in between is the name, colons and all.
	lastSep := strings.LastIndex(rest, ":")
	if lastSep < 0 {
		return nil
	}
	duration, err := strconv.ParseUint(rest[lastSep+1:], 10, 64)
	if err != nil {
		return nil
	}

	rest = rest[:lastSep]
	verdictSep := strings.LastIndex(rest, ":")
	if verdictSep < 0 {
		return nil
	}
	verdict := rest[verdictSep+1:]
	name := rest[:verdictSep]
	if name == "" {
		return nil
	}

	switch verdict {
	case "PASS":
		return ResultEvent{TestName: name, Passed: true, DurationMS: duration}
	case "FAIL":
		return ResultEvent{TestName: name, Passed: false, DurationMS: duration}
	}
	return nil
}

// parseSummary parses "SUMMARY:<total>:<passed>:<failed>".
func parseSummary(line string) Event {
	parts := strings.Split(line, ":")
	if len(parts) != 4 {
		return nil
	}
	nums := make([]int, 3)
	for i, field := range parts[1:] {
		n, err := strconv.Atoi(field)
		if err != nil || n < 0 {
			return nil
		}
		nums[i] = n
	}
	return SummaryEvent{Total: nums[0], Passed: nums[1], Failed: nums[2]}
}
