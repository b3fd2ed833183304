package monitor

import (
	"bufio"
	"io"
	"sync"
)

// ReaderSource adapts any io.Reader into a LineSource by scanning it
// line by line on a background goroutine. The channel closes when the
// reader is exhausted, fails, or the source is closed.
type ReaderSource struct {
	lines chan string
	done  chan struct{}
	once  sync.Once
}

// NewReaderSource starts scanning r immediately.
func NewReaderSource(r io.Reader) *ReaderSource {
	s := &ReaderSource{
		lines: make(chan string),
		done:  make(chan struct{}),
	}
	go func() {
		defer close(s.lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case s.lines <- scanner.Text():
			case <-s.done:
				return
			}
		}
	}()
	return s
}

// Lines implements LineSource.
func (s *ReaderSource) Lines() <-chan string {
	return s.lines
}

// Close releases the scanning goroutine. Call it when the monitor
// stops consuming before the reader is exhausted; otherwise the
// goroutine would block forever on its next send. Safe to call more
// than once.
func (s *ReaderSource) Close() {
	s.once.Do(func() { close(s.done) })
}
