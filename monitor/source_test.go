package monitor

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReaderSource_StreamsAllLines(t *testing.T) {
	src := NewReaderSource(strings.NewReader("one\ntwo\nthree\n"))
	defer src.Close()

	var got []string
	for line := range src.Lines() {
		got = append(got, line)
	}
	require.Equal(t, []string{"one", "two", "three"}, got)
}

func TestReaderSource_CloseUnblocksScanner(t *testing.T) {
	// The consumer stops reading with lines still pending; Close must
	// give the scanning goroutine an exit path, observable as the
	// line channel closing instead of stalling forever.
	src := NewReaderSource(strings.NewReader("one\ntwo\nthree\n"))
	require.Equal(t, "one", <-src.Lines())

	src.Close()

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for range src.Lines() {
		}
	}()

	select {
	case <-drained:
	case <-time.After(time.Second):
		t.Fatal("line channel did not close after Close")
	}
}

func TestReaderSource_CloseIdempotent(t *testing.T) {
	src := NewReaderSource(strings.NewReader(""))
	src.Close()
	src.Close()
}
