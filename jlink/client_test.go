package jlink

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newStreamClient(input string) *Client {
	c := &Client{
		logger: zerolog.Nop(),
		lines:  make(chan string),
		done:   make(chan struct{}),
	}
	go c.stream(strings.NewReader(input))
	return c
}

func TestClient_StreamDeliversLines(t *testing.T) {
	c := newStreamClient("STATUS:TEST_RUNNING:T1\nRESULT:T1:PASS:120\n")
	defer c.Close()

	var got []string
	for line := range c.Lines() {
		got = append(got, line)
	}
	require.Equal(t, []string{"STATUS:TEST_RUNNING:T1", "RESULT:T1:PASS:120"}, got)
}

func TestClient_CloseUnblocksStream(t *testing.T) {
	// The monitor can stop consuming with lines still pending; Close
	// must release the stream goroutine, observable as the line
	// channel closing.
	c := newStreamClient("one\ntwo\nthree\n")
	require.Equal(t, "one", <-c.Lines())

	require.NoError(t, c.Close())

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for range c.Lines() {
		}
	}()

	select {
	case <-drained:
	case <-time.After(time.Second):
		t.Fatal("line channel did not close after Close")
	}
}

func TestClient_CloseWithoutProcess(t *testing.T) {
	c := newStreamClient("")
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}
