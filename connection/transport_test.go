package connection

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMethods(t *testing.T) {
	t.Run("password auth also offers keyboard-interactive", func(t *testing.T) {
		methods, err := authMethods(TransportConfig{Username: "admin", Password: "secret"})
		require.NoError(t, err)
		assert.Len(t, methods, 2)
	})

	t.Run("agent auth requires SSH_AUTH_SOCK", func(t *testing.T) {
		t.Setenv("SSH_AUTH_SOCK", "")
		_, err := authMethods(TransportConfig{Username: "admin", UseAgent: true})
		assert.True(t, IsCode(err, ErrCodeAuthFailed))
	})
}

// endlessReader never runs out of data.
type endlessReader struct{}

func (endlessReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 'x'
	}
	return len(p), nil
}

func newPumpedTransport(stdout io.Reader, buffered int) *SSHTransport {
	tr := &SSHTransport{
		chunks:  make(chan []byte, buffered),
		readErr: make(chan error, 1),
		done:    make(chan struct{}),
	}
	go tr.pump(stdout)
	return tr
}

func TestReadAfterStreamEnd(t *testing.T) {
	tr := newPumpedTransport(strings.NewReader("hello"), 64)

	data, err := tr.Read(time.Second)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	_, err = tr.Read(time.Second)
	assert.ErrorIs(t, err, io.EOF)

	// the terminal error is latched: later reads return it within the
	// bounded wait instead of blocking on the drained error channel
	for i := 0; i < 3; i++ {
		start := time.Now()
		_, err = tr.Read(50 * time.Millisecond)
		assert.ErrorIs(t, err, io.EOF)
		assert.Less(t, time.Since(start), 500*time.Millisecond)
	}
}

func TestPumpStopsWhenTransportCloses(t *testing.T) {
	tr := &SSHTransport{
		chunks:  make(chan []byte, 1),
		readErr: make(chan error, 1),
		done:    make(chan struct{}),
	}
	released := make(chan struct{})
	go func() {
		tr.pump(endlessReader{})
		close(released)
	}()

	// let the chunk buffer fill so the pump parks on the send
	time.Sleep(20 * time.Millisecond)
	tr.closeOnce.Do(func() { close(tr.done) })

	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("pump goroutine still blocked after close")
	}
}
