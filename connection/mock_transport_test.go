package connection

import (
	"strings"
	"time"
)

// step is one scripted outcome of a Transport.Read call.
type step struct {
	data []byte
	err  error
}

func chunk(text string) step { return step{data: []byte(text)} }

func rawChunk(b []byte) step { return step{data: b} }

func timeout() step { return step{err: ErrReadTimeout} }

func readFail(err error) step { return step{err: err} }

// fakeTransport simulates a device shell. Reads pop from pending; an empty
// queue reads as a timeout (device has nothing to say). Each write of a
// command line enqueues the next scripted response for that command.
type fakeTransport struct {
	pending []step
	script  map[string][][]step
	writes  []string
	closed  bool
}

func newFakeTransport(banner ...step) *fakeTransport {
	return &fakeTransport{
		pending: banner,
		script:  make(map[string][][]step),
	}
}

// on programs the responses for the next occurrences of command, in order.
func (f *fakeTransport) on(command string, steps ...step) {
	f.script[command] = append(f.script[command], steps)
}

func (f *fakeTransport) Read(d time.Duration) ([]byte, error) {
	if len(f.pending) == 0 {
		return nil, ErrReadTimeout
	}
	next := f.pending[0]
	f.pending = f.pending[1:]
	if next.err != nil {
		return nil, next.err
	}
	return next.data, nil
}

func (f *fakeTransport) Write(p []byte) error {
	f.writes = append(f.writes, string(p))
	command := strings.TrimSuffix(string(p), "\n")
	if queue, ok := f.script[command]; ok && len(queue) > 0 {
		f.pending = append(f.pending, queue[0]...)
		f.script[command] = queue[1:]
	}
	return nil
}

func (f *fakeTransport) Close() error {
	f.closed = true
	return nil
}

// testSession builds a session over a fake transport without running the
// connect-time sequence.
func testSession(adapter *Adapter, ft *fakeTransport) *Session {
	return &Session{
		channel:  NewChannel(ft, adapter.Encoding, 10*time.Millisecond),
		adapter:  adapter,
		prompt:   adapter.OperationalPrompt,
		opPrompt: adapter.OperationalPrompt,
	}
}
