package terminal

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/drunlade/go-dumb/xmodem"
)

// fakeLine is an in-memory line. Data sent to in arrives as line input; Read
// honors the read timeout the way a serial port does.
type fakeLine struct {
	in chan []byte

	mu      sync.Mutex
	pending []byte
	written bytes.Buffer
	timeout int
	flushes int
}

func newFakeLine() *fakeLine {
	return &fakeLine{in: make(chan []byte, 16)}
}

func (l *fakeLine) Read(p []byte) (int, error) {
	l.mu.Lock()
	if len(l.pending) > 0 {
		n := copy(p, l.pending)
		l.pending = l.pending[n:]
		l.mu.Unlock()
		return n, nil
	}
	tenths := l.timeout
	l.mu.Unlock()

	var expired <-chan time.Time
	if tenths > 0 {
		expired = time.After(time.Duration(tenths) * 100 * time.Millisecond)
	}
	select {
	case b := <-l.in:
		n := copy(p, b)
		if n < len(b) {
			l.mu.Lock()
			l.pending = append(l.pending, b[n:]...)
			l.mu.Unlock()
		}
		return n, nil
	case <-expired:
		return 0, nil
	}
}

func (l *fakeLine) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.written.Write(p)
}

func (l *fakeLine) Written() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.written.String()
}

func (l *fakeLine) SetReadTimeout(tenths int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.timeout = tenths
	return nil
}

func (l *fakeLine) ReadTimeout() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.timeout
}

func (l *fakeLine) FlushInput() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending = nil
	l.flushes++
	return nil
}

var _ xmodem.Channel = (*fakeLine)(nil)

// syncBuffer is a bytes.Buffer safe for use from the Mux goroutine and the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// fakePrompter answers prompts from a script; an exhausted script is io.EOF.
type fakePrompter struct {
	mu      sync.Mutex
	answers []string
	prompts []string
}

func (p *fakePrompter) PromptLine(prompt string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prompts = append(p.prompts, prompt)
	if len(p.answers) == 0 {
		return "", io.EOF
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

func (p *fakePrompter) Prompts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.prompts...)
}

// fakeTransfer records sends and whether the line pump was parked during them.
type fakeTransfer struct {
	mu     sync.Mutex
	mux    *Mux
	paths  []string
	parked []bool
	err    error

	// started and finish, when set, let a test hold a send open.
	started chan struct{}
	finish  chan struct{}
}

func (f *fakeTransfer) SendFile(ctx context.Context, line xmodem.Channel, path string) (*xmodem.Summary, error) {
	parked := !f.mux.linePump.mu.TryLock()
	if !parked {
		f.mux.linePump.mu.Unlock()
	}
	if f.started != nil {
		close(f.started)
		<-f.finish
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, path)
	f.parked = append(f.parked, parked)
	if f.err != nil {
		return nil, f.err
	}
	return &xmodem.Summary{Packets: 3, Bytes: 300}, nil
}

func (f *fakeTransfer) Paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.paths...)
}

// fakeRunner records remote commands.
type fakeRunner struct {
	mu       sync.Mutex
	commands []string
}

func (r *fakeRunner) RunRemoteCommand(ctx context.Context, line xmodem.Channel, command string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, command)
	_, err := io.WriteString(line, "ran:"+command)
	return err
}

func (r *fakeRunner) Commands() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.commands...)
}

var errBoom = errors.New("boom")
