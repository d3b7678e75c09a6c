package terminal

import (
	"context"
	"io"
	"os/exec"
	"sync"

	"github.com/drunlade/go-dumb/xmodem"
)

// RemoteRunner runs a local command whose standard input and output are the
// line, so it talks to the remote device directly.
type RemoteRunner interface {
	RunRemoteCommand(ctx context.Context, line xmodem.Channel, command string) error
}

// ShellRunner runs commands with "<shell> -c".
type ShellRunner struct {
	Shell  string
	Stderr io.Writer

	// PollTimeout bounds each line read while relaying to the command,
	// in tenths of seconds.
	PollTimeout int
}

// RunRemoteCommand blocks until the command exits. Line input is relayed to
// the command until then; nothing reads the line once it returns.
func (r *ShellRunner) RunRemoteCommand(ctx context.Context, line xmodem.Channel, command string) error {
	saved := line.ReadTimeout()
	if err := line.SetReadTimeout(positive(r.PollTimeout, 1)); err != nil {
		return err
	}
	defer line.SetReadTimeout(saved)

	cmd := exec.CommandContext(ctx, r.Shell, "-c", command)
	cmd.Stdout = line
	cmd.Stderr = r.Stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return err
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		relay(line, stdin, done)
	}()

	err = cmd.Wait()
	close(done)
	wg.Wait()
	return err
}

// relay copies line input to w until done is closed or either side fails.
func relay(line io.Reader, w io.Writer, done <-chan struct{}) {
	buf := make([]byte, 256)
	for {
		select {
		case <-done:
			return
		default:
		}
		n, err := line.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return
			}
		}
		if err != nil && err != io.EOF {
			return
		}
	}
}

func positive(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
