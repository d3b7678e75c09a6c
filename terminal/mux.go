// Package terminal connects the console to a serial line.
//
// The Mux relays bytes both ways and watches console input for an escape
// character that opens a one-shot command menu: send a file with XMODEM,
// run a local command against the line, send a typed line, toggle
// timestamps, or quit.
package terminal

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/drunlade/go-dumb/xmodem"
)

// Buffer sizes of a single console or line read.
const (
	consoleChunk = 40
	lineChunk    = 256
)

// idleTimeout bounds each line read while multiplexing, in tenths of seconds.
// It is also how long a command waits to take the line.
const idleTimeout = 1

// Transferer sends a file over the line.
type Transferer interface {
	SendFile(ctx context.Context, line xmodem.Channel, path string) (*xmodem.Summary, error)
}

// Mux owns the interactive session: it relays console input to the line and
// line output to the console, and runs escape commands.
type Mux struct {
	session *Session

	// I/O
	line    xmodem.Channel
	console io.Reader
	out     io.Writer

	// Collaborators
	prompter Prompter
	messages io.Writer
	runner   RemoteRunner
	transfer Transferer
	history  *History
	shell    string

	clock  func() time.Time
	logger xmodem.Logger

	consolePump *pump
	linePump    *pump
	typed       *pumpReader
	handlers    map[Command]func(ctx context.Context) (bool, error)
}

// Option configures a Mux.
type Option func(*Mux)

// WithPrompter replaces the line editor used for command prompts.
// Messages to the operator are then written to out.
func WithPrompter(p Prompter) Option {
	return func(m *Mux) {
		m.prompter = p
	}
}

// WithRemoteRunner sets the runner for the remote command key.
func WithRemoteRunner(r RemoteRunner) Option {
	return func(m *Mux) {
		m.runner = r
	}
}

// WithShell sets the shell the default remote runner uses.
func WithShell(shell string) Option {
	return func(m *Mux) {
		m.shell = shell
	}
}

// WithTransferer sets how files are sent.
func WithTransferer(t Transferer) Option {
	return func(m *Mux) {
		m.transfer = t
	}
}

// WithHistory records prompted lines in h.
func WithHistory(h *History) Option {
	return func(m *Mux) {
		m.history = h
	}
}

// WithClock sets the time source for timestamps.
func WithClock(clock func() time.Time) Option {
	return func(m *Mux) {
		m.clock = clock
	}
}

// WithLogger sets a logger for session events.
func WithLogger(logger xmodem.Logger) Option {
	return func(m *Mux) {
		m.logger = logger
	}
}

// NewMux creates a Mux relaying between line and the console (console input
// from in, output to out). in must already deliver raw keystrokes.
func NewMux(session *Session, line xmodem.Channel, in io.Reader, out io.Writer, opts ...Option) *Mux {
	m := &Mux{
		session: session,
		line:    line,
		console: in,
		out:     out,
		history: NewHistory(""),
		shell:   "/bin/sh",
		clock:   time.Now,
		logger:  xmodem.NoopLogger(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.consolePump = newPump("console", m.console, consoleChunk)
	m.linePump = newPump("line", m.line, lineChunk)

	m.handlers = map[Command]func(ctx context.Context) (bool, error){
		CmdNone:            m.ignore,
		CmdLiteralEscape:   m.ignore,
		CmdToggleTimestamp: m.toggleTimestamp,
		CmdRemoteCommand:   m.remoteCommand,
		CmdSendFile:        m.sendFile,
		CmdSendLine:        m.sendLine,
		CmdExit:            m.exit,
	}

	return m
}

// Run multiplexes until the operator exits (nil), ctx is cancelled
// (ctx.Err()) or a console or line read fails (an ErrMultiplexWait error).
func (m *Mux) Run(ctx context.Context) error {
	if err := m.line.SetReadTimeout(idleTimeout); err != nil {
		return NewError(ErrMultiplexWait, "set line timeout", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if m.prompter == nil {
		m.typed = &pumpReader{ctx: ctx, p: m.consolePump}
		editor := NewLineEditor(m.typed, m.out)
		editor.Recall(m.history)
		m.prompter = editor
		m.messages = editor
	} else {
		m.messages = m.out
	}
	if m.runner == nil {
		m.runner = &ShellRunner{Shell: m.shell, Stderr: m.messages, PollTimeout: idleTimeout}
	}
	if m.transfer == nil {
		m.transfer = &XmodemTransfer{Logger: m.logger, Progress: m.messages}
	}

	m.consolePump.start(ctx)
	m.linePump.start(ctx)
	m.logger.Infof("session started, escape %s", xmodem.ControlName(m.session.EscapeChar))

	for {
		select {
		case batch := <-m.consolePump.out:
			done, err := m.handleConsole(ctx, batch)
			if err != nil {
				return err
			}
			if done {
				m.logger.Infof("session ended by operator")
				return nil
			}

		case chunk := <-m.linePump.out:
			if err := m.echo(chunk); err != nil {
				return NewError(ErrMultiplexWait, "console", err)
			}

		case err := <-m.consolePump.errc:
			m.logger.Errorf("%v", err)
			return err

		case err := <-m.linePump.errc:
			m.logger.Errorf("%v", err)
			return err

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (m *Mux) handleConsole(ctx context.Context, batch []byte) (bool, error) {
	forward, cmd := m.session.HandleConsole(batch)
	if len(forward) > 0 {
		if _, err := m.line.Write(forward); err != nil {
			return false, NewError(ErrMultiplexWait, "line", err)
		}
	}
	if cmd != CmdNone {
		m.logger.Debugf("command: %s", cmd)
	}
	done, err := m.handlers[cmd](ctx)
	if done || err != nil {
		return done, err
	}

	// Keys typed after Enter at a prompt are ordinary input.
	if rest := m.leftover(); len(rest) > 0 {
		return m.handleConsole(ctx, rest)
	}
	return false, nil
}

// leftover returns console input the line editor did not consume.
func (m *Mux) leftover() []byte {
	if m.typed == nil {
		return nil
	}
	return m.typed.take()
}

// echo writes line output to the console, after a timestamp if enabled.
func (m *Mux) echo(chunk []byte) error {
	if m.session.Timestamp {
		if _, err := io.WriteString(m.out, FormatStamp(m.clock())); err != nil {
			return err
		}
	}
	_, err := m.out.Write(chunk)
	return err
}

// withLine runs fn as the line's only reader.
func (m *Mux) withLine(fn func()) {
	m.linePump.hold()
	defer m.linePump.release()
	fn()
}

// prompt reads a line from the operator. ok is false if nothing was entered.
func (m *Mux) prompt(text string) (string, bool) {
	fmt.Fprint(m.messages, "\n")
	line, err := m.prompter.PromptLine(text)
	if err != nil {
		if err != io.EOF {
			m.logger.Errorf("prompt: %v", err)
		}
		return "", false
	}
	if line == "" {
		return "", false
	}
	m.history.Add(line)
	return line, true
}

func (m *Mux) ignore(context.Context) (bool, error) {
	return false, nil
}

func (m *Mux) exit(context.Context) (bool, error) {
	return true, nil
}

func (m *Mux) toggleTimestamp(context.Context) (bool, error) {
	m.logger.Debugf("timestamps %t", m.session.Timestamp)
	return false, nil
}

func (m *Mux) sendLine(context.Context) (bool, error) {
	line, ok := m.prompt("! ")
	if !ok {
		return false, nil
	}
	if _, err := io.WriteString(m.line, line); err != nil {
		return false, NewError(ErrMultiplexWait, "line", err)
	}
	return false, nil
}

func (m *Mux) remoteCommand(ctx context.Context) (bool, error) {
	command, ok := m.prompt("> ")
	if !ok {
		return false, nil
	}

	var err error
	m.withLine(func() {
		err = m.runner.RunRemoteCommand(ctx, m.line, command)
	})
	if err != nil {
		m.logger.Errorf("command %q: %v", command, err)
	}
	fmt.Fprintf(m.messages, "Done %s\n", command)
	return false, nil
}

func (m *Mux) sendFile(ctx context.Context) (bool, error) {
	path, ok := m.prompt("send file> ")
	if !ok {
		return false, nil
	}

	var (
		summary *xmodem.Summary
		err     error
	)
	m.withLine(func() {
		summary, err = m.transfer.SendFile(ctx, m.line, path)
	})
	if err != nil {
		fmt.Fprintf(m.messages, "\r%v\n", err)
		return false, nil
	}
	fmt.Fprintf(m.messages, "\r%s\n", xmodem.FormatSummary(summary))
	return false, nil
}

// XmodemTransfer sends files with an xmodem.Session.
// Progress may share a writer with line echo: the Mux echoes nothing while
// a transfer holds the line.
type XmodemTransfer struct {
	Config   *xmodem.Config
	Logger   xmodem.Logger
	Progress io.Writer
}

func (x *XmodemTransfer) SendFile(ctx context.Context, line xmodem.Channel, path string) (*xmodem.Summary, error) {
	opts := []xmodem.Option{xmodem.WithContext(ctx)}
	if x.Config != nil {
		opts = append(opts, xmodem.WithConfig(x.Config))
	}
	if x.Logger != nil {
		opts = append(opts, xmodem.WithSessionLogger(x.Logger))
	}
	if x.Progress != nil {
		opts = append(opts, xmodem.WithCallbacks(&xmodem.Callbacks{
			OnProgress: xmodem.ProgressPrinter(x.Progress),
		}))
	}
	return xmodem.NewSession(line, opts...).SendFile(ctx, path)
}
