package xmodem

import (
	"context"
	"os"
	path "path/filepath"
)

// Session sends files over one channel.
// It provides a high-level API over Sender: opening the file and reporting
// through callbacks.
type Session struct {
	// I/O
	channel Channel

	// Configuration
	config *Config

	// Callbacks
	callbacks *Callbacks

	// Context
	ctx context.Context

	// Logger
	logger Logger
}

// Config holds session configuration.
type Config struct {
	// Retries per packet
	MaxRetries int

	// Handshake reads and the timeout of each (in tenths of seconds)
	HandshakeAttempts int
	HandshakeTimeout  int

	// Acknowledgment timeout (in tenths of seconds)
	AckTimeout int
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxRetries:        MaxRetries,
		HandshakeAttempts: HandshakeAttempts,
		HandshakeTimeout:  HandshakeTimeout,
		AckTimeout:        AckTimeout,
	}
}

// Option configures a Session.
type Option func(*Session)

// WithConfig sets the session configuration.
func WithConfig(config *Config) Option {
	return func(s *Session) {
		s.config = config
	}
}

// WithCallbacks sets the session callbacks.
func WithCallbacks(callbacks *Callbacks) Option {
	return func(s *Session) {
		s.callbacks = mergeCallbacks(callbacks)
	}
}

// WithContext sets the session context.
func WithContext(ctx context.Context) Option {
	return func(s *Session) {
		s.ctx = ctx
	}
}

// WithSessionLogger sets a logger for protocol debugging.
func WithSessionLogger(logger Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// NewSession creates a new XMODEM session over channel.
func NewSession(channel Channel, opts ...Option) *Session {
	s := &Session{
		channel:   channel,
		config:    DefaultConfig(),
		callbacks: defaultCallbacks(),
		ctx:       context.Background(),
		logger:    NoopLogger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SendFile opens filename and sends it. ctx overrides the session context
// when non-nil.
func (s *Session) SendFile(ctx context.Context, filename string) (*Summary, error) {
	if ctx == nil {
		ctx = s.ctx
	}

	file, err := os.Open(filename)
	if err != nil {
		err = WrapError(ErrFileOpen, "can't open "+filename, err)
		s.callbacks.OnError(err, "open file")
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		err = WrapError(ErrFileOpen, "can't stat "+filename, err)
		s.callbacks.OnError(err, "stat file")
		return nil, err
	}

	_, name := path.Split(filename)
	s.callbacks.OnFileStart(name, info.Size())

	sender := NewSender(s.channel, &SenderConfig{
		MaxRetries:        s.config.MaxRetries,
		HandshakeAttempts: s.config.HandshakeAttempts,
		HandshakeTimeout:  s.config.HandshakeTimeout,
		AckTimeout:        s.config.AckTimeout,
		Context:           ctx,
		Logger:            s.logger,
		Callbacks:         s.callbacks,
	})

	summary, err := sender.SendFile(name, file, info.Size())
	if err != nil {
		s.callbacks.OnError(err, "send file")
		return nil, err
	}

	s.callbacks.OnFileComplete(name, summary)
	return summary, nil
}
