package xmodem

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger interface for XMODEM protocol logging.
// *zap.SugaredLogger satisfies it.
type Logger interface {
	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Errorf(template string, args ...interface{})
}

// NewFileLogger creates a logger that appends to a file.
// The console is in raw mode while a session runs, so logs never go there.
func NewFileLogger(path string) (*zap.SugaredLogger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = []string{path}
	config.ErrorOutputPaths = []string{path}
	config.DisableStacktrace = true

	logger, err := config.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// NoopLogger returns a logger that discards everything.
func NoopLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// LoggingChannel wraps a Channel and logs all traffic at debug level.
type LoggingChannel struct {
	Channel
	logger Logger
	name   string
}

// NewLoggingChannel wraps ch so reads, writes and timeout changes are logged.
func NewLoggingChannel(ch Channel, logger Logger, name string) *LoggingChannel {
	return &LoggingChannel{
		Channel: ch,
		logger:  logger,
		name:    name,
	}
}

func (lc *LoggingChannel) Read(p []byte) (int, error) {
	n, err := lc.Channel.Read(p)
	if n > 0 {
		lc.logger.Debugf("%s: read %d bytes: %q", lc.name, n, truncate(p[:n]))
	}
	if err != nil {
		lc.logger.Errorf("%s: read error: %v", lc.name, err)
	}
	return n, err
}

func (lc *LoggingChannel) Write(p []byte) (int, error) {
	n, err := lc.Channel.Write(p)
	lc.logger.Debugf("%s: wrote %d bytes: %q", lc.name, n, truncate(p[:n]))
	if err != nil {
		lc.logger.Errorf("%s: write error: %v", lc.name, err)
	}
	return n, err
}

func (lc *LoggingChannel) SetReadTimeout(tenths int) error {
	lc.logger.Debugf("%s: read timeout %d tenths", lc.name, tenths)
	return lc.Channel.SetReadTimeout(tenths)
}

func truncate(data []byte) []byte {
	if len(data) > 32 {
		return data[:32]
	}
	return data
}
