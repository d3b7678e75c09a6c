package xmodem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggingChannel(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ch := newScriptChannel(ACK)
	lc := NewLoggingChannel(ch, zap.New(core).Sugar(), "line")

	_, err := lc.Write([]byte{EOT})
	require.NoError(t, err)
	buf := make([]byte, 1)
	n, err := lc.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.NoError(t, lc.SetReadTimeout(7))

	assert.Equal(t, 7, ch.ReadTimeout())
	messages := make([]string, 0, logs.Len())
	for _, entry := range logs.All() {
		messages = append(messages, entry.Message)
	}
	assert.Equal(t, []string{
		`line: wrote 1 bytes: "\x04"`,
		`line: read 1 bytes: "\x06"`,
		"line: read timeout 7 tenths",
	}, messages)
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xmodem.log")
	logger, err := NewFileLogger(path)
	require.NoError(t, err)

	logger.Infof("transfer %s", "started")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "transfer started")
}
