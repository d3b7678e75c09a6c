package terminal

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

type fakePort struct {
	bytes.Buffer
	timeouts []time.Duration
	resets   int
	closed   bool
	failSet  error
}

func (p *fakePort) SetReadTimeout(t time.Duration) error {
	if p.failSet != nil {
		return p.failSet
	}
	p.timeouts = append(p.timeouts, t)
	return nil
}

func (p *fakePort) ResetInputBuffer() error {
	p.resets++
	return nil
}

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

func TestStandardBaud(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 50},
		{50, 50},
		{9600, 9600},
		{9601, 19200},
		{100000, 115200},
		{115200, 115200},
		{1000000, 230400},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StandardBaud(tt.in), "baud %d", tt.in)
	}
}

func TestLineReadTimeout(t *testing.T) {
	port := &fakePort{}
	line := NewLine(port, "/dev/ttyTEST")
	assert.Equal(t, "/dev/ttyTEST", line.Name())

	require.NoError(t, line.SetReadTimeout(15))
	assert.Equal(t, 15, line.ReadTimeout())
	require.NoError(t, line.SetReadTimeout(0))
	assert.Equal(t, 0, line.ReadTimeout())

	assert.Equal(t, []time.Duration{1500 * time.Millisecond, serial.NoTimeout}, port.timeouts)
}

func TestLineReadTimeoutFailureKeepsOld(t *testing.T) {
	port := &fakePort{}
	line := NewLine(port, "x")
	require.NoError(t, line.SetReadTimeout(3))

	port.failSet = errors.New("ioctl")
	assert.Error(t, line.SetReadTimeout(7))
	assert.Equal(t, 3, line.ReadTimeout())
}

func TestLineIO(t *testing.T) {
	port := &fakePort{}
	line := NewLine(port, "x")

	_, err := line.Write([]byte("ping"))
	require.NoError(t, err)
	buf := make([]byte, 8)
	n, err := line.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "ping", string(buf[:n]))

	require.NoError(t, line.FlushInput())
	assert.Equal(t, 1, port.resets)
	require.NoError(t, line.Close())
	assert.True(t, port.closed)
}

func TestOpenLineMissingDevice(t *testing.T) {
	_, err := OpenLine("/dev/does-not-exist-dumb", 9600)
	assert.True(t, IsChannelOpen(err), "got %v", err)
}
