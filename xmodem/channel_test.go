package xmodem

import (
	"bytes"
	"io"
)

// scriptChannel replays receiver replies one byte per Read and records
// everything the sender writes. An exhausted script reads as a timeout.
type scriptChannel struct {
	replies  []byte
	written  bytes.Buffer
	writes   [][]byte
	timeout  int
	timeouts []int
	flushes  int
	readErr  error
}

func newScriptChannel(replies ...byte) *scriptChannel {
	return &scriptChannel{replies: replies, timeout: 1}
}

func (c *scriptChannel) Read(p []byte) (int, error) {
	if c.readErr != nil {
		return 0, c.readErr
	}
	if len(c.replies) == 0 || len(p) == 0 {
		return 0, nil
	}
	p[0] = c.replies[0]
	c.replies = c.replies[1:]
	return 1, nil
}

func (c *scriptChannel) Write(p []byte) (int, error) {
	c.writes = append(c.writes, append([]byte(nil), p...))
	return c.written.Write(p)
}

func (c *scriptChannel) SetReadTimeout(tenths int) error {
	c.timeout = tenths
	c.timeouts = append(c.timeouts, tenths)
	return nil
}

func (c *scriptChannel) ReadTimeout() int {
	return c.timeout
}

func (c *scriptChannel) FlushInput() error {
	c.flushes++
	return nil
}

var _ Channel = (*scriptChannel)(nil)

// eofChannel reports io.EOF on every read, like a line that timed out.
type eofChannel struct {
	scriptChannel
}

func (c *eofChannel) Read(p []byte) (int, error) {
	return 0, io.EOF
}
