package xmodem

import (
	"context"
	"io"
)

// Channel is the byte line a transfer runs over, typically a serial port.
//
// Read must return (0, nil) or io.EOF when the read timeout expires with no
// data. Timeouts are in tenths of seconds; 0 means Read blocks until data
// arrives.
type Channel interface {
	io.Reader
	io.Writer
	SetReadTimeout(tenths int) error
	ReadTimeout() int
	FlushInput() error
}

// xmodemIO provides single-byte reads with timeout handling over a Channel.
type xmodemIO struct {
	ch  Channel
	buf [1]byte
	ctx context.Context
}

func newXmodemIO(ch Channel) *xmodemIO {
	return &xmodemIO{
		ch:  ch,
		ctx: context.Background(),
	}
}

// SetContext sets the context for cancellation.
func (z *xmodemIO) SetContext(ctx context.Context) {
	z.ctx = ctx
}

// SetTimeout changes the read timeout of the channel.
func (z *xmodemIO) SetTimeout(tenths int) error {
	if err := z.ch.SetReadTimeout(tenths); err != nil {
		return WrapError(ErrIO, "set read timeout", err)
	}
	return nil
}

// readByte reads one byte. ok is false if the read timed out.
func (z *xmodemIO) readByte() (b byte, ok bool, err error) {
	if err := z.ctx.Err(); err != nil {
		return 0, false, WrapError(ErrCancelled, "transfer interrupted", err)
	}

	n, err := z.ch.Read(z.buf[:])
	if n == 1 {
		return z.buf[0], true, nil
	}
	if err != nil && err != io.EOF {
		return 0, false, WrapError(ErrIO, "read from line", err)
	}
	return 0, false, nil
}

// Write writes a whole frame to the channel.
func (z *xmodemIO) Write(frame []byte) error {
	if _, err := z.ch.Write(frame); err != nil {
		return WrapError(ErrIO, "write to line", err)
	}
	return nil
}

// PurgeLine discards any pending input.
func (z *xmodemIO) PurgeLine() error {
	if err := z.ch.FlushInput(); err != nil {
		return WrapError(ErrIO, "flush line", err)
	}
	return nil
}
