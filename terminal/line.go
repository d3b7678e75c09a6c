package terminal

import (
	"io"
	"time"

	"go.bug.st/serial"
)

// standardBauds are the rates a requested baud is rounded up to.
var standardBauds = []int{
	50, 75, 110, 134, 150, 200, 300, 600, 1200, 1800, 2400, 4800,
	9600, 19200, 38400, 57600, 115200, 230400,
}

// StandardBaud returns the first standard rate not below baud.
// Requests beyond the table get the fastest rate.
func StandardBaud(baud int) int {
	for _, b := range standardBauds {
		if b >= baud {
			return b
		}
	}
	return standardBauds[len(standardBauds)-1]
}

// Port is the part of serial.Port the line uses.
type Port interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
	ResetInputBuffer() error
}

// Line is the serial connection to the remote device. It implements
// xmodem.Channel: Read returns (0, nil) once the read timeout expires.
type Line struct {
	port    Port
	name    string
	timeout int
}

// OpenLine opens name raw, 8N1, at the standard rate nearest baud. The port
// is opened exclusively; reads block until configured otherwise.
func OpenLine(name string, baud int) (*Line, error) {
	mode := &serial.Mode{
		BaudRate: StandardBaud(baud),
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, NewError(ErrChannelOpen, name, err)
	}
	return NewLine(port, name), nil
}

// NewLine wraps an already open port.
func NewLine(port Port, name string) *Line {
	return &Line{port: port, name: name}
}

// Name returns the device name.
func (l *Line) Name() string {
	return l.name
}

func (l *Line) Read(p []byte) (int, error) {
	return l.port.Read(p)
}

func (l *Line) Write(p []byte) (int, error) {
	return l.port.Write(p)
}

// SetReadTimeout bounds each Read, in tenths of seconds. 0 blocks.
func (l *Line) SetReadTimeout(tenths int) error {
	d := serial.NoTimeout
	if tenths > 0 {
		d = time.Duration(tenths) * 100 * time.Millisecond
	}
	if err := l.port.SetReadTimeout(d); err != nil {
		return err
	}
	l.timeout = tenths
	return nil
}

// ReadTimeout returns the current read timeout in tenths of seconds.
func (l *Line) ReadTimeout() int {
	return l.timeout
}

// FlushInput discards data received but not yet read.
func (l *Line) FlushInput() error {
	return l.port.ResetInputBuffer()
}

func (l *Line) Close() error {
	return l.port.Close()
}
