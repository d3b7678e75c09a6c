package xmodem

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// Sender pushes files to an XMODEM receiver.
// It owns the channel for the duration of a SendFile call.
type Sender struct {
	// I/O
	io *xmodemIO

	// Configuration
	packetSize        int
	maxRetries        int
	handshakeAttempts int
	handshakeTimeout  int
	ackTimeout        int

	logger    Logger
	callbacks *Callbacks
}

// SenderConfig holds configuration for a sender.
// Timeouts are in tenths of seconds.
type SenderConfig struct {
	MaxRetries        int
	HandshakeAttempts int
	HandshakeTimeout  int
	AckTimeout        int
	Context           context.Context
	Logger            Logger
	Callbacks         *Callbacks
}

// DefaultSenderConfig returns a default sender configuration.
func DefaultSenderConfig() *SenderConfig {
	return &SenderConfig{
		MaxRetries:        MaxRetries,
		HandshakeAttempts: HandshakeAttempts,
		HandshakeTimeout:  HandshakeTimeout,
		AckTimeout:        AckTimeout,
		Context:           context.Background(),
	}
}

// NewSender creates a new XMODEM sender over ch.
func NewSender(ch Channel, config *SenderConfig) *Sender {
	if config == nil {
		config = DefaultSenderConfig()
	}

	zio := newXmodemIO(ch)
	if config.Context != nil {
		zio.SetContext(config.Context)
	}

	var logger Logger = NoopLogger()
	if config.Logger != nil {
		logger = config.Logger
	}

	return &Sender{
		io:                zio,
		packetSize:        PacketSize,
		maxRetries:        positive(config.MaxRetries, MaxRetries),
		handshakeAttempts: positive(config.HandshakeAttempts, HandshakeAttempts),
		handshakeTimeout:  positive(config.HandshakeTimeout, HandshakeTimeout),
		ackTimeout:        positive(config.AckTimeout, AckTimeout),
		logger:            logger,
		callbacks:         mergeCallbacks(config.Callbacks),
	}
}

func positive(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

// Summary describes a completed transfer.
type Summary struct {
	// Packets is the number of data packets acknowledged. EOT is not counted.
	Packets  int
	Bytes    int64
	Duration time.Duration
}

// transfer is the state of one outbound file.
type transfer struct {
	id       uuid.UUID
	name     string
	size     int64
	sent     int64
	sequence int
	packets  int
	started  time.Time
}

// WaitReceiver waits for the receiver to ask for data with NAK or 'C'.
// Each attempt flushes stale input, then waits up to the handshake timeout.
func (s *Sender) WaitReceiver() (byte, error) {
	for attempt := 1; attempt <= s.handshakeAttempts; attempt++ {
		if err := s.io.SetTimeout(s.handshakeTimeout); err != nil {
			return 0, err
		}
		if err := s.io.PurgeLine(); err != nil {
			return 0, err
		}

		c, ok, err := s.io.readByte()
		if err != nil {
			return 0, err
		}
		if !ok {
			s.logger.Debugf("handshake attempt %d: timeout", attempt)
			continue
		}
		if c == NAK || c == WANTCRC {
			s.logger.Debugf("handshake attempt %d: receiver ready (%s)", attempt, ControlName(c))
			return c, nil
		}
		s.logger.Debugf("handshake attempt %d: ignoring %s", attempt, ControlName(c))
	}

	return 0, NewError(ErrHandshakeTimeout, "no NAK or 'C' from receiver")
}

// SendPacket frames data as packet sequence and sends it until the receiver
// acknowledges it. Empty data sends a bare EOT instead of a packet.
func (s *Sender) SendPacket(data []byte, sequence byte) error {
	frame := []byte{EOT}
	if len(data) > 0 {
		p, err := NewPacket(sequence, data, s.packetSize)
		if err != nil {
			return WrapError(ErrIO, "build packet", err)
		}
		frame = p.Bytes()
	}
	return s.sendFrame(frame, sequence)
}

// sendFrame transmits frame and waits for one reply byte, retransmitting on
// NAK. Any other reply, or none at all, means the receiver lost sync.
func (s *Sender) sendFrame(frame []byte, sequence byte) error {
	for retry := 0; retry < s.maxRetries; retry++ {
		if err := s.io.Write(frame); err != nil {
			return err
		}

		c, ok, err := s.io.readByte()
		if err != nil {
			return err
		}
		if !ok {
			s.logger.Errorf("packet %d: no reply", sequence)
			return NewError(ErrLostSync, "no reply from receiver")
		}

		switch c {
		case ACK:
			return nil
		case NAK:
			s.logger.Debugf("packet %d: NAK, retry %d", sequence, retry+1)
			continue
		default:
			s.logger.Errorf("packet %d: unexpected reply %s", sequence, ControlName(c))
			return NewError(ErrLostSync, "unexpected reply "+ControlName(c))
		}
	}

	s.logger.Errorf("packet %d: rejected %d times", sequence, s.maxRetries)
	return NewError(ErrRetriesExhausted, "packet rejected too many times")
}

// SendFile sends one file. size is only used for progress reporting.
// The channel read timeout in effect on entry is restored on every return.
func (s *Sender) SendFile(filename string, file io.Reader, size int64) (summary *Summary, err error) {
	saved := s.io.ch.ReadTimeout()
	defer func() {
		if rerr := s.io.SetTimeout(saved); rerr != nil && err == nil {
			err = rerr
		}
	}()

	t := &transfer{
		id:      uuid.New(),
		name:    filename,
		size:    size,
		started: time.Now(),
	}
	s.logger.Infof("transfer %s: sending %s (%d bytes)", t.id, t.name, t.size)

	if _, err := s.WaitReceiver(); err != nil {
		s.logger.Errorf("transfer %s: %v", t.id, err)
		return nil, err
	}

	if err := s.io.SetTimeout(s.ackTimeout); err != nil {
		return nil, err
	}

	if err := s.sendPackets(t, file); err != nil {
		s.logger.Errorf("transfer %s: aborted after %d packets: %v", t.id, t.packets, err)
		return nil, err
	}

	summary = &Summary{
		Packets:  t.packets,
		Bytes:    t.sent,
		Duration: time.Since(t.started),
	}
	s.logger.Infof("transfer %s: %d packets, %d bytes in %v", t.id, summary.Packets, summary.Bytes, summary.Duration)
	return summary, nil
}

// sendPackets runs the packet loop. A short read is sent as a padded packet;
// the read after it returns nothing and ends the loop with EOT.
func (s *Sender) sendPackets(t *transfer, file io.Reader) error {
	buf := make([]byte, s.packetSize)
	for {
		n, err := io.ReadFull(file, buf)
		if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
			return WrapError(ErrIO, "read "+t.name, err)
		}

		t.sequence++
		if err := s.SendPacket(buf[:n], byte(t.sequence)); err != nil {
			return err
		}
		if n == 0 {
			return nil
		}

		t.packets++
		t.sent += int64(n)
		if t.sequence%ProgressEvery == 0 {
			s.callbacks.OnProgress(t.name, t.sent, t.size, t.packets)
		}
	}
}
