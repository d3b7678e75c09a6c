// Package xmodem implements the sending half of the XMODEM file transfer protocol.
//
// XMODEM moves a file over a serial line as a run of fixed-size packets, each
// framed with a sequence number and a 16-bit CRC, and acknowledged one at a
// time by the receiver. This package only sends: it waits for the receiver to
// signal that it is ready, streams 128-byte packets, retries packets the
// receiver rejects, and finishes with an end-of-transmission marker.
//
// The package is a library: the caller supplies the byte channel (usually an
// open serial port) and optional callbacks for progress and feedback.
package xmodem

// Ward Christensen / CP/M control bytes - Don't change these!
const (
	SOH     = 0x01 // Start of a 128-byte packet
	STX     = 0x02 // Start of a 1024-byte packet
	EOT     = 0x04 // End of transmission
	ACK     = 0x06 // Packet accepted
	NAK     = 0x15 // Packet rejected, or receiver ready for checksum mode
	CAN     = 0x18 // Receiver cancelled
	CPMEOF  = 0x1A // Filler for short packets
	WANTCRC = 'C'  // Receiver ready, CRC mode
)

// Packet sizes
const (
	// PacketSize is the payload size used by the sender.
	PacketSize = 128

	// PacketSize1K is the payload size announced by STX. Packets of this size
	// can be built but the sender never produces them.
	PacketSize1K = 1024
)

// Protocol limits. Timeouts are in tenths of seconds.
const (
	// MaxRetries bounds the transmissions of a single packet.
	MaxRetries = 10

	// HandshakeAttempts is the number of reads spent waiting for the receiver.
	HandshakeAttempts = 10

	// HandshakeTimeout bounds each handshake read.
	HandshakeTimeout = 20

	// AckTimeout bounds the wait for a packet acknowledgment.
	AckTimeout = 10

	// ProgressEvery is the number of packets between progress updates.
	ProgressEvery = 8
)

var controlNames = map[byte]string{
	SOH: "SOH",
	STX: "STX",
	EOT: "EOT",
	ACK: "ACK",
	NAK: "NAK",
	CAN: "CAN",
}

// ControlName returns a printable name for a protocol byte.
func ControlName(b byte) string {
	if name, ok := controlNames[b]; ok {
		return name
	}
	if b >= 0x20 && b < 0x7F {
		return "'" + string(rune(b)) + "'"
	}
	const hex = "0123456789abcdef"
	return "0x" + string([]byte{hex[b>>4], hex[b&0x0F]})
}
