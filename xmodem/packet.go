package xmodem

import "fmt"

// Packet is one framed block of file data.
type Packet struct {
	Sequence byte
	Payload  []byte
	Checksum uint16
}

// NewPacket builds a packet of size bytes from data, padding short data with
// CPMEOF. size must be PacketSize or PacketSize1K.
func NewPacket(sequence byte, data []byte, size int) (*Packet, error) {
	if size != PacketSize && size != PacketSize1K {
		return nil, fmt.Errorf("invalid packet size %d", size)
	}
	if len(data) > size {
		return nil, fmt.Errorf("payload of %d bytes exceeds packet size %d", len(data), size)
	}

	payload := make([]byte, size)
	n := copy(payload, data)
	for i := n; i < size; i++ {
		payload[i] = CPMEOF
	}

	return &Packet{
		Sequence: sequence,
		Payload:  payload,
		Checksum: Checksum(payload),
	}, nil
}

// Bytes returns the packet as transmitted:
// header, sequence, complement, payload, CRC high byte, CRC low byte.
func (p *Packet) Bytes() []byte {
	header := byte(SOH)
	if len(p.Payload) == PacketSize1K {
		header = STX
	}

	frame := make([]byte, 0, 3+len(p.Payload)+2)
	frame = append(frame, header, p.Sequence, 0xFF-p.Sequence)
	frame = append(frame, p.Payload...)
	frame = append(frame, byte(p.Checksum>>8), byte(p.Checksum))
	return frame
}
