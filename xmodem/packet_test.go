package xmodem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPacketPadsShortPayload(t *testing.T) {
	p, err := NewPacket(3, []byte("hello"), PacketSize)
	require.NoError(t, err)

	assert.Len(t, p.Payload, PacketSize)
	assert.Equal(t, []byte("hello"), p.Payload[:5])
	for _, b := range p.Payload[5:] {
		assert.Equal(t, byte(CPMEOF), b)
	}
	assert.Equal(t, Checksum(p.Payload), p.Checksum)
}

func TestPacketBytes(t *testing.T) {
	p, err := NewPacket(1, bytes128('x'), PacketSize)
	require.NoError(t, err)

	frame := p.Bytes()
	require.Len(t, frame, 3+PacketSize+2)
	assert.Equal(t, byte(SOH), frame[0])
	assert.Equal(t, byte(1), frame[1])
	assert.Equal(t, byte(0xFE), frame[2])
	assert.Equal(t, bytes128('x'), frame[3:3+PacketSize])
	assert.Equal(t, byte(p.Checksum>>8), frame[3+PacketSize])
	assert.Equal(t, byte(p.Checksum), frame[4+PacketSize])
}

func TestPacketSequenceComplement(t *testing.T) {
	for seq := 0; seq < 256; seq++ {
		p, err := NewPacket(byte(seq), []byte{1}, PacketSize)
		require.NoError(t, err)
		frame := p.Bytes()
		assert.Equal(t, byte(0xFF), frame[1]+frame[2], "sequence %d", seq)
	}
}

func TestPacket1KUsesSTX(t *testing.T) {
	p, err := NewPacket(7, []byte("data"), PacketSize1K)
	require.NoError(t, err)
	frame := p.Bytes()
	assert.Equal(t, byte(STX), frame[0])
	assert.Len(t, frame, 3+PacketSize1K+2)
}

func TestNewPacketRejectsBadSizes(t *testing.T) {
	_, err := NewPacket(1, []byte("x"), 256)
	assert.Error(t, err)

	_, err = NewPacket(1, make([]byte, PacketSize+1), PacketSize)
	assert.Error(t, err)
}

func TestControlName(t *testing.T) {
	assert.Equal(t, "ACK", ControlName(ACK))
	assert.Equal(t, "'C'", ControlName('C'))
	assert.Equal(t, "0x7f", ControlName(0x7F))
}
