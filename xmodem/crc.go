package xmodem

import "github.com/sigurn/crc16"

// crcTable is the CRC-16/XMODEM table: polynomial 0x1021, zero initial value,
// no reflection and no final XOR.
var crcTable = crc16.MakeTable(crc16.CRC16_XMODEM)

// Checksum returns the CRC-16 of buf as carried in a packet trailer.
func Checksum(buf []byte) uint16 {
	return crc16.Checksum(buf, crcTable)
}
