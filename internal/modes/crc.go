package modes

// LongMsgBits and ShortMsgBits are the two valid Mode S frame lengths.
const (
	LongMsgBits   = 112
	ShortMsgBits  = 56
	LongMsgBytes  = LongMsgBits / 8
	ShortMsgBytes = ShortMsgBits / 8
)

// crcTable is the Mode S 24-bit parity table (polynomial 0xFFF409)
// unrolled: entry i is the contribution of data bit i to the checksum.
// The final 24 entries are zero since the trailing 24 bits are the
// checksum field itself and must not affect its own computation.
var crcTable = [112]uint32{
	0x3935ea, 0x1c9af5, 0xf1b77e, 0x78dbbf, 0xc397db, 0x9e31e9, 0xb0e2f0, 0x587178,
	0x2c38bc, 0x161c5e, 0x0b0e2f, 0xfa7d13, 0x82c48d, 0xbe9842, 0x5f4c21, 0xd05c14,
	0x682e0a, 0x341705, 0xe5f186, 0x72f8c3, 0xc68665, 0x9cb936, 0x4e5c9b, 0xd8d449,
	0x939020, 0x49c810, 0x24e408, 0x127204, 0x093902, 0x049c81, 0xfdb444, 0x7eda22,
	0x3f6d11, 0xe04c8c, 0x702646, 0x381323, 0xe3f395, 0x8e03ce, 0x4701e7, 0xdc7af7,
	0x91c77f, 0xb719bb, 0xa476d9, 0xadc168, 0x56e0b4, 0x2b705a, 0x15b82d, 0xf52612,
	0x7a9309, 0xc2b380, 0x6159c0, 0x30ace0, 0x185670, 0x0c2b38, 0x06159c, 0x030ace,
	0x018567, 0xff38b7, 0x80665f, 0xbfc92b, 0xa01e91, 0xaff54c, 0x57faa6, 0x2bfd53,
	0xea04ad, 0x8af852, 0x457c29, 0xdd4410, 0x6ea208, 0x375104, 0x1ba882, 0x0dd441,
	0xf91024, 0x7c8812, 0x3e4409, 0xe0d800, 0x706c00, 0x383600, 0x1c1b00, 0x0e0d80,
	0x0706c0, 0x038360, 0x01c1b0, 0x00e0d8, 0x00706c, 0x003836, 0x001c1b, 0xfff409,
	0x000000, 0x000000, 0x000000, 0x000000, 0x000000, 0x000000, 0x000000, 0x000000,
	0x000000, 0x000000, 0x000000, 0x000000, 0x000000, 0x000000, 0x000000, 0x000000,
	0x000000, 0x000000, 0x000000, 0x000000, 0x000000, 0x000000, 0x000000, 0x000000,
}

// lenForDF returns the frame length in bits implied by a Downlink Format.
func lenForDF(df int) int {
	switch df {
	case 16, 17, 19, 20, 21:
		return LongMsgBits
	default:
		return ShortMsgBits
	}
}

// checksum computes the 24-bit Mode S parity of msg, which must hold at
// least bits/8 bytes.
func checksum(msg []byte, bits int) uint32 {
	var crc uint32
	offset := LongMsgBits - bits

	for j := 0; j < bits; j++ {
		byteIdx := j / 8
		bitMask := byte(1) << (7 - uint(j%8))
		if msg[byteIdx]&bitMask != 0 {
			crc ^= crcTable[j+offset]
		}
	}
	return crc
}

// observedCRC reads the trailing 3 bytes of a bits-long frame as a 24-bit
// big-endian integer.
func observedCRC(msg []byte, bits int) uint32 {
	n := bits / 8
	return uint32(msg[n-3])<<16 | uint32(msg[n-2])<<8 | uint32(msg[n-1])
}

// fixSingleBitErrors flips each bit position in turn and recomputes the
// checksum; it returns the bit index fixed or -1. Used only for DF11/DF17.
func fixSingleBitErrors(msg []byte, bits int) int {
	nBytes := bits / 8
	aux := make([]byte, nBytes)

	for j := 0; j < bits; j++ {
		copy(aux, msg)
		aux[j/8] ^= 1 << (7 - uint(j%8))

		if observedCRC(aux, bits) == checksum(aux, bits) {
			copy(msg, aux)
			return j
		}
	}
	return -1
}

// fixTwoBitsErrors exhaustively tries every ordered pair of bit flips. Only
// ever called for DF17 under --aggressive, after single-bit repair failed.
// The encoded result j | (i<<8) assumes bit indices fit in a byte, so it is
// only valid for frames up to 255 bits — safe for the 112-bit case handled
// here, but callers must not reuse this encoding for longer frames.
func fixTwoBitsErrors(msg []byte, bits int) int {
	nBytes := bits / 8
	aux := make([]byte, nBytes)

	for j := 0; j < bits; j++ {
		byte1 := j / 8
		mask1 := byte(1) << (7 - uint(j%8))

		for i := j + 1; i < bits; i++ {
			byte2 := i / 8
			mask2 := byte(1) << (7 - uint(i%8))

			copy(aux, msg)
			aux[byte1] ^= mask1
			aux[byte2] ^= mask2

			if observedCRC(aux, bits) == checksum(aux, bits) {
				copy(msg, aux)
				return j | (i << 8)
			}
		}
	}
	return -1
}
