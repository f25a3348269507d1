package format

// A varint is a big-endian variable-length encoding of a 64-bit
// twos-complement integer, 1 to 9 bytes long. The low 7 bits of each of
// the first eight bytes carry payload while the high bit marks
// continuation; a ninth byte, if reached, contributes all 8 bits and
// terminates unconditionally.
const (
	MaxVarintLen = 9

	continuationMask = 0x80
	payloadMask      = 0x7f
)

// DecodeVarint decodes one varint starting at buf[off]. It returns the
// value as an int64 bit pattern and the number of bytes consumed.
// ErrTruncatedVarint is returned when the buffer ends before a
// terminating byte.
func DecodeVarint(buf []byte, off int) (int64, int, error) {
	var value int64
	for i := 0; i < MaxVarintLen; i++ {
		pos := off + i
		if pos >= len(buf) {
			return 0, 0, ErrTruncatedVarint
		}
		b := buf[pos]
		if i == MaxVarintLen-1 {
			// Ninth byte: all 8 bits, no continuation.
			return (value << 8) | int64(b), MaxVarintLen, nil
		}
		value = (value << 7) | int64(b&payloadMask)
		if b&continuationMask == 0 {
			return value, i + 1, nil
		}
	}
	return 0, 0, ErrTruncatedVarint
}

// EncodeVarint appends the minimal varint encoding of v to dst and
// returns the extended slice.
func EncodeVarint(dst []byte, v int64) []byte {
	u := uint64(v)
	if u>>56 != 0 {
		// Needs the 9-byte form: 8 continuation bytes then a full byte.
		dst = append(dst, byte(u>>57)|continuationMask)
		for shift := 50; shift >= 8; shift -= 7 {
			dst = append(dst, byte(u>>uint(shift))|continuationMask)
		}
		return append(dst, byte(u))
	}

	var tmp [MaxVarintLen]byte
	i := len(tmp)
	i--
	tmp[i] = byte(u & payloadMask)
	u >>= 7
	for u != 0 {
		i--
		tmp[i] = byte(u&payloadMask) | continuationMask
		u >>= 7
	}
	return append(dst, tmp[i:]...)
}

// VarintLen reports the size in bytes of the minimal encoding of v.
func VarintLen(v int64) int {
	u := uint64(v)
	if u>>56 != 0 {
		return MaxVarintLen
	}
	n := 1
	for u >>= 7; u != 0; u >>= 7 {
		n++
	}
	return n
}
