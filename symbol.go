package pack

import "encoding/binary"

// Symbol is the atomic compression unit: a byte or a 16-bit word.
type Symbol interface {
	~uint8 | ~uint16
}

// Words splits b into little-endian 16-bit words. If len(b) is odd, the
// last byte is returned separately and odd is true.
func Words(b []byte) (w []uint16, last byte, odd bool) {
	w = make([]uint16, len(b)/2)
	for i := range w {
		w[i] = binary.LittleEndian.Uint16(b[2*i:])
	}
	if len(b)&1 != 0 {
		return w, b[len(b)-1], true
	}
	return w, 0, false
}

// AppendWords appends w to dst as little-endian bytes.
func AppendWords(dst []byte, w []uint16) []byte {
	for _, v := range w {
		dst = binary.LittleEndian.AppendUint16(dst, v)
	}
	return dst
}
