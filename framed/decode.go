package framed

import (
	"fmt"

	"github.com/retrodev/pack"
)

// Decompress unpacks data.
func Decompress(data []byte) ([]byte, error) {
	out, _, err := decode(data, nil)
	return out, err
}

// DecompressFrames unpacks data and also returns the output offsets at which
// frame markers appeared.
func DecompressFrames(data []byte) (out []byte, markers []int, err error) {
	return decode(data, nil)
}

// Verify unpacks data like Decompress, comparing every byte written with
// want. It reports the first difference without stopping.
func Verify(data []byte, want []byte) ([]byte, *pack.Mismatch, error) {
	v := pack.NewVerifier(want)
	out, _, err := decode(data, v)
	return out, v.Finish(len(out)), err
}

func decode(data []byte, v *pack.Verifier[byte]) (out []byte, markers []int, err error) {
	put := func(b byte) {
		v.Check(len(out), b)
		out = append(out, b)
	}

	pos := 0
	for {
		if pos >= len(data) {
			return out, markers, fmt.Errorf("%w: missing end of stream", ErrCorrupt)
		}
		h := data[pos]
		pos++
		if h == 0 {
			return out, markers, nil
		}
		literals := int(h >> 5)
		code := int(h & 0x1f)

		if code == markerCode {
			if literals != 0 {
				return out, markers, fmt.Errorf("%w: header %#02x at byte %d", ErrCorrupt, h, pos-1)
			}
			markers = append(markers, len(out))
			continue
		}

		offset := 0
		if code != 0 {
			if pos >= len(data) {
				return out, markers, fmt.Errorf("%w: truncated at byte %d", ErrCorrupt, pos)
			}
			offset = int(data[pos]) + 1
			pos++
		}
		if pos+literals > len(data) {
			return out, markers, fmt.Errorf("%w: truncated at byte %d", ErrCorrupt, pos)
		}
		for _, b := range data[pos : pos+literals] {
			put(b)
		}
		pos += literals

		if code == 0 {
			continue
		}
		from := len(out) - offset
		if from < 0 {
			return out, markers, fmt.Errorf("%w: offset %d before start of output (%d bytes)", ErrCorrupt, offset, len(out))
		}
		for i := 0; i <= code; i++ {
			put(out[from+i])
		}
	}
}
