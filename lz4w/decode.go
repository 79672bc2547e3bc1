package lz4w

import (
	"encoding/binary"
	"fmt"

	"github.com/retrodev/pack"
)

// Decompress unpacks data. The first priorLength bytes of data are the prior
// region the stream was compressed against; the packed stream follows them.
func Decompress(data []byte, priorLength int) ([]byte, error) {
	return decode(data, priorLength, nil)
}

// Verify unpacks data like Decompress, comparing every byte written with
// want. It reports the first difference without stopping.
func Verify(data []byte, priorLength int, want []byte) ([]byte, *pack.Mismatch, error) {
	v := pack.NewVerifier(want)
	out, err := decode(data, priorLength, v)
	return out, v.Finish(len(out)), err
}

type decoder struct {
	data  []byte
	pos   int
	prior int
	out   []byte
	v     *pack.Verifier[byte]
}

func (d *decoder) word() (uint16, error) {
	if d.pos+2 > len(d.data) {
		return 0, fmt.Errorf("%w: truncated at byte %d", ErrCorrupt, d.pos)
	}
	w := binary.LittleEndian.Uint16(d.data[d.pos:])
	d.pos += 2
	return w, nil
}

func (d *decoder) put(w uint16) {
	d.v.Check(len(d.out), byte(w))
	d.v.Check(len(d.out)+1, byte(w>>8))
	d.out = binary.LittleEndian.AppendUint16(d.out, w)
}

func decode(data []byte, priorLength int, v *pack.Verifier[byte]) ([]byte, error) {
	if priorLength < 0 || priorLength > len(data) {
		return nil, fmt.Errorf("%w: prior length %d for %d bytes of input", ErrInvalidArgs, priorLength, len(data))
	}
	d := &decoder{
		data:  data,
		pos:   priorLength,
		prior: priorLength,
		v:     v,
	}
	for {
		h, err := d.word()
		if err != nil {
			return d.out, err
		}
		literals := int(h >> 12)
		code := int(h>>8) & 0xf
		x := int(h & 0xff)
		if literals == 0 && code == 0 {
			break
		}

		for i := 0; i < literals; i++ {
			w, err := d.word()
			if err != nil {
				return d.out, err
			}
			d.put(w)
		}
		if code == 0 {
			continue
		}

		if code != longCode {
			if err := d.copyOutput(code+1, x+1); err != nil {
				return d.out, err
			}
			continue
		}
		w, err := d.word()
		if err != nil {
			return d.out, err
		}
		length := x + 1
		offset := int(w&^externalFlag) + 1
		if w&externalFlag != 0 {
			err = d.copyInput(length, offset)
		} else {
			err = d.copyOutput(length, offset)
		}
		if err != nil {
			return d.out, err
		}
	}

	if d.pos+2 <= len(data) && data[d.pos] == oddMarker {
		d.v.Check(len(d.out), data[d.pos+1])
		d.out = append(d.out, data[d.pos+1])
	}
	return d.out, nil
}

// copyOutput copies length words starting offset words back in the output.
// The source may overlap what is being written.
func (d *decoder) copyOutput(length, offset int) error {
	from := len(d.out) - 2*offset
	if from < 0 {
		return fmt.Errorf("%w: offset %d before start of output (%d words)", ErrCorrupt, offset, len(d.out)/2)
	}
	for i := 0; i < length; i++ {
		d.put(binary.LittleEndian.Uint16(d.out[from+2*i:]))
	}
	return nil
}

// copyInput copies length words from the prior region, offset words back
// from the current read position.
func (d *decoder) copyInput(length, offset int) error {
	from := d.pos - 2*offset
	if from < 0 || from+2*length > d.prior {
		return fmt.Errorf("%w: prior-region copy [%d,%d) outside [0,%d)", ErrCorrupt, from, from+2*length, d.prior)
	}
	for i := 0; i < length; i++ {
		d.put(binary.LittleEndian.Uint16(d.data[from+2*i:]))
	}
	return nil
}
