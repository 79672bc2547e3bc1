// Package corpus generates reproducible inputs for tests and benchmarks,
// shaped like the assets the formats are built for.
package corpus

import (
	"encoding/binary"
	"math/rand"
)

// Random returns n bytes of noise.
func Random(n int, seed int64) []byte {
	r := rand.New(rand.NewSource(seed))
	b := make([]byte, n)
	r.Read(b)
	return b
}

// Tiles returns n bytes of 4bpp tile graphics: 32-byte tiles drawn from a
// small palette of patterns, flipped and recolored now and then, with runs
// of blank tiles.
func Tiles(n int, seed int64) []byte {
	r := rand.New(rand.NewSource(seed))
	patterns := make([][]byte, 12)
	for i := range patterns {
		p := make([]byte, 32)
		for j := range p {
			// Mostly two colors per row.
			if r.Intn(3) == 0 {
				p[j] = byte(r.Intn(256))
			} else {
				p[j] = 0x11 * byte(i%4)
			}
		}
		patterns[i] = p
	}
	b := make([]byte, 0, n+32)
	for len(b) < n {
		switch r.Intn(8) {
		case 0:
			for k := r.Intn(6); k >= 0; k-- {
				b = append(b, make([]byte, 32)...)
			}
		case 1:
			p := patterns[r.Intn(len(patterns))]
			for j := 31; j >= 0; j-- {
				b = append(b, p[j])
			}
		case 2:
			p := patterns[r.Intn(len(patterns))]
			shift := byte(r.Intn(16))
			for _, v := range p {
				b = append(b, v^shift)
			}
		default:
			b = append(b, patterns[r.Intn(len(patterns))]...)
		}
	}
	return b[:n]
}

// Commands returns n bytes of a sound-chip command stream: a loop of
// frames of register writes, each frame ending in a wait, with frames
// changing now and then as the loop repeats.
func Commands(n int, seed int64) []byte {
	r := rand.New(rand.NewSource(seed))
	regs := []byte{0x40, 0x41, 0x42, 0x50, 0x51, 0x60}
	newFrame := func() []byte {
		note := byte(0x20 + r.Intn(0x40))
		var f []byte
		for _, reg := range regs[:2+r.Intn(len(regs)-1)] {
			f = append(f, reg, note+reg&3)
		}
		return append(f, 0xff) // wait
	}
	frames := make([][]byte, 16)
	for i := range frames {
		frames[i] = newFrame()
	}
	b := make([]byte, 0, n+16)
	for len(b) < n {
		for i := range frames {
			if r.Intn(16) == 0 {
				frames[i] = newFrame()
			}
			b = append(b, frames[i]...)
		}
	}
	return b[:n]
}

// Words returns n 16-bit words of tile map data as little-endian bytes:
// tile indexes with attribute bits, laid out in rows that mostly repeat.
func Words(n int, seed int64) []byte {
	r := rand.New(rand.NewSource(seed))
	const width = 32
	row := make([]uint16, width)
	b := make([]byte, 0, 2*n)
	for i := 0; i < n; i++ {
		x := i % width
		if x == 0 || r.Intn(10) == 0 {
			row[x] = uint16(r.Intn(64)) | uint16(r.Intn(4))<<13
		}
		b = binary.LittleEndian.AppendUint16(b, row[x])
	}
	return b
}
