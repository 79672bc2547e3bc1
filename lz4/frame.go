package lz4

import (
	"encoding/binary"
	"hash"

	"github.com/pierrec/xxHash/xxHash32"
	"github.com/retrodev/pack"
)

const (
	frameMagic   = 0x184D2204
	maxBlockSize = 4 << 20
	uncompressed = 0x80000000 // block size flag
)

// A FrameEncoder implements the pack.Encoder interface, writing each block
// it is given into one LZ4 frame. Close ends the frame.
type FrameEncoder struct {
	Stats *pack.Stats

	hasher      hash.Hash32
	blockBuffer []byte
}

func (f *FrameEncoder) Encode(dst []byte, src []byte, matches []pack.Match) ([]byte, error) {
	if len(src) > maxBlockSize {
		panic("block too large")
	}
	dst = f.header(dst)

	var err error
	f.blockBuffer, err = BlockEncoder{Stats: f.Stats}.Encode(f.blockBuffer[:0], src, matches)
	if err != nil {
		return dst, err
	}
	if len(f.blockBuffer) < len(src) {
		dst = binary.LittleEndian.AppendUint32(dst, uint32(len(f.blockBuffer)))
		dst = append(dst, f.blockBuffer...)
	} else {
		dst = binary.LittleEndian.AppendUint32(dst, uint32(len(src))|uncompressed)
		dst = append(dst, src...)
	}

	f.hasher.Write(src)
	return dst, nil
}

// header starts the frame if this is its first block.
func (f *FrameEncoder) header(dst []byte) []byte {
	if f.hasher != nil {
		return dst
	}
	f.hasher = xxHash32.New(0)
	dst = binary.LittleEndian.AppendUint32(dst, frameMagic)
	// Frame header for content checksum enabled, and 4-MB blocks.
	dst = append(dst, 0x44, 0x70)
	h := xxHash32.New(0)
	h.Write(dst[len(dst)-2:])
	return append(dst, byte(h.Sum32()>>8))
}

// Close appends the end mark and the content checksum.
func (f *FrameEncoder) Close(dst []byte) []byte {
	dst = f.header(dst)
	dst = append(dst, 0, 0, 0, 0)
	return binary.LittleEndian.AppendUint32(dst, f.hasher.Sum32())
}

// CompressFrame returns src as an LZ4 frame. Each 4 MB block is parsed on
// its own. stats may be nil.
func CompressFrame(src []byte, stats *pack.Stats) ([]byte, error) {
	f := &FrameEncoder{Stats: stats}
	unpacked := len(src)
	var dst []byte
	for len(src) > 0 {
		n := min(len(src), maxBlockSize)
		var err error
		dst, err = pack.Compress(dst, src[:n], Constraints(), f)
		if err != nil {
			return nil, err
		}
		src = src[n:]
	}
	dst = f.Close(dst)
	stats.SetSizes(unpacked, len(dst))
	return dst, nil
}
