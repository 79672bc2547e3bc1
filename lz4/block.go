// Package lz4 writes the optimal byte parse in the standard LZ4 block and
// frame formats, so that the engine's output can be checked against the
// reference decoders on the host.
package lz4

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/retrodev/pack"
)

// Constraints returns the limits of the LZ4 block format. Matches are at
// least 4 bytes long; a sequence costs at least a token and two offset
// bytes.
func Constraints() pack.Constraints {
	return pack.Constraints{
		MaxLiteralRun:  math.MaxInt32,
		MinLength:      4,
		MaxShortLength: 1 << 16,
		MaxShortOffset: 65535,
		ShortCost:      3,
	}
}

// A BlockEncoder implements the pack.Encoder interface, writing in the LZ4
// block format.
type BlockEncoder struct {
	Stats *pack.Stats
}

func (e BlockEncoder) Encode(dst []byte, src []byte, matches []pack.Match) ([]byte, error) {
	// Ensure that the block ends with at least 5 literal bytes,
	// and the last match is at least 12 bytes before the end of the block.
	trailingLiterals := 0
	for len(matches) > 0 && (trailingLiterals < 5 || trailingLiterals+matches[len(matches)-1].Length < 12) {
		lastMatch := matches[len(matches)-1]
		matches = matches[:len(matches)-1]
		trailingLiterals += lastMatch.Unmatched + lastMatch.Length
	}

	pos := 0
	for _, m := range matches {
		if m.Length < 4 || m.Distance < 1 || m.Distance > 65535 {
			panic(fmt.Sprintf("lz4: match out of range: length %d, distance %d", m.Length, m.Distance))
		}
		token := byte(0)
		if m.Unmatched > 14 {
			token |= 0xf0
		} else {
			token |= byte(m.Unmatched << 4)
		}
		if m.Length > 18 {
			token |= 0x0f
		} else {
			token |= byte(m.Length - 4)
		}
		dst = append(dst, token)

		if m.Unmatched > 14 {
			dst = appendInt(dst, m.Unmatched-15)
		}
		dst = append(dst, src[pos:pos+m.Unmatched]...)

		dst = binary.LittleEndian.AppendUint16(dst, uint16(m.Distance))
		if m.Length > 18 {
			dst = appendInt(dst, m.Length-19)
		}

		e.Stats.AddLiterals(m.Unmatched)
		e.Stats.AddMatch(m)
		pos += m.Unmatched + m.Length
	}

	// Write the final, literals-only sequence.
	token := byte(0)
	if trailingLiterals > 14 {
		token |= 0xf0
	} else {
		token |= byte(trailingLiterals << 4)
	}
	dst = append(dst, token)
	if trailingLiterals > 14 {
		dst = appendInt(dst, trailingLiterals-15)
	}
	dst = append(dst, src[pos:]...)
	e.Stats.AddLiterals(len(src) - pos)
	e.Stats.AddLiteralSegment()

	return dst, nil
}

// appendInt appends n to dst in LZ4's variable-length integer format.
func appendInt(dst []byte, n int) []byte {
	for n >= 255 {
		dst = append(dst, 255)
		n -= 255
	}
	dst = append(dst, byte(n))
	return dst
}

// Compress returns src as a single LZ4 block. stats may be nil.
func Compress(src []byte, stats *pack.Stats) ([]byte, error) {
	out, err := pack.Compress(nil, src, Constraints(), BlockEncoder{Stats: stats})
	if err != nil {
		return nil, err
	}
	stats.SetSizes(len(src), len(out))
	return out, nil
}
