// Package lz4w implements the word-oriented LZ format used for tile and
// sprite graphics: 16-bit symbols, 16-bit segment headers, and an optional
// prior region that the decoder reads straight from its input buffer.
package lz4w

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log"

	"github.com/retrodev/pack"
)

// enable encoding debug printing
const debugEncoder = false

func printf(format string, a ...interface{}) {
	if debugEncoder {
		log.Printf(format, a...)
	}
}

// An Encoder implements the pack.Encoder interface, writing the word
// format.
type Encoder struct {
	// MaxLiterals is the largest literal count per header.
	// The default is 15.
	MaxLiterals int

	// Odd and Tail carry the dangling last byte of an odd-length input.
	Odd  bool
	Tail byte

	Stats *pack.Stats
}

func (e *Encoder) Encode(dst []byte, src []uint16, matches []pack.Match) ([]byte, error) {
	if e.MaxLiterals == 0 {
		e.MaxLiterals = MaxLiterals
	}
	start := len(dst)
	pos := 0
	for _, m := range matches {
		lits := src[pos : pos+m.Unmatched]
		e.Stats.AddLiterals(len(lits))

		// Literal overflow goes out as literal-only segments first.
		for len(lits) > e.MaxLiterals || m.Length == 0 && len(lits) > 0 {
			n := min(len(lits), e.MaxLiterals)
			dst = binary.LittleEndian.AppendUint16(dst, header(n, 0, 0))
			dst = pack.AppendWords(dst, lits[:n])
			lits = lits[n:]
			e.Stats.AddLiteralSegment()
		}
		pos += m.Unmatched
		if m.Length == 0 {
			continue
		}

		if !m.Long {
			if m.Length < 2 || m.Length > MaxShortLength || m.Distance < 1 || m.Distance > MaxShortOffset {
				panic(fmt.Sprintf("lz4w: short match out of range: length %d, distance %d", m.Length, m.Distance))
			}
			dst = binary.LittleEndian.AppendUint16(dst, header(len(lits), m.Length-1, m.Distance-1))
			dst = pack.AppendWords(dst, lits)
		} else {
			if m.Length < 1 || m.Length > MaxLongLength {
				panic(fmt.Sprintf("lz4w: long match out of range: length %d", m.Length))
			}
			dst = binary.LittleEndian.AppendUint16(dst, header(len(lits), longCode, m.Length-1))
			dst = pack.AppendWords(dst, lits)

			offset := m.Distance
			var flag uint16
			if m.External {
				// The decoder finds prior data by counting back from its read
				// position, so the offset grows by every word written so far
				// (this one included) and shrinks by every word matches have
				// produced without being written.
				written := (len(dst)-start)/2 + 1
				offset += written - pos
				flag = externalFlag
			}
			if offset < 1 || offset > MaxLongOffset {
				if m.External {
					return dst, fmt.Errorf("%w: match at word %d needs offset %d (max %d)", ErrOffsetOverflow, pos, offset, MaxLongOffset)
				}
				panic(fmt.Sprintf("lz4w: long match distance %d out of range", m.Distance))
			}
			dst = binary.LittleEndian.AppendUint16(dst, uint16(offset-1)|flag)
			printf("lz4w: long match at %d: length %d, offset %d, external %v", pos, m.Length, offset, m.External)
		}
		e.Stats.AddMatch(m)
		pos += m.Length
	}

	dst = append(dst, 0, 0)
	if e.Odd {
		dst = append(dst, oddMarker, e.Tail)
	}
	return dst, nil
}

// Options configures Compress.
type Options struct {
	// Start is where in src compression begins; earlier bytes are ignored.
	Start int

	// Prior is data the decoder already has, stored immediately before the
	// packed stream in its input. Matches may copy from it. If len(Prior)
	// is odd, its first byte is unused so that words stay aligned with the
	// end of the region.
	Prior []byte

	// Constraints overrides the format limits, e.g. to set a MinLength
	// or to disable the long form. The zero value means Constraints().
	Constraints *pack.Constraints

	Stats *pack.Stats
}

// Compress packs src. If opts.Prior is set and a match into it cannot be
// encoded, the error wraps ErrOffsetOverflow and the caller should retry
// without the prior region (Pack does this).
func Compress(src []byte, opts *Options) ([]byte, error) {
	if opts == nil {
		opts = &Options{}
	}
	if opts.Start < 0 || opts.Start > len(src) {
		return nil, fmt.Errorf("%w: start %d outside input of %d bytes", ErrInvalidArgs, opts.Start, len(src))
	}
	src = src[opts.Start:]

	c := Constraints()
	if opts.Constraints != nil {
		c = *opts.Constraints
		if err := checkWire(&c); err != nil {
			return nil, err
		}
	}

	prior, _, _ := pack.Words(opts.Prior[len(opts.Prior)&1:])
	words, tail, odd := pack.Words(src)
	buf := make([]uint16, 0, len(prior)+len(words))
	buf = append(buf, prior...)
	buf = append(buf, words...)
	c.External = len(prior)

	e := &Encoder{
		MaxLiterals: c.MaxLiteralRun,
		Odd:         odd,
		Tail:        tail,
		Stats:       opts.Stats,
	}
	out, err := pack.Compress(nil, buf, c, e)
	if err != nil {
		return nil, err
	}
	opts.Stats.SetSizes(len(src), len(out))
	return out, nil
}

// A Result is the outcome of Pack.
type Result struct {
	Data []byte

	// UsedPrior reports whether Data references the prior region. If it
	// is false, Data must be decoded with a prior length of 0.
	UsedPrior bool
}

// Pack compresses src against prior, falling back to compressing without
// the prior region when an offset into it overflows. stats may be nil; it
// describes the stream that was returned.
func Pack(src, prior []byte, stats *pack.Stats) (Result, error) {
	if len(prior) > 0 {
		out, err := Compress(src, &Options{Prior: prior, Stats: stats})
		if err == nil {
			return Result{Data: out, UsedPrior: true}, nil
		}
		if !errors.Is(err, ErrOffsetOverflow) {
			return Result{}, err
		}
		printf("lz4w: %v, retrying without prior data", err)
		if stats != nil {
			*stats = pack.Stats{}
		}
	}
	out, err := Compress(src, &Options{Stats: stats})
	if err != nil {
		return Result{}, err
	}
	return Result{Data: out}, nil
}
