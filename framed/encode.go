// Package framed implements the byte-oriented LZ format used for audio
// command streams. The packed stream can be cut at marker segments placed
// exactly on caller-supplied frame boundaries, so a player can consume it in
// fixed chunks.
//
// Each segment is a header byte (bits 7-5 literal count, bits 4-0 match
// code), then the offset byte if the segment has a match, then the
// literals:
//
//	0x00                   end of stream
//	lll00000               lll literals, no match
//	00000001               frame boundary marker
//	lllmmmmm oooooooo ...  lll literals, then copy mmmmm+1 bytes from o+1 back
package framed

import (
	"fmt"
	"math"
	"sort"

	"github.com/retrodev/pack"
)

const (
	MaxLiterals = 7   // literals per segment
	MinLength   = 3   // match codes 2..31 carry lengths 3..32
	MaxLength   = 32  // longest match
	MaxOffset   = 256 // offsets are stored minus one in a byte

	markerCode = 1 // with no literals
)

// Constraints returns the limits of the byte format.
func Constraints() pack.Constraints {
	return pack.Constraints{
		MaxLiteralRun:  MaxLiterals,
		MinLength:      MinLength,
		MaxShortLength: MaxLength,
		MaxShortOffset: MaxOffset,
		ShortCost:      2, // header and offset byte
	}
}

// An Encoder implements the pack.Encoder interface, writing the byte
// format with a marker at each forced boundary.
type Encoder struct {
	// Boundaries are the forced boundary offsets, ascending.
	Boundaries []int

	Stats *pack.Stats
}

func (e *Encoder) Encode(dst []byte, src []byte, matches []pack.Match) ([]byte, error) {
	bounds := e.Boundaries
	lit := 0 // start of pending literals
	pos := 0

	// literalsOnly writes src[lit:end] as literal-only segments.
	literalsOnly := func(end int) {
		for lit < end {
			n := min(end-lit, MaxLiterals)
			dst = append(dst, byte(n<<5))
			dst = append(dst, src[lit:lit+n]...)
			e.Stats.AddLiterals(n)
			e.Stats.AddLiteralSegment()
			lit += n
		}
	}
	// advance moves pos to end as literals, writing a marker at every
	// boundary on the way.
	advance := func(end int) {
		for len(bounds) > 0 && bounds[0] <= end {
			literalsOnly(bounds[0])
			dst = append(dst, markerCode)
			e.Stats.AddMarker()
			bounds = bounds[1:]
		}
		pos = end
	}

	for _, m := range matches {
		advance(pos + m.Unmatched)
		if m.Length == 0 {
			continue
		}
		end := pos + m.Length
		if len(bounds) > 0 && bounds[0] < end {
			// The match would straddle a boundary.
			e.Stats.AddDiscarded()
			advance(end)
			continue
		}
		if m.Length < MinLength || m.Length > MaxLength || m.Distance < 1 || m.Distance > MaxOffset || m.Long {
			panic(fmt.Sprintf("framed: match out of range: length %d, distance %d", m.Length, m.Distance))
		}

		literalsOnly(pos - min(pos-lit, MaxLiterals))
		n := pos - lit
		dst = append(dst, byte(n<<5|(m.Length-1)), byte(m.Distance-1))
		dst = append(dst, src[lit:pos]...)
		e.Stats.AddLiterals(n)
		e.Stats.AddMatch(m)
		pos = end
		lit = pos
	}
	advance(len(src))
	literalsOnly(len(src))
	return append(dst, 0), nil
}

// Options configures Compress.
type Options struct {
	// Boundaries lists, in ascending order, the offsets where the player
	// may start a new frame. Starting at 0, the first listed offset at
	// least MinSpacing past the previous forced boundary is forced.
	Boundaries []int

	// MinSpacing and MaxSpacing bound the distance between forced
	// boundaries. The default MaxSpacing is unlimited.
	MinSpacing int
	MaxSpacing int

	Stats *pack.Stats
}

// Compress packs src. With boundaries set, it fails with an error wrapping
// ErrBoundaryOverflow if they cannot be spaced as requested.
func Compress(src []byte, opts *Options) ([]byte, error) {
	if opts == nil {
		opts = &Options{}
	}
	forced, err := ForceBoundaries(opts.Boundaries, len(src), opts.MinSpacing, opts.MaxSpacing)
	if err != nil {
		return nil, err
	}
	c := Constraints()
	c.Barriers = forced
	e := &Encoder{
		Boundaries: forced,
		Stats:      opts.Stats,
	}
	out, err := pack.Compress(nil, src, c, e)
	if err != nil {
		return nil, err
	}
	opts.Stats.SetSizes(len(src), len(out))
	return out, nil
}

// ForceBoundaries picks the boundaries to force from the ascending list,
// for an input of n bytes. Boundaries at 0 or past n are ignored.
func ForceBoundaries(list []int, n, minSpacing, maxSpacing int) ([]int, error) {
	if len(list) == 0 {
		return nil, nil
	}
	if !sort.IntsAreSorted(list) {
		return nil, fmt.Errorf("%w: boundaries not ascending", ErrInvalidArgs)
	}
	if maxSpacing == 0 {
		maxSpacing = math.MaxInt
	}
	if minSpacing < 0 || minSpacing > maxSpacing {
		return nil, fmt.Errorf("%w: spacing [%d,%d]", ErrInvalidArgs, minSpacing, maxSpacing)
	}

	var forced []int
	last := 0
	for _, b := range list {
		if b <= last {
			continue
		}
		if b > n {
			break
		}
		d := b - last
		if d < minSpacing {
			continue
		}
		if d > maxSpacing {
			return nil, fmt.Errorf("%w: no boundary in [%d,%d], next is %d", ErrBoundaryOverflow,
				last+minSpacing, last+maxSpacing, b)
		}
		forced = append(forced, b)
		last = b
	}
	if n-last > maxSpacing {
		return nil, fmt.Errorf("%w: %d bytes after the last boundary at %d", ErrBoundaryOverflow, n-last, last)
	}
	return forced, nil
}
