package lz4w

import (
	"fmt"

	"github.com/retrodev/pack"
)

// Wire format constants. Every header is a little-endian word:
// bits 15-12 literal count, bits 11-8 match code, bits 7-0 offset or length.
const (
	MaxLiterals    = 15     // literal words per segment
	MaxShortLength = 15     // match codes 1..14 carry lengths 2..15
	MaxShortOffset = 256    // short offsets are stored minus one in 8 bits
	MaxLongLength  = 256    // long lengths are stored minus one in 8 bits
	MaxLongOffset  = 0x8000 // long offsets are stored minus one in 15 bits

	longCode     = 0xf    // match code escaping to the long form
	externalFlag = 0x8000 // long-offset bit selecting the prior region
	oddMarker    = 0x80   // first byte of the trailer carrying an odd byte
)

// Constraints returns the limits of the word format.
func Constraints() pack.Constraints {
	return pack.Constraints{
		MaxLiteralRun:  MaxLiterals,
		MaxShortLength: MaxShortLength,
		MaxShortOffset: MaxShortOffset,
		ShortCost:      1,
		MaxLongLength:  MaxLongLength,
		MaxLongOffset:  MaxLongOffset,
		LongCost:       2,
	}
}

// checkWire reports whether c fits inside the word format's fields.
func checkWire(c *pack.Constraints) error {
	switch {
	case c.MaxLiteralRun > MaxLiterals:
		return fmt.Errorf("%w: literal run %d exceeds %d", ErrInvalidArgs, c.MaxLiteralRun, MaxLiterals)
	case c.MaxShortLength > MaxShortLength || c.MaxShortOffset > MaxShortOffset:
		return fmt.Errorf("%w: short form %d/%d exceeds %d/%d", ErrInvalidArgs,
			c.MaxShortLength, c.MaxShortOffset, MaxShortLength, MaxShortOffset)
	case c.MaxLongLength > MaxLongLength || c.MaxLongOffset > MaxLongOffset:
		return fmt.Errorf("%w: long form %d/%d exceeds %d/%d", ErrInvalidArgs,
			c.MaxLongLength, c.MaxLongOffset, MaxLongLength, MaxLongOffset)
	}
	return nil
}

func header(literals, code, x int) uint16 {
	return uint16(literals<<12 | code<<8 | x)
}
