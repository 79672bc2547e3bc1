package pack

import "fmt"

// Constraints describes what a wire format can express. The symbol width is
// given by the type parameter of the functions that take it.
type Constraints struct {
	// MaxLiteralRun is the largest literal count one segment header holds.
	MaxLiteralRun int

	// MinLength is the length of the shortest match to return.
	// The default is 1 (any match that saves a symbol).
	MinLength int

	// MaxShortLength and MaxShortOffset bound the short form.
	MaxShortLength int
	MaxShortOffset int
	// ShortCost is the cost of a short match, in symbols.
	ShortCost int

	// MaxLongLength and MaxLongOffset bound the long (escaped) form, and
	// may not be below the short form limits. A zero MaxLongLength means
	// the format has no long form.
	MaxLongLength int
	MaxLongOffset int
	// LongCost is the cost of a long match, in symbols.
	LongCost int

	// External is the number of leading symbols of the buffer that form the
	// prior region: known to the decoder, never emitted, usable as match
	// source only.
	External int

	// Barriers lists ascending positions, relative to the end of the prior
	// region, that no match may straddle.
	Barriers []int
}

// Validate reports whether c describes a usable format.
func (c *Constraints) Validate() error {
	switch {
	case c.MaxLiteralRun < 1:
		return fmt.Errorf("pack: MaxLiteralRun must be positive, got %d", c.MaxLiteralRun)
	case c.MaxShortLength < 1 || c.MaxShortOffset < 1:
		return fmt.Errorf("pack: short form limits must be positive (length %d, offset %d)", c.MaxShortLength, c.MaxShortOffset)
	case c.ShortCost < 1:
		return fmt.Errorf("pack: ShortCost must be positive, got %d", c.ShortCost)
	case c.MaxLongLength > 0 && (c.MaxLongOffset < 1 || c.LongCost < 1):
		return fmt.Errorf("pack: long form needs a positive offset limit and cost")
	case c.hasLong() && c.LongCost < c.ShortCost:
		return fmt.Errorf("pack: LongCost %d below ShortCost %d", c.LongCost, c.ShortCost)
	case c.hasLong() && (c.MaxLongLength < c.MaxShortLength || c.MaxLongOffset < c.MaxShortOffset):
		return fmt.Errorf("pack: long form limits (length %d, offset %d) below short form limits (length %d, offset %d)",
			c.MaxLongLength, c.MaxLongOffset, c.MaxShortLength, c.MaxShortOffset)
	case c.External < 0:
		return fmt.Errorf("pack: negative prior region length %d", c.External)
	}
	for i := 1; i < len(c.Barriers); i++ {
		if c.Barriers[i] <= c.Barriers[i-1] {
			return fmt.Errorf("pack: barriers not strictly ascending at index %d", i)
		}
	}
	return nil
}

func (c *Constraints) hasLong() bool {
	return c.MaxLongLength > 0
}

// maxOffset is the size of the window.
func (c *Constraints) maxOffset() int {
	if c.hasLong() && c.MaxLongOffset > c.MaxShortOffset {
		return c.MaxLongOffset
	}
	return c.MaxShortOffset
}

// maxLength is the longest match any form can carry.
func (c *Constraints) maxLength() int {
	if c.hasLong() && c.MaxLongLength > c.MaxShortLength {
		return c.MaxLongLength
	}
	return c.MaxShortLength
}

func (c *Constraints) minLength() int {
	if c.MinLength < 1 {
		return 1
	}
	return c.MinLength
}

// form picks the cheapest wire form for a match, reporting ok=false when
// none can express it.
func (c *Constraints) form(length, offset int, external bool) (cost int, long, ok bool) {
	if !external && length <= c.MaxShortLength && offset <= c.MaxShortOffset {
		return c.ShortCost, false, true
	}
	if c.hasLong() && length <= c.MaxLongLength && (external || offset <= c.MaxLongOffset) {
		return c.LongCost, true, true
	}
	return 0, false, false
}
