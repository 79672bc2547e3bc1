package pack

import (
	"fmt"
	"log"
)

// enable debug printing
const debug = false

func printf(format string, a ...interface{}) {
	if debug {
		log.Printf(format, a...)
	}
}

// Parse indexes src and returns the optimal decomposition of
// src[c.External:]. Distances are relative to the whole buffer, so a
// match into the prior region reaches back past the start of the input.
func Parse[S Symbol](src []S, c Constraints) ([]Match, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.External > len(src) {
		return nil, fmt.Errorf("pack: prior region (%d symbols) longer than buffer (%d)", c.External, len(src))
	}
	ix := NewIndex(src, c)
	var p OptimalParser
	matches := p.Parse(nil, ix, c.External, len(src))
	printf("pack: parsed %d symbols into %d segments, cost %d", len(src)-c.External, len(matches), p.Cost)
	return matches, nil
}

// Compress runs Parse and appends e's encoding of the input part of src
// (without the prior region) to dst.
func Compress[S Symbol](dst []byte, src []S, c Constraints, e Encoder[S]) ([]byte, error) {
	matches, err := Parse(src, c)
	if err != nil {
		return dst, err
	}
	return e.Encode(dst, src[c.External:], matches)
}
