package framed

import "errors"

// Package errors.
var (
	// ErrBoundaryOverflow means no listed boundary could be placed within
	// the configured spacing, so the stream could not be cut into frames
	// the player expects.
	ErrBoundaryOverflow = errors.New("framed: boundary overflow")

	ErrCorrupt     = errors.New("framed: corrupt input")
	ErrInvalidArgs = errors.New("framed: invalid arguments")
)
