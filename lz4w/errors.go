package lz4w

import "errors"

// Package errors.
var (
	// ErrOffsetOverflow means a match into the prior region needs an
	// offset the long-offset field cannot hold. The stream is still
	// compressible without the prior region; see Pack.
	ErrOffsetOverflow = errors.New("lz4w: prior-region offset overflow")

	ErrCorrupt     = errors.New("lz4w: corrupt input")
	ErrInvalidArgs = errors.New("lz4w: invalid arguments")
)
