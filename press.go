// Package pack is the compression engine of a retro-console asset toolchain.
//
// Compressors for small target machines usually have two main parts:
//   - Something that looks for repeated runs of symbols (bytes or 16-bit words)
//   - An encoder for a compact wire format that a tiny decoder can replay
//
// This package holds the format-agnostic part: the match index, the match
// finder, the optimal and greedy parsers, and the intermediate
// representation (Match) that the format packages (lz4w, framed, lz4,
// snappy) turn into bytes.
package pack

// A Match is the basic unit of LZ77 compression: a run of literals followed
// by an optional back-reference.
type Match struct {
	Unmatched int // the number of unmatched symbols since the previous match
	Length    int // the number of symbols in the matched string; it may be 0 at the end of the input
	Distance  int // how far back in the stream to copy from

	// Long is set when the match needs the long (escaped) wire form.
	Long bool

	// External is set when the source lies in the prior region.
	External bool
}

// An Encoder encodes a decomposition in its final format.
type Encoder[S Symbol] interface {
	// Encode appends the encoded form of src to dst, using the match
	// information from matches.
	Encode(dst []byte, src []S, matches []Match) ([]byte, error)
}
