package pack

import "fmt"

// Stats collects counters for one compression call. A nil *Stats is valid
// and records nothing, so encoders can take one unconditionally.
type Stats struct {
	Literals        int // literal symbols emitted
	Matches         int
	ShortMatches    int
	LongMatches     int
	ExternalMatches int // matches sourced from the prior region
	MatchedSymbols  int // symbols reproduced by matches

	LiteralSegments int // literal-only segments, from overflow or the tail
	Markers         int // frame boundary markers
	Discarded       int // matches dropped in favor of literals

	Unpacked int // input size in bytes
	Packed   int // output size in bytes
}

// AddMatch records a match segment.
func (s *Stats) AddMatch(m Match) {
	if s == nil || m.Length == 0 {
		return
	}
	s.Matches++
	s.MatchedSymbols += m.Length
	switch {
	case m.External:
		s.ExternalMatches++
		s.LongMatches++
	case m.Long:
		s.LongMatches++
	default:
		s.ShortMatches++
	}
}

// AddLiterals records n literal symbols.
func (s *Stats) AddLiterals(n int) {
	if s == nil {
		return
	}
	s.Literals += n
}

// AddLiteralSegment records a literal-only segment.
func (s *Stats) AddLiteralSegment() {
	if s == nil {
		return
	}
	s.LiteralSegments++
}

// AddMarker records a frame boundary marker.
func (s *Stats) AddMarker() {
	if s == nil {
		return
	}
	s.Markers++
}

// AddDiscarded records a match replaced by literals.
func (s *Stats) AddDiscarded() {
	if s == nil {
		return
	}
	s.Discarded++
}

// SetSizes records the input and output sizes.
func (s *Stats) SetSizes(unpacked, packed int) {
	if s == nil {
		return
	}
	s.Unpacked = unpacked
	s.Packed = packed
}

// Ratio returns packed/unpacked, or 0 for empty input.
func (s *Stats) Ratio() float64 {
	if s == nil || s.Unpacked == 0 {
		return 0
	}
	return float64(s.Packed) / float64(s.Unpacked)
}

func (s *Stats) String() string {
	if s == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%d -> %d bytes (%.1f%%), %d literals, %d matches (%d short, %d long, %d external), %d literal-only segments, %d markers, %d discarded",
		s.Unpacked, s.Packed, 100*s.Ratio(), s.Literals,
		s.Matches, s.ShortMatches, s.LongMatches, s.ExternalMatches,
		s.LiteralSegments, s.Markers, s.Discarded)
}
