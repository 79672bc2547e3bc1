package pack

import "fmt"

// A TextEncoder is an Encoder that produces a human-readable representation
// of a decomposition. Literal symbols are written in hex, and matches are
// replaced with <Length,Distance> symbols (<Length,Distance,ext> for
// sources in the prior region).
type TextEncoder[S Symbol] struct{}

func (t TextEncoder[S]) Encode(dst []byte, src []S, matches []Match) ([]byte, error) {
	pos := 0
	for _, m := range matches {
		for _, v := range src[pos : pos+m.Unmatched] {
			dst = fmt.Appendf(dst, "%02x ", v)
		}
		pos += m.Unmatched
		if m.Length > 0 {
			if m.External {
				dst = fmt.Appendf(dst, "<%d,%d,ext> ", m.Length, m.Distance)
			} else {
				dst = fmt.Appendf(dst, "<%d,%d> ", m.Length, m.Distance)
			}
			pos += m.Length
		}
	}
	for _, v := range src[pos:] {
		dst = fmt.Appendf(dst, "%02x ", v)
	}
	return dst, nil
}
