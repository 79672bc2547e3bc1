package pack

import "fmt"

// A Mismatch describes the first symbol where a decoded stream differs from
// its reference.
type Mismatch struct {
	Offset int // symbol index in the decoded output
	Got    int // -1 if the decoder stopped before Offset
	Want   int // -1 if the reference ends before Offset
}

func (m *Mismatch) String() string {
	switch {
	case m.Got < 0:
		return fmt.Sprintf("output ends at %d, reference continues with %#x", m.Offset, m.Want)
	case m.Want < 0:
		return fmt.Sprintf("output continues past reference at %d with %#x", m.Offset, m.Got)
	}
	return fmt.Sprintf("mismatch at %d: got %#x, want %#x", m.Offset, m.Got, m.Want)
}

// A Verifier compares every symbol a decoder writes against a reference and
// remembers the first difference. It never stops the decoder. A nil
// *Verifier checks nothing.
type Verifier[S Symbol] struct {
	want  []S
	first *Mismatch
}

// NewVerifier returns a Verifier comparing against want.
func NewVerifier[S Symbol](want []S) *Verifier[S] {
	return &Verifier[S]{want: want}
}

// Check compares the symbol written at offset i.
func (v *Verifier[S]) Check(i int, got S) {
	if v == nil || v.first != nil {
		return
	}
	switch {
	case i >= len(v.want):
		v.first = &Mismatch{Offset: i, Got: int(got), Want: -1}
	case v.want[i] != got:
		v.first = &Mismatch{Offset: i, Got: int(got), Want: int(v.want[i])}
	}
}

// Finish records a short output of n symbols and returns the first
// mismatch, or nil if the output matched the reference exactly.
func (v *Verifier[S]) Finish(n int) *Mismatch {
	if v == nil {
		return nil
	}
	if v.first == nil && n < len(v.want) {
		v.first = &Mismatch{Offset: n, Got: -1, Want: int(v.want[n])}
	}
	return v.first
}
