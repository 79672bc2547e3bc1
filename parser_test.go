package pack

import (
	"testing"

	"github.com/RyanCarrier/dijkstra"
	"github.com/retrodev/pack/internal/corpus"
)

// checkParse verifies that matches cover src[c.External:] exactly and that
// every match is valid where it lands.
func checkParse[S Symbol](t *testing.T, src []S, c Constraints, matches []Match) {
	t.Helper()
	pos := c.External
	barriers := c.Barriers
	for _, m := range matches {
		pos += m.Unmatched
		if m.Length == 0 {
			continue
		}
		end := pos + m.Length
		for len(barriers) > 0 && barriers[0]+c.External <= pos {
			barriers = barriers[1:]
		}
		if len(barriers) > 0 && barriers[0]+c.External < end {
			t.Fatalf("match %+v at %d crosses barrier %d", m, pos, barriers[0])
		}
		cost := c.ShortCost
		if m.Long {
			cost = c.LongCost
		}
		checkMatch(t, src, c, pos, AbsoluteMatch{
			Start:    pos,
			End:      end,
			Match:    pos - m.Distance,
			Cost:     cost,
			Long:     m.Long,
			External: m.External,
		})
		pos = end
	}
	if pos != len(src) {
		t.Fatalf("matches cover %d symbols, want %d", pos-c.External, len(src)-c.External)
	}
}

type parseCase struct {
	name string
	src  func() []uint16
	c    Constraints
}

func parseCases() []parseCase {
	withPrior := wordFormat
	withPrior.External = 1000
	withBarriers := byteFormat
	withBarriers.Barriers = []int{64, 100, 101, 500, 1500}
	return []parseCase{
		{"word/tiles", func() []uint16 { return words(corpus.Tiles(8000, 1)) }, wordFormat},
		{"word/small", func() []uint16 { return words(smallAlphabet(4000, 2)) }, wordFormat},
		{"word/prior", func() []uint16 { return words(corpus.Tiles(8000, 3)) }, withPrior},
		{"byte/commands", func() []uint16 { return widen(corpus.Commands(4000, 4)) }, byteFormat},
		{"byte/barriers", func() []uint16 { return widen(corpus.Commands(2000, 5)) }, withBarriers},
		{"tiny/small", func() []uint16 { return widen(smallAlphabet(2000, 6)) }, tinyFormat},
	}
}

// widen turns bytes into one symbol each.
func widen(b []byte) []uint16 {
	w := make([]uint16, len(b))
	for i, v := range b {
		w[i] = uint16(v)
	}
	return w
}

func TestParseValid(t *testing.T) {
	for _, tc := range parseCases() {
		t.Run(tc.name, func(t *testing.T) {
			src := tc.src()
			matches, err := Parse(src, tc.c)
			if err != nil {
				t.Fatal(err)
			}
			checkParse(t, src, tc.c, matches)
		})
	}
}

func TestOptimalBeatsGreedy(t *testing.T) {
	for _, tc := range parseCases() {
		t.Run(tc.name, func(t *testing.T) {
			src := tc.src()
			ix := NewIndex(src, tc.c)

			var op OptimalParser
			optimal := op.Parse(nil, ix, tc.c.External, len(src))
			greedy := GreedyParser{}.Parse(nil, ix, tc.c.External, len(src))
			checkParse(t, src, tc.c, greedy)

			oc, gc := tc.c.Cost(optimal), tc.c.Cost(greedy)
			if oc != op.Cost {
				t.Fatalf("parser reports cost %d, decomposition costs %d", op.Cost, oc)
			}
			if oc > gc {
				t.Fatalf("optimal cost %d, greedy cost %d", oc, gc)
			}
			t.Logf("optimal %d, greedy %d, raw %d", oc, gc, len(src)-tc.c.External)
		})
	}
}

// The backward pass is a shortest path through the graph of positions,
// with an arc of cost 1 for each literal and one for each match found.
func TestOptimalIsShortestPath(t *testing.T) {
	for _, tc := range parseCases() {
		t.Run(tc.name, func(t *testing.T) {
			src := tc.src()
			if len(src) > 3000 {
				src = src[:3000]
			}
			c := tc.c
			c.External = min(c.External, len(src))
			ix := NewIndex(src, c)

			start, n := c.External, len(src)-c.External
			g := dijkstra.NewGraph()
			for i := 0; i <= n; i++ {
				g.AddVertex(i)
			}
			for i := 0; i < n; i++ {
				if err := g.AddArc(i, i+1, 1); err != nil {
					t.Fatal(err)
				}
				if m, ok := ix.Search(start + i); ok {
					if err := g.AddArc(i, m.End-start, int64(m.Cost)); err != nil {
						t.Fatal(err)
					}
				}
			}
			best, err := g.Shortest(0, n)
			if err != nil {
				t.Fatal(err)
			}

			var op OptimalParser
			op.Parse(nil, ix, start, len(src))
			if int64(op.Cost) != best.Distance {
				t.Fatalf("parser cost %d, shortest path %d", op.Cost, best.Distance)
			}
		})
	}
}

func TestParseExample(t *testing.T) {
	src := []byte{1, 1, 1, 1, 1, 2, 3, 4, 5, 1, 1, 1, 1, 1}

	c := byteFormat
	c.MinLength = 5
	matches, err := Parse(src, c)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || matches[0] != (Match{Unmatched: 9, Length: 5, Distance: 9}) {
		t.Fatalf("got %+v", matches)
	}

	// With short matches allowed, the first run copies itself.
	c = wordFormat
	c.MaxLongLength = 0
	var op OptimalParser
	matches = op.Parse(nil, NewIndex(src, c), 0, len(src))
	want := []Match{
		{Unmatched: 1, Length: 4, Distance: 1},
		{Unmatched: 4, Length: 5, Distance: 9},
	}
	if op.Cost != 7 || len(matches) != len(want) || matches[0] != want[0] || matches[1] != want[1] {
		t.Fatalf("got %+v at cost %d, want %+v at cost 7", matches, op.Cost, want)
	}
}

func TestParseEmpty(t *testing.T) {
	matches, err := Parse([]byte{}, byteFormat)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Fatalf("got %+v", matches)
	}
}

func TestParseBadConstraints(t *testing.T) {
	for _, c := range []Constraints{
		{},
		{MaxLiteralRun: 7, MaxShortLength: 32, MaxShortOffset: 256},
		{MaxLiteralRun: 7, MaxShortLength: 32, MaxShortOffset: 256, ShortCost: 2, MaxLongLength: 10},
		{MaxLiteralRun: 7, MaxShortLength: 18, MaxShortOffset: 256, ShortCost: 1, MaxLongLength: 15, MaxLongOffset: 1000, LongCost: 2},
		{MaxLiteralRun: 7, MaxShortLength: 16, MaxShortOffset: 36, ShortCost: 1, MaxLongLength: 64, MaxLongOffset: 29, LongCost: 2},
		{MaxLiteralRun: 7, MaxShortLength: 16, MaxShortOffset: 36, ShortCost: 2, MaxLongLength: 64, MaxLongOffset: 300, LongCost: 1},
		{MaxLiteralRun: 7, MaxShortLength: 32, MaxShortOffset: 256, ShortCost: 2, Barriers: []int{5, 5}},
		{MaxLiteralRun: 7, MaxShortLength: 32, MaxShortOffset: 256, ShortCost: 2, External: 10},
	} {
		if _, err := Parse([]byte("abc"), c); err == nil {
			t.Errorf("%+v: no error", c)
		}
	}
}
