package pack

// An AbsoluteMatch is like a Match, but it stores indexes into the symbol
// stream instead of lengths.
type AbsoluteMatch struct {
	// Start is the index of the first symbol.
	Start int

	// End is the index of the symbol after the last symbol
	// (so that End - Start = Length).
	End int

	// Match is the index of the previous data that matches
	// (Start - Match = Distance).
	Match int

	// Cost is what the match costs in the output, in symbols.
	Cost int

	Long     bool
	External bool
}

func (m AbsoluteMatch) length() int {
	return m.End - m.Start
}

// A Searcher is the source of matches for a Parser. It only looks for a
// match at one position at a time.
type Searcher interface {
	// Search returns the best match starting at pos. In the match,
	// Match < Start and Start == pos. ok is false when no match saves
	// anything.
	Search(pos int) (m AbsoluteMatch, ok bool)
}

// A Parser chooses which matches to use to compress the data.
type Parser interface {
	// Parse gets matches from src, chooses which ones to use, and appends
	// them to dst. The matches cover the range of symbols from start to end.
	Parse(dst []Match, src Searcher, start, end int) []Match
}

// A GreedyParser implements the greedy matching strategy: it goes from start
// to end, taking the match found at each position.
type GreedyParser struct{}

func (GreedyParser) Parse(dst []Match, src Searcher, start, end int) []Match {
	nextEmit := start
	for s := start; s < end; {
		m, ok := src.Search(s)
		if !ok || m.End > end {
			s++
			continue
		}
		dst = append(dst, Match{
			Unmatched: m.Start - nextEmit,
			Length:    m.length(),
			Distance:  m.Start - m.Match,
			Long:      m.Long,
			External:  m.External,
		})
		s = m.End
		nextEmit = s
	}

	if nextEmit < end {
		dst = append(dst, Match{
			Unmatched: end - nextEmit,
		})
	}
	return dst
}

// An OptimalParser finds the decomposition with the smallest total cost,
// counting one per literal and the match cost per match. It makes one
// backward pass computing the cheapest cost from every position to the end,
// then walks forward along the chosen decisions.
type OptimalParser struct {
	cost   []int
	choice []AbsoluteMatch

	// Cost is the total cost of the last parse.
	Cost int
}

func (p *OptimalParser) Parse(dst []Match, src Searcher, start, end int) []Match {
	n := end - start
	if cap(p.cost) < n+1 {
		p.cost = make([]int, n+1)
		p.choice = make([]AbsoluteMatch, n)
	}
	cost := p.cost[:n+1]
	choice := p.choice[:n]
	cost[n] = 0

	for i := n - 1; i >= 0; i-- {
		cost[i] = cost[i+1] + 1
		choice[i] = AbsoluteMatch{}
		m, ok := src.Search(start + i)
		if !ok || m.End > end {
			continue
		}
		// A literal wins ties: a later, cheaper continuation can outweigh a
		// locally attractive match.
		if c := m.Cost + cost[m.End-start]; c < cost[i] {
			cost[i] = c
			choice[i] = m
		}
	}
	p.Cost = cost[0]

	nextEmit := start
	for i := 0; i < n; {
		m := choice[i]
		if m.End <= m.Start {
			i++
			continue
		}
		dst = append(dst, Match{
			Unmatched: m.Start - nextEmit,
			Length:    m.length(),
			Distance:  m.Start - m.Match,
			Long:      m.Long,
			External:  m.External,
		})
		nextEmit = m.End
		i = m.End - start
	}

	if nextEmit < end {
		dst = append(dst, Match{
			Unmatched: end - nextEmit,
		})
	}
	return dst
}

// Cost returns the total cost of a decomposition under c: one per literal,
// plus the short or long cost of each match.
func (c *Constraints) Cost(matches []Match) int {
	total := 0
	for _, m := range matches {
		total += m.Unmatched
		if m.Length == 0 {
			continue
		}
		if m.Long {
			total += c.LongCost
		} else {
			total += c.ShortCost
		}
	}
	return total
}
