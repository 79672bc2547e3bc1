package pack

import "sort"

// A run is a stretch of count consecutive copies of one symbol value,
// starting at start.
type run struct {
	start int
	count int
}

func (r run) end() int {
	return r.start + r.count
}

// Index records every occurrence of every symbol value as runs, and is the
// Searcher the parsers use. It is built once per buffer and is read-only
// afterward, so Search may be called from several goroutines.
type Index[S Symbol] struct {
	c   Constraints
	src []S

	// runs holds, per symbol value, disjoint runs sorted by start that
	// together cover every occurrence of the value.
	runs map[S][]run

	// repeat[i] is how many copies of src[i] start at i.
	repeat []int32

	// barriers are the Constraints.Barriers, as absolute positions.
	barriers []int
}

// NewIndex scans src once and groups it into runs. src includes the prior
// region (the first c.External symbols).
func NewIndex[S Symbol](src []S, c Constraints) *Index[S] {
	ix := &Index[S]{
		c:      c,
		src:    src,
		runs:   make(map[S][]run),
		repeat: make([]int32, len(src)),
	}
	for i := 0; i < len(src); {
		v := src[i]
		j := i + 1
		for j < len(src) && src[j] == v {
			j++
		}
		ix.runs[v] = append(ix.runs[v], run{start: i, count: j - i})
		for k := i; k < j; k++ {
			ix.repeat[k] = int32(j - k)
		}
		i = j
	}
	for _, b := range c.Barriers {
		ix.barriers = append(ix.barriers, b+c.External)
	}
	return ix
}

// Len returns the number of symbols indexed, prior region included.
func (ix *Index[S]) Len() int {
	return len(ix.src)
}

// nextBarrier returns the first barrier after pos, or -1.
func (ix *Index[S]) nextBarrier(pos int) int {
	i := sort.SearchInts(ix.barriers, pos+1)
	if i == len(ix.barriers) {
		return -1
	}
	return ix.barriers[i]
}

// candidate accumulates the best match seen so far for one position.
type candidate struct {
	m     AbsoluteMatch
	score int
	found bool
}

// searchState holds what is fixed for one Search call.
type searchState[S Symbol] struct {
	ix    *Index[S]
	pos   int
	k     int // forward repeat count at pos
	limit int // uniform length cap: format maximum, end of input, next barrier
	best  candidate
}

// try scores a match of length from source s, keeping it if it beats the
// current best (ties go to the smaller offset).
func (st *searchState[S]) try(s, length int, external bool) {
	c := &st.ix.c
	if length > st.limit {
		length = st.limit
	}
	if length < c.minLength() {
		return
	}
	offset := st.pos - s
	cost, long, ok := c.form(length, offset, external)
	if !ok {
		return
	}
	// Cutting a long match down to the short form can score higher.
	if long && !external && offset <= c.MaxShortOffset && c.MaxShortLength >= c.minLength() &&
		c.MaxShortLength-c.ShortCost > length-cost {
		length, cost, long = c.MaxShortLength, c.ShortCost, false
	}
	score := length - cost
	if score < 1 {
		return
	}
	if st.best.found && (score < st.best.score || score == st.best.score && offset >= st.pos-st.best.m.Match) {
		return
	}
	st.best = candidate{
		m: AbsoluteMatch{
			Start:    st.pos,
			End:      st.pos + length,
			Match:    s,
			Cost:     cost,
			Long:     long,
			External: external,
		},
		score: score,
		found: true,
	}
}

// scanRun evaluates the sources lo..hi-1 of a run of pos's symbol that ends
// at end. Sources may not extend a match past capEnd. Only a handful of
// sources per run can be the best one:
//   - a source whose run tail is longer than k matches exactly k symbols,
//     so only the nearest of those matters;
//   - the source whose tail is exactly k long is the only one that needs
//     comparing past the run;
//   - shorter tails match exactly their tail length, which grows with the
//     distance, so the farthest short-form and farthest overall sources
//     are the only ones to look at.
func (st *searchState[S]) scanRun(lo, hi, end, capEnd int, external bool) {
	if lo >= hi {
		return
	}
	ix := st.ix
	c := &ix.c
	k := st.k
	capLen := func(s, l int) int {
		if capEnd-s < l {
			return capEnd - s
		}
		return l
	}

	// Tails longer than k.
	if s := min(hi-1, end-k-1); s >= lo {
		st.try(s, capLen(s, k), external)
	}

	// The tail exactly k long: compare past the divergence point.
	if s := end - k; s >= lo && s < hi {
		l := k
		if end <= capEnd {
			room := capLen(s, st.limit) - k
			if room > 0 {
				l += extendMatch(ix.src, end, st.pos+k, room)
			}
		}
		st.try(s, capLen(s, l), external)
	}

	// Tails shorter than k: source s matches d = end-s symbols.
	dMin := end - hi + 1
	dMax := min(end-lo, k-1)
	if dMin > dMax {
		return
	}
	base := st.pos - end // offset = base + d
	try := func(d int) {
		if d >= dMin && d <= dMax {
			st.try(end-d, d, external)
		}
	}
	dShort := dMax
	if !external {
		dShort = min(dShort, c.MaxShortOffset-base)
		if st.limit > c.MaxShortLength {
			dShort = min(dShort, c.MaxShortLength)
		}
		if dShort >= dMin {
			try(max(min(dShort, st.limit), dMin))
		}
	} else {
		dShort = dMin - 1
	}
	try(max(min(dMax, st.limit), dMin))
	try(dShort + 1)
}

// bestPossible is the highest score any match at the current position can
// reach.
func (st *searchState[S]) bestPossible() int {
	c := &st.ix.c
	top := min(st.limit, c.MaxShortLength) - c.ShortCost
	if c.hasLong() {
		if s := min(st.limit, c.MaxLongLength) - c.LongCost; s > top {
			top = s
		}
	}
	return top
}

// Search returns the best match at pos: the one maximizing length minus
// cost, with ties going to the smaller offset. It walks only the runs of
// the symbol at pos that intersect the window, nearest first.
func (ix *Index[S]) Search(pos int) (AbsoluteMatch, bool) {
	c := &ix.c
	if pos < c.External || pos >= len(ix.src) {
		return AbsoluteMatch{}, false
	}
	st := searchState[S]{
		ix:    ix,
		pos:   pos,
		k:     int(ix.repeat[pos]),
		limit: min(c.maxLength(), len(ix.src)-pos),
	}
	if b := ix.nextBarrier(pos); b >= 0 && b-pos < st.limit {
		st.limit = b - pos
	}
	if st.limit < c.minLength() {
		return AbsoluteMatch{}, false
	}
	top := st.bestPossible()
	if top < 1 {
		return AbsoluteMatch{}, false
	}

	floor := max(pos-c.maxOffset(), 0)
	runs := ix.runs[ix.src[pos]]
	first := sort.Search(len(runs), func(i int) bool { return runs[i].end() > floor })
	last := sort.Search(len(runs), func(i int) bool { return runs[i].start >= pos }) - 1

	ext := c.External
	for r := last; r >= first; r-- {
		ru := runs[r]
		lo := max(ru.start, floor)
		hi := min(ru.end(), pos)
		end := ru.end()

		// Sources in the input proper.
		st.scanRun(max(lo, ext), hi, end, len(ix.src), false)
		// Sources in the prior region must end inside it.
		if lo < ext {
			st.scanRun(lo, min(hi, ext), min(end, ext), ext, true)
		}

		if st.best.found && st.best.score >= top {
			break
		}
	}
	return st.best.m, st.best.found
}

// extendMatch returns how many symbols starting at src[i] and src[j] are
// equal, up to limit. It assumes i < j.
func extendMatch[S Symbol](src []S, i, j, limit int) int {
	n := 0
	for n < limit && j+n < len(src) && src[i+n] == src[j+n] {
		n++
	}
	return n
}
