package textutil

// autojunkMinLen is the sequence length at which elements that occur in
// more than 1% of b are treated as popular and excluded from block seeding.
const autojunkMinLen = 200

// Ratio returns the sequence-matcher similarity of a and b in [0, 1]:
// 2*M/T, where M is the number of runes in matching blocks and T the total
// rune count of both strings. Two empty strings have ratio 1.
func Ratio(a, b string) float64 {
	return NewMatcher(a, b).Ratio()
}

// Matcher finds matching blocks between two rune sequences using recursive
// longest-common-block search. It is built once per pair; b's index is
// reused across the recursion.
type Matcher struct {
	a, b []rune
	b2j  map[rune][]int
}

// NewMatcher indexes b for comparison against a.
func NewMatcher(a, b string) *Matcher {
	m := &Matcher{a: []rune(a), b: []rune(b)}
	m.indexB()
	return m
}

func (m *Matcher) indexB() {
	m.b2j = make(map[rune][]int, len(m.b))
	for j, r := range m.b {
		m.b2j[r] = append(m.b2j[r], j)
	}
	n := len(m.b)
	if n < autojunkMinLen {
		return
	}
	limit := n/100 + 1
	for r, idxs := range m.b2j {
		if len(idxs) > limit {
			delete(m.b2j, r)
		}
	}
}

// block is a matching run: a[i:i+size] == b[j:j+size].
type block struct {
	i, j, size int
}

// longest finds the longest matching block in a[alo:ahi] and b[blo:bhi].
// Ties resolve to the block starting earliest in a, then earliest in b.
func (m *Matcher) longest(alo, ahi, blo, bhi int) block {
	best := block{i: alo, j: blo}
	j2len := map[int]int{}
	for i := alo; i < ahi; i++ {
		next := map[int]int{}
		for _, j := range m.b2j[m.a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > best.size {
				best = block{i: i - k + 1, j: j - k + 1, size: k}
			}
		}
		j2len = next
	}
	// Popular runes never seed a block but still extend one at its edges.
	for best.i > alo && best.j > blo && m.a[best.i-1] == m.b[best.j-1] {
		best.i--
		best.j--
		best.size++
	}
	for best.i+best.size < ahi && best.j+best.size < bhi &&
		m.a[best.i+best.size] == m.b[best.j+best.size] {
		best.size++
	}
	return best
}

// Matches returns the total number of runes covered by matching blocks.
func (m *Matcher) Matches() int {
	type span struct{ alo, ahi, blo, bhi int }
	queue := []span{{0, len(m.a), 0, len(m.b)}}
	total := 0
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		blk := m.longest(s.alo, s.ahi, s.blo, s.bhi)
		if blk.size == 0 {
			continue
		}
		total += blk.size
		if s.alo < blk.i && s.blo < blk.j {
			queue = append(queue, span{s.alo, blk.i, s.blo, blk.j})
		}
		if blk.i+blk.size < s.ahi && blk.j+blk.size < s.bhi {
			queue = append(queue, span{blk.i + blk.size, s.ahi, blk.j + blk.size, s.bhi})
		}
	}
	return total
}

// Ratio returns 2*M/T for the indexed pair.
func (m *Matcher) Ratio() float64 {
	length := len(m.a) + len(m.b)
	if length == 0 {
		return 1
	}
	return 2 * float64(m.Matches()) / float64(length)
}
