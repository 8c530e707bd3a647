package sentencepiece

import "container/heap"

// bpeSegmenter merges adjacent symbols greedily, highest-scoring pair first.
type bpeSegmenter struct {
	model *Model
}

// bpeSymbol is a node in the doubly linked list of current symbols.
type bpeSymbol struct {
	prev, next int
	begin, end int
	frozen     bool // User-defined match, never merged
	dead       bool // Absorbed by its left neighbour
}

// bpePair is a merge candidate. Entries go stale when either side changes;
// staleness is detected on pop.
type bpePair struct {
	left, right int
	score       float32
	size        int
}

// pairQueue orders candidates by score, then by leftmost position.
type pairQueue []bpePair

func (q pairQueue) Len() int { return len(q) }

func (q pairQueue) Less(i, j int) bool {
	if q[i].score != q[j].score {
		return q[i].score > q[j].score
	}
	return q[i].left < q[j].left
}

func (q pairQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *pairQueue) Push(x any) { *q = append(*q, x.(bpePair)) }

func (q *pairQueue) Pop() any {
	old := *q
	n := len(old)
	x := old[n-1]
	*q = old[:n-1]
	return x
}

func (s *bpeSegmenter) encode(text string) []token {
	return s.segment(text, 0, nil)
}

// sample applies BPE-dropout: each merge is skipped with probability alpha.
// nbestSize does not apply to BPE.
func (s *bpeSegmenter) sample(text string, _ int, alpha float64, rng randSource) ([]token, error) {
	return s.segment(text, alpha, rng), nil
}

func (s *bpeSegmenter) segment(text string, dropout float64, rng randSource) []token {
	if text == "" {
		return nil
	}
	m := s.model

	syms := make([]bpeSymbol, 0, len(text))
	for pos := 0; pos < len(text); {
		end := pos + runeLen(text[pos:])
		frozen := false
		if _, l := m.matchUserDefined(text[pos:]); l > 0 {
			end = pos + l
			frozen = true
		}
		syms = append(syms, bpeSymbol{
			prev:   len(syms) - 1,
			next:   len(syms) + 1,
			begin:  pos,
			end:    end,
			frozen: frozen,
		})
		pos = end
	}
	syms[len(syms)-1].next = -1

	queue := make(pairQueue, 0, len(syms))
	tryAdd := func(left, right int) {
		if left < 0 || right < 0 || syms[left].frozen || syms[right].frozen {
			return
		}
		piece := text[syms[left].begin:syms[right].end]
		id, ok := m.pieceIDs[piece]
		if !ok || m.proto.Pieces[id].Type != PieceNormal {
			return
		}
		heap.Push(&queue, bpePair{left: left, right: right, score: m.proto.Pieces[id].Score, size: len(piece)})
	}
	for i := 1; i < len(syms); i++ {
		tryAdd(i-1, i)
	}

	for queue.Len() > 0 {
		p := heap.Pop(&queue).(bpePair)
		l, r := &syms[p.left], &syms[p.right]
		if l.dead || r.dead || l.next != p.right || r.end-l.begin != p.size {
			continue
		}
		if dropout > 0 && rng.Float64() < dropout {
			continue
		}

		l.end = r.end
		l.next = r.next
		if r.next >= 0 {
			syms[r.next].prev = p.left
		}
		r.dead = true

		tryAdd(l.prev, p.left)
		tryAdd(p.left, l.next)
	}

	out := make([]token, 0, len(syms))
	for i := 0; i >= 0; i = syms[i].next {
		sym := &syms[i]
		id, ok := m.segmentable(text[sym.begin:sym.end])
		if !ok {
			id = m.unkID
		}
		out = append(out, token{id: id, begin: sym.begin, end: sym.end})
	}
	return mergeUnknown(out, m.unkID)
}

// mergeUnknown joins adjacent unknown tokens into one.
func mergeUnknown(toks []token, unkID int32) []token {
	out := toks[:0]
	for _, t := range toks {
		if last := len(out) - 1; last >= 0 && t.id == unkID && out[last].id == unkID {
			out[last].end = t.end
			continue
		}
		out = append(out, t)
	}
	return out
}
