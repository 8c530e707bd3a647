package sentencepiece

import (
	"math"
	"slices"
)

// unigramSegmenter finds maximum-likelihood segmentations over a lattice of
// candidate pieces.
type unigramSegmenter struct {
	model *Model
}

// latticeNode is a candidate piece spanning runes [begin, end).
type latticeNode struct {
	id         int32
	begin, end int
	score      float64
}

// lattice holds every candidate piece of a text, indexed by rune boundary.
type lattice struct {
	bounds []int   // Byte offset of each rune boundary; len = runes + 1
	ends   [][]int // ends[i] lists nodes ending at boundary i
	nodes  []latticeNode
}

func (l *lattice) size() int {
	return len(l.bounds) - 1
}

func (l *lattice) add(id int32, begin, end int, score float64) {
	l.nodes = append(l.nodes, latticeNode{id: id, begin: begin, end: end, score: score})
	l.ends[end] = append(l.ends[end], len(l.nodes)-1)
}

// buildLattice inserts every segmentable piece of text. A rune without a
// single-rune piece gets an unknown node so that every text has a path.
func (s *unigramSegmenter) buildLattice(text string) *lattice {
	m := s.model

	bounds := make([]int, 0, len(text)+1)
	for i := range text {
		bounds = append(bounds, i)
	}
	bounds = append(bounds, len(text))

	l := &lattice{
		bounds: bounds,
		ends:   make([][]int, len(bounds)),
		nodes:  make([]latticeNode, 0, 2*len(bounds)),
	}

	unkScore := float64(m.minScore) - unkPenalty
	n := l.size()
	for bi := range n {
		start := bounds[bi]
		hasSingle := false
		for bj := bi + 1; bj <= n && bounds[bj]-start <= m.maxPieceLen; bj++ {
			id, ok := m.segmentable(text[start:bounds[bj]])
			if !ok {
				continue
			}
			p := &m.proto.Pieces[id]
			score := float64(p.Score)
			if p.Type == PieceUserDefined {
				score = float64(bj-bi)*float64(m.maxScore) - 0.1
			}
			l.add(id, bi, bj, score)
			if bj == bi+1 {
				hasSingle = true
			}
		}
		if !hasSingle {
			l.add(m.unkID, bi, bi+1, unkScore)
		}
	}
	return l
}

// tokens converts a path of node indices (in text order) to tokens, merging
// runs of unknown characters.
func (s *unigramSegmenter) tokens(l *lattice, path []int) []token {
	out := make([]token, 0, len(path))
	for _, ni := range path {
		nd := l.nodes[ni]
		out = append(out, token{id: nd.id, begin: l.bounds[nd.begin], end: l.bounds[nd.end]})
	}
	return mergeUnknown(out, s.model.unkID)
}

// encode returns the Viterbi segmentation.
func (s *unigramSegmenter) encode(text string) []token {
	if text == "" {
		return nil
	}
	l := s.buildLattice(text)
	n := l.size()

	best := make([]float64, n+1)
	back := make([]int, n+1)
	for i := range best {
		best[i] = math.Inf(-1)
		back[i] = -1
	}
	best[0] = 0

	for e := 1; e <= n; e++ {
		for _, ni := range l.ends[e] {
			nd := &l.nodes[ni]
			if math.IsInf(best[nd.begin], -1) {
				continue
			}
			if cand := best[nd.begin] + nd.score; cand > best[e] {
				best[e] = cand
				back[e] = ni
			}
		}
	}

	path := make([]int, 0, n)
	for pos := n; pos > 0; pos = l.nodes[back[pos]].begin {
		path = append(path, back[pos])
	}
	slices.Reverse(path)
	return s.tokens(l, path)
}

// hypothesis is a partial path ending at some boundary.
type hypothesis struct {
	node  int // Last node, -1 for the empty path
	prev  int // Index of the predecessor hypothesis at the node's begin
	score float64
}

// nbest returns up to k best segmentations with their scores, best first.
func (s *unigramSegmenter) nbest(text string, k int) ([][]token, []float64) {
	l := s.buildLattice(text)
	n := l.size()

	hyps := make([][]hypothesis, n+1)
	hyps[0] = []hypothesis{{node: -1, prev: -1}}

	for e := 1; e <= n; e++ {
		var cands []hypothesis
		for _, ni := range l.ends[e] {
			nd := &l.nodes[ni]
			for hi, h := range hyps[nd.begin] {
				cands = append(cands, hypothesis{node: ni, prev: hi, score: h.score + nd.score})
			}
		}
		slices.SortStableFunc(cands, func(a, b hypothesis) int {
			switch {
			case a.score > b.score:
				return -1
			case a.score < b.score:
				return 1
			default:
				return 0
			}
		})
		if len(cands) > k {
			cands = cands[:k]
		}
		hyps[e] = cands
	}

	results := make([][]token, 0, len(hyps[n]))
	scores := make([]float64, 0, len(hyps[n]))
	for _, h := range hyps[n] {
		scores = append(scores, h.score)
		var path []int
		for cur := h; cur.node >= 0; {
			path = append(path, cur.node)
			cur = hyps[l.nodes[cur.node].begin][cur.prev]
		}
		slices.Reverse(path)
		results = append(results, s.tokens(l, path))
	}
	return results, scores
}

// sample draws a segmentation. With nbestSize > 1 it samples among the
// n-best paths with probability proportional to exp(alpha * score); with
// nbestSize < 0 it samples from the whole lattice.
func (s *unigramSegmenter) sample(text string, nbestSize int, alpha float64, rng randSource) ([]token, error) {
	if text == "" {
		return nil, nil
	}
	if nbestSize > 1 {
		paths, scores := s.nbest(text, nbestSize)
		weights := make([]float64, len(scores))
		for i, sc := range scores {
			weights[i] = alpha * sc
		}
		return paths[sampleLogWeights(weights, rng)], nil
	}
	return s.sampleLattice(text, alpha, rng), nil
}

// sampleLattice implements forward-filtering backward-sampling.
func (s *unigramSegmenter) sampleLattice(text string, theta float64, rng randSource) []token {
	l := s.buildLattice(text)
	n := l.size()

	forward := make([]float64, n+1)
	for e := 1; e <= n; e++ {
		acc := math.Inf(-1)
		for _, ni := range l.ends[e] {
			nd := &l.nodes[ni]
			acc = logAdd(acc, forward[nd.begin]+theta*nd.score)
		}
		forward[e] = acc
	}

	path := make([]int, 0, n)
	weights := make([]float64, 0, 8)
	for pos := n; pos > 0; {
		weights = weights[:0]
		for _, ni := range l.ends[pos] {
			nd := &l.nodes[ni]
			weights = append(weights, forward[nd.begin]+theta*nd.score)
		}
		ni := l.ends[pos][sampleLogWeights(weights, rng)]
		path = append(path, ni)
		pos = l.nodes[ni].begin
	}
	slices.Reverse(path)
	return s.tokens(l, path)
}

// sampleLogWeights picks an index with probability proportional to exp(w[i]).
func sampleLogWeights(w []float64, rng randSource) int {
	total := math.Inf(-1)
	for _, v := range w {
		total = logAdd(total, v)
	}
	r := rng.Float64()
	acc := 0.0
	for i, v := range w {
		acc += math.Exp(v - total)
		if r < acc {
			return i
		}
	}
	return len(w) - 1
}

// logAdd returns log(exp(a) + exp(b)).
func logAdd(a, b float64) float64 {
	if math.IsInf(a, -1) {
		return b
	}
	if math.IsInf(b, -1) {
		return a
	}
	if a < b {
		a, b = b, a
	}
	return a + math.Log1p(math.Exp(b-a))
}
