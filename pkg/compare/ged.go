package compare

import (
	"cmp"
	"context"
	"slices"

	"github.com/matzehuels/tonegraph/pkg/errors"
	"github.com/matzehuels/tonegraph/pkg/graph"
)

// ctxCheckInterval is how many search steps run between deadline checks.
const ctxCheckInterval = 4096

// simpleGraph is the undirected simple view used for structural measures.
// Parallel and antiparallel edges collapse and a self-loop counts as one
// edge contributing two to its node's degree.
type simpleGraph struct {
	n     int
	adj   []map[int]bool
	edges int
}

func simplify(g *graph.Graph) *simpleGraph {
	ids := g.NodeIDs()
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}
	s := &simpleGraph{n: len(ids), adj: make([]map[int]bool, len(ids))}
	for i := range s.adj {
		s.adj[i] = make(map[int]bool)
	}
	for _, e := range g.Edges() {
		u, ok1 := index[e.Source]
		v, ok2 := index[e.Target]
		if !ok1 || !ok2 || s.adj[u][v] {
			continue
		}
		s.adj[u][v] = true
		s.adj[v][u] = true
		s.edges++
	}
	return s
}

func (s *simpleGraph) degree(u int) int {
	d := len(s.adj[u])
	if s.adj[u][u] {
		d++
	}
	return d
}

func (s *simpleGraph) density() float64 {
	if s.n <= 1 {
		return 0
	}
	return 2 * float64(s.edges) / float64(s.n*(s.n-1))
}

func (s *simpleGraph) meanDegree() float64 {
	if s.n == 0 {
		return 0
	}
	return 2 * float64(s.edges) / float64(s.n)
}

// EditDistance returns the exact graph edit distance between the undirected
// simple views of g1 and g2 with unit costs. It fails with a TIMEOUT error when
// ctx is done or the search expands more than maxSteps assignments (zero
// means DefaultMaxSteps).
func EditDistance(ctx context.Context, g1, g2 *graph.Graph, maxSteps int) (int, error) {
	return editDistance(ctx, simplify(g1), simplify(g2), maxSteps)
}

type gedSearch struct {
	ctx      context.Context
	g1, g2   *simpleGraph
	order    []int // g1 vertices, highest degree first
	within   []int // within[k] = g1 edges among order[:k]
	mapping  []int // mapping[k] is the image of order[k], -1 when deleted
	used     []bool
	mapped   int
	inside2  int // g2 edges with both ends in the image
	best     int
	steps    int
	maxSteps int
	err      error
}

func editDistance(ctx context.Context, g1, g2 *simpleGraph, maxSteps int) (int, error) {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	s := &gedSearch{
		ctx:      ctx,
		g1:       g1,
		g2:       g2,
		mapping:  make([]int, g1.n),
		used:     make([]bool, g2.n),
		best:     g1.n + g1.edges + g2.n + g2.edges,
		maxSteps: maxSteps,
	}
	s.order = make([]int, g1.n)
	for i := range s.order {
		s.order[i] = i
	}
	slices.SortStableFunc(s.order, func(a, b int) int { return cmp.Compare(g1.degree(b), g1.degree(a)) })

	pos := make([]int, g1.n)
	for k, u := range s.order {
		pos[u] = k
	}
	s.within = make([]int, g1.n+1)
	for k, u := range s.order {
		s.within[k+1] = s.within[k]
		for w := range g1.adj[u] {
			if pos[w] <= k {
				s.within[k+1]++
			}
		}
	}

	s.search(0, 0)
	if s.err != nil {
		return 0, s.err
	}
	return s.best, nil
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

func (s *gedSearch) bound(k, cost int) int {
	nodes := absDiff(s.g1.n-k, s.g2.n-s.mapped)
	edges := absDiff(s.g1.edges-s.within[k], s.g2.edges-s.inside2)
	return cost + nodes + edges
}

func (s *gedSearch) search(k, cost int) {
	if s.err != nil {
		return
	}
	if k == s.g1.n {
		total := cost + (s.g2.n - s.mapped) + (s.g2.edges - s.inside2)
		s.best = min(s.best, total)
		return
	}
	if s.bound(k, cost) >= s.best {
		return
	}
	s.steps++
	if s.steps > s.maxSteps {
		s.err = errors.New(errors.ErrCodeTimeout, "edit distance: step budget of %d exhausted", s.maxSteps)
		return
	}
	if s.steps%ctxCheckInterval == 0 {
		if err := s.ctx.Err(); err != nil {
			s.err = errors.Wrap(errors.ErrCodeTimeout, err, "edit distance")
			return
		}
	}

	u := s.order[k]
	for _, v := range s.candidates(u) {
		delta, gained := s.assignCost(k, u, v)
		s.mapping[k] = v
		if v >= 0 {
			s.used[v] = true
			s.mapped++
			s.inside2 += gained
		}
		s.search(k+1, cost+delta)
		if v >= 0 {
			s.used[v] = false
			s.mapped--
			s.inside2 -= gained
		}
		if s.err != nil {
			return
		}
	}
}

// candidates lists the free g2 vertices closest in degree to u, then -1 for
// deleting u.
func (s *gedSearch) candidates(u int) []int {
	du := s.g1.degree(u)
	var out []int
	for v := 0; v < s.g2.n; v++ {
		if !s.used[v] {
			out = append(out, v)
		}
	}
	slices.SortStableFunc(out, func(a, b int) int {
		return cmp.Compare(absDiff(du, s.g2.degree(a)), absDiff(du, s.g2.degree(b)))
	})
	return append(out, -1)
}

// assignCost prices mapping order[k] = u to v against the vertices already
// placed. gained is the number of g2 edges that become internal to the image.
func (s *gedSearch) assignCost(k, u, v int) (delta, gained int) {
	loop1 := s.g1.adj[u][u]
	if v < 0 {
		delta = 1
		if loop1 {
			delta++
		}
		for j := 0; j < k; j++ {
			if s.g1.adj[u][s.order[j]] {
				delta++
			}
		}
		return delta, 0
	}

	if loop2 := s.g2.adj[v][v]; loop1 != loop2 {
		delta++
	}
	if s.g2.adj[v][v] {
		gained++
	}
	for j := 0; j < k; j++ {
		e1 := s.g1.adj[u][s.order[j]]
		fw := s.mapping[j]
		if fw < 0 {
			if e1 {
				delta++
			}
			continue
		}
		e2 := s.g2.adj[v][fw]
		if e2 {
			gained++
		}
		if e1 != e2 {
			delta++
		}
	}
	return delta, gained
}
