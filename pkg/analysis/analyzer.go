package analysis

import (
	"maps"
	"slices"
	"sync"

	"github.com/matzehuels/tonegraph/pkg/graph"
)

// NetworkReport summarizes the subgraph induced by transformation nodes.
type NetworkReport struct {
	NodeCount         int                `json:"num_transformations"`
	DegreeCentrality  map[string]float64 `json:"centrality"`
	Betweenness       map[string]float64 `json:"betweenness"`
	Clustering        map[string]float64 `json:"clustering"`
	AveragePathLength Distance           `json:"average_path_length"`
}

// Analyzer runs memoized queries over one graph snapshot. It is safe for
// concurrent use.
type Analyzer struct {
	g *graph.Graph

	mu         sync.Mutex
	full       *undirected
	trans      *undirected
	cycles     [][]string
	components [][]string
	paths      map[[2]string][]string
	network    *NetworkReport
	invariants map[string][]string
}

// New snapshots g and returns an Analyzer over the copy.
func New(g *graph.Graph) *Analyzer {
	return &Analyzer{g: g.Clone(), paths: make(map[[2]string][]string)}
}

// Graph returns a copy of the analyzed snapshot.
func (a *Analyzer) Graph() *graph.Graph { return a.g.Clone() }

func (a *Analyzer) fullView() *undirected {
	if a.full == nil {
		a.full = newUndirected(a.g)
	}
	return a.full
}

func (a *Analyzer) transformationView() *undirected {
	if a.trans == nil {
		a.trans = newUndirected(a.g.Subgraph(func(n graph.Node) bool {
			return n.Type == graph.Transformation
		}))
	}
	return a.trans
}

// TransformationCycles returns the simple cycles of the subgraph induced by
// transformation nodes. Non-transformation nodes never appear in a cycle.
func (a *Analyzer) TransformationCycles() [][]string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cycles == nil {
		a.cycles = a.transformationView().cycles()
		if a.cycles == nil {
			a.cycles = [][]string{}
		}
	}
	return cloneGroups(a.cycles)
}

// ConnectedComponents partitions all nodes by undirected connectivity.
func (a *Analyzer) ConnectedComponents() [][]string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.components == nil {
		a.components = a.fullView().components()
	}
	return cloneGroups(a.components)
}

// ShortestPath returns an unweighted shortest path from src to dst, inclusive
// of both ends, or nil when either node is missing or they are disconnected.
func (a *Analyzer) ShortestPath(src, dst string) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	key := [2]string{src, dst}
	if p, ok := a.paths[key]; ok {
		return slices.Clone(p)
	}
	p := a.shortestPath(src, dst)
	a.paths[key] = p
	return slices.Clone(p)
}

func (a *Analyzer) shortestPath(src, dst string) []string {
	u := a.fullView()
	s, ok1 := u.index[src]
	t, ok2 := u.index[dst]
	if !ok1 || !ok2 {
		return nil
	}
	dist, parent := u.bfs(s)
	if dist[t] < 0 {
		return nil
	}
	path := make([]int, dist[t]+1)
	for i, v := len(path)-1, t; i >= 0; i, v = i-1, parent[v] {
		path[i] = v
	}
	return u.names(path)
}

// AnalyzeTransformationNetwork computes centrality and path statistics over
// the transformation subgraph. The average path length is infinite when that
// subgraph is empty or disconnected.
func (a *Analyzer) AnalyzeTransformationNetwork() NetworkReport {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.network == nil {
		u := a.transformationView()
		_, avg := u.pathStats()
		a.network = &NetworkReport{
			NodeCount:         u.len(),
			DegreeCentrality:  u.byID(u.degreeCentrality()),
			Betweenness:       u.byID(u.betweenness()),
			Clustering:        u.byID(u.clustering()),
			AveragePathLength: avg,
		}
	}
	r := *a.network
	r.DegreeCentrality = maps.Clone(r.DegreeCentrality)
	r.Betweenness = maps.Clone(r.Betweenness)
	r.Clustering = maps.Clone(r.Clustering)
	return r
}

// InvariantStructures maps each transformation id to the nodes it fixes: the
// sources of self-loop edges whose transformation_id property names it.
// Transformations without fixed points are omitted.
func (a *Analyzer) InvariantStructures() map[string][]string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.invariants == nil {
		a.invariants = a.invariantStructures()
	}
	out := make(map[string][]string, len(a.invariants))
	for k, v := range a.invariants {
		out[k] = slices.Clone(v)
	}
	return out
}

func (a *Analyzer) invariantStructures() map[string][]string {
	fixed := make(map[string][]string)
	for _, e := range a.g.Edges() {
		if !e.IsLoop() {
			continue
		}
		tid, _ := e.Properties["transformation_id"].(string)
		if tid == "" {
			continue
		}
		if !slices.Contains(fixed[tid], e.Source) {
			fixed[tid] = append(fixed[tid], e.Source)
		}
	}
	out := make(map[string][]string)
	for _, n := range a.g.NodesOfType(graph.Transformation) {
		if ids := fixed[n.ID]; len(ids) > 0 {
			slices.Sort(ids)
			out[n.ID] = ids
		}
	}
	return out
}

func cloneGroups(groups [][]string) [][]string {
	out := make([][]string, len(groups))
	for i, g := range groups {
		out[i] = slices.Clone(g)
	}
	return out
}
