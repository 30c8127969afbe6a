package analysis

import (
	"math"
	"slices"
	"strconv"

	"github.com/matzehuels/tonegraph/pkg/graph"
)

// Distance is a path length that may be infinite. It encodes as the string
// "inf" in JSON when infinite.
type Distance float64

// Inf is the distance between disconnected nodes.
var Inf = Distance(math.Inf(1))

// IsInf reports whether d is infinite.
func (d Distance) IsInf() bool { return math.IsInf(float64(d), 1) }

func (d Distance) String() string {
	if d.IsInf() {
		return "inf"
	}
	return strconv.FormatFloat(float64(d), 'g', 6, 64)
}

// MarshalJSON implements json.Marshaler.
func (d Distance) MarshalJSON() ([]byte, error) {
	if d.IsInf() {
		return []byte(`"inf"`), nil
	}
	return []byte(strconv.FormatFloat(float64(d), 'g', -1, 64)), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Distance) UnmarshalJSON(data []byte) error {
	if string(data) == `"inf"` {
		*d = Inf
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*d = Distance(f)
	return nil
}

// undirected is a simple undirected view of a graph with integer vertices.
// Vertex order follows the graph's node order; neighbor lists are
// deduplicated and exclude self-loops, which are tracked separately.
type undirected struct {
	ids   []string
	index map[string]int
	adj   [][]int
	loop  []bool
}

func newUndirected(g *graph.Graph) *undirected {
	ids := g.NodeIDs()
	u := &undirected{
		ids:   ids,
		index: make(map[string]int, len(ids)),
		adj:   make([][]int, len(ids)),
		loop:  make([]bool, len(ids)),
	}
	for i, id := range ids {
		u.index[id] = i
	}
	seen := make(map[[2]int]bool)
	for _, e := range g.Edges() {
		s, ok1 := u.index[e.Source]
		t, ok2 := u.index[e.Target]
		if !ok1 || !ok2 {
			continue
		}
		if s == t {
			u.loop[s] = true
			continue
		}
		if seen[[2]int{s, t}] {
			continue
		}
		seen[[2]int{s, t}] = true
		seen[[2]int{t, s}] = true
		u.adj[s] = append(u.adj[s], t)
		u.adj[t] = append(u.adj[t], s)
	}
	return u
}

func (u *undirected) len() int { return len(u.ids) }

func (u *undirected) names(vs []int) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = u.ids[v]
	}
	return out
}

// bfs returns hop distances from s (-1 when unreachable) and BFS parents.
func (u *undirected) bfs(s int) (dist, parent []int) {
	dist = make([]int, u.len())
	parent = make([]int, u.len())
	for i := range dist {
		dist[i], parent[i] = -1, -1
	}
	dist[s] = 0
	queue := []int{s}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, w := range u.adj[v] {
			if dist[w] < 0 {
				dist[w] = dist[v] + 1
				parent[w] = v
				queue = append(queue, w)
			}
		}
	}
	return dist, parent
}

// components partitions the vertices; each component lists its members in
// node order and components are ordered by their first member.
func (u *undirected) components() [][]string {
	comp := make([]int, u.len())
	for i := range comp {
		comp[i] = -1
	}
	var groups [][]int
	for s := range u.ids {
		if comp[s] >= 0 {
			continue
		}
		c := len(groups)
		comp[s] = c
		members := []int{}
		stack := []int{s}
		for len(stack) > 0 {
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			members = append(members, v)
			for _, w := range u.adj[v] {
				if comp[w] < 0 {
					comp[w] = c
					stack = append(stack, w)
				}
			}
		}
		groups = append(groups, members)
	}
	out := make([][]string, len(groups))
	for i, members := range groups {
		slices.Sort(members)
		out[i] = u.names(members)
	}
	return out
}

func (u *undirected) connected() bool {
	return u.len() > 0 && len(u.components()) == 1
}

// cycles enumerates simple cycles. A self-loop is a cycle of one vertex;
// otherwise a cycle has at least three vertices and is reported once, starting
// at its lowest vertex and continuing toward its lower-indexed neighbor.
func (u *undirected) cycles() [][]string {
	var out [][]string
	type frame struct{ v, next int }
	onPath := make([]bool, u.len())
	for s := range u.ids {
		if u.loop[s] {
			out = append(out, []string{u.ids[s]})
		}
		path := []int{s}
		onPath[s] = true
		stack := []frame{{v: s}}
		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			if f.next < len(u.adj[f.v]) {
				w := u.adj[f.v][f.next]
				f.next++
				switch {
				case w == s && len(path) >= 3 && path[1] < path[len(path)-1]:
					out = append(out, u.names(path))
				case w > s && !onPath[w]:
					onPath[w] = true
					path = append(path, w)
					stack = append(stack, frame{v: w})
				}
				continue
			}
			onPath[f.v] = false
			path = path[:len(path)-1]
			stack = stack[:len(stack)-1]
		}
	}
	return out
}

func (u *undirected) byID(vals []float64) map[string]float64 {
	out := make(map[string]float64, len(vals))
	for i, v := range vals {
		out[u.ids[i]] = v
	}
	return out
}

// degreeCentrality is degree / (n-1); a single vertex scores 1.
func (u *undirected) degreeCentrality() []float64 {
	n := u.len()
	out := make([]float64, n)
	for i := range out {
		if n <= 1 {
			out[i] = 1
			continue
		}
		out[i] = float64(len(u.adj[i])) / float64(n-1)
	}
	return out
}

// betweenness is Brandes' algorithm normalized by (n-1)(n-2).
func (u *undirected) betweenness() []float64 {
	n := u.len()
	cb := make([]float64, n)
	if n <= 2 {
		return cb
	}
	for s := 0; s < n; s++ {
		var order []int
		preds := make([][]int, n)
		sigma := make([]float64, n)
		dist := make([]int, n)
		for i := range dist {
			dist[i] = -1
		}
		sigma[s], dist[s] = 1, 0
		queue := []int{s}
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			order = append(order, v)
			for _, w := range u.adj[v] {
				if dist[w] < 0 {
					dist[w] = dist[v] + 1
					queue = append(queue, w)
				}
				if dist[w] == dist[v]+1 {
					sigma[w] += sigma[v]
					preds[w] = append(preds[w], v)
				}
			}
		}
		delta := make([]float64, n)
		for i := len(order) - 1; i >= 0; i-- {
			w := order[i]
			for _, v := range preds[w] {
				delta[v] += sigma[v] / sigma[w] * (1 + delta[w])
			}
			if w != s {
				cb[w] += delta[w]
			}
		}
	}
	scale := 1 / float64((n-1)*(n-2))
	for i := range cb {
		cb[i] *= scale
	}
	return cb
}

// clustering is the local clustering coefficient of each vertex.
func (u *undirected) clustering() []float64 {
	out := make([]float64, u.len())
	nbr := make([]map[int]bool, u.len())
	for i, ws := range u.adj {
		nbr[i] = make(map[int]bool, len(ws))
		for _, w := range ws {
			nbr[i][w] = true
		}
	}
	for v, ws := range u.adj {
		k := len(ws)
		if k < 2 {
			continue
		}
		links := 0
		for i := 0; i < k; i++ {
			for j := i + 1; j < k; j++ {
				if nbr[ws[i]][ws[j]] {
					links++
				}
			}
		}
		out[v] = 2 * float64(links) / float64(k*(k-1))
	}
	return out
}

// closeness uses the Wasserman-Faust correction for disconnected graphs.
func (u *undirected) closeness() []float64 {
	n := u.len()
	out := make([]float64, n)
	for s := 0; s < n; s++ {
		dist, _ := u.bfs(s)
		reach, total := 0, 0
		for _, d := range dist {
			if d > 0 {
				reach++
				total += d
			}
		}
		if total > 0 && n > 1 {
			r := float64(reach)
			out[s] = r / float64(total) * r / float64(n-1)
		}
	}
	return out
}

// eigenvector runs power iteration on A+I until the L1 change drops below
// n*tol or maxIter rounds have passed.
func (u *undirected) eigenvector(maxIter int, tol float64) []float64 {
	n := u.len()
	if n == 0 {
		return nil
	}
	x := make([]float64, n)
	for i := range x {
		x[i] = 1 / float64(n)
	}
	for iter := 0; iter < maxIter; iter++ {
		last := x
		x = append([]float64(nil), last...)
		for v, ws := range u.adj {
			for _, w := range ws {
				x[w] += last[v]
			}
		}
		var norm float64
		for _, v := range x {
			norm += v * v
		}
		norm = math.Sqrt(norm)
		if norm == 0 {
			return x
		}
		var diff float64
		for i := range x {
			x[i] /= norm
			diff += math.Abs(x[i] - last[i])
		}
		if diff < float64(n)*tol {
			break
		}
	}
	return x
}

// pathStats returns the diameter and mean shortest-path length. Both are
// infinite when the graph is empty or disconnected; a single vertex yields 0.
func (u *undirected) pathStats() (diameter, average Distance) {
	n := u.len()
	if !u.connected() {
		return Inf, Inf
	}
	if n == 1 {
		return 0, 0
	}
	longest, total := 0, 0
	for s := 0; s < n; s++ {
		dist, _ := u.bfs(s)
		for _, d := range dist {
			total += d
			longest = max(longest, d)
		}
	}
	return Distance(longest), Distance(float64(total) / float64(n*(n-1)))
}

func (u *undirected) density() float64 {
	n := u.len()
	if n <= 1 {
		return 0
	}
	edges := 0
	for _, ws := range u.adj {
		edges += len(ws)
	}
	return float64(edges) / float64(n*(n-1))
}
