package gridroute

import (
	"github.com/copperline/gridroute/internal/vset"
)

// edgeStore is the shared, append-only edge storage behind one lattice and
// all of its views. AddEdges during construction is the only mutation.
type edgeStore struct {
	adj []map[int]float64 // vertex -> neighbor -> weight
}

// AdjacencyGraph is the production Graph backend: an adjacency list plus
// binary-heap A*. Subgraphs are views sharing the edge store, with vertex
// and edge filters layered on top; the lattice itself is never copied.
type AdjacencyGraph struct {
	dims
	store *edgeStore

	// View filters. keep == nil means all vertices pass the inclusion
	// filter; off and offE accumulate exclusions across chained views.
	keep map[int]bool
	off  map[int]bool
	offE map[Edge]bool
}

// NewAdjacencyGraph creates an empty adjacency-backed graph covering the
// full index range of steps.
func NewAdjacencyGraph(steps Coord[int]) Graph {
	d := dims{steps: steps}
	return &AdjacencyGraph{
		dims:  d,
		store: &edgeStore{adj: make([]map[int]float64, d.total())},
	}
}

func (g *AdjacencyGraph) AddEdges(edges []Edge, weight float64) {
	for _, e := range edges {
		g.addEdge(e[0], e[1], weight)
	}
}

func (g *AdjacencyGraph) addEdge(u, v int, weight float64) {
	if g.store.adj[u] == nil {
		g.store.adj[u] = make(map[int]float64, 10)
	}
	if g.store.adj[v] == nil {
		g.store.adj[v] = make(map[int]float64, 10)
	}
	g.store.adj[u][v] = weight
	g.store.adj[v][u] = weight
}

func (g *AdjacencyGraph) Has(v int) bool {
	if v < 0 || v >= g.total() {
		return false
	}
	if g.keep != nil && !g.keep[v] {
		return false
	}
	return !g.off[v]
}

func (g *AdjacencyGraph) Weight(u, v int) (float64, bool) {
	if !g.Has(u) || !g.Has(v) || g.offE[NewEdge(u, v)] {
		return 0, false
	}
	w, ok := g.store.adj[u][v]
	return w, ok
}

// neighbors visits the live neighbors of v under the view's filters.
func (g *AdjacencyGraph) neighbors(v int, fn func(n int, weight float64)) {
	for n, w := range g.store.adj[v] {
		if !g.Has(n) || g.offE[NewEdge(v, n)] {
			continue
		}
		fn(n, w)
	}
}

func (g *AdjacencyGraph) Vertices() map[int]bool {
	out := make(map[int]bool)
	for v := 0; v < g.total(); v++ {
		if g.Has(v) {
			out[v] = true
		}
	}
	return out
}

func (g *AdjacencyGraph) Subgraph(ex, inc map[int]bool) Graph {
	if len(ex) == 0 && len(inc) == 0 {
		return g
	}

	view := g.view()
	if len(inc) > 0 {
		// The new inclusion filter composes with the old one: only
		// vertices live in the current view survive.
		keep := make(map[int]bool, len(inc))
		for v := range inc {
			if g.Has(v) {
				keep[v] = true
			}
		}
		view.keep = keep
	}
	if len(ex) > 0 {
		view.off = vset.Union(vset.Copy(g.off), ex)
	}
	return view
}

func (g *AdjacencyGraph) SubgraphE(ex map[Edge]bool) Graph {
	if len(ex) == 0 {
		return g
	}
	view := g.view()
	view.offE = vset.Union(vset.Copy(g.offE), ex)
	return view
}

func (g *AdjacencyGraph) view() *AdjacencyGraph {
	cp := *g
	return &cp
}

func (g *AdjacencyGraph) Neigh(vs map[int]bool, order int, ring bool) map[int]bool {
	frontier := vs
	for ; order > 0; order-- {
		next := make(map[int]bool)
		for v := range frontier {
			if !g.Has(v) {
				continue
			}
			vz := g.ProjectOut(v).Z
			g.neighbors(v, func(n int, _ float64) {
				if ring && g.ProjectOut(n).Z != vz {
					return
				}
				next[n] = true
			})
		}
		frontier = next
	}
	return frontier
}

func (g *AdjacencyGraph) AStar(start, end int, h Heuristic) ([]int, error) {
	if err := checkVertexRange(g, start, end); err != nil {
		return nil, err
	}
	return astarSearch(g, start, end, h)
}
