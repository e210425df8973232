package gridroute

import (
	"math"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// GonumGraph is the alternative Graph backend, built on gonum's weighted
// undirected graph and its A* implementation. Unlike AdjacencyGraph its
// subgraphs are materialized copies rather than views; it trades
// construction cost for reuse of a vetted search. It exists to keep the
// backend seam honest and is exercised by the shared test suite.
type GonumGraph struct {
	g *simple.WeightedUndirectedGraph
	dims
}

// NewGonumGraph creates an empty gonum-backed graph covering the full index
// range of steps.
func NewGonumGraph(steps Coord[int]) Graph {
	d := dims{steps: steps}
	g := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for v := 0; v < d.total(); v++ {
		g.AddNode(simple.Node(v))
	}
	return &GonumGraph{g: g, dims: d}
}

func (g *GonumGraph) AddEdges(edges []Edge, weight float64) {
	for _, e := range edges {
		g.g.SetWeightedEdge(simple.WeightedEdge{
			F: simple.Node(e[0]),
			T: simple.Node(e[1]),
			W: weight,
		})
	}
}

func (g *GonumGraph) Has(v int) bool {
	return v >= 0 && v < g.total() && g.g.Node(int64(v)) != nil
}

func (g *GonumGraph) Weight(u, v int) (float64, bool) {
	if !g.Has(u) || !g.Has(v) {
		return 0, false
	}
	e := g.g.WeightedEdge(int64(u), int64(v))
	if e == nil {
		return 0, false
	}
	return e.Weight(), true
}

func (g *GonumGraph) neighbors(v int, fn func(n int, weight float64)) {
	if !g.Has(v) {
		return
	}
	it := g.g.From(int64(v))
	for it.Next() {
		n := it.Node().ID()
		if e := g.g.WeightedEdge(int64(v), n); e != nil {
			fn(int(n), e.Weight())
		}
	}
}

func (g *GonumGraph) Vertices() map[int]bool {
	out := make(map[int]bool, g.g.Nodes().Len())
	it := g.g.Nodes()
	for it.Next() {
		out[int(it.Node().ID())] = true
	}
	return out
}

func (g *GonumGraph) Subgraph(ex, inc map[int]bool) Graph {
	if len(ex) == 0 && len(inc) == 0 {
		return g
	}
	has := func(v int) bool {
		if len(inc) > 0 && !inc[v] {
			return false
		}
		return !ex[v] && g.Has(v)
	}
	return g.filtered(has, nil)
}

func (g *GonumGraph) SubgraphE(exEdges map[Edge]bool) Graph {
	if len(exEdges) == 0 {
		return g
	}
	return g.filtered(g.Has, exEdges)
}

// filtered materializes a copy keeping vertices passing has and edges not
// in exEdges.
func (g *GonumGraph) filtered(has func(int) bool, exEdges map[Edge]bool) *GonumGraph {
	ng := simple.NewWeightedUndirectedGraph(0, math.Inf(1))

	it := g.g.Nodes()
	for it.Next() {
		v := int(it.Node().ID())
		if has(v) {
			ng.AddNode(simple.Node(v))
		}
	}

	eit := g.g.WeightedEdges()
	for eit.Next() {
		e := eit.WeightedEdge()
		u, v := int(e.From().ID()), int(e.To().ID())
		if !has(u) || !has(v) || exEdges[NewEdge(u, v)] {
			continue
		}
		ng.SetWeightedEdge(simple.WeightedEdge{
			F: simple.Node(u),
			T: simple.Node(v),
			W: e.Weight(),
		})
	}

	return &GonumGraph{g: ng, dims: g.dims}
}

func (g *GonumGraph) Neigh(vs map[int]bool, order int, ring bool) map[int]bool {
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

func (g *GonumGraph) AStar(start, end int, h Heuristic) ([]int, error) {
	if err := checkVertexRange(g, start, end); err != nil {
		return nil, err
	}
	if !g.Has(start) || !g.Has(end) {
		return nil, ErrNoPath
	}
	if start == end {
		return []int{start}, nil
	}

	var heuristic path.Heuristic
	if h != nil {
		heuristic = func(x, y graph.Node) float64 { return h(int(x.ID()), int(y.ID())) }
	} else {
		heuristic = func(x, y graph.Node) float64 { return Distance(g, int(x.ID()), int(y.ID())) }
	}

	shortest, _ := path.AStar(simple.Node(start), simple.Node(end), g.g, heuristic)
	nodes, cost := shortest.To(int64(end))
	if len(nodes) == 0 || math.IsInf(cost, 1) {
		return nil, ErrNoPath
	}

	out := make([]int, len(nodes))
	for i, n := range nodes {
		out[i] = int(n.ID())
	}
	return out, nil
}
