package gridroute

import (
	"fmt"
	"math"

	"github.com/copperline/gridroute/internal/vset"
)

// Edge weights for the three lattice edge classes. Orthogonal < diagonal so
// straight runs win over staircases, and the via weight dwarfs both so a
// route only changes layers when it has no in-plane alternative.
const (
	WeightOrthogonal = 10.0
	WeightDiagonal   = 15.0
	WeightVia        = 10000.0
)

// Edge is an undirected edge between two flat vertex indices, stored with
// the smaller index first.
type Edge [2]int

// NewEdge normalizes (a, b) into canonical order.
func NewEdge(a, b int) Edge {
	if b < a {
		a, b = b, a
	}
	return Edge{a, b}
}

// Heuristic estimates the remaining cost from vertex a to vertex b.
type Heuristic func(a, b int) float64

// Graph is a weighted lattice over a discretized 3D index space. Backends
// implement it as views: Subgraph and SubgraphE return restricted graphs
// without mutating the receiver.
type Graph interface {
	// Steps returns the lattice dimensions (cells per axis).
	Steps() Coord[int]

	// ProjectOut decodes a flat index into a grid triple; ProjectInto is
	// its inverse. The mapping is row-major: flat = x + y*sx + z*sx*sy.
	ProjectOut(flat int) Coord[int]
	ProjectInto(c Coord[int]) int

	// AddEdges bulk-inserts undirected edges with a uniform weight. It
	// mutates shared storage and is only intended for lattice construction.
	AddEdges(edges []Edge, weight float64)

	// Weight returns the weight of edge (u, v) under the live view.
	Weight(u, v int) (float64, bool)

	// Has reports whether v is inside the index range and not filtered out.
	Has(v int) bool

	// Vertices returns the live vertex set.
	Vertices() map[int]bool

	// Subgraph returns a view keeping only inc (nil or empty meaning all),
	// then dropping ex. With both empty it returns the receiver.
	Subgraph(ex, inc map[int]bool) Graph

	// SubgraphE returns a view with exactly the given edges removed.
	SubgraphE(ex map[Edge]bool) Graph

	// Neigh expands vs by order BFS hops and returns the resulting
	// frontier. With ring set, only same-layer neighbors are followed.
	Neigh(vs map[int]bool, order int, ring bool) map[int]bool

	// AStar finds the weighted shortest path between two flat indices.
	// Out-of-range endpoints yield an InvalidVertexError; a disconnected
	// pair yields ErrNoPath. A nil heuristic falls back to Distance.
	AStar(start, end int, h Heuristic) ([]int, error)
}

// Backend constructs an empty graph (all vertices, no edges) for the given
// lattice dimensions.
type Backend func(steps Coord[int]) Graph

// dims carries the lattice dimensions and the index projections shared by
// every backend.
type dims struct {
	steps Coord[int]
}

func (d dims) Steps() Coord[int] { return d.steps }

func (d dims) total() int { return d.steps.X * d.steps.Y * d.steps.Z }

func (d dims) ProjectOut(flat int) Coord[int] {
	return Coord[int]{
		X: flat % d.steps.X,
		Y: (flat / d.steps.X) % d.steps.Y,
		Z: flat / (d.steps.X * d.steps.Y),
	}
}

func (d dims) ProjectInto(c Coord[int]) int {
	return c.X + c.Y*d.steps.X + c.Z*d.steps.X*d.steps.Y
}

// Distance is the Euclidean distance between two flat indices' decoded grid
// triples. It serves both as the A* heuristic and as the nearest-neighbor
// metric for multi-terminal chaining.
func Distance(g Graph, a, b int) float64 {
	ca, cb := g.ProjectOut(a), g.ProjectOut(b)
	d := ca.Sub(cb)
	return math.Sqrt(float64(d.X*d.X + d.Y*d.Y + d.Z*d.Z))
}

// DistanceToOrigin is Distance against vertex 0, the grid origin.
func DistanceToOrigin(g Graph, a int) float64 { return Distance(g, a, 0) }

// LatticeOption configures NewLattice.
type LatticeOption func(*latticeConfig)

type latticeConfig struct {
	diagonal bool
	layer    bool
	backend  Backend
}

// WithoutDiagonals builds a 4-connected in-plane lattice instead of the
// default 8-connected one.
func WithoutDiagonals() LatticeOption {
	return func(c *latticeConfig) { c.diagonal = false }
}

// WithoutLayerLinks leaves layers beyond the first empty and adds no via
// edges.
func WithoutLayerLinks() LatticeOption {
	return func(c *latticeConfig) { c.layer = false }
}

// WithBackend selects the graph backend; the default is NewAdjacencyGraph.
func WithBackend(b Backend) LatticeOption {
	return func(c *latticeConfig) { c.backend = b }
}

// NewLattice builds the routable lattice for the given dimensions: an
// orthogonal steps.X by steps.Y lattice per layer, the two diagonal edge
// families per unit cell (in-plane only), and via edges forming a full
// clique across layers at every (x, y).
func NewLattice(steps Coord[int], opts ...LatticeOption) Graph {
	cfg := latticeConfig{diagonal: true, layer: true, backend: NewAdjacencyGraph}
	for _, o := range opts {
		o(&cfg)
	}

	g := cfg.backend(steps)
	d := dims{steps: steps}

	layers := 1
	if cfg.layer && steps.Z > 1 {
		layers = steps.Z
	}

	for z := 0; z < layers; z++ {
		g.AddEdges(orthogonalPlaneEdges(d, z), WeightOrthogonal)
		if cfg.diagonal {
			g.AddEdges(diagonalPlaneEdges(d, z), WeightDiagonal)
		}
	}

	if cfg.layer && steps.Z > 1 {
		g.AddEdges(layerEdges(d), WeightVia)
	}

	return g
}

// orthogonalPlaneEdges enumerates the 4-connectivity edges of layer z.
func orthogonalPlaneEdges(d dims, z int) []Edge {
	sx, sy := d.steps.X, d.steps.Y
	edges := make([]Edge, 0, 2*sx*sy)
	for y := 0; y < sy; y++ {
		for x := 0; x < sx; x++ {
			v := d.ProjectInto(Coord[int]{x, y, z})
			if x+1 < sx {
				edges = append(edges, NewEdge(v, v+1))
			}
			if y+1 < sy {
				edges = append(edges, NewEdge(v, v+sx))
			}
		}
	}
	return edges
}

// diagonalPlaneEdges enumerates both diagonal families per unit cell of
// layer z.
func diagonalPlaneEdges(d dims, z int) []Edge {
	sx, sy := d.steps.X, d.steps.Y
	edges := make([]Edge, 0, 2*sx*sy)
	for y := 0; y+1 < sy; y++ {
		for x := 0; x+1 < sx; x++ {
			v := d.ProjectInto(Coord[int]{x, y, z})
			edges = append(edges,
				NewEdge(v, v+sx+1), // (x, y) - (x+1, y+1)
				NewEdge(v+1, v+sx), // (x+1, y) - (x, y+1)
			)
		}
	}
	return edges
}

// layerEdges connects every pair of same-(x, y) vertices across all layer
// pairs: a full clique, not just adjacent-layer links.
func layerEdges(d dims) []Edge {
	layerSize := d.steps.X * d.steps.Y
	sz := d.steps.Z
	edges := make([]Edge, 0, layerSize*sz*(sz-1)/2)
	for z2 := 1; z2 < sz; z2++ {
		for z1 := 0; z1 < z2; z1++ {
			for i := 0; i < layerSize; i++ {
				edges = append(edges, NewEdge(i+z1*layerSize, i+z2*layerSize))
			}
		}
	}
	return edges
}

// FindPath connects all nodes into one path. Two nodes are a single AStar
// call. More than two are chained greedily: start at the node nearest the
// grid origin, repeatedly route from the current tail to the nearest
// unvisited node, and append each sub-path minus its join vertex. The
// result is verified to be disjoint from ex. The chaining is a deliberate
// heuristic; callers depend on its deterministic order.
func FindPath(g Graph, nodes []int, ex map[int]bool) ([]int, error) {
	if len(nodes) < 2 {
		return nil, fmt.Errorf("find path: need at least 2 nodes, got %d", len(nodes))
	}

	subPath := func(start, end int) ([]int, error) {
		out, err := g.AStar(start, end, nil)
		if err != nil {
			return nil, err
		}
		if !vset.Disjoint(vset.Of(out...), ex) {
			return nil, fmt.Errorf("%w: crossed illegal domain", ErrNoPath)
		}
		return out, nil
	}

	if len(nodes) == 2 {
		return subPath(nodes[0], nodes[1])
	}

	left := make([]int, len(nodes))
	copy(left, nodes)

	cur := popNearest(left, func(v int) float64 { return DistanceToOrigin(g, v) })
	left = left[:len(left)-1]
	path := []int{cur}

	for len(left) > 0 {
		pick := popNearest(left, func(v int) float64 { return Distance(g, cur, v) })
		left = left[:len(left)-1]

		sub, err := subPath(cur, pick)
		if err != nil {
			return nil, err
		}
		path = append(path, sub[1:]...)
		cur = pick
	}

	return path, nil
}

// popNearest moves the element minimizing key (ties broken by smaller
// vertex index) to the end of vs and returns it.
func popNearest(vs []int, key func(int) float64) int {
	best := 0
	bestKey := key(vs[0])
	for i := 1; i < len(vs); i++ {
		k := key(vs[i])
		if k < bestKey || (k == bestKey && vs[i] < vs[best]) {
			best, bestKey = i, k
		}
	}
	last := len(vs) - 1
	vs[best], vs[last] = vs[last], vs[best]
	return vs[last]
}
