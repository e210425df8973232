package gridroute

import (
	"fmt"
	"log/slog"

	"github.com/copperline/gridroute/internal/vset"
)

// Package defaults for grid discretization.
const (
	// DefaultResolution is the grid pitch in millimetres.
	DefaultResolution = 0.1
	// DefaultTolerance is the margin, in millimetres, added around the
	// routable rect on x and y.
	DefaultTolerance = 5.0
)

// Grid owns one routing session: a routable world-space rectangle
// discretized into a weighted lattice, plus the incremental state of which
// cells previous routes consumed. Routing order is semantically
// significant; each committed FindPath narrows the search space of every
// later call. Not safe for concurrent use.
type Grid struct {
	rect       [2]OutCoord // expanded by tolerance
	resolution OutCoord    // (res, res, 1)
	steps      Coord[int]
	used       map[int]bool
	g          Graph
	log        *slog.Logger
}

// GridOption configures NewGrid.
type GridOption func(*gridConfig)

type gridConfig struct {
	resolution float64
	tolerance  float64
	log        *slog.Logger
	lattice    []LatticeOption
}

// WithResolution sets the grid pitch in millimetres.
func WithResolution(res float64) GridOption {
	return func(c *gridConfig) { c.resolution = res }
}

// WithTolerance sets the margin added around the routable rect.
func WithTolerance(tol float64) GridOption {
	return func(c *gridConfig) { c.tolerance = tol }
}

// WithLogger sets the logger; the default is slog.Default().
func WithLogger(l *slog.Logger) GridOption {
	return func(c *gridConfig) { c.log = l }
}

// WithGraph selects the graph backend for the session's lattice.
func WithGraph(b Backend) GridOption {
	return func(c *gridConfig) { c.lattice = append(c.lattice, WithBackend(b)) }
}

// NewGrid builds the routing session for rect, given in world millimetres
// with Z spanning the copper layer indices. inclusionPoly restricts routing
// to the union of the given polygons; each polygon is a list of coplanar
// world coordinates, and a polygon whose z is negative applies to every
// layer. With no polygons the whole rect is routable.
func NewGrid(rect [2]OutCoord, inclusionPoly [][]OutCoord, opts ...GridOption) (*Grid, error) {
	cfg := gridConfig{resolution: DefaultResolution, tolerance: DefaultTolerance}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.log == nil {
		cfg.log = slog.Default()
	}

	tolerance := C(cfg.tolerance, cfg.tolerance, 0)
	g := &Grid{
		rect:       [2]OutCoord{rect[0].Sub(tolerance), rect[1].Add(tolerance)},
		resolution: C(cfg.resolution, cfg.resolution, 1),
		used:       make(map[int]bool),
		log:        cfg.log,
	}
	g.steps = RoundToInt(g.rect[1].Sub(g.rect[0]).Div(g.resolution).Ceil()).Add(C(1, 1, 1))

	g.log.Info("building grid", "steps", g.steps, "rect", fmt.Sprintf("%v-%v", g.rect[0], g.rect[1]))
	g.g = NewLattice(g.steps, cfg.lattice...)

	g.log.Info("adding inclusion zones to grid", "count", len(inclusionPoly))
	var inc map[int]bool
	if len(inclusionPoly) == 1 {
		var err error
		if inc, err = g.projectPolyInto(inclusionPoly[0]); err != nil {
			return nil, err
		}
	} else if len(inclusionPoly) > 1 {
		inc = make(map[int]bool)
		for _, poly := range inclusionPoly {
			cells, err := g.projectPolyInto(poly)
			if err != nil {
				return nil, err
			}
			vset.Union(inc, cells)
		}
	}
	g.g = g.g.Subgraph(nil, inc)

	return g, nil
}

// Steps returns the cell counts per axis.
func (g *Grid) Steps() Coord[int] { return g.steps }

// Rect returns the tolerance-expanded world rect covered by the grid.
func (g *Grid) Rect() [2]OutCoord { return g.rect }

// Resolution returns the grid pitch in millimetres.
func (g *Grid) Resolution() float64 { return g.resolution.X }

// Layers returns the number of copper layers.
func (g *Grid) Layers() int { return g.steps.Z }

// UsedCoords returns the world coordinates of every cell consumed by
// committed routes, in ascending index order.
func (g *Grid) UsedCoords() []OutCoord {
	out := make([]OutCoord, 0, len(g.used))
	for _, v := range vset.Sorted(g.used) {
		out = append(out, g.projectOut(v))
	}
	return out
}

func (g *Grid) projectIntoTriple(c OutCoord) Coord[int] {
	return RoundToInt(c.Sub(g.rect[0]).Div(g.resolution))
}

func (g *Grid) projectOutTriple(c Coord[int]) OutCoord {
	return c.Float().Mul(g.resolution).Add(g.rect[0])
}

// projectInto maps a world coordinate to its flat grid index, failing with
// InvalidVertexError outside the discretized range.
func (g *Grid) projectInto(c OutCoord) (int, error) {
	t := g.projectIntoTriple(c)
	flat := g.g.ProjectInto(t)
	if t.X < 0 || t.X >= g.steps.X ||
		t.Y < 0 || t.Y >= g.steps.Y ||
		t.Z < 0 || t.Z >= g.steps.Z {
		return 0, &InvalidVertexError{Vertex: flat}
	}
	return flat, nil
}

func (g *Grid) projectOut(flat int) OutCoord {
	return g.projectOutTriple(g.g.ProjectOut(flat))
}

// Reproject snaps a world coordinate to its grid cell center. It is
// idempotent after one application.
func (g *Grid) Reproject(c OutCoord) (OutCoord, error) {
	flat, err := g.projectInto(c)
	if err != nil {
		return OutCoord{}, err
	}
	return g.projectOut(flat), nil
}

// projectRectInto expands a world rect to all grid cells within its
// projected bounding box, with a one-cell margin on x and y. Cells falling
// outside the grid are dropped.
func (g *Grid) projectRectInto(rect [2]OutCoord) []int {
	const margin = 1

	lo := g.projectIntoTriple(rect[0])
	hi := g.projectIntoTriple(rect[1])

	var out []int
	for x := lo.X - margin; x <= hi.X+margin; x++ {
		for y := lo.Y - margin; y <= hi.Y+margin; y++ {
			for z := lo.Z; z <= hi.Z; z++ {
				if x < 0 || x >= g.steps.X || y < 0 || y >= g.steps.Y || z < 0 || z >= g.steps.Z {
					continue
				}
				out = append(out, g.g.ProjectInto(Coord[int]{x, y, z}))
			}
		}
	}
	return out
}

// interLayerEdges enumerates, for every coordinate, the via edges between
// it and its same-(x, y) counterparts on all other layers.
func (g *Grid) interLayerEdges(coords map[int]bool) map[Edge]bool {
	if g.steps.Z < 2 {
		return nil
	}
	layerSize := g.steps.X * g.steps.Y
	total := layerSize * g.steps.Z

	edges := make(map[Edge]bool, len(coords)*(g.steps.Z-1))
	for c := range coords {
		for z := 1; z < g.steps.Z; z++ {
			edges[NewEdge(c, (c+z*layerSize)%total)] = true
		}
	}
	return edges
}

// RouteOption configures one FindPath call.
type RouteOption func(*routeConfig)

type routeConfig struct {
	exclusionPoints     []OutCoord
	exclusionRects      [][2]OutCoord
	layerExclusionRects [][2]OutCoord
	remove              bool
	compressed          bool
}

// WithExclusionPoints excludes single world-space cells from the search.
func WithExclusionPoints(pts ...OutCoord) RouteOption {
	return func(c *routeConfig) { c.exclusionPoints = append(c.exclusionPoints, pts...) }
}

// WithExclusionRects excludes all cells within the given world rects (plus
// a one-cell margin) from the search.
func WithExclusionRects(rects ...[2]OutCoord) RouteOption {
	return func(c *routeConfig) { c.exclusionRects = append(c.exclusionRects, rects...) }
}

// WithLayerExclusionRects keeps vias out of the given world rects without
// blocking same-layer pass-through.
func WithLayerExclusionRects(rects ...[2]OutCoord) RouteOption {
	return func(c *routeConfig) { c.layerExclusionRects = append(c.layerExclusionRects, rects...) }
}

// WithoutCommit finds a path without consuming cells: the grid state is
// left untouched, so the result does not constrain later calls.
func WithoutCommit() RouteOption {
	return func(c *routeConfig) { c.remove = false }
}

// Uncompressed returns the cell-by-cell path instead of only its
// direction-change waypoints.
func Uncompressed() RouteOption {
	return func(c *routeConfig) { c.compressed = false }
}

// FindPath routes one net through all the given terminals and, unless
// WithoutCommit is given, commits the result so later routes keep
// clearance from it. The returned polyline is in world coordinates,
// compressed to its direction-change waypoints unless Uncompressed is
// given. It fails with TerminalError, ErrNoPath or InvalidVertexError; no
// partial result is ever returned.
func (g *Grid) FindPath(nodes []OutCoord, opts ...RouteOption) ([]OutCoord, error) {
	cfg := routeConfig{remove: true, compressed: true}
	for _, o := range opts {
		o(&cfg)
	}

	g.log.Info("find path", "terminals", len(nodes))

	// Translate exclusions and terminals into flat indices. Exclusion
	// coordinates outside the grid cannot affect the search and are
	// dropped; out-of-range terminals are an error.
	exCoords := make(map[int]bool)
	for _, p := range cfg.exclusionPoints {
		if v, err := g.projectInto(p); err == nil {
			exCoords[v] = true
		}
	}
	for _, r := range cfg.exclusionRects {
		for _, v := range g.projectRectInto(r) {
			exCoords[v] = true
		}
	}

	nodeCoords := make([]int, 0, len(nodes))
	nodeWorld := make([]OutCoord, 0, len(nodes))
	seen := make(map[int]bool)
	for _, n := range nodes {
		v, err := g.projectInto(n)
		if err != nil {
			return nil, err
		}
		if !seen[v] {
			seen[v] = true
			nodeCoords = append(nodeCoords, v)
			nodeWorld = append(nodeWorld, n)
		}
	}

	// One-cell same-layer clearance halo around everything already routed.
	halo := g.g.Neigh(g.used, 1, true)
	ex := vset.Union(vset.Copy(exCoords), halo)

	// Fail fast before any search runs.
	for i, v := range nodeCoords {
		switch {
		case exCoords[v]:
			g.log.Warn("terminal in exclusion zone", "terminal", nodeWorld[i], "cells", vset.Hits(seen, exCoords))
			return nil, &TerminalError{Terminal: nodeWorld[i], Reason: "in exclusion zone"}
		case halo[v] || g.used[v]:
			g.log.Warn("terminal in use", "terminal", nodeWorld[i])
			return nil, &TerminalError{Terminal: nodeWorld[i], Reason: "in use"}
		}
	}

	// Sever via edges inside keep-outs so no layer change lands there,
	// while same-layer pass-through stays possible where only the layer
	// exclusions apply.
	g.log.Debug("severing inter-layer edges in exclusion zones")
	layerEx := vset.Copy(exCoords)
	for _, r := range cfg.layerExclusionRects {
		for _, v := range g.projectRectInto(r) {
			layerEx[v] = true
		}
	}
	if cfg.remove {
		vset.Union(layerEx, halo)
	}

	G := g.g.SubgraphE(g.interLayerEdges(layerEx))
	G = G.Subgraph(ex, nil)

	path, err := FindPath(G, nodeCoords, ex)
	if err != nil {
		return nil, err
	}

	if cfg.remove {
		for _, v := range path {
			g.used[v] = true
		}
		// Permanently keep future vias off this trace.
		g.g = g.g.SubgraphE(g.interLayerEdges(vset.Of(path...)))
	}

	out := make([]OutCoord, len(path))
	for i, v := range path {
		out[i] = g.projectOut(v)
	}

	if cfg.compressed {
		out = compressPath(out)
	}
	return out, nil
}

// compressPath collapses straight runs to their endpoints: the first
// point, every point where the incoming direction changes, and the last
// point survive.
func compressPath(path []OutCoord) []OutCoord {
	if len(path) == 0 {
		return nil
	}

	var compressed []OutCoord
	var vector OutCoord
	haveVector := false

	for i := 1; i < len(path); i++ {
		now := path[i].Sub(path[i-1])
		if !haveVector || !now.Eq(vector) {
			compressed = append(compressed, path[i-1])
			vector = now
			haveVector = true
		}
	}

	return append(compressed, path[len(path)-1])
}
