package gridroute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copperline/gridroute/internal/vset"
)

var backends = []struct {
	name    string
	backend Backend
}{
	{"adjacency", NewAdjacencyGraph},
	{"gonum", NewGonumGraph},
}

// pathCost sums the live edge weights along a path.
func pathCost(t *testing.T, g Graph, path []int) float64 {
	t.Helper()
	var cost float64
	for i := 1; i < len(path); i++ {
		w, ok := g.Weight(path[i-1], path[i])
		require.True(t, ok, "path step %d-%d is not an edge", path[i-1], path[i])
		cost += w
	}
	return cost
}

func TestLatticeStructure(t *testing.T) {
	t.Parallel()
	for _, b := range backends {
		b := b
		t.Run(b.name, func(t *testing.T) {
			t.Parallel()
			g := NewLattice(C(3, 3, 2), WithBackend(b.backend))

			center := g.ProjectInto(C(1, 1, 0)) // 4
			layerSize := 9

			t.Run("edge weights", func(t *testing.T) {
				w, ok := g.Weight(center, center+1)
				require.True(t, ok)
				assert.Equal(t, WeightOrthogonal, w)

				w, ok = g.Weight(g.ProjectInto(C(0, 0, 0)), center)
				require.True(t, ok)
				assert.Equal(t, WeightDiagonal, w)

				w, ok = g.Weight(center, center+layerSize)
				require.True(t, ok)
				assert.Equal(t, WeightVia, w)
			})

			t.Run("connectivity", func(t *testing.T) {
				// 8 in-plane neighbors plus the via partner.
				n := g.Neigh(vset.Of(center), 1, false)
				assert.Len(t, n, 9)

				// ring drops the via partner.
				n = g.Neigh(vset.Of(center), 1, true)
				assert.Len(t, n, 8)

				corner := g.ProjectInto(C(0, 0, 0))
				assert.Len(t, g.Neigh(vset.Of(corner), 1, false), 4)
				assert.Len(t, g.Neigh(vset.Of(corner), 1, true), 3)
			})

			t.Run("no diagonals across layers", func(t *testing.T) {
				_, ok := g.Weight(g.ProjectInto(C(0, 0, 0)), g.ProjectInto(C(1, 1, 1)))
				assert.False(t, ok)
			})
		})
	}
}

func TestLatticeLayerClique(t *testing.T) {
	t.Parallel()
	for _, b := range backends {
		b := b
		t.Run(b.name, func(t *testing.T) {
			t.Parallel()
			g := NewLattice(C(2, 2, 3), WithBackend(b.backend))

			// Vias connect all layer pairs at each (x, y), not just
			// adjacent layers.
			v0 := g.ProjectInto(C(1, 0, 0))
			v2 := g.ProjectInto(C(1, 0, 2))
			w, ok := g.Weight(v0, v2)
			require.True(t, ok)
			assert.Equal(t, WeightVia, w)
		})
	}
}

func TestLatticeOptions(t *testing.T) {
	t.Parallel()
	for _, b := range backends {
		b := b
		t.Run(b.name, func(t *testing.T) {
			t.Parallel()

			g := NewLattice(C(3, 3, 2), WithBackend(b.backend), WithoutDiagonals())
			_, ok := g.Weight(g.ProjectInto(C(0, 0, 0)), g.ProjectInto(C(1, 1, 0)))
			assert.False(t, ok, "diagonal edge present despite WithoutDiagonals")

			g = NewLattice(C(3, 3, 2), WithBackend(b.backend), WithoutLayerLinks())
			_, ok = g.Weight(g.ProjectInto(C(1, 1, 0)), g.ProjectInto(C(1, 1, 1)))
			assert.False(t, ok, "via edge present despite WithoutLayerLinks")
		})
	}
}

func TestProjections(t *testing.T) {
	t.Parallel()
	for _, b := range backends {
		b := b
		t.Run(b.name, func(t *testing.T) {
			t.Parallel()
			g := NewLattice(C(3, 4, 2), WithBackend(b.backend))

			for v := 0; v < 3*4*2; v++ {
				c := g.ProjectOut(v)
				assert.Equal(t, v, g.ProjectInto(c))
			}
			assert.Equal(t, C(2, 3, 1), g.ProjectOut(23))
		})
	}
}

func TestDistance(t *testing.T) {
	t.Parallel()
	g := NewLattice(C(11, 11, 1))
	v := g.ProjectInto(C(3, 4, 0))
	assert.InDelta(t, 5.0, DistanceToOrigin(g, v), 1e-9)
	assert.InDelta(t, 5.0, Distance(g, v, 0), 1e-9)
}

func TestSubgraph(t *testing.T) {
	t.Parallel()
	for _, b := range backends {
		b := b
		t.Run(b.name, func(t *testing.T) {
			t.Parallel()
			g := NewLattice(C(3, 3, 1), WithBackend(b.backend))

			t.Run("identity", func(t *testing.T) {
				assert.Equal(t, g, g.Subgraph(nil, nil))
				assert.Equal(t, g, g.SubgraphE(nil))
			})

			t.Run("exclusion", func(t *testing.T) {
				sub := g.Subgraph(vset.Of(4), nil)
				assert.False(t, sub.Has(4))
				assert.True(t, sub.Has(3))
				assert.True(t, g.Has(4), "view must not mutate parent")
			})

			t.Run("inclusion", func(t *testing.T) {
				sub := g.Subgraph(nil, vset.Of(0, 1, 2))
				assert.True(t, sub.Has(1))
				assert.False(t, sub.Has(4))
			})

			t.Run("inclusion then exclusion", func(t *testing.T) {
				sub := g.Subgraph(vset.Of(1), vset.Of(0, 1, 2))
				assert.True(t, sub.Has(0))
				assert.False(t, sub.Has(1))
				assert.False(t, sub.Has(8))
			})

			t.Run("vertices", func(t *testing.T) {
				assert.Len(t, g.Vertices(), 9)
				assert.Len(t, g.Subgraph(vset.Of(4), nil).Vertices(), 8)
			})
		})
	}
}

func TestSubgraphE(t *testing.T) {
	t.Parallel()
	for _, b := range backends {
		b := b
		t.Run(b.name, func(t *testing.T) {
			t.Parallel()
			// A 3x1 line: 0-1-2.
			g := NewLattice(C(3, 1, 1), WithBackend(b.backend))

			sub := g.SubgraphE(map[Edge]bool{NewEdge(0, 1): true})
			_, ok := sub.Weight(0, 1)
			assert.False(t, ok)
			assert.True(t, sub.Has(0), "vertices stay untouched")

			_, err := sub.AStar(0, 2, nil)
			assert.ErrorIs(t, err, ErrNoPath)

			// The parent still routes.
			path, err := g.AStar(0, 2, nil)
			require.NoError(t, err)
			assert.Equal(t, []int{0, 1, 2}, path)
		})
	}
}

func TestAStar(t *testing.T) {
	t.Parallel()
	for _, b := range backends {
		b := b
		t.Run(b.name, func(t *testing.T) {
			t.Parallel()
			g := NewLattice(C(3, 3, 1), WithBackend(b.backend))

			t.Run("shortest path cost", func(t *testing.T) {
				path, err := g.AStar(0, 8, nil)
				require.NoError(t, err)
				assert.Equal(t, 0, path[0])
				assert.Equal(t, 8, path[len(path)-1])
				// Two diagonal hops beat any orthogonal detour.
				assert.Equal(t, 30.0, pathCost(t, g, path))
			})

			t.Run("start equals end", func(t *testing.T) {
				path, err := g.AStar(5, 5, nil)
				require.NoError(t, err)
				assert.Equal(t, []int{5}, path)
			})

			t.Run("invalid vertex", func(t *testing.T) {
				_, err := g.AStar(-1, 8, nil)
				var ive *InvalidVertexError
				require.ErrorAs(t, err, &ive)
				assert.Equal(t, -1, ive.Vertex)

				_, err = g.AStar(0, 9, nil)
				require.ErrorAs(t, err, &ive)
				assert.Equal(t, 9, ive.Vertex)
			})

			t.Run("no path", func(t *testing.T) {
				// Wall off the corner.
				sub := g.Subgraph(vset.Of(1, 3, 4), nil)
				_, err := sub.AStar(0, 8, nil)
				assert.ErrorIs(t, err, ErrNoPath)
			})
		})
	}
}

func TestFindPathStitching(t *testing.T) {
	t.Parallel()
	for _, b := range backends {
		b := b
		t.Run(b.name, func(t *testing.T) {
			t.Parallel()
			g := NewLattice(C(11, 11, 1), WithBackend(b.backend))

			a := g.ProjectInto(C(0, 0, 0))
			bb := g.ProjectInto(C(10, 0, 0))
			c := g.ProjectInto(C(5, 5, 0))

			path, err := FindPath(g, []int{bb, c, a}, nil)
			require.NoError(t, err)

			// Starts at the node nearest the origin, then chains to the
			// nearest unvisited node: a, c, b.
			assert.Equal(t, a, path[0])
			assert.Equal(t, bb, path[len(path)-1])

			count := map[int]int{}
			idx := map[int]int{}
			for i, v := range path {
				if v == a || v == bb || v == c {
					count[v]++
					idx[v] = i
				}
			}
			assert.Equal(t, map[int]int{a: 1, bb: 1, c: 1}, count, "each terminal visited exactly once")
			assert.Less(t, idx[a], idx[c])
			assert.Less(t, idx[c], idx[bb])
		})
	}
}

func TestFindPathExclusionGuard(t *testing.T) {
	t.Parallel()
	g := NewLattice(C(3, 1, 1))

	// The searched view allows vertex 1, but the caller's exclusion set
	// still forbids it: the stitched result must be rejected.
	_, err := FindPath(g, []int{0, 2}, vset.Of(1))
	assert.ErrorIs(t, err, ErrNoPath)
}

func TestFindPathTooFewNodes(t *testing.T) {
	t.Parallel()
	g := NewLattice(C(3, 3, 1))
	_, err := FindPath(g, []int{4}, nil)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoPath)
}

func TestStepper(t *testing.T) {
	t.Parallel()
	for _, b := range backends {
		b := b
		t.Run(b.name, func(t *testing.T) {
			t.Parallel()
			g := NewLattice(C(5, 5, 1), WithBackend(b.backend))
			start, end := 0, g.ProjectInto(C(4, 4, 0))

			s, err := NewStepper(g, start, end, nil)
			require.NoError(t, err)

			var snap StepSnapshot
			for i := 0; i < 1000; i++ {
				snap = s.Step()
				if snap.Done {
					break
				}
			}
			require.True(t, snap.Done)
			require.True(t, snap.Found)
			require.NotEmpty(t, snap.Path)
			assert.Equal(t, start, snap.Path[0])
			assert.Equal(t, end, snap.Path[len(snap.Path)-1])

			// The stepped search finds the same cost as the one-shot
			// search.
			oneShot, err := g.AStar(start, end, nil)
			require.NoError(t, err)
			assert.Equal(t, pathCost(t, g, oneShot), pathCost(t, g, snap.Path))

			// Stepping past completion stays done.
			again := s.Step()
			assert.True(t, again.Done)
		})
	}
}

func TestStepperInvalidVertex(t *testing.T) {
	t.Parallel()
	g := NewLattice(C(3, 3, 1))
	_, err := NewStepper(g, -1, 0, nil)
	var ive *InvalidVertexError
	assert.ErrorAs(t, err, &ive)
}
