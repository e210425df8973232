package gridroute

import (
	"container/heap"
	"math"
)

// searchGraph is the view of a backend the search loop needs: membership,
// index decoding for the default heuristic, and neighbor iteration under
// the live filters. Both backends implement it.
type searchGraph interface {
	Has(v int) bool
	ProjectOut(flat int) Coord[int]
	neighbors(v int, fn func(n int, weight float64))
}

// astarSearch runs a synchronous weighted A* over g. It assumes start and
// end are in range; callers translate out-of-range indices into
// InvalidVertexError beforehand. Returns ErrNoPath when the frontier
// empties without reaching end.
func astarSearch(g searchGraph, start, end int, h Heuristic) ([]int, error) {
	if h == nil {
		h = func(a, b int) float64 {
			ca, cb := g.ProjectOut(a), g.ProjectOut(b)
			d := ca.Sub(cb)
			fd := d.Float()
			return math.Sqrt(fd.X*fd.X + fd.Y*fd.Y + fd.Z*fd.Z)
		}
	}

	if !g.Has(start) || !g.Has(end) {
		return nil, ErrNoPath
	}
	if start == end {
		return []int{start}, nil
	}

	openSet := make(vertexQueue, 0)
	heap.Init(&openSet)

	startItem := &vertexItem{vertex: start, gScore: 0, fCost: h(start, end)}
	heap.Push(&openSet, startItem)

	cameFrom := make(map[int]int)
	gScore := map[int]float64{start: 0}
	closedSet := make(map[int]bool)
	openSetMap := map[int]*vertexItem{start: startItem}

	for openSet.Len() > 0 {
		currentItem := heap.Pop(&openSet).(*vertexItem)
		current := currentItem.vertex
		delete(openSetMap, current)

		if closedSet[current] {
			continue
		}
		closedSet[current] = true

		if current == end {
			return reconstructPath(cameFrom, current, start), nil
		}

		g.neighbors(current, func(n int, weight float64) {
			if closedSet[n] {
				return
			}
			tentativeG := currentItem.gScore + weight
			if prev, ok := gScore[n]; ok && tentativeG >= prev {
				return
			}
			gScore[n] = tentativeG
			cameFrom[n] = current
			f := tentativeG + h(n, end)
			if item, inOpen := openSetMap[n]; !inOpen {
				item = &vertexItem{vertex: n, gScore: tentativeG, fCost: f}
				heap.Push(&openSet, item)
				openSetMap[n] = item
			} else if f < item.fCost {
				item.gScore = tentativeG
				item.fCost = f
				heap.Fix(&openSet, item.indexInQueue)
			}
		})
	}

	return nil, ErrNoPath
}

// reconstructPath rebuilds the start..current path from the cameFrom map.
func reconstructPath(cameFrom map[int]int, current, start int) []int {
	path := []int{current}
	for current != start {
		prev, ok := cameFrom[current]
		if !ok {
			break
		}
		path = append(path, prev)
		current = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
