package gridroute

import (
	"container/heap"
	"fmt"

	"github.com/copperline/gridroute/internal/vset"
)

// StepSnapshot exposes the per-iteration state of a stepped search.
type StepSnapshot struct {
	Current   int
	Open      map[int]bool
	Closed    map[int]bool
	CameFrom  map[int]int
	Done      bool
	Found     bool
	Path      []int
	StepIndex int
}

// Stepper drives the same search as Graph.AStar one vertex expansion at a
// time, for debugging tools and white-box tests.
type Stepper struct {
	g    searchGraph
	goal int
	h    Heuristic

	openSet    vertexQueue
	openSetMap map[int]*vertexItem
	closedSet  map[int]bool
	cameFrom   map[int]int
	gScore     map[int]float64

	stepCount int
	done      bool
	found     bool
}

// NewStepper creates a stepper over g. The endpoints follow the same
// validity rules as Graph.AStar; a nil heuristic falls back to Distance.
func NewStepper(g Graph, start, end int, h Heuristic) (*Stepper, error) {
	sg, ok := g.(searchGraph)
	if !ok {
		return nil, fmt.Errorf("stepper: backend %T does not expose neighbor iteration", g)
	}
	if err := checkVertexRange(g, start, end); err != nil {
		return nil, err
	}
	if h == nil {
		h = func(a, b int) float64 { return Distance(g, a, b) }
	}

	s := &Stepper{
		g: sg, goal: end, h: h,
		openSet:    make(vertexQueue, 0),
		openSetMap: make(map[int]*vertexItem),
		closedSet:  make(map[int]bool),
		cameFrom:   make(map[int]int),
		gScore:     map[int]float64{start: 0},
	}

	heap.Init(&s.openSet)
	startItem := &vertexItem{vertex: start, gScore: 0, fCost: h(start, end)}
	heap.Push(&s.openSet, startItem)
	s.openSetMap[start] = startItem

	return s, nil
}

// Step advances the search by one node expansion and returns a snapshot.
func (s *Stepper) Step() StepSnapshot {
	if s.done {
		return s.snapshot(0, nil)
	}
	if s.openSet.Len() == 0 {
		s.done = true
		return s.snapshot(0, nil)
	}

	s.stepCount++
	currentItem := heap.Pop(&s.openSet).(*vertexItem)
	current := currentItem.vertex
	delete(s.openSetMap, current)
	if s.closedSet[current] {
		return s.Step()
	}
	s.closedSet[current] = true

	if current == s.goal {
		s.done = true
		s.found = true
		return s.snapshot(current, reconstructPath(s.cameFrom, current, inferStart(s.cameFrom, current)))
	}

	s.g.neighbors(current, func(n int, weight float64) {
		if s.closedSet[n] {
			return
		}
		tentativeG := currentItem.gScore + weight
		if prev, ok := s.gScore[n]; ok && tentativeG >= prev {
			return
		}
		s.gScore[n] = tentativeG
		s.cameFrom[n] = current
		f := tentativeG + s.h(n, s.goal)
		if item, ok := s.openSetMap[n]; !ok {
			item = &vertexItem{vertex: n, gScore: tentativeG, fCost: f}
			heap.Push(&s.openSet, item)
			s.openSetMap[n] = item
		} else if f < item.fCost {
			item.gScore = tentativeG
			item.fCost = f
			heap.Fix(&s.openSet, item.indexInQueue)
		}
	})

	return s.snapshot(current, nil)
}

func (s *Stepper) snapshot(current int, path []int) StepSnapshot {
	open := make(map[int]bool, len(s.openSetMap))
	for v := range s.openSetMap {
		open[v] = true
	}
	cameFrom := make(map[int]int, len(s.cameFrom))
	for k, v := range s.cameFrom {
		cameFrom[k] = v
	}
	return StepSnapshot{
		Current:   current,
		Open:      open,
		Closed:    vset.Copy(s.closedSet),
		CameFrom:  cameFrom,
		Done:      s.done,
		Found:     s.found,
		Path:      path,
		StepIndex: s.stepCount,
	}
}

// inferStart walks cameFrom backwards until a vertex with no predecessor.
func inferStart(cameFrom map[int]int, current int) int {
	for {
		prev, ok := cameFrom[current]
		if !ok {
			return current
		}
		current = prev
	}
}

// checkVertexRange translates out-of-range endpoints into
// InvalidVertexError.
func checkVertexRange(g Graph, vs ...int) error {
	s := g.Steps()
	total := s.X * s.Y * s.Z
	for _, v := range vs {
		if v < 0 || v >= total {
			return &InvalidVertexError{Vertex: v}
		}
	}
	return nil
}
