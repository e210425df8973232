package gridroute

import (
	"fmt"
	"math"
)

// projectPolyInto rasterizes one inclusion polygon into the set of flat
// indices whose cell centers fall inside it. The polygon's vertices must
// share one z; a negative z applies the polygon to every layer.
func (g *Grid) projectPolyInto(poly []OutCoord) (map[int]bool, error) {
	if len(poly) < 3 {
		return nil, fmt.Errorf("inclusion polygon needs at least 3 vertices, got %d", len(poly))
	}

	// Project the vertices into grid space without snapping them to cells:
	// containment is decided against the polygon as given, so a corner
	// falling between cell centers keeps its meaning.
	fpoly := make([]Coord[float64], len(poly))
	for i, c := range poly {
		fpoly[i] = c.Sub(g.rect[0]).Div(g.resolution)
	}

	layer := int(math.Round(fpoly[0].Z))
	for i, c := range fpoly {
		if int(math.Round(c.Z)) != layer {
			return nil, fmt.Errorf("cross-layer inclusion polygon at %v", poly[i])
		}
	}

	var zs []int
	switch {
	case layer < 0:
		for z := 0; z < g.steps.Z; z++ {
			zs = append(zs, z)
		}
	case layer < g.steps.Z:
		zs = []int{layer}
	default:
		// Polygon sits entirely off-grid.
		return nil, nil
	}

	// Clip the bounding box to the grid; cell centers outside can never
	// become vertices.
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range fpoly {
		minX, maxX = min(minX, c.X), max(maxX, c.X)
		minY, maxY = min(minY, c.Y), max(maxY, c.Y)
	}
	x0, x1 := max(0, int(math.Ceil(minX))), min(g.steps.X-1, int(math.Floor(maxX)))
	y0, y1 := max(0, int(math.Ceil(minY))), min(g.steps.Y-1, int(math.Floor(maxY)))

	cells := make(map[int]bool)
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			if !pointInPolygon(float64(x), float64(y), fpoly) {
				continue
			}
			for _, z := range zs {
				cells[g.g.ProjectInto(Coord[int]{x, y, z})] = true
			}
		}
	}
	return cells, nil
}

// pointInPolygon is an even-odd ray-casting containment test over the
// polygon's (x, y) projection. Points on the boundary follow the usual
// semi-open convention.
func pointInPolygon(x, y float64, poly []Coord[float64]) bool {
	inside := false
	j := len(poly) - 1
	for i := range poly {
		xi, yi := poly[i].X, poly[i].Y
		xj, yj := poly[j].X, poly[j].Y
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}
