// Package routeplot renders a routing session to a PNG for debugging:
// the cells consumed by committed routes as per-layer scatters, plus any
// number of routed polylines.
package routeplot

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/copperline/gridroute"
)

// layerPalette cycles for boards with more layers than entries.
var layerPalette = []color.RGBA{
	{R: 0xc0, G: 0x39, B: 0x2b, A: 0xff}, // top copper: red
	{R: 0x27, G: 0x60, B: 0xb9, A: 0xff}, // bottom copper: blue
	{R: 0x27, G: 0xae, B: 0x60, A: 0xff},
	{R: 0xf3, G: 0x9c, B: 0x12, A: 0xff},
}

// Save writes a plot of g's used cells and the given world-space polylines
// to filename. The format follows the filename extension (.png, .svg,
// .pdf).
func Save(g *gridroute.Grid, paths [][]gridroute.OutCoord, filename string) error {
	p := plot.New()
	rect := g.Rect()
	p.Title.Text = fmt.Sprintf("routing session %v-%v, %d layers", rect[0], rect[1], g.Layers())
	p.X.Label.Text = "x (mm)"
	p.Y.Label.Text = "y (mm)"

	byLayer := make(map[int]plotter.XYs)
	for _, c := range g.UsedCoords() {
		z := int(c.Z)
		byLayer[z] = append(byLayer[z], plotter.XY{X: c.X, Y: c.Y})
	}

	for z := 0; z < g.Layers(); z++ {
		xys, ok := byLayer[z]
		if !ok {
			continue
		}
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return fmt.Errorf("layer %d scatter: %w", z, err)
		}
		s.GlyphStyle.Color = layerPalette[z%len(layerPalette)]
		s.GlyphStyle.Radius = vg.Points(1.5)
		p.Add(s)
		p.Legend.Add(fmt.Sprintf("layer %d", z), s)
	}

	for i, path := range paths {
		xys := make(plotter.XYs, len(path))
		for j, c := range path {
			xys[j] = plotter.XY{X: c.X, Y: c.Y}
		}
		l, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("path %d line: %w", i, err)
		}
		l.Color = color.RGBA{A: 0xff}
		p.Add(l)
	}

	return p.Save(8*vg.Inch, 8*vg.Inch, filename)
}
