// Package render paints one frame of the drawing surface through a Painter
// and schedules frames for as long as the surface is mounted.
package render

import (
	"math"

	"cadterm/internal/geom"

	"gonum.org/v1/gonum/spatial/r2"
)

// Painter is the raster backend. Points handed to SnapMarker and
// ConstructionLine are already in screen space.
type Painter interface {
	Clear()
	Grid(v geom.View)
	Shape(s geom.Shape, v geom.View, selected, preview bool)
	ConstructionLine(a, b geom.Point)
	SnapMarker(p geom.Point)
}

// Scene is the read side of the interaction surface.
type Scene interface {
	View() geom.View
	Viewport() (w, h int)
	Shapes() []geom.Shape
	SelectedID() int
	Preview() (geom.Shape, bool)
	SnapIndicator() (geom.SnapCandidate, bool)
}

// Frame paints grid, committed shapes, the preview and the snap marker, in
// that order, reading the latest state from sc.
func Frame(p Painter, sc Scene) {
	v := sc.View()
	p.Clear()
	p.Grid(v)
	sel := sc.SelectedID()
	for _, s := range sc.Shapes() {
		p.Shape(s, v, sel != 0 && s.ID == sel, false)
	}
	if pv, ok := sc.Preview(); ok {
		p.Shape(pv, v, false, true)
	}
	c, ok := sc.SnapIndicator()
	if !ok {
		return
	}
	if c.Extension {
		w, h := sc.Viewport()
		if a, b, ok := ExtensionSegment(v, c.LineStart, c.LineEnd, w, h); ok {
			p.ConstructionLine(a, b)
		}
	}
	p.SnapMarker(v.WorldToScreen(c.Point))
}

// ExtensionSegment returns the screen-space segment through start and end
// prolonged past both ends by twice the larger viewport side. Zero-length
// segments have no direction and yield ok=false.
func ExtensionSegment(v geom.View, start, end geom.Point, w, h int) (a, b geom.Point, ok bool) {
	s := v.WorldToScreen(start)
	e := v.WorldToScreen(end)
	d := r2.Vec{X: e.X - s.X, Y: e.Y - s.Y}
	n := r2.Norm(d)
	if n == 0 || math.IsNaN(n) {
		return a, b, false
	}
	ext := r2.Scale(2*float64(max(w, h)), r2.Unit(d))
	a = geom.Point{X: s.X - ext.X, Y: s.Y - ext.Y}
	b = geom.Point{X: e.X + ext.X, Y: e.Y + ext.Y}
	return a, b, true
}
