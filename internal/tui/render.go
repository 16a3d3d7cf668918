package tui

import (
	"math"

	"cadterm/internal/geom"
	"cadterm/internal/render"
)

const (
	// gridMinGap is the smallest on-screen gap between grid dots, in micro-pixels.
	gridMinGap  = 16
	previewDash = 3
	markerSize  = 3
	handleSize  = 2
)

// painter rasterises frames into a braille buffer.
type painter struct {
	buf *brailleBuf
}

var _ render.Painter = (*painter)(nil)

func newPainter(w, h int) *painter { return &painter{buf: newBrailleBuf(w, h)} }

func (p *painter) size() (float64, float64) {
	return float64(p.buf.microW()), float64(p.buf.microH())
}

func (p *painter) Clear() { p.buf.clear() }

// Grid places a dot at every grid intersection, using the smallest power of
// ten that keeps the dots gridMinGap apart at the current zoom.
func (p *painter) Grid(v geom.View) {
	if v.Scale <= 0 {
		return
	}
	step := math.Pow(10, math.Ceil(math.Log10(gridMinGap/v.Scale)))
	w, h := p.size()
	lo := v.ScreenToWorld(geom.Point{})
	hi := v.ScreenToWorld(geom.Point{X: w, Y: h})
	x0, x1 := math.Ceil(lo.X/step), math.Floor(hi.X/step)
	y0, y1 := math.Ceil(lo.Y/step), math.Floor(hi.Y/step)
	if (x1-x0+1)*(y1-y0+1) > w*h {
		return
	}
	for i := x0; i <= x1; i++ {
		for j := y0; j <= y1; j++ {
			mx, my := micro(v.WorldToScreen(geom.Point{X: i * step, Y: j * step}))
			p.buf.plot(mx, my, inkGrid)
		}
	}
}

func (p *painter) Shape(s geom.Shape, v geom.View, selected, preview bool) {
	k, dash := inkShape, 0
	switch {
	case preview:
		k, dash = inkPreview, previewDash
	case selected:
		k = inkSelected
	}
	switch s.Kind {
	case geom.KindPoint:
		mx, my := micro(v.WorldToScreen(geom.Point{X: s.X, Y: s.Y}))
		p.buf.circle(mx, my, 1, k)
		p.buf.plot(mx, my, k)
	case geom.KindLine:
		p.segment(v.WorldToScreen(s.Start()), v.WorldToScreen(s.End()), k, dash)
	case geom.KindPolyline:
		for i := 1; i < len(s.Points); i++ {
			p.segment(v.WorldToScreen(s.Points[i-1]), v.WorldToScreen(s.Points[i]), k, dash)
		}
		if s.Closed && len(s.Points) > 2 {
			p.segment(v.WorldToScreen(s.Points[len(s.Points)-1]), v.WorldToScreen(s.Points[0]), k, dash)
		}
	case geom.KindText:
		// the anchor is the baseline, so the label sits in the cell row above it
		mx, my := micro(v.WorldToScreen(geom.Point{X: s.X, Y: s.Y}))
		p.buf.label(mx/2, (my-1)/4, s.Text, k)
	}
	if selected && (s.Kind == geom.KindLine || s.Kind == geom.KindPolyline) {
		for _, a := range s.Anchors() {
			mx, my := micro(v.WorldToScreen(a))
			p.buf.circle(mx, my, handleSize, inkSelected)
		}
	}
}

func (p *painter) ConstructionLine(a, b geom.Point) { p.segment(a, b, inkConstruction, 2) }

func (p *painter) SnapMarker(at geom.Point) {
	mx, my := micro(at)
	p.buf.circle(mx, my, markerSize, inkSnap)
}

// segment draws the visible part of a screen-space segment.
func (p *painter) segment(a, b geom.Point, k ink, dash int) {
	w, h := p.size()
	a, b, ok := clipSegment(a, b, w, h)
	if !ok {
		return
	}
	x0, y0 := micro(a)
	x1, y1 := micro(b)
	p.buf.line(x0, y0, x1, y1, k, dash)
}
