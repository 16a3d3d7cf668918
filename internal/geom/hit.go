package geom

import (
	"math"

	jgeom "github.com/jbeda/geom"
	"gonum.org/v1/gonum/spatial/r2"
)

func vec(p Point) r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }
func pt(v r2.Vec) Point  { return Point{v.X, v.Y} }

// Distance is the Euclidean distance between a and b.
func Distance(a, b Point) float64 { return r2.Norm(r2.Sub(vec(a), vec(b))) }

// SegmentDistance is the distance from p to the closed segment [a, b].
// A zero-length segment degrades to a point distance.
func SegmentDistance(p, a, b Point) float64 {
	ab := r2.Sub(vec(b), vec(a))
	l2 := r2.Norm2(ab)
	if l2 == 0 {
		return Distance(p, a)
	}
	t := r2.Dot(r2.Sub(vec(p), vec(a)), ab) / l2
	t = math.Max(0, math.Min(1, t))
	proj := r2.Add(vec(a), r2.Scale(t, ab))
	return Distance(p, pt(proj))
}

// PointNearLine reports whether p lies within tol of the segment [a, b].
func PointNearLine(p, a, b Point, tol float64) bool {
	return SegmentDistance(p, a, b) <= tol
}

// PointNearPolyline tests every consecutive segment of pts (and the closing
// segment when closed). When detectVertex is set, vertex is the index of the
// first vertex within tol of p, or -1 if the hit is on a segment interior.
func PointNearPolyline(p Point, pts []Point, closed bool, tol float64, detectVertex bool) (hit bool, vertex int) {
	vertex = -1
	if detectVertex {
		if i := PolylineVertexAt(pts, p, tol); i >= 0 {
			return true, i
		}
	}
	switch len(pts) {
	case 0:
		return false, -1
	case 1:
		return Distance(p, pts[0]) <= tol, vertex
	}
	for i := 0; i+1 < len(pts); i++ {
		if PointNearLine(p, pts[i], pts[i+1], tol) {
			return true, vertex
		}
	}
	if closed && len(pts) > 2 && PointNearLine(p, pts[len(pts)-1], pts[0], tol) {
		return true, vertex
	}
	return false, vertex
}

// Handle names the part of a shape grabbed for an endpoint drag.
type Handle int

const (
	HandleNone Handle = iota
	HandleStart
	HandleEnd
	HandleVertex
)

func (h Handle) String() string {
	switch h {
	case HandleStart:
		return "start"
	case HandleEnd:
		return "end"
	case HandleVertex:
		return "vertex"
	}
	return "none"
}

// LineEndpointAt returns which endpoint of a line lies within tol of p.
// The end point is tested first so a freshly drawn end wins over its start
// when both coincide.
func LineEndpointAt(s Shape, p Point, tol float64) Handle {
	if s.Kind != KindLine {
		return HandleNone
	}
	if Distance(p, s.End()) <= tol {
		return HandleEnd
	}
	if Distance(p, s.Start()) <= tol {
		return HandleStart
	}
	return HandleNone
}

// PolylineVertexAt returns the index of the first vertex within tol of p, or -1.
func PolylineVertexAt(pts []Point, p Point, tol float64) int {
	for i, v := range pts {
		if Distance(p, v) <= tol {
			return i
		}
	}
	return -1
}

// TextBounds estimates the box covered by a text shape; the anchor sits on the
// baseline at the left edge.
func TextBounds(s Shape) jgeom.Rect {
	w := float64(len([]rune(s.Text))) * s.FontSize * 0.6
	top := s.Y - s.FontSize
	return jgeom.Rect{
		Min: jgeom.Coord{X: s.X, Y: top},
		Max: jgeom.Coord{X: s.X + w, Y: top + s.FontSize*1.2},
	}
}

func rectHas(r jgeom.Rect, p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// HitShape reports whether p selects s at world tolerance tol.
func HitShape(s Shape, p Point, tol float64) bool {
	switch s.Kind {
	case KindPoint:
		return Distance(p, Point{s.X, s.Y}) <= tol
	case KindLine:
		return PointNearLine(p, s.Start(), s.End(), tol)
	case KindPolyline:
		hit, _ := PointNearPolyline(p, s.Points, s.Closed, tol, false)
		return hit
	case KindText:
		return rectHas(TextBounds(s), p)
	}
	return false
}

// SelectionTolerance converts a base pixel tolerance into world units at the
// given scale, clamped to [min, max].
func SelectionTolerance(base, scale, min, max float64) float64 {
	return math.Max(min, math.Min(max, base/scale))
}

// Bounds returns the box enclosing every shape, or ok=false for no shapes.
func Bounds(shapes []Shape) (r jgeom.Rect, ok bool) {
	add := func(p Point) {
		c := jgeom.Coord{X: p.X, Y: p.Y}
		if !ok {
			r = jgeom.Rect{Min: c, Max: c}
			ok = true
			return
		}
		r.ExpandToContainCoord(c)
	}
	for _, s := range shapes {
		if s.Kind == KindText {
			tb := TextBounds(s)
			add(Point{tb.Min.X, tb.Min.Y})
			add(Point{tb.Max.X, tb.Max.Y})
			continue
		}
		for _, a := range s.Anchors() {
			add(a)
		}
	}
	return r, ok
}
