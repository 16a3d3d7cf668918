package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// SnapCandidate is a point the pointer may attach to. Extension candidates lie
// on the infinite prolongation of a line beyond its segment and carry that
// segment so it can be drawn as a construction line.
type SnapCandidate struct {
	Point
	Distance  float64
	ShapeID   int
	Extension bool
	LineStart Point
	LineEnd   Point
}

// FindNearestSnapPoint returns the closest candidate to p within tol. Shapes
// with id exclude are skipped. Candidates are visited in shape order, anchors
// of a shape before its extension, and a later candidate only replaces the
// current best when it is strictly closer, so the first of equidistant
// candidates wins.
func FindNearestSnapPoint(p Point, shapes []Shape, tol float64, exclude int) (SnapCandidate, bool) {
	var best SnapCandidate
	found := false
	consider := func(c SnapCandidate) {
		if c.Distance > tol {
			return
		}
		if !found || c.Distance < best.Distance {
			best, found = c, true
		}
	}
	for _, s := range shapes {
		if exclude != 0 && s.ID == exclude {
			continue
		}
		for _, a := range s.Anchors() {
			consider(SnapCandidate{Point: a, Distance: Distance(p, a), ShapeID: s.ID})
		}
		if s.Kind == KindLine {
			if c, ok := extensionCandidate(p, s.Start(), s.End()); ok {
				c.ShapeID = s.ID
				consider(c)
			}
		}
	}
	return best, found
}

// extensionCandidate projects p onto the infinite line through a and b and
// keeps the projection only when it falls outside the segment. Zero-length
// lines have no direction and produce nothing.
func extensionCandidate(p, a, b Point) (SnapCandidate, bool) {
	ab := r2.Sub(vec(b), vec(a))
	l2 := r2.Norm2(ab)
	if l2 == 0 {
		return SnapCandidate{}, false
	}
	t := r2.Dot(r2.Sub(vec(p), vec(a)), ab) / l2
	if t >= 0 && t <= 1 {
		return SnapCandidate{}, false
	}
	proj := pt(r2.Add(vec(a), r2.Scale(t, ab)))
	return SnapCandidate{
		Point:     proj,
		Distance:  Distance(p, proj),
		Extension: true,
		LineStart: a,
		LineEnd:   b,
	}, true
}

// Ortho locks candidate to the horizontal or vertical through anchor,
// whichever axis carries the larger displacement.
func Ortho(anchor, candidate Point) Point {
	dx := candidate.X - anchor.X
	dy := candidate.Y - anchor.Y
	if math.Abs(dx) > math.Abs(dy) {
		return Point{candidate.X, anchor.Y}
	}
	return Point{anchor.X, candidate.Y}
}
