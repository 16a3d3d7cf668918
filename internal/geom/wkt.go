package geom

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseWKT turns a WKT string into uncommitted shapes (id 0).
// Supported: POINT, MULTIPOINT, LINESTRING, MULTILINESTRING, POLYGON.
// Polygon rings become closed polylines; a bare two-point LINESTRING becomes a line.
func ParseWKT(wkt string) ([]Shape, error) {
	s := strings.TrimSpace(wkt)
	if s == "" {
		return nil, fmt.Errorf("wkt: %w", ErrEmptyInput)
	}
	up := strings.ToUpper(s)
	body := func(kind, open, close string) (string, error) {
		i := strings.Index(s, open)
		j := strings.LastIndex(s, close)
		if i < 0 || j <= i {
			return "", fmt.Errorf("wkt %s: invalid", kind)
		}
		return s[i+len(open) : j], nil
	}
	var out []Shape
	switch {
	case strings.HasPrefix(up, "MULTIPOINT"):
		b, err := body("multipoint", "(", ")")
		if err != nil {
			return nil, err
		}
		// both "MULTIPOINT(1 2, 3 4)" and "MULTIPOINT((1 2), (3 4))" occur in the wild
		b = strings.NewReplacer("(", "", ")", "").Replace(b)
		for _, p := range parseTuples(b) {
			out = append(out, NewPoint(p))
		}
	case strings.HasPrefix(up, "POINT"):
		b, err := body("point", "(", ")")
		if err != nil {
			return nil, err
		}
		for _, p := range parseTuples(b) {
			out = append(out, NewPoint(p))
		}
	case strings.HasPrefix(up, "MULTILINESTRING"):
		b, err := body("multilinestring", "((", "))")
		if err != nil {
			return nil, err
		}
		for _, part := range splitRings(b) {
			if sh, ok := pathShape(parseTuples(part), false); ok {
				out = append(out, sh)
			}
		}
	case strings.HasPrefix(up, "LINESTRING"):
		b, err := body("linestring", "(", ")")
		if err != nil {
			return nil, err
		}
		if sh, ok := pathShape(parseTuples(b), false); ok {
			out = append(out, sh)
		}
	case strings.HasPrefix(up, "POLYGON"):
		b, err := body("polygon", "((", "))")
		if err != nil {
			return nil, err
		}
		for _, ring := range splitRings(b) {
			if sh, ok := pathShape(parseTuples(ring), true); ok {
				out = append(out, sh)
			}
		}
	default:
		return nil, fmt.Errorf("wkt: %w", ErrUnsupported)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("wkt: %w", ErrNoGeometry)
	}
	return out, nil
}

// parseTuples reads "x y, x y, ..." skipping malformed tuples.
func parseTuples(block string) []Point {
	var out []Point
	for _, tup := range strings.Split(block, ",") {
		parts := strings.Fields(strings.TrimSpace(tup))
		if len(parts) < 2 {
			continue
		}
		x, e1 := strconv.ParseFloat(parts[0], 64)
		y, e2 := strconv.ParseFloat(parts[1], 64)
		if e1 != nil || e2 != nil {
			continue
		}
		out = append(out, Point{x, y})
	}
	return out
}

func splitRings(s string) []string {
	norm := strings.ReplaceAll(s, "), (", "),(")
	norm = strings.ReplaceAll(norm, ") , (", "),(")
	return strings.Split(norm, "),(")
}

// pathShape picks the narrowest shape for a vertex path. Closed rings drop the
// repeated first vertex since the polyline closes itself.
func pathShape(pts []Point, closed bool) (Shape, bool) {
	if closed && len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	switch {
	case len(pts) < 2:
		return Shape{}, false
	case len(pts) == 2 && !closed:
		return NewLine(pts[0], pts[1]), true
	}
	return NewPolyline(pts, closed), true
}

// FormatWKT renders a committed shape as WKT; text shapes become their anchor POINT.
func FormatWKT(s Shape) string {
	coords := func(pts []Point) string {
		parts := make([]string, len(pts))
		for i, p := range pts {
			parts[i] = strconv.FormatFloat(p.X, 'g', -1, 64) + " " + strconv.FormatFloat(p.Y, 'g', -1, 64)
		}
		return strings.Join(parts, ", ")
	}
	switch s.Kind {
	case KindLine:
		return "LINESTRING(" + coords([]Point{s.Start(), s.End()}) + ")"
	case KindPolyline:
		if s.Closed && len(s.Points) > 2 {
			ring := append(append([]Point{}, s.Points...), s.Points[0])
			return "POLYGON((" + coords(ring) + "))"
		}
		return "LINESTRING(" + coords(s.Points) + ")"
	}
	return "POINT(" + coords([]Point{{s.X, s.Y}}) + ")"
}
