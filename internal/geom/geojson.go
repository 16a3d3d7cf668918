package geom

import (
	"encoding/json"
	"fmt"
	"io"
)

// DecodeGeoJSON reads Point, MultiPoint, LineString, MultiLineString, Polygon
// and MultiPolygon geometries, bare or wrapped in a Feature/FeatureCollection.
func DecodeGeoJSON(r io.Reader) ([]Shape, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("geojson: %w", err)
	}
	var out []Shape
	addPath := func(pts []Point, closed bool) {
		if sh, ok := pathShape(pts, closed); ok {
			out = append(out, sh)
		}
	}
	parsePoint := func(v any) (Point, bool) {
		if a, ok := v.([]any); ok && len(a) >= 2 {
			x, xok := a[0].(float64)
			y, yok := a[1].(float64)
			if xok && yok {
				return Point{x, y}, true
			}
		}
		return Point{}, false
	}
	parsePath := func(v any) []Point {
		arr, _ := v.([]any)
		var pts []Point
		for _, el := range arr {
			if p, ok := parsePoint(el); ok {
				pts = append(pts, p)
			}
		}
		return pts
	}
	addPolygon := func(v any) {
		rings, _ := v.([]any)
		for _, ring := range rings {
			addPath(parsePath(ring), true)
		}
	}
	var walkGeom func(g map[string]any)
	walkGeom = func(g map[string]any) {
		gt, _ := g["type"].(string)
		switch gt {
		case "Point":
			if p, ok := parsePoint(g["coordinates"]); ok {
				out = append(out, NewPoint(p))
			}
		case "MultiPoint":
			for _, p := range parsePath(g["coordinates"]) {
				out = append(out, NewPoint(p))
			}
		case "LineString":
			addPath(parsePath(g["coordinates"]), false)
		case "MultiLineString":
			parts, _ := g["coordinates"].([]any)
			for _, part := range parts {
				addPath(parsePath(part), false)
			}
		case "Polygon":
			addPolygon(g["coordinates"])
		case "MultiPolygon":
			polys, _ := g["coordinates"].([]any)
			for _, poly := range polys {
				addPolygon(poly)
			}
		case "GeometryCollection":
			geoms, _ := g["geometries"].([]any)
			for _, sub := range geoms {
				if m, ok := sub.(map[string]any); ok {
					walkGeom(m)
				}
			}
		}
	}
	t, _ := raw["type"].(string)
	switch t {
	case "":
		return nil, fmt.Errorf("geojson: missing type: %w", ErrUnsupported)
	case "Feature":
		if g, ok := raw["geometry"].(map[string]any); ok {
			walkGeom(g)
		}
	case "FeatureCollection":
		fs, _ := raw["features"].([]any)
		for _, f := range fs {
			if fm, ok := f.(map[string]any); ok {
				if g, ok := fm["geometry"].(map[string]any); ok {
					walkGeom(g)
				}
			}
		}
	default:
		walkGeom(raw)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("geojson: %w", ErrNoGeometry)
	}
	return out, nil
}
