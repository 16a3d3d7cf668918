package geom

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type kmlCoords struct {
	Coordinates string `xml:"coordinates"`
}

type kmlPolygon struct {
	Outer kmlCoords `xml:"outerBoundaryIs>LinearRing"`
}

type kmlPlacemark struct {
	Point      *kmlCoords  `xml:"Point"`
	LineString *kmlCoords  `xml:"LineString"`
	Polygon    *kmlPolygon `xml:"Polygon"`
}

type kmlDoc struct {
	Placemarks []kmlPlacemark `xml:"Document>Placemark"`
	Loose      []kmlPlacemark `xml:"Placemark"`
}

// DecodeKML reads Placemark points, line strings and polygon outer rings.
// KML tuples are "x,y[,z]"; z is ignored.
func DecodeKML(r io.Reader) ([]Shape, error) {
	var doc kmlDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("kml: %w", err)
	}
	var out []Shape
	for _, pm := range append(doc.Placemarks, doc.Loose...) {
		switch {
		case pm.Point != nil:
			for _, p := range kmlTuples(pm.Point.Coordinates) {
				out = append(out, NewPoint(p))
			}
		case pm.LineString != nil:
			if sh, ok := pathShape(kmlTuples(pm.LineString.Coordinates), false); ok {
				out = append(out, sh)
			}
		case pm.Polygon != nil:
			if sh, ok := pathShape(kmlTuples(pm.Polygon.Outer.Coordinates), true); ok {
				out = append(out, sh)
			}
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("kml: %w", ErrNoGeometry)
	}
	return out, nil
}

func kmlTuples(s string) []Point {
	var out []Point
	for _, tuple := range strings.Fields(s) {
		vals := strings.Split(tuple, ",")
		if len(vals) < 2 {
			continue
		}
		x, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
		y, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, Point{x, y})
	}
	return out
}
