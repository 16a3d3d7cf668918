package geom

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DecodeCSV reads one point shape per row. Column detection is
// case-insensitive: x|lon|lng|long|longitude and y|lat|latitude.
func DecodeCSV(r io.Reader) ([]Shape, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("csv: %w", ErrEmptyInput)
	}
	idxX, idxY := -1, -1
	for i, h := range recs[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "y", "lat", "latitude":
			if idxY == -1 {
				idxY = i
			}
		case "x", "lon", "lng", "long", "longitude":
			if idxX == -1 {
				idxX = i
			}
		}
	}
	if idxX == -1 || idxY == -1 {
		return nil, fmt.Errorf("csv: x/y columns not found")
	}
	var out []Shape
	for _, row := range recs[1:] {
		if idxX >= len(row) || idxY >= len(row) {
			continue
		}
		x, err1 := strconv.ParseFloat(strings.TrimSpace(row[idxX]), 64)
		y, err2 := strconv.ParseFloat(strings.TrimSpace(row[idxY]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, NewPoint(Point{x, y}))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("csv: %w", ErrNoGeometry)
	}
	return out, nil
}
