package geom

import (
	"encoding/json"
	"fmt"
	"math"
)

// Point is a position in world coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

type Kind string

const (
	KindPoint    Kind = "point"
	KindLine     Kind = "line"
	KindPolyline Kind = "polyline"
	KindText     Kind = "text"
)

// PreviewID marks geometry that is still being constructed. Committed shapes
// always carry a positive id.
const PreviewID = -1

const (
	DefaultThickness = 1.0
	DefaultStyle     = "default"
	DefaultFontSize  = 16.0
)

// Shape is a tagged union discriminated by Kind. Only the fields belonging to
// the kind are meaningful; the rest stay zero.
type Shape struct {
	ID   int
	Kind Kind

	// point, text
	X, Y  float64
	Style string

	// line
	StartX, StartY, EndX, EndY float64

	// line, polyline
	Thickness float64

	// polyline
	Points []Point
	Closed bool

	// text
	Text     string
	FontSize float64
}

func NewPoint(p Point) Shape {
	return Shape{Kind: KindPoint, X: p.X, Y: p.Y, Style: DefaultStyle}
}

func NewLine(a, b Point) Shape {
	return Shape{Kind: KindLine, StartX: a.X, StartY: a.Y, EndX: b.X, EndY: b.Y, Thickness: DefaultThickness}
}

func NewPolyline(pts []Point, closed bool) Shape {
	cp := make([]Point, len(pts))
	copy(cp, pts)
	return Shape{Kind: KindPolyline, Points: cp, Thickness: DefaultThickness, Closed: closed}
}

func NewText(at Point, text string) Shape {
	return Shape{Kind: KindText, X: at.X, Y: at.Y, Text: text, FontSize: DefaultFontSize}
}

func (s Shape) Start() Point { return Point{s.StartX, s.StartY} }
func (s Shape) End() Point   { return Point{s.EndX, s.EndY} }

// Clone returns a deep copy; the polyline vertex slice is never shared.
func (s Shape) Clone() Shape {
	if s.Points != nil {
		pts := make([]Point, len(s.Points))
		copy(pts, s.Points)
		s.Points = pts
	}
	return s
}

// Equal reports structural equality, including the id.
func (s Shape) Equal(o Shape) bool {
	if s.ID != o.ID || s.Kind != o.Kind {
		return false
	}
	switch s.Kind {
	case KindPoint:
		return s.X == o.X && s.Y == o.Y && s.Style == o.Style
	case KindLine:
		return s.StartX == o.StartX && s.StartY == o.StartY &&
			s.EndX == o.EndX && s.EndY == o.EndY && s.Thickness == o.Thickness
	case KindPolyline:
		if s.Closed != o.Closed || s.Thickness != o.Thickness || len(s.Points) != len(o.Points) {
			return false
		}
		for i := range s.Points {
			if s.Points[i] != o.Points[i] {
				return false
			}
		}
		return true
	case KindText:
		return s.X == o.X && s.Y == o.Y && s.Text == o.Text && s.FontSize == o.FontSize
	}
	return false
}

// Translate moves every coordinate of the shape by d.
func (s Shape) Translate(d Point) Shape {
	s = s.Clone()
	switch s.Kind {
	case KindPoint, KindText:
		s.X += d.X
		s.Y += d.Y
	case KindLine:
		s.StartX += d.X
		s.StartY += d.Y
		s.EndX += d.X
		s.EndY += d.Y
	case KindPolyline:
		for i := range s.Points {
			s.Points[i] = s.Points[i].Add(d)
		}
	}
	return s
}

// Anchors lists the snap-able points of a shape in a stable order.
func (s Shape) Anchors() []Point {
	switch s.Kind {
	case KindPoint, KindText:
		return []Point{{s.X, s.Y}}
	case KindLine:
		return []Point{s.Start(), s.End()}
	case KindPolyline:
		out := make([]Point, len(s.Points))
		copy(out, s.Points)
		return out
	}
	return nil
}

// Valid reports whether the shape may be committed.
func (s Shape) Valid() bool {
	switch s.Kind {
	case KindPoint, KindText:
		return finite(s.X) && finite(s.Y)
	case KindLine:
		return finite(s.StartX) && finite(s.StartY) && finite(s.EndX) && finite(s.EndY)
	case KindPolyline:
		if len(s.Points) < 2 {
			return false
		}
		for _, p := range s.Points {
			if !finite(p.X) || !finite(p.Y) {
				return false
			}
		}
		return true
	}
	return false
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func (s Shape) String() string {
	switch s.Kind {
	case KindPoint:
		return fmt.Sprintf("point#%d (%.2f, %.2f)", s.ID, s.X, s.Y)
	case KindLine:
		return fmt.Sprintf("line#%d (%.2f, %.2f)-(%.2f, %.2f)", s.ID, s.StartX, s.StartY, s.EndX, s.EndY)
	case KindPolyline:
		return fmt.Sprintf("polyline#%d %d pts", s.ID, len(s.Points))
	case KindText:
		return fmt.Sprintf("text#%d %q", s.ID, s.Text)
	}
	return fmt.Sprintf("shape#%d", s.ID)
}

type pointJSON struct {
	ID    int     `json:"id"`
	Kind  Kind    `json:"type"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Style string  `json:"style"`
}

type lineJSON struct {
	ID        int     `json:"id"`
	Kind      Kind    `json:"type"`
	StartX    float64 `json:"startX"`
	StartY    float64 `json:"startY"`
	EndX      float64 `json:"endX"`
	EndY      float64 `json:"endY"`
	Thickness float64 `json:"thickness"`
}

type polylineJSON struct {
	ID        int     `json:"id"`
	Kind      Kind    `json:"type"`
	Points    []Point `json:"points"`
	Thickness float64 `json:"thickness"`
	Closed    bool    `json:"closed"`
}

type textJSON struct {
	ID       int     `json:"id"`
	Kind     Kind    `json:"type"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Text     string  `json:"text"`
	FontSize float64 `json:"fontSize"`
}

// MarshalJSON writes only the fields of the shape's kind.
func (s Shape) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case KindPoint:
		return json.Marshal(pointJSON{s.ID, s.Kind, s.X, s.Y, s.Style})
	case KindLine:
		return json.Marshal(lineJSON{s.ID, s.Kind, s.StartX, s.StartY, s.EndX, s.EndY, s.Thickness})
	case KindPolyline:
		return json.Marshal(polylineJSON{s.ID, s.Kind, s.Points, s.Thickness, s.Closed})
	case KindText:
		return json.Marshal(textJSON{s.ID, s.Kind, s.X, s.Y, s.Text, s.FontSize})
	}
	return nil, fmt.Errorf("shape %d: %w: %q", s.ID, ErrUnsupported, s.Kind)
}

func (s *Shape) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID        int     `json:"id"`
		Kind      Kind    `json:"type"`
		X         float64 `json:"x"`
		Y         float64 `json:"y"`
		Style     string  `json:"style"`
		StartX    float64 `json:"startX"`
		StartY    float64 `json:"startY"`
		EndX      float64 `json:"endX"`
		EndY      float64 `json:"endY"`
		Thickness float64 `json:"thickness"`
		Points    []Point `json:"points"`
		Closed    bool    `json:"closed"`
		Text      string  `json:"text"`
		FontSize  float64 `json:"fontSize"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := Shape{ID: raw.ID, Kind: raw.Kind}
	switch raw.Kind {
	case KindPoint:
		out.X, out.Y, out.Style = raw.X, raw.Y, raw.Style
	case KindLine:
		out.StartX, out.StartY, out.EndX, out.EndY = raw.StartX, raw.StartY, raw.EndX, raw.EndY
		out.Thickness = raw.Thickness
	case KindPolyline:
		out.Points, out.Thickness, out.Closed = raw.Points, raw.Thickness, raw.Closed
	case KindText:
		out.X, out.Y, out.Text, out.FontSize = raw.X, raw.Y, raw.Text, raw.FontSize
	default:
		return fmt.Errorf("shape %d: %w: %q", raw.ID, ErrUnsupported, raw.Kind)
	}
	*s = out
	return nil
}
