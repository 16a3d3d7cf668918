package geom

// View is the pan/zoom state of the drawing surface. Screen coordinates are
// world coordinates scaled first and then offset by Pan.
type View struct {
	Scale float64 `json:"scale"`
	Pan   Point   `json:"pan"`
}

func DefaultView() View { return View{Scale: 1} }

// ScreenToWorld maps a screen position to world coordinates.
func (v View) ScreenToWorld(p Point) Point {
	return Point{(p.X - v.Pan.X) / v.Scale, (p.Y - v.Pan.Y) / v.Scale}
}

// WorldToScreen is the exact inverse of ScreenToWorld.
func (v View) WorldToScreen(p Point) Point {
	return Point{p.X*v.Scale + v.Pan.X, p.Y*v.Scale + v.Pan.Y}
}

// Tolerance converts an on-screen distance into world units.
func (v View) Tolerance(pixels float64) float64 { return pixels / v.Scale }

// PanBy shifts the view by a screen-space delta.
func (v View) PanBy(d Point) View {
	v.Pan = v.Pan.Add(d)
	return v
}

// ZoomAt multiplies the scale by factor while keeping the world point under
// screen fixed. The view is returned unchanged with ok=false when the new
// scale would leave the open interval (min, max).
func (v View) ZoomAt(screen Point, factor, min, max float64) (View, bool) {
	next := v.Scale * factor
	if !(next > min && next < max) {
		return v, false
	}
	anchor := v.ScreenToWorld(screen)
	return View{
		Scale: next,
		Pan:   Point{screen.X - anchor.X*next, screen.Y - anchor.Y*next},
	}, true
}
