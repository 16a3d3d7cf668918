package tui

import (
	"math"
	"strings"

	"cadterm/internal/geom"
)

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func padRight(s string, n int) string {
	if n <= 0 {
		return s
	}
	return s + strings.Repeat(" ", n)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// clipSegment clips a-b to the rectangle [0,w]x[0,h] (Liang-Barsky).
func clipSegment(a, b geom.Point, w, h float64) (geom.Point, geom.Point, bool) {
	t0, t1 := 0.0, 1.0
	dx, dy := b.X-a.X, b.Y-a.Y
	edges := [4][2]float64{{-dx, a.X}, {dx, w - a.X}, {-dy, a.Y}, {dy, h - a.Y}}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return a, b, false
			}
			t0 = math.Max(t0, r)
		} else {
			if r < t0 {
				return a, b, false
			}
			t1 = math.Min(t1, r)
		}
	}
	return geom.Point{X: a.X + t0*dx, Y: a.Y + t0*dy}, geom.Point{X: a.X + t1*dx, Y: a.Y + t1*dy}, true
}

// micro rounds a screen position to its micro-pixel.
func micro(p geom.Point) (int, int) {
	return int(math.Floor(p.X)), int(math.Floor(p.Y))
}
