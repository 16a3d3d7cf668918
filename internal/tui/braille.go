package tui

import "strings"

// ink classifies what last painted a cell; the highest class wins the cell's colour.
type ink uint8

const (
	inkNone ink = iota
	inkGrid
	inkConstruction
	inkShape
	inkPreview
	inkSelected
	inkSnap
)

type brailleBuf struct {
	w, h int       // in cells
	m    [][]uint8 // per-cell 8-bit mask
	ink  [][]ink
	text [][]rune // labels drawn over the dots
}

func newBrailleBuf(w, h int) *brailleBuf {
	w, h = max(w, 0), max(h, 0)
	b := &brailleBuf{w: w, h: h, m: make([][]uint8, h), ink: make([][]ink, h), text: make([][]rune, h)}
	for i := 0; i < h; i++ {
		b.m[i] = make([]uint8, w)
		b.ink[i] = make([]ink, w)
		b.text[i] = make([]rune, w)
	}
	return b
}

func (b *brailleBuf) clear() {
	for y := 0; y < b.h; y++ {
		clear(b.m[y])
		clear(b.ink[y])
		clear(b.text[y])
	}
}

// microW and microH are the buffer size in micro-pixels (2x4 per cell).
func (b *brailleBuf) microW() int { return b.w * 2 }
func (b *brailleBuf) microH() int { return b.h * 4 }

var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// plot sets a micro-pixel at micro coords (2x4 per cell)
func (b *brailleBuf) plot(mx, my int, k ink) {
	if mx < 0 || my < 0 {
		return
	}
	cx, cy := mx/2, my/4
	if cy >= b.h || cx >= b.w {
		return
	}
	b.m[cy][cx] |= dotBits[mx%2][my%4]
	if k > b.ink[cy][cx] {
		b.ink[cy][cx] = k
	}
}

// line draws on the microgrid using Bresenham. A positive dash leaves gaps of
// that many steps between runs of the same length.
func (b *brailleBuf) line(x0, y0, x1, y1 int, k ink, dash int) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for step := 0; ; step++ {
		if dash <= 0 || (step/dash)%2 == 0 {
			b.plot(x0, y0, k)
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// circle draws a midpoint circle outline.
func (b *brailleBuf) circle(cx, cy, r int, k ink) {
	if r <= 0 {
		b.plot(cx, cy, k)
		return
	}
	x, y, d := r, 0, 1-r
	for x >= y {
		for _, o := range [][2]int{{x, y}, {y, x}, {-y, x}, {-x, y}, {-x, -y}, {-y, -x}, {y, -x}, {x, -y}} {
			b.plot(cx+o[0], cy+o[1], k)
		}
		y++
		if d < 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}
}

// label writes s into whole cells starting at cell (cx, cy).
func (b *brailleBuf) label(cx, cy int, s string, k ink) {
	if cy < 0 || cy >= b.h {
		return
	}
	for i, r := range []rune(s) {
		x := cx + i
		if x < 0 {
			continue
		}
		if x >= b.w {
			break
		}
		b.text[cy][x] = r
		if k > b.ink[cy][x] {
			b.ink[cy][x] = k
		}
	}
}

func (b *brailleBuf) cell(x, y int) rune {
	if r := b.text[y][x]; r != 0 {
		return r
	}
	if mask := b.m[y][x]; mask != 0 {
		return rune(0x2800 + int(mask))
	}
	return ' '
}

// toLines renders each row, styling runs of cells that share an ink.
func (b *brailleBuf) toLines() []string {
	out := make([]string, b.h)
	for y := 0; y < b.h; y++ {
		var sb strings.Builder
		run := make([]rune, 0, b.w)
		cur := inkNone
		flush := func() {
			if len(run) > 0 {
				sb.WriteString(inkStyle(cur).Render(string(run)))
				run = run[:0]
			}
		}
		for x := 0; x < b.w; x++ {
			k := b.ink[y][x]
			if k != cur {
				flush()
				cur = k
			}
			run = append(run, b.cell(x, y))
		}
		flush()
		out[y] = sb.String()
	}
	return out
}
