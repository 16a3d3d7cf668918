package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"cadterm/internal/geom"
)

func TestBrailleDots(t *testing.T) {
	b := newBrailleBuf(2, 1)
	b.plot(0, 0, inkShape)
	b.plot(1, 3, inkShape)
	b.plot(-1, 0, inkShape)
	b.plot(4, 0, inkShape)
	assert.Equal(t, uint8(0x01|0x80), b.m[0][0])
	assert.Equal(t, uint8(0), b.m[0][1])
	assert.Equal(t, inkShape, b.ink[0][0])

	b.plot(0, 1, inkGrid)
	assert.Equal(t, inkShape, b.ink[0][0], "a lower ink never repaints a cell")

	b.clear()
	assert.Equal(t, "  ", b.toLines()[0])
}

func TestDashedLineLeavesGaps(t *testing.T) {
	solid := newBrailleBuf(8, 1)
	solid.line(0, 0, 15, 0, inkShape, 0)
	dashed := newBrailleBuf(8, 1)
	dashed.line(0, 0, 15, 0, inkPreview, 2)

	count := func(b *brailleBuf) (n int) {
		for _, m := range b.m[0] {
			for ; m != 0; m &= m - 1 {
				n++
			}
		}
		return n
	}
	assert.Equal(t, 16, count(solid))
	assert.Equal(t, 8, count(dashed))
}

func TestLabelOverridesDots(t *testing.T) {
	b := newBrailleBuf(6, 2)
	b.line(0, 0, 11, 0, inkShape, 0)
	b.label(1, 0, "hi", inkShape)
	b.label(5, 0, "long", inkShape)
	row := []rune(b.toLines()[0])
	assert.Equal(t, 'h', row[1])
	assert.Equal(t, 'i', row[2])
	assert.Equal(t, 'l', row[5])
	assert.Len(t, row, 6)
}

func TestClipSegment(t *testing.T) {
	a, b, ok := clipSegment(geom.Point{X: -10, Y: 5}, geom.Point{X: 30, Y: 5}, 20, 10)
	assert.True(t, ok)
	assert.Equal(t, geom.Point{X: 0, Y: 5}, a)
	assert.Equal(t, geom.Point{X: 20, Y: 5}, b)

	_, _, ok = clipSegment(geom.Point{X: -10, Y: -5}, geom.Point{X: 30, Y: -5}, 20, 10)
	assert.False(t, ok)

	a, b, ok = clipSegment(geom.Point{X: 1, Y: 1}, geom.Point{X: 2, Y: 2}, 20, 10)
	assert.True(t, ok)
	assert.Equal(t, geom.Point{X: 1, Y: 1}, a)
	assert.Equal(t, geom.Point{X: 2, Y: 2}, b)
}

func TestPainterMarksSelectionAndSnap(t *testing.T) {
	p := newPainter(20, 5)
	v := geom.DefaultView()
	line := geom.NewLine(geom.Point{X: 4, Y: 8}, geom.Point{X: 30, Y: 8})
	line.ID = 1
	p.Shape(line, v, true, false)
	assert.Equal(t, inkSelected, p.buf.ink[2][2], "start handle")
	assert.Equal(t, inkSelected, p.buf.ink[2][8])

	p.SnapMarker(geom.Point{X: 30, Y: 8})
	assert.Equal(t, inkSnap, p.buf.ink[2][15])

	p.Clear()
	p.ConstructionLine(geom.Point{X: -100, Y: 2}, geom.Point{X: 100, Y: 2})
	assert.Equal(t, inkConstruction, p.buf.ink[0][0])
}

func TestPainterGridSkipsDenseGrids(t *testing.T) {
	p := newPainter(10, 4)
	p.Grid(geom.View{Scale: 1})
	lines := strings.Join(p.buf.toLines(), "")
	assert.NotEqual(t, strings.Repeat(" ", 40), lines)

	p.Clear()
	p.Grid(geom.View{Scale: 0})
	assert.Equal(t, strings.Repeat(" ", 40), strings.Join(p.buf.toLines(), ""))
}

func TestPainterText(t *testing.T) {
	p := newPainter(10, 3)
	txt := geom.NewText(geom.Point{X: 4, Y: 8}, "ab")
	p.Shape(txt, geom.DefaultView(), false, false)
	row := []rune(p.buf.toLines()[1])
	assert.Equal(t, 'a', row[2])
	assert.Equal(t, 'b', row[3])
}
