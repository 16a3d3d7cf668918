package render

import (
	"fmt"
	"testing"
	"time"

	"cadterm/internal/canvas"
	"cadterm/internal/geom"
	"cadterm/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type callLog struct{ calls []string }

func (c *callLog) Clear()                           { c.calls = append(c.calls, "clear") }
func (c *callLog) Grid(geom.View)                   { c.calls = append(c.calls, "grid") }
func (c *callLog) ConstructionLine(_, _ geom.Point) { c.calls = append(c.calls, "construction") }

func (c *callLog) SnapMarker(p geom.Point) {
	c.calls = append(c.calls, fmt.Sprintf("snap %.0f,%.0f", p.X, p.Y))
}

func (c *callLog) Shape(s geom.Shape, _ geom.View, selected, preview bool) {
	c.calls = append(c.calls, fmt.Sprintf("shape %d sel=%v preview=%v", s.ID, selected, preview))
}

func TestFrameOrder(t *testing.T) {
	st := store.New(nil, nil)
	s := canvas.New(st, nil, canvas.DefaultSettings(), nil)
	s.SetViewport(200, 100)
	st.Add(geom.NewLine(geom.Point{X: 0, Y: 0}, geom.Point{X: 10, Y: 0}))
	st.Add(geom.NewPoint(geom.Point{X: 50, Y: 50}))

	s.PointerDown(canvas.Pointer{Screen: geom.Point{X: 50, Y: 50}})
	s.PointerUp(canvas.Pointer{Screen: geom.Point{X: 50, Y: 50}})
	s.SetTool(canvas.ToolLine)
	s.PointerDown(canvas.Pointer{Screen: geom.Point{X: 0, Y: 40}})
	s.PointerMove(canvas.Pointer{Screen: geom.Point{X: 15, Y: 0.5}})

	var c callLog
	Frame(&c, s)
	assert.Equal(t, []string{
		"clear",
		"grid",
		"shape 1 sel=false preview=false",
		"shape 2 sel=true preview=false",
		"shape -1 sel=false preview=true",
		"construction",
		"snap 15,0",
	}, c.calls)
}

func TestFrameWithoutSnap(t *testing.T) {
	s := canvas.New(store.New(nil, nil), nil, canvas.DefaultSettings(), nil)
	var c callLog
	Frame(&c, s)
	assert.Equal(t, []string{"clear", "grid"}, c.calls)
}

func TestExtensionSegment(t *testing.T) {
	v := geom.View{Scale: 2, Pan: geom.Point{X: 10, Y: 0}}
	a, b, ok := ExtensionSegment(v, geom.Point{X: 0, Y: 0}, geom.Point{X: 5, Y: 0}, 100, 40)
	require.True(t, ok)
	assert.Equal(t, geom.Point{X: 10 - 200, Y: 0}, a)
	assert.Equal(t, geom.Point{X: 20 + 200, Y: 0}, b)

	_, _, ok = ExtensionSegment(v, geom.Point{X: 3, Y: 3}, geom.Point{X: 3, Y: 3}, 100, 40)
	assert.False(t, ok, "zero-length segment")
}

func TestLoopLifecycle(t *testing.T) {
	l := NewLoop(time.Millisecond)
	assert.False(t, l.Running())

	cmd := l.Start()
	require.NotNil(t, cmd)
	assert.Nil(t, l.Start(), "already running")

	msg, ok := cmd().(FrameMsg)
	require.True(t, ok)
	next, draw := l.Handle(msg)
	assert.True(t, draw)
	require.NotNil(t, next)

	assert.True(t, l.Stop())
	assert.False(t, l.Stop(), "stop acts once")
	stale, ok := next().(FrameMsg)
	require.True(t, ok)
	next, draw = l.Handle(stale)
	assert.False(t, draw)
	assert.Nil(t, next, "a stopped loop does not reschedule")

	// a restarted loop ignores ticks from the previous run
	fresh := l.Start()
	require.NotNil(t, fresh)
	_, draw = l.Handle(stale)
	assert.False(t, draw)
	msg = fresh().(FrameMsg)
	_, draw = l.Handle(msg)
	assert.True(t, draw)
}
