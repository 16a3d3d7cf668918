package tui

import (
	"cadterm/internal/canvas"
	"cadterm/internal/geom"
)

// hostEvents collects what the surface reports during one Update so the model
// can act on it afterwards. It is shared by every copy of the Model.
type hostEvents struct {
	cursor    geom.Point
	hasCursor bool
	scale     float64
	pan       geom.Point
	canvasW   int
	canvasH   int
	selection *geom.Shape

	toolChanged bool
	tool        canvas.Tool
	textAt      *geom.Point
}

var _ canvas.Observer = (*hostEvents)(nil)

func (e *hostEvents) PointerWorld(p geom.Point) { e.cursor, e.hasCursor = p, true }
func (e *hostEvents) PanChanged(p geom.Point)   { e.pan = p }
func (e *hostEvents) ZoomChanged(s float64)     { e.scale = s }
func (e *hostEvents) CanvasSizeChanged(w, h int) {
	e.canvasW, e.canvasH = w, h
}

func (e *hostEvents) SelectionChanged(s *geom.Shape) {
	if s == nil {
		e.selection = nil
		return
	}
	c := s.Clone()
	e.selection = &c
}

func (e *hostEvents) ToolChanged(t canvas.Tool) { e.tool, e.toolChanged = t, true }

func (e *hostEvents) TextRequested(p geom.Point) { e.textAt = &p }

// takeText returns a pending text request once.
func (e *hostEvents) takeText() (geom.Point, bool) {
	if e.textAt == nil {
		return geom.Point{}, false
	}
	p := *e.textAt
	e.textAt = nil
	return p, true
}

func (e *hostEvents) takeTool() (canvas.Tool, bool) {
	if !e.toolChanged {
		return 0, false
	}
	e.toolChanged = false
	return e.tool, true
}
