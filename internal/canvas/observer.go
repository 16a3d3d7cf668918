package canvas

import "cadterm/internal/geom"

// Observer receives the surface's outputs. Calls happen synchronously on the
// goroutine that delivered the input event.
type Observer interface {
	PointerWorld(p geom.Point)
	PanChanged(pan geom.Point)
	ZoomChanged(scale float64)
	CanvasSizeChanged(w, h int)
	// SelectionChanged receives nil when the selection is cleared.
	SelectionChanged(s *geom.Shape)
	// ToolChanged fires when the surface itself switches tools, e.g. on Escape.
	ToolChanged(t Tool)
	// TextRequested asks the host for a label to place at p; the answer comes
	// back through Surface.PlaceText.
	TextRequested(p geom.Point)
}

// NopObserver ignores every output. Embed it to implement only some methods.
type NopObserver struct{}

func (NopObserver) PointerWorld(geom.Point)      {}
func (NopObserver) PanChanged(geom.Point)        {}
func (NopObserver) ZoomChanged(float64)          {}
func (NopObserver) CanvasSizeChanged(int, int)   {}
func (NopObserver) SelectionChanged(*geom.Shape) {}
func (NopObserver) ToolChanged(Tool)             {}
func (NopObserver) TextRequested(geom.Point)     {}
