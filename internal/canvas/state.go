package canvas

import "cadterm/internal/geom"

// state is the interaction mode together with the data only that mode needs.
type state interface{ mode() string }

type idle struct{}

type awaitingSecondPoint struct {
	first geom.Point
	end   geom.Point
}

type buildingPolyline struct {
	points []geom.Point
	// provisional rubber-band vertex following the pointer
	cursor    geom.Point
	hasCursor bool
}

type draggingEndpoint struct {
	shapeID  int
	handle   geom.Handle
	vertex   int
	original geom.Shape
}

type draggingShape struct {
	shapeID  int
	original geom.Shape
	start    geom.Point // world, at press
	moved    bool
}

type panning struct {
	last geom.Point // screen
	// drawing state to return to when the pan ends
	resume state
}

func (idle) mode() string                { return "idle" }
func (awaitingSecondPoint) mode() string { return "line" }
func (buildingPolyline) mode() string    { return "polyline" }
func (draggingEndpoint) mode() string    { return "drag-endpoint" }
func (draggingShape) mode() string       { return "drag-shape" }
func (panning) mode() string             { return "pan" }
