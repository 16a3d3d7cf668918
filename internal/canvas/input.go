package canvas

import "cadterm/internal/geom"

type Tool int

const (
	ToolSelection Tool = iota
	ToolPoint
	ToolLine
	ToolPolyline
	ToolText
)

var toolNames = [...]string{"selection", "point", "line", "polyline", "text"}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return "unknown"
	}
	return toolNames[t]
}

// ParseTool maps a tool name back to its value.
func ParseTool(s string) (Tool, bool) {
	for i, n := range toolNames {
		if n == s {
			return Tool(i), true
		}
	}
	return ToolSelection, false
}

type Button int

const (
	ButtonPrimary Button = iota
	ButtonMiddle
	ButtonSecondary
)

// Pointer is a pointer event in screen coordinates.
type Pointer struct {
	Screen geom.Point
	Button Button
	// Shift forces the ortho constraint for this event.
	Shift bool
}

// Wheel is a scroll event; positive DeltaY zooms out.
type Wheel struct {
	Screen geom.Point
	DeltaY float64
}

type Key int

const (
	KeyUndo Key = iota
	KeyEscape
	KeyDelete
)
