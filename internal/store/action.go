package store

import "cadterm/internal/geom"

// Action is one invertible entry of the undo history. The set of variants is
// closed; Undo rejects anything else.
type Action interface {
	Tag() string
	action()
}

// AddShape is undone by removing ShapeID.
type AddShape struct{ ShapeID int }

// UpdateShape is undone by overwriting the shape with Original.
type UpdateShape struct{ Original geom.Shape }

// DeleteShape is undone by re-inserting Deleted at Index.
type DeleteShape struct {
	Deleted geom.Shape
	Index   int
}

// ClearShapes is undone by replacing the collection with Old.
type ClearShapes struct{ Old []geom.Shape }

// BatchAddShapes is undone by removing every id in ShapeIDs.
type BatchAddShapes struct{ ShapeIDs []int }

func (AddShape) Tag() string       { return "add_shape" }
func (UpdateShape) Tag() string    { return "update_shape" }
func (DeleteShape) Tag() string    { return "delete_shape" }
func (ClearShapes) Tag() string    { return "clear_shapes" }
func (BatchAddShapes) Tag() string { return "batch_add_shapes" }

func (AddShape) action()       {}
func (UpdateShape) action()    {}
func (DeleteShape) action()    {}
func (ClearShapes) action()    {}
func (BatchAddShapes) action() {}
