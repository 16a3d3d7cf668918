package canvas

import "cadterm/internal/geom"

// The methods below serve shape requests from outside the surface. They go
// through the store like interactive edits, so every change is undoable.

// AllShapes returns a snapshot of the committed shapes.
func (s *Surface) AllShapes() []geom.Shape { return s.store.Shapes() }

func (s *Surface) ExternalAdd(sh geom.Shape) (geom.Shape, bool) {
	if !sh.Valid() {
		return geom.Shape{}, false
	}
	return s.commit(sh), true
}

// ExternalBatch commits all valid shapes as a single undo step and returns
// them with their ids. Invalid shapes are skipped.
func (s *Surface) ExternalBatch(list []geom.Shape) []geom.Shape {
	valid := make([]geom.Shape, 0, len(list))
	for _, sh := range list {
		if sh.Valid() {
			valid = append(valid, sh)
		}
	}
	out := s.store.AddBatch(valid)
	if len(out) > 0 {
		s.log.Debug("external batch", "n", len(out))
	}
	return out
}

func (s *Surface) ExternalUpdate(sh geom.Shape) bool {
	if !sh.Valid() || s.dragging(sh.ID) {
		return false
	}
	if !s.store.Update(sh) {
		return false
	}
	if sh.ID == s.selected {
		s.notifySelection()
	}
	return true
}

func (s *Surface) ExternalDelete(id int) bool {
	if s.dragging(id) {
		return false
	}
	if _, ok := s.store.Delete(id); !ok {
		return false
	}
	if id == s.selected {
		s.setSelected(0)
	}
	return true
}

// dragging reports whether id is being edited by the pointer right now.
func (s *Surface) dragging(id int) bool {
	switch st := s.st.(type) {
	case draggingEndpoint:
		return st.shapeID == id
	case draggingShape:
		return st.shapeID == id
	}
	return false
}
