// Package store owns the committed shape collection and its undo history.
// It is not safe for concurrent use; callers confine it to one goroutine.
package store

import (
	"io"

	"cadterm/internal/geom"

	"github.com/charmbracelet/log"
)

// UndoCallbacks let the caller react to what an undo changed, e.g. to drop a
// selection whose shape no longer exists. Nil callbacks are skipped.
type UndoCallbacks struct {
	Restored     func(geom.Shape)
	Removed      func(id int)
	RestoredMany func([]geom.Shape)
	RemovedMany  func(ids []int)
}

type Store struct {
	shapes  []geom.Shape
	history []Action
	nextID  int
	log     *log.Logger
}

// New seeds the store with initial shapes. Ids continue after the largest
// initial id so reloaded drawings never reuse one.
func New(logger *log.Logger, initial []geom.Shape) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Store{nextID: 1, log: logger}
	for _, sh := range initial {
		s.shapes = append(s.shapes, sh.Clone())
		if sh.ID >= s.nextID {
			s.nextID = sh.ID + 1
		}
	}
	return s
}

func (s *Store) Len() int        { return len(s.shapes) }
func (s *Store) HistoryLen() int { return len(s.history) }
func (s *Store) NextID() int     { return s.nextID }

// Shapes returns a deep copy of the collection in draw order.
func (s *Store) Shapes() []geom.Shape {
	out := make([]geom.Shape, len(s.shapes))
	for i, sh := range s.shapes {
		out[i] = sh.Clone()
	}
	return out
}

// View calls fn for every shape without copying. fn must not retain the
// polyline vertex slices or mutate the store.
func (s *Store) View(fn func(geom.Shape)) {
	for _, sh := range s.shapes {
		fn(sh)
	}
}

func (s *Store) Get(id int) (geom.Shape, bool) {
	if i := s.index(id); i >= 0 {
		return s.shapes[i].Clone(), true
	}
	return geom.Shape{}, false
}

func (s *Store) index(id int) int {
	for i := range s.shapes {
		if s.shapes[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) assign(sh geom.Shape) geom.Shape {
	sh = sh.Clone()
	sh.ID = s.nextID
	s.nextID++
	s.shapes = append(s.shapes, sh)
	return sh
}

// Add commits sh under a fresh id, ignoring any id it carries.
func (s *Store) Add(sh geom.Shape) geom.Shape {
	out := s.assign(sh)
	s.history = append(s.history, AddShape{ShapeID: out.ID})
	s.log.Debug("add", "id", out.ID, "kind", out.Kind)
	return out.Clone()
}

// AddBatch commits all shapes under one history entry so a single undo
// removes the whole batch. An empty batch records nothing.
func (s *Store) AddBatch(list []geom.Shape) []geom.Shape {
	if len(list) == 0 {
		return nil
	}
	out := make([]geom.Shape, 0, len(list))
	ids := make([]int, 0, len(list))
	for _, sh := range list {
		added := s.assign(sh)
		out = append(out, added.Clone())
		ids = append(ids, added.ID)
	}
	s.history = append(s.history, BatchAddShapes{ShapeIDs: ids})
	s.log.Debug("batch add", "n", len(ids), "first", ids[0])
	return out
}

// Update replaces the shape with the same id. A history entry is recorded
// only when the content actually changes. Returns false if the id is unknown.
func (s *Store) Update(sh geom.Shape) bool {
	i := s.index(sh.ID)
	if i < 0 {
		return false
	}
	prev := s.shapes[i]
	if !prev.Equal(sh) {
		s.history = append(s.history, UpdateShape{Original: prev.Clone()})
		s.log.Debug("update", "id", sh.ID)
	}
	s.shapes[i] = sh.Clone()
	return true
}

// CommitFrom records original as the pre-edit snapshot of a shape that was
// mutated live (see SetLive) and leaves the current value in place. It is a
// no-op when nothing changed.
func (s *Store) CommitFrom(original geom.Shape) bool {
	i := s.index(original.ID)
	if i < 0 {
		return false
	}
	cur := s.shapes[i]
	s.shapes[i] = original.Clone()
	return s.Update(cur)
}

// SetLive overwrites a shape without touching history. It backs in-progress
// drags and their rollback.
func (s *Store) SetLive(sh geom.Shape) bool {
	i := s.index(sh.ID)
	if i < 0 {
		return false
	}
	s.shapes[i] = sh.Clone()
	return true
}

// Delete removes the shape and returns it; ok is false for an unknown id.
func (s *Store) Delete(id int) (geom.Shape, bool) {
	i := s.index(id)
	if i < 0 {
		return geom.Shape{}, false
	}
	removed := s.shapes[i]
	s.history = append(s.history, DeleteShape{Deleted: removed.Clone(), Index: i})
	s.shapes = append(s.shapes[:i], s.shapes[i+1:]...)
	s.log.Debug("delete", "id", id)
	return removed, true
}

// Clear empties the collection and returns what was removed.
func (s *Store) Clear() []geom.Shape {
	if len(s.shapes) == 0 {
		return nil
	}
	old := s.shapes
	s.shapes = nil
	s.history = append(s.history, ClearShapes{Old: old})
	s.log.Debug("clear", "n", len(old))
	return cloneAll(old)
}

// Undo pops the latest history entry and applies its inverse. It returns false
// when the history is empty or the entry is of an unknown kind; the entry is
// consumed either way.
func (s *Store) Undo(cb UndoCallbacks) bool {
	if len(s.history) == 0 {
		s.log.Debug("undo: empty history")
		return false
	}
	last := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]

	switch a := last.(type) {
	case AddShape:
		if i := s.index(a.ShapeID); i >= 0 {
			s.shapes = append(s.shapes[:i], s.shapes[i+1:]...)
			if cb.Removed != nil {
				cb.Removed(a.ShapeID)
			}
		}
	case UpdateShape:
		if i := s.index(a.Original.ID); i >= 0 {
			s.shapes[i] = a.Original.Clone()
		} else {
			s.shapes = append(s.shapes, a.Original.Clone())
		}
		if cb.Restored != nil {
			cb.Restored(a.Original.Clone())
		}
	case DeleteShape:
		at := a.Index
		if at < 0 || at > len(s.shapes) {
			at = len(s.shapes)
		}
		s.shapes = append(s.shapes, geom.Shape{})
		copy(s.shapes[at+1:], s.shapes[at:])
		s.shapes[at] = a.Deleted.Clone()
		if cb.Restored != nil {
			cb.Restored(a.Deleted.Clone())
		}
	case ClearShapes:
		s.shapes = cloneAll(a.Old)
		if cb.RestoredMany != nil {
			cb.RestoredMany(cloneAll(a.Old))
		}
	case BatchAddShapes:
		want := make(map[int]bool, len(a.ShapeIDs))
		for _, id := range a.ShapeIDs {
			want[id] = true
		}
		var removed []int
		for i := len(s.shapes) - 1; i >= 0; i-- {
			if want[s.shapes[i].ID] {
				removed = append(removed, s.shapes[i].ID)
				s.shapes = append(s.shapes[:i], s.shapes[i+1:]...)
			}
		}
		if cb.RemovedMany != nil && len(removed) > 0 {
			cb.RemovedMany(removed)
		}
	default:
		s.log.Warn("undo: unknown action", "tag", last.Tag())
		return false
	}
	s.log.Debug("undo", "action", last.Tag(), "history", len(s.history))
	return true
}

func cloneAll(in []geom.Shape) []geom.Shape {
	out := make([]geom.Shape, len(in))
	for i, sh := range in {
		out[i] = sh.Clone()
	}
	return out
}
