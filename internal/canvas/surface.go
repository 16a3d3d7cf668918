// Package canvas implements the interactive drawing and editing state machine.
// A Surface turns pointer and keyboard events into previews, selections,
// drags and commits against a store.Store.
package canvas

import (
	"io"
	"math"
	"strings"

	"cadterm/internal/geom"
	"cadterm/internal/store"

	"github.com/charmbracelet/log"
)

// Settings are the interaction tolerances and zoom limits. Pixel values are
// in screen units and converted to world units with the current scale.
type Settings struct {
	SelectTolerance float64
	MinTolerance    float64
	MaxTolerance    float64
	EndpointFactor  float64
	SnapTolerance   float64
	ZoomIn          float64
	ZoomOut         float64
	MinScale        float64
	MaxScale        float64
}

func DefaultSettings() Settings {
	return Settings{
		SelectTolerance: 20,
		MinTolerance:    5,
		MaxTolerance:    25,
		EndpointFactor:  1.5,
		SnapTolerance:   10,
		ZoomIn:          1.1,
		ZoomOut:         0.9,
		MinScale:        1e-6,
		MaxScale:        100,
	}
}

type Surface struct {
	store *store.Store
	obs   Observer
	cfg   Settings
	log   *log.Logger

	tool          Tool
	snap, ortho   bool
	view          geom.View
	width, height int

	selected  int
	st        state
	cursor    geom.Point
	hasCursor bool
}

func New(st *store.Store, obs Observer, cfg Settings, logger *log.Logger) *Surface {
	if obs == nil {
		obs = NopObserver{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Surface{
		store: st,
		obs:   obs,
		cfg:   cfg,
		log:   logger,
		snap:  true,
		view:  geom.DefaultView(),
		st:    idle{},
	}
}

func (s *Surface) Store() *store.Store { return s.store }
func (s *Surface) Tool() Tool          { return s.tool }
func (s *Surface) Snap() bool          { return s.snap }
func (s *Surface) Ortho() bool         { return s.ortho }
func (s *Surface) View() geom.View     { return s.view }
func (s *Surface) Mode() string        { return s.st.mode() }

func (s *Surface) Viewport() (w, h int) { return s.width, s.height }

// SetTool switches the active tool. Unfinished line or polyline input is
// dropped; the host already knows the tool, so no ToolChanged is emitted.
func (s *Surface) SetTool(t Tool) {
	if t == s.tool {
		return
	}
	switch s.st.(type) {
	case awaitingSecondPoint, buildingPolyline:
		s.st = idle{}
	}
	s.tool = t
}

func (s *Surface) SetSnap(on bool)  { s.snap = on }
func (s *Surface) SetOrtho(on bool) { s.ortho = on }
func (s *Surface) SetView(v geom.View) {
	if v.Scale > 0 {
		s.view = v
	}
}

func (s *Surface) SetViewport(w, h int) {
	if w == s.width && h == s.height {
		return
	}
	s.width, s.height = w, h
	s.obs.CanvasSizeChanged(w, h)
}

// Cursor is the last known pointer position in world coordinates.
func (s *Surface) Cursor() (geom.Point, bool) { return s.cursor, s.hasCursor }

func (s *Surface) SelectedID() int { return s.selected }

func (s *Surface) Selected() (geom.Shape, bool) {
	if s.selected == 0 {
		return geom.Shape{}, false
	}
	return s.store.Get(s.selected)
}

func (s *Surface) Shapes() []geom.Shape { return s.store.Shapes() }

// Preview returns the uncommitted geometry under construction, if any.
func (s *Surface) Preview() (geom.Shape, bool) {
	switch st := s.st.(type) {
	case awaitingSecondPoint:
		l := geom.NewLine(st.first, st.end)
		l.ID = geom.PreviewID
		return l, true
	case buildingPolyline:
		pts := st.points
		if st.hasCursor {
			pts = append(append([]geom.Point{}, pts...), st.cursor)
		}
		p := geom.NewPolyline(pts, false)
		p.ID = geom.PreviewID
		return p, true
	}
	return geom.Shape{}, false
}

// SnapIndicator is the snap target the next commit would use at the current
// pointer position. It is only reported while drawing or dragging an endpoint.
func (s *Surface) SnapIndicator() (geom.SnapCandidate, bool) {
	if !s.snap || !s.hasCursor {
		return geom.SnapCandidate{}, false
	}
	switch st := s.st.(type) {
	case draggingEndpoint:
		return s.findSnap(s.cursor, nil, st.shapeID)
	case buildingPolyline:
		return s.findSnap(s.cursor, []geom.Shape{bufferShape(st.points)}, 0)
	}
	if s.tool == ToolSelection {
		return geom.SnapCandidate{}, false
	}
	return s.findSnap(s.cursor, nil, 0)
}

func (s *Surface) selectTolerance() float64 {
	return geom.SelectionTolerance(s.cfg.SelectTolerance, s.view.Scale, s.cfg.MinTolerance, s.cfg.MaxTolerance)
}

func (s *Surface) findSnap(p geom.Point, extra []geom.Shape, exclude int) (geom.SnapCandidate, bool) {
	if !s.snap {
		return geom.SnapCandidate{}, false
	}
	shapes := append(s.store.Shapes(), extra...)
	return geom.FindNearestSnapPoint(p, shapes, s.view.Tolerance(s.cfg.SnapTolerance), exclude)
}

// resolve picks the position a click at w commits to: a snap target when one
// is in range, otherwise w locked to anchor when ortho applies.
func (s *Surface) resolve(anchor *geom.Point, w geom.Point, ortho bool, extra []geom.Shape) geom.Point {
	if c, ok := s.findSnap(w, extra, 0); ok {
		return c.Point
	}
	if ortho && anchor != nil {
		return geom.Ortho(*anchor, w)
	}
	return w
}

func (s *Surface) orthoFor(p Pointer) bool { return s.ortho || p.Shift }

// bufferShape exposes the vertices of an unfinished polyline to snapping.
func bufferShape(pts []geom.Point) geom.Shape {
	sh := geom.NewPolyline(pts, false)
	sh.ID = geom.PreviewID
	return sh
}

func (s *Surface) track(screen geom.Point) geom.Point {
	w := s.view.ScreenToWorld(screen)
	s.cursor, s.hasCursor = w, true
	return w
}

func (s *Surface) PointerDown(p Pointer) {
	w := s.track(p.Screen)
	switch p.Button {
	case ButtonMiddle:
		s.st = panning{last: p.Screen, resume: s.st}
		return
	case ButtonSecondary:
		return
	}

	switch s.tool {
	case ToolSelection:
		s.pressSelection(p, w)
	case ToolPoint:
		s.commit(geom.NewPoint(s.resolve(nil, w, false, nil)))
	case ToolLine:
		if st, ok := s.st.(awaitingSecondPoint); ok {
			end := s.resolve(&st.first, w, s.orthoFor(p), nil)
			s.st = idle{}
			s.commit(geom.NewLine(st.first, end))
			return
		}
		first := s.resolve(nil, w, false, nil)
		s.st = awaitingSecondPoint{first: first, end: first}
	case ToolPolyline:
		st, ok := s.st.(buildingPolyline)
		if !ok || len(st.points) == 0 {
			s.st = buildingPolyline{points: []geom.Point{s.resolve(nil, w, false, nil)}}
			return
		}
		last := st.points[len(st.points)-1]
		next := s.resolve(&last, w, s.orthoFor(p), []geom.Shape{bufferShape(st.points)})
		// a repeated click on the same spot would only add a zero-length segment
		if next != last {
			st.points = append(st.points, next)
		}
		st.hasCursor = false
		s.st = st
	case ToolText:
		s.obs.TextRequested(s.resolve(nil, w, false, nil))
	}
}

func (s *Surface) pressSelection(p Pointer, w geom.Point) {
	tol := s.selectTolerance()
	if sel, ok := s.Selected(); ok {
		etol := tol * s.cfg.EndpointFactor
		switch sel.Kind {
		case geom.KindLine:
			if h := geom.LineEndpointAt(sel, w, etol); h != geom.HandleNone {
				s.st = draggingEndpoint{shapeID: sel.ID, handle: h, vertex: -1, original: sel}
				return
			}
		case geom.KindPolyline:
			if i := geom.PolylineVertexAt(sel.Points, w, etol); i >= 0 {
				s.st = draggingEndpoint{shapeID: sel.ID, handle: geom.HandleVertex, vertex: i, original: sel}
				return
			}
		}
	}
	hit, ok := s.hitTest(w, tol)
	if !ok {
		s.setSelected(0)
		s.st = panning{last: p.Screen, resume: idle{}}
		return
	}
	s.setSelected(hit.ID)
	s.st = draggingShape{shapeID: hit.ID, original: hit, start: w}
}

// hitTest returns the topmost shape under w.
func (s *Surface) hitTest(w geom.Point, tol float64) (geom.Shape, bool) {
	shapes := s.store.Shapes()
	for i := len(shapes) - 1; i >= 0; i-- {
		if geom.HitShape(shapes[i], w, tol) {
			return shapes[i], true
		}
	}
	return geom.Shape{}, false
}

func (s *Surface) PointerMove(p Pointer) {
	w := s.track(p.Screen)
	s.obs.PointerWorld(w)

	switch st := s.st.(type) {
	case awaitingSecondPoint:
		st.end = s.resolve(&st.first, w, s.orthoFor(p), nil)
		s.st = st
	case buildingPolyline:
		last := st.points[len(st.points)-1]
		st.cursor = s.resolve(&last, w, s.orthoFor(p), []geom.Shape{bufferShape(st.points)})
		st.hasCursor = true
		s.st = st
	case draggingEndpoint:
		s.dragEndpoint(st, w, s.orthoFor(p))
	case draggingShape:
		moved := st.original.Translate(w.Sub(st.start))
		if s.store.SetLive(moved) {
			st.moved = true
			s.st = st
			s.obs.SelectionChanged(&moved)
		}
	case panning:
		s.view = s.view.PanBy(p.Screen.Sub(st.last))
		st.last = p.Screen
		s.st = st
		s.obs.PanChanged(s.view.Pan)
	}
}

func (s *Surface) dragEndpoint(st draggingEndpoint, w geom.Point, ortho bool) {
	sh, ok := s.store.Get(st.shapeID)
	if !ok {
		s.st = idle{}
		return
	}
	var anchor *geom.Point
	switch {
	case st.handle == geom.HandleStart:
		e := sh.End()
		anchor = &e
	case st.handle == geom.HandleEnd:
		b := sh.Start()
		anchor = &b
	case st.vertex > 0:
		anchor = &sh.Points[st.vertex-1]
	case len(sh.Points) > 1:
		anchor = &sh.Points[1]
	}
	pos := w
	if c, ok := s.findSnap(w, nil, st.shapeID); ok {
		pos = c.Point
	} else if ortho && anchor != nil {
		pos = geom.Ortho(*anchor, w)
	}
	switch st.handle {
	case geom.HandleStart:
		sh.StartX, sh.StartY = pos.X, pos.Y
	case geom.HandleEnd:
		sh.EndX, sh.EndY = pos.X, pos.Y
	case geom.HandleVertex:
		if st.vertex < len(sh.Points) {
			sh.Points[st.vertex] = pos
		}
	}
	s.store.SetLive(sh)
	s.obs.SelectionChanged(&sh)
}

func (s *Surface) PointerUp(p Pointer) {
	s.track(p.Screen)
	switch st := s.st.(type) {
	case draggingEndpoint:
		s.st = idle{}
		if s.store.CommitFrom(st.original) {
			s.log.Debug("endpoint drag committed", "id", st.shapeID, "handle", st.handle)
		}
		s.notifySelection()
	case draggingShape:
		s.st = idle{}
		if st.moved && s.store.CommitFrom(st.original) {
			s.log.Debug("shape drag committed", "id", st.shapeID)
		}
	case panning:
		s.st = st.resume
		if s.st == nil {
			s.st = idle{}
		}
	}
}

// Wheel zooms around the pointer, keeping the world point under it fixed.
func (s *Surface) Wheel(e Wheel) {
	f := s.cfg.ZoomIn
	if e.DeltaY > 0 {
		f = s.cfg.ZoomOut
	}
	s.ZoomAt(e.Screen, f)
}

// ZoomAt scales the view by factor around screen. It reports false when the
// result would leave the allowed scale range.
func (s *Surface) ZoomAt(screen geom.Point, factor float64) bool {
	v, ok := s.view.ZoomAt(screen, factor, s.cfg.MinScale, s.cfg.MaxScale)
	if !ok {
		return false
	}
	s.view = v
	s.obs.ZoomChanged(v.Scale)
	s.obs.PanChanged(v.Pan)
	return true
}

// PanBy shifts the view by a screen-space delta.
func (s *Surface) PanBy(d geom.Point) {
	s.view = s.view.PanBy(d)
	s.obs.PanChanged(s.view.Pan)
}

// FitView centres the drawing in the viewport with a small margin.
func (s *Surface) FitView() bool {
	r, ok := geom.Bounds(s.store.Shapes())
	if !ok || s.width <= 0 || s.height <= 0 {
		return false
	}
	w, h := math.Max(r.Width(), 1e-9), math.Max(r.Height(), 1e-9)
	scale := 0.9 * math.Min(float64(s.width)/w, float64(s.height)/h)
	scale = math.Max(s.cfg.MinScale*10, math.Min(scale, s.cfg.MaxScale/10))
	cx, cy := (r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2
	s.view = geom.View{
		Scale: scale,
		Pan:   geom.Point{X: float64(s.width)/2 - cx*scale, Y: float64(s.height)/2 - cy*scale},
	}
	s.obs.ZoomChanged(s.view.Scale)
	s.obs.PanChanged(s.view.Pan)
	return true
}

func (s *Surface) DoubleClick(p Pointer) {
	s.track(p.Screen)
	if _, ok := s.st.(buildingPolyline); ok {
		s.finishPolyline()
	}
}

// ContextMenu handles a secondary click: it abandons a line in progress and
// completes a polyline that has enough vertices.
func (s *Surface) ContextMenu(p Pointer) {
	s.track(p.Screen)
	switch s.st.(type) {
	case awaitingSecondPoint:
		s.st = idle{}
	case buildingPolyline:
		s.finishPolyline()
	}
}

func (s *Surface) finishPolyline() bool {
	st, ok := s.st.(buildingPolyline)
	if !ok || len(st.points) < 2 {
		return false
	}
	s.st = idle{}
	s.commit(geom.NewPolyline(st.points, false))
	return true
}

func (s *Surface) KeyDown(k Key) {
	switch k {
	case KeyUndo:
		s.Undo()
	case KeyEscape:
		s.Escape()
	case KeyDelete:
		s.DeleteSelected()
	}
}

// Escape cancels whatever is in progress, restoring dragged geometry, then
// falls back to the selection tool and clears the selection.
func (s *Surface) Escape() {
	s.rollback()
	s.st = idle{}
	if s.tool != ToolSelection {
		s.tool = ToolSelection
		s.obs.ToolChanged(s.tool)
	}
	s.setSelected(0)
}

// rollback restores the pre-drag snapshot of an active drag.
func (s *Surface) rollback() {
	st := s.st
	if p, ok := st.(panning); ok && p.resume != nil {
		st = p.resume
	}
	switch d := st.(type) {
	case draggingEndpoint:
		s.store.SetLive(d.original)
	case draggingShape:
		s.store.SetLive(d.original)
	}
}

// Undo reverts the latest committed change. A drag in progress is cancelled
// first so its live edits never leak into the restored state.
func (s *Surface) Undo() bool {
	active := s.st
	if p, ok := active.(panning); ok && p.resume != nil {
		active = p.resume
	}
	switch active.(type) {
	case draggingEndpoint, draggingShape:
		s.rollback()
		s.st = idle{}
	}
	ok := s.store.Undo(store.UndoCallbacks{
		Removed: func(id int) {
			if id == s.selected {
				s.setSelected(0)
			}
		},
		Restored: func(sh geom.Shape) {
			if sh.ID == s.selected {
				s.obs.SelectionChanged(&sh)
			}
		},
		RestoredMany: func(list []geom.Shape) {
			for i := range list {
				if list[i].ID == s.selected {
					s.obs.SelectionChanged(&list[i])
				}
			}
		},
		RemovedMany: func(ids []int) {
			for _, id := range ids {
				if id == s.selected {
					s.setSelected(0)
				}
			}
		},
	})
	return ok
}

// DeleteSelected removes the selected shape through the store.
func (s *Surface) DeleteSelected() bool {
	if s.selected == 0 {
		return false
	}
	switch s.st.(type) {
	case draggingEndpoint, draggingShape:
		return false
	}
	_, ok := s.store.Delete(s.selected)
	s.setSelected(0)
	return ok
}

// Clear removes every shape as one undoable step.
func (s *Surface) Clear() int {
	s.rollback()
	s.st = idle{}
	n := len(s.store.Clear())
	s.setSelected(0)
	return n
}

// PlaceText commits a text shape requested through Observer.TextRequested.
// Blank text is ignored.
func (s *Surface) PlaceText(at geom.Point, text string) (geom.Shape, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return geom.Shape{}, false
	}
	return s.commit(geom.NewText(at, text)), true
}

func (s *Surface) commit(sh geom.Shape) geom.Shape {
	out := s.store.Add(sh)
	s.log.Debug("commit", "shape", out.String())
	return out
}

func (s *Surface) setSelected(id int) {
	if id == s.selected {
		return
	}
	s.selected = id
	s.notifySelection()
}

func (s *Surface) notifySelection() {
	if sh, ok := s.Selected(); ok {
		s.obs.SelectionChanged(&sh)
		return
	}
	s.selected = 0
	s.obs.SelectionChanged(nil)
}
