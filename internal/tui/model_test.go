package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cadterm/internal/bridge"
	"cadterm/internal/canvas"
	"cadterm/internal/config"
	"cadterm/internal/geom"
)

var clock = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

// newModel returns an 80x24 model; its map starts at row 1 and spans the
// full width, so cell (x, y) lands on surface point (2x+1, 4(y-1)+2).
func newModel(t *testing.T) Model {
	t.Helper()
	cfg := config.Default()
	cfg.UI.Dir = t.TempDir()
	m := New(cfg, nil)
	m.now = func() time.Time { return clock }
	return send(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	out, _ := m.Update(msg)
	return out.(Model)
}

func key(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func mouse(x, y int, a tea.MouseAction, b tea.MouseButton) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: a, Button: b}
}

func click(t *testing.T, m Model, x, y int) Model {
	t.Helper()
	m = send(t, m, mouse(x, y, tea.MouseActionPress, tea.MouseButtonLeft))
	return send(t, m, mouse(x, y, tea.MouseActionRelease, tea.MouseButtonLeft))
}

func screen(x, y int) geom.Point { return geom.Point{X: float64(2*x + 1), Y: float64(4*(y-1) + 2)} }

func TestResizeSetsViewport(t *testing.T) {
	m := newModel(t)
	w, h := m.surface.Viewport()
	assert.Equal(t, 160, w)
	assert.Equal(t, 84, h)
	assert.Equal(t, 160, m.events.canvasW)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	w, _ = m.surface.Viewport()
	assert.Equal(t, (80-sidebarWidth-1)*2, w)
}

func TestPointTool(t *testing.T) {
	m := newModel(t)
	m = send(t, m, key("2"))
	assert.Equal(t, canvas.ToolPoint, m.surface.Tool())

	m = click(t, m, 10, 5)
	shapes := m.surface.Shapes()
	require.Len(t, shapes, 1)
	assert.Equal(t, geom.KindPoint, shapes[0].Kind)
	assert.Equal(t, screen(10, 5), geom.Point{X: shapes[0].X, Y: shapes[0].Y})
}

func TestLineToolWithPreview(t *testing.T) {
	m := newModel(t)
	m = send(t, m, key("3"))
	m = click(t, m, 5, 5)
	m = send(t, m, mouse(20, 9, tea.MouseActionMotion, tea.MouseButtonNone))

	pv, ok := m.surface.Preview()
	require.True(t, ok)
	assert.Equal(t, screen(20, 9), pv.End())

	m = click(t, m, 20, 9)
	shapes := m.surface.Shapes()
	require.Len(t, shapes, 1)
	assert.Equal(t, screen(5, 5), shapes[0].Start())
	assert.Equal(t, screen(20, 9), shapes[0].End())
	_, ok = m.surface.Preview()
	assert.False(t, ok)
}

func TestPolylineFinishesOnDoubleClick(t *testing.T) {
	m := newModel(t)
	m = send(t, m, key("4"))
	m = click(t, m, 5, 5)
	m = click(t, m, 15, 5)
	m = click(t, m, 15, 12)
	require.Empty(t, m.surface.Shapes())

	m = click(t, m, 15, 12)
	shapes := m.surface.Shapes()
	require.Len(t, shapes, 1)
	assert.Equal(t, geom.KindPolyline, shapes[0].Kind)
	assert.Equal(t, []geom.Point{screen(5, 5), screen(15, 5), screen(15, 12)}, shapes[0].Points)
}

func TestSlowSecondClickIsNotDoubleClick(t *testing.T) {
	m := newModel(t)
	m = send(t, m, key("4"))
	m = click(t, m, 5, 5)
	m = click(t, m, 15, 5)
	m.now = func() time.Time { return clock.Add(time.Second) }
	m = click(t, m, 15, 5)
	assert.Empty(t, m.surface.Shapes())
	assert.Equal(t, "polyline", m.surface.Mode())
}

func TestRightClickCompletesPolyline(t *testing.T) {
	m := newModel(t)
	m = send(t, m, key("4"))
	m = click(t, m, 5, 5)
	m = click(t, m, 25, 5)
	m = send(t, m, mouse(30, 5, tea.MouseActionPress, tea.MouseButtonRight))
	require.Len(t, m.surface.Shapes(), 1)
}

func TestTextToolPromptsForLabel(t *testing.T) {
	m := newModel(t)
	m = send(t, m, key("5"))
	m = click(t, m, 8, 8)
	require.True(t, m.textMode)
	assert.Equal(t, screen(8, 8), m.textAt)

	m = send(t, m, key("q"))
	assert.True(t, m.textMode, "typing must not trigger global keys")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.textMode)

	shapes := m.surface.Shapes()
	require.Len(t, shapes, 1)
	assert.Equal(t, "q", shapes[0].Text)
	assert.Equal(t, geom.DefaultFontSize, shapes[0].FontSize)
}

func TestTextEscapeCancels(t *testing.T) {
	m := newModel(t)
	m = send(t, m, key("5"))
	m = click(t, m, 8, 8)
	m = send(t, m, key("abc"))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.textMode)
	assert.Empty(t, m.surface.Shapes())
}

func TestSelectDragAndUndo(t *testing.T) {
	m := newModel(t)
	m = send(t, m, key("2"))
	m = click(t, m, 10, 5)
	m = send(t, m, key("1"))

	m = send(t, m, mouse(10, 5, tea.MouseActionPress, tea.MouseButtonLeft))
	assert.Equal(t, 1, m.surface.SelectedID())
	m = send(t, m, mouse(14, 7, tea.MouseActionMotion, tea.MouseButtonLeft))
	m = send(t, m, mouse(14, 7, tea.MouseActionRelease, tea.MouseButtonLeft))

	sh, ok := m.surface.Selected()
	require.True(t, ok)
	assert.Equal(t, screen(14, 7), geom.Point{X: sh.X, Y: sh.Y})
	assert.Equal(t, 2, m.surface.Store().HistoryLen())
	require.NotNil(t, m.events.selection)
	assert.Equal(t, sh.X, m.events.selection.X)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlZ})
	sh, _ = m.surface.Selected()
	assert.Equal(t, screen(10, 5), geom.Point{X: sh.X, Y: sh.Y})
	assert.Equal(t, "undo", m.status)
}

func TestDeleteAndEscape(t *testing.T) {
	m := newModel(t)
	m = send(t, m, key("2"))
	m = click(t, m, 10, 5)
	m = send(t, m, key("1"))
	m = click(t, m, 10, 5)
	require.Equal(t, 1, m.surface.SelectedID())

	m = send(t, m, tea.KeyMsg{Type: tea.KeyDelete})
	assert.Empty(t, m.surface.Shapes())
	assert.Equal(t, 0, m.surface.SelectedID())

	m = send(t, m, key("3"))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, canvas.ToolSelection, m.surface.Tool())
	assert.Equal(t, "tool: selection", m.status)
}

func TestWheelAndKeyZoom(t *testing.T) {
	m := newModel(t)
	m = send(t, m, mouse(40, 10, tea.MouseActionPress, tea.MouseButtonWheelUp))
	assert.InDelta(t, 1.1, m.surface.View().Scale, 1e-9)
	m = send(t, m, mouse(40, 10, tea.MouseActionPress, tea.MouseButtonWheelDown))
	assert.InDelta(t, 0.99, m.surface.View().Scale, 1e-9)

	m = send(t, m, key("+"))
	assert.InDelta(t, 1.089, m.surface.View().Scale, 1e-9)
	assert.InDelta(t, 1.089, m.events.scale, 1e-9)
}

func TestArrowKeysPan(t *testing.T) {
	m := newModel(t)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, geom.Point{X: -keyPan, Y: keyPan}, m.surface.View().Pan)
}

func TestMiddleDragPans(t *testing.T) {
	m := newModel(t)
	m = send(t, m, mouse(10, 10, tea.MouseActionPress, tea.MouseButtonMiddle))
	m = send(t, m, mouse(13, 11, tea.MouseActionMotion, tea.MouseButtonMiddle))
	m = send(t, m, mouse(13, 11, tea.MouseActionRelease, tea.MouseButtonMiddle))
	assert.Equal(t, geom.Point{X: 6, Y: 4}, m.surface.View().Pan)
	assert.Equal(t, "idle", m.surface.Mode())
}

func TestToggles(t *testing.T) {
	m := newModel(t)
	require.True(t, m.surface.Snap())
	m = send(t, m, key("n"))
	m = send(t, m, key("o"))
	assert.False(t, m.surface.Snap())
	assert.True(t, m.surface.Ortho())
}

func TestPasteWKT(t *testing.T) {
	m := newModel(t)
	m = send(t, m, key("p"))
	require.True(t, m.pasteMode)
	m.ta.SetValue("MULTIPOINT((1 2), (3 4))")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.pasteMode)
	assert.Len(t, m.surface.Shapes(), 2)
	assert.Equal(t, 1, m.surface.Store().HistoryLen())

	m = send(t, m, key("p"))
	m.ta.SetValue("CIRCLE(1 2)")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.pasteMode)
	assert.True(t, strings.HasPrefix(m.status, "wkt error"))
}

func TestSaveLoadAndExport(t *testing.T) {
	m := newModel(t)
	m = send(t, m, key("3"))
	m = click(t, m, 5, 5)
	m = click(t, m, 20, 9)
	m = send(t, m, key("w"))
	path := filepath.Join(m.cwd, defaultDrawing)
	require.FileExists(t, path)

	m = send(t, m, key("e"))
	assert.FileExists(t, filepath.Join(m.cwd, "drawing.pdf"))

	cfg := config.Default()
	cfg.UI.Dir = m.cwd
	loaded := NewWithPath(cfg, nil, path)
	shapes := loaded.surface.Shapes()
	require.Len(t, shapes, 1)
	assert.Equal(t, screen(5, 5), shapes[0].Start())
	assert.Equal(t, path, loaded.savePath)
}

func TestExportEmpty(t *testing.T) {
	m := newModel(t)
	m = send(t, m, key("e"))
	assert.Equal(t, "nothing to export", m.status)
}

func TestSidebarListsImportableFiles(t *testing.T) {
	m := newModel(t)
	require.NoError(t, os.WriteFile(filepath.Join(m.cwd, "a.wkt"), []byte("POINT(1 1)"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(m.cwd, "b.txt"), []byte("x"), 0o644))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Len(t, m.items, 1)
	assert.Equal(t, "a.wkt", m.items[0].(fileItem).Title())

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Len(t, m.surface.Shapes(), 1)
	assert.Contains(t, m.status, "a.wkt")
}

func TestShapeTableAndInspect(t *testing.T) {
	m := newModel(t)
	m = send(t, m, key("a"))
	assert.False(t, m.showTable)

	m = send(t, m, key("2"))
	m = click(t, m, 10, 5)
	m = send(t, m, key("a"))
	require.True(t, m.showTable)
	require.Len(t, m.tbl.Rows(), 1)
	assert.Equal(t, "point", m.tbl.Rows()[0][1])
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.showTable)

	m = send(t, m, key("i"))
	assert.Contains(t, m.inspectPopup, "shapes: 1")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, m.inspectPopup)
}

type capture chan tea.Msg

func (c capture) Send(msg tea.Msg) { c <- msg }

func TestBridgeCallIsAnsweredInUpdate(t *testing.T) {
	m := newModel(t)
	c := make(capture, 1)
	done := make(chan bridge.Response, 1)
	sh := geom.NewLine(geom.Point{X: 1, Y: 1}, geom.Point{X: 9, Y: 9})
	go func() {
		resp, err := bridge.Do(context.Background(), c, bridge.Request{Op: bridge.OpAdd, Shape: &sh})
		assert.NoError(t, err)
		done <- resp
	}()
	m = send(t, m, <-c)
	resp := <-done
	require.True(t, resp.OK)
	require.NotNil(t, resp.Shape)
	assert.Equal(t, 1, resp.Shape.ID)
	assert.Len(t, m.surface.Shapes(), 1)
}

func TestFrameRendersShapes(t *testing.T) {
	m := newModel(t)
	m = send(t, m, key("3"))
	m = click(t, m, 5, 5)
	m = click(t, m, 30, 5)
	m.redraw()

	lines := strings.Split(m.frame, "\n")
	require.Len(t, lines, m.mapH)
	row := []rune(lines[4])
	assert.Equal(t, rune(0x2800), row[10]&0xFF00)
	assert.Contains(t, m.View(), "cadterm")
}

func TestInitStartsLoopAndQuitStopsIt(t *testing.T) {
	m := newModel(t)
	require.NotNil(t, m.Init())
	assert.True(t, m.loop.Running())

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.False(t, m.loop.Running())
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
