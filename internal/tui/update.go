package tui

import (
	"fmt"
	"strings"
	"time"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"cadterm/internal/bridge"
	"cadterm/internal/canvas"
	"cadterm/internal/geom"
	"cadterm/internal/render"
)

// keyPan is how far one arrow press moves the view, in micro-pixels.
const keyPan = 4

var toolKeys = map[string]canvas.Tool{
	"1": canvas.ToolSelection,
	"2": canvas.ToolPoint,
	"3": canvas.ToolLine,
	"4": canvas.ToolPolyline,
	"5": canvas.ToolText,
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.redraw()
		return m, nil
	case render.FrameMsg:
		cmd, live := m.loop.Handle(msg)
		if live {
			m.redraw()
		}
		return m, cmd
	case bridge.Call:
		resp := bridge.Apply(m.surface, msg.Request)
		msg.Reply(resp)
		m.log.Debug("bridge request", "id", msg.ID, "op", msg.Op, "ok", resp.OK)
		if !resp.OK {
			m.status = fmt.Sprintf("bridge %s: %s", msg.Op, resp.Error)
		}
		cmd := m.afterSurface()
		return m, cmd
	case tea.KeyMsg:
		return m.updateKey(msg)
	case tea.MouseMsg:
		return m.updateMouse(msg)
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// If list is visible and filtering, send keys to list and ignore global commands
	if m.showSidebar && m.l.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	if m.textMode {
		return m.updateText(msg)
	}
	if m.pasteMode {
		return m.updatePaste(msg)
	}
	if m.showTable {
		switch msg.String() {
		case "esc", "a", "q":
			m.showTable = false
			m.tbl.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.tbl, cmd = m.tbl.Update(msg)
		return m, cmd
	}

	key := msg.String()
	if t, ok := toolKeys[key]; ok {
		m.surface.SetTool(t)
		m.status = "tool: " + t.String()
		return m, nil
	}
	switch key {
	case "ctrl+c", "q":
		return m, m.quit()
	case "n":
		m.surface.SetSnap(!m.surface.Snap())
		m.status = fmt.Sprintf("snap: %v", m.surface.Snap())
	case "o":
		m.surface.SetOrtho(!m.surface.Ortho())
		m.status = fmt.Sprintf("ortho: %v", m.surface.Ortho())
	case "ctrl+z", "u":
		if m.surface.Undo() {
			m.status = "undo"
		} else {
			m.status = "nothing to undo"
		}
	case "esc":
		if m.inspectPopup != "" {
			m.inspectPopup = ""
			return m, nil
		}
		m.surface.KeyDown(canvas.KeyEscape)
	case "delete", "backspace":
		if m.surface.DeleteSelected() {
			m.status = "deleted"
		}
	case "+", "=":
		if m.surface.ZoomAt(m.centre(), m.cfg.Zoom.In) {
			m.status = fmt.Sprintf("zoom: %.3gx", m.surface.View().Scale)
		}
	case "-", "_":
		if m.surface.ZoomAt(m.centre(), m.cfg.Zoom.Out) {
			m.status = fmt.Sprintf("zoom: %.3gx", m.surface.View().Scale)
		}
	case "f":
		if !m.surface.FitView() {
			m.status = "nothing to fit"
		}
	case "x":
		m.status = fmt.Sprintf("cleared %d shapes", m.surface.Clear())
	case "tab":
		m.showSidebar = !m.showSidebar
		if m.showSidebar {
			m.refreshDir()
		}
		m.resize()
	case "p":
		m.pasteMode = true
		m.ta.SetValue("")
		m.status = "paste mode"
		cmd := m.ta.Focus()
		return m, cmd
	case "h":
		m.helpVisible = !m.helpVisible
	case "a":
		m.showTable = m.refreshTable()
		if m.showTable {
			m.tbl.Focus()
		}
	case "i":
		m.inspectPopup = m.inspect()
	case "w":
		m.save()
	case "e":
		m.exportPDF()
	case "up", "down", "enter", "/":
		if m.showSidebar {
			if key == "enter" {
				if it, ok := m.l.SelectedItem().(fileItem); ok {
					m.loadPath(it.path)
				}
				return m, nil
			}
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		switch key {
		case "up":
			m.surface.PanBy(geom.Point{Y: -keyPan})
		case "down":
			m.surface.PanBy(geom.Point{Y: keyPan})
		}
	case "left":
		m.surface.PanBy(geom.Point{X: -keyPan})
	case "right":
		m.surface.PanBy(geom.Point{X: keyPan})
	}
	cmd := m.afterSurface()
	return m, cmd
}

func (m Model) updatePaste(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pasteMode = false
		m.ta.Blur()
		return m, nil
	case "enter":
		w := strings.TrimSpace(m.ta.Value())
		if w == "" {
			m.status = "paste: empty"
			return m, nil
		}
		shapes, err := geom.ParseWKT(w)
		if err != nil {
			m.status = "wkt error: " + err.Error()
			return m, nil
		}
		added := m.surface.ExternalBatch(shapes)
		m.surface.FitView()
		m.status = fmt.Sprintf("added %d shapes from WKT", len(added))
		m.pasteMode = false
		m.ta.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

func (m Model) updateText(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.textMode = false
		m.ti.Blur()
		m.status = "text cancelled"
		return m, nil
	case "enter":
		m.textMode = false
		m.ti.Blur()
		if sh, ok := m.surface.PlaceText(m.textAt, m.ti.Value()); ok {
			m.status = "placed " + sh.String()
		} else {
			m.status = "text: empty"
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m Model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.pasteMode || m.textMode || m.showTable {
		if msg.Action == tea.MouseActionRelease {
			m.isPressed = false
		}
		return m, nil
	}
	pt, inside := m.toScreen(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if !inside {
			break
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.surface.Wheel(canvas.Wheel{Screen: pt, DeltaY: -1})
		case tea.MouseButtonWheelDown:
			m.surface.Wheel(canvas.Wheel{Screen: pt, DeltaY: 1})
		case tea.MouseButtonRight:
			m.surface.ContextMenu(canvas.Pointer{Screen: pt, Button: canvas.ButtonSecondary, Shift: msg.Shift})
		case tea.MouseButtonMiddle:
			m.press(canvas.Pointer{Screen: pt, Button: canvas.ButtonMiddle, Shift: msg.Shift})
		case tea.MouseButtonLeft:
			p := canvas.Pointer{Screen: pt, Button: canvas.ButtonPrimary, Shift: msg.Shift}
			m.press(p)
			m.clicked(msg.X, msg.Y, p)
		}
	case tea.MouseActionMotion:
		if inside || m.isPressed {
			m.surface.PointerMove(canvas.Pointer{Screen: pt, Button: m.pressed, Shift: msg.Shift})
		}
	case tea.MouseActionRelease:
		if m.isPressed {
			m.isPressed = false
			m.surface.PointerUp(canvas.Pointer{Screen: pt, Button: m.pressed, Shift: msg.Shift})
		}
	}
	cmd := m.afterSurface()
	return m, cmd
}

func (m *Model) press(p canvas.Pointer) {
	m.pressed, m.isPressed = p.Button, true
	m.inspectPopup = ""
	m.surface.PointerDown(p)
}

// clicked turns a second primary press on the same cell within the
// double-click window into a double click.
func (m *Model) clicked(x, y int, p canvas.Pointer) {
	now := m.now()
	if !m.lastClick.IsZero() && x == m.lastCellX && y == m.lastCellY && now.Sub(m.lastClick) <= m.cfg.UI.DoubleClick {
		m.lastClick = time.Time{}
		m.surface.DoubleClick(p)
		return
	}
	m.lastClick, m.lastCellX, m.lastCellY = now, x, y
}

// afterSurface acts on what the surface reported during the last event.
func (m *Model) afterSurface() tea.Cmd {
	if t, ok := m.events.takeTool(); ok {
		m.status = "tool: " + t.String()
	}
	if at, ok := m.events.takeText(); ok {
		m.textMode = true
		m.textAt = at
		m.ti.SetValue("")
		m.status = "enter text, Enter places it"
		return m.ti.Focus()
	}
	return nil
}

func (m *Model) quit() tea.Cmd {
	m.loop.Stop()
	return tea.Quit
}

// toScreen maps a terminal cell to the centre of its micro-pixel block in
// surface coordinates. Positions outside the map are still mapped so drags
// can leave the map area.
func (m Model) toScreen(x, y int) (geom.Point, bool) {
	ox, oy, w, h := m.layout()
	cx, cy := x-ox, y-oy
	inside := cx >= 0 && cx < w && cy >= 0 && cy < h
	return geom.Point{X: float64(cx*2) + 1, Y: float64(cy*4) + 2}, inside
}

func (m Model) centre() geom.Point {
	w, h := m.surface.Viewport()
	return geom.Point{X: float64(w) / 2, Y: float64(h) / 2}
}

// resize recomputes the map area and hands its micro-pixel size to the surface.
func (m *Model) resize() {
	_, _, w, h := m.layout()
	m.mapW, m.mapH = w, h
	m.surface.SetViewport(w*2, h*4)
	if m.painter == nil || m.painter.buf.w != w || m.painter.buf.h != h {
		m.painter = newPainter(w, h)
	}
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, h-2)
	}
}

func (m *Model) redraw() { m.frame = m.renderFrame() }

func (m Model) renderFrame() string {
	if m.painter == nil {
		return ""
	}
	render.Frame(m.painter, m.surface)
	return strings.Join(m.painter.buf.toLines(), "\n")
}
