package tui

import (
	"fmt"
	"strconv"
	"strings"

	table "github.com/charmbracelet/bubbles/table"

	"cadterm/internal/geom"
)

const maxColW = 40

// shapeAttributes lists one shape's columns in table order.
func shapeAttributes(s geom.Shape) []string {
	var detail string
	switch s.Kind {
	case geom.KindPoint:
		detail = s.Style
	case geom.KindLine:
		detail = fmt.Sprintf("len %.2f", geom.Distance(s.Start(), s.End()))
	case geom.KindPolyline:
		detail = fmt.Sprintf("%d pts", len(s.Points))
		if s.Closed {
			detail += " closed"
		}
	case geom.KindText:
		detail = strconv.Quote(s.Text)
	}
	return []string{strconv.Itoa(s.ID), string(s.Kind), detail, geom.FormatWKT(s)}
}

// refreshTable rebuilds the shape table from the drawing. It reports false
// when there is nothing to show.
func (m *Model) refreshTable() bool {
	shapes := m.surface.Shapes()
	if len(shapes) == 0 {
		// Do not touch table internals here to avoid re-render during SetColumns
		m.status = "no shapes"
		return false
	}
	cols := []string{"id", "kind", "detail", "geometry"}
	rows := make([][]string, len(shapes))
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = len(c) + 2
	}
	for i, s := range shapes {
		rows[i] = shapeAttributes(s)
		for j, v := range rows[i] {
			widths[j] = min(maxColW, max(widths[j], len([]rune(v))+1))
		}
	}
	tcols := make([]table.Column, len(cols))
	for i, c := range cols {
		tcols[i] = table.Column{Title: c, Width: widths[i]}
	}
	trows := make([]table.Row, len(rows))
	for i, r := range rows {
		for j := range r {
			r[j] = truncate(r[j], widths[j])
		}
		trows[i] = table.Row(r)
	}
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
	if sel := m.surface.SelectedID(); sel != 0 {
		for i, s := range shapes {
			if s.ID == sel {
				m.tbl.SetCursor(i)
			}
		}
	}
	return true
}

// inspect describes the selected shape, or the drawing when nothing is selected.
func (m Model) inspect() string {
	sel, ok := m.surface.Selected()
	if !ok {
		shapes := m.surface.Shapes()
		meta := []string{
			fmt.Sprintf("shapes: %d", len(shapes)),
			fmt.Sprintf("history: %d", m.surface.Store().HistoryLen()),
			fmt.Sprintf("session: %s", m.session),
		}
		if r, ok := geom.Bounds(shapes); ok {
			meta = append(meta, fmt.Sprintf("bounds: [%.2f, %.2f, %.2f, %.2f]", r.Min.X, r.Min.Y, r.Max.X, r.Max.Y))
		}
		if m.savePath != "" {
			meta = append(meta, "file: "+m.savePath)
		}
		return strings.Join(meta, "\n")
	}
	a := shapeAttributes(sel)
	meta := []string{
		fmt.Sprintf("id: %s", a[0]),
		fmt.Sprintf("kind: %s", a[1]),
		fmt.Sprintf("detail: %s", a[2]),
		fmt.Sprintf("wkt: %s", truncate(a[3], 200)),
	}
	if r, ok := geom.Bounds([]geom.Shape{sel}); ok {
		meta = append(meta, fmt.Sprintf("bounds: [%.2f, %.2f, %.2f, %.2f]", r.Min.X, r.Min.Y, r.Max.X, r.Max.Y))
	}
	return strings.Join(meta, "\n")
}
