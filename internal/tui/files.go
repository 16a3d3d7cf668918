package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"

	"cadterm/internal/export"
	"cadterm/internal/geom"
)

const defaultDrawing = "drawing.json"

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var items []list.Item
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !geom.Importable(name) {
			continue
		}
		items = append(items, fileItem{title: name, desc: strings.ToLower(filepath.Ext(name)), path: filepath.Join(m.cwd, name)})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.items = items
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no supported files in current directory"
	}
}

// loadPath adds the shapes in p to the drawing as one undoable batch and
// fits the view around the result. Drawings saved as JSON become the save
// target.
func (m *Model) loadPath(p string) {
	shapes, err := geom.LoadFile(p)
	if err != nil {
		m.status = "load error: " + err.Error()
		m.log.Warn("load failed", "path", p, "err", err)
		return
	}
	m.selPath = p
	if strings.EqualFold(filepath.Ext(p), ".json") {
		m.savePath = p
	}
	added := m.surface.ExternalBatch(shapes)
	m.surface.FitView()
	m.status = fmt.Sprintf("loaded: %s  shapes=%d", filepath.Base(p), len(added))
	m.log.Info("loaded", "path", p, "shapes", len(added), "skipped", len(shapes)-len(added))
	if m.showTable {
		m.showTable = m.refreshTable()
	}
}

func (m *Model) drawingPath() string {
	if m.savePath != "" {
		return m.savePath
	}
	return filepath.Join(m.cwd, defaultDrawing)
}

func (m *Model) save() {
	path := m.drawingPath()
	v := m.surface.View()
	doc := geom.Document{
		Version: geom.DocumentVersion,
		Session: m.session,
		Saved:   m.now().UTC(),
		View:    &v,
		Shapes:  m.surface.Shapes(),
	}
	if err := geom.SaveDocument(path, doc); err != nil {
		m.status = "save error: " + err.Error()
		m.log.Error("save failed", "path", path, "err", err)
		return
	}
	m.savePath = path
	m.status = fmt.Sprintf("saved %s  shapes=%d", filepath.Base(path), len(doc.Shapes))
	m.log.Info("saved", "path", path, "shapes", len(doc.Shapes))
}

func (m *Model) exportPDF() {
	base := m.drawingPath()
	path := strings.TrimSuffix(base, filepath.Ext(base)) + ".pdf"
	err := export.PDFFile(path, m.surface.Shapes())
	switch {
	case errors.Is(err, export.ErrEmpty):
		m.status = "nothing to export"
	case err != nil:
		m.status = "export error: " + err.Error()
		m.log.Error("pdf export failed", "path", path, "err", err)
	default:
		m.status = "exported " + filepath.Base(path)
		m.log.Info("exported", "path", path)
	}
}
