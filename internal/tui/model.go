// Package tui is the terminal front end: a bubbletea program that feeds mouse
// and keyboard input to a canvas.Surface and paints it as braille.
package tui

import (
	"io"
	"os"
	"time"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	textinput "github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"cadterm/internal/canvas"
	"cadterm/internal/config"
	"cadterm/internal/geom"
	"cadterm/internal/render"
	"cadterm/internal/store"
)

const (
	sidebarWidth = 28
	headerHeight = 1
	footerHeight = 2
)

type Model struct {
	cfg     config.Config
	log     *log.Logger
	session string

	surface *canvas.Surface
	events  *hostEvents
	loop    *render.Loop
	painter *painter
	frame   string

	width  int
	height int

	showSidebar bool
	helpVisible bool

	status string

	// File explorer
	cwd      string
	l        list.Model
	items    []list.Item
	selPath  string
	savePath string

	// last rendered map size in cells
	mapW int
	mapH int

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// text tool entry
	textMode bool
	textAt   geom.Point
	ti       textinput.Model

	// inspect popup
	inspectPopup string

	// shape table
	showTable bool
	tbl       table.Model

	// mouse state for release and double-click synthesis
	pressed   canvas.Button
	isPressed bool
	lastClick time.Time
	lastCellX int
	lastCellY int
	now       func() time.Time
}

func New(cfg config.Config, logger *log.Logger) Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := Model{
		cfg:         cfg,
		log:         logger,
		session:     uuid.NewString(),
		events:      &hostEvents{scale: 1},
		loop:        render.NewLoop(cfg.UI.Frame),
		helpVisible: true,
		status:      "cadterm ready",
		now:         time.Now,
	}
	m.surface = canvas.New(store.New(logger.WithPrefix("store"), nil), m.events, cfg.Canvas(), logger.WithPrefix("canvas"))
	m.surface.SetTool(cfg.Tool())
	m.surface.SetSnap(cfg.Draw.Snap)
	m.surface.SetOrtho(cfg.Draw.Ortho)

	m.cwd = cfg.UI.Dir
	if m.cwd == "" || m.cwd == "." {
		m.cwd, _ = os.Getwd()
	}
	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// textarea setup
	m.ta = textarea.New()
	m.ta.Placeholder = "Paste WKT here (POINT, LINESTRING, POLYGON, MULTI*). Enter adds it to the drawing; Esc cancels."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	// text tool prompt
	m.ti = textinput.New()
	m.ti.Prompt = "text> "
	m.ti.Placeholder = "label"
	m.ti.CharLimit = 200
	// shape table setup
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	return m
}

// NewWithPath preloads a drawing or importable file at launch.
func NewWithPath(cfg config.Config, logger *log.Logger, path string) Model {
	m := New(cfg, logger)
	m.loadPath(path)
	return m
}

func (m Model) Init() tea.Cmd { return m.loop.Start() }

// Surface exposes the interaction surface the model drives.
func (m Model) Surface() *canvas.Surface { return m.surface }
