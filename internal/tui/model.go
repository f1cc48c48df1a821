// Package tui hosts the glyph engine in a terminal: a bubbletea program
// that steps the animation on a timer and maps keys and mouse to the
// engine's transitions.
package tui

import (
	"log/slog"
	"os"
	"time"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"glyphmap/internal/geom"
	"glyphmap/internal/glyph"
)

const (
	sidebarWidth = 28
	headerHeight = 2
	footerHeight = 2
)

// Options configures a Model.
type Options struct {
	Data    string // dataset to load at start
	World   string // backdrop polygons for the map layout
	DBTable string
	FPS     int
	Canvas  glyph.Canvas
	Logger  *slog.Logger
}

type tickMsg time.Time

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool
	showRanking bool
	paused      bool

	status string

	// File explorer
	cwd   string
	l     list.Model
	items []list.Item

	opts     Options
	dataPath string
	eng      *glyph.Engine
	frame    glyph.Frame
	backdrop []geom.Polygon

	// hover state
	hovering bool
	hoverID  int
	hover    string

	tbl table.Model
	log *slog.Logger
}

func New(opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	if opts.Canvas == (glyph.Canvas{}) {
		opts.Canvas = glyph.DefaultCanvas()
	}
	if opts.DBTable == "" {
		opts.DBTable = geom.DefaultTable
	}
	if opts.Logger == nil {
		opts.Logger = glyph.Logger()
	}
	m := Model{
		helpVisible: true,
		status:      "glyphmap ready",
		opts:        opts,
		log:         opts.Logger,
	}
	m.cwd, _ = os.Getwd()
	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	m.tbl = table.New(table.WithColumns(rankingColumns()), table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	if opts.World != "" {
		m.loadPath(opts.World)
	}
	if opts.Data != "" {
		m.loadPath(opts.Data)
	}
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd { return m.tick() }

// Frame returns the most recently stepped frame.
func (m Model) Frame() glyph.Frame { return m.frame }

// Engine returns the loaded engine, or nil before a dataset is loaded.
func (m Model) Engine() *glyph.Engine { return m.eng }
