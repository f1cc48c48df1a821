package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	list "github.com/charmbracelet/bubbles/list"

	"glyphmap/internal/geom"
	"glyphmap/internal/glyph"
)

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
		if e.IsDir() {
			continue
		}
		name := e.Name()
		p := filepath.Join(m.cwd, name)
		switch {
		case geom.IsDataset(p):
			items = append(items, fileItem{title: name, desc: "dataset", path: p})
		case geom.IsBackdrop(p):
			items = append(items, fileItem{title: name, desc: "backdrop", path: p})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.items = items
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no supported files in current directory"
	}
}

// loadPath loads a dataset into a fresh engine, or a backdrop for the map
// layout.
func (m *Model) loadPath(p string) {
	name := filepath.Base(p)
	if geom.IsBackdrop(p) {
		polys, _, err := geom.LoadBackdrop(p)
		if err != nil {
			m.status = "load error: " + err.Error()
			m.log.Warn("tui: backdrop", "path", p, "err", err)
			return
		}
		m.backdrop = polys
		m.status = fmt.Sprintf("loaded backdrop: %s  polygons=%d", name, len(polys))
		return
	}
	rows, err := geom.Load(context.Background(), p, m.opts.DBTable)
	if err != nil {
		m.status = "load error: " + err.Error()
		m.log.Warn("tui: dataset", "path", p, "err", err)
		return
	}
	records, stats, err := glyph.Ingest(rows)
	if err != nil {
		m.status = "data error: " + err.Error()
		m.log.Warn("tui: ingest", "path", p, "err", err)
		return
	}
	m.eng = glyph.NewEngine(records, stats, glyph.WithCanvas(m.opts.Canvas), glyph.WithLogger(m.log))
	m.frame = glyph.Frame{}
	m.dataPath = p
	m.hovering = false
	m.status = fmt.Sprintf("loaded: %s  records=%d", name, len(records))
	if m.showRanking {
		m.refreshRanking()
	}
	m.log.Info("tui: loaded dataset", "path", p, "records", len(records))
}
