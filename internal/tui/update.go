package tui

import (
	"fmt"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// layout returns the canvas area in terminal cells. It must match View.
func (m Model) layout() (originX, originY int, vp viewport) {
	contentHeight := max(4, m.height-headerHeight-footerHeight)
	contentWidth := max(10, m.width)
	mapWidth := contentWidth
	if m.showSidebar {
		mapWidth -= sidebarWidth + 1
		originX = sidebarWidth + 1
	}
	return originX, headerHeight, viewport{c: m.opts.Canvas, w: max(10, mapWidth), h: contentHeight}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.showSidebar {
			m.l.SetSize(sidebarWidth-2, max(4, m.height-headerHeight-footerHeight)-2)
		}
	case tickMsg:
		if m.eng != nil && !m.paused {
			prev := m.frame.State
			m.frame = m.eng.Step()
			if m.showRanking && m.frame.State != prev {
				m.refreshRanking()
			}
		}
		return m, m.tick()
	case tea.KeyMsg:
		// If list is visible and filtering, send keys to list and ignore global commands
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.showSidebar = !m.showSidebar
			if m.showSidebar {
				m.refreshDir()
				m.l.SetSize(sidebarWidth-2, max(4, m.height-headerHeight-footerHeight)-2)
			}
			return m, nil
		case "enter":
			if m.showSidebar {
				if it, ok := m.l.SelectedItem().(fileItem); ok {
					m.loadPath(it.path)
				}
			}
			return m, nil
		case "h":
			m.helpVisible = !m.helpVisible
			return m, nil
		}
		if m.showSidebar {
			break
		}
		if m.showRanking {
			switch msg.String() {
			case "a", "esc":
				m.showRanking = false
				return m, nil
			case "up", "down", "k", "j", "pgup", "pgdown", "home", "end":
				var cmd tea.Cmd
				m.tbl, cmd = m.tbl.Update(msg)
				return m, cmd
			}
		}
		if m.eng == nil {
			if k := msg.String(); k == "a" || k == " " || k == "space" {
				m.status = "no dataset loaded: press Tab to pick one"
			}
			return m, nil
		}
		switch msg.String() {
		case " ", "space":
			m.eng.AdvanceSortKey()
			m.status = "sort: " + m.eng.State().SortKey.String()
		case "m":
			m.eng.AdvanceLayoutMode()
			st := m.eng.State()
			m.status = fmt.Sprintf("layout: %s  sort: %s", st.Layout, st.SortKey)
		case "c":
			m.eng.AdvanceColorIndex()
			m.status = fmt.Sprintf("colour: %d", m.eng.State().ColorIndex)
		case "s":
			m.eng.ToggleShapeStyle()
			m.status = "shape: " + m.eng.State().Style.String()
		case "p":
			m.paused = !m.paused
			m.status = fmt.Sprintf("paused: %v", m.paused)
		case "a":
			m.showRanking = true
			m.refreshRanking()
		}
	case tea.MouseMsg:
		originX, originY, vp := m.layout()
		cx, cy := msg.X-originX, msg.Y-originY
		inside := cx >= 0 && cx < vp.w && cy >= 0 && cy < vp.h
		switch {
		case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
			if inside && m.eng != nil && !m.showRanking {
				m.eng.ToggleShapeStyle()
				m.status = "shape: " + m.eng.State().Style.String()
			}
		case msg.Action == tea.MouseActionMotion:
			m.hovering = false
			m.hover = ""
			if inside {
				m.updateHover(vp, cx, cy)
			}
		}
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

// updateHover picks the glyph nearest the pointer, searching up to one
// matrix cell away.
func (m *Model) updateHover(vp viewport, cx, cy int) {
	p := vp.canvasAt(cx, cy)
	within := max(vp.c.IntervalWidth(), vp.c.IntervalHeight()) / 2
	cmd, ok := nearest(m.frame.Commands, p, within)
	if !ok {
		return
	}
	m.hovering = true
	m.hoverID = cmd.ID
	name := cmd.Name
	if name == "" {
		name = fmt.Sprintf("#%d", cmd.ID)
	}
	m.hover = fmt.Sprintf("%s  rank %d  %s", name, cmd.Rank+1, cmd.Caption)
}
