package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	_, _, vp := m.layout()
	contentWidth := max(10, m.width)

	// Header: the frame's headline
	title, subtitle := " glyphmap ", " Tab to open a dataset "
	if m.frame.Title != "" {
		title = " " + m.frame.Title + " "
		subtitle = " " + m.frame.Subtitle + " "
	}
	header := lipgloss.JoinVertical(lipgloss.Center, titleStyle.Render(title), subtitleStyle.Render(subtitle))
	header = lipgloss.PlaceHorizontal(contentWidth, lipgloss.Center, header)

	// Sidebar
	var sidebar string
	if m.showSidebar {
		sidebar = lipgloss.NewStyle().Width(sidebarWidth).Render(m.l.View())
	}

	var canvas string
	if m.showRanking {
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 2
		}
		maxW := min(vp.w, max(32, colW+4))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(vp.h-2, 20))
		box := boxStyle.Width(maxW).Render(m.tbl.View())
		canvas = lipgloss.Place(vp.w, vp.h, lipgloss.Center, lipgloss.Center, box)
	} else {
		canvas = renderCanvas(vp, m.frame, m.backdrop, m.hovering, m.hoverID)
		canvas = lipgloss.NewStyle().Width(vp.w).Height(vp.h).Render(canvas)
	}

	body := canvas
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", canvas)
	}

	// Footer: status, help, hovered glyph at the right
	status := dimStyle.Render(" " + m.status + " ")
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, status, m.renderHelp())
	hover := ""
	if m.hovering {
		hover = dimStyle.Render("  " + m.hover + "  ")
	}
	spacerW := max(0, contentWidth-lipgloss.Width(left)-lipgloss.Width(hover))
	right := lipgloss.Place(spacerW+lipgloss.Width(hover), 1, lipgloss.Right, lipgloss.Center, hover)
	footer := lipgloss.NewStyle().Width(contentWidth).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, left, right))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(contentWidth).Height(m.height).Render(ui)
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"space sort",
		"m layout",
		"c colour",
		"s/click shape",
		"p pause",
		"a ranking",
		"Tab files",
		"Enter open",
		"h help",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
