package tui

import (
	"strconv"

	table "github.com/charmbracelet/bubbles/table"

	"glyphmap/internal/glyph"
)

func rankingColumns() []table.Column {
	return []table.Column{
		{Title: "#", Width: 5},
		{Title: "name", Width: 20},
		{Title: "date", Width: 10},
		{Title: "altitude", Width: 9},
		{Title: "size", Width: 11},
		{Title: "hue", Width: 5},
	}
}

// rankingRows lists records in rank order with the caption of every sort
// key, so the active ordering can be read off its column.
func rankingRows(ranked []glyph.Record, colorIndex int) []table.Row {
	rows := make([]table.Row, 0, len(ranked))
	for i, r := range ranked {
		name := r.Name
		if name == "" {
			name = strconv.Itoa(r.ID)
		}
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			name,
			glyph.Caption(r, glyph.SortDate, colorIndex),
			glyph.Caption(r, glyph.SortAltitude, colorIndex),
			glyph.Caption(r, glyph.SortImageWidth, colorIndex),
			glyph.Caption(r, glyph.SortHue, colorIndex),
		})
	}
	return rows
}

// refreshRanking rebuilds the table from the engine's current order.
func (m *Model) refreshRanking() {
	if m.eng == nil {
		m.showRanking = false
		m.status = "no dataset loaded"
		return
	}
	// clear rows first so a shorter dataset never indexes past the cursor
	m.tbl.SetRows(nil)
	m.tbl.SetRows(rankingRows(m.eng.Ranking(), m.eng.State().ColorIndex))
	m.tbl.GotoTop()
}
