package glyph

import (
	"cmp"
	"log/slog"
	"slices"
)

// anim is the mutable per-record animation state.
type anim struct {
	pos, dest, vel Vec
}

// Engine owns the animation state of a record set and the active modes.
//
// An Engine is not safe for concurrent use. One goroutine drives Advance and
// applies the transition methods between ticks.
type Engine struct {
	canvas  Canvas
	records []Record // ingest order
	stats   Stats
	anims   []anim // indexed by Record.ID
	order   []int  // record indices in rank order
	state   State
	log     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithCanvas sets the drawing geometry.
func WithCanvas(c Canvas) Option { return func(e *Engine) { e.canvas = c } }

// WithLogger sets the engine's logger.
func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.log = l } }

// NewEngine creates an engine for records produced by Ingest. Every glyph
// starts at rest in the centre of the drawing region.
func NewEngine(records []Record, stats Stats, opts ...Option) *Engine {
	e := &Engine{
		canvas:  DefaultCanvas(),
		records: records,
		stats:   stats,
		state:   InitialState(),
		log:     Logger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.canvas.Intervals <= 0 {
		e.canvas.Intervals = DefaultCanvas().Intervals
	}
	if e.canvas.MaxSpeed <= 0 {
		e.canvas.MaxSpeed = DefaultCanvas().MaxSpeed
	}
	c := e.canvas.Center()
	e.anims = make([]anim, len(records))
	e.order = make([]int, len(records))
	for i := range records {
		e.anims[i] = anim{pos: c, dest: c}
		e.order[i] = i
	}
	e.log.Debug("glyph: engine created", "records", len(records))
	return e
}

// Len returns the number of glyphs.
func (e *Engine) Len() int { return len(e.records) }

// Canvas returns the engine's drawing geometry.
func (e *Engine) Canvas() Canvas { return e.canvas }

// Stats returns the dataset bounds the engine scales with.
func (e *Engine) Stats() Stats { return e.stats }

// State returns the current modes.
func (e *Engine) State() State { return e.state }

// AdvanceSortKey moves to the next sort key.
func (e *Engine) AdvanceSortKey() {
	e.state.SortKey = e.state.SortKey.next()
	e.log.Debug("glyph: sort key", "key", e.state.SortKey)
}

// AdvanceLayoutMode moves to the next layout. Map forces the altitude sort
// and Line forces the date sort; Matrix keeps whatever key is active.
func (e *Engine) AdvanceLayoutMode() {
	e.state.Layout = e.state.Layout.next()
	switch e.state.Layout {
	case LayoutMap:
		e.state.SortKey = SortAltitude
	case LayoutLine:
		e.state.SortKey = SortDate
	}
	e.log.Debug("glyph: layout", "layout", e.state.Layout, "key", e.state.SortKey)
}

// AdvanceColorIndex moves to the next palette slot.
func (e *Engine) AdvanceColorIndex() {
	e.state.ColorIndex = (e.state.ColorIndex + 1) % NumColorSlots
}

// ToggleShapeStyle flips between stacked bars and circles.
func (e *Engine) ToggleShapeStyle() {
	if e.state.Style == StyleStackedBar {
		e.state.Style = StyleCircle
	} else {
		e.state.Style = StyleStackedBar
	}
}

// Ranking returns the records in the order of the last Advance.
func (e *Engine) Ranking() []Record {
	out := make([]Record, len(e.order))
	for rank, idx := range e.order {
		out[rank] = e.records[idx]
	}
	return out
}

// Advance runs one animation tick: sort, place, step every glyph toward its
// destination and return draw commands back to front (highest rank first).
func (e *Engine) Advance() []RenderCommand {
	n := len(e.records)
	if n == 0 {
		return []RenderCommand{}
	}
	e.sort()
	for rank, idx := range e.order {
		a := &e.anims[idx]
		a.dest = e.destination(rank, e.records[idx])
		a.vel = a.dest.Sub(a.pos).Clamp(e.canvas.MaxSpeed)
		a.pos = a.pos.Add(a.vel)
	}
	cmds := make([]RenderCommand, 0, n)
	for rank := n - 1; rank >= 0; rank-- {
		idx := e.order[rank]
		cmds = append(cmds, e.command(rank, e.records[idx], e.anims[idx]))
	}
	return cmds
}

// Step advances one tick and packages the result with its headline.
func (e *Engine) Step() Frame {
	cmds := e.Advance()
	return Frame{
		Title:    "A Decade In " + e.state.Layout.Title(),
		Subtitle: "Sorted By " + e.state.SortKey.Title(),
		State:    e.state,
		Commands: cmds,
	}
}

func (e *Engine) sort() {
	rs := e.records
	var by func(i, j int) int
	switch e.state.SortKey {
	case SortDate:
		by = func(i, j int) int { return rs[i].Date.Compare(rs[j].Date) }
	case SortImageWidth:
		by = func(i, j int) int { return cmp.Compare(rs[i].ImageWidth, rs[j].ImageWidth) }
	case SortImageHeight:
		by = func(i, j int) int { return cmp.Compare(rs[i].ImageHeight, rs[j].ImageHeight) }
	case SortAltitude:
		by = func(i, j int) int { return cmp.Compare(rs[i].Altitude, rs[j].Altitude) }
	case SortHue:
		hues := make([]float64, len(rs))
		for i, r := range rs {
			hues[i] = r.ColorAt(e.state.ColorIndex).Hue()
		}
		by = func(i, j int) int { return cmp.Compare(hues[i], hues[j]) }
	}
	// Ties fall back to ingest order regardless of the previous ranking.
	slices.SortStableFunc(e.order, func(i, j int) int {
		if c := by(i, j); c != 0 {
			return c
		}
		return cmp.Compare(i, j)
	})
}

func (e *Engine) destination(rank int, r Record) Vec {
	switch e.state.Layout {
	case LayoutLine:
		return e.canvas.slot(rank, len(e.records))
	case LayoutMap:
		return e.canvas.Project(r.Lat, r.Lng)
	default:
		return e.canvas.cell(rank)
	}
}
