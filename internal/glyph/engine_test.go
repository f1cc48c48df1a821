package glyph

import (
	"math"
	"math/rand"
	"testing"
	"time"
)

func rec(id int, alt float64) Record {
	return Record{
		ID:          id,
		Lat:         10,
		Lng:         20,
		Altitude:    alt,
		Date:        time.Date(2010+id, time.March, 1, 0, 0, 0, 0, time.UTC),
		ImageWidth:  100 + id,
		ImageHeight: 200 + id,
		Palette:     []RGB{{255, 0, 0}, {0, 0, 255}},
		Counts:      []int{3, 1},
		TotalCount:  4,
	}
}

func newTestEngine(recs []Record) *Engine {
	return NewEngine(recs, ComputeStats(recs))
}

func ids(rs []Record) []int {
	out := make([]int, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func TestInitialState(t *testing.T) {
	e := newTestEngine(nil)
	want := State{SortKey: SortDate, Layout: LayoutMatrix, ColorIndex: 0, Style: StyleStackedBar}
	if got := e.State(); got != want {
		t.Errorf("State() = %+v, want %+v", got, want)
	}
}

func TestModeCyclesReturnToStart(t *testing.T) {
	e := newTestEngine(nil)
	start := e.State()
	for range SortKeys {
		e.AdvanceSortKey()
	}
	if e.State().SortKey != start.SortKey {
		t.Errorf("sort key after full cycle = %v, want %v", e.State().SortKey, start.SortKey)
	}
	for range LayoutModes {
		e.AdvanceLayoutMode()
	}
	if e.State().Layout != start.Layout {
		t.Errorf("layout after full cycle = %v, want %v", e.State().Layout, start.Layout)
	}
	e.ToggleShapeStyle()
	if e.State().Style != StyleCircle {
		t.Errorf("style after toggle = %v", e.State().Style)
	}
	e.ToggleShapeStyle()
	if e.State().Style != StyleStackedBar {
		t.Errorf("style after second toggle = %v", e.State().Style)
	}
}

func TestSortKeyOrder(t *testing.T) {
	e := newTestEngine(nil)
	want := []SortKey{SortImageWidth, SortImageHeight, SortAltitude, SortHue, SortDate}
	for i, k := range want {
		e.AdvanceSortKey()
		if got := e.State().SortKey; got != k {
			t.Fatalf("step %d: sort key = %v, want %v", i, got, k)
		}
	}
}

func TestColorIndexCycles(t *testing.T) {
	for start := 0; start < NumColorSlots; start++ {
		e := newTestEngine(nil)
		for i := 0; i < start; i++ {
			e.AdvanceColorIndex()
		}
		seen := map[int]bool{}
		for i := 0; i < NumColorSlots; i++ {
			e.AdvanceColorIndex()
			seen[e.State().ColorIndex] = true
		}
		if got := e.State().ColorIndex; got != start {
			t.Errorf("start %d: index after 10 steps = %d", start, got)
		}
		if len(seen) != NumColorSlots {
			t.Errorf("start %d: visited %d slots, want %d", start, len(seen), NumColorSlots)
		}
	}
}

func TestLayoutForcesSortKey(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	e := newTestEngine(nil)
	for i := 0; i < 1000; i++ {
		switch rng.Intn(4) {
		case 0:
			e.AdvanceSortKey()
		case 1:
			e.AdvanceColorIndex()
		case 2:
			e.ToggleShapeStyle()
		case 3:
			before := e.State().SortKey
			e.AdvanceLayoutMode()
			st := e.State()
			switch st.Layout {
			case LayoutMap:
				if st.SortKey != SortAltitude {
					t.Fatalf("map layout with sort key %v", st.SortKey)
				}
			case LayoutLine:
				if st.SortKey != SortDate {
					t.Fatalf("line layout with sort key %v", st.SortKey)
				}
			case LayoutMatrix:
				if st.SortKey != before {
					t.Fatalf("matrix layout changed sort key %v -> %v", before, st.SortKey)
				}
			}
		}
	}
}

func TestAdvanceEmpty(t *testing.T) {
	e := newTestEngine(nil)
	cmds := e.Advance()
	if cmds == nil || len(cmds) != 0 {
		t.Errorf("Advance() on empty engine = %#v, want empty slice", cmds)
	}
}

func TestAltitudeScenario(t *testing.T) {
	recs := []Record{rec(0, 500), rec(1, 1500), rec(2, 100)}
	st := ComputeStats(recs)
	if st.Altitude.Min != 100 || st.Altitude.Max != 1500 {
		t.Fatalf("altitude range = %+v", st.Altitude)
	}
	e := NewEngine(recs, st)
	e.AdvanceLayoutMode() // line
	e.AdvanceLayoutMode() // map
	if e.State().Layout != LayoutMap || e.State().SortKey != SortAltitude {
		t.Fatalf("state = %+v", e.State())
	}
	cmds := e.Advance()
	if len(cmds) != 3 {
		t.Fatalf("got %d commands", len(cmds))
	}
	// Emitted back to front: the highest altitude is drawn first.
	if cmds[0].ID != 1 || cmds[0].Rank != 2 {
		t.Errorf("first command = id %d rank %d, want id 1 rank 2", cmds[0].ID, cmds[0].Rank)
	}
	if cmds[2].ID != 2 || cmds[2].Rank != 0 {
		t.Errorf("last command = id %d rank %d, want id 2 rank 0", cmds[2].ID, cmds[2].Rank)
	}
	if got := ids(e.Ranking()); got[0] != 2 || got[1] != 0 || got[2] != 1 {
		t.Errorf("ranking = %v, want [2 0 1]", got)
	}
	if cmds[0].Radius != 30 || cmds[2].Radius != 3 {
		t.Errorf("radii = %v, %v, want 30, 3", cmds[0].Radius, cmds[2].Radius)
	}
	for _, c := range cmds {
		if c.CaptionVisible {
			t.Errorf("caption visible in map layout for id %d", c.ID)
		}
	}
}

func TestMatrixWrapsRows(t *testing.T) {
	var recs []Record
	for i := 0; i < 12; i++ {
		recs = append(recs, rec(i, float64(i)))
	}
	e := newTestEngine(recs)
	e.Advance()
	c := e.Canvas()
	// Date order equals ingest order here, so rank 11 is record 11.
	want := Vec{X: c.IntervalWidth() * 0.5, Y: c.TitleHeight + c.IntervalHeight()*1.5}
	if got := e.anims[11].dest; !near(got.X, want.X) || !near(got.Y, want.Y) {
		t.Errorf("rank 11 destination = %+v, want %+v (col 0, row 1)", got, want)
	}
	want = Vec{X: c.IntervalWidth() * 10.5, Y: c.TitleHeight + c.IntervalHeight()*0.5}
	if got := e.anims[10].dest; !near(got.X, want.X) || !near(got.Y, want.Y) {
		t.Errorf("rank 10 destination = %+v, want %+v (col 10, row 0)", got, want)
	}
}

func TestLineLayout(t *testing.T) {
	recs := []Record{rec(0, 1), rec(1, 2), rec(2, 3), rec(3, 4)}
	e := newTestEngine(recs)
	e.AdvanceLayoutMode()
	e.Advance()
	c := e.Canvas()
	iw := c.IntervalWidth()
	for i := range recs {
		want := Vec{X: float64(i)*((c.Width-iw)/4) + iw/2, Y: c.TitleHeight + c.DrawingHeight()/2}
		if got := e.anims[i].dest; !near(got.X, want.X) || !near(got.Y, want.Y) {
			t.Errorf("rank %d destination = %+v, want %+v", i, got, want)
		}
	}
}

func TestVelocityClamp(t *testing.T) {
	var recs []Record
	for i := 0; i < 30; i++ {
		r := rec(i, float64(i*37%11))
		r.Lat = float64(i*13%180) - 90
		r.Lng = float64(i*29%360) - 180
		recs = append(recs, r)
	}
	e := newTestEngine(recs)
	for tick := 0; tick < 200; tick++ {
		if tick%40 == 0 {
			e.AdvanceLayoutMode()
		}
		before := make([]Vec, len(e.anims))
		for i, a := range e.anims {
			before[i] = a.pos
		}
		e.Advance()
		for i, a := range e.anims {
			if l := a.vel.Len(); l > e.canvas.MaxSpeed+eps {
				t.Fatalf("tick %d glyph %d: |velocity| = %v", tick, i, l)
			}
			want := a.dest.Sub(before[i])
			if want.Len() == 0 {
				continue
			}
			// Same direction: parallel and pointing the same way.
			cross := want.X*a.vel.Y - want.Y*a.vel.X
			dot := want.X*a.vel.X + want.Y*a.vel.Y
			if math.Abs(cross) > 1e-6*want.Len() || dot <= 0 {
				t.Fatalf("tick %d glyph %d: velocity %+v not along %+v", tick, i, a.vel, want)
			}
		}
	}
}

func TestGlyphsConverge(t *testing.T) {
	recs := []Record{rec(0, 1), rec(1, 2)}
	e := newTestEngine(recs)
	var cmds []RenderCommand
	for i := 0; i < 100; i++ {
		cmds = e.Advance()
	}
	for _, c := range cmds {
		dest := e.anims[c.ID].dest
		if !near(c.Position.X, dest.X) || !near(c.Position.Y, dest.Y) {
			t.Errorf("glyph %d at %+v, want %+v", c.ID, c.Position, dest)
		}
	}
}

func TestFirstTickMovesAtMostMaxSpeed(t *testing.T) {
	e := newTestEngine([]Record{rec(0, 1)})
	start := e.Canvas().Center()
	cmds := e.Advance()
	if d := cmds[0].Position.Sub(start).Len(); d > 10+eps || d == 0 {
		t.Errorf("first tick moved %v, want (0, 10]", d)
	}
}

func TestSortStability(t *testing.T) {
	// Records 1, 3 and 4 tie on altitude and must stay in ingest order.
	recs := []Record{rec(0, 50), rec(1, 10), rec(2, 5), rec(3, 10), rec(4, 10)}
	e := newTestEngine(recs)
	e.AdvanceLayoutMode()
	e.AdvanceLayoutMode() // map, altitude
	e.Advance()
	want := []int{2, 1, 3, 4, 0}
	got := ids(e.Ranking())
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ranking = %v, want %v", got, want)
		}
	}
	// Re-sorting by a different key and back must not disturb tie order.
	e.AdvanceSortKey() // hue
	e.Advance()
	for range SortKeys[1:] {
		e.AdvanceSortKey()
	}
	if e.State().SortKey != SortAltitude {
		t.Fatalf("sort key = %v", e.State().SortKey)
	}
	e.Advance()
	got = ids(e.Ranking())
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ranking after resort = %v, want %v", got, want)
		}
	}
}

func TestHueSortUsesColorIndex(t *testing.T) {
	a := rec(0, 1)
	a.Palette = []RGB{{0, 0, 255}, {255, 0, 0}} // 240, 0
	b := rec(1, 1)
	b.Palette = []RGB{{0, 255, 0}, {0, 255, 0}} // 120, 120
	c := rec(2, 1)
	c.Palette = []RGB{{255, 0, 0}} // 0, single entry
	e := newTestEngine([]Record{a, b, c})
	for e.State().SortKey != SortHue {
		e.AdvanceSortKey()
	}
	e.Advance()
	if got := ids(e.Ranking()); got[0] != 2 || got[1] != 1 || got[2] != 0 {
		t.Errorf("hue ranking at index 0 = %v, want [2 1 0]", got)
	}
	e.AdvanceColorIndex()
	e.Advance()
	// c's short palette clamps to its only colour; ties keep ingest order.
	if got := ids(e.Ranking()); got[0] != 0 || got[1] != 2 || got[2] != 1 {
		t.Errorf("hue ranking at index 1 = %v, want [0 2 1]", got)
	}
}

func TestNonPositiveMaxSpeedUsesDefault(t *testing.T) {
	for _, speed := range []float64{0, -5} {
		c := DefaultCanvas()
		c.MaxSpeed = speed
		recs := []Record{rec(0, 1)}
		e := NewEngine(recs, ComputeStats(recs), WithCanvas(c))
		if got := e.Canvas().MaxSpeed; got != 10 {
			t.Errorf("speed %v: MaxSpeed = %v, want 10", speed, got)
		}
		start := e.anims[0].pos
		e.Advance()
		a := e.anims[0]
		if moved := a.pos.Sub(start).Len(); math.Abs(moved-10) > eps {
			t.Errorf("speed %v: moved %v, want 10", speed, moved)
		}
		if a.dest.Sub(a.pos).Len() >= a.dest.Sub(start).Len() {
			t.Errorf("speed %v: glyph moved away from its destination", speed)
		}
	}
}

func TestColorClampsToShortPalette(t *testing.T) {
	r := rec(0, 1)
	e := newTestEngine([]Record{r})
	for i := 0; i < 7; i++ {
		e.AdvanceColorIndex()
	}
	cmds := e.Advance()
	if cmds[0].Color != r.Palette[1] {
		t.Errorf("color = %+v, want last palette entry %+v", cmds[0].Color, r.Palette[1])
	}
}

func TestSegments(t *testing.T) {
	recs := []Record{rec(0, 1), rec(1, 2)}
	e := newTestEngine(recs)
	for _, c := range e.Advance() {
		if len(c.Segments) != 2 {
			t.Fatalf("got %d segments", len(c.Segments))
		}
		var sum float64
		for _, s := range c.Segments {
			if !near(s.Offset, sum) {
				t.Errorf("segment offset %v, want %v", s.Offset, sum)
			}
			sum += s.Height
		}
		if !near(sum, c.Height) {
			t.Errorf("segments sum to %v, want bar height %v", sum, c.Height)
		}
		if !near(c.Segments[0].Height, c.Height*0.75) {
			t.Errorf("first segment %v, want %v", c.Segments[0].Height, c.Height*0.75)
		}
	}
}

func TestCaption(t *testing.T) {
	r := rec(4, 1234.6)
	tests := []struct {
		key  SortKey
		want string
	}{
		{SortDate, "2014-3"},
		{SortAltitude, "1235m"},
		{SortImageWidth, "104x204"},
		{SortImageHeight, "104x204"},
		{SortHue, "0"},
	}
	for _, tt := range tests {
		if got := Caption(r, tt.key, 0); got != tt.want {
			t.Errorf("Caption(%v) = %q, want %q", tt.key, got, tt.want)
		}
	}
	if got := Caption(r, SortHue, 1); got != "240" {
		t.Errorf("Caption(hue, 1) = %q, want 240", got)
	}
}

func TestLineCaptionVisibility(t *testing.T) {
	var recs []Record
	for i := 0; i < 45; i++ {
		recs = append(recs, rec(i, float64(i)))
	}
	e := newTestEngine(recs)
	e.AdvanceLayoutMode()
	for _, c := range e.Advance() {
		want := c.Rank == 0 || c.Rank == 20 || c.Rank == 40 || c.Rank == 44
		if c.CaptionVisible != want {
			t.Errorf("rank %d caption visible = %v, want %v", c.Rank, c.CaptionVisible, want)
		}
	}
}

func TestStepHeadline(t *testing.T) {
	e := newTestEngine([]Record{rec(0, 1)})
	f := e.Step()
	if f.Title != "A Decade In Images" || f.Subtitle != "Sorted By Date" {
		t.Errorf("headline = %q / %q", f.Title, f.Subtitle)
	}
	e.AdvanceLayoutMode()
	e.AdvanceLayoutMode()
	f = e.Step()
	if f.Title != "A Decade In Places" || f.Subtitle != "Sorted By Altitude" {
		t.Errorf("headline = %q / %q", f.Title, f.Subtitle)
	}
	if len(f.Commands) != 1 {
		t.Errorf("got %d commands", len(f.Commands))
	}
}
