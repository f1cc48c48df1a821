package glyph

import (
	"fmt"
	"math"
	"strconv"
)

// Segment is one colour band of a stacked bar, measured from the bar's top.
type Segment struct {
	Color  RGB     `json:"color"`
	Offset float64 `json:"offset"`
	Height float64 `json:"height"`
}

// RenderCommand is everything a renderer needs to draw one glyph.
//
// Position is the glyph's anchor: the bottom centre of a stacked bar, or the
// centre of a circle.
type RenderCommand struct {
	ID             int       `json:"id"`
	Rank           int       `json:"rank"`
	Name           string    `json:"name,omitempty"`
	Position       Vec       `json:"position"`
	Radius         float64   `json:"radius"`
	Width          float64   `json:"width"`
	Height         float64   `json:"height"`
	Color          RGB       `json:"color"`
	Segments       []Segment `json:"segments"`
	Caption        string    `json:"caption"`
	CaptionVisible bool      `json:"captionVisible"`
}

// Frame is one tick's output plus the headline a renderer puts in the title
// band.
type Frame struct {
	Title    string          `json:"title"`
	Subtitle string          `json:"subtitle"`
	State    State           `json:"state"`
	Commands []RenderCommand `json:"commands"`
}

// captionEvery is the rank stride of visible captions in line layout.
const captionEvery = 20

func (e *Engine) command(rank int, r Record, a anim) RenderCommand {
	st := e.stats
	w, h := e.barSize(r)
	cmd := RenderCommand{
		ID:       r.ID,
		Rank:     rank,
		Name:     r.Name,
		Position: a.pos,
		Radius:   st.Altitude.Scale(r.Altitude, 3, 30),
		Width:    w,
		Height:   h,
		Color:    r.ColorAt(e.state.ColorIndex),
		Segments: segments(r, h),
		Caption:  Caption(r, e.state.SortKey, e.state.ColorIndex),
	}
	switch e.state.Layout {
	case LayoutMatrix:
		cmd.CaptionVisible = true
	case LayoutLine:
		cmd.CaptionVisible = rank%captionEvery == 0 || rank == len(e.records)-1
	}
	return cmd
}

// barSize is the stacked bar footprint for the active layout. In the matrix
// it reflects the image's proportions, elsewhere its altitude.
func (e *Engine) barSize(r Record) (w, h float64) {
	st := e.stats
	if e.state.Layout == LayoutMatrix {
		w = st.ImageWidth.Scale(float64(r.ImageWidth), 10, e.canvas.IntervalWidth()-10)
		h = st.ImageHeight.Scale(float64(r.ImageHeight), 10, e.canvas.IntervalHeight()-30)
		return w, h
	}
	return 5, st.Altitude.Scale(r.Altitude, 10, 100)
}

func segments(r Record, height float64) []Segment {
	segs := make([]Segment, len(r.Counts))
	var y float64
	for i, n := range r.Counts {
		sh := float64(n) / float64(r.TotalCount) * height
		segs[i] = Segment{Color: r.Palette[i], Offset: y, Height: sh}
		y += sh
	}
	return segs
}

// Caption formats the value r is sorted by.
func Caption(r Record, key SortKey, colorIndex int) string {
	switch key {
	case SortDate:
		return fmt.Sprintf("%d-%d", r.Date.Year(), int(r.Date.Month()))
	case SortAltitude:
		return strconv.Itoa(int(math.Round(r.Altitude))) + "m"
	case SortImageWidth, SortImageHeight:
		return fmt.Sprintf("%dx%d", r.ImageWidth, r.ImageHeight)
	case SortHue:
		return strconv.Itoa(int(math.Round(r.ColorAt(colorIndex).Hue())))
	}
	return ""
}
