package glyph

import (
	"time"

	"github.com/aclements/go-moremath/stats"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// MaxPalette is the number of colour slots a record carries.
const MaxPalette = 10

// RawRow is one field-named row as delivered by a data source.
type RawRow map[string]string

// RGB is an 8-bit colour triple.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Hue returns the HSV hue of c in degrees, in [0, 360).
func (c RGB) Hue() float64 {
	h, _, _ := colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hsv()
	return h
}

// Record is one photograph's metadata. Records are immutable after Ingest.
type Record struct {
	ID          int // ingest index
	Name        string
	Lat         float64
	Lng         float64
	Altitude    float64
	Date        time.Time
	ImageWidth  int
	ImageHeight int
	Palette     []RGB
	Counts      []int
	TotalCount  int
}

// ColorAt returns the palette entry at i, clamped to the palette length.
func (r Record) ColorAt(i int) RGB {
	if i >= len(r.Palette) {
		i = len(r.Palette) - 1
	}
	if i < 0 {
		i = 0
	}
	return r.Palette[i]
}

// Range is a closed numeric interval.
type Range struct {
	Min float64
	Max float64
}

// Scale maps v from r onto [outMin, outMax]. A zero-width range maps to the
// midpoint of the output.
func (r Range) Scale(v, outMin, outMax float64) float64 {
	if r.Min == r.Max {
		return (outMin + outMax) / 2
	}
	return LinearMap(v, r.Min, r.Max, outMin, outMax)
}

// Stats holds per-field bounds over a whole dataset.
type Stats struct {
	Altitude    Range
	ImageWidth  Range
	ImageHeight Range
}

// ComputeStats reduces records to their field bounds. An empty slice yields
// zero ranges.
func ComputeStats(records []Record) Stats {
	if len(records) == 0 {
		return Stats{}
	}
	alt := make([]float64, len(records))
	w := make([]float64, len(records))
	h := make([]float64, len(records))
	for i, r := range records {
		alt[i] = r.Altitude
		w[i] = float64(r.ImageWidth)
		h[i] = float64(r.ImageHeight)
	}
	bounds := func(xs []float64) Range {
		lo, hi := stats.Bounds(xs)
		return Range{Min: lo, Max: hi}
	}
	return Stats{
		Altitude:    bounds(alt),
		ImageWidth:  bounds(w),
		ImageHeight: bounds(h),
	}
}
