// Package trace animates a marker along a GPS trace: a map of the walked
// path over building footprints and an elevation profile below it.
package trace

import (
	"errors"
	"strconv"

	"github.com/aclements/go-moremath/stats"

	"glyphmap/internal/glyph"
)

// TrailLength is how many points, ending at the marker, are drawn as a
// fading trail.
const TrailLength = 50

// Point is one GPS fix.
type Point struct {
	Lat       float64
	Lng       float64
	Elevation float64 // meters
}

// Layout positions the map panel above the elevation graph.
type Layout struct {
	Width       float64
	Height      float64
	Margin      float64
	GraphHeight float64
}

// DefaultLayout is a 600x700 canvas with 50px margins and a 100px graph.
func DefaultLayout() Layout {
	return Layout{Width: 600, Height: 700, Margin: 50, GraphHeight: 100}
}

func (l Layout) xMin() float64      { return l.Margin }
func (l Layout) xMax() float64      { return l.Width - l.Margin }
func (l Layout) graphYMin() float64 { return l.Height - (l.GraphHeight + l.Margin) }
func (l Layout) graphYMax() float64 { return l.Height - l.Margin }
func (l Layout) mapYMin() float64   { return l.Margin }
func (l Layout) mapYMax() float64   { return l.Height - (l.GraphHeight + 2*l.Margin) }

// MapRect is the map panel as x, y, width, height.
func (l Layout) MapRect() (x, y, w, h float64) {
	return l.xMin(), l.mapYMin(), l.xMax() - l.xMin(), l.mapYMax() - l.mapYMin()
}

// GraphRect is the elevation graph panel as x, y, width, height.
func (l Layout) GraphRect() (x, y, w, h float64) {
	return l.xMin(), l.graphYMin(), l.xMax() - l.xMin(), l.GraphHeight
}

// Dot is one trail marker.
type Dot struct {
	Pos     glyph.Vec
	Radius  float64
	Opacity uint8
}

// Marker is the current position on both panels.
type Marker struct {
	Index     int
	Map       glyph.Vec
	GraphX    float64
	Elevation float64
	Label     string
}

// Frame is everything needed to draw one animation frame.
type Frame struct {
	Path    []glyph.Vec // map-projected trace
	Profile []glyph.Vec // closed elevation polygon
	Trail   []Dot
	Marker  Marker
}

// Trace is a loaded trace with its bounds.
type Trace struct {
	points []Point
	layout Layout
	lat    glyph.Range
	lng    glyph.Range
	ele    glyph.Range
}

// New prepares points for drawing on layout.
func New(points []Point, layout Layout) (*Trace, error) {
	if len(points) == 0 {
		return nil, errors.New("trace: no points")
	}
	lat := make([]float64, len(points))
	lng := make([]float64, len(points))
	ele := make([]float64, len(points))
	for i, p := range points {
		lat[i], lng[i], ele[i] = p.Lat, p.Lng, p.Elevation
	}
	bounds := func(xs []float64) glyph.Range {
		lo, hi := stats.Bounds(xs)
		return glyph.Range{Min: lo, Max: hi}
	}
	return &Trace{
		points: points,
		layout: layout,
		lat:    bounds(lat),
		lng:    bounds(lng),
		ele:    bounds(ele),
	}, nil
}

// Len returns the number of points.
func (t *Trace) Len() int { return len(t.points) }

// Layout returns the trace's layout.
func (t *Trace) Layout() Layout { return t.layout }

// ProjectMap places a coordinate in the map panel, scaled to the trace's
// bounding box. Building footprints use the same projection.
func (t *Trace) ProjectMap(lng, lat float64) glyph.Vec {
	l := t.layout
	return glyph.Vec{
		X: glyph.LinearMap(lng, t.lng.Min, t.lng.Max, l.xMin(), l.xMax()),
		Y: glyph.LinearMap(lat, t.lat.Min, t.lat.Max, l.mapYMax(), l.mapYMin()),
	}
}

// Frame computes frame n. The marker advances one point per frame and wraps
// at the end of the trace.
func (t *Trace) Frame(n int) Frame {
	l := t.layout
	count := len(t.points)
	index := n % count
	if index < 0 {
		index += count
	}
	f := Frame{
		Path:    make([]glyph.Vec, 0, count),
		Profile: make([]glyph.Vec, 0, count+1),
	}
	f.Profile = append(f.Profile, glyph.Vec{X: l.xMax(), Y: l.graphYMax()})
	for i, p := range t.points {
		pos := t.ProjectMap(p.Lng, p.Lat)
		ele := glyph.LinearMap(p.Elevation, t.ele.Min, t.ele.Max, 0, l.GraphHeight)
		graphX := glyph.LinearMap(float64(i), 0, float64(count), l.xMax(), l.xMin())

		f.Path = append(f.Path, pos)
		f.Profile = append(f.Profile, glyph.Vec{X: graphX, Y: l.graphYMax() - ele})

		if i > index-TrailLength && i <= index {
			op := glyph.LinearMap(float64(i), float64(index-TrailLength), float64(index), 0, 255)
			f.Trail = append(f.Trail, Dot{Pos: pos, Radius: ele / 2, Opacity: uint8(op)})
		}
		if i == index {
			f.Marker = Marker{
				Index:     i,
				Map:       pos,
				GraphX:    graphX,
				Elevation: p.Elevation,
				Label:     strconv.FormatFloat(p.Elevation, 'f', -1, 64) + " meters",
			}
		}
	}
	return f
}
