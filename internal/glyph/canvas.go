package glyph

// Canvas is the fixed drawing geometry shared by the engine and renderers.
// A title band of TitleHeight sits above the drawing region.
type Canvas struct {
	Width       float64 `toml:"width" json:"width"`
	Height      float64 `toml:"height" json:"height"`
	TitleHeight float64 `toml:"title_height" json:"titleHeight"`
	Intervals   int     `toml:"intervals" json:"intervals"`
	MaxSpeed    float64 `toml:"max_speed" json:"maxSpeed"`
}

// DefaultCanvas is 900x700 with a 100px title band, an 11x11 matrix and a
// top speed of 10 units per tick.
func DefaultCanvas() Canvas {
	return Canvas{
		Width:       900,
		Height:      700,
		TitleHeight: 100,
		Intervals:   11,
		MaxSpeed:    10,
	}
}

func (c Canvas) DrawingHeight() float64  { return c.Height - c.TitleHeight }
func (c Canvas) IntervalWidth() float64  { return c.Width / float64(c.Intervals) }
func (c Canvas) IntervalHeight() float64 { return c.DrawingHeight() / float64(c.Intervals) }

// Center is the middle of the drawing region.
func (c Canvas) Center() Vec {
	return Vec{X: c.Width / 2, Y: c.TitleHeight + c.DrawingHeight()/2}
}

// Project places a geographic coordinate on the canvas: longitude spans the
// full width and latitude spans the drawing region with north at the top.
func (c Canvas) Project(lat, lng float64) Vec {
	return Vec{
		X: LinearMap(lng, -180, 180, 0, c.Width),
		Y: LinearMap(lat, 90, -90, c.TitleHeight, c.Height),
	}
}

// cell is the centre of matrix slot i.
func (c Canvas) cell(i int) Vec {
	col := i % c.Intervals
	row := i / c.Intervals
	return Vec{
		X: c.IntervalWidth() * (float64(col) + 0.5),
		Y: c.TitleHeight + c.IntervalHeight()*(float64(row)+0.5),
	}
}

// slot is position i of n evenly spaced along the horizontal midline.
func (c Canvas) slot(i, n int) Vec {
	iw := c.IntervalWidth()
	return Vec{
		X: float64(i)*((c.Width-iw)/float64(n)) + iw/2,
		Y: c.TitleHeight + c.DrawingHeight()/2,
	}
}
