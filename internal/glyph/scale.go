package glyph

import "math"

// LinearMap maps v from [inMin, inMax] onto [outMin, outMax]. The result is
// not clamped. A degenerate input range returns outMin.
func LinearMap(v, inMin, inMax, outMin, outMax float64) float64 {
	if inMin == inMax {
		return outMin
	}
	return outMin + (v-inMin)*(outMax-outMin)/(inMax-inMin)
}

// Vec is a screen-space point or displacement.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }

// Scale multiplies both components by k.
func (v Vec) Scale(k float64) Vec { return Vec{v.X * k, v.Y * k} }

// Len is the Euclidean magnitude.
func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }

// Clamp shortens v to at most max, keeping its direction.
func (v Vec) Clamp(max float64) Vec {
	l := v.Len()
	if l <= max || l == 0 {
		return v
	}
	return v.Scale(max / l)
}
