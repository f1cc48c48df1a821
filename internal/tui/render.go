package tui

import (
	"math"
	"strings"

	"glyphmap/internal/geom"
	"glyphmap/internal/glyph"
)

var hoverFg = glyph.RGB{R: 0xFF, G: 0xA5, B: 0x00}

// viewport maps the canvas drawing region onto w x h terminal cells.
type viewport struct {
	c    glyph.Canvas
	w, h int
}

func (v viewport) scale() (sx, sy float64) {
	return float64(v.w*2) / v.c.Width, float64(v.h*4) / v.c.DrawingHeight()
}

// micro maps a canvas point to micro-pixel coordinates.
func (v viewport) micro(p glyph.Vec) (float64, float64) {
	sx, sy := v.scale()
	return p.X * sx, (p.Y - v.c.TitleHeight) * sy
}

// canvasAt is the canvas point under the centre of cell (cx, cy).
func (v viewport) canvasAt(cx, cy int) glyph.Vec {
	return glyph.Vec{
		X: (float64(cx) + 0.5) / float64(v.w) * v.c.Width,
		Y: v.c.TitleHeight + (float64(cy)+0.5)/float64(v.h)*v.c.DrawingHeight(),
	}
}

// renderCanvas draws a frame into braille cells. The glyph with hoverID is
// highlighted when hovering is set.
func renderCanvas(vp viewport, f glyph.Frame, backdrop []geom.Polygon, hovering bool, hoverID int) string {
	br := newBrailleBuf(vp.w, vp.h)
	if f.State.Layout == glyph.LayoutMap {
		for _, poly := range backdrop {
			ring := make([][2]int, 0, len(poly))
			for _, pt := range poly {
				x, y := vp.micro(vp.c.Project(pt[1], pt[0]))
				ring = append(ring, [2]int{int(x), int(y)})
			}
			br.fillPolygon(ring, backdropFg)
		}
	}
	sx, sy := vp.scale()
	for _, cmd := range f.Commands {
		hot := hovering && cmd.ID == hoverID
		if f.State.Style == glyph.StyleCircle {
			pos := cmd.Position
			if f.State.Layout != glyph.LayoutMap {
				pos.Y -= 10
			}
			c := cmd.Color
			if hot {
				c = hoverFg
			}
			x, y := vp.micro(pos)
			br.fillEllipse(x, y, cmd.Radius*sx, cmd.Radius*sy, c)
			continue
		}
		x0 := cmd.Position.X - cmd.Width/2
		y0 := cmd.Position.Y - cmd.Height
		for _, s := range cmd.Segments {
			c := s.Color
			if hot {
				c = hoverFg
			}
			ax, ay := vp.micro(glyph.Vec{X: x0, Y: y0 + s.Offset})
			bx, by := vp.micro(glyph.Vec{X: x0 + cmd.Width, Y: y0 + s.Offset + s.Height})
			br.fillRect(int(math.Round(ax)), int(math.Round(ay)), int(math.Round(bx))-1, int(math.Round(by))-1, c)
		}
	}
	return strings.Join(br.toLines(), "\n")
}

// nearest returns the command whose position is closest to p and no
// further than within.
func nearest(cmds []glyph.RenderCommand, p glyph.Vec, within float64) (glyph.RenderCommand, bool) {
	best := -1
	bestD := within
	for i, cmd := range cmds {
		if d := cmd.Position.Sub(p).Len(); d <= bestD {
			best, bestD = i, d
		}
	}
	if best < 0 {
		return glyph.RenderCommand{}, false
	}
	return cmds[best], true
}
