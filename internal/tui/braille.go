package tui

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"glyphmap/internal/glyph"
)

// brailleBuf is a 2x4 micro-pixel grid per terminal cell. Each cell keeps
// the colour of the last pixel written into it.
type brailleBuf struct {
	w, h int       // in cells
	m    [][]uint8 // per-cell 8-bit mask
	fg   [][]glyph.RGB
	set  [][]bool
}

func newBrailleBuf(w, h int) *brailleBuf {
	b := &brailleBuf{w: w, h: h}
	b.m = make([][]uint8, h)
	b.fg = make([][]glyph.RGB, h)
	b.set = make([][]bool, h)
	for i := range b.m {
		b.m[i] = make([]uint8, w)
		b.fg[i] = make([]glyph.RGB, w)
		b.set[i] = make([]bool, w)
	}
	return b
}

var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// setPixel sets a micro-pixel at micro coords (2x4 per cell)
func (b *brailleBuf) setPixel(mx, my int, c glyph.RGB) {
	if mx < 0 || my < 0 {
		return
	}
	cx, rx := mx/2, mx%2
	cy, ry := my/4, my%4
	if cy >= b.h || cx >= b.w {
		return
	}
	b.m[cy][cx] |= dotBits[rx][ry]
	b.fg[cy][cx] = c
	b.set[cy][cx] = true
}

// fillRect fills micro-pixels in [x0,x1]x[y0,y1].
func (b *brailleBuf) fillRect(x0, y0, x1, y1 int, c glyph.RGB) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for y := max(0, y0); y <= min(y1, b.h*4-1); y++ {
		for x := max(0, x0); x <= min(x1, b.w*2-1); x++ {
			b.setPixel(x, y, c)
		}
	}
}

// fillEllipse fills an axis-aligned ellipse centred on (cx, cy).
func (b *brailleBuf) fillEllipse(cx, cy, rx, ry float64, c glyph.RGB) {
	rx, ry = math.Max(rx, 0.5), math.Max(ry, 0.5)
	for y := int(math.Floor(cy - ry)); y <= int(math.Ceil(cy+ry)); y++ {
		dy := (float64(y) - cy) / ry
		if dy*dy > 1 {
			continue
		}
		half := rx * math.Sqrt(1-dy*dy)
		b.fillRect(int(math.Round(cx-half)), y, int(math.Round(cx+half)), y, c)
	}
}

// fillPolygon fills a ring with the even-odd rule, one scanline per
// micro-row.
func (b *brailleBuf) fillPolygon(ring [][2]int, c glyph.RGB) {
	if len(ring) < 3 {
		return
	}
	for yMic := 0; yMic < b.h*4; yMic++ {
		var xs []int
		for i := range ring {
			p, q := ring[i], ring[(i+1)%len(ring)]
			if p[1] == q[1] { // horizontal edge: skip
				continue
			}
			y0, y1 := p[1], q[1]
			if (yMic >= y0 && yMic < y1) || (yMic >= y1 && yMic < y0) {
				t := float64(yMic-y0) / float64(y1-y0)
				xs = append(xs, int(float64(p[0])+t*float64(q[0]-p[0])))
			}
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			b.fillRect(xs[i], yMic, xs[i+1], yMic, c)
		}
	}
}

// drawLineMicro draws a line on the microgrid using Bresenham
func (b *brailleBuf) drawLineMicro(x0, y0, x1, y1 int, c glyph.RGB) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func hex(c glyph.RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B))
}

// toLines renders the grid, colouring runs of cells that share a colour.
func (b *brailleBuf) toLines() []string {
	out := make([]string, b.h)
	for y := 0; y < b.h; y++ {
		var sb strings.Builder
		var run []rune
		var runFg glyph.RGB
		runSet := false
		flush := func() {
			if len(run) == 0 {
				return
			}
			if runSet {
				sb.WriteString(lipgloss.NewStyle().Foreground(hex(runFg)).Render(string(run)))
			} else {
				sb.WriteString(string(run))
			}
			run = run[:0]
		}
		for x := 0; x < b.w; x++ {
			r := ' '
			if mask := b.m[y][x]; mask != 0 {
				r = rune(0x2800 + int(mask))
			}
			set := b.set[y][x]
			if set != runSet || (set && b.fg[y][x] != runFg) {
				flush()
				runSet, runFg = set, b.fg[y][x]
			}
			run = append(run, r)
		}
		flush()
		out[y] = sb.String()
	}
	return out
}
