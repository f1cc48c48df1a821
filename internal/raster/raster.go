// Package raster draws glyph frames and trace frames into images with the
// gg software rasterizer.
package raster

import (
	"errors"
	"io"
	"log/slog"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"glyphmap/internal/geom"
	"glyphmap/internal/glyph"
)

// Renderer turns frames into pictures of a fixed canvas.
type Renderer struct {
	canvas   glyph.Canvas
	fontSize float64
	source   *text.FontSource
	title    text.Face
	subtitle text.Face
	caption  text.Face
	log      *slog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithFontSize sets the caption size in points. Titles scale from it.
// Zero disables text.
func WithFontSize(pt float64) Option { return func(r *Renderer) { r.fontSize = pt } }

// WithLogger sets the renderer's logger.
func WithLogger(l *slog.Logger) Option { return func(r *Renderer) { r.log = l } }

// New creates a renderer for canvas using the embedded Go Regular font.
func New(canvas glyph.Canvas, opts ...Option) (*Renderer, error) {
	r := &Renderer{canvas: canvas, fontSize: 12, log: glyph.Logger()}
	for _, opt := range opts {
		opt(r)
	}
	if r.fontSize > 0 {
		src, err := text.NewFontSource(goregular.TTF)
		if err != nil {
			return nil, err
		}
		r.source = src
		r.caption = src.Face(r.fontSize)
		r.subtitle = src.Face(r.fontSize * 1.5)
		r.title = src.Face(r.fontSize * 2)
	}
	return r, nil
}

// Close releases the font.
func (r *Renderer) Close() error {
	if r.source == nil {
		return nil
	}
	return r.source.Close()
}

// Canvas returns the geometry the renderer draws.
func (r *Renderer) Canvas() glyph.Canvas { return r.canvas }

func setRGB(dc *gg.Context, c glyph.RGB) {
	dc.SetRGB(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
}

func drawText(dc *gg.Context, face text.Face, s string, x, y float64) {
	if face == nil || s == "" {
		return
	}
	dc.SetFont(face)
	dc.DrawStringAnchored(s, x, y, 0.5, 0.5)
}

// Draw renders one glyph frame. backdrop polygons (lon, lat rings) are only
// shown in the map layout. The caller owns the returned context and must
// Close it.
func (r *Renderer) Draw(f glyph.Frame, backdrop []geom.Polygon) (*gg.Context, error) {
	c := r.canvas
	dc := gg.NewContext(int(c.Width), int(c.Height))
	dc.ClearWithColor(gg.White)

	var errs []error
	fill := func() {
		if err := dc.Fill(); err != nil {
			errs = append(errs, err)
		}
	}

	if f.State.Layout == glyph.LayoutMap {
		dc.SetRGB(240.0/255, 240.0/255, 240.0/255)
		for _, poly := range backdrop {
			for i, pt := range poly {
				p := c.Project(pt[1], pt[0])
				if i == 0 {
					dc.MoveTo(p.X, p.Y)
				} else {
					dc.LineTo(p.X, p.Y)
				}
			}
			dc.ClosePath()
			fill()
		}
	}

	dc.SetRGB(0, 0, 0)
	drawText(dc, r.title, f.Title, c.Width/2, c.TitleHeight/2)
	drawText(dc, r.subtitle, f.Subtitle, c.Width/2, c.TitleHeight-25)

	captionDrop := 20.0
	if f.State.Layout == glyph.LayoutLine {
		captionDrop = 30
	}
	for _, cmd := range f.Commands {
		if f.State.Style == glyph.StyleCircle {
			y := cmd.Position.Y
			if f.State.Layout != glyph.LayoutMap {
				y -= 10
			}
			setRGB(dc, cmd.Color)
			dc.DrawCircle(cmd.Position.X, y, cmd.Radius)
			fill()
		} else {
			x0 := cmd.Position.X - cmd.Width/2
			y0 := cmd.Position.Y - cmd.Height
			for _, s := range cmd.Segments {
				setRGB(dc, s.Color)
				dc.DrawRectangle(x0, y0+s.Offset, cmd.Width, s.Height)
				fill()
			}
		}
		if cmd.CaptionVisible {
			dc.SetRGB(0, 0, 0)
			drawText(dc, r.caption, cmd.Caption, cmd.Position.X, cmd.Position.Y+captionDrop)
		}
	}
	if err := errors.Join(errs...); err != nil {
		dc.Close()
		return nil, err
	}
	return dc, nil
}

// WritePNG renders f and encodes it to w.
func (r *Renderer) WritePNG(w io.Writer, f glyph.Frame, backdrop []geom.Polygon) error {
	dc, err := r.Draw(f, backdrop)
	if err != nil {
		return err
	}
	defer dc.Close()
	return dc.EncodePNG(w)
}
