package raster

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gogpu/gg"

	"glyphmap/internal/geom"
	"glyphmap/internal/glyph"
	"glyphmap/internal/trace"
)

// TraceFootprints projects building polygons into the trace's map panel.
func TraceFootprints(tr *trace.Trace, buildings []geom.Polygon) [][]glyph.Vec {
	out := make([][]glyph.Vec, 0, len(buildings))
	for _, b := range buildings {
		ring := make([]glyph.Vec, len(b))
		for i, pt := range b {
			ring[i] = tr.ProjectMap(pt[0], pt[1])
		}
		out = append(out, ring)
	}
	return out
}

// DrawTrace renders one trace frame: dark map and graph panels, white
// footprints and path, a fading red trail and the marker on the elevation
// profile. The caller must Close the returned context.
func (r *Renderer) DrawTrace(f trace.Frame, l trace.Layout, footprints [][]glyph.Vec) (*gg.Context, error) {
	dc := gg.NewContext(int(l.Width), int(l.Height))
	dc.ClearWithColor(gg.White)

	var errs []error
	do := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	poly := func(pts []glyph.Vec) {
		for i, p := range pts {
			if i == 0 {
				dc.MoveTo(p.X, p.Y)
			} else {
				dc.LineTo(p.X, p.Y)
			}
		}
	}

	dc.SetRGB(10.0/255, 10.0/255, 10.0/255)
	dc.DrawRectangle(l.MapRect())
	do(dc.Fill())
	dc.DrawRectangle(l.GraphRect())
	do(dc.Fill())

	dc.SetRGB(1, 1, 1)
	for _, fp := range footprints {
		poly(fp)
		dc.ClosePath()
		do(dc.Fill())
	}

	dc.SetLineWidth(1)
	poly(f.Path)
	do(dc.Stroke())

	for _, d := range f.Trail {
		dc.SetRGBA(1, 0, 0, float64(d.Opacity)/255)
		dc.DrawCircle(d.Pos.X, d.Pos.Y, d.Radius)
		do(dc.Fill())
	}

	dc.SetRGB(1, 1, 1)
	poly(f.Profile)
	dc.ClosePath()
	do(dc.Fill())

	_, gy, _, gh := l.GraphRect()
	dc.SetRGB(1, 0, 0)
	dc.DrawLine(f.Marker.GraphX, gy, f.Marker.GraphX, gy+gh)
	do(dc.Stroke())
	drawText(dc, r.caption, f.Marker.Label, f.Marker.GraphX, gy-10)

	if err := errors.Join(errs...); err != nil {
		dc.Close()
		return nil, err
	}
	return dc, nil
}

// ExportTrace writes frames of tr to dir as trace-0000.png and so on.
func (r *Renderer) ExportTrace(ctx context.Context, tr *trace.Trace, buildings []geom.Polygon, dir string, frames int) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	fps := TraceFootprints(tr, buildings)
	var paths []string
	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		dc, err := r.DrawTrace(tr.Frame(i), tr.Layout(), fps)
		if err != nil {
			return paths, err
		}
		p := filepath.Join(dir, fmt.Sprintf("trace-%04d.png", i))
		err = dc.SavePNG(p)
		dc.Close()
		if err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}
