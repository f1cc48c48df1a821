package raster

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"glyphmap/internal/geom"
	"glyphmap/internal/glyph"
)

// Script is called before frame i is stepped. It lets callers drive mode
// changes over an export, standing in for key presses.
type Script func(i int, e *glyph.Engine)

// CycleLayouts advances the layout every n frames.
func CycleLayouts(n int) Script {
	return func(i int, e *glyph.Engine) {
		if n > 0 && i > 0 && i%n == 0 {
			e.AdvanceLayoutMode()
		}
	}
}

// Export steps e frames times and writes each frame to dir as
// frame-0000.png, frame-0001.png and so on. It stops early when ctx is
// done. The written paths are returned.
func (r *Renderer) Export(ctx context.Context, e *glyph.Engine, backdrop []geom.Polygon, dir string, frames int, script Script) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	var paths []string
	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		if script != nil {
			script(i, e)
		}
		p := filepath.Join(dir, fmt.Sprintf("frame-%04d.png", i))
		if err := r.writeFile(p, e.Step(), backdrop); err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	r.log.Info("raster: exported frames", "dir", dir, "frames", len(paths))
	return paths, nil
}

func (r *Renderer) writeFile(path string, f glyph.Frame, backdrop []geom.Polygon) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.WritePNG(out, f, backdrop); err != nil {
		out.Close()
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return out.Close()
}
