package geom

import (
	"context"
	"path/filepath"
	"strings"

	"glyphmap/internal/glyph"
	"glyphmap/internal/trace"
)

// IsDataset reports whether path has an extension Load understands.
func IsDataset(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// IsBackdrop reports whether path looks like a GeoJSON or WKT document.
func IsBackdrop(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json", ".wkt":
		return true
	}
	return false
}

// LoadBackdrop reads polygons from a GeoJSON or WKT file.
func LoadBackdrop(path string) ([]Polygon, BBox, error) {
	if strings.EqualFold(filepath.Ext(path), ".wkt") {
		return LoadPolygonsWKT(path)
	}
	return LoadPolygons(path)
}

// LoadTraceFile reads a track from a KML or CSV file.
func LoadTraceFile(path string) ([]trace.Point, error) {
	if strings.EqualFold(filepath.Ext(path), ".kml") {
		return LoadTraceKML(path)
	}
	return LoadTrace(path)
}

// Load reads dataset rows from a CSV or SQLite file, chosen by extension.
// table is only used for SQLite.
func Load(ctx context.Context, path, table string) ([]glyph.RawRow, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		return LoadRows(path)
	case ".db", ".sqlite", ".sqlite3":
		return LoadRowsSQLite(ctx, path, table)
	}
	return nil, &UnsupportedError{Ext: ext}
}

// UnsupportedError is returned for file types Load does not read.
type UnsupportedError struct {
	Ext string
}

func (e *UnsupportedError) Error() string { return "unsupported file: " + e.Ext }
