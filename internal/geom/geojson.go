package geom

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// LoadPolygons reads a GeoJSON file and returns the outer ring of every
// Polygon and MultiPolygon member, e.g. country or building footprints.
// Supports FeatureCollection, Feature and bare geometries.
func LoadPolygons(path string) ([]Polygon, BBox, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, BBox{}, err
	}
	return ParsePolygons(data)
}

// ParsePolygons is LoadPolygons over an in-memory document.
func ParsePolygons(data []byte) ([]Polygon, BBox, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, BBox{}, err
	}
	var geoms []orb.Geometry
	switch head.Type {
	case "":
		return nil, BBox{}, errors.New("invalid geojson: missing type")
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, BBox{}, err
		}
		for _, f := range fc.Features {
			geoms = append(geoms, f.Geometry)
		}
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, BBox{}, err
		}
		geoms = append(geoms, f.Geometry)
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, BBox{}, err
		}
		geoms = append(geoms, g.Geometry())
	}

	return collectPolygons(geoms, "geojson")
}

// collectPolygons keeps the outer ring of every polygon in geoms, descending
// into multi-polygons and collections.
func collectPolygons(geoms []orb.Geometry, format string) ([]Polygon, BBox, error) {
	var (
		polys []Polygon
		bbox  BBox
		seen  bool
	)
	addRing := func(r orb.Ring) {
		if len(r) < 3 {
			return
		}
		p := make(Polygon, len(r))
		for i, pt := range r {
			p[i] = [2]float64{pt[0], pt[1]}
			bbox.extend(p[i], !seen)
			seen = true
		}
		polys = append(polys, p)
	}
	var walk func(g orb.Geometry)
	walk = func(g orb.Geometry) {
		switch g := g.(type) {
		case orb.Polygon:
			if len(g) > 0 {
				addRing(g[0])
			}
		case orb.MultiPolygon:
			for _, p := range g {
				walk(p)
			}
		case orb.Collection:
			for _, m := range g {
				walk(m)
			}
		}
	}
	for _, g := range geoms {
		if g != nil {
			walk(g)
		}
	}
	if len(polys) == 0 {
		return nil, BBox{}, errors.New(format + ": no polygons found")
	}
	return polys, bbox, nil
}
