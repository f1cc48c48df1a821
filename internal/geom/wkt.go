package geom

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
)

// LoadPolygonsWKT reads polygons from a WKT file holding one geometry per
// line.
func LoadPolygonsWKT(path string) ([]Polygon, BBox, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, BBox{}, err
	}
	return ParsePolygonsWKT(data)
}

// ParsePolygonsWKT parses POLYGON, MULTIPOLYGON and GEOMETRYCOLLECTION
// lines. Other geometry types parse but contribute nothing.
func ParsePolygonsWKT(data []byte) ([]Polygon, BBox, error) {
	var geoms []orb.Geometry
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		s := strings.TrimSpace(sc.Text())
		if s == "" {
			continue
		}
		g, err := wkt.Unmarshal(s)
		if err != nil {
			return nil, BBox{}, fmt.Errorf("wkt: line %d: %w", line, err)
		}
		geoms = append(geoms, g)
	}
	if err := sc.Err(); err != nil {
		return nil, BBox{}, fmt.Errorf("wkt: %w", err)
	}
	return collectPolygons(geoms, "wkt")
}
