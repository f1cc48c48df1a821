package geom

import (
	"testing"
)

const world = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"name": "A"},
     "geometry": {"type": "Polygon", "coordinates": [[[0,0],[10,0],[10,10],[0,0]]]}},
    {"type": "Feature", "properties": {"name": "B"},
     "geometry": {"type": "MultiPolygon", "coordinates": [
       [[[-20,-5],[-15,-5],[-15,5],[-20,-5]]],
       [[[30,40],[35,40],[35,45],[30,40]]]
     ]}},
    {"type": "Feature", "properties": {}, "geometry": {"type": "Point", "coordinates": [100, 80]}}
  ]
}`

func TestParsePolygons(t *testing.T) {
	polys, bb, err := ParsePolygons([]byte(world))
	if err != nil {
		t.Fatalf("ParsePolygons: %v", err)
	}
	if len(polys) != 3 {
		t.Fatalf("got %d polygons, want 3", len(polys))
	}
	if polys[0][1] != [2]float64{10, 0} {
		t.Errorf("polys[0][1] = %v", polys[0][1])
	}
	want := BBox{MinX: -20, MinY: -5, MaxX: 35, MaxY: 45}
	if bb != want {
		t.Errorf("bbox = %+v, want %+v (points are not polygons)", bb, want)
	}
}

func TestParsePolygonsBareGeometry(t *testing.T) {
	polys, _, err := ParsePolygons([]byte(`{"type":"Polygon","coordinates":[[[1,1],[2,1],[2,2],[1,1]],[[1.2,1.2],[1.3,1.2],[1.3,1.3],[1.2,1.2]]]}`))
	if err != nil {
		t.Fatalf("ParsePolygons: %v", err)
	}
	if len(polys) != 1 {
		t.Errorf("got %d polygons, want outer ring only", len(polys))
	}
}

func TestParsePolygonsErrors(t *testing.T) {
	tests := map[string]string{
		"not json":     `nope`,
		"missing type": `{"features": []}`,
		"no polygons":  `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[1,2]}}]}`,
	}
	for name, in := range tests {
		if _, _, err := ParsePolygons([]byte(in)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
