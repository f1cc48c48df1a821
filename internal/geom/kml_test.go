package geom

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const trackKML = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <Folder>
      <Placemark>
        <LineString>
          <coordinates>
            -122.30,47.60,10 -122.31,47.61,12
            bad -122.32,47.62
          </coordinates>
        </LineString>
      </Placemark>
    </Folder>
    <Placemark><Point><coordinates>-122.33,47.63,20</coordinates></Point></Placemark>
  </Document>
</kml>`

func TestReadTraceKML(t *testing.T) {
	pts, err := ReadTraceKML(strings.NewReader(trackKML))
	if err != nil {
		t.Fatal(err)
	}
	if len(pts) != 4 {
		t.Fatalf("points = %d, want 4", len(pts))
	}
	if p := pts[0]; p.Lng != -122.30 || p.Lat != 47.60 || p.Elevation != 10 {
		t.Errorf("first = %+v", p)
	}
	if pts[2].Elevation != 0 {
		t.Errorf("missing altitude = %v, want 0", pts[2].Elevation)
	}
	if pts[3].Elevation != 20 {
		t.Errorf("point placemark = %+v", pts[3])
	}
}

func TestReadTraceKMLErrors(t *testing.T) {
	if _, err := ReadTraceKML(strings.NewReader(`<kml><Document></Document></kml>`)); err == nil || !strings.Contains(err.Error(), "no points") {
		t.Errorf("empty: err = %v", err)
	}
	if _, err := ReadTraceKML(strings.NewReader(`<kml><coordinates>1,2`)); err == nil {
		t.Error("truncated: want error")
	}
}

func TestLoadTraceFileDispatch(t *testing.T) {
	dir := t.TempDir()
	k := filepath.Join(dir, "walk.kml")
	if err := os.WriteFile(k, []byte(trackKML), 0o644); err != nil {
		t.Fatal(err)
	}
	c := filepath.Join(dir, "walk.csv")
	if err := os.WriteFile(c, []byte("lat,lon,ele\n47.6,-122.3,10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if pts, err := LoadTraceFile(k); err != nil || len(pts) != 4 {
		t.Errorf("kml: %d points, %v", len(pts), err)
	}
	if pts, err := LoadTraceFile(c); err != nil || len(pts) != 1 {
		t.Errorf("csv: %d points, %v", len(pts), err)
	}
}
