package geom

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"glyphmap/internal/glyph"
	"glyphmap/internal/trace"
)

// LoadRows reads a CSV with a header row into field-named rows. Header names
// are trimmed and lower-cased.
func LoadRows(path string) ([]glyph.RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadRows(f)
}

// ReadRows is LoadRows over an arbitrary reader.
func ReadRows(r io.Reader) ([]glyph.RawRow, error) {
	header, recs, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	rows := make([]glyph.RawRow, 0, len(recs))
	for _, rec := range recs {
		row := make(glyph.RawRow, len(header))
		for i, h := range header {
			// short rows leave trailing fields absent
			if i < len(rec) {
				row[h] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readCSV(r io.Reader) (header []string, recs [][]string, err error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	all, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("csv: %w", err)
	}
	if len(all) == 0 {
		return nil, nil, errors.New("empty csv")
	}
	if len(all) == 1 {
		return nil, nil, errors.New("csv: no data rows")
	}
	header = make([]string, len(all[0]))
	for i, h := range all[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}
	return header, all[1:], nil
}

// LoadTrace reads a GPS trace CSV with latitude, longitude and elevation
// columns. Column detection: lat|latitude|y, lon|lng|long|longitude|x and
// ele|elevation|alt|altitude (case-insensitive). Rows that do not parse are
// skipped.
func LoadTrace(path string) ([]trace.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTrace(f)
}

// ReadTrace is LoadTrace over an arbitrary reader.
func ReadTrace(r io.Reader) ([]trace.Point, error) {
	header, recs, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	idxLat, idxLon, idxEle := -1, -1, -1
	for i, h := range header {
		switch h {
		case "lat", "latitude", "y":
			if idxLat == -1 {
				idxLat = i
			}
		case "lon", "lng", "long", "longitude", "x":
			if idxLon == -1 {
				idxLon = i
			}
		case "ele", "elevation", "alt", "altitude":
			if idxEle == -1 {
				idxEle = i
			}
		}
	}
	if idxLat == -1 || idxLon == -1 || idxEle == -1 {
		return nil, errors.New("csv: latitude/longitude/elevation columns not found")
	}
	var pts []trace.Point
	for _, row := range recs {
		if idxLon >= len(row) || idxLat >= len(row) || idxEle >= len(row) {
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(row[idxLon]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(row[idxLat]), 64)
		ele, err3 := strconv.ParseFloat(strings.TrimSpace(row[idxEle]), 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		pts = append(pts, trace.Point{Lat: lat, Lng: lon, Elevation: ele})
	}
	if len(pts) == 0 {
		return nil, errors.New("csv: no valid trace points parsed")
	}
	return pts, nil
}
