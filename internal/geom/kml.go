package geom

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"glyphmap/internal/trace"
)

// LoadTraceKML reads a track from a KML file.
func LoadTraceKML(path string) ([]trace.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTraceKML(f)
}

// ReadTraceKML collects every <coordinates> element in document order,
// wherever it is nested (Point, LineString, Folder). KML tuples are
// "lon,lat[,alt]"; a missing altitude reads as zero. Malformed tuples are
// skipped.
func ReadTraceKML(r io.Reader) ([]trace.Point, error) {
	dec := xml.NewDecoder(r)
	var pts []trace.Point
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("kml: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "coordinates" {
			continue
		}
		var text string
		if err := dec.DecodeElement(&text, &se); err != nil {
			return nil, fmt.Errorf("kml: %w", err)
		}
		// coordinates may contain multiple tuples separated by spaces
		for _, tuple := range strings.Fields(text) {
			if p, ok := parseKMLTuple(tuple); ok {
				pts = append(pts, p)
			}
		}
	}
	if len(pts) == 0 {
		return nil, errors.New("kml: no points found")
	}
	return pts, nil
}

func parseKMLTuple(tuple string) (trace.Point, bool) {
	vals := strings.Split(tuple, ",")
	if len(vals) < 2 {
		return trace.Point{}, false
	}
	lon, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
	lat, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
	if err1 != nil || err2 != nil {
		return trace.Point{}, false
	}
	p := trace.Point{Lat: lat, Lng: lon}
	if len(vals) > 2 {
		if ele, err := strconv.ParseFloat(strings.TrimSpace(vals[2]), 64); err == nil {
			p.Elevation = ele
		}
	}
	return p, true
}
