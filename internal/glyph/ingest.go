package glyph

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/golang/geo/s2"
)

// DataValidationError reports a malformed input row.
type DataValidationError struct {
	Row    int // 0-based index into the rows passed to Ingest
	Field  string
	Reason string
}

func (e *DataValidationError) Error() string {
	return fmt.Sprintf("row %d: field %q: %s", e.Row, e.Field, e.Reason)
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006:01:02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006-01",
}

// Ingest validates rows and converts them to records plus dataset bounds.
// It fails on the first bad row and returns no records in that case.
func Ingest(rows []RawRow) ([]Record, Stats, error) {
	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		rec, err := parseRow(i, row)
		if err != nil {
			return nil, Stats{}, err
		}
		records = append(records, rec)
	}
	return records, ComputeStats(records), nil
}

func parseRow(idx int, row RawRow) (Record, error) {
	bad := func(field, reason string) error {
		return &DataValidationError{Row: idx, Field: field, Reason: reason}
	}
	field := func(name string) (string, error) {
		v, ok := row[name]
		v = strings.TrimSpace(v)
		if !ok || v == "" {
			return "", bad(name, "missing")
		}
		return v, nil
	}
	num := func(name string) (float64, error) {
		s, err := field(name)
		if err != nil {
			return 0, err
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, bad(name, "not a number: "+strconv.Quote(s))
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, bad(name, "not a finite number: "+strconv.Quote(s))
		}
		return f, nil
	}
	dim := func(name string) (int, error) {
		f, err := num(name)
		if err != nil {
			return 0, err
		}
		if f <= 0 || f != float64(int(f)) {
			return 0, bad(name, "must be a positive integer")
		}
		return int(f), nil
	}
	ints := func(name string) ([]int, error) {
		s, err := field(name)
		if err != nil {
			return nil, err
		}
		var out []int
		if err := json.Unmarshal([]byte(s), &out); err != nil {
			return nil, bad(name, "not an integer array")
		}
		return out, nil
	}

	var rec Record
	rec.ID = idx
	rec.Name = strings.TrimSpace(row["image_name"])

	lat, err := num("latitude")
	if err != nil {
		return Record{}, err
	}
	lng, err := num("longitude")
	if err != nil {
		return Record{}, err
	}
	if !s2.LatLngFromDegrees(lat, 0).IsValid() {
		return Record{}, bad("latitude", "out of range [-90, 90]")
	}
	if !s2.LatLngFromDegrees(0, lng).IsValid() {
		return Record{}, bad("longitude", "out of range [-180, 180]")
	}
	rec.Lat, rec.Lng = lat, lng

	if rec.Altitude, err = num("altitude"); err != nil {
		return Record{}, err
	}

	ds, err := field("date")
	if err != nil {
		return Record{}, err
	}
	if rec.Date, err = parseDate(ds); err != nil {
		return Record{}, bad("date", "unrecognised date "+strconv.Quote(ds))
	}

	if rec.ImageWidth, err = dim("image_width"); err != nil {
		return Record{}, err
	}
	if rec.ImageHeight, err = dim("image_height"); err != nil {
		return Record{}, err
	}

	var channels [3][]int
	for c, name := range []string{"red", "green", "blue"} {
		if channels[c], err = ints(name); err != nil {
			return Record{}, err
		}
	}
	counts, err := ints("color_count")
	if err != nil {
		return Record{}, err
	}
	if len(counts) == 0 {
		return Record{}, bad("color_count", "empty palette")
	}
	if len(counts) > MaxPalette {
		return Record{}, bad("color_count", fmt.Sprintf("palette longer than %d", MaxPalette))
	}
	for c, name := range []string{"red", "green", "blue"} {
		if len(channels[c]) != len(counts) {
			return Record{}, bad(name, fmt.Sprintf("length %d does not match color_count length %d", len(channels[c]), len(counts)))
		}
		for _, v := range channels[c] {
			if v < 0 || v > 255 {
				return Record{}, bad(name, fmt.Sprintf("channel value %d out of range [0, 255]", v))
			}
		}
	}
	rec.Palette = make([]RGB, len(counts))
	for i := range counts {
		if counts[i] < 0 {
			return Record{}, bad("color_count", "negative count")
		}
		rec.TotalCount += counts[i]
		rec.Palette[i] = RGB{R: uint8(channels[0][i]), G: uint8(channels[1][i]), B: uint8(channels[2][i])}
	}
	if rec.TotalCount == 0 {
		return Record{}, bad("color_count", "total count is zero")
	}
	rec.Counts = counts
	return rec, nil
}

func parseDate(s string) (time.Time, error) {
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
