package glyph

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func photoRow() RawRow {
	return RawRow{
		"image_name":   "IMG_0001.jpg",
		"latitude":     "47.6062",
		"longitude":    "-122.3321",
		"altitude":     "56.4",
		"date":         "2014-07-04 12:30:00",
		"image_width":  "4032",
		"image_height": "3024",
		"red":          "[255, 0, 10]",
		"green":        "[0, 255, 20]",
		"blue":         "[0, 0, 30]",
		"color_count":  "[5, 3, 2]",
	}
}

func TestIngest(t *testing.T) {
	recs, st, err := Ingest([]RawRow{photoRow()})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	r := recs[0]
	if r.Name != "IMG_0001.jpg" || r.ImageWidth != 4032 || r.ImageHeight != 3024 {
		t.Errorf("unexpected record %+v", r)
	}
	if want := time.Date(2014, 7, 4, 12, 30, 0, 0, time.UTC); !r.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", r.Date, want)
	}
	if r.TotalCount != 10 {
		t.Errorf("TotalCount = %d, want 10", r.TotalCount)
	}
	if r.Palette[2] != (RGB{R: 10, G: 20, B: 30}) {
		t.Errorf("Palette[2] = %+v", r.Palette[2])
	}
	// A single record collapses every range to a point.
	if st.Altitude.Min != st.Altitude.Max || st.Altitude.Min != 56.4 {
		t.Errorf("Altitude range = %+v", st.Altitude)
	}
}

func TestIngestStats(t *testing.T) {
	var rows []RawRow
	for _, alt := range []string{"500", "100", "1500"} {
		row := photoRow()
		row["altitude"] = alt
		rows = append(rows, row)
	}
	rows[1]["image_width"] = "640"
	_, st, err := Ingest(rows)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if st.Altitude.Min != 100 || st.Altitude.Max != 1500 {
		t.Errorf("Altitude = %+v, want {100 1500}", st.Altitude)
	}
	if st.ImageWidth.Min != 640 || st.ImageWidth.Max != 4032 {
		t.Errorf("ImageWidth = %+v, want {640 4032}", st.ImageWidth)
	}
}

func TestIngestDateLayouts(t *testing.T) {
	for _, s := range []string{
		"2014-07-04T12:30:00Z",
		"2014:07:04 12:30:00",
		"2014-07-04",
		"2014-07",
	} {
		row := photoRow()
		row["date"] = s
		recs, _, err := Ingest([]RawRow{row})
		if err != nil {
			t.Errorf("date %q: %v", s, err)
			continue
		}
		if recs[0].Date.Year() != 2014 || recs[0].Date.Month() != time.July {
			t.Errorf("date %q parsed as %v", s, recs[0].Date)
		}
	}
}

func TestIngestValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(RawRow)
		field  string
		reason string
	}{
		{"missing altitude", func(r RawRow) { delete(r, "altitude") }, "altitude", "missing"},
		{"blank latitude", func(r RawRow) { r["latitude"] = "  " }, "latitude", "missing"},
		{"non numeric altitude", func(r RawRow) { r["altitude"] = "high" }, "altitude", "not a number"},
		{"nan altitude", func(r RawRow) { r["altitude"] = "NaN" }, "altitude", "not a finite number"},
		{"infinite altitude", func(r RawRow) { r["altitude"] = "Inf" }, "altitude", "not a finite number"},
		{"negative infinite altitude", func(r RawRow) { r["altitude"] = "-Inf" }, "altitude", "not a finite number"},
		{"nan longitude", func(r RawRow) { r["longitude"] = "nan" }, "longitude", "not a finite number"},
		{"latitude out of range", func(r RawRow) { r["latitude"] = "91" }, "latitude", "out of range"},
		{"longitude out of range", func(r RawRow) { r["longitude"] = "-181" }, "longitude", "out of range"},
		{"bad date", func(r RawRow) { r["date"] = "yesterday" }, "date", "unrecognised"},
		{"zero width", func(r RawRow) { r["image_width"] = "0" }, "image_width", "positive"},
		{"fractional height", func(r RawRow) { r["image_height"] = "10.5" }, "image_height", "positive"},
		{"malformed palette", func(r RawRow) { r["red"] = "255,0,10" }, "red", "integer array"},
		{"mismatched lengths", func(r RawRow) { r["green"] = "[0, 255]" }, "green", "does not match"},
		{"empty palette", func(r RawRow) {
			r["red"], r["green"], r["blue"], r["color_count"] = "[]", "[]", "[]", "[]"
		}, "color_count", "empty"},
		{"palette too long", func(r RawRow) {
			long := "[1,1,1,1,1,1,1,1,1,1,1]"
			r["red"], r["green"], r["blue"], r["color_count"] = long, long, long, long
		}, "color_count", "longer than"},
		{"channel out of range", func(r RawRow) { r["blue"] = "[0, 0, 256]" }, "blue", "out of range"},
		{"negative count", func(r RawRow) { r["color_count"] = "[5, -3, 2]" }, "color_count", "negative"},
		{"zero total", func(r RawRow) { r["color_count"] = "[0, 0, 0]" }, "color_count", "zero"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := photoRow()
			tt.mutate(bad)
			recs, _, err := Ingest([]RawRow{photoRow(), bad, photoRow()})
			if recs != nil {
				t.Errorf("got %d records, want none", len(recs))
			}
			var dve *DataValidationError
			if !errors.As(err, &dve) {
				t.Fatalf("err = %v, want *DataValidationError", err)
			}
			if dve.Row != 1 {
				t.Errorf("Row = %d, want 1", dve.Row)
			}
			if dve.Field != tt.field {
				t.Errorf("Field = %q, want %q", dve.Field, tt.field)
			}
			if !strings.Contains(dve.Reason, tt.reason) {
				t.Errorf("Reason = %q, want it to mention %q", dve.Reason, tt.reason)
			}
		})
	}
}

func TestIngestEmpty(t *testing.T) {
	recs, st, err := Ingest(nil)
	if err != nil {
		t.Fatalf("Ingest(nil): %v", err)
	}
	if len(recs) != 0 || st != (Stats{}) {
		t.Errorf("got %d records, stats %+v", len(recs), st)
	}
}
