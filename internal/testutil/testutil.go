// Package testutil builds small GTFS feeds for tests.
package testutil

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// FeedBuilder assembles a GTFS zip in memory. NewFeedBuilder starts from a
// small two-route feed; Add replaces whole files.
//
// The default feed:
//   - WK runs Monday to Friday and SAT runs Saturdays, both 2024-01-01 to 2024-06-30;
//     WK is removed on 2024-03-04.
//   - T1 (bus R1, WK) visits S1 08:00, S2 08:10/08:11, S3 08:20.
//   - TLATE (bus R1, WK) visits S1 23:50 and S2 24:10.
//   - TF (rail R2, SAT) runs S1 -> S3 in 5 minutes every 10 minutes from 08:00 to 09:00.
type FeedBuilder struct {
	files map[string]string
}

func NewFeedBuilder() *FeedBuilder {
	return (&FeedBuilder{files: map[string]string{}}).
		Add("agency.txt",
			"agency_id,agency_name,agency_url,agency_timezone",
			"A,Metro,https://example.com,America/Chicago").
		Add("routes.txt",
			"route_id,agency_id,route_type",
			"R1,A,3",
			"R2,A,2").
		Add("stops.txt",
			"stop_id,stop_name,stop_lat,stop_lon",
			"S1,First,41.0,-87.0",
			"S2,Second,41.1,-87.1",
			"S3,Third,41.2,-87.2").
		Add("transfers.txt", "from_stop_id,to_stop_id,transfer_type").
		Add("calendar.txt",
			"service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date",
			"WK,1,1,1,1,1,0,0,20240101,20240630",
			"SAT,0,0,0,0,0,1,0,20240101,20240630").
		Add("calendar_dates.txt",
			"service_id,date,exception_type",
			"WK,20240304,2").
		Add("trips.txt",
			"route_id,service_id,trip_id",
			"R1,WK,T1",
			"R1,WK,TLATE",
			"R2,SAT,TF").
		Add("stop_times.txt",
			"trip_id,arrival_time,departure_time,stop_id,stop_sequence",
			"T1,08:00:00,08:00:00,S1,1",
			"T1,08:10:00,08:11:00,S2,2",
			"T1,08:20:00,08:20:00,S3,3",
			"TLATE,23:50:00,23:50:00,S1,1",
			"TLATE,24:10:00,24:10:00,S2,2",
			"TF,00:00:00,00:00:00,S1,1",
			"TF,00:05:00,00:05:00,S3,2").
		Add("frequencies.txt",
			"trip_id,start_time,end_time,headway_secs,exact_times",
			"TF,08:00:00,09:00:00,600,1")
}

func (b *FeedBuilder) Add(name string, lines ...string) *FeedBuilder {
	b.files[name] = strings.Join(lines, "\n")
	return b
}

// Build returns the zip bytes.
func (b *FeedBuilder) Build(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range b.files {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("creating %s: %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	return buf.Bytes()
}

// WriteFile writes the zip into a temporary directory and returns its path.
func (b *FeedBuilder) WriteFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gtfs.zip")
	if err := os.WriteFile(path, b.Build(t), 0o600); err != nil {
		t.Fatalf("writing feed: %v", err)
	}
	return path
}

// WriteText writes content to name inside a temporary directory.
func WriteText(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}
