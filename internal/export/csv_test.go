package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pingmon/pingmon/internal/measure"
)

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening export: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	return rows
}

func TestWriteCSV(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	samples := []measure.Measurement{
		{TS: ts, Host: "example.com", LatencyMS: 12.3},
		{TS: ts.Add(time.Second), Host: "example.com", Loss: true},
		{TS: ts.Add(2 * time.Second), Host: "8.8.8.8", LatencyMS: 7},
	}

	path := filepath.Join(t.TempDir(), "out.csv")
	got, err := WriteCSV(path, samples)
	if err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if got != path {
		t.Errorf("returned path %q, want %q", got, path)
	}

	rows := readRows(t, path)
	want := [][]string{
		{"ts_iso", "host", "latency_ms", "loss"},
		{"2026-03-14T09:26:53Z", "example.com", "12.30", "0"},
		{"2026-03-14T09:26:54Z", "example.com", "", "1"},
		{"2026-03-14T09:26:55Z", "8.8.8.8", "7.00", "0"},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i := range want {
		if strings.Join(rows[i], "|") != strings.Join(want[i], "|") {
			t.Errorf("row %d = %v, want %v", i, rows[i], want[i])
		}
	}
}

func TestWriteCSV_AppendsExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples")
	got, err := WriteCSV(path, nil)
	if err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if got != path+".csv" {
		t.Errorf("path = %q, want %q", got, path+".csv")
	}
	if rows := readRows(t, got); len(rows) != 1 {
		t.Errorf("empty export has %d rows, want header only", len(rows))
	}
}

func TestWriteCSV_KeepsUppercaseExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.CSV")
	got, err := WriteCSV(path, nil)
	if err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if got != path {
		t.Errorf("path = %q, want %q", got, path)
	}
}

func TestWriteCSV_EmptyPath(t *testing.T) {
	if _, err := WriteCSV("", nil); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestDefaultPath(t *testing.T) {
	p := DefaultPath("/tmp")
	if filepath.Dir(p) != "/tmp" {
		t.Errorf("dir = %q, want /tmp", filepath.Dir(p))
	}
	base := filepath.Base(p)
	if !strings.HasPrefix(base, "pingmon-") || !strings.HasSuffix(base, ".csv") {
		t.Errorf("unexpected file name %q", base)
	}
}
