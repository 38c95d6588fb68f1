// Package export writes measurement history to disk.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pingmon/pingmon/internal/measure"
)

// csvHeader is the first row of every exported file.
var csvHeader = []string{"ts_iso", "host", "latency_ms", "loss"}

// WriteCSV writes measurements to path in CSV form, one row per sample.
// Lost samples get a blank latency column. A .csv extension is appended
// if the path lacks one.
func WriteCSV(path string, samples []measure.Measurement) (string, error) {
	if path == "" {
		return "", fmt.Errorf("export path is empty")
	}
	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		path += ".csv"
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("writing header: %w", err)
	}
	for _, m := range samples {
		if err := w.Write(row(m)); err != nil {
			return "", fmt.Errorf("writing row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing export: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing export file: %w", err)
	}
	return path, nil
}

func row(m measure.Measurement) []string {
	latency := ""
	loss := "0"
	if m.Loss {
		loss = "1"
	} else {
		latency = strconv.FormatFloat(m.LatencyMS, 'f', 2, 64)
	}
	return []string{
		m.TS.Format(time.RFC3339),
		m.Host,
		latency,
		loss,
	}
}

// DefaultPath returns a timestamped export path in dir.
func DefaultPath(dir string) string {
	name := fmt.Sprintf("pingmon-%s.csv", time.Now().Format("20060102-150405"))
	return filepath.Join(dir, name)
}
