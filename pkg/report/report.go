// Package report renders the benchmark summary to the console and optionally
// persists it as a two-line CSV file.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

var csvHeader = []string{"broker", "concurrency", "total", "throughput_ops_sec", "p50_ms", "p95_ms"}

// Row is one benchmark result. Throughput counts acknowledged operations per
// second over the whole run including the final flush.
type Row struct {
	Broker      string
	Concurrency int
	Total       int
	Throughput  float64
	P50Ms       float64
	P95Ms       float64
}

// Print writes the summary table to w.
func (r Row) Print(w io.Writer) {
	fmt.Fprintf(w, "%-14s %12s %10s %14s %10s %10s\n",
		"broker", "concurrency", "total", "throughput/s", "p50_ms", "p95_ms")
	fmt.Fprintf(w, "%-14s %12d %10d %14.2f %10.3f %10.3f\n",
		r.Broker, r.Concurrency, r.Total, r.Throughput, r.P50Ms, r.P95Ms)
}

// WriteCSV persists the row as a header line plus one data line at path.
func (r Row) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create summary file: %w", err)
	}
	w := csv.NewWriter(f)
	records := [][]string{
		csvHeader,
		{
			r.Broker,
			strconv.Itoa(r.Concurrency),
			strconv.Itoa(r.Total),
			strconv.FormatFloat(r.Throughput, 'f', 2, 64),
			strconv.FormatFloat(r.P50Ms, 'f', 3, 64),
			strconv.FormatFloat(r.P95Ms, 'f', 3, 64),
		},
	}
	if err := w.WriteAll(records); err != nil {
		f.Close()
		return fmt.Errorf("write summary file: %w", err)
	}
	return f.Close()
}
