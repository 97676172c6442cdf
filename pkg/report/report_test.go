package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleRow() Row {
	return Row{
		Broker:      "kafka",
		Concurrency: 4,
		Total:       1000,
		Throughput:  1234.5,
		P50Ms:       2.125,
		P95Ms:       9.75,
	}
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	sampleRow().Print(&buf)

	out := buf.String()
	require.Contains(t, out, "broker")
	require.Contains(t, out, "kafka")
	require.Contains(t, out, "1234.50")
	require.Contains(t, out, "2.125")
	require.Contains(t, out, "9.750")
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.csv")
	require.NoError(t, sampleRow().WriteCSV(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2, "header plus exactly one data row")
	require.Equal(t, csvHeader, records[0])
	require.Equal(t, []string{"kafka", "4", "1000", "1234.50", "2.125", "9.750"}, records[1])
}

func TestWriteCSVBadPath(t *testing.T) {
	err := sampleRow().WriteCSV(filepath.Join(t.TempDir(), "missing", "summary.csv"))
	require.Error(t, err)
}
