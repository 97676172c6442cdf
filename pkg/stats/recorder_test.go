package stats

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSummarizeEmpty(t *testing.T) {
	r := NewRecorder()
	_, ok := r.Summarize()
	require.False(t, ok, "an empty recorder must be distinguishable from a zero-latency result")
}

func TestSummarizeSingleSample(t *testing.T) {
	r := NewRecorder()
	r.Record(12.5)

	s, ok := r.Summarize()
	require.True(t, ok)
	require.Equal(t, 1, s.Count)
	require.Equal(t, 12.5, s.P50)
	require.Equal(t, 12.5, s.P95)
	require.Equal(t, 12.5, s.Min)
	require.Equal(t, 12.5, s.Max)
}

func TestSummarizeNearestRank(t *testing.T) {
	r := NewRecorder()
	// 1..100 shuffled; nearest rank on n=100: p50 -> index 49, p95 -> index 94.
	vals := rand.New(rand.NewSource(1)).Perm(100)
	for _, v := range vals {
		r.Record(float64(v + 1))
	}

	s, ok := r.Summarize()
	require.True(t, ok)
	require.Equal(t, 100, s.Count)
	require.Equal(t, 50.0, s.P50)
	require.Equal(t, 95.0, s.P95)
	require.Equal(t, 1.0, s.Min)
	require.Equal(t, 100.0, s.Max)
}

func TestSummarizeOrdering(t *testing.T) {
	r := NewRecorder()
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 1234; i++ {
		r.Record(rng.Float64() * 500)
	}

	s, ok := r.Summarize()
	require.True(t, ok)
	require.LessOrEqual(t, s.Min, s.P50)
	require.LessOrEqual(t, s.P50, s.P95)
	require.LessOrEqual(t, s.P95, s.Max)
}

func TestNearestRankBounds(t *testing.T) {
	sorted := []float64{1, 2, 3}
	require.Equal(t, 1.0, nearestRank(sorted, 0.001))
	require.Equal(t, 3.0, nearestRank(sorted, 100))
}

func TestRecordConcurrent(t *testing.T) {
	r := NewRecorder()
	const workers, perWorker = 8, 1000

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				r.Record(float64(w*perWorker + i))
			}
		}(w)
	}
	wg.Wait()

	s, ok := r.Summarize()
	require.True(t, ok)
	require.Equal(t, workers*perWorker, s.Count, "no sample may be lost under concurrent appends")
}
