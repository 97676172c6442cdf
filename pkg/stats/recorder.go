// Package stats collects latency samples from concurrent workers and
// summarizes them with nearest-rank percentiles.
package stats

import (
	"math"
	"sort"
	"sync"
)

// Recorder accumulates duration samples, in milliseconds, from any number of
// goroutines. Samples are append-only until Summarize drains them; Summarize
// must not run concurrently with Record.
type Recorder struct {
	mu      sync.Mutex
	samples []float64
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Record(ms float64) {
	r.mu.Lock()
	r.samples = append(r.samples, ms)
	r.mu.Unlock()
}

func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.samples)
}

// Summary holds nearest-rank percentiles over a set of samples.
type Summary struct {
	Count int
	Min   float64
	Max   float64
	P50   float64
	P95   float64
}

// Summarize sorts the accumulated samples ascending and computes nearest-rank
// percentiles. ok is false when nothing was recorded; callers must treat that
// distinctly from a genuine zero-latency result.
func (r *Recorder) Summarize() (s Summary, ok bool) {
	r.mu.Lock()
	samples := make([]float64, len(r.samples))
	copy(samples, r.samples)
	r.mu.Unlock()

	if len(samples) == 0 {
		return Summary{}, false
	}
	sort.Float64s(samples)
	return Summary{
		Count: len(samples),
		Min:   samples[0],
		Max:   samples[len(samples)-1],
		P50:   nearestRank(samples, 50),
		P95:   nearestRank(samples, 95),
	}, true
}

// nearestRank picks the sample at index ceil(p/100*n)-1 of the ascending
// slice rather than interpolating between neighbors.
func nearestRank(sorted []float64, p float64) float64 {
	idx := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
