package workload

import (
	"fmt"
	"math/rand"
)

// Band is one entry of a cumulative probability table: a draw in
// [prevCum, Cum) selects Label.
type Band struct {
	Label string
	Cum   float64
}

// Mix is an ordered cumulative-weight table over message type labels.
type Mix []Band

// DefaultMix is the standard benchmark message mix: 70% OrderPlaced,
// 20% PaymentSettled, 10% InventoryAdjusted.
func DefaultMix() Mix {
	return Mix{
		{Label: "OrderPlaced", Cum: 0.70},
		{Label: "PaymentSettled", Cum: 0.90},
		{Label: "InventoryAdjusted", Cum: 1.00},
	}
}

// Validate checks that cumulative weights are non-decreasing and end at 1.0.
func (m Mix) Validate() error {
	if len(m) == 0 {
		return fmt.Errorf("mix has no bands")
	}
	prev := 0.0
	for i, b := range m {
		if b.Label == "" {
			return fmt.Errorf("mix band %d has an empty label", i)
		}
		if b.Cum < prev {
			return fmt.Errorf("mix band %d (%s): cumulative weight %v decreases below %v", i, b.Label, b.Cum, prev)
		}
		prev = b.Cum
	}
	if m[len(m)-1].Cum != 1.0 {
		return fmt.Errorf("mix cumulative weights end at %v, want 1.0", prev)
	}
	return nil
}

// pick maps one uniform draw in [0,1) through the cumulative table.
func (m Mix) pick(u float64) string {
	for _, b := range m {
		if u < b.Cum {
			return b.Label
		}
	}
	return m[len(m)-1].Label
}

// Sequence generates the ordered type labels for an entire run. The result
// depends only on (total, seed, mix) and never on how many workers later
// consume it, so reruns at different concurrency levels replay the same
// logical workload. The returned slice is built once and is safe for
// concurrent read-only access.
func Sequence(total int, seed int64, m Mix) []string {
	rng := rand.New(rand.NewSource(seed))
	seq := make([]string, total)
	for i := range seq {
		seq[i] = m.pick(rng.Float64())
	}
	return seq
}
