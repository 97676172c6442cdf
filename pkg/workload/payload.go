package workload

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// PadMargin is the headroom subtracted from the pad length so the pad
// field's own JSON framing does not push the payload past the target.
const PadMargin = 16

const padAlphabet = "abcdefghijklmnopqrstuvwxyz"

// Event is the serialized message body. Pad is filled with deterministic
// filler characters to reach the configured target size.
type Event struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Sequence    int    `json:"sequence"`
	EmittedAt   string `json:"emitted_at"`
	SKU         string `json:"sku"`
	Quantity    int    `json:"quantity"`
	AmountCents int    `json:"amount_cents"`
	Pad         string `json:"pad,omitempty"`
}

// Builder constructs size-targeted payloads. Padding for sequence index i is
// seeded with Seed+i, reproducible per message without repeating across
// messages.
type Builder struct {
	TargetBytes int
	Seed        int64
}

func NewBuilder(targetBytes int, seed int64) *Builder {
	return &Builder{TargetBytes: targetBytes, Seed: seed}
}

// Build serializes one event for the given type and sequence index, padded
// toward TargetBytes. If the unpadded form already meets or exceeds the
// target it is returned as-is, never truncated. The returned id is the
// event's unique identifier, usable as the message key.
func (b *Builder) Build(typ string, sequence int) (id string, value []byte, err error) {
	u, err := uuid.NewV7()
	if err != nil {
		return "", nil, fmt.Errorf("new event id: %w", err)
	}
	ev := Event{
		ID:          u.String(),
		Type:        typ,
		Sequence:    sequence,
		EmittedAt:   time.Now().UTC().Format(time.RFC3339Nano),
		SKU:         fmt.Sprintf("sku-%04d", sequence%1000),
		Quantity:    1 + sequence%9,
		AmountCents: 100 + sequence%9900,
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		return "", nil, fmt.Errorf("marshal event: %w", err)
	}
	padNeeded := b.TargetBytes - len(raw) - PadMargin
	if padNeeded <= 0 {
		return ev.ID, raw, nil
	}
	ev.Pad = pad(b.Seed+int64(sequence), padNeeded)
	raw, err = json.Marshal(ev)
	if err != nil {
		return "", nil, fmt.Errorf("marshal padded event: %w", err)
	}
	return ev.ID, raw, nil
}

func pad(seed int64, n int) string {
	rng := rand.New(rand.NewSource(seed))
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = padAlphabet[rng.Intn(len(padAlphabet))]
	}
	return string(buf)
}
