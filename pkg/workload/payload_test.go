package workload

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func unmarshalEvent(t *testing.T, raw []byte) Event {
	t.Helper()
	var ev Event
	require.NoError(t, json.Unmarshal(raw, &ev))
	return ev
}

func TestBuildPadsTowardTarget(t *testing.T) {
	for _, target := range []int{256, 512, 4096} {
		b := NewBuilder(target, 42)
		_, raw, err := b.Build("OrderPlaced", 17)
		require.NoError(t, err)
		require.LessOrEqual(t, len(raw), target)
		require.GreaterOrEqual(t, len(raw), target-PadMargin)
	}
}

func TestBuildNoPadWhenOverTarget(t *testing.T) {
	b := NewBuilder(10, 42)
	_, raw, err := b.Build("OrderPlaced", 17)
	require.NoError(t, err)
	require.Greater(t, len(raw), 10, "undersized targets must not truncate the event")
	require.False(t, bytes.Contains(raw, []byte(`"pad"`)), "no pad field expected when already over target")
}

func TestBuildFields(t *testing.T) {
	b := NewBuilder(512, 42)
	id, raw, err := b.Build("PaymentSettled", 3)
	require.NoError(t, err)

	ev := unmarshalEvent(t, raw)
	require.Equal(t, id, ev.ID)
	require.Equal(t, "PaymentSettled", ev.Type)
	require.Equal(t, 3, ev.Sequence)

	emitted, err := time.Parse(time.RFC3339Nano, ev.EmittedAt)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now(), emitted, time.Minute)
}

func TestBuildUniqueIDs(t *testing.T) {
	b := NewBuilder(512, 42)
	seen := map[string]bool{}
	for i := 1; i <= 100; i++ {
		id, _, err := b.Build("OrderPlaced", i)
		require.NoError(t, err)
		require.False(t, seen[id], "event ids must be unique")
		seen[id] = true
	}
}

func TestBuildPadReproduciblePerMessage(t *testing.T) {
	a := NewBuilder(512, 42)
	b := NewBuilder(512, 42)

	_, rawA, err := a.Build("OrderPlaced", 9)
	require.NoError(t, err)
	_, rawB, err := b.Build("OrderPlaced", 9)
	require.NoError(t, err)

	// IDs and timestamps differ, the pad must not.
	require.Equal(t, unmarshalEvent(t, rawA).Pad, unmarshalEvent(t, rawB).Pad)
}

func TestBuildPadVariesAcrossMessages(t *testing.T) {
	b := NewBuilder(512, 42)
	_, rawA, err := b.Build("OrderPlaced", 1)
	require.NoError(t, err)
	_, rawB, err := b.Build("OrderPlaced", 2)
	require.NoError(t, err)
	require.NotEqual(t, unmarshalEvent(t, rawA).Pad, unmarshalEvent(t, rawB).Pad)
}
