package consume

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yogita29sakhare/kafka-bench/pkg/channel"
	"github.com/yogita29sakhare/kafka-bench/pkg/stats"
)

// fakeConsumer hands out queued records, then empty polls.
type fakeConsumer struct {
	queue   []*channel.Record
	pollErr error
	closed  bool
}

func (f *fakeConsumer) Poll(ctx context.Context, timeout time.Duration) (*channel.Record, error) {
	if f.pollErr != nil {
		err := f.pollErr
		f.pollErr = nil
		return nil, err
	}
	if len(f.queue) == 0 {
		return nil, nil
	}
	rec := f.queue[0]
	f.queue = f.queue[1:]
	return rec, nil
}

func (f *fakeConsumer) Close() { f.closed = true }

func stampedRecord(emitted time.Time) *channel.Record {
	return &channel.Record{
		Value:   []byte("payload"),
		Headers: []channel.Header{{Key: channel.EmittedHeader, Value: channel.EmittedValue(emitted)}},
	}
}

func TestLoopStopsAtTarget(t *testing.T) {
	fake := &fakeConsumer{}
	for i := 0; i < 10; i++ {
		fake.queue = append(fake.queue, stampedRecord(time.Now()))
	}

	loop := &Loop{
		Channel:     fake,
		Target:      10,
		Recorder:    stats.NewRecorder(),
		PollTimeout: 10 * time.Millisecond,
	}
	consumed := loop.Run(context.Background())
	require.Equal(t, uint64(10), consumed)
	require.Equal(t, 10, loop.Recorder.Count())
}

func TestLoopCorrelatesDeliveryLatency(t *testing.T) {
	fake := &fakeConsumer{queue: []*channel.Record{stampedRecord(time.Now().Add(-250 * time.Millisecond))}}
	loop := &Loop{
		Channel:     fake,
		Target:      1,
		Recorder:    stats.NewRecorder(),
		PollTimeout: 10 * time.Millisecond,
	}
	loop.Run(context.Background())

	summary, ok := loop.Recorder.Summarize()
	require.True(t, ok)
	require.Equal(t, 1, summary.Count)
	require.InDelta(t, 250, summary.P50, 100)
}

func TestLoopIgnoresMalformedTimestamp(t *testing.T) {
	fake := &fakeConsumer{queue: []*channel.Record{
		{Value: []byte("a"), Headers: []channel.Header{{Key: channel.EmittedHeader, Value: make([]byte, 7)}}},
		{Value: []byte("b")}, // no header at all
		stampedRecord(time.Now()),
	}}
	loop := &Loop{
		Channel:     fake,
		Target:      3,
		Recorder:    stats.NewRecorder(),
		PollTimeout: 10 * time.Millisecond,
	}
	consumed := loop.Run(context.Background())

	require.Equal(t, uint64(3), consumed, "malformed records still count as consumed")
	require.Equal(t, 1, loop.Recorder.Count(), "only the well-formed header yields a sample")
}

func TestLoopZeroTargetRunsUntilCancelled(t *testing.T) {
	fake := &fakeConsumer{queue: []*channel.Record{stampedRecord(time.Now())}}
	loop := &Loop{
		Channel:     fake,
		Target:      0,
		Recorder:    stats.NewRecorder(),
		PollTimeout: 5 * time.Millisecond,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan uint64, 1)
	go func() { done <- loop.Run(ctx) }()

	require.Eventually(t, func() bool { return loop.Consumed() == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case consumed := <-done:
		require.Equal(t, uint64(1), consumed)
	case <-time.After(time.Second):
		t.Fatal("loop did not stop promptly after cancellation")
	}
}

func TestLoopContinuesAfterPollError(t *testing.T) {
	fake := &fakeConsumer{
		pollErr: context.DeadlineExceeded,
		queue:   []*channel.Record{stampedRecord(time.Now())},
	}
	loop := &Loop{
		Channel:     fake,
		Target:      1,
		Recorder:    stats.NewRecorder(),
		PollTimeout: 10 * time.Millisecond,
	}
	consumed := loop.Run(context.Background())
	require.Equal(t, uint64(1), consumed)
}
