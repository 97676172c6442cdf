// Package consume receives benchmark records and correlates the embedded
// emission timestamp into end-to-end delivery latency.
package consume

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yogita29sakhare/kafka-bench/pkg/channel"
	"github.com/yogita29sakhare/kafka-bench/pkg/stats"
)

// Loop polls records until Target records were consumed or the context is
// cancelled. A zero Target runs until cancellation, for continuous
// monitoring. The loop is single-threaded; the bounded poll wait keeps
// cancellation latency bounded even on an idle topic.
type Loop struct {
	Channel     channel.Consumer
	Target      uint64
	Recorder    *stats.Recorder
	PollTimeout time.Duration
	Histogram   prometheus.Observer // optional

	consumed atomic.Uint64
}

// Run returns the number of consumed records. Poll errors are logged and the
// loop continues; only cancellation or the target count stop it. The caller
// owns the channel and must Close it before reporting final statistics.
func (l *Loop) Run(ctx context.Context) uint64 {
	timeout := l.PollTimeout
	if timeout <= 0 {
		timeout = time.Second
	}
	for ctx.Err() == nil {
		rec, err := l.Channel.Poll(ctx, timeout)
		if err != nil {
			log.Printf(`{"type":"error","stage":"poll","error":%q}`, err.Error())
			continue
		}
		if rec == nil {
			continue
		}
		l.observe(rec)
		if l.Target > 0 && l.consumed.Load() >= l.Target {
			break
		}
	}
	return l.consumed.Load()
}

// observe counts the record and, when a well-formed 8-byte emission
// timestamp header is present, records now-emitted as an end-to-end sample.
// A header of any other length yields no sample but the record still counts.
func (l *Loop) observe(rec *channel.Record) {
	l.consumed.Add(1)
	v, ok := rec.HeaderValue(channel.EmittedHeader)
	if !ok {
		return
	}
	emitted, ok := channel.EmittedMs(v)
	if !ok {
		return
	}
	ms := float64(time.Now().UnixMilli() - emitted)
	l.Recorder.Record(ms)
	if l.Histogram != nil {
		l.Histogram.Observe(ms)
	}
}

// Consumed reports the running count, safe to read from other goroutines.
func (l *Loop) Consumed() uint64 { return l.consumed.Load() }
