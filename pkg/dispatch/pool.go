// Package dispatch drives a fixed pool of workers over a shared workload
// index counter, timing each submission individually.
package dispatch

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yogita29sakhare/kafka-bench/pkg/channel"
	"github.com/yogita29sakhare/kafka-bench/pkg/stats"
)

// EmitFunc builds the message for one claimed workload index (1-based),
// returning the message key and serialized value.
type EmitFunc func(index int) (key, value []byte, err error)

// Pool claims indices through a single atomic counter; the counter and the
// Recorder are the only state shared between workers. Each submission is
// timed from just before Submit to acknowledgment and recorded in
// milliseconds.
type Pool struct {
	Concurrency int
	Total       int
	Emit        EmitFunc
	Producer    channel.Producer
	Recorder    *stats.Recorder

	next      atomic.Int64
	succeeded atomic.Uint64
	failed    atomic.Uint64
}

// Run returns once every worker has observed an out-of-range claim. A
// submission failure is logged, counted, and skipped: the pool keeps
// claiming, failed indices simply contribute no latency sample, and nothing
// is retried. The caller is expected to Flush the producer afterwards to
// drain acknowledgments still outstanding at the transport layer.
func (p *Pool) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for w := 0; w < p.Concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				idx := int(p.next.Add(1))
				if idx > p.Total || ctx.Err() != nil {
					return
				}
				p.dispatch(ctx, idx)
			}
		}()
	}
	wg.Wait()
}

func (p *Pool) dispatch(ctx context.Context, idx int) {
	key, value, err := p.Emit(idx)
	if err != nil {
		p.failed.Add(1)
		log.Printf(`{"type":"error","stage":"build","index":%d,"error":%q}`, idx, err.Error())
		return
	}
	headers := []channel.Header{{Key: channel.EmittedHeader, Value: channel.EmittedValue(time.Now())}}

	start := time.Now()
	if err := p.Producer.Submit(ctx, key, value, headers); err != nil {
		p.failed.Add(1)
		log.Printf(`{"type":"error","stage":"submit","index":%d,"error":%q}`, idx, err.Error())
		return
	}
	p.succeeded.Add(1)
	p.Recorder.Record(float64(time.Since(start)) / float64(time.Millisecond))
}

// Succeeded reports how many submissions were acknowledged.
func (p *Pool) Succeeded() uint64 { return p.succeeded.Load() }

// Failed reports how many dispatches errored during Run.
func (p *Pool) Failed() uint64 { return p.failed.Load() }
