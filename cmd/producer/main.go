package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yogita29sakhare/kafka-bench/pkg/channel"
	"github.com/yogita29sakhare/kafka-bench/pkg/dispatch"
	"github.com/yogita29sakhare/kafka-bench/pkg/metrics"
	"github.com/yogita29sakhare/kafka-bench/pkg/report"
	"github.com/yogita29sakhare/kafka-bench/pkg/stats"
	"github.com/yogita29sakhare/kafka-bench/pkg/workload"
)

var AppName = "producer"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.SetPrefix("[" + AppName + "] ")
	log.Println("Start", AppName)

	mix := workload.DefaultMix()
	if err := mix.Validate(); err != nil {
		log.Fatalf("Invalid message mix: %v", err)
	}
	sequence := workload.Sequence(count, seed, mix)
	builder := workload.NewBuilder(size, seed)

	producer, err := channel.OpenProducer(channel.Config{
		Broker:    brokerKind,
		Bootstrap: bootstrap,
		Topic:     topic,
	})
	if err != nil {
		log.Fatalf("Failed to open %s producer: %v", brokerKind, err)
	}

	recorder := stats.NewRecorder()
	pool := &dispatch.Pool{
		Concurrency: concurrency,
		Total:       count,
		Producer:    producer,
		Recorder:    recorder,
		Emit: func(index int) ([]byte, []byte, error) {
			id, value, err := builder.Build(sequence[index-1], index)
			if err != nil {
				return nil, nil, err
			}
			return []byte(id), value, nil
		},
	}

	metrics.RegisterProducer(pool.Succeeded, pool.Failed)
	go func() {
		if err := metrics.Serve(addr); err != nil {
			log.Printf(`{"type":"error","stage":"metrics","error":%q}`, err.Error())
		}
	}()
	go printStats(ctx, pool)

	start := time.Now()
	pool.Run(ctx)
	outstanding := producer.Flush(ctx, flushTimeout)
	elapsed := time.Since(start)
	producer.Close()

	if outstanding > 0 {
		log.Printf(`{"type":"warning","message":"flush_timeout","outstanding":%d}`, outstanding)
	}
	log.Printf(`{"type":"stats","acked":%d,"failed":%d,"duration_ms":%d}`,
		pool.Succeeded(), pool.Failed(), elapsed.Milliseconds())

	summary, ok := recorder.Summarize()
	if !ok {
		log.Println("no latency samples recorded, nothing to summarize")
		return
	}
	row := report.Row{
		Broker:      brokerKind,
		Concurrency: concurrency,
		Total:       count,
		Throughput:  float64(summary.Count) / elapsed.Seconds(),
		P50Ms:       summary.P50,
		P95Ms:       summary.P95,
	}
	row.Print(os.Stdout)
	if outPath != "" {
		if err := row.WriteCSV(outPath); err != nil {
			log.Fatalf("Failed to write summary file: %v", err)
		}
		log.Printf(`{"type":"info","message":"summary_written","path":%q}`, outPath)
	}
}

func printStats(ctx context.Context, pool *dispatch.Pool) {
	start := time.Now()
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			succ := pool.Succeeded()
			fail := pool.Failed()
			duration := now.Sub(start).Seconds()
			log.Printf(`{"type":"stats","success":%d,"success_rate":%.2f,"failed":%d,"failed_rate":%.2f}`,
				succ, float64(succ)/duration, fail, float64(fail)/duration)
		case <-ctx.Done():
			return
		}
	}
}
