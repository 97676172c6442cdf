package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yogita29sakhare/kafka-bench/pkg/channel"
	"github.com/yogita29sakhare/kafka-bench/pkg/consume"
	"github.com/yogita29sakhare/kafka-bench/pkg/metrics"
	"github.com/yogita29sakhare/kafka-bench/pkg/report"
	"github.com/yogita29sakhare/kafka-bench/pkg/stats"
)

var AppName = "consumer"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.SetPrefix("[" + AppName + "] ")
	log.Println("Start", AppName)

	consumer, err := channel.OpenConsumer(channel.Config{
		Broker:    brokerKind,
		Bootstrap: bootstrap,
		Topic:     topic,
		Group:     group,
	})
	if err != nil {
		log.Fatalf("Failed to open %s consumer: %v", brokerKind, err)
	}

	recorder := stats.NewRecorder()
	loop := &consume.Loop{
		Channel:     consumer,
		Target:      target,
		Recorder:    recorder,
		PollTimeout: pollTimeout,
	}
	loop.Histogram = metrics.RegisterConsumer(loop.Consumed)

	go func() {
		if err := metrics.Serve(addr); err != nil {
			log.Printf(`{"type":"error","stage":"metrics","error":%q}`, err.Error())
		}
	}()
	go printStats(ctx, loop)

	start := time.Now()
	consumed := loop.Run(ctx)
	elapsed := time.Since(start)

	// Release the subscription before reporting final statistics.
	consumer.Close()

	log.Printf(`{"type":"stats","consumed":%d,"duration_ms":%d}`, consumed, elapsed.Milliseconds())

	summary, ok := recorder.Summarize()
	if !ok {
		log.Println("no end-to-end samples recorded, nothing to summarize")
		return
	}
	row := report.Row{
		Broker:      brokerKind,
		Concurrency: 1,
		Total:       int(consumed),
		Throughput:  float64(consumed) / elapsed.Seconds(),
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

func printStats(ctx context.Context, loop *consume.Loop) {
	start := time.Now()
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			consumed := loop.Consumed()
			log.Printf(`{"type":"stats","consumed":%d,"rps":%.2f}`,
				consumed, float64(consumed)/now.Sub(start).Seconds())
		case <-ctx.Done():
			return
		}
	}
}
