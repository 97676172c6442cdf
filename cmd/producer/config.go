package main

import (
	"flag"
	"log"
	"time"
)

var (
	brokerKind   = ""
	bootstrap    = ""
	topic        = ""
	addr         = ""
	outPath      = ""
	concurrency  = 0
	count        = 0
	size         = 0
	seed         int64
	flushTimeout time.Duration
)

func init() {
	flag.StringVar(&brokerKind, "broker", "kafka", "Broker channel: kafka, kafka-sarama or mqtt, default: kafka")
	flag.StringVar(&bootstrap, "bootstrap", "", "Broker bootstrap addresses, use a comma separated list")
	flag.StringVar(&topic, "topic", "", "Topic to produce to")
	flag.StringVar(&addr, "addr", ":8080", "The address to bind the metrics endpoint to, default: :8080")
	flag.StringVar(&outPath, "out", "", "Optional file path to persist the summary row as CSV")
	flag.IntVar(&concurrency, "concurrency", 4, "Number of concurrent dispatch workers, default: 4")
	flag.IntVar(&count, "count", 10000, "Total number of messages to produce, default: 10000")
	flag.IntVar(&size, "size", 512, "Target serialized payload size in bytes, default: 512")
	flag.Int64Var(&seed, "seed", 42, "Workload seed, default: 42")
	flag.DurationVar(&flushTimeout, "flush-timeout", 30*time.Second, "Deadline for draining outstanding acknowledgments, default: 30s")
	flag.Parse()

	if len(bootstrap) == 0 {
		log.Panic("no bootstrap addresses defined, please set the -bootstrap flag")
	}
	if len(topic) == 0 {
		log.Panic("no topic given to produce to, please set the -topic flag")
	}
	if concurrency < 1 {
		log.Panic("concurrency must be at least 1")
	}
	if count < 0 {
		log.Panic("count must not be negative")
	}
}
