package main

import (
	"flag"
	"log"
	"time"
)

var (
	brokerKind  = ""
	bootstrap   = ""
	topic       = ""
	group       = ""
	addr        = ""
	outPath     = ""
	target      uint64
	pollTimeout time.Duration
)

func init() {
	flag.StringVar(&brokerKind, "broker", "kafka", "Broker channel: kafka, kafka-sarama or mqtt, default: kafka")
	flag.StringVar(&bootstrap, "bootstrap", "", "Broker bootstrap addresses, use a comma separated list")
	flag.StringVar(&topic, "topic", "", "Topic to consume from")
	flag.StringVar(&group, "group", "kafka-bench", "Consumer group identifier, default: kafka-bench")
	flag.StringVar(&addr, "addr", ":8081", "The address to bind the metrics endpoint to, default: :8081")
	flag.StringVar(&outPath, "out", "", "Optional file path to persist the summary row as CSV")
	flag.Uint64Var(&target, "count", 0, "Stop after consuming this many records, 0 runs until interrupted")
	flag.DurationVar(&pollTimeout, "poll-timeout", time.Second, "Bounded wait per poll before re-checking cancellation, default: 1s")
	flag.Parse()

	if len(bootstrap) == 0 {
		log.Panic("no bootstrap addresses defined, please set the -bootstrap flag")
	}
	if len(topic) == 0 {
		log.Panic("no topic given to consume from, please set the -topic flag")
	}
}
