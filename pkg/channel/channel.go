// Package channel abstracts the broker transport behind small producer and
// consumer interfaces so the benchmark core stays broker-agnostic. Concrete
// channels exist for Kafka (franz-go and sarama clients) and MQTT (paho).
package channel

import (
	"context"
	"fmt"
	"time"
)

// Header is one broker message header carrying a raw binary value.
type Header struct {
	Key   string
	Value []byte
}

// Record is a received message. Key and Value are opaque to the benchmark;
// only headers are inspected.
type Record struct {
	Key     []byte
	Value   []byte
	Headers []Header
}

// HeaderValue returns the value of the first header with the given name.
func (r *Record) HeaderValue(name string) ([]byte, bool) {
	for _, h := range r.Headers {
		if h.Key == name {
			return h.Value, true
		}
	}
	return nil, false
}

// Producer submits messages and waits for broker acknowledgment. Submit is
// safe for concurrent use by multiple workers.
type Producer interface {
	Submit(ctx context.Context, key, value []byte, headers []Header) error
	// Flush drains buffered messages, returning how many were still
	// outstanding when the timeout expired.
	Flush(ctx context.Context, timeout time.Duration) int
	Close()
}

// Consumer polls one record at a time from a topic subscription. Poll is not
// safe for concurrent use; the consumption loop is single-threaded.
type Consumer interface {
	// Poll returns the next record, or nil if none arrived within timeout.
	Poll(ctx context.Context, timeout time.Duration) (*Record, error)
	Close()
}

// Config selects and addresses a broker channel.
type Config struct {
	Broker    string // kafka, kafka-sarama or mqtt
	Bootstrap string // comma separated addresses
	Topic     string
	Group     string // consumer group / client id base
}

func OpenProducer(cfg Config) (Producer, error) {
	switch cfg.Broker {
	case "kafka":
		return newKafkaProducer(cfg)
	case "kafka-sarama":
		return newSaramaProducer(cfg)
	case "mqtt":
		return newMQTTProducer(cfg)
	}
	return nil, fmt.Errorf("unknown broker %q", cfg.Broker)
}

func OpenConsumer(cfg Config) (Consumer, error) {
	switch cfg.Broker {
	case "kafka":
		return newKafkaConsumer(cfg)
	case "kafka-sarama":
		return newSaramaConsumer(cfg)
	case "mqtt":
		return newMQTTConsumer(cfg)
	}
	return nil, fmt.Errorf("unknown broker %q", cfg.Broker)
}
