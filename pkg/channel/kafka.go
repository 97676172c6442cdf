package channel

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// kafkaProducer drives the franz-go client tuned for per-event latency: no
// batching, leader-only acks, no compression.
type kafkaProducer struct {
	client *kgo.Client
	topic  string
}

func newKafkaProducer(cfg Config) (Producer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(strings.Split(cfg.Bootstrap, ",")...),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.RequiredAcks(kgo.LeaderAck()),
		kgo.DisableIdempotentWrite(),
		kgo.ProducerLinger(0),
		kgo.ProducerBatchCompression(kgo.NoCompression()),
		kgo.RequestTimeoutOverhead(1*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &kafkaProducer{client: client, topic: cfg.Topic}, nil
}

func (p *kafkaProducer) Submit(ctx context.Context, key, value []byte, headers []Header) error {
	rec := &kgo.Record{Topic: p.topic, Key: key, Value: value}
	for _, h := range headers {
		rec.Headers = append(rec.Headers, kgo.RecordHeader{Key: h.Key, Value: h.Value})
	}
	if err := p.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("produce: %w", err)
	}
	return nil
}

func (p *kafkaProducer) Flush(ctx context.Context, timeout time.Duration) int {
	fctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	p.client.Flush(fctx)
	return int(p.client.BufferedProduceRecords())
}

func (p *kafkaProducer) Close() {
	p.client.Close()
}

type kafkaConsumer struct {
	client *kgo.Client
	// records fetched but not yet handed out by Poll
	pending []*Record
}

func newKafkaConsumer(cfg Config) (Consumer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(strings.Split(cfg.Bootstrap, ",")...),
		kgo.ClientID(cfg.Group),
		kgo.ConsumerGroup(cfg.Group),
		kgo.ConsumeTopics(cfg.Topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &kafkaConsumer{client: client}, nil
}

func (c *kafkaConsumer) Poll(ctx context.Context, timeout time.Duration) (*Record, error) {
	if len(c.pending) > 0 {
		return c.next(), nil
	}
	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	fetches := c.client.PollFetches(pctx)
	if fetches.IsClientClosed() {
		return nil, nil
	}
	for _, fe := range fetches.Errors() {
		if errors.Is(fe.Err, context.DeadlineExceeded) || errors.Is(fe.Err, context.Canceled) {
			continue
		}
		return nil, fmt.Errorf("fetch %s/%d: %w", fe.Topic, fe.Partition, fe.Err)
	}
	fetches.EachRecord(func(rec *kgo.Record) {
		r := &Record{Key: rec.Key, Value: rec.Value}
		for _, h := range rec.Headers {
			r.Headers = append(r.Headers, Header{Key: h.Key, Value: h.Value})
		}
		c.pending = append(c.pending, r)
	})
	if len(c.pending) == 0 {
		return nil, nil
	}
	return c.next(), nil
}

func (c *kafkaConsumer) next() *Record {
	r := c.pending[0]
	c.pending = c.pending[1:]
	return r
}

func (c *kafkaConsumer) Close() {
	c.client.Close()
}
