package channel

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/IBM/sarama"
)

// saramaProducer is the alternate Kafka channel built on the sarama sync
// producer, for comparing client implementations against the same broker.
type saramaProducer struct {
	producer sarama.SyncProducer
	topic    string
}

func newSaramaProducer(cfg Config) (Producer, error) {
	sc := sarama.NewConfig()
	sc.Version = sarama.V2_1_0_0
	sc.Producer.RequiredAcks = sarama.WaitForLocal
	sc.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(strings.Split(cfg.Bootstrap, ","), sc)
	if err != nil {
		return nil, fmt.Errorf("create sarama producer: %w", err)
	}
	return &saramaProducer{producer: producer, topic: cfg.Topic}, nil
}

func (p *saramaProducer) Submit(ctx context.Context, key, value []byte, headers []Header) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.ByteEncoder(key),
		Value: sarama.ByteEncoder(value),
	}
	for _, h := range headers {
		msg.Headers = append(msg.Headers, sarama.RecordHeader{Key: []byte(h.Key), Value: h.Value})
	}
	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("produce: %w", err)
	}
	return nil
}

// Flush is a no-op: SendMessage already awaited the acknowledgment.
func (p *saramaProducer) Flush(ctx context.Context, timeout time.Duration) int {
	return 0
}

func (p *saramaProducer) Close() {
	if err := p.producer.Close(); err != nil {
		log.Printf(`{"type":"error","stage":"close","error":%q}`, err.Error())
	}
}

// saramaConsumer adapts sarama's handler-callback consumer group to the
// pull-style Poll interface through a buffered channel.
type saramaConsumer struct {
	group   sarama.ConsumerGroup
	records chan *Record
	cancel  context.CancelFunc
	done    chan struct{}
}

func newSaramaConsumer(cfg Config) (Consumer, error) {
	sc := sarama.NewConfig()
	sc.Version = sarama.V2_1_0_0
	sc.Consumer.Offsets.Initial = sarama.OffsetOldest

	group, err := sarama.NewConsumerGroup(strings.Split(cfg.Bootstrap, ","), cfg.Group, sc)
	if err != nil {
		return nil, fmt.Errorf("create consumer group: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &saramaConsumer{
		group:   group,
		records: make(chan *Record, 256),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go func() {
		defer close(c.done)
		for ctx.Err() == nil {
			// Consume returns on rebalance; loop to rejoin the group.
			if err := group.Consume(ctx, []string{cfg.Topic}, c); err != nil {
				log.Printf(`{"type":"error","stage":"consume","error":%q}`, err.Error())
				return
			}
		}
	}()
	return c, nil
}

func (c *saramaConsumer) Poll(ctx context.Context, timeout time.Duration) (*Record, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case rec := <-c.records:
		return rec, nil
	case <-timer.C:
		return nil, nil
	case <-ctx.Done():
		return nil, nil
	}
}

func (c *saramaConsumer) Close() {
	c.cancel()
	<-c.done
	if err := c.group.Close(); err != nil {
		log.Printf(`{"type":"error","stage":"close","error":%q}`, err.Error())
	}
}

func (c *saramaConsumer) Setup(session sarama.ConsumerGroupSession) error {
	log.Printf(`{"type":"info","message":"consumer_ready","member_id":%q}`, session.MemberID())
	return nil
}

func (c *saramaConsumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (c *saramaConsumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		rec := &Record{Key: message.Key, Value: message.Value}
		for _, h := range message.Headers {
			if h == nil {
				continue
			}
			rec.Headers = append(rec.Headers, Header{Key: string(h.Key), Value: h.Value})
		}
		select {
		case c.records <- rec:
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
	return nil
}
