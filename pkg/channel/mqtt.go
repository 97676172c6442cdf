package channel

import (
	"context"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// MQTT 3.1.1 has no message headers, so the emission timestamp rides in a
// one-byte-flag envelope prefixed to the payload: 0x01 followed by the 8
// timestamp bytes when present, 0x00 otherwise. The envelope never leaves
// this file; Poll surfaces the timestamp as a regular header again.
const (
	envNoTimestamp  = 0x00
	envHasTimestamp = 0x01
)

func envelope(value []byte, headers []Header) []byte {
	for _, h := range headers {
		if h.Key == EmittedHeader && len(h.Value) == emittedLen {
			buf := make([]byte, 0, 1+emittedLen+len(value))
			buf = append(buf, envHasTimestamp)
			buf = append(buf, h.Value...)
			return append(buf, value...)
		}
	}
	buf := make([]byte, 0, 1+len(value))
	buf = append(buf, envNoTimestamp)
	return append(buf, value...)
}

func unenvelope(payload []byte) *Record {
	if len(payload) >= 1+emittedLen && payload[0] == envHasTimestamp {
		return &Record{
			Value:   payload[1+emittedLen:],
			Headers: []Header{{Key: EmittedHeader, Value: payload[1 : 1+emittedLen]}},
		}
	}
	if len(payload) >= 1 && payload[0] == envNoTimestamp {
		return &Record{Value: payload[1:]}
	}
	// Foreign message on the topic; surface it as-is.
	return &Record{Value: payload}
}

func mqttConnect(cfg Config, clientSuffix string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	for _, addr := range strings.Split(cfg.Bootstrap, ",") {
		if !strings.Contains(addr, "://") {
			addr = "tcp://" + addr
		}
		opts.AddBroker(addr)
	}
	opts.SetClientID(fmt.Sprintf("%s-%s-%s", cfg.Group, clientSuffix, uuid.NewString()[:8]))
	opts.SetConnectTimeout(5 * time.Second)
	opts.SetOrderMatters(false)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connect to %s: timeout", cfg.Bootstrap)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.Bootstrap, err)
	}
	return client, nil
}

type mqttProducer struct {
	client mqtt.Client
	topic  string
}

func newMQTTProducer(cfg Config) (Producer, error) {
	client, err := mqttConnect(cfg, "pub")
	if err != nil {
		return nil, err
	}
	return &mqttProducer{client: client, topic: cfg.Topic}, nil
}

// Submit publishes at QoS 1 and waits for the broker PUBACK. The message key
// is dropped: MQTT has no key concept and the benchmark only reads headers.
func (p *mqttProducer) Submit(ctx context.Context, key, value []byte, headers []Header) error {
	token := p.client.Publish(p.topic, 1, false, envelope(value, headers))
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("publish: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Flush is a no-op: each Submit already awaited its PUBACK.
func (p *mqttProducer) Flush(ctx context.Context, timeout time.Duration) int {
	return 0
}

func (p *mqttProducer) Close() {
	p.client.Disconnect(250)
}

type mqttConsumer struct {
	client  mqtt.Client
	topic   string
	records chan *Record
}

func newMQTTConsumer(cfg Config) (Consumer, error) {
	client, err := mqttConnect(cfg, "sub")
	if err != nil {
		return nil, err
	}
	c := &mqttConsumer{client: client, topic: cfg.Topic, records: make(chan *Record, 256)}
	token := client.Subscribe(cfg.Topic, 1, func(_ mqtt.Client, msg mqtt.Message) {
		select {
		case c.records <- unenvelope(msg.Payload()):
		default:
			// Consumer is not keeping up; drop rather than block the
			// paho router.
		}
	})
	if !token.WaitTimeout(10 * time.Second) {
		client.Disconnect(250)
		return nil, fmt.Errorf("subscribe %s: timeout", cfg.Topic)
	}
	if err := token.Error(); err != nil {
		client.Disconnect(250)
		return nil, fmt.Errorf("subscribe %s: %w", cfg.Topic, err)
	}
	return c, nil
}

func (c *mqttConsumer) Poll(ctx context.Context, timeout time.Duration) (*Record, error) {
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

func (c *mqttConsumer) Close() {
	c.client.Unsubscribe(c.topic)
	c.client.Disconnect(250)
}
