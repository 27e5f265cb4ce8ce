package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// deliveryTimeout bounds retries of one record; franz-go retries forever otherwise.
const deliveryTimeout = 10 * time.Second

// KafkaSink produces events as JSON records keyed by user id, so one user's
// events stay ordered within a partition.
type KafkaSink struct {
	client *kgo.Client
	topic  string
}

func NewKafkaSink(brokers []string, topic string, opts ...kgo.Opt) (*KafkaSink, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka audit sink requires at least one broker")
	}
	opts = append([]kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ClientID("lifeclock-audit"),
		kgo.RecordDeliveryTimeout(deliveryTimeout),
	}, opts...)
	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &KafkaSink{client: client, topic: topic}, nil
}

func (s *KafkaSink) Write(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.UserID),
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

// EnsureTopic creates the audit topic if it does not exist.
func (s *KafkaSink) EnsureTopic(ctx context.Context, partitions int32, replicationFactor int16) error {
	adm := kadm.NewClient(s.client)
	resp, err := adm.CreateTopic(ctx, partitions, replicationFactor, nil, s.topic)
	if err == nil {
		err = resp.Err
	}
	if err != nil && !errors.Is(err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("ensure audit topic %q: %w", s.topic, err)
	}
	return nil
}

// Ping checks broker connectivity.
func (s *KafkaSink) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

func (s *KafkaSink) Close() {
	s.client.Close()
}
