package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// Producer publishes catalog and order events. Publishing is best-effort:
// callers log failures and never fail the data path on them.
type Producer struct {
	Writer *kafka.Writer
}

func NewProducer(writer *kafka.Writer) *Producer {
	return &Producer{Writer: writer}
}

func (p *Producer) Publish(ctx context.Context, key string, event map[string]any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: marshal failed: %w", err)
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
	})
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}
