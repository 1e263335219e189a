package analytics

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// Producer publishes game events to Kafka. A nil producer is valid and
// drops everything, for deployments without a broker.
type Producer struct {
	logger *slog.Logger
	writer *kafka.Writer
}

func NewProducer(logger *slog.Logger, brokers []string, topic string) *Producer {
	if len(brokers) == 0 || topic == "" {
		return nil
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		logger: logger.With("component", "analytics"),
		writer: writer,
	}
}

func (that *Producer) Publish(ctx context.Context, event string, payload any) {
	if that == nil || that.writer == nil {
		return
	}

	body := map[string]any{
		"event":     event,
		"payload":   payload,
		"timestamp": time.Now().UTC(),
	}

	data, err := json.Marshal(body)
	if err != nil {
		that.logger.Error("failed to marshal event", "event", event, "error", err)
		return
	}

	if err = that.writer.WriteMessages(ctx, kafka.Message{Value: data}); err != nil {
		that.logger.Error("failed to publish event", "event", event, "error", err)
	}
}

func (that *Producer) Close() error {
	if that == nil || that.writer == nil {
		return nil
	}
	return that.writer.Close()
}
