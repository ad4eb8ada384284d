package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/weathif/internal/config"
	"github.com/couchcryptid/weathif/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes evaluated scenarios to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured scenario topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaScenarioTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes and writes one scenario. Messages are keyed by the
// rounded location so scenarios for the same place land on one partition.
func (w *Writer) Publish(ctx context.Context, s domain.Scenario) error {
	msg, err := serializeToMessage(s)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write scenario: %w", err)
	}
	w.logger.Debug("scenario published", "key", string(msg.Key), "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// scenarioMessage is the wire form of a published scenario.
type scenarioMessage struct {
	domain.Scenario
	Source domain.Provenance `json:"baseline_source"`
}

// serializeToMessage marshals a Scenario into a Kafka message.
func serializeToMessage(s domain.Scenario) (kafkago.Message, error) {
	data, err := json.Marshal(scenarioMessage{Scenario: s, Source: s.Baseline.Source})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize scenario: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(locationKey(s.Location)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "baseline_source", Value: []byte(s.Baseline.Source)},
			{Key: "evaluated_at", Value: []byte(s.EvaluatedAt.Format(time.RFC3339))},
		},
	}, nil
}

func locationKey(rec domain.LocationRecord) string {
	return fmt.Sprintf("%.2f,%.2f", rec.Latitude, rec.Longitude)
}
