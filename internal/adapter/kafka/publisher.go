// Package kafka delivers high-scintillation records to downstream consumers.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/alertlog"
	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/domain"
	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/pipeline"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher writes a cycle's alert candidates to a Kafka topic in one
// WriteMessages call. It implements pipeline.ResultSink and is optional:
// batches without candidates publish nothing.
type Publisher struct {
	writer    *kafkago.Writer
	threshold float64
	logger    *slog.Logger
}

// NewPublisher creates a producer for the alert topic.
func NewPublisher(brokers []string, topic string, threshold float64, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, threshold: threshold, logger: logger}
}

func (p *Publisher) Name() string { return "kafka" }

func (p *Publisher) Deliver(ctx context.Context, res *pipeline.Result) error {
	candidates := alertlog.FilterAlerts(res.Normalized, p.threshold)
	if len(candidates) == 0 {
		return nil
	}

	msgs := make([]kafkago.Message, len(candidates))
	for i := range candidates {
		msg, err := serializeToMessage(candidates[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish alerts: %w", err)
	}
	p.logger.Info("published alert candidates", "count", len(candidates))
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals one alert record, keyed by satellite so a
// satellite's alerts stay in one partition.
func serializeToMessage(rec domain.NormalizedRecord) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize alert record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(rec.Satellite),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "satellite", Value: []byte(rec.Satellite)},
			{Key: "observed_at", Value: []byte(rec.Time)},
		},
	}, nil
}
