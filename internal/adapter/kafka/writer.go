package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/observability"
	kafkago "github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafkago.Writer used by Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes styled earthquakes to a Kafka topic.
// It implements pipeline.Loader.
type Writer struct {
	writer  messageWriter
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewWriter creates a Kafka producer for the given topic.
func NewWriter(brokers []string, topic string, metrics *observability.Metrics, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, metrics: metrics, logger: logger}
}

// Load serializes every event of the snapshot with its style and publishes
// them in a single WriteMessages call. Messages are keyed by event ID so
// updates to the same earthquake land on the same partition.
func (w *Writer) Load(ctx context.Context, snap domain.Snapshot) error {
	if len(snap.Events) == 0 {
		return nil
	}
	styled := snap.Styled()
	msgs := make([]kafkago.Message, len(styled))
	for i := range styled {
		msg, err := serializeToMessage(styled[i], snap.FetchedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish styled events: %w", err)
	}
	w.metrics.EventsPublished.Add(float64(len(msgs)))
	w.logger.Debug("published styled events", "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a StyledEvent into a Kafka message.
func serializeToMessage(event domain.StyledEvent, fetchedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize styled event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.Event.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "fill_color", Value: []byte(event.Style.FillColor)},
			{Key: "fetched_at", Value: []byte(fetchedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}
