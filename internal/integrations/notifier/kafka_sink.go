package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

const eventTypeNotification = "clinic.notification.created"

// KafkaSink публикует уведомления в топик Kafka для внешних каналов доставки
type KafkaSink struct {
	writer *kafka.Writer
}

type kafkaEvent struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipient_id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return &KafkaSink{
		writer: kafka.NewWriter(kafka.WriterConfig{
			Brokers:  brokers,
			Topic:    topic,
			Balancer: &kafka.Hash{},
		}),
	}
}

func (s *KafkaSink) Name() string {
	return "kafka"
}

func (s *KafkaSink) Deliver(ctx context.Context, n domain.Notification) error {
	payload, err := json.Marshal(kafkaEvent{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		Title:       n.Title,
		Body:        n.Body,
		CreatedAt:   n.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("notifier.kafka: marshal notification %s: %w", n.ID, err)
	}

	msg := kafka.Message{
		Key:   []byte(n.RecipientID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(n.ID)},
			{Key: "event_type", Value: []byte(eventTypeNotification)},
		},
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("notifier.kafka: write notification %s: %w", n.ID, err)
	}
	return nil
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
