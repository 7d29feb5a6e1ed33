package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Domenick1991/tickettoride/internal/domain"
	"github.com/Domenick1991/tickettoride/internal/metrics"
)

type ReservationEvent struct {
	Type           string    `json:"type"`
	Code           string    `json:"code"`
	FlightCode     string    `json:"flight_code"`
	Airline        string    `json:"airline"`
	Name           string    `json:"name"`
	Citizenship    string    `json:"citizenship"`
	Active         bool      `json:"active"`
	SeatsAvailable int       `json:"seats_available"`
	OccurredAt     time.Time `json:"occurred_at"`
}

func NewReservationEvent(eventType string, r domain.Reservation, seatsAvailable int, at time.Time) ReservationEvent {
	return ReservationEvent{
		Type:           eventType,
		Code:           r.Code,
		FlightCode:     r.FlightCode,
		Airline:        r.Airline,
		Name:           r.Name,
		Citizenship:    r.Citizenship,
		Active:         r.Active,
		SeatsAvailable: seatsAvailable,
		OccurredAt:     at.UTC(),
	}
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

const publishAttempts = 3

type Producer struct {
	writer  messageWriter
	topic   string
	logger  *zap.Logger
	backoff time.Duration
}

func NewProducer(brokers []string, topic string, logger *zap.Logger) *Producer {
	if logger == nil {
		logger = zap.NewNop()
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
	return &Producer{writer: writer, topic: topic, logger: logger, backoff: 500 * time.Millisecond}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, message); err != nil {
		metrics.IncKafkaError("producer", "write")
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}

	metrics.IncKafkaSent()
	p.logger.Debug("published to kafka", zap.String("topic", topic), zap.String("key", key))
	return nil
}

// PublishReservation sends one event keyed by reservation code, so all events
// of a reservation land on the same partition in order.
func (p *Producer) PublishReservation(ctx context.Context, eventType string, r domain.Reservation, seatsAvailable int) error {
	event := NewReservationEvent(eventType, r, seatsAvailable, time.Now())
	return p.PublishWithRetry(ctx, p.topic, r.Code, event, publishAttempts)
}

func (p *Producer) PublishWithRetry(ctx context.Context, topic, key string, payload interface{}, maxRetries int) error {
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		err := p.Publish(ctx, topic, key, payload)
		if err == nil {
			return nil
		}

		lastErr = err
		p.logger.Warn("kafka publish attempt failed", zap.Int("attempt", i+1), zap.Error(err))

		if i < maxRetries-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(i+1) * p.backoff):
			}
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
