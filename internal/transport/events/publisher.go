package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher публикует доменные события в kafka топик.
type Publisher struct {
	w   messageWriter
	now func() time.Time
}

// NewKafkaPublisher создает Publisher, пишущий в topic на брокерах brokers (список через запятую).
func NewKafkaPublisher(brokers, topic string) *Publisher {
	return newPublisher(&kafka.Writer{
		Addr:                   kafka.TCP(strings.Split(brokers, ",")...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
	})
}

func newPublisher(w messageWriter) *Publisher {
	return &Publisher{w: w, now: time.Now}
}

// Publish упаковывает payload в Envelope и отправляет его. key задает партицию, события одной сущности
// попадают в одну партицию и сохраняют порядок.
func (p *Publisher) Publish(ctx context.Context, eventType, key string, payload any) error {
	raw, marshalErr := json.Marshal(payload)
	if marshalErr != nil {
		return fmt.Errorf("marshal %s payload: %w", eventType, marshalErr)
	}
	env := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  eventVersion,
		OccurredAt:    p.now().UTC(),
		Producer:      producerName,
		CorrelationID: key,
		Payload:       raw,
	}
	value, envErr := json.Marshal(env)
	if envErr != nil {
		return fmt.Errorf("marshal %s envelope: %w", eventType, envErr)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  env.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.w.Close() //nolint:wrapcheck
}
