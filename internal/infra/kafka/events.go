package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/syedukkashah/university-library/internal/core/domain"
	"github.com/syedukkashah/university-library/internal/core/port"
	"github.com/syedukkashah/university-library/internal/infra/config"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	UserID    string           `json:"user_id,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, userID string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := envelopeMetadata{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		UserID:    userID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishUserRegistered publishes library.user.registered events.
func (p *EventPublisher) PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error {
	payload := struct {
		UserID       string    `json:"user_id"`
		FullName     string    `json:"full_name"`
		Email        string    `json:"email"`
		UniversityID int64     `json:"university_id"`
		Status       string    `json:"status"`
		RegisteredAt time.Time `json:"registered_at"`
	}{
		UserID:       event.UserID,
		FullName:     event.FullName,
		Email:        event.Email,
		UniversityID: event.UniversityID,
		Status:       event.Status,
		RegisteredAt: event.RegisteredAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "user.registered", event.UserID, event.RegisteredAt, payload)
}

// PublishAccountStatusChanged publishes library.account.status_changed events.
func (p *EventPublisher) PublishAccountStatusChanged(ctx context.Context, event domain.AccountStatusChangedEvent) error {
	payload := struct {
		UserID         string    `json:"user_id"`
		PreviousStatus string    `json:"previous_status"`
		NewStatus      string    `json:"new_status"`
		ChangedBy      string    `json:"changed_by"`
		ChangedAt      time.Time `json:"changed_at"`
	}{
		UserID:         event.UserID,
		PreviousStatus: event.PreviousStatus,
		NewStatus:      event.NewStatus,
		ChangedBy:      event.ChangedBy,
		ChangedAt:      event.ChangedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "account.status_changed", event.UserID, event.ChangedAt, payload)
}

// PublishBookBorrowed publishes library.book.borrowed events.
func (p *EventPublisher) PublishBookBorrowed(ctx context.Context, event domain.BookBorrowedEvent) error {
	payload := struct {
		RecordID   string    `json:"record_id"`
		UserID     string    `json:"user_id"`
		BookID     string    `json:"book_id"`
		BorrowedAt time.Time `json:"borrowed_at"`
		DueAt      time.Time `json:"due_at"`
	}{
		RecordID:   event.RecordID,
		UserID:     event.UserID,
		BookID:     event.BookID,
		BorrowedAt: event.BorrowedAt.UTC(),
		DueAt:      event.DueAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "book.borrowed", event.UserID, event.BorrowedAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
