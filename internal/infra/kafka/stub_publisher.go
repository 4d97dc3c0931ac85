package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/syedukkashah/university-library/internal/core/domain"
	"github.com/syedukkashah/university-library/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for development environments.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, userID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.String("user_id", userID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishUserRegistered logs library.user.registered events.
func (p *StubPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	payload := map[string]any{
		"user_id":       event.UserID,
		"full_name":     event.FullName,
		"email":         event.Email,
		"university_id": event.UniversityID,
		"status":        event.Status,
		"registered_at": event.RegisteredAt,
	}
	p.logEvent("user.registered", event.UserID, event.RegisteredAt, payload)
	return nil
}

// PublishAccountStatusChanged logs library.account.status_changed events.
func (p *StubPublisher) PublishAccountStatusChanged(_ context.Context, event domain.AccountStatusChangedEvent) error {
	payload := map[string]any{
		"user_id":         event.UserID,
		"previous_status": event.PreviousStatus,
		"new_status":      event.NewStatus,
		"changed_by":      event.ChangedBy,
		"changed_at":      event.ChangedAt,
	}
	p.logEvent("account.status_changed", event.UserID, event.ChangedAt, payload)
	return nil
}

// PublishBookBorrowed logs library.book.borrowed events.
func (p *StubPublisher) PublishBookBorrowed(_ context.Context, event domain.BookBorrowedEvent) error {
	payload := map[string]any{
		"record_id":   event.RecordID,
		"user_id":     event.UserID,
		"book_id":     event.BookID,
		"borrowed_at": event.BorrowedAt,
		"due_at":      event.DueAt,
	}
	p.logEvent("book.borrowed", event.UserID, event.BorrowedAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
