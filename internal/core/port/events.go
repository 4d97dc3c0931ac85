package port

import (
	"context"

	"github.com/syedukkashah/university-library/internal/core/domain"
)

// EventPublisher delivers domain events to the message broker.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error
	PublishAccountStatusChanged(ctx context.Context, event domain.AccountStatusChangedEvent) error
	PublishBookBorrowed(ctx context.Context, event domain.BookBorrowedEvent) error
}

// NotificationDispatcher delivers user-facing notifications. Actual mail
// delivery lives outside this service; implementations here log the
// payload so operators can trace what would have been sent.
type NotificationDispatcher interface {
	SendWelcome(ctx context.Context, email, fullName string) error
	SendAccountDecision(ctx context.Context, email, fullName string, approved bool) error
}
