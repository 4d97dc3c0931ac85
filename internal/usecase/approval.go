package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/syedukkashah/university-library/internal/core/domain"
	"github.com/syedukkashah/university-library/internal/core/port"
	"github.com/syedukkashah/university-library/internal/repository"
)

var (
	// ErrAccountNotFound indicates the target account does not exist.
	ErrAccountNotFound = errors.New("account not found")
	// ErrInvalidDecision indicates the requested status is not an admin decision.
	ErrInvalidDecision = errors.New("status must be APPROVED or REJECTED")
)

// ApprovalService runs the admin review workflow for pending accounts.
type ApprovalService struct {
	users    port.UserRepository
	events   port.EventPublisher
	notifier port.NotificationDispatcher
	logger   *zap.Logger
	now      func() time.Time
}

// NewApprovalService constructs an ApprovalService.
func NewApprovalService(users port.UserRepository, events port.EventPublisher, notifier port.NotificationDispatcher, log *zap.Logger) *ApprovalService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ApprovalService{
		users:    users,
		events:   events,
		notifier: notifier,
		logger:   log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the internal clock for deterministic tests.
func (s *ApprovalService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// ListAccounts returns accounts for the admin console, optionally
// narrowed by status.
func (s *ApprovalService) ListAccounts(ctx context.Context, filter port.UserFilter) ([]domain.User, int, error) {
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list accounts: %w", err)
	}

	total, err := s.users.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count accounts: %w", err)
	}

	return users, total, nil
}

// SetStatus records an admin decision on an account. Any account can be
// re-decided: an approval can later be reversed with a rejection and
// vice versa, so no source-state check is applied.
func (s *ApprovalService) SetStatus(ctx context.Context, userID string, status domain.UserStatus, decidedBy string) (*domain.User, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrAccountNotFound
	}
	if status != domain.StatusApproved && status != domain.StatusRejected {
		return nil, ErrInvalidDecision
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("load account: %w", err)
	}

	previous := user.Status
	if err := s.users.UpdateStatus(ctx, userID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("update account status: %w", err)
	}
	user.Status = status

	now := s.now()
	if s.events != nil {
		event := domain.AccountStatusChangedEvent{
			EventID:        uuid.NewString(),
			UserID:         user.ID,
			PreviousStatus: string(previous),
			NewStatus:      string(status),
			ChangedBy:      decidedBy,
			ChangedAt:      now,
		}
		if err := s.events.PublishAccountStatusChanged(ctx, event); err != nil {
			s.logger.Warn("Account status event publish failed",
				zap.String("user_id", user.ID),
				zap.Error(err),
			)
		}
	}

	if s.notifier != nil {
		approved := status == domain.StatusApproved
		if err := s.notifier.SendAccountDecision(ctx, user.Email, user.FullName, approved); err != nil {
			s.logger.Warn("Account decision notification failed",
				zap.String("user_id", user.ID),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("Account status updated",
		zap.String("user_id", user.ID),
		zap.String("previous_status", string(previous)),
		zap.String("new_status", string(status)),
		zap.String("decided_by", decidedBy),
	)

	return user, nil
}
