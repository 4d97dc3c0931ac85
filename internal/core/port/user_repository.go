package port

import (
	"context"
	"time"

	"github.com/syedukkashah/university-library/internal/core/domain"
)

// UserFilter narrows List and Count queries.
type UserFilter struct {
	Status domain.UserStatus
	Limit  int
	Offset int
}

// UserRepository exposes persistence behavior for users.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateStatus(ctx context.Context, id string, status domain.UserStatus) error
	UpdateLastActivity(ctx context.Context, id string, at time.Time) error
	List(ctx context.Context, filter UserFilter) ([]domain.User, error)
	Count(ctx context.Context, filter UserFilter) (int, error)
}
