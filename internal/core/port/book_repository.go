package port

import (
	"context"

	"github.com/syedukkashah/university-library/internal/core/domain"
)

// BookFilter narrows catalog listings.
type BookFilter struct {
	Genre  string
	Limit  int
	Offset int
}

// BookRepository exposes persistence behavior for the book catalog.
type BookRepository interface {
	Create(ctx context.Context, book domain.Book) error
	GetByID(ctx context.Context, id string) (*domain.Book, error)
	List(ctx context.Context, filter BookFilter) ([]domain.Book, error)
	Update(ctx context.Context, book domain.Book) error
	Delete(ctx context.Context, id string) error
	AdjustAvailableCopies(ctx context.Context, id string, delta int) error
}

// BorrowRepository exposes persistence behavior for borrow records.
type BorrowRepository interface {
	Create(ctx context.Context, record domain.BorrowRecord) error
	GetByID(ctx context.Context, id string) (*domain.BorrowRecord, error)
	ListByUser(ctx context.Context, userID string) ([]domain.BorrowRecord, error)
	List(ctx context.Context, limit, offset int) ([]domain.BorrowRecord, error)
	MarkReturned(ctx context.Context, id string) error
}
