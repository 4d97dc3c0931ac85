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
	// ErrBookNotFound indicates the requested book does not exist.
	ErrBookNotFound = errors.New("book not found")
	// ErrBorrowNotFound indicates the borrow record does not exist.
	ErrBorrowNotFound = errors.New("borrow record not found")
	// ErrNoAvailableCopies indicates all copies are currently lent out.
	ErrNoAvailableCopies = errors.New("no copies available to borrow")
	// ErrAccountNotApproved indicates the borrower has not been approved yet.
	ErrAccountNotApproved = errors.New("account is not approved for borrowing")
	// ErrAlreadyReturned indicates the borrow record was already closed.
	ErrAlreadyReturned = errors.New("borrow record already returned")
)

// LibraryService manages the book catalog and the lending workflow.
type LibraryService struct {
	books      port.BookRepository
	borrows    port.BorrowRepository
	users      port.UserRepository
	events     port.EventPublisher
	logger     *zap.Logger
	loanPeriod time.Duration
	now        func() time.Time
}

// NewLibraryService constructs a LibraryService.
func NewLibraryService(
	books port.BookRepository,
	borrows port.BorrowRepository,
	users port.UserRepository,
	events port.EventPublisher,
	loanPeriod time.Duration,
	log *zap.Logger,
) *LibraryService {
	if log == nil {
		log = zap.NewNop()
	}
	if loanPeriod <= 0 {
		loanPeriod = 7 * 24 * time.Hour
	}
	return &LibraryService{
		books:      books,
		borrows:    borrows,
		users:      users,
		events:     events,
		logger:     log,
		loanPeriod: loanPeriod,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the internal clock for deterministic tests.
func (s *LibraryService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// ListBooks returns a page of the catalog.
func (s *LibraryService) ListBooks(ctx context.Context, filter port.BookFilter) ([]domain.Book, error) {
	books, err := s.books.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// GetBook fetches a single catalog entry.
func (s *LibraryService) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}

// CreateBook adds a catalog entry. New books start with all copies
// available.
func (s *LibraryService) CreateBook(ctx context.Context, book domain.Book) (*domain.Book, error) {
	if strings.TrimSpace(book.Title) == "" {
		return nil, fmt.Errorf("book title is required")
	}
	if book.TotalCopies <= 0 {
		return nil, fmt.Errorf("total copies must be positive")
	}

	book.ID = uuid.NewString()
	book.AvailableCopies = book.TotalCopies
	book.CreatedAt = s.now()

	if err := s.books.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.logger.Info("Book created",
		zap.String("book_id", book.ID),
		zap.String("title", book.Title),
	)

	return &book, nil
}

// UpdateBook replaces the editable fields of a catalog entry.
func (s *LibraryService) UpdateBook(ctx context.Context, book domain.Book) error {
	if err := s.books.Update(ctx, book); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBookNotFound
		}
		return fmt.Errorf("update book: %w", err)
	}
	return nil
}

// DeleteBook removes a catalog entry.
func (s *LibraryService) DeleteBook(ctx context.Context, id string) error {
	if err := s.books.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBookNotFound
		}
		return fmt.Errorf("delete book: %w", err)
	}
	return nil
}

// BorrowBook lends one copy to an approved account. The copy decrement
// is a guarded update, so two borrowers racing for the last copy cannot
// both succeed.
func (s *LibraryService) BorrowBook(ctx context.Context, userID, bookID string) (*domain.BorrowRecord, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("load borrower: %w", err)
	}
	if user.Status != domain.StatusApproved {
		return nil, ErrAccountNotApproved
	}

	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("load book: %w", err)
	}

	if err := s.books.AdjustAvailableCopies(ctx, bookID, -1); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoAvailableCopies
		}
		return nil, fmt.Errorf("reserve copy: %w", err)
	}

	now := s.now()
	record := domain.BorrowRecord{
		ID:         uuid.NewString(),
		UserID:     userID,
		BookID:     bookID,
		BorrowDate: now,
		DueDate:    now.Add(s.loanPeriod),
		Status:     domain.BorrowStatusBorrowed,
		CreatedAt:  now,
	}

	if err := s.borrows.Create(ctx, record); err != nil {
		// Put the copy back so a failed record insert does not leak
		// inventory.
		if restoreErr := s.books.AdjustAvailableCopies(ctx, bookID, 1); restoreErr != nil {
			s.logger.Error("Failed to restore copy after borrow failure",
				zap.String("book_id", bookID),
				zap.Error(restoreErr),
			)
		}
		return nil, fmt.Errorf("create borrow record: %w", err)
	}

	if s.events != nil {
		event := domain.BookBorrowedEvent{
			EventID:    uuid.NewString(),
			RecordID:   record.ID,
			UserID:     userID,
			BookID:     bookID,
			BorrowedAt: record.BorrowDate,
			DueAt:      record.DueDate,
		}
		if err := s.events.PublishBookBorrowed(ctx, event); err != nil {
			s.logger.Warn("Book borrowed event publish failed",
				zap.String("record_id", record.ID),
				zap.Error(err),
			)
		}
	}

	return &record, nil
}

// ReturnBook closes a borrow record and releases the copy.
func (s *LibraryService) ReturnBook(ctx context.Context, userID, recordID string) error {
	record, err := s.borrows.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBorrowNotFound
		}
		return fmt.Errorf("load borrow record: %w", err)
	}
	if record.UserID != userID {
		return ErrBorrowNotFound
	}
	if record.Status != domain.BorrowStatusBorrowed {
		return ErrAlreadyReturned
	}

	if err := s.borrows.MarkReturned(ctx, recordID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAlreadyReturned
		}
		return fmt.Errorf("mark returned: %w", err)
	}

	if err := s.books.AdjustAvailableCopies(ctx, record.BookID, 1); err != nil {
		s.logger.Error("Failed to release copy on return",
			zap.String("book_id", record.BookID),
			zap.Error(err),
		)
	}

	return nil
}

// ListBorrows returns the caller's borrow history.
func (s *LibraryService) ListBorrows(ctx context.Context, userID string) ([]domain.BorrowRecord, error) {
	records, err := s.borrows.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list borrows: %w", err)
	}
	return records, nil
}

// ListAllBorrows returns borrow records across every account, newest
// first, for the admin console.
func (s *LibraryService) ListAllBorrows(ctx context.Context, limit, offset int) ([]domain.BorrowRecord, error) {
	records, err := s.borrows.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list all borrows: %w", err)
	}
	return records, nil
}
