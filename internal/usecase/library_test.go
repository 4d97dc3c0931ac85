package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/syedukkashah/university-library/internal/core/domain"
	"github.com/syedukkashah/university-library/internal/core/port"
	"github.com/syedukkashah/university-library/internal/repository"
)

type memoryBookRepo struct {
	books map[string]domain.Book
}

func newMemoryBookRepo() *memoryBookRepo {
	return &memoryBookRepo{books: make(map[string]domain.Book)}
}

func (r *memoryBookRepo) Create(_ context.Context, book domain.Book) error {
	r.books[book.ID] = book
	return nil
}

func (r *memoryBookRepo) GetByID(_ context.Context, id string) (*domain.Book, error) {
	book, ok := r.books[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &book, nil
}

func (r *memoryBookRepo) List(_ context.Context, _ port.BookFilter) ([]domain.Book, error) {
	books := make([]domain.Book, 0, len(r.books))
	for _, book := range r.books {
		books = append(books, book)
	}
	return books, nil
}

func (r *memoryBookRepo) Update(_ context.Context, book domain.Book) error {
	if _, ok := r.books[book.ID]; !ok {
		return repository.ErrNotFound
	}
	r.books[book.ID] = book
	return nil
}

func (r *memoryBookRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.books[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.books, id)
	return nil
}

func (r *memoryBookRepo) AdjustAvailableCopies(_ context.Context, id string, delta int) error {
	book, ok := r.books[id]
	if !ok {
		return repository.ErrNotFound
	}
	next := book.AvailableCopies + delta
	if next < 0 || next > book.TotalCopies {
		return repository.ErrNotFound
	}
	book.AvailableCopies = next
	r.books[id] = book
	return nil
}

type memoryBorrowRepo struct {
	records map[string]domain.BorrowRecord
}

func newMemoryBorrowRepo() *memoryBorrowRepo {
	return &memoryBorrowRepo{records: make(map[string]domain.BorrowRecord)}
}

func (r *memoryBorrowRepo) Create(_ context.Context, record domain.BorrowRecord) error {
	r.records[record.ID] = record
	return nil
}

func (r *memoryBorrowRepo) GetByID(_ context.Context, id string) (*domain.BorrowRecord, error) {
	record, ok := r.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &record, nil
}

func (r *memoryBorrowRepo) ListByUser(_ context.Context, userID string) ([]domain.BorrowRecord, error) {
	records := make([]domain.BorrowRecord, 0)
	for _, record := range r.records {
		if record.UserID == userID {
			records = append(records, record)
		}
	}
	return records, nil
}

func (r *memoryBorrowRepo) List(_ context.Context, _, _ int) ([]domain.BorrowRecord, error) {
	records := make([]domain.BorrowRecord, 0, len(r.records))
	for _, record := range r.records {
		records = append(records, record)
	}
	return records, nil
}

func (r *memoryBorrowRepo) MarkReturned(_ context.Context, id string) error {
	record, ok := r.records[id]
	if !ok || record.Status != domain.BorrowStatusBorrowed {
		return repository.ErrNotFound
	}
	now := time.Now().UTC()
	record.Status = domain.BorrowStatusReturned
	record.ReturnDate = &now
	r.records[id] = record
	return nil
}

type libraryFixture struct {
	service *LibraryService
	books   *memoryBookRepo
	borrows *memoryBorrowRepo
	users   *memoryUserRepo
}

func newLibraryFixture(t *testing.T) *libraryFixture {
	t.Helper()

	books := newMemoryBookRepo()
	borrows := newMemoryBorrowRepo()
	users := newMemoryUserRepo()

	service := NewLibraryService(books, borrows, users, nil, 7*24*time.Hour, zaptest.NewLogger(t))

	return &libraryFixture{service: service, books: books, borrows: borrows, users: users}
}

func (f *libraryFixture) seedApprovedUser(t *testing.T) domain.User {
	t.Helper()

	user := seedPendingUser(t, f.users)
	if err := f.users.UpdateStatus(context.Background(), user.ID, domain.StatusApproved); err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	user.Status = domain.StatusApproved
	return user
}

func (f *libraryFixture) seedBook(t *testing.T, copies int) domain.Book {
	t.Helper()

	book, err := f.service.CreateBook(context.Background(), domain.Book{
		Title:       "The Design of Everyday Things",
		Author:      "Don Norman",
		Genre:       "Design",
		TotalCopies: copies,
	})
	if err != nil {
		t.Fatalf("CreateBook returned error: %v", err)
	}
	return *book
}

func TestCreateBookStartsFullyAvailable(t *testing.T) {
	f := newLibraryFixture(t)

	book := f.seedBook(t, 3)
	if book.AvailableCopies != 3 {
		t.Fatalf("available copies = %d, want 3", book.AvailableCopies)
	}
	if book.ID == "" {
		t.Fatal("book id not assigned")
	}
}

func TestCreateBookValidation(t *testing.T) {
	f := newLibraryFixture(t)

	if _, err := f.service.CreateBook(context.Background(), domain.Book{TotalCopies: 1}); err == nil {
		t.Fatal("expected error for missing title")
	}
	if _, err := f.service.CreateBook(context.Background(), domain.Book{Title: "x"}); err == nil {
		t.Fatal("expected error for zero copies")
	}
}

func TestBorrowBook(t *testing.T) {
	f := newLibraryFixture(t)

	user := f.seedApprovedUser(t)
	book := f.seedBook(t, 2)

	borrowedAt := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	f.service.WithClock(func() time.Time { return borrowedAt })

	record, err := f.service.BorrowBook(context.Background(), user.ID, book.ID)
	if err != nil {
		t.Fatalf("BorrowBook returned error: %v", err)
	}

	if record.Status != domain.BorrowStatusBorrowed {
		t.Fatalf("record status = %s, want BORROWED", record.Status)
	}
	if want := borrowedAt.Add(7 * 24 * time.Hour); !record.DueDate.Equal(want) {
		t.Fatalf("due date = %s, want %s", record.DueDate, want)
	}

	stored, err := f.books.GetByID(context.Background(), book.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if stored.AvailableCopies != 1 {
		t.Fatalf("available copies = %d, want 1", stored.AvailableCopies)
	}
}

func TestBorrowBookRequiresApproval(t *testing.T) {
	f := newLibraryFixture(t)

	user := seedPendingUser(t, f.users)
	book := f.seedBook(t, 1)

	if _, err := f.service.BorrowBook(context.Background(), user.ID, book.ID); !errors.Is(err, ErrAccountNotApproved) {
		t.Fatalf("expected ErrAccountNotApproved, got %v", err)
	}
}

func TestBorrowBookNoCopiesLeft(t *testing.T) {
	f := newLibraryFixture(t)

	user := f.seedApprovedUser(t)
	book := f.seedBook(t, 1)

	if _, err := f.service.BorrowBook(context.Background(), user.ID, book.ID); err != nil {
		t.Fatalf("first borrow returned error: %v", err)
	}

	if _, err := f.service.BorrowBook(context.Background(), user.ID, book.ID); !errors.Is(err, ErrNoAvailableCopies) {
		t.Fatalf("expected ErrNoAvailableCopies, got %v", err)
	}
}

func TestReturnBookReleasesCopy(t *testing.T) {
	f := newLibraryFixture(t)

	user := f.seedApprovedUser(t)
	book := f.seedBook(t, 1)

	record, err := f.service.BorrowBook(context.Background(), user.ID, book.ID)
	if err != nil {
		t.Fatalf("BorrowBook returned error: %v", err)
	}

	if err := f.service.ReturnBook(context.Background(), user.ID, record.ID); err != nil {
		t.Fatalf("ReturnBook returned error: %v", err)
	}

	stored, err := f.books.GetByID(context.Background(), book.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if stored.AvailableCopies != 1 {
		t.Fatalf("available copies = %d, want 1", stored.AvailableCopies)
	}

	if err := f.service.ReturnBook(context.Background(), user.ID, record.ID); !errors.Is(err, ErrAlreadyReturned) {
		t.Fatalf("expected ErrAlreadyReturned, got %v", err)
	}
}

func TestReturnBookRejectsOtherUsersRecord(t *testing.T) {
	f := newLibraryFixture(t)

	user := f.seedApprovedUser(t)
	book := f.seedBook(t, 1)

	record, err := f.service.BorrowBook(context.Background(), user.ID, book.ID)
	if err != nil {
		t.Fatalf("BorrowBook returned error: %v", err)
	}

	if err := f.service.ReturnBook(context.Background(), "someone-else", record.ID); !errors.Is(err, ErrBorrowNotFound) {
		t.Fatalf("expected ErrBorrowNotFound, got %v", err)
	}
}
