package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/syedukkashah/university-library/internal/core/domain"
	"github.com/syedukkashah/university-library/internal/repository"
)

func testBook() domain.Book {
	return domain.Book{
		ID:              "b6aa3c5d-12f4-4f61-a5c9-8f0f5f7f3e21",
		Title:           "The Design of Everyday Things",
		Author:          "Don Norman",
		Genre:           "Design",
		Rating:          4,
		TotalCopies:     3,
		AvailableCopies: 3,
		Description:     "A primer on human-centered design.",
		CoverColor:      "#1c1f40",
		CoverURL:        "https://covers.example.com/doet.png",
		Summary:         "Why some products satisfy while others frustrate.",
		CreatedAt:       time.Date(2025, 2, 10, 8, 0, 0, 0, time.UTC),
	}
}

func TestBookRepository_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewBookRepository(mock)
	book := testBook()

	rows := pgxmock.NewRows(bookColumns).AddRow(
		book.ID,
		book.Title,
		book.Author,
		book.Genre,
		book.Rating,
		book.TotalCopies,
		book.AvailableCopies,
		book.Description,
		book.CoverColor,
		book.CoverURL,
		book.VideoURL,
		book.Summary,
		book.CreatedAt,
	)

	mock.ExpectQuery(`SELECT .* FROM books`).
		WithArgs(book.ID).
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), book.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if got.Title != book.Title {
		t.Fatalf("unexpected title: %s", got.Title)
	}
	if got.AvailableCopies != 3 {
		t.Fatalf("unexpected available copies: %d", got.AvailableCopies)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookRepository_AdjustAvailableCopies(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewBookRepository(mock)

	mock.ExpectExec(`UPDATE books`).
		WithArgs(-1, "book-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.AdjustAvailableCopies(context.Background(), "book-1", -1); err != nil {
		t.Fatalf("AdjustAvailableCopies returned error: %v", err)
	}

	// The guard rejects decrements below zero with zero rows affected.
	mock.ExpectExec(`UPDATE books`).
		WithArgs(-1, "book-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	if err := repo.AdjustAvailableCopies(context.Background(), "book-1", -1); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBorrowRepository_MarkReturned(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewBorrowRepository(mock)

	mock.ExpectExec(`UPDATE borrow_records`).
		WithArgs(domain.BorrowStatusReturned, pgxmock.AnyArg(), "record-1", domain.BorrowStatusBorrowed).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.MarkReturned(context.Background(), "record-1"); err != nil {
		t.Fatalf("MarkReturned returned error: %v", err)
	}

	// A second return finds no BORROWED row to close.
	mock.ExpectExec(`UPDATE borrow_records`).
		WithArgs(domain.BorrowStatusReturned, pgxmock.AnyArg(), "record-1", domain.BorrowStatusBorrowed).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	if err := repo.MarkReturned(context.Background(), "record-1"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
