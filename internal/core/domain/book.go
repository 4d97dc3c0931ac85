package domain

import "time"

// Book mirrors the persisted representation in the books table.
type Book struct {
	ID              string
	Title           string
	Author          string
	Genre           string
	Rating          int
	TotalCopies     int
	AvailableCopies int
	Description     string
	CoverColor      string
	CoverURL        string
	VideoURL        string
	Summary         string
	CreatedAt       time.Time
}

// BorrowStatus enumerates borrow record states.
type BorrowStatus string

const (
	BorrowStatusBorrowed BorrowStatus = "BORROWED"
	BorrowStatusReturned BorrowStatus = "RETURNED"
)

// BorrowRecord links a user to a borrowed book copy.
type BorrowRecord struct {
	ID         string
	UserID     string
	BookID     string
	BorrowDate time.Time
	DueDate    time.Time
	ReturnDate *time.Time
	Status     BorrowStatus
	CreatedAt  time.Time
}
