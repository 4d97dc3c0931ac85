package domain

import "time"

// UserRegisteredEvent is published when a sign-up completes.
type UserRegisteredEvent struct {
	EventID      string
	UserID       string
	FullName     string
	Email        string
	UniversityID int64
	Status       string
	RegisteredAt time.Time
}

// AccountStatusChangedEvent is published when an admin approves or
// rejects an account.
type AccountStatusChangedEvent struct {
	EventID        string
	UserID         string
	PreviousStatus string
	NewStatus      string
	ChangedBy      string
	ChangedAt      time.Time
}

// BookBorrowedEvent is published when a borrow record is created.
type BookBorrowedEvent struct {
	EventID    string
	RecordID   string
	UserID     string
	BookID     string
	BorrowedAt time.Time
	DueAt      time.Time
}
