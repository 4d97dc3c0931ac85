package domain

import "time"

// UserStatus enumerates account approval states.
type UserStatus string

const (
	StatusPending  UserStatus = "PENDING"
	StatusApproved UserStatus = "APPROVED"
	StatusRejected UserStatus = "REJECTED"
)

// Valid reports whether the status is one of the known values.
func (s UserStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// UserRole enumerates account roles.
type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

// User mirrors the persisted representation in the users table.
type User struct {
	ID               string
	FullName         string
	Email            string
	PasswordHash     string
	UniversityID     int64
	UniversityCard   string
	Role             UserRole
	Status           UserStatus
	LastActivityDate time.Time
	CreatedAt        time.Time
}

// Identity is the minimal projection returned after credential
// verification. It never carries the password hash or the card reference.
type Identity struct {
	ID       string
	Email    string
	FullName string
}
