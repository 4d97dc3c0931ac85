package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/syedukkashah/university-library/internal/core/domain"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// SignUpRequest defines the payload for the registration endpoint.
type SignUpRequest struct {
	FullName       string `json:"full_name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	UniversityID   int64  `json:"university_id" binding:"required"`
	Password       string `json:"password" binding:"required"`
	UniversityCard string `json:"university_card"`
}

// SignInRequest defines the payload for the sign-in endpoint.
type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by successful sign-in and sign-up calls.
type AuthResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
}

// SessionResponse describes the resolved session of the caller.
type SessionResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
}

// UserSummary describes the admin console view of an account.
type UserSummary struct {
	ID               string            `json:"id"`
	FullName         string            `json:"full_name"`
	Email            string            `json:"email"`
	UniversityID     int64             `json:"university_id"`
	UniversityCard   string            `json:"university_card,omitempty"`
	Role             domain.UserRole   `json:"role"`
	Status           domain.UserStatus `json:"status"`
	LastActivityDate time.Time         `json:"last_activity_date"`
	CreatedAt        time.Time         `json:"created_at"`
}

func toUserSummary(user domain.User) UserSummary {
	return UserSummary{
		ID:               user.ID,
		FullName:         user.FullName,
		Email:            user.Email,
		UniversityID:     user.UniversityID,
		UniversityCard:   user.UniversityCard,
		Role:             user.Role,
		Status:           user.Status,
		LastActivityDate: user.LastActivityDate,
		CreatedAt:        user.CreatedAt,
	}
}

// AccountListResponse pages through accounts for the admin console.
type AccountListResponse struct {
	Accounts []UserSummary `json:"accounts"`
	Total    int           `json:"total"`
}

// AccountDecisionRequest carries the admin decision on a pending account.
type AccountDecisionRequest struct {
	Status string `json:"status" binding:"required"`
}

// BookRequest defines the payload for creating or updating a catalog entry.
type BookRequest struct {
	Title       string `json:"title" binding:"required"`
	Author      string `json:"author" binding:"required"`
	Genre       string `json:"genre"`
	Rating      int    `json:"rating"`
	TotalCopies int    `json:"total_copies" binding:"required"`
	Description string `json:"description"`
	CoverColor  string `json:"cover_color"`
	CoverURL    string `json:"cover_url"`
	VideoURL    string `json:"video_url"`
	Summary     string `json:"summary"`
}

// BookResponse describes a catalog entry.
type BookResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Genre           string    `json:"genre,omitempty"`
	Rating          int       `json:"rating"`
	TotalCopies     int       `json:"total_copies"`
	AvailableCopies int       `json:"available_copies"`
	Description     string    `json:"description,omitempty"`
	CoverColor      string    `json:"cover_color,omitempty"`
	CoverURL        string    `json:"cover_url,omitempty"`
	VideoURL        string    `json:"video_url,omitempty"`
	Summary         string    `json:"summary,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func toBookResponse(book domain.Book) BookResponse {
	return BookResponse{
		ID:              book.ID,
		Title:           book.Title,
		Author:          book.Author,
		Genre:           book.Genre,
		Rating:          book.Rating,
		TotalCopies:     book.TotalCopies,
		AvailableCopies: book.AvailableCopies,
		Description:     book.Description,
		CoverColor:      book.CoverColor,
		CoverURL:        book.CoverURL,
		VideoURL:        book.VideoURL,
		Summary:         book.Summary,
		CreatedAt:       book.CreatedAt,
	}
}

// BookListResponse pages through the catalog.
type BookListResponse struct {
	Books []BookResponse `json:"books"`
}

// BorrowResponse describes a borrow record.
type BorrowResponse struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	BookID     string     `json:"book_id"`
	BorrowDate time.Time  `json:"borrow_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
	Status     string     `json:"status"`
}

func toBorrowResponse(record domain.BorrowRecord) BorrowResponse {
	return BorrowResponse{
		ID:         record.ID,
		UserID:     record.UserID,
		BookID:     record.BookID,
		BorrowDate: record.BorrowDate,
		DueDate:    record.DueDate,
		ReturnDate: record.ReturnDate,
		Status:     string(record.Status),
	}
}

// BorrowListResponse lists the caller's borrow history.
type BorrowListResponse struct {
	Borrows []BorrowResponse `json:"borrows"`
}

// UploadResponse returns the stored object key for an uploaded document.
type UploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url,omitempty"`
}

// HealthResponse describes the service health payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse describes dependency readiness results.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
