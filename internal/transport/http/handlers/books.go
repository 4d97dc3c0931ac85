package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/syedukkashah/university-library/internal/core/port"
	"github.com/syedukkashah/university-library/internal/transport/http/middleware"
	"github.com/syedukkashah/university-library/internal/usecase"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// BookHandler exposes the reader-facing catalog and lending endpoints.
type BookHandler struct {
	library *usecase.LibraryService
}

// NewBookHandler constructs BookHandler.
func NewBookHandler(library *usecase.LibraryService) *BookHandler {
	return &BookHandler{library: library}
}

func pagination(c *gin.Context) (limit, offset int) {
	limit = defaultPageSize
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = min(parsed, maxPageSize)
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}

// ListBooks returns a page of the catalog, optionally filtered by genre.
func (h *BookHandler) ListBooks(c *gin.Context) {
	limit, offset := pagination(c)
	filter := port.BookFilter{
		Genre:  c.Query("genre"),
		Limit:  limit,
		Offset: offset,
	}

	books, err := h.library.ListBooks(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list books"))
		return
	}

	resp := BookListResponse{Books: make([]BookResponse, 0, len(books))}
	for _, book := range books {
		resp.Books = append(resp.Books, toBookResponse(book))
	}

	c.JSON(http.StatusOK, resp)
}

// GetBook returns a single catalog entry.
func (h *BookHandler) GetBook(c *gin.Context) {
	book, err := h.library.GetBook(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrBookNotFound, Status: http.StatusNotFound, Message: "book not found"},
		}, http.StatusInternalServerError, "failed to load book")
		return
	}

	c.JSON(http.StatusOK, toBookResponse(*book))
}

// BorrowBook lends a copy of the book to the caller.
func (h *BookHandler) BorrowBook(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	record, err := h.library.BorrowBook(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrBookNotFound, Status: http.StatusNotFound, Message: "book not found"},
			{Err: usecase.ErrAccountNotFound, Status: http.StatusUnauthorized, Message: "account not found"},
			{Err: usecase.ErrAccountNotApproved, Status: http.StatusForbidden, Message: "account is not approved for borrowing"},
			{Err: usecase.ErrNoAvailableCopies, Status: http.StatusConflict, Message: "no copies available"},
		}, http.StatusInternalServerError, "failed to borrow book")
		return
	}

	c.JSON(http.StatusCreated, toBorrowResponse(*record))
}

// ListBorrows returns the caller's borrow history.
func (h *BookHandler) ListBorrows(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	records, err := h.library.ListBorrows(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list borrows"))
		return
	}

	resp := BorrowListResponse{Borrows: make([]BorrowResponse, 0, len(records))}
	for _, record := range records {
		resp.Borrows = append(resp.Borrows, toBorrowResponse(record))
	}

	c.JSON(http.StatusOK, resp)
}

// ReturnBook closes one of the caller's borrow records.
func (h *BookHandler) ReturnBook(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	if err := h.library.ReturnBook(c.Request.Context(), userID, c.Param("id")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrBorrowNotFound, Status: http.StatusNotFound, Message: "borrow record not found"},
			{Err: usecase.ErrAlreadyReturned, Status: http.StatusConflict, Message: "borrow record already returned"},
		}, http.StatusInternalServerError, "failed to return book")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "book returned"})
}
