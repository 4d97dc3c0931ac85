package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/syedukkashah/university-library/internal/core/domain"
	"github.com/syedukkashah/university-library/internal/usecase"
)

// AdminBookHandler exposes catalog management for administrators.
type AdminBookHandler struct {
	library *usecase.LibraryService
}

// NewAdminBookHandler constructs AdminBookHandler.
func NewAdminBookHandler(library *usecase.LibraryService) *AdminBookHandler {
	return &AdminBookHandler{library: library}
}

// RegisterRoutes wires the admin catalog endpoints.
func (h *AdminBookHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("", h.CreateBook)
	group.PUT("/:id", h.UpdateBook)
	group.DELETE("/:id", h.DeleteBook)
}

func bookFromRequest(req BookRequest) domain.Book {
	return domain.Book{
		Title:       req.Title,
		Author:      req.Author,
		Genre:       req.Genre,
		Rating:      req.Rating,
		TotalCopies: req.TotalCopies,
		Description: req.Description,
		CoverColor:  req.CoverColor,
		CoverURL:    req.CoverURL,
		VideoURL:    req.VideoURL,
		Summary:     req.Summary,
	}
}

// CreateBook adds a catalog entry.
func (h *AdminBookHandler) CreateBook(c *gin.Context) {
	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	book, err := h.library.CreateBook(c.Request.Context(), bookFromRequest(req))
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, toBookResponse(*book))
}

// UpdateBook replaces the editable fields of a catalog entry.
func (h *AdminBookHandler) UpdateBook(c *gin.Context) {
	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	book := bookFromRequest(req)
	book.ID = c.Param("id")

	if err := h.library.UpdateBook(c.Request.Context(), book); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrBookNotFound, Status: http.StatusNotFound, Message: "book not found"},
		}, http.StatusInternalServerError, "failed to update book")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "book updated"})
}

// ListBorrows returns borrow records across all accounts, newest first.
func (h *AdminBookHandler) ListBorrows(c *gin.Context) {
	limit, offset := pagination(c)

	records, err := h.library.ListAllBorrows(c.Request.Context(), limit, offset)
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

// DeleteBook removes a catalog entry.
func (h *AdminBookHandler) DeleteBook(c *gin.Context) {
	if err := h.library.DeleteBook(c.Request.Context(), c.Param("id")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrBookNotFound, Status: http.StatusNotFound, Message: "book not found"},
		}, http.StatusInternalServerError, "failed to delete book")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "book deleted"})
}
