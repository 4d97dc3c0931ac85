package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/syedukkashah/university-library/internal/core/domain"
	"github.com/syedukkashah/university-library/internal/core/port"
	"github.com/syedukkashah/university-library/internal/transport/http/middleware"
	"github.com/syedukkashah/university-library/internal/usecase"
)

// AdminAccountHandler exposes the account review console.
type AdminAccountHandler struct {
	approval *usecase.ApprovalService
}

// NewAdminAccountHandler constructs AdminAccountHandler.
func NewAdminAccountHandler(approval *usecase.ApprovalService) *AdminAccountHandler {
	return &AdminAccountHandler{approval: approval}
}

// RegisterRoutes wires the admin account endpoints.
func (h *AdminAccountHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("", h.ListAccounts)
	group.PATCH("/:id/status", h.SetStatus)
}

// ListAccounts returns accounts, optionally filtered by status. Without
// a filter the console shows everything; with status=PENDING it becomes
// the review queue.
func (h *AdminAccountHandler) ListAccounts(c *gin.Context) {
	filter := port.UserFilter{Limit: defaultPageSize}

	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			filter.Limit = min(parsed, maxPageSize)
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			filter.Offset = parsed
		}
	}

	if raw := c.Query("status"); raw != "" {
		status := domain.UserStatus(strings.ToUpper(raw))
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "unknown status filter"))
			return
		}
		filter.Status = status
	}

	accounts, total, err := h.approval.ListAccounts(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list accounts"))
		return
	}

	resp := AccountListResponse{
		Accounts: make([]UserSummary, 0, len(accounts)),
		Total:    total,
	}
	for _, account := range accounts {
		resp.Accounts = append(resp.Accounts, toUserSummary(account))
	}

	c.JSON(http.StatusOK, resp)
}

// SetStatus records an approval or rejection decision.
func (h *AdminAccountHandler) SetStatus(c *gin.Context) {
	var req AccountDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	status := domain.UserStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	decidedBy := middleware.GetUserID(c)

	updated, err := h.approval.SetStatus(c.Request.Context(), c.Param("id"), status, decidedBy)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrAccountNotFound, Status: http.StatusNotFound, Message: "account not found"},
			{Err: usecase.ErrInvalidDecision, Status: http.StatusBadRequest, Message: "status must be APPROVED or REJECTED"},
		}, http.StatusInternalServerError, "failed to update account status")
		return
	}

	c.JSON(http.StatusOK, toUserSummary(*updated))
}
