package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/syedukkashah/university-library/internal/core/port"
)

// maxCardUploadBytes bounds university card uploads. Cards are photos or
// scans; anything larger is rejected before it reaches storage.
const maxCardUploadBytes = 10 << 20

var allowedCardExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
	".webp": true,
}

// UploadHandler stores university card documents submitted during
// registration.
type UploadHandler struct {
	storage port.FileStorage
	logger  *zap.Logger
}

// NewUploadHandler constructs UploadHandler.
func NewUploadHandler(storage port.FileStorage, logger *zap.Logger) *UploadHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadHandler{storage: storage, logger: logger}
}

// RegisterRoutes wires the upload endpoints.
func (h *UploadHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/university-card", h.UploadUniversityCard)
}

// UploadUniversityCard accepts a multipart file and stores it under a
// generated key. The returned key is what sign-up expects in its
// university_card field.
func (h *UploadHandler) UploadUniversityCard(c *gin.Context) {
	if h.storage == nil {
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse(c, "document storage is not configured"))
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "file field is required"))
		return
	}

	if header.Size > maxCardUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, NewErrorResponse(c, "file exceeds the upload limit"))
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedCardExtensions[ext] {
		c.JSON(http.StatusUnsupportedMediaType, NewErrorResponse(c, "unsupported file type"))
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "could not read uploaded file"))
		return
	}
	defer file.Close()

	key := fmt.Sprintf("%s%s", uuid.NewString(), ext)
	contentType := header.Header.Get("Content-Type")

	storedKey, err := h.storage.Upload(c.Request.Context(), key, contentType, file)
	if err != nil {
		h.logger.Error("University card upload failed",
			zap.String("key", key),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "upload failed"))
		return
	}

	url, err := h.storage.ObjectURL(c.Request.Context(), storedKey)
	if err != nil {
		h.logger.Warn("University card URL generation failed",
			zap.String("key", storedKey),
			zap.Error(err),
		)
		url = ""
	}

	c.JSON(http.StatusCreated, UploadResponse{Key: storedKey, URL: url})
}
