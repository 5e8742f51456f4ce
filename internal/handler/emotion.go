package handler

import (
	"errors"
	"io"
	"net/http"

	"emotion-service/internal/middleware"
	"emotion-service/internal/models"
	"emotion-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type EmotionHandler interface {
	Upload(c *gin.Context)
	List(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type emotionHandler struct {
	emotions service.EmotionService
	logger   *zap.Logger
}

func NewEmotionHandler(emotions service.EmotionService, logger *zap.Logger) EmotionHandler {
	return &emotionHandler{emotions: emotions, logger: logger}
}

// writeError maps service failures onto HTTP statuses in one place.
func (h *emotionHandler) writeError(c *gin.Context, err error) {
	var labelErr *service.InvalidLabelError
	var payloadErr *service.PayloadError

	switch {
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to access this resource"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
	case errors.As(err, &labelErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": labelErr.Error(), "allowed": labelErr.Allowed})
	case errors.As(err, &payloadErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": payloadErr.Error()})
	case errors.Is(err, service.ErrClassificationUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Classification service unavailable"})
	default:
		h.logger.Error("Unhandled service error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// Upload handles POST /api/v1/emotions. Accepts one or more multipart
// files under the "files" field; each is classified and stored.
func (h *emotionHandler) Upload(c *gin.Context) {
	principal := middleware.Principal(c)

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files uploaded"})
		return
	}

	h.logger.Info("Processing upload",
		zap.String("username", principal.Username),
		zap.Int("files", len(files)))

	results := make([]*models.EmotionRecord, 0, len(files))
	for _, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
			return
		}

		record, err := h.emotions.Create(c.Request.Context(), principal,
			fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
		if err != nil {
			h.writeError(c, err)
			return
		}
		results = append(results, record)
	}

	c.JSON(http.StatusCreated, results)
}

// List handles GET /api/v1/emotions. Admins may filter by user_id;
// users always see their own records.
func (h *emotionHandler) List(c *gin.Context) {
	principal := middleware.Principal(c)
	ownerFilter := c.Query("user_id")

	records, err := h.emotions.List(principal, ownerFilter)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

func (h *emotionHandler) Get(c *gin.Context) {
	principal := middleware.Principal(c)
	id := c.Param("id")

	record, err := h.emotions.Get(principal, id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.logger.Debug("Emotion record retrieved",
		zap.String("record_id", record.ID),
		zap.String("user_id", record.UserID))
	c.JSON(http.StatusOK, record)
}

func (h *emotionHandler) Update(c *gin.Context) {
	principal := middleware.Principal(c)
	id := c.Param("id")

	var update models.EmotionUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.emotions.Update(principal, id, &update)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *emotionHandler) Delete(c *gin.Context) {
	principal := middleware.Principal(c)
	id := c.Param("id")

	if err := h.emotions.Delete(principal, id); err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
