package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kurihiro0119/github-profile-summarizer/internal/domain"
	apperrors "github.com/kurihiro0119/github-profile-summarizer/internal/errors"
)

// Summarizer is the workflow the handler drives for each request
type Summarizer interface {
	Summarize(ctx context.Context, username string) (*domain.Summary, error)
}

// Handler handles API requests
type Handler struct {
	summarizer Summarizer
}

// NewHandler creates a new API handler
func NewHandler(s Summarizer) *Handler {
	return &Handler{
		summarizer: s,
	}
}

// GetUserSummary returns the aggregated summary for a user
// GET /api/v1/users/:username/summary
func (h *Handler) GetUserSummary(c *gin.Context) {
	username := c.Param("username")
	if username == "" {
		respondError(c, apperrors.NewBadRequestError("username is required"))
		return
	}

	summary, err := h.summarizer.Summarize(c.Request.Context(), username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": summary,
	})
}

// HealthCheck returns the API health status
// GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// respondError sends an error response
func respondError(c *gin.Context, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		status := http.StatusInternalServerError
		switch appErr.Code {
		case apperrors.ErrCodeNotFound:
			status = http.StatusNotFound
		case apperrors.ErrCodeUnauthorized:
			status = http.StatusUnauthorized
		case apperrors.ErrCodeRateLimited:
			status = http.StatusTooManyRequests
		case apperrors.ErrCodeBadRequest:
			status = http.StatusBadRequest
		case apperrors.ErrCodeUpstream, apperrors.ErrCodeTransport:
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error": gin.H{
			"code":    "INTERNAL_ERROR",
			"message": err.Error(),
		},
	})
}
