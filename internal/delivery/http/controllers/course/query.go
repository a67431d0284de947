package course

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/samidafali/education-backend/internal/app_errors"
	"github.com/samidafali/education-backend/internal/delivery/http/controllers/middleware"
	"github.com/samidafali/education-backend/internal/models"
	"github.com/samidafali/education-backend/pkg/logger"
)

type AccessService interface {
	VisibleContent(ctx context.Context, courseID, userID uuid.UUID) (*models.CourseDetail, error)
	CourseVideos(ctx context.Context, courseID, userID uuid.UUID) ([]models.VideoDetail, error)
}

type QueryHandler struct {
	log     logger.Log
	service AccessService
}

func NewQueryHandler(log logger.Log, s AccessService) *QueryHandler {
	return &QueryHandler{
		log:     log,
		service: s,
	}
}

// CourseByID returns the course with protected fields gated by enrollment.
// Non-enrolled users get the public fields with empty videos and no pdf.
func (h *QueryHandler) CourseByID(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}

	id, ok := c.Get(middleware.ClientIDCtx)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	userID := id.(uuid.UUID)

	detail, err := h.service.VisibleContent(c.Request.Context(), courseID, userID)
	if err != nil {
		if errors.Is(err, app_errors.ErrCourseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.log.ErrorErr("CourseByID: failed to resolve visible content", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *QueryHandler) CourseVideos(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}

	id, ok := c.Get(middleware.ClientIDCtx)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	userID := id.(uuid.UUID)

	videos, err := h.service.CourseVideos(c.Request.Context(), courseID, userID)
	if err != nil {
		switch {
		case errors.Is(err, app_errors.ErrCourseNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, app_errors.ErrNotEnrolled):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			h.log.ErrorErr("CourseVideos: failed to load videos", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"videos": videos})
}
