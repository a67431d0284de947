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

type EnrollmentService interface {
	RequestEnrollment(ctx context.Context, courseID, userID uuid.UUID) (*models.EnrollmentState, error)
	EnrolledCourses(ctx context.Context, userID uuid.UUID) ([]models.Course, error)
}

type EnrollHandler struct {
	log     logger.Log
	service EnrollmentService
}

func NewEnrollHandler(log logger.Log, s EnrollmentService) *EnrollHandler {
	return &EnrollHandler{
		log:     log,
		service: s,
	}
}

// Enroll answers 200 with the enrollment state, or 409 when the course is
// paid and the caller has to go through checkout first.
func (h *EnrollHandler) Enroll(c *gin.Context) {
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

	state, err := h.service.RequestEnrollment(c.Request.Context(), courseID, userID)
	if err != nil {
		switch {
		case errors.Is(err, app_errors.ErrCourseNotFound), errors.Is(err, app_errors.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, app_errors.ErrCourseNotPublished):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			h.log.ErrorErr("Enroll: enrollment request failed", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	if state.State == models.EnrollmentPaymentRequired {
		c.JSON(http.StatusConflict, state)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *EnrollHandler) EnrolledCourses(c *gin.Context) {
	id, ok := c.Get(middleware.ClientIDCtx)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	userID := id.(uuid.UUID)

	courses, err := h.service.EnrolledCourses(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, app_errors.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.log.ErrorErr("EnrolledCourses: failed to list courses", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses})
}
