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

type PaymentService interface {
	InitiatePayment(ctx context.Context, courseID, userID uuid.UUID) (*models.CheckoutSession, error)
}

type CheckoutHandler struct {
	log     logger.Log
	service PaymentService
}

func NewCheckoutHandler(log logger.Log, s PaymentService) *CheckoutHandler {
	return &CheckoutHandler{
		log:     log,
		service: s,
	}
}

func (h *CheckoutHandler) Checkout(c *gin.Context) {
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

	session, err := h.service.InitiatePayment(c.Request.Context(), courseID, userID)
	if err != nil {
		var gwErr *app_errors.GatewayError
		switch {
		case errors.Is(err, app_errors.ErrCourseNotFound), errors.Is(err, app_errors.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, app_errors.ErrCourseNotPublished):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, app_errors.ErrAlreadyEnrolled):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, app_errors.ErrInvalidPrice):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.As(err, &gwErr):
			h.log.ErrorErr("Checkout: gateway failure", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		default:
			h.log.ErrorErr("Checkout: failed to initiate payment", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, session)
}
