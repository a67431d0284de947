package payment

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/samidafali/education-backend/internal/app_errors"
	"github.com/samidafali/education-backend/internal/models"
	"github.com/samidafali/education-backend/pkg/logger"
)

type PaymentService interface {
	ConfirmPayment(ctx context.Context, intentID string) (*models.PaymentIntent, error)
}

type ConfirmHandler struct {
	log     logger.Log
	service PaymentService
}

func NewConfirmHandler(log logger.Log, s PaymentService) *ConfirmHandler {
	return &ConfirmHandler{
		log:     log,
		service: s,
	}
}

// Confirm processes a gateway confirmation for a payment intent. The gateway
// delivers at least once; replays answer 200 with the settled record.
func (h *ConfirmHandler) Confirm(c *gin.Context) {
	intentID := c.Param("intent_id")
	if intentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "intent_id is required"})
		return
	}

	record, err := h.service.ConfirmPayment(c.Request.Context(), intentID)
	if err != nil {
		var gwErr *app_errors.GatewayError
		switch {
		case errors.Is(err, app_errors.ErrIntentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.As(err, &gwErr):
			h.log.ErrorErr("Confirm: gateway failure", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		default:
			h.log.ErrorErr("Confirm: failed to process confirmation", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"intent_id": record.ID,
		"status":    record.Status,
		"state":     enrollmentState(record.Status),
	})
}

func enrollmentState(intentStatus string) string {
	switch intentStatus {
	case models.IntentSucceeded:
		return models.EnrollmentEnrolled
	case models.IntentFailed:
		return models.EnrollmentPaymentFailed
	default:
		return models.EnrollmentPaymentPending
	}
}
