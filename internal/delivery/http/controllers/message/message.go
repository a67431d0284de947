package message

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

type MessagingService interface {
	Send(ctx context.Context, courseID, senderID, teacherID uuid.UUID, content string, pdfURL *string) (*models.Message, error)
	Reply(ctx context.Context, messageID, teacherID uuid.UUID, content string) (*models.Message, error)
	Conversation(ctx context.Context, courseID, requesterID, peerID uuid.UUID) ([]models.Message, error)
	Inbox(ctx context.Context, receiverID uuid.UUID) ([]models.Message, error)
	MarkRead(ctx context.Context, messageID, requesterID uuid.UUID) error
}

type MessageHandler struct {
	log     logger.Log
	service MessagingService
}

func NewMessageHandler(log logger.Log, s MessagingService) *MessageHandler {
	return &MessageHandler{
		log:     log,
		service: s,
	}
}

type sendRequest struct {
	CourseID  string  `json:"course_id" binding:"required"`
	TeacherID string  `json:"teacher_id" binding:"required"`
	Content   string  `json:"content" binding:"required"`
	PdfURL    *string `json:"pdf_url"`
}

func (h *MessageHandler) Send(c *gin.Context) {
	var input sendRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	courseID, err := uuid.Parse(input.CourseID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}
	teacherID, err := uuid.Parse(input.TeacherID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid teacher_id"})
		return
	}

	id, ok := c.Get(middleware.ClientIDCtx)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	senderID := id.(uuid.UUID)

	msg, err := h.service.Send(c.Request.Context(), courseID, senderID, teacherID, input.Content, input.PdfURL)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

type replyRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *MessageHandler) Reply(c *gin.Context) {
	messageID, err := uuid.Parse(c.Param("message_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message_id"})
		return
	}
	var input replyRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, ok := c.Get(middleware.ClientIDCtx)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	teacherID := id.(uuid.UUID)

	msg, err := h.service.Reply(c.Request.Context(), messageID, teacherID, input.Content)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *MessageHandler) Conversation(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}
	peerID, err := uuid.Parse(c.Param("peer_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid peer_id"})
		return
	}

	id, ok := c.Get(middleware.ClientIDCtx)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	requesterID := id.(uuid.UUID)

	msgs, err := h.service.Conversation(c.Request.Context(), courseID, requesterID, peerID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

func (h *MessageHandler) Inbox(c *gin.Context) {
	id, ok := c.Get(middleware.ClientIDCtx)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	receiverID := id.(uuid.UUID)

	msgs, err := h.service.Inbox(c.Request.Context(), receiverID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	messageID, err := uuid.Parse(c.Param("message_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message_id"})
		return
	}

	id, ok := c.Get(middleware.ClientIDCtx)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	requesterID := id.(uuid.UUID)

	if err := h.service.MarkRead(c.Request.Context(), messageID, requesterID); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "read"})
}

func (h *MessageHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app_errors.ErrEmptyContent):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, app_errors.ErrNotEnrolled),
		errors.Is(err, app_errors.ErrTeacherNotAssigned),
		errors.Is(err, app_errors.ErrNotReceiver):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, app_errors.ErrCourseNotFound), errors.Is(err, app_errors.ErrMessageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.ErrorErr("messaging request failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
