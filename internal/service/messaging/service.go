package messaging

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/samidafali/education-backend/internal/app_errors"
	"github.com/samidafali/education-backend/internal/models"
	"github.com/samidafali/education-backend/pkg/logger"
)

type accessGate interface {
	IsEnrolled(ctx context.Context, courseID, userID uuid.UUID) (bool, error)
}

type courseRepo interface {
	IsTeacherAssigned(ctx context.Context, courseID, teacherID uuid.UUID) (bool, error)
}

type messageRepo interface {
	CreateMessage(ctx context.Context, msg *models.Message) error
	MessageByID(ctx context.Context, id uuid.UUID) (*models.Message, error)
	Conversation(ctx context.Context, courseID, a, b uuid.UUID) ([]models.Message, error)
	ReceivedMessages(ctx context.Context, receiverID uuid.UUID) ([]models.Message, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}

// MessagingService authorizes and records messages between an enrolled
// student and a teacher assigned to the same course. All authorization goes
// through the access gate's membership check.
type MessagingService struct {
	log         logger.Log
	gate        accessGate
	courseRepo  courseRepo
	messageRepo messageRepo
}

func NewMessagingService(log logger.Log, gate accessGate, c courseRepo, m messageRepo) *MessagingService {
	return &MessagingService{
		log:         log,
		gate:        gate,
		courseRepo:  c,
		messageRepo: m,
	}
}

// Send records a student-to-teacher message. The sender must be enrolled in
// the course and the receiver must be one of its assigned teachers.
func (s *MessagingService) Send(ctx context.Context, courseID, senderID, teacherID uuid.UUID, content string, pdfURL *string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, app_errors.ErrEmptyContent
	}

	enrolled, err := s.gate.IsEnrolled(ctx, courseID, senderID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, app_errors.ErrNotEnrolled
	}

	assigned, err := s.courseRepo.IsTeacherAssigned(ctx, courseID, teacherID)
	if err != nil {
		return nil, err
	}
	if !assigned {
		return nil, app_errors.ErrTeacherNotAssigned
	}

	msg := &models.Message{
		SenderID:   senderID,
		ReceiverID: teacherID,
		CourseID:   courseID,
		Content:    content,
		PdfURL:     pdfURL,
	}
	if err := s.messageRepo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Reply records a teacher's answer to a received message, addressed to the
// original sender on the original course. The replying teacher must be
// assigned to that course.
func (s *MessagingService) Reply(ctx context.Context, messageID, teacherID uuid.UUID, content string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, app_errors.ErrEmptyContent
	}

	original, err := s.messageRepo.MessageByID(ctx, messageID)
	if err != nil {
		return nil, err
	}

	assigned, err := s.courseRepo.IsTeacherAssigned(ctx, original.CourseID, teacherID)
	if err != nil {
		return nil, err
	}
	if !assigned {
		return nil, app_errors.ErrTeacherNotAssigned
	}

	reply := &models.Message{
		SenderID:   teacherID,
		ReceiverID: original.SenderID,
		CourseID:   original.CourseID,
		Content:    content,
	}
	if err := s.messageRepo.CreateMessage(ctx, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// Conversation returns the messages between the requester and a peer for a
// course, oldest first. The requester must be enrolled in the course or be
// one of its assigned teachers.
func (s *MessagingService) Conversation(ctx context.Context, courseID, requesterID, peerID uuid.UUID) ([]models.Message, error) {
	enrolled, err := s.gate.IsEnrolled(ctx, courseID, requesterID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		assigned, err := s.courseRepo.IsTeacherAssigned(ctx, courseID, requesterID)
		if err != nil {
			return nil, err
		}
		if !assigned {
			return nil, app_errors.ErrNotEnrolled
		}
	}

	return s.messageRepo.Conversation(ctx, courseID, requesterID, peerID)
}

// Inbox lists the messages addressed to the requester across all their
// courses, newest first. Students reach their side of a thread through
// Conversation; the inbox is how a teacher discovers incoming messages.
func (s *MessagingService) Inbox(ctx context.Context, receiverID uuid.UUID) ([]models.Message, error) {
	return s.messageRepo.ReceivedMessages(ctx, receiverID)
}

// MarkRead flips is_read on a message; only its receiver may do that.
func (s *MessagingService) MarkRead(ctx context.Context, messageID, requesterID uuid.UUID) error {
	msg, err := s.messageRepo.MessageByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.ReceiverID != requesterID {
		return app_errors.ErrNotReceiver
	}
	return s.messageRepo.MarkRead(ctx, messageID)
}
