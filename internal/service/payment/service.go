package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/samidafali/education-backend/internal/app_errors"
	"github.com/samidafali/education-backend/internal/mailer"
	"github.com/samidafali/education-backend/internal/models"
	"github.com/samidafali/education-backend/pkg/logger"
)

type courseRepo interface {
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

type userRepo interface {
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type enrollmentRepo interface {
	EnrollIfAbsent(ctx context.Context, courseID, userID uuid.UUID) (bool, error)
	IsEnrolled(ctx context.Context, courseID, userID uuid.UUID) (bool, error)
}

type intentRepo interface {
	CreateIntent(ctx context.Context, intent *models.PaymentIntent) error
	IntentByID(ctx context.Context, id string) (*models.PaymentIntent, error)
	MarkStatus(ctx context.Context, id string, status string) error
}

// Gateway is the injected payment processor capability. Implemented by the
// stripe adapter in production and by a double in tests.
type Gateway interface {
	CreateIntent(ctx context.Context, amount int64, currency, receiptEmail string, metadata map[string]string) (id, clientSecret string, err error)
	IntentStatus(ctx context.Context, id string) (string, error)
}

// PaymentService bridges enrollment to the payment gateway. It creates
// intents priced from the stored course, correlates them with the
// (course, user) pair, and finalizes enrollment only once the gateway
// reports a succeeded payment.
type PaymentService struct {
	log            logger.Log
	courseRepo     courseRepo
	userRepo       userRepo
	enrollmentRepo enrollmentRepo
	intentRepo     intentRepo
	gateway        Gateway
	mailer         mailer.Mailer
	currency       string
	publishableKey string
}

func NewPaymentService(log logger.Log, c courseRepo, u userRepo, e enrollmentRepo, i intentRepo, g Gateway, m mailer.Mailer, currency, publishableKey string) *PaymentService {
	return &PaymentService{
		log:            log,
		courseRepo:     c,
		userRepo:       u,
		enrollmentRepo: e,
		intentRepo:     i,
		gateway:        g,
		mailer:         m,
		currency:       currency,
		publishableKey: publishableKey,
	}
}

// InitiatePayment creates a gateway intent for the course's current price and
// returns the client secret needed to complete it. The amount is always taken
// from the store, never from the caller. No retry on gateway failure: a
// silent retry could mint duplicate intents.
func (s *PaymentService) InitiatePayment(ctx context.Context, courseID, userID uuid.UUID) (*models.CheckoutSession, error) {
	course, err := s.courseRepo.CourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if course.Status != models.StatusPublic {
		return nil, app_errors.ErrCourseNotPublished
	}
	if course.IsFree || course.Price <= 0 {
		return nil, app_errors.ErrInvalidPrice
	}

	enrolled, err := s.enrollmentRepo.IsEnrolled(ctx, courseID, userID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, app_errors.ErrAlreadyEnrolled
	}

	metadata := map[string]string{
		"course_id": courseID.String(),
		"user_id":   userID.String(),
	}
	intentID, clientSecret, err := s.gateway.CreateIntent(ctx, course.Price, s.currency, user.Email, metadata)
	if err != nil {
		return nil, &app_errors.GatewayError{Err: err}
	}

	record := &models.PaymentIntent{
		ID:       intentID,
		CourseID: courseID,
		UserID:   userID,
		Amount:   course.Price,
		Currency: s.currency,
		Status:   models.IntentPending,
	}
	if err := s.intentRepo.CreateIntent(ctx, record); err != nil {
		// The gateway intent exists but was never correlated; it stays
		// pending at the gateway and is safely abandoned.
		return nil, err
	}

	return &models.CheckoutSession{
		IntentID:       intentID,
		ClientSecret:   clientSecret,
		PublishableKey: s.publishableKey,
	}, nil
}

// ConfirmPayment processes a gateway confirmation, delivered by webhook or
// poll. It is idempotent under at-least-once delivery: a confirmation for an
// already succeeded intent changes nothing. Enrollment happens before the
// local record flips to succeeded, so a crash in between is healed by the
// next delivery.
func (s *PaymentService) ConfirmPayment(ctx context.Context, intentID string) (*models.PaymentIntent, error) {
	record, err := s.intentRepo.IntentByID(ctx, intentID)
	if err != nil {
		return nil, err
	}
	if record.Status == models.IntentSucceeded {
		return record, nil
	}

	status, err := s.gateway.IntentStatus(ctx, intentID)
	if err != nil {
		return nil, &app_errors.GatewayError{Err: err}
	}

	switch status {
	case models.IntentSucceeded:
		inserted, err := s.enrollmentRepo.EnrollIfAbsent(ctx, record.CourseID, record.UserID)
		if err != nil {
			return nil, err
		}
		if err := s.intentRepo.MarkStatus(ctx, intentID, models.IntentSucceeded); err != nil {
			return nil, err
		}
		record.Status = models.IntentSucceeded
		if inserted {
			s.notifyEnrolled(ctx, record)
		}
	case models.IntentFailed:
		if err := s.intentRepo.MarkStatus(ctx, intentID, models.IntentFailed); err != nil {
			return nil, err
		}
		record.Status = models.IntentFailed
	default:
		// Still pending at the gateway; nothing to do.
	}

	return record, nil
}

func (s *PaymentService) notifyEnrolled(ctx context.Context, record *models.PaymentIntent) {
	user, err := s.userRepo.UserByID(ctx, record.UserID)
	if err != nil {
		s.log.ErrorErr("confirmation mail: failed to load user", err, "user_id", record.UserID)
		return
	}
	title := record.CourseID.String()
	if course, err := s.courseRepo.CourseByID(ctx, record.CourseID); err == nil {
		title = course.Title
	}
	body := fmt.Sprintf("Dear %s, you have successfully enrolled in the course %s!", user.Username, title)
	if err := s.mailer.Send(user.Email, "Course Enrollment Confirmation", body); err != nil {
		s.log.ErrorErr("failed to send enrollment confirmation", err, "user_id", user.ID)
	}
}
