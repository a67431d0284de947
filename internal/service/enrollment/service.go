package enrollment

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
	TeacherIDs(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error)
}

type userRepo interface {
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type enrollmentRepo interface {
	EnrollIfAbsent(ctx context.Context, courseID, userID uuid.UUID) (bool, error)
	IsEnrolled(ctx context.Context, courseID, userID uuid.UUID) (bool, error)
	EnrolledCourses(ctx context.Context, userID uuid.UUID) ([]models.Course, error)
}

// EnrollmentService is the state machine deciding whether an enrollment
// request completes immediately (free course) or is deferred to the payment
// flow (paid course). The enrolled set is only ever mutated through the
// store's atomic insert-if-absent.
type EnrollmentService struct {
	log            logger.Log
	courseRepo     courseRepo
	userRepo       userRepo
	enrollmentRepo enrollmentRepo
	mailer         mailer.Mailer
}

func NewEnrollmentService(log logger.Log, c courseRepo, u userRepo, e enrollmentRepo, m mailer.Mailer) *EnrollmentService {
	return &EnrollmentService{
		log:            log,
		courseRepo:     c,
		userRepo:       u,
		enrollmentRepo: e,
		mailer:         m,
	}
}

// RequestEnrollment enrolls the user right away for a free course, or tells
// the caller to go through checkout for a paid one. Repeated requests for an
// already enrolled user succeed without touching the store.
func (s *EnrollmentService) RequestEnrollment(ctx context.Context, courseID, userID uuid.UUID) (*models.EnrollmentState, error) {
	course, err := s.courseRepo.CourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	enrolled, err := s.enrollmentRepo.IsEnrolled(ctx, courseID, userID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return &models.EnrollmentState{State: models.EnrollmentEnrolled}, nil
	}

	if course.Status != models.StatusPublic {
		return nil, app_errors.ErrCourseNotPublished
	}

	if !course.IsFree {
		return &models.EnrollmentState{State: models.EnrollmentPaymentRequired}, nil
	}

	inserted, err := s.enrollmentRepo.EnrollIfAbsent(ctx, courseID, userID)
	if err != nil {
		return nil, err
	}
	if inserted {
		s.notifyEnrolled(user, course)
	}

	return &models.EnrollmentState{State: models.EnrollmentEnrolled}, nil
}

func (s *EnrollmentService) EnrolledCourses(ctx context.Context, userID uuid.UUID) ([]models.Course, error) {
	if _, err := s.userRepo.UserByID(ctx, userID); err != nil {
		return nil, err
	}
	courses, err := s.enrollmentRepo.EnrolledCourses(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range courses {
		courses[i].TeacherIDs, err = s.courseRepo.TeacherIDs(ctx, courses[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return courses, nil
}

func (s *EnrollmentService) notifyEnrolled(user *models.User, course *models.Course) {
	body := fmt.Sprintf("Dear %s, you have successfully enrolled in the course %s!", user.Username, course.Title)
	if err := s.mailer.Send(user.Email, "Course Enrollment Confirmation", body); err != nil {
		s.log.ErrorErr("failed to send enrollment confirmation", err, "user_id", user.ID)
	}
}
