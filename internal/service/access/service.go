package access

import (
	"context"

	"github.com/google/uuid"

	"github.com/samidafali/education-backend/internal/app_errors"
	"github.com/samidafali/education-backend/internal/models"
	"github.com/samidafali/education-backend/pkg/logger"
)

type courseRepo interface {
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

type enrollmentRepo interface {
	IsEnrolled(ctx context.Context, courseID, userID uuid.UUID) (bool, error)
}

type mediaRepo interface {
	GetMediaURL(ctx context.Context, objectKey string) (string, error)
}

// AccessService decides which protected fields of a course a user may see.
// Visibility is a pure function of enrollment-set membership.
type AccessService struct {
	log            logger.Log
	courseRepo     courseRepo
	enrollmentRepo enrollmentRepo
	mediaRepo      mediaRepo
}

func NewAccessService(log logger.Log, c courseRepo, e enrollmentRepo, m mediaRepo) *AccessService {
	return &AccessService{
		log:            log,
		courseRepo:     c,
		enrollmentRepo: e,
		mediaRepo:      m,
	}
}

func (s *AccessService) IsEnrolled(ctx context.Context, courseID, userID uuid.UUID) (bool, error) {
	return s.enrollmentRepo.IsEnrolled(ctx, courseID, userID)
}

// VisibleContent returns the course with its protected fields resolved only
// for enrolled users. A non-enrolled user gets the public fields, an empty
// video list and no PDF reference; that is a normal response, not an error.
func (s *AccessService) VisibleContent(ctx context.Context, courseID, userID uuid.UUID) (*models.CourseDetail, error) {
	course, err := s.courseRepo.CourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	enrolled, err := s.enrollmentRepo.IsEnrolled(ctx, courseID, userID)
	if err != nil {
		return nil, err
	}

	detail := &models.CourseDetail{
		ID:          course.ID,
		Title:       course.Title,
		Description: course.Description,
		Category:    course.Category,
		Difficulty:  course.Difficulty,
		Price:       course.Price,
		IsFree:      course.IsFree,
		TeacherIDs:  course.TeacherIDs,
		Enrolled:    enrolled,
		Videos:      []models.VideoDetail{},
	}

	if !enrolled {
		return detail, nil
	}

	detail.Videos = s.resolveVideos(ctx, course.Videos)

	if course.PdfObjectKey != "" {
		pdfURL, err := s.mediaRepo.GetMediaURL(ctx, course.PdfObjectKey)
		if err != nil {
			s.log.ErrorErr("VisibleContent: failed to presign pdf", err)
		} else {
			detail.PdfURL = &pdfURL
		}
	}

	return detail, nil
}

// CourseVideos returns the protected video list for an enrolled user and
// refuses everyone else.
func (s *AccessService) CourseVideos(ctx context.Context, courseID, userID uuid.UUID) ([]models.VideoDetail, error) {
	course, err := s.courseRepo.CourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	enrolled, err := s.enrollmentRepo.IsEnrolled(ctx, courseID, userID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, app_errors.ErrNotEnrolled
	}

	return s.resolveVideos(ctx, course.Videos), nil
}

func (s *AccessService) resolveVideos(ctx context.Context, videos []models.Video) []models.VideoDetail {
	details := make([]models.VideoDetail, 0, len(videos))
	for _, v := range videos {
		u, err := s.mediaRepo.GetMediaURL(ctx, v.ObjectKey)
		if err != nil {
			s.log.ErrorErr("failed to presign video", err, "object_key", v.ObjectKey)
			continue
		}
		details = append(details, models.VideoDetail{URL: u, Title: v.Title})
	}
	return details
}
