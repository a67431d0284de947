package access

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samidafali/education-backend/internal/app_errors"
	"github.com/samidafali/education-backend/internal/models"
	"github.com/samidafali/education-backend/pkg/logger"
)

type fakeCourseRepo struct {
	courses map[uuid.UUID]*models.Course
}

func (f *fakeCourseRepo) CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, app_errors.ErrCourseNotFound
	}
	return c, nil
}

type fakeEnrollmentRepo struct {
	members map[uuid.UUID]bool
}

func (f *fakeEnrollmentRepo) IsEnrolled(ctx context.Context, courseID, userID uuid.UUID) (bool, error) {
	return f.members[userID], nil
}

type fakeMediaRepo struct {
	failKeys map[string]bool
}

func (f *fakeMediaRepo) GetMediaURL(ctx context.Context, objectKey string) (string, error) {
	if f.failKeys[objectKey] {
		return "", errors.New("object not found")
	}
	return "https://media.local/" + objectKey, nil
}

func testCourse() *models.Course {
	return &models.Course{
		ID:           uuid.New(),
		Title:        "Databases",
		Description:  "From pages to planners",
		Category:     "engineering",
		Difficulty:   "intermediate",
		Price:        2999,
		Status:       models.StatusPublic,
		PdfObjectKey: "courses/db/syllabus.pdf",
		Videos: []models.Video{
			{ObjectKey: "courses/db/01.mp4", Title: "Storage layout"},
			{ObjectKey: "courses/db/02.mp4", Title: "Query planning"},
		},
	}
}

func newTestService(course *models.Course, enrolled map[uuid.UUID]bool, media *fakeMediaRepo) *AccessService {
	if media == nil {
		media = &fakeMediaRepo{}
	}
	return NewAccessService(
		logger.New("prod"),
		&fakeCourseRepo{courses: map[uuid.UUID]*models.Course{course.ID: course}},
		&fakeEnrollmentRepo{members: enrolled},
		media,
	)
}

func TestVisibleContent_Enrolled(t *testing.T) {
	course := testCourse()
	userID := uuid.New()
	svc := newTestService(course, map[uuid.UUID]bool{userID: true}, nil)

	detail, err := svc.VisibleContent(context.Background(), course.ID, userID)
	require.NoError(t, err)

	assert.True(t, detail.Enrolled)
	require.Len(t, detail.Videos, 2)
	assert.Equal(t, "https://media.local/courses/db/01.mp4", detail.Videos[0].URL)
	assert.Equal(t, "Storage layout", detail.Videos[0].Title)
	require.NotNil(t, detail.PdfURL)
	assert.Equal(t, "https://media.local/courses/db/syllabus.pdf", *detail.PdfURL)
}

func TestVisibleContent_NotEnrolled(t *testing.T) {
	course := testCourse()
	userID := uuid.New()
	svc := newTestService(course, nil, nil)

	detail, err := svc.VisibleContent(context.Background(), course.ID, userID)
	require.NoError(t, err)

	assert.False(t, detail.Enrolled)
	assert.Equal(t, course.Title, detail.Title)
	assert.Equal(t, course.Price, detail.Price)
	assert.Empty(t, detail.Videos)
	assert.Nil(t, detail.PdfURL)
}

func TestVisibleContent_CourseNotFound(t *testing.T) {
	course := testCourse()
	svc := newTestService(course, nil, nil)

	_, err := svc.VisibleContent(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, app_errors.ErrCourseNotFound)
}

func TestVisibleContent_SkipsUnresolvableVideo(t *testing.T) {
	course := testCourse()
	userID := uuid.New()
	media := &fakeMediaRepo{failKeys: map[string]bool{"courses/db/01.mp4": true}}
	svc := newTestService(course, map[uuid.UUID]bool{userID: true}, media)

	detail, err := svc.VisibleContent(context.Background(), course.ID, userID)
	require.NoError(t, err)

	require.Len(t, detail.Videos, 1)
	assert.Equal(t, "Query planning", detail.Videos[0].Title)
}

func TestCourseVideos_Enrolled(t *testing.T) {
	course := testCourse()
	userID := uuid.New()
	svc := newTestService(course, map[uuid.UUID]bool{userID: true}, nil)

	videos, err := svc.CourseVideos(context.Background(), course.ID, userID)
	require.NoError(t, err)
	assert.Len(t, videos, 2)
}

func TestCourseVideos_NotEnrolled(t *testing.T) {
	course := testCourse()
	svc := newTestService(course, nil, nil)

	_, err := svc.CourseVideos(context.Background(), course.ID, uuid.New())
	assert.ErrorIs(t, err, app_errors.ErrNotEnrolled)
}
