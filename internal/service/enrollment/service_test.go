package enrollment

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samidafali/education-backend/internal/app_errors"
	"github.com/samidafali/education-backend/internal/models"
	"github.com/samidafali/education-backend/pkg/logger"
)

type fakeCourseRepo struct {
	courses  map[uuid.UUID]*models.Course
	teachers map[uuid.UUID][]uuid.UUID
}

func (f *fakeCourseRepo) CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, app_errors.ErrCourseNotFound
	}
	return c, nil
}

func (f *fakeCourseRepo) TeacherIDs(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error) {
	return f.teachers[courseID], nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*models.User
}

func (f *fakeUserRepo) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, app_errors.ErrUserNotFound
	}
	return u, nil
}

type fakeEnrollmentRepo struct {
	mu      sync.Mutex
	members map[uuid.UUID]map[uuid.UUID]struct{}
	courses map[uuid.UUID]*models.Course
}

func newFakeEnrollmentRepo(courses map[uuid.UUID]*models.Course) *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{
		members: make(map[uuid.UUID]map[uuid.UUID]struct{}),
		courses: courses,
	}
}

func (f *fakeEnrollmentRepo) EnrollIfAbsent(ctx context.Context, courseID, userID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	set, ok := f.members[courseID]
	if !ok {
		set = make(map[uuid.UUID]struct{})
		f.members[courseID] = set
	}
	if _, exists := set[userID]; exists {
		return false, nil
	}
	set[userID] = struct{}{}
	return true, nil
}

func (f *fakeEnrollmentRepo) IsEnrolled(ctx context.Context, courseID, userID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.members[courseID][userID]
	return ok, nil
}

func (f *fakeEnrollmentRepo) EnrolledCourses(ctx context.Context, userID uuid.UUID) ([]models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Course
	for courseID, set := range f.members {
		if _, ok := set[userID]; ok {
			out = append(out, *f.courses[courseID])
		}
	}
	return out, nil
}

func (f *fakeEnrollmentRepo) size(courseID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.members[courseID])
}

type fakeMailer struct {
	mu    sync.Mutex
	sends []string
}

func (f *fakeMailer) Send(to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sends = append(f.sends, to)
	return nil
}

func (f *fakeMailer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sends)
}

func newTestService(courses map[uuid.UUID]*models.Course, users map[uuid.UUID]*models.User, teachers map[uuid.UUID][]uuid.UUID) (*EnrollmentService, *fakeEnrollmentRepo, *fakeMailer) {
	enrollments := newFakeEnrollmentRepo(courses)
	mail := &fakeMailer{}
	svc := NewEnrollmentService(
		logger.New("prod"),
		&fakeCourseRepo{courses: courses, teachers: teachers},
		&fakeUserRepo{users: users},
		enrollments,
		mail,
	)
	return svc, enrollments, mail
}

func freeCourse(id uuid.UUID) *models.Course {
	return &models.Course{ID: id, Title: "Intro to Go", IsFree: true, Status: models.StatusPublic}
}

func paidCourse(id uuid.UUID, price int64) *models.Course {
	return &models.Course{ID: id, Title: "Advanced Go", Price: price, Status: models.StatusPublic}
}

func TestRequestEnrollment_FreeCourse(t *testing.T) {
	courseID := uuid.New()
	userID := uuid.New()
	svc, enrollments, mail := newTestService(
		map[uuid.UUID]*models.Course{courseID: freeCourse(courseID)},
		map[uuid.UUID]*models.User{userID: {ID: userID, Username: "u1", Email: "u1@example.com"}},
		nil,
	)

	state, err := svc.RequestEnrollment(context.Background(), courseID, userID)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentEnrolled, state.State)
	assert.Equal(t, 1, enrollments.size(courseID))
	assert.Equal(t, 1, mail.count())
}

func TestRequestEnrollment_Idempotent(t *testing.T) {
	courseID := uuid.New()
	userID := uuid.New()
	svc, enrollments, mail := newTestService(
		map[uuid.UUID]*models.Course{courseID: freeCourse(courseID)},
		map[uuid.UUID]*models.User{userID: {ID: userID, Username: "u1"}},
		nil,
	)

	for i := 0; i < 2; i++ {
		state, err := svc.RequestEnrollment(context.Background(), courseID, userID)
		require.NoError(t, err)
		assert.Equal(t, models.EnrollmentEnrolled, state.State)
	}
	assert.Equal(t, 1, enrollments.size(courseID))
	assert.Equal(t, 1, mail.count())
}

func TestRequestEnrollment_PaidCourseDirective(t *testing.T) {
	courseID := uuid.New()
	userID := uuid.New()
	svc, enrollments, _ := newTestService(
		map[uuid.UUID]*models.Course{courseID: paidCourse(courseID, 4999)},
		map[uuid.UUID]*models.User{userID: {ID: userID}},
		nil,
	)

	state, err := svc.RequestEnrollment(context.Background(), courseID, userID)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentPaymentRequired, state.State)
	assert.Equal(t, 0, enrollments.size(courseID))
}

func TestRequestEnrollment_NotFound(t *testing.T) {
	courseID := uuid.New()
	userID := uuid.New()
	svc, _, _ := newTestService(
		map[uuid.UUID]*models.Course{courseID: freeCourse(courseID)},
		map[uuid.UUID]*models.User{userID: {ID: userID}},
		nil,
	)

	_, err := svc.RequestEnrollment(context.Background(), uuid.New(), userID)
	assert.ErrorIs(t, err, app_errors.ErrCourseNotFound)

	_, err = svc.RequestEnrollment(context.Background(), courseID, uuid.New())
	assert.ErrorIs(t, err, app_errors.ErrUserNotFound)
}

func TestRequestEnrollment_Unpublished(t *testing.T) {
	courseID := uuid.New()
	userID := uuid.New()
	course := freeCourse(courseID)
	course.Status = models.StatusHidden
	svc, _, _ := newTestService(
		map[uuid.UUID]*models.Course{courseID: course},
		map[uuid.UUID]*models.User{userID: {ID: userID}},
		nil,
	)

	_, err := svc.RequestEnrollment(context.Background(), courseID, userID)
	assert.ErrorIs(t, err, app_errors.ErrCourseNotPublished)
}

func TestEnrolledCourses_IncludesTeachers(t *testing.T) {
	courseID := uuid.New()
	userID := uuid.New()
	teacherID := uuid.New()
	svc, _, _ := newTestService(
		map[uuid.UUID]*models.Course{courseID: freeCourse(courseID)},
		map[uuid.UUID]*models.User{userID: {ID: userID, Username: "u1"}},
		map[uuid.UUID][]uuid.UUID{courseID: {teacherID}},
	)

	_, err := svc.RequestEnrollment(context.Background(), courseID, userID)
	require.NoError(t, err)

	courses, err := svc.EnrolledCourses(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, courseID, courses[0].ID)
	assert.Equal(t, []uuid.UUID{teacherID}, courses[0].TeacherIDs)
}

func TestRequestEnrollment_ConcurrentSingleMembership(t *testing.T) {
	courseID := uuid.New()
	userID := uuid.New()
	svc, enrollments, _ := newTestService(
		map[uuid.UUID]*models.Course{courseID: freeCourse(courseID)},
		map[uuid.UUID]*models.User{userID: {ID: userID, Username: "u1"}},
		nil,
	)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.RequestEnrollment(context.Background(), courseID, userID)
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, 1, enrollments.size(courseID))
}
