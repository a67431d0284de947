package messaging

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samidafali/education-backend/internal/app_errors"
	"github.com/samidafali/education-backend/internal/models"
	"github.com/samidafali/education-backend/pkg/logger"
)

type fakeGate struct {
	enrolled map[uuid.UUID]bool
}

func (f *fakeGate) IsEnrolled(ctx context.Context, courseID, userID uuid.UUID) (bool, error) {
	return f.enrolled[userID], nil
}

type fakeCourseRepo struct {
	teachers map[uuid.UUID]bool
}

func (f *fakeCourseRepo) IsTeacherAssigned(ctx context.Context, courseID, teacherID uuid.UUID) (bool, error) {
	return f.teachers[teacherID], nil
}

type fakeMessageRepo struct {
	messages map[uuid.UUID]*models.Message
	clock    time.Time
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{
		messages: make(map[uuid.UUID]*models.Message),
		clock:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeMessageRepo) CreateMessage(ctx context.Context, msg *models.Message) error {
	f.clock = f.clock.Add(time.Second)
	msg.ID = uuid.New()
	msg.Timestamp = f.clock
	cp := *msg
	f.messages[msg.ID] = &cp
	return nil
}

func (f *fakeMessageRepo) MessageByID(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	msg, ok := f.messages[id]
	if !ok {
		return nil, app_errors.ErrMessageNotFound
	}
	cp := *msg
	return &cp, nil
}

func (f *fakeMessageRepo) Conversation(ctx context.Context, courseID, a, b uuid.UUID) ([]models.Message, error) {
	var out []models.Message
	for _, msg := range f.messages {
		if msg.CourseID != courseID {
			continue
		}
		if (msg.SenderID == a && msg.ReceiverID == b) || (msg.SenderID == b && msg.ReceiverID == a) {
			out = append(out, *msg)
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) ReceivedMessages(ctx context.Context, receiverID uuid.UUID) ([]models.Message, error) {
	var out []models.Message
	for _, msg := range f.messages {
		if msg.ReceiverID == receiverID {
			out = append(out, *msg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (f *fakeMessageRepo) MarkRead(ctx context.Context, id uuid.UUID) error {
	msg, ok := f.messages[id]
	if !ok {
		return app_errors.ErrMessageNotFound
	}
	msg.IsRead = true
	return nil
}

type fixture struct {
	svc       *MessagingService
	repo      *fakeMessageRepo
	courseID  uuid.UUID
	studentID uuid.UUID
	teacherID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:      newFakeMessageRepo(),
		courseID:  uuid.New(),
		studentID: uuid.New(),
		teacherID: uuid.New(),
	}
	f.svc = NewMessagingService(
		logger.New("prod"),
		&fakeGate{enrolled: map[uuid.UUID]bool{f.studentID: true}},
		&fakeCourseRepo{teachers: map[uuid.UUID]bool{f.teacherID: true}},
		f.repo,
	)
	return f
}

func TestSend_EnrolledToAssignedTeacher(t *testing.T) {
	f := newFixture(t)

	msg, err := f.svc.Send(context.Background(), f.courseID, f.studentID, f.teacherID, "When is the deadline?", nil)
	require.NoError(t, err)

	assert.Equal(t, f.studentID, msg.SenderID)
	assert.Equal(t, f.teacherID, msg.ReceiverID)
	assert.False(t, msg.IsRead)
	assert.Len(t, f.repo.messages, 1)
}

func TestSend_SenderNotEnrolled(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Send(context.Background(), f.courseID, uuid.New(), f.teacherID, "hello", nil)
	assert.ErrorIs(t, err, app_errors.ErrNotEnrolled)
	assert.Empty(t, f.repo.messages)
}

func TestSend_ReceiverNotAssigned(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Send(context.Background(), f.courseID, f.studentID, uuid.New(), "hello", nil)
	assert.ErrorIs(t, err, app_errors.ErrTeacherNotAssigned)
	assert.Empty(t, f.repo.messages)
}

func TestSend_EmptyContent(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Send(context.Background(), f.courseID, f.studentID, f.teacherID, "   ", nil)
	assert.ErrorIs(t, err, app_errors.ErrEmptyContent)
}

func TestSend_WithAttachment(t *testing.T) {
	f := newFixture(t)
	pdf := "https://media.local/homework.pdf"

	msg, err := f.svc.Send(context.Background(), f.courseID, f.studentID, f.teacherID, "See attached.", &pdf)
	require.NoError(t, err)
	require.NotNil(t, msg.PdfURL)
	assert.Equal(t, pdf, *msg.PdfURL)
}

func TestReply_AddressedToOriginalSender(t *testing.T) {
	f := newFixture(t)

	original, err := f.svc.Send(context.Background(), f.courseID, f.studentID, f.teacherID, "Question", nil)
	require.NoError(t, err)

	reply, err := f.svc.Reply(context.Background(), original.ID, f.teacherID, "Answer")
	require.NoError(t, err)

	assert.Equal(t, f.teacherID, reply.SenderID)
	assert.Equal(t, f.studentID, reply.ReceiverID)
	assert.Equal(t, f.courseID, reply.CourseID)
}

func TestReply_TeacherNotAssigned(t *testing.T) {
	f := newFixture(t)

	original, err := f.svc.Send(context.Background(), f.courseID, f.studentID, f.teacherID, "Question", nil)
	require.NoError(t, err)

	_, err = f.svc.Reply(context.Background(), original.ID, uuid.New(), "Answer")
	assert.ErrorIs(t, err, app_errors.ErrTeacherNotAssigned)
}

func TestReply_MessageNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Reply(context.Background(), uuid.New(), f.teacherID, "Answer")
	assert.ErrorIs(t, err, app_errors.ErrMessageNotFound)
}

func TestConversation_BothDirections(t *testing.T) {
	f := newFixture(t)

	original, err := f.svc.Send(context.Background(), f.courseID, f.studentID, f.teacherID, "Question", nil)
	require.NoError(t, err)
	_, err = f.svc.Reply(context.Background(), original.ID, f.teacherID, "Answer")
	require.NoError(t, err)

	msgs, err := f.svc.Conversation(context.Background(), f.courseID, f.studentID, f.teacherID)
	require.NoError(t, err)
	assert.Len(t, msgs, 2)
}

func TestConversation_AssignedTeacherAllowed(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Conversation(context.Background(), f.courseID, f.teacherID, f.studentID)
	assert.NoError(t, err)
}

func TestConversation_OutsiderRefused(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Conversation(context.Background(), f.courseID, uuid.New(), f.teacherID)
	assert.ErrorIs(t, err, app_errors.ErrNotEnrolled)
}

func TestInbox_ReceivedOnlyNewestFirst(t *testing.T) {
	f := newFixture(t)

	first, err := f.svc.Send(context.Background(), f.courseID, f.studentID, f.teacherID, "First question", nil)
	require.NoError(t, err)
	second, err := f.svc.Send(context.Background(), f.courseID, f.studentID, f.teacherID, "Second question", nil)
	require.NoError(t, err)
	// The teacher's own reply lands in the student's inbox, not theirs.
	_, err = f.svc.Reply(context.Background(), first.ID, f.teacherID, "Answer")
	require.NoError(t, err)

	msgs, err := f.svc.Inbox(context.Background(), f.teacherID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, second.ID, msgs[0].ID)
	assert.Equal(t, first.ID, msgs[1].ID)

	student, err := f.svc.Inbox(context.Background(), f.studentID)
	require.NoError(t, err)
	require.Len(t, student, 1)
	assert.Equal(t, "Answer", student[0].Content)
}

func TestMarkRead_ReceiverOnly(t *testing.T) {
	f := newFixture(t)

	msg, err := f.svc.Send(context.Background(), f.courseID, f.studentID, f.teacherID, "Question", nil)
	require.NoError(t, err)

	err = f.svc.MarkRead(context.Background(), msg.ID, f.studentID)
	assert.ErrorIs(t, err, app_errors.ErrNotReceiver)

	require.NoError(t, f.svc.MarkRead(context.Background(), msg.ID, f.teacherID))
	stored, err := f.repo.MessageByID(context.Background(), msg.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsRead)
}
