package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samidafali/education-backend/internal/app_errors"
	"github.com/samidafali/education-backend/internal/models"
)

type CoursePostgres struct {
	db *pgxpool.Pool
}

func NewCoursePostgres(db *pgxpool.Pool) *CoursePostgres {
	return &CoursePostgres{db: db}
}

func (r *CoursePostgres) CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	const query = `
        SELECT
            id,
            title,
            description,
            category,
            difficulty,
            price,
            is_free,
            status,
            pdf_object_key,
            created_at,
            updated_at
        FROM courses
        WHERE id = $1
    `
	course := &models.Course{}
	row := r.db.QueryRow(ctx, query, id)
	err := row.Scan(
		&course.ID,
		&course.Title,
		&course.Description,
		&course.Category,
		&course.Difficulty,
		&course.Price,
		&course.IsFree,
		&course.Status,
		&course.PdfObjectKey,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrCourseNotFound
		}
		return nil, err
	}

	course.Videos, err = r.courseVideos(ctx, id)
	if err != nil {
		return nil, err
	}
	course.TeacherIDs, err = r.TeacherIDs(ctx, id)
	if err != nil {
		return nil, err
	}

	return course, nil
}

func (r *CoursePostgres) courseVideos(ctx context.Context, courseID uuid.UUID) ([]models.Video, error) {
	const query = `
        SELECT object_key, title
        FROM course_videos
        WHERE course_id = $1
        ORDER BY position
    `
	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var videos []models.Video
	for rows.Next() {
		var v models.Video
		if err := rows.Scan(&v.ObjectKey, &v.Title); err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

func (r *CoursePostgres) TeacherIDs(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error) {
	const query = `
        SELECT teacher_id
        FROM course_teachers
        WHERE course_id = $1
    `
	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *CoursePostgres) IsTeacherAssigned(ctx context.Context, courseID, teacherID uuid.UUID) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM course_teachers
            WHERE course_id = $1 AND teacher_id = $2
        )
    `
	var assigned bool
	if err := r.db.QueryRow(ctx, query, courseID, teacherID).Scan(&assigned); err != nil {
		return false, err
	}
	return assigned, nil
}
