package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samidafali/education-backend/internal/models"
)

type EnrollmentPostgres struct {
	db *pgxpool.Pool
}

func NewEnrollmentPostgres(db *pgxpool.Pool) *EnrollmentPostgres {
	return &EnrollmentPostgres{db: db}
}

// EnrollIfAbsent inserts the membership row if it does not exist yet. The
// primary key on (course_id, user_id) makes the insert race-free: of two
// concurrent calls exactly one inserts, the other observes inserted=false.
func (r *EnrollmentPostgres) EnrollIfAbsent(ctx context.Context, courseID, userID uuid.UUID) (inserted bool, err error) {
	now := time.Now().UTC()
	const query = `
        INSERT INTO course_enrollments (course_id, user_id, created_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (course_id, user_id) DO NOTHING
    `
	tag, err := r.db.Exec(ctx, query, courseID, userID, now)
	if err != nil {
		return false, fmt.Errorf("failed to enroll: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *EnrollmentPostgres) IsEnrolled(ctx context.Context, courseID, userID uuid.UUID) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM course_enrollments
            WHERE course_id = $1 AND user_id = $2
        )
    `
	var enrolled bool
	if err := r.db.QueryRow(ctx, query, courseID, userID).Scan(&enrolled); err != nil {
		return false, err
	}
	return enrolled, nil
}

func (r *EnrollmentPostgres) EnrolledCourses(ctx context.Context, userID uuid.UUID) ([]models.Course, error) {
	const query = `
        SELECT c.id, c.title, c.description, c.category, c.difficulty, c.price, c.is_free, c.status, c.pdf_object_key, c.created_at, c.updated_at
        FROM courses c
        INNER JOIN course_enrollments ce ON ce.course_id = c.id
        WHERE ce.user_id = $1
        ORDER BY ce.created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrolled courses: %w", err)
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Category, &c.Difficulty, &c.Price, &c.IsFree, &c.Status, &c.PdfObjectKey, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}
