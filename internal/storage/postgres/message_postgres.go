package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samidafali/education-backend/internal/app_errors"
	"github.com/samidafali/education-backend/internal/models"
)

type MessagePostgres struct {
	db *pgxpool.Pool
}

func NewMessagePostgres(db *pgxpool.Pool) *MessagePostgres {
	return &MessagePostgres{db: db}
}

func (r *MessagePostgres) CreateMessage(ctx context.Context, msg *models.Message) error {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	const query = `
        INSERT INTO messages (id, sender_id, receiver_id, course_id, content, created_at, is_read, pdf_url)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `
	_, err := r.db.Exec(ctx, query,
		msg.ID,
		msg.SenderID,
		msg.ReceiverID,
		msg.CourseID,
		msg.Content,
		msg.Timestamp,
		msg.IsRead,
		msg.PdfURL,
	)
	if err != nil {
		return fmt.Errorf("failed to store message: %w", err)
	}
	return nil
}

func (r *MessagePostgres) MessageByID(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	const query = `
        SELECT id, sender_id, receiver_id, course_id, content, created_at, is_read, pdf_url
        FROM messages
        WHERE id = $1
    `
	msg := &models.Message{}
	row := r.db.QueryRow(ctx, query, id)
	err := row.Scan(
		&msg.ID,
		&msg.SenderID,
		&msg.ReceiverID,
		&msg.CourseID,
		&msg.Content,
		&msg.Timestamp,
		&msg.IsRead,
		&msg.PdfURL,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrMessageNotFound
		}
		return nil, err
	}
	return msg, nil
}

// Conversation returns all messages exchanged between two parties within a
// course, oldest first.
func (r *MessagePostgres) Conversation(ctx context.Context, courseID, a, b uuid.UUID) ([]models.Message, error) {
	const query = `
        SELECT id, sender_id, receiver_id, course_id, content, created_at, is_read, pdf_url
        FROM messages
        WHERE course_id = $1
          AND ((sender_id = $2 AND receiver_id = $3) OR (sender_id = $3 AND receiver_id = $2))
        ORDER BY created_at ASC
    `
	rows, err := r.db.Query(ctx, query, courseID, a, b)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversation: %w", err)
	}
	defer rows.Close()

	var msgs []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.CourseID, &m.Content, &m.Timestamp, &m.IsRead, &m.PdfURL); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// ReceivedMessages is the receiver's cross-course inbox, newest first.
func (r *MessagePostgres) ReceivedMessages(ctx context.Context, receiverID uuid.UUID) ([]models.Message, error) {
	const query = `
        SELECT id, sender_id, receiver_id, course_id, content, created_at, is_read, pdf_url
        FROM messages
        WHERE receiver_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, receiverID)
	if err != nil {
		return nil, fmt.Errorf("failed to query received messages: %w", err)
	}
	defer rows.Close()

	var msgs []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.CourseID, &m.Content, &m.Timestamp, &m.IsRead, &m.PdfURL); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *MessagePostgres) MarkRead(ctx context.Context, id uuid.UUID) error {
	const query = `
        UPDATE messages
           SET is_read = TRUE
         WHERE id = $1
    `
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return app_errors.ErrMessageNotFound
	}
	return nil
}
