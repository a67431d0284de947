package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samidafali/education-backend/internal/app_errors"
	"github.com/samidafali/education-backend/internal/models"
)

type PaymentPostgres struct {
	db *pgxpool.Pool
}

func NewPaymentPostgres(db *pgxpool.Pool) *PaymentPostgres {
	return &PaymentPostgres{db: db}
}

func (r *PaymentPostgres) CreateIntent(ctx context.Context, intent *models.PaymentIntent) error {
	if intent.CreatedAt.IsZero() {
		intent.CreatedAt = time.Now().UTC()
	}
	const query = `
        INSERT INTO payment_intents (id, course_id, user_id, amount, currency, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	_, err := r.db.Exec(ctx, query,
		intent.ID,
		intent.CourseID,
		intent.UserID,
		intent.Amount,
		intent.Currency,
		intent.Status,
		intent.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store payment intent: %w", err)
	}
	return nil
}

func (r *PaymentPostgres) IntentByID(ctx context.Context, id string) (*models.PaymentIntent, error) {
	const query = `
        SELECT id, course_id, user_id, amount, currency, status, created_at
        FROM payment_intents
        WHERE id = $1
    `
	intent := &models.PaymentIntent{}
	row := r.db.QueryRow(ctx, query, id)
	err := row.Scan(
		&intent.ID,
		&intent.CourseID,
		&intent.UserID,
		&intent.Amount,
		&intent.Currency,
		&intent.Status,
		&intent.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrIntentNotFound
		}
		return nil, err
	}
	return intent, nil
}

// MarkStatus records the gateway-reported status. Succeeded is the only
// terminal state: the gateway can settle an intent after a declined attempt,
// so failed records may still flip to succeeded on a later confirmation.
func (r *PaymentPostgres) MarkStatus(ctx context.Context, id string, status string) error {
	const query = `
        UPDATE payment_intents
           SET status = $2
         WHERE id = $1 AND status <> $3
    `
	_, err := r.db.Exec(ctx, query, id, status, models.IntentSucceeded)
	if err != nil {
		return fmt.Errorf("failed to update payment intent status: %w", err)
	}
	return nil
}
