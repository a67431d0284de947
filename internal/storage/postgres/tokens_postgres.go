package postgres

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samidafali/education-backend/internal/app_errors"
	"github.com/samidafali/education-backend/internal/models"
)

type TokensPostgres struct {
	db *pgxpool.Pool
}

func NewTokensPostgres(db *pgxpool.Pool) *TokensPostgres {
	return &TokensPostgres{db: db}
}

func (r *TokensPostgres) hashToken(token *jwt.Token) string {
	h := sha256.New()
	h.Write([]byte(token.Raw))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

func (r *TokensPostgres) Create(ctx context.Context, userID uuid.UUID, token *jwt.Token) (*models.RefreshToken, error) {
	hashedToken := r.hashToken(token)
	expiresAt, err := token.Claims.GetExpirationTime()
	if err != nil {
		return nil, err
	}
	query := `
		INSERT INTO refresh_tokens (user_id, hashed_token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING created_at, expires_at
	`
	refreshToken := &models.RefreshToken{
		UserID:      userID,
		HashedToken: hashedToken,
	}
	err = r.db.QueryRow(ctx, query, userID, hashedToken, expiresAt.Format(time.RFC3339)).Scan(&refreshToken.CreatedAt, &refreshToken.ExpiresAt)
	if err != nil {
		return nil, err
	}

	return refreshToken, nil
}

func (r *TokensPostgres) ByPrimaryKey(ctx context.Context, userID uuid.UUID, token *jwt.Token) (*models.RefreshToken, error) {
	hashedToken := r.hashToken(token)
	query := `SELECT user_id, hashed_token, created_at, expires_at FROM refresh_tokens WHERE user_id = $1 AND hashed_token = $2`
	refreshToken := models.RefreshToken{}
	err := r.db.QueryRow(ctx, query, userID, hashedToken).Scan(&refreshToken.UserID, &refreshToken.HashedToken, &refreshToken.CreatedAt, &refreshToken.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrTokenNotFound
		}
		return nil, err
	}
	return &refreshToken, nil
}

func (r *TokensPostgres) DeleteUserTokens(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM refresh_tokens WHERE user_id = $1`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}
