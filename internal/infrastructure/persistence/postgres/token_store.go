package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mwolniarski/project-management-backend/internal/application/ports"
)

// TokenStore persists email confirmation and password reset tokens. Both
// kinds are single use; the flag column records consumption.
type TokenStore struct {
	pool *pgxpool.Pool
}

var _ ports.AuthTokenStore = (*TokenStore)(nil)

func NewTokenStore(pool *pgxpool.Pool) *TokenStore {
	return &TokenStore{pool: pool}
}

func (s *TokenStore) CreateConfirmationToken(ctx context.Context, userID int64, token string, expiresAt int64) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO confirmation_tokens (token, user_id, expires_at) VALUES ($1, $2, $3)`,
		token, userID, expiresAt,
	)
	return err
}

func (s *TokenStore) GetConfirmationToken(ctx context.Context, token string) (int64, int64, bool, error) {
	var userID, expiresAt int64
	var confirmed bool
	err := s.pool.QueryRow(ctx,
		`SELECT user_id, expires_at, confirmed FROM confirmation_tokens WHERE token = $1`, token,
	).Scan(&userID, &expiresAt, &confirmed)
	if err != nil {
		return 0, 0, false, err
	}
	return userID, expiresAt, confirmed, nil
}

func (s *TokenStore) MarkConfirmed(ctx context.Context, token string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE confirmation_tokens SET confirmed = TRUE WHERE token = $1`, token,
	)
	return err
}

func (s *TokenStore) CreateResetToken(ctx context.Context, userID int64, token string, expiresAt int64) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO reset_tokens (token, user_id, expires_at) VALUES ($1, $2, $3)`,
		token, userID, expiresAt,
	)
	return err
}

func (s *TokenStore) GetResetToken(ctx context.Context, token string) (int64, int64, bool, error) {
	var userID, expiresAt int64
	var used bool
	err := s.pool.QueryRow(ctx,
		`SELECT user_id, expires_at, used FROM reset_tokens WHERE token = $1`, token,
	).Scan(&userID, &expiresAt, &used)
	if err != nil {
		return 0, 0, false, err
	}
	return userID, expiresAt, used, nil
}

func (s *TokenStore) MarkResetUsed(ctx context.Context, token string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE reset_tokens SET used = TRUE WHERE token = $1`, token,
	)
	return err
}
