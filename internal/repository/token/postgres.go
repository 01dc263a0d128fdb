package token

import (
	"context"
	"time"

	"shoplab/internal/db"

	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, token ResetToken) error {
	const q = `
INSERT INTO password_reset_tokens (token_hash, user_id, expires_at)
VALUES ($1, $2, $3)
`
	_, err := r.pool.Exec(ctx, q, token.TokenHash, token.UserID, token.ExpiresAt)
	return db.Classify(err)
}

func (r *postgresRepo) Consume(ctx context.Context, tokenHash string, now time.Time) (string, error) {
	const q = `
UPDATE password_reset_tokens
SET used_at = $2
WHERE token_hash = $1
  AND used_at IS NULL
  AND expires_at > $2
RETURNING user_id::text
`
	var userID string
	if err := r.pool.QueryRow(ctx, q, tokenHash, now).Scan(&userID); err != nil {
		return "", db.Classify(err)
	}
	return userID, nil
}

func (r *postgresRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM password_reset_tokens WHERE expires_at <= $1 OR used_at IS NOT NULL`, now)
	if err != nil {
		return 0, db.Classify(err)
	}
	return cmd.RowsAffected(), nil
}
