package user

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"shoplab/internal/db"
	"shoplab/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id::text, username, email, password_hash, role, first_name, last_name, phone, address, card_last4, created_at, updated_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	const q = `
INSERT INTO users (username, email, password_hash, role, first_name, last_name, phone, address, card_last4)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + userColumns
	created, err := r.scanUser(r.pool.QueryRow(ctx, q,
		u.Username,
		strings.ToLower(u.Email),
		u.PasswordHash,
		u.Role,
		u.FirstName,
		u.LastName,
		u.Phone,
		u.Address,
		u.CardLast4,
	))
	if err != nil {
		return nil, err
	}
	r.logger.Printf("user repo: created id=%s role=%s", created.ID, created.Role)
	return created, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *postgresRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		r.logger.Printf("user repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) UpdateProfile(ctx context.Context, id string, in domain.ProfileUpdate) (*domain.User, error) {
	var email *string
	if in.Email != nil {
		lowered := strings.ToLower(*in.Email)
		email = &lowered
	}
	const q = `
UPDATE users
SET username = COALESCE($1, username),
    email = COALESCE($2, email),
    first_name = COALESCE($3, first_name),
    last_name = COALESCE($4, last_name),
    phone = COALESCE($5, phone),
    address = COALESCE($6, address),
    card_last4 = COALESCE($7, card_last4),
    updated_at = now()
WHERE id = $8
RETURNING ` + userColumns
	return r.scanUser(r.pool.QueryRow(ctx, q,
		in.Username,
		email,
		in.FirstName,
		in.LastName,
		in.Phone,
		in.Address,
		in.CardLast4,
		id,
	))
}

func (r *postgresRepo) SetRole(ctx context.Context, id, role string) (*domain.User, error) {
	const q = `UPDATE users SET role = $1, updated_at = now() WHERE id = $2 RETURNING ` + userColumns
	u, err := r.scanUser(r.pool.QueryRow(ctx, q, role, id))
	if err != nil {
		return nil, err
	}
	r.logger.Printf("user repo: role changed id=%s role=%s", u.ID, u.Role)
	return u, nil
}

func (r *postgresRepo) SetPassword(ctx context.Context, id, passwordHash string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`, passwordHash, id)
	if err != nil {
		return db.Classify(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return db.Classify(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("user repo: deleted id=%s", id)
	return nil
}

func (r *postgresRepo) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.FirstName,
		&u.LastName,
		&u.Phone,
		&u.Address,
		&u.CardLast4,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("user repo: scan error=%v", err)
		return nil, db.Classify(err)
	}
	return &u, nil
}
