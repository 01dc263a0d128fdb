package review

import (
	"context"
	"io"
	"log"

	"shoplab/internal/db"
	"shoplab/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const reviewSelect = `
SELECT r.id::text, r.user_id::text, r.product_id::text, r.rating, r.comment, u.username, r.created_at, r.updated_at
FROM reviews r
JOIN users u ON u.id = r.user_id
`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, rv domain.Review) (*domain.Review, error) {
	var id string
	err := r.pool.QueryRow(ctx, `
INSERT INTO reviews (user_id, product_id, rating, comment)
VALUES ($1, $2, $3, $4)
RETURNING id::text
`, rv.UserID, rv.ProductID, rv.Rating, rv.Comment).Scan(&id)
	if err != nil {
		r.logger.Printf("review repo: create user=%s product=%s error=%v", rv.UserID, rv.ProductID, err)
		return nil, db.Classify(err)
	}
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	return scanReview(r.pool.QueryRow(ctx, reviewSelect+`WHERE r.id = $1`, id))
}

func (r *postgresRepo) ListByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	rows, err := r.pool.Query(ctx, reviewSelect+`WHERE r.product_id = $1 ORDER BY r.created_at DESC, r.id`, productID)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rv)
	}
	return out, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, id string, rating int, comment string) (*domain.Review, error) {
	cmd, err := r.pool.Exec(ctx, `
UPDATE reviews SET rating = $1, comment = $2, updated_at = now()
WHERE id = $3
`, rating, comment, id)
	if err != nil {
		return nil, db.Classify(err)
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return db.Classify(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanReview(row pgx.Row) (*domain.Review, error) {
	var rv domain.Review
	var rating int16
	if err := row.Scan(&rv.ID, &rv.UserID, &rv.ProductID, &rating, &rv.Comment, &rv.Username, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
		return nil, db.Classify(err)
	}
	rv.Rating = int(rating)
	return &rv, nil
}
