package report

import (
	"context"
	"database/sql"
	"io"
	"log"

	"shoplab/internal/db"
	"shoplab/internal/domain"
)

const statsQuery = `SELECT
    (SELECT count(*) FROM users),
    (SELECT count(*) FROM products),
    (SELECT count(*) FROM orders),
    (SELECT COALESCE(SUM(total_cents), 0) FROM orders WHERE status = 'completed')`

const listOrdersQuery = `SELECT o.id::text, o.user_id::text, o.total_cents, o.shipping_address, o.status,
    o.created_at, o.updated_at, u.username, u.email
FROM orders o
JOIN users u ON u.id = o.user_id
WHERE ($1 = '' OR o.status = $1)
ORDER BY o.created_at DESC, o.id`

type sqlRepo struct {
	db     *sql.DB
	logger *log.Logger
}

// NewSQL wraps a *sql.DB; in the API it is opened over the shared pgx pool.
func NewSQL(sqlDB *sql.DB, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &sqlRepo{db: sqlDB, logger: logger}
}

func (r *sqlRepo) Stats(ctx context.Context) (domain.Stats, error) {
	var s domain.Stats
	if err := r.db.QueryRowContext(ctx, statsQuery).Scan(&s.Users, &s.Products, &s.Orders, &s.RevenueCents); err != nil {
		r.logger.Printf("report repo: stats error=%v", err)
		return domain.Stats{}, db.Classify(err)
	}
	return s, nil
}

func (r *sqlRepo) ListOrders(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, listOrdersQuery, string(status))
	if err != nil {
		r.logger.Printf("report repo: list orders error=%v", err)
		return nil, db.Classify(err)
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var (
			o      domain.Order
			status string
		)
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalCents, &o.ShippingAddress, &status,
			&o.CreatedAt, &o.UpdatedAt, &o.Username, &o.Email); err != nil {
			return nil, err
		}
		o.Status = domain.OrderStatus(status)
		out = append(out, o)
	}
	return out, rows.Err()
}
