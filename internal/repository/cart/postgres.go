package cart

import (
	"context"
	"errors"
	"io"
	"log"

	"shoplab/internal/db"
	"shoplab/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const itemSelect = `
SELECT ci.id::text, ci.user_id::text, ci.product_id::text, ci.quantity,
       p.name, p.price_cents, p.image_url, p.stock, ci.created_at
FROM cart_items ci
JOIN products p ON p.id = ci.product_id
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

func (r *postgresRepo) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	rows, err := r.pool.Query(ctx, itemSelect+`WHERE ci.user_id = $1 ORDER BY ci.created_at ASC, ci.id ASC`, userID)
	if err != nil {
		r.logger.Printf("cart repo: get user=%s error=%v", userID, err)
		return nil, db.Classify(err)
	}
	defer rows.Close()

	cart := &domain.Cart{UserID: userID}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		cart.Items = append(cart.Items, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *postgresRepo) AddItem(ctx context.Context, userID, productID string, quantity, maxQuantity int) (*domain.CartItem, error) {
	if quantity > maxQuantity {
		return nil, ErrLineLimit
	}
	const q = `
INSERT INTO cart_items (user_id, product_id, quantity)
VALUES ($1, $2, $3)
ON CONFLICT (user_id, product_id) DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
WHERE cart_items.quantity + EXCLUDED.quantity <= $4
RETURNING id::text
`
	var id string
	if err := r.pool.QueryRow(ctx, q, userID, productID, quantity, maxQuantity).Scan(&id); err != nil {
		// The conflict branch skipped the update.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLineLimit
		}
		r.logger.Printf("cart repo: add user=%s product=%s error=%v", userID, productID, err)
		return nil, db.Classify(err)
	}
	return r.getItem(ctx, userID, id)
}

func (r *postgresRepo) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (*domain.CartItem, error) {
	cmd, err := r.pool.Exec(ctx, `UPDATE cart_items SET quantity = $1 WHERE id = $2 AND user_id = $3`, quantity, itemID, userID)
	if err != nil {
		return nil, db.Classify(err)
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}
	return r.getItem(ctx, userID, itemID)
}

func (r *postgresRepo) RemoveItem(ctx context.Context, userID, itemID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE id = $1 AND user_id = $2`, itemID, userID)
	if err != nil {
		return db.Classify(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Clear(ctx context.Context, userID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return db.Classify(err)
	}
	return nil
}

func (r *postgresRepo) getItem(ctx context.Context, userID, itemID string) (*domain.CartItem, error) {
	return scanItem(r.pool.QueryRow(ctx, itemSelect+`WHERE ci.id = $1 AND ci.user_id = $2`, itemID, userID))
}

func scanItem(row pgx.Row) (*domain.CartItem, error) {
	var it domain.CartItem
	if err := row.Scan(
		&it.ID,
		&it.UserID,
		&it.ProductID,
		&it.Quantity,
		&it.ProductName,
		&it.PriceCents,
		&it.ImageURL,
		&it.Stock,
		&it.CreatedAt,
	); err != nil {
		return nil, db.Classify(err)
	}
	return &it, nil
}
