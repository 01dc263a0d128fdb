package order

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"

	"shoplab/internal/db"
	"shoplab/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderColumns = `id::text, user_id::text, total_cents, shipping_address, status, created_at, updated_at`

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

type cartLine struct {
	productID  string
	quantity   int
	name       string
	priceCents int64
	stock      int
	imageURL   string
}

// orderTotal checks each line against stock and sums the line totals,
// rejecting a sum that does not fit in int64 cents.
func orderTotal(lines []cartLine) (int64, error) {
	var total int64
	for _, l := range lines {
		if l.quantity > l.stock {
			return 0, fmt.Errorf("%w: %s", domain.ErrInsufficientStock, l.name)
		}
		if l.quantity > 0 && l.priceCents > (math.MaxInt64-total)/int64(l.quantity) {
			return 0, fmt.Errorf("%w: order total is too large", domain.ErrValidation)
		}
		total += l.priceCents * int64(l.quantity)
	}
	return total, nil
}

func (r *postgresRepo) Place(ctx context.Context, userID, shippingAddress string) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, db.Classify(err)
	}
	defer tx.Rollback(ctx)

	// Locks the caller's cart rows and the referenced product rows in
	// product id order; a concurrent checkout of the same cart sees it
	// empty once this transaction commits.
	rows, err := tx.Query(ctx, `
SELECT ci.product_id::text, ci.quantity, p.name, p.price_cents, p.stock, p.image_url
FROM cart_items ci
JOIN products p ON p.id = ci.product_id
WHERE ci.user_id = $1
ORDER BY ci.product_id
FOR UPDATE
`, userID)
	if err != nil {
		return nil, r.fail("lock cart", userID, err)
	}
	var lines []cartLine
	for rows.Next() {
		var l cartLine
		if err := rows.Scan(&l.productID, &l.quantity, &l.name, &l.priceCents, &l.stock, &l.imageURL); err != nil {
			rows.Close()
			return nil, r.fail("scan cart", userID, err)
		}
		lines = append(lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, r.fail("read cart", userID, err)
	}

	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	total, err := orderTotal(lines)
	if err != nil {
		return nil, err
	}

	var order domain.Order
	if err := scanOrderRow(tx.QueryRow(ctx, `
INSERT INTO orders (user_id, total_cents, shipping_address, status)
VALUES ($1, $2, $3, 'pending')
RETURNING `+orderColumns, userID, total, shippingAddress), &order); err != nil {
		return nil, r.fail("insert order", userID, err)
	}

	for _, l := range lines {
		productID := l.productID
		item := domain.OrderItem{
			OrderID:        order.ID,
			ProductID:      &productID,
			ProductName:    l.name,
			ImageURL:       l.imageURL,
			Quantity:       l.quantity,
			UnitPriceCents: l.priceCents,
		}
		if err := tx.QueryRow(ctx, `
INSERT INTO order_items (order_id, product_id, product_name, image_url, quantity, unit_price_cents)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id::text
`, order.ID, l.productID, l.name, l.imageURL, l.quantity, l.priceCents).Scan(&item.ID); err != nil {
			return nil, r.fail("insert order item", userID, err)
		}

		cmd, err := tx.Exec(ctx, `
UPDATE products SET stock = stock - $1, updated_at = now()
WHERE id = $2 AND stock >= $1
`, l.quantity, l.productID)
		if err != nil {
			return nil, r.fail("decrement stock", userID, err)
		}
		if cmd.RowsAffected() == 0 {
			return nil, fmt.Errorf("%w: %s", domain.ErrInsufficientStock, l.name)
		}
		order.Items = append(order.Items, item)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return nil, r.fail("clear cart", userID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, r.fail("commit", userID, err)
	}
	r.logger.Printf("order repo: placed order=%s user=%s total_cents=%d lines=%d", order.ID, userID, total, len(lines))
	return &order, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := scanOrderRow(rows, &o); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]string, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
	}
	items, err := loadItems(ctx, r.pool, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	if err := scanOrderRow(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id), &o); err != nil {
		return nil, err
	}
	items, err := loadItems(ctx, r.pool, []string{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return &o, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	return r.transition(ctx, id, status, func(current domain.OrderStatus) error {
		if current == domain.OrderCancelled {
			return fmt.Errorf("%w: order is cancelled", domain.ErrConflict)
		}
		return nil
	})
}

func (r *postgresRepo) Cancel(ctx context.Context, id string) (*domain.Order, error) {
	return r.transition(ctx, id, domain.OrderCancelled, func(current domain.OrderStatus) error {
		if current != domain.OrderPending {
			return fmt.Errorf("%w: order is %s", domain.ErrConflict, current)
		}
		return nil
	})
}

func (r *postgresRepo) transition(ctx context.Context, id string, to domain.OrderStatus, allowed func(domain.OrderStatus) error) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, db.Classify(err)
	}
	defer tx.Rollback(ctx)

	var raw string
	if err := tx.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, id).Scan(&raw); err != nil {
		return nil, db.Classify(err)
	}
	current := domain.OrderStatus(raw)
	if err := allowed(current); err != nil {
		return nil, err
	}

	if to == domain.OrderCancelled && current != domain.OrderCancelled {
		if err := restock(ctx, tx, id); err != nil {
			return nil, r.fail("restock", id, err)
		}
	}

	var o domain.Order
	if err := scanOrderRow(tx.QueryRow(ctx, `
UPDATE orders SET status = $1, updated_at = now()
WHERE id = $2
RETURNING `+orderColumns, string(to), id), &o); err != nil {
		return nil, r.fail("update status", id, err)
	}
	items, err := loadItems(ctx, tx, []string{id})
	if err != nil {
		return nil, err
	}
	o.Items = items[id]

	if err := tx.Commit(ctx); err != nil {
		return nil, r.fail("commit", id, err)
	}
	r.logger.Printf("order repo: order=%s status %s -> %s", id, current, to)
	return &o, nil
}

// restock returns the order's quantities to products that still exist,
// locking product rows in id order like Place does.
func restock(ctx context.Context, tx pgx.Tx, orderID string) error {
	if _, err := tx.Exec(ctx, `
SELECT p.id FROM products p
WHERE p.id IN (SELECT product_id FROM order_items WHERE order_id = $1)
ORDER BY p.id
FOR UPDATE
`, orderID); err != nil {
		return err
	}
	_, err := tx.Exec(ctx, `
UPDATE products p
SET stock = p.stock + q.quantity, updated_at = now()
FROM (
    SELECT product_id, SUM(quantity)::int AS quantity
    FROM order_items
    WHERE order_id = $1 AND product_id IS NOT NULL
    GROUP BY product_id
) q
WHERE p.id = q.product_id
`, orderID)
	return err
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func loadItems(ctx context.Context, q querier, orderIDs []string) (map[string][]domain.OrderItem, error) {
	rows, err := q.Query(ctx, `
SELECT id::text, order_id::text, product_id::text, product_name, image_url, quantity, unit_price_cents
FROM order_items
WHERE order_id = ANY($1::uuid[])
ORDER BY product_name, id
`, orderIDs)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()

	out := make(map[string][]domain.OrderItem, len(orderIDs))
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.ImageURL, &it.Quantity, &it.UnitPriceCents); err != nil {
			return nil, err
		}
		out[it.OrderID] = append(out[it.OrderID], it)
	}
	return out, rows.Err()
}

func (r *postgresRepo) fail(step, ref string, err error) error {
	classified := db.Classify(err)
	r.logger.Printf("order repo: %s ref=%s error=%v", step, ref, err)
	return classified
}

func scanOrderRow(row pgx.Row, o *domain.Order) error {
	var status string
	if err := row.Scan(&o.ID, &o.UserID, &o.TotalCents, &o.ShippingAddress, &status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return db.Classify(err)
	}
	o.Status = domain.OrderStatus(status)
	return nil
}
