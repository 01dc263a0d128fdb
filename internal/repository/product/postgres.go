package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"shoplab/internal/db"
	"shoplab/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const productColumns = `id::text, name, description, price_cents, category, image_url, stock, created_at, updated_at`

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

func (r *postgresRepo) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	q, args := buildListQuery(filter)
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, db.Classify(err)
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

// buildListQuery renders the catalog query. User input only ever travels as
// bind parameters.
func buildListQuery(filter domain.ProductFilter) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, "%"+escapeLike(s)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(`(name ILIKE $%d ESCAPE '\' OR description ILIKE $%d ESCAPE '\')`, n, n))
	}
	if c := strings.TrimSpace(filter.Category); c != "" {
		args = append(args, c)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.MinPriceCents != nil {
		args = append(args, *filter.MinPriceCents)
		conds = append(conds, fmt.Sprintf("price_cents >= $%d", len(args)))
	}
	if filter.MaxPriceCents != nil {
		args = append(args, *filter.MaxPriceCents)
		conds = append(conds, fmt.Sprintf("price_cents <= $%d", len(args)))
	}

	q := `SELECT ` + productColumns + ` FROM products`
	if len(conds) > 0 {
		q += ` WHERE ` + strings.Join(conds, " AND ")
	}
	q += ` ORDER BY name ASC`
	return q, args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			r.logger.Printf("product repo: get id=%s error=%v", id, err)
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT category FROM products WHERE category <> '' ORDER BY category`)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (name, description, price_cents, category, image_url, stock)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + productColumns
	created, err := scanProduct(r.pool.QueryRow(ctx, q, p.Name, p.Description, p.PriceCents, p.Category, p.ImageURL, p.Stock))
	if err != nil {
		r.logger.Printf("product repo: create name=%q error=%v", p.Name, err)
		return nil, err
	}
	r.logger.Printf("product repo: created id=%s", created.ID)
	return created, nil
}

func (r *postgresRepo) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	const q = `
UPDATE products
SET name = COALESCE($1, name),
    description = COALESCE($2, description),
    price_cents = COALESCE($3, price_cents),
    category = COALESCE($4, category),
    image_url = COALESCE($5, image_url),
    stock = COALESCE($6, stock),
    updated_at = now()
WHERE id = $7
RETURNING ` + productColumns
	return scanProduct(r.pool.QueryRow(ctx, q,
		patch.Name,
		patch.Description,
		patch.PriceCents,
		patch.Category,
		patch.ImageURL,
		patch.Stock,
		id,
	))
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return db.Classify(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("product repo: deleted id=%s", id)
	return nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (name, description, price_cents, category, image_url, stock)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (name) DO UPDATE SET
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    category = EXCLUDED.category,
    image_url = EXCLUDED.image_url,
    stock = EXCLUDED.stock,
    updated_at = now()
RETURNING ` + productColumns
	res, err := scanProduct(r.pool.QueryRow(ctx, q, p.Name, p.Description, p.PriceCents, p.Category, p.ImageURL, p.Stock))
	if err != nil {
		r.logger.Printf("product repo: upsert name=%q error=%v", p.Name, err)
		return nil, err
	}
	r.logger.Printf("product repo: upserted name=%q id=%s", res.Name, res.ID)
	return res, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Category, &p.ImageURL, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, db.Classify(err)
	}
	return &p, nil
}
