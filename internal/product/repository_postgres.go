package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	productColumns = `id, name, price, category, description, image, badge, rating, reviews, stock, sizes, is_featured`

	listProductsQuery = `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY sort_order, id
	`
	getProductByIDQuery = `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`
	listProductsByCategoryQuery = `
		SELECT ` + productColumns + `
		FROM products
		WHERE category = $1
		ORDER BY sort_order, id
	`
	listProductsByIDsQuery = `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = ANY($1::text[])
		ORDER BY sort_order, id
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, listProductsQuery)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	return collect(rows)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, getProductByIDQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("query product %s: %w", id, err)
	}
	return p, nil
}

func (r *PostgresRepository) ListByCategory(ctx context.Context, category string) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, listProductsByCategoryQuery, category)
	if err != nil {
		return nil, fmt.Errorf("query products by category: %w", err)
	}
	return collect(rows)
}

func (r *PostgresRepository) ListByIDs(ctx context.Context, ids []string) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}
	rows, err := r.db.QueryContext(ctx, listProductsByIDsQuery, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("query products by ids: %w", err)
	}
	return collect(rows)
}

func collect(rows *sql.Rows) ([]Product, error) {
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return out, nil
}

func scanProduct(scanner rowScanner) (Product, error) {
	var (
		p     Product
		price string
		badge sql.NullString
		sizes pq.StringArray
	)
	if err := scanner.Scan(&p.ID, &p.Name, &price, &p.Category, &p.Description, &p.Image, &badge,
		&p.Rating, &p.Reviews, &p.Stock, &sizes, &p.Featured); err != nil {
		return Product{}, err
	}

	d, err := decimal.NewFromString(price)
	if err != nil {
		return Product{}, fmt.Errorf("product %s has invalid price %q: %w", p.ID, price, err)
	}
	p.Price = d
	if badge.Valid {
		p.Badge = &badge.String
	}
	if len(sizes) > 0 {
		p.Sizes = []string(sizes)
	}
	return p, nil
}
