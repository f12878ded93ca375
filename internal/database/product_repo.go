package database

import (
	"context"
	"fmt"

	"github.com/smartkiosk/shelfjudge/internal/catalog"
)

type ProductRepository struct {
	db *DB
}

func NewProductRepository(db *DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// UpsertProducts writes the given product set, replacing existing rows with
// the same id.
func (r *ProductRepository) UpsertProducts(ctx context.Context, products []catalog.ProductInfo) error {
	tx, err := r.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO products (id, name, category, weight, price)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			weight = excluded.weight,
			price = excluded.price`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range products {
		if _, err := stmt.ExecContext(ctx, p.ID, p.Name, string(p.Category), p.Weight, p.Price); err != nil {
			return fmt.Errorf("failed to upsert product %d: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit products: %w", err)
	}
	return nil
}

func (r *ProductRepository) ListProducts(ctx context.Context) ([]catalog.ProductInfo, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		"SELECT id, name, category, weight, price FROM products ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []catalog.ProductInfo
	for rows.Next() {
		var p catalog.ProductInfo
		var category string
		if err := rows.Scan(&p.ID, &p.Name, &category, &p.Weight, &p.Price); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		p.Category = catalog.ParseCategory(category)
		products = append(products, p)
	}
	return products, rows.Err()
}

// LoadCatalog builds an immutable catalog snapshot from the product table.
func (r *ProductRepository) LoadCatalog(ctx context.Context) (*catalog.Memory, error) {
	products, err := r.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("product table is empty")
	}
	return catalog.NewMemory(products), nil
}
