package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrProductNotFound = errors.New("product not found")

type Repository interface {
	Create(ctx context.Context, product *Product) (int64, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	List(ctx context.Context) ([]Product, error)
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id int64) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

const productColumns = `id, name, retail_price, wholesale_price, bulk_wholesale_price, premium_wholesale_price, production_cost, production_hours`

func scanProduct(row pgx.Row, p *Product) error {
	return row.Scan(
		&p.ID,
		&p.Name,
		&p.RetailPrice,
		&p.WholesalePrice,
		&p.BulkWholesalePrice,
		&p.PremiumWholesalePrice,
		&p.ProductionCost,
		&p.ProductionHours,
	)
}

func (r *postgresRepository) Create(ctx context.Context, product *Product) (int64, error) {
	query := `
		INSERT INTO products (name, retail_price, wholesale_price, bulk_wholesale_price, premium_wholesale_price, production_cost, production_hours)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		product.Name,
		product.RetailPrice,
		product.WholesalePrice,
		product.BulkWholesalePrice,
		product.PremiumWholesalePrice,
		product.ProductionCost,
		product.ProductionHours,
	).Scan(&product.ID)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to insert product: %w", err)
	}
	return product.ID, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var product Product
	if err := scanProduct(r.db.QueryRow(ctx, query, id), &product); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("repository: failed to select product by id %d: %w", id, err)
	}
	return &product, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		var product Product
		if err := scanProduct(rows, &product); err != nil {
			return nil, fmt.Errorf("repository: failed to scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating products: %w", err)
	}
	return products, nil
}

func (r *postgresRepository) Update(ctx context.Context, product *Product) error {
	query := `
		UPDATE products
		SET name = $1, retail_price = $2, wholesale_price = $3, bulk_wholesale_price = $4, premium_wholesale_price = $5, production_cost = $6, production_hours = $7
		WHERE id = $8
	`
	tag, err := r.db.Exec(ctx, query,
		product.Name,
		product.RetailPrice,
		product.WholesalePrice,
		product.BulkWholesalePrice,
		product.PremiumWholesalePrice,
		product.ProductionCost,
		product.ProductionHours,
		product.ID,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to update product %d: %w", product.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("repository: failed to delete product %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}
