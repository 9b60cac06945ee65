package customer

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrEmailExists       = errors.New("customer email already exists")
	ErrCustomerHasOrders = errors.New("customer still has orders")
)

type Repository interface {
	Create(ctx context.Context, customer *Customer) (int64, error)
	GetByID(ctx context.Context, id int64) (*Customer, error)
	List(ctx context.Context) ([]Customer, error)
	Update(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, id int64) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

const customerColumns = `id, name, email, address, store, phone, state_code, customer_type`

func scanCustomer(row pgx.Row, c *Customer) error {
	return row.Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Address,
		&c.Store,
		&c.Phone,
		&c.StateCode,
		&c.CustomerType,
	)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func (r *postgresRepository) Create(ctx context.Context, customer *Customer) (int64, error) {
	query := `
		INSERT INTO customers (name, email, address, store, phone, state_code, customer_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		customer.Name,
		customer.Email,
		customer.Address,
		customer.Store,
		customer.Phone,
		customer.StateCode,
		customer.CustomerType,
	).Scan(&customer.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrEmailExists
		}
		return 0, fmt.Errorf("repository: failed to insert customer: %w", err)
	}
	return customer.ID, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	var customer Customer
	if err := scanCustomer(r.db.QueryRow(ctx, query, id), &customer); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("repository: failed to select customer by id %d: %w", id, err)
	}
	return &customer, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query customers: %w", err)
	}
	defer rows.Close()

	customers := make([]Customer, 0)
	for rows.Next() {
		var customer Customer
		if err := scanCustomer(rows, &customer); err != nil {
			return nil, fmt.Errorf("repository: failed to scan customer: %w", err)
		}
		customers = append(customers, customer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating customers: %w", err)
	}
	return customers, nil
}

func (r *postgresRepository) Update(ctx context.Context, customer *Customer) error {
	query := `
		UPDATE customers
		SET name = $1, email = $2, address = $3, store = $4, phone = $5, state_code = $6, customer_type = $7
		WHERE id = $8
	`
	tag, err := r.db.Exec(ctx, query,
		customer.Name,
		customer.Email,
		customer.Address,
		customer.Store,
		customer.Phone,
		customer.StateCode,
		customer.CustomerType,
		customer.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("repository: failed to update customer %d: %w", customer.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return ErrCustomerHasOrders
		}
		return fmt.Errorf("repository: failed to delete customer %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCustomerNotFound
	}
	return nil
}
