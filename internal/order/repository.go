package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

var ErrOrderNotFound = errors.New("order not found")

type Repository interface {
	Create(ctx context.Context, order *Order) (int64, error)
	GetByID(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context) ([]Summary, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]Order, error)
	ReplaceItems(ctx context.Context, orderID int64, items []LineItem, deadline time.Time) error
	Settle(ctx context.Context, orderID int64, discount float64, deadline time.Time, fees []ShippingCost, payments []Payment) error
	AddPayment(ctx context.Context, payment *Payment) (int64, error)
	UpdateStatus(ctx context.Context, orderID int64, status Status) error
	Delete(ctx context.Context, id int64) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

// withTx runs fn inside a transaction. The transaction is rolled back on
// error or panic, committed otherwise, so each write operation is
// all-or-nothing.
func (r *postgresRepository) withTx(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Msg("repository: failed to rollback transaction after panic")
			}
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Msg("repository: failed to rollback transaction")
			}
			return
		}
		if commitErr := tx.Commit(ctx); commitErr != nil {
			err = fmt.Errorf("repository: failed to commit transaction: %w", commitErr)
		}
	}()

	err = fn(tx)
	return err
}

func insertItems(ctx context.Context, tx pgx.Tx, orderID int64, items []LineItem) error {
	query := `
		INSERT INTO order_items (order_id, product_id, quantity, unit_price, unit_cost, color)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	for i := range items {
		item := &items[i]
		item.OrderID = orderID
		err := tx.QueryRow(ctx, query,
			orderID,
			item.ProductID,
			item.Quantity,
			item.UnitPrice,
			item.UnitCost,
			item.Color,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("repository: failed to insert order item for order %d: %w", orderID, err)
		}
	}
	return nil
}

func insertPayments(ctx context.Context, tx pgx.Tx, orderID int64, payments []Payment) error {
	query := `
		INSERT INTO payments (order_id, method, amount)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	for i := range payments {
		payment := &payments[i]
		payment.OrderID = orderID
		if err := tx.QueryRow(ctx, query, orderID, payment.Method, payment.Amount).Scan(&payment.ID); err != nil {
			return fmt.Errorf("repository: failed to insert payment for order %d: %w", orderID, err)
		}
	}
	return nil
}

func (r *postgresRepository) Create(ctx context.Context, order *Order) (int64, error) {
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO orders (customer_id, created_at, delivery_deadline, status, shipping_method, discount)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`
		err := tx.QueryRow(ctx, query,
			order.CustomerID,
			order.CreatedAt,
			order.DeliveryDeadline,
			string(order.Status),
			order.ShippingMethod,
			order.Discount,
		).Scan(&order.ID)
		if err != nil {
			return fmt.Errorf("repository: failed to insert order: %w", err)
		}

		return insertItems(ctx, tx, order.ID, order.Items)
	})
	if err != nil {
		return 0, err
	}
	return order.ID, nil
}

func (r *postgresRepository) loadChildren(ctx context.Context, order *Order) error {
	itemRows, err := r.db.Query(ctx,
		`SELECT id, order_id, product_id, quantity, unit_price, unit_cost, color FROM order_items WHERE order_id = $1 ORDER BY id`,
		order.ID,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to query order items for order %d: %w", order.ID, err)
	}
	defer itemRows.Close()

	order.Items = make([]LineItem, 0)
	for itemRows.Next() {
		var item LineItem
		if err := itemRows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.UnitCost, &item.Color); err != nil {
			return fmt.Errorf("repository: failed to scan order item for order %d: %w", order.ID, err)
		}
		order.Items = append(order.Items, item)
	}
	if err := itemRows.Err(); err != nil {
		return fmt.Errorf("repository: error iterating order items for order %d: %w", order.ID, err)
	}

	paymentRows, err := r.db.Query(ctx,
		`SELECT id, order_id, method, amount FROM payments WHERE order_id = $1 ORDER BY id`,
		order.ID,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to query payments for order %d: %w", order.ID, err)
	}
	defer paymentRows.Close()

	order.Payments = make([]Payment, 0)
	for paymentRows.Next() {
		var payment Payment
		if err := paymentRows.Scan(&payment.ID, &payment.OrderID, &payment.Method, &payment.Amount); err != nil {
			return fmt.Errorf("repository: failed to scan payment for order %d: %w", order.ID, err)
		}
		order.Payments = append(order.Payments, payment)
	}
	if err := paymentRows.Err(); err != nil {
		return fmt.Errorf("repository: error iterating payments for order %d: %w", order.ID, err)
	}

	feeRows, err := r.db.Query(ctx,
		`SELECT id, order_id, cost_type, amount, status FROM shipping_costs WHERE order_id = $1 ORDER BY id`,
		order.ID,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to query shipping costs for order %d: %w", order.ID, err)
	}
	defer feeRows.Close()

	order.ShippingCosts = make([]ShippingCost, 0)
	for feeRows.Next() {
		var fee ShippingCost
		if err := feeRows.Scan(&fee.ID, &fee.OrderID, &fee.CostType, &fee.Amount, &fee.Status); err != nil {
			return fmt.Errorf("repository: failed to scan shipping cost for order %d: %w", order.ID, err)
		}
		order.ShippingCosts = append(order.ShippingCosts, fee)
	}
	if err := feeRows.Err(); err != nil {
		return fmt.Errorf("repository: error iterating shipping costs for order %d: %w", order.ID, err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*Order, error) {
	query := `
		SELECT id, customer_id, created_at, delivery_deadline, status, shipping_method, discount
		FROM orders
		WHERE id = $1
	`

	var order Order
	err := r.db.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.CustomerID,
		&order.CreatedAt,
		&order.DeliveryDeadline,
		&order.Status,
		&order.ShippingMethod,
		&order.Discount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order by id %d: %w", id, err)
	}

	if err := r.loadChildren(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]Summary, error) {
	query := `
		SELECT o.id, o.customer_id, c.name, o.created_at, o.delivery_deadline, o.status, o.shipping_method, o.discount
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		ORDER BY o.id DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query orders: %w", err)
	}
	defer rows.Close()

	summaries := make([]Summary, 0)
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.CustomerID, &s.CustomerName, &s.CreatedAt, &s.DeliveryDeadline, &s.Status, &s.ShippingMethod, &s.Discount); err != nil {
			return nil, fmt.Errorf("repository: failed to scan order summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating orders: %w", err)
	}
	return summaries, nil
}

func (r *postgresRepository) ListByCustomer(ctx context.Context, customerID int64) ([]Order, error) {
	query := `
		SELECT id, customer_id, created_at, delivery_deadline, status, shipping_method, discount
		FROM orders
		WHERE customer_id = $1
		ORDER BY id DESC
	`

	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query orders for customer %d: %w", customerID, err)
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		var order Order
		if err := rows.Scan(&order.ID, &order.CustomerID, &order.CreatedAt, &order.DeliveryDeadline, &order.Status, &order.ShippingMethod, &order.Discount); err != nil {
			return nil, fmt.Errorf("repository: failed to scan order for customer %d: %w", customerID, err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating orders for customer %d: %w", customerID, err)
	}

	for i := range orders {
		if err := r.loadChildren(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *postgresRepository) ReplaceItems(ctx context.Context, orderID int64, items []LineItem, deadline time.Time) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE orders SET delivery_deadline = $1 WHERE id = $2`, deadline, orderID)
		if err != nil {
			return fmt.Errorf("repository: failed to update deadline for order %d: %w", orderID, err)
		}
		if tag.RowsAffected() == 0 {
			return ErrOrderNotFound
		}

		if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID); err != nil {
			return fmt.Errorf("repository: failed to clear items for order %d: %w", orderID, err)
		}

		return insertItems(ctx, tx, orderID, items)
	})
}

func (r *postgresRepository) Settle(ctx context.Context, orderID int64, discount float64, deadline time.Time, fees []ShippingCost, payments []Payment) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE orders
			SET discount = $1, delivery_deadline = $2, status = $3
			WHERE id = $4
		`
		tag, err := tx.Exec(ctx, query, discount, deadline, string(StatusPending), orderID)
		if err != nil {
			return fmt.Errorf("repository: failed to settle order %d: %w", orderID, err)
		}
		if tag.RowsAffected() == 0 {
			return ErrOrderNotFound
		}

		feeQuery := `
			INSERT INTO shipping_costs (order_id, cost_type, amount, status)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`
		for i := range fees {
			fee := &fees[i]
			fee.OrderID = orderID
			if err := tx.QueryRow(ctx, feeQuery, orderID, fee.CostType, fee.Amount, string(fee.Status)).Scan(&fee.ID); err != nil {
				return fmt.Errorf("repository: failed to insert shipping cost for order %d: %w", orderID, err)
			}
		}

		return insertPayments(ctx, tx, orderID, payments)
	})
}

func (r *postgresRepository) AddPayment(ctx context.Context, payment *Payment) (int64, error) {
	query := `
		INSERT INTO payments (order_id, method, amount)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, payment.OrderID, payment.Method, payment.Amount).Scan(&payment.ID)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to insert payment for order %d: %w", payment.OrderID, err)
	}
	return payment.ID, nil
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, orderID int64, status Status) error {
	tag, err := r.db.Exec(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, string(status), orderID)
	if err != nil {
		return fmt.Errorf("repository: failed to update status for order %d: %w", orderID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// Delete removes the order row; line items, payments and shipping costs go
// with it through ON DELETE CASCADE.
func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("repository: failed to delete order %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}
