package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bruninhodeville-wq/atelie-vanda-araujo/internal/catalog"
	"github.com/bruninhodeville-wq/atelie-vanda-araujo/internal/customer"
)

var (
	ErrEmptyCart       = errors.New("order must contain at least one item")
	ErrInvalidQuantity = errors.New("item quantity must be greater than zero")
	ErrNegativeAmount  = errors.New("amount cannot be negative")
	ErrEmptyStatus     = errors.New("status is required")
)

// CartEntry is one workbench cart row. When Tier is set the unit price is
// resolved from the product's price tiers and UnitPrice is ignored;
// otherwise UnitPrice is taken as entered.
type CartEntry struct {
	ProductID int64
	Quantity  int
	UnitPrice float64
	Tier      catalog.PriceTier
	Color     string
}

type CreateOrderInput struct {
	CustomerID     int64
	ShippingMethod string
	Cart           []CartEntry
}

// FeeEntry is one shipping/other fee recorded at settlement. A fee entered
// as already paid produces a matching payment row in the same transaction.
type FeeEntry struct {
	CostType string
	Amount   float64
	Paid     bool
}

type SettleInput struct {
	OrderID       int64
	Discount      float64
	DeliveryDate  time.Time
	DepositAmount float64
	DepositMethod string
	Fees          []FeeEntry
}

// ProductSource resolves cart entries against the catalog so line items can
// snapshot price and production cost at sale time.
type ProductSource interface {
	GetProductByID(ctx context.Context, id int64) (*catalog.Product, error)
}

// CustomerSource verifies order owners exist.
type CustomerSource interface {
	GetCustomerByID(ctx context.Context, id int64) (*customer.Customer, error)
}

type Service interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (*Order, error)
	ReplaceItems(ctx context.Context, orderID int64, cart []CartEntry) (*Order, error)
	GetOrderByID(ctx context.Context, id int64) (*Order, error)
	ListOrders(ctx context.Context) ([]Summary, error)
	ListCustomerOrders(ctx context.Context, customerID int64) ([]Order, error)
	Settle(ctx context.Context, in SettleInput) (*Order, error)
	AddPayment(ctx context.Context, orderID int64, method string, amount float64) (*Payment, error)
	UpdateStatus(ctx context.Context, orderID int64, status string) error
	DeleteOrder(ctx context.Context, id int64) error
}

type service struct {
	repo      Repository
	products  ProductSource
	customers CustomerSource
	now       func() time.Time
}

func NewService(repo Repository, products ProductSource, customers CustomerSource) Service {
	return &service{
		repo:      repo,
		products:  products,
		customers: customers,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// buildItems resolves a cart into snapshotted line items and the total
// production hours the cart represents.
func (s *service) buildItems(ctx context.Context, cart []CartEntry) ([]LineItem, float64, error) {
	if len(cart) == 0 {
		return nil, 0, ErrEmptyCart
	}

	items := make([]LineItem, 0, len(cart))
	totalHours := 0.0
	for _, entry := range cart {
		if entry.Quantity <= 0 {
			return nil, 0, fmt.Errorf("service: product %d: %w", entry.ProductID, ErrInvalidQuantity)
		}
		if entry.UnitPrice < 0 {
			return nil, 0, fmt.Errorf("service: product %d unit price: %w", entry.ProductID, ErrNegativeAmount)
		}

		product, err := s.products.GetProductByID(ctx, entry.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrProductNotFound) {
				return nil, 0, fmt.Errorf("service: product %d: %w", entry.ProductID, catalog.ErrProductNotFound)
			}
			return nil, 0, fmt.Errorf("service: failed to load product %d: %w", entry.ProductID, err)
		}

		item := LineItem{
			ProductID: product.ID,
			Quantity:  entry.Quantity,
			UnitPrice: entry.UnitPrice,
			UnitCost:  product.ProductionCost,
		}
		if entry.Tier != "" {
			price, err := product.TierPrice(entry.Tier)
			if err != nil {
				return nil, 0, fmt.Errorf("service: product %d: %w", entry.ProductID, err)
			}
			item.UnitPrice = price
		}
		if color := strings.TrimSpace(entry.Color); color != "" {
			item.Color = &color
		}
		items = append(items, item)
		totalHours += product.ProductionHours * float64(entry.Quantity)
	}
	return items, totalHours, nil
}

func (s *service) CreateOrder(ctx context.Context, in CreateOrderInput) (*Order, error) {
	if strings.TrimSpace(in.ShippingMethod) == "" {
		return nil, errors.New("service: shipping method is required")
	}

	if _, err := s.customers.GetCustomerByID(ctx, in.CustomerID); err != nil {
		if errors.Is(err, customer.ErrCustomerNotFound) {
			return nil, customer.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("service: failed to load customer %d: %w", in.CustomerID, err)
	}

	items, totalHours, err := s.buildItems(ctx, in.Cart)
	if err != nil {
		return nil, err
	}

	createdAt := s.now()
	deadline := estimateDeadline(createdAt, totalHours)
	newOrder := &Order{
		CustomerID:       in.CustomerID,
		CreatedAt:        createdAt,
		DeliveryDeadline: &deadline,
		Status:           StatusDraft,
		ShippingMethod:   in.ShippingMethod,
		Items:            items,
		Payments:         make([]Payment, 0),
		ShippingCosts:    make([]ShippingCost, 0),
	}

	if _, err := s.repo.Create(ctx, newOrder); err != nil {
		log.Error().Err(err).Int64("customer_id", in.CustomerID).Msg("service: failed to create order")
		return nil, fmt.Errorf("service: failed to create order: %w", err)
	}
	return newOrder, nil
}

// ReplaceItems swaps the full cart of an existing order, keeping the order
// identity and recomputing the delivery estimate from its creation time.
func (s *service) ReplaceItems(ctx context.Context, orderID int64, cart []CartEntry) (*Order, error) {
	existing, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("service: failed to load order %d: %w", orderID, err)
	}

	items, totalHours, err := s.buildItems(ctx, cart)
	if err != nil {
		return nil, err
	}

	deadline := estimateDeadline(existing.CreatedAt, totalHours)
	if err := s.repo.ReplaceItems(ctx, orderID, items, deadline); err != nil {
		log.Error().Err(err).Int64("order_id", orderID).Msg("service: failed to replace order items")
		return nil, fmt.Errorf("service: failed to replace items for order %d: %w", orderID, err)
	}

	existing.Items = items
	existing.DeliveryDeadline = &deadline
	return existing, nil
}

func (s *service) GetOrderByID(ctx context.Context, id int64) (*Order, error) {
	found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("service: failed to get order by id %d: %w", id, err)
	}
	return found, nil
}

func (s *service) ListOrders(ctx context.Context) ([]Summary, error) {
	summaries, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list orders: %w", err)
	}
	return summaries, nil
}

func (s *service) ListCustomerOrders(ctx context.Context, customerID int64) ([]Order, error) {
	if _, err := s.customers.GetCustomerByID(ctx, customerID); err != nil {
		if errors.Is(err, customer.ErrCustomerNotFound) {
			return nil, customer.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("service: failed to load customer %d: %w", customerID, err)
	}

	orders, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list orders for customer %d: %w", customerID, err)
	}
	return orders, nil
}

// settlementRows expands a settlement request into the shipping-cost rows
// and payment rows it creates: one payment for a positive deposit, and one
// synthetic payment per fee already marked paid, equal to the fee amount.
func settlementRows(in SettleInput) ([]ShippingCost, []Payment, error) {
	fees := make([]ShippingCost, 0, len(in.Fees))
	payments := make([]Payment, 0)

	if in.DepositAmount < 0 {
		return nil, nil, fmt.Errorf("service: deposit: %w", ErrNegativeAmount)
	}
	if in.DepositAmount > 0 {
		method := strings.TrimSpace(in.DepositMethod)
		if method == "" {
			return nil, nil, errors.New("service: deposit method is required")
		}
		payments = append(payments, Payment{Method: method, Amount: in.DepositAmount})
	}

	for _, fee := range in.Fees {
		costType := strings.TrimSpace(fee.CostType)
		if costType == "" {
			return nil, nil, errors.New("service: shipping cost type is required")
		}
		if fee.Amount < 0 {
			return nil, nil, fmt.Errorf("service: shipping cost %q: %w", costType, ErrNegativeAmount)
		}

		status := FeePending
		if fee.Paid {
			status = FeePaid
			payments = append(payments, Payment{Method: costType, Amount: fee.Amount})
		}
		fees = append(fees, ShippingCost{CostType: costType, Amount: fee.Amount, Status: status})
	}
	return fees, payments, nil
}

func (s *service) Settle(ctx context.Context, in SettleInput) (*Order, error) {
	if in.Discount < 0 {
		return nil, fmt.Errorf("service: discount: %w", ErrNegativeAmount)
	}
	if in.DeliveryDate.IsZero() {
		return nil, errors.New("service: delivery date is required")
	}

	fees, payments, err := settlementRows(in)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Settle(ctx, in.OrderID, in.Discount, in.DeliveryDate, fees, payments); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		log.Error().Err(err).Int64("order_id", in.OrderID).Msg("service: failed to settle order")
		return nil, fmt.Errorf("service: failed to settle order %d: %w", in.OrderID, err)
	}

	return s.GetOrderByID(ctx, in.OrderID)
}

func (s *service) AddPayment(ctx context.Context, orderID int64, method string, amount float64) (*Payment, error) {
	method = strings.TrimSpace(method)
	if method == "" {
		return nil, errors.New("service: payment method is required")
	}
	if amount <= 0 {
		return nil, errors.New("service: payment amount must be greater than zero")
	}

	if _, err := s.repo.GetByID(ctx, orderID); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("service: failed to load order %d: %w", orderID, err)
	}

	payment := &Payment{OrderID: orderID, Method: method, Amount: amount}
	if _, err := s.repo.AddPayment(ctx, payment); err != nil {
		log.Error().Err(err).Int64("order_id", orderID).Msg("service: failed to add payment")
		return nil, fmt.Errorf("service: failed to add payment to order %d: %w", orderID, err)
	}
	return payment, nil
}

func (s *service) UpdateStatus(ctx context.Context, orderID int64, status string) error {
	status = strings.TrimSpace(status)
	if status == "" {
		return ErrEmptyStatus
	}

	if err := s.repo.UpdateStatus(ctx, orderID, Status(status)); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("service: failed to update status of order %d: %w", orderID, err)
	}
	return nil
}

func (s *service) DeleteOrder(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		log.Error().Err(err).Int64("order_id", id).Msg("service: failed to delete order")
		return fmt.Errorf("service: failed to delete order %d: %w", id, err)
	}
	return nil
}
