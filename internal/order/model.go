package order

import "time"

type Status string

const (
	// StatusDraft is the state of a freshly built order, before settlement.
	StatusDraft Status = "Draft"
	// StatusPending is set by settlement. Later statuses are free-form
	// admin-entered labels with no enforced transition table.
	StatusPending Status = "Pending"
)

type FeeStatus string

const (
	FeePending FeeStatus = "Pending"
	FeePaid    FeeStatus = "Paid"
)

// LineItem is one product entry within an order. UnitPrice and UnitCost are
// snapshotted at sale time; later catalog edits never change them.
type LineItem struct {
	ID        int64   `json:"id"`
	OrderID   int64   `json:"order_id"`
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	UnitCost  float64 `json:"unit_cost"`
	Color     *string `json:"color,omitempty"`
}

func (li *LineItem) Subtotal() float64 {
	return li.UnitPrice * float64(li.Quantity)
}

type Payment struct {
	ID      int64   `json:"id"`
	OrderID int64   `json:"order_id"`
	Method  string  `json:"method"`
	Amount  float64 `json:"amount"`
}

// ShippingCost is a fee attached to an order (freight, packaging, etc.),
// independently marked paid or pending.
type ShippingCost struct {
	ID       int64     `json:"id"`
	OrderID  int64     `json:"order_id"`
	CostType string    `json:"cost_type"`
	Amount   float64   `json:"amount"`
	Status   FeeStatus `json:"status"`
}

type Order struct {
	ID               int64          `json:"id"`
	CustomerID       int64          `json:"customer_id"`
	CreatedAt        time.Time      `json:"created_at"`
	DeliveryDeadline *time.Time     `json:"delivery_deadline,omitempty"`
	Status           Status         `json:"status"`
	ShippingMethod   string         `json:"shipping_method"`
	Discount         float64        `json:"discount"`
	Items            []LineItem     `json:"items"`
	Payments         []Payment      `json:"payments"`
	ShippingCosts    []ShippingCost `json:"shipping_costs"`
}

// Summary is an order row joined with its customer name, for admin listings.
type Summary struct {
	ID               int64      `json:"id"`
	CustomerID       int64      `json:"customer_id"`
	CustomerName     string     `json:"customer_name"`
	CreatedAt        time.Time  `json:"created_at"`
	DeliveryDeadline *time.Time `json:"delivery_deadline,omitempty"`
	Status           Status     `json:"status"`
	ShippingMethod   string     `json:"shipping_method"`
	Discount         float64    `json:"discount"`
}
