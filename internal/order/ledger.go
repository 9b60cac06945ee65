package order

// Ledger is the derived financial summary of an order. It is recomputed on
// every view and never stored.
type Ledger struct {
	Gross    float64 `json:"gross"`
	Discount float64 `json:"discount"`
	Net      float64 `json:"net"`
	Fees     float64 `json:"fees"`
	TotalDue float64 `json:"total_due"`
	Paid     float64 `json:"paid"`
	Balance  float64 `json:"balance"`
}

// ComputeLedger aggregates an order's line items, shipping costs and
// payments into an outstanding balance:
// balance = (gross - discount + fees) - paid.
func ComputeLedger(o *Order) Ledger {
	ledger := Ledger{Discount: o.Discount}
	for i := range o.Items {
		ledger.Gross += o.Items[i].Subtotal()
	}
	for i := range o.ShippingCosts {
		ledger.Fees += o.ShippingCosts[i].Amount
	}
	for i := range o.Payments {
		ledger.Paid += o.Payments[i].Amount
	}
	ledger.Net = ledger.Gross - ledger.Discount
	ledger.TotalDue = ledger.Net + ledger.Fees
	ledger.Balance = ledger.TotalDue - ledger.Paid
	return ledger
}
