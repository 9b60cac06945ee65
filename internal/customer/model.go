package customer

// Customer is a contact record. Email and store are optional; email is
// unique across customers when present.
type Customer struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Email        *string `json:"email,omitempty"`
	Address      string  `json:"address"`
	Store        *string `json:"store,omitempty"`
	Phone        string  `json:"phone"`
	StateCode    string  `json:"state_code"`
	CustomerType string  `json:"customer_type"`
}
