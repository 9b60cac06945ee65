package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bruninhodeville-wq/atelie-vanda-araujo/internal/customer"
	"github.com/bruninhodeville-wq/atelie-vanda-araujo/internal/order"
)

type TrackingHandler struct {
	svc order.Service
}

func NewTrackingHandler(svc order.Service) *TrackingHandler {
	return &TrackingHandler{svc: svc}
}

// trackedOrder is the public view of an order. It deliberately carries no
// customer contact fields.
type trackedOrder struct {
	ID               int64      `json:"id"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	DeliveryDeadline *time.Time `json:"delivery_deadline,omitempty"`
	TotalDue         float64    `json:"total_due"`
	Balance          float64    `json:"balance"`
}

// Track is the public order-lookup endpoint: a customer id returns that
// customer's orders, newest first.
func (h *TrackingHandler) Track(w http.ResponseWriter, r *http.Request) {
	customerID, err := idParam(r, "customerID")
	if err != nil {
		http.Error(w, "informe um ID válido (apenas números)", http.StatusBadRequest)
		return
	}

	orders, err := h.svc.ListCustomerOrders(r.Context(), customerID)
	if err != nil {
		if errors.Is(err, customer.ErrCustomerNotFound) {
			http.Error(w, "cliente não encontrado com este ID", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Int64("customer_id", customerID).Msg("handler: failed to track orders")
		http.Error(w, "failed to look up orders", http.StatusInternalServerError)
		return
	}

	tracked := make([]trackedOrder, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		ledger := order.ComputeLedger(o)
		tracked = append(tracked, trackedOrder{
			ID:               o.ID,
			Status:           string(o.Status),
			CreatedAt:        o.CreatedAt,
			DeliveryDeadline: o.DeliveryDeadline,
			TotalDue:         ledger.TotalDue,
			Balance:          ledger.Balance,
		})
	}
	respondJSON(w, http.StatusOK, tracked)
}
