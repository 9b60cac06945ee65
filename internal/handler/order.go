package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bruninhodeville-wq/atelie-vanda-araujo/internal/catalog"
	"github.com/bruninhodeville-wq/atelie-vanda-araujo/internal/customer"
	"github.com/bruninhodeville-wq/atelie-vanda-araujo/internal/order"
)

type OrderHandler struct {
	svc      order.Service
	sessions *Sessions
}

func NewOrderHandler(svc order.Service, sessions *Sessions) *OrderHandler {
	return &OrderHandler{svc: svc, sessions: sessions}
}

// orderView pairs a loaded order with its recomputed financial summary.
type orderView struct {
	*order.Order
	Ledger order.Ledger `json:"ledger"`
}

func newOrderView(o *order.Order) orderView {
	return orderView{Order: o, Ledger: order.ComputeLedger(o)}
}

// parseCart reads the repeated cart fields of the workbench form. The
// product_id, quantity and unit_price columns must line up; color and
// price_tier are optional per row. A non-empty price_tier makes the
// catalog price for that tier win over the submitted unit price.
func parseCart(r *http.Request) ([]order.CartEntry, error) {
	ids := r.PostForm["product_id"]
	quantities := r.PostForm["quantity"]
	prices := r.PostForm["unit_price"]
	colors := r.PostForm["color"]
	tiers := r.PostForm["price_tier"]

	if len(quantities) != len(ids) || len(prices) != len(ids) {
		return nil, errors.New("cart fields are misaligned")
	}

	cart := make([]order.CartEntry, 0, len(ids))
	for i := range ids {
		productID, err := strconv.ParseInt(ids[i], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid product id %q", ids[i])
		}
		quantity, err := strconv.Atoi(quantities[i])
		if err != nil {
			return nil, fmt.Errorf("invalid quantity %q", quantities[i])
		}
		price, err := strconv.ParseFloat(prices[i], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid unit price %q", prices[i])
		}

		entry := order.CartEntry{ProductID: productID, Quantity: quantity, UnitPrice: price}
		if i < len(colors) {
			entry.Color = colors[i]
		}
		if i < len(tiers) && tiers[i] != "" {
			entry.Tier = catalog.PriceTier(tiers[i])
		}
		cart = append(cart, entry)
	}
	return cart, nil
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.svc.ListOrders(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to list orders")
		http.Error(w, "failed to list orders", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, summaries)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}

	found, err := h.svc.GetOrderByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			http.Error(w, "order not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Int64("order_id", id).Msg("handler: failed to get order")
		http.Error(w, "failed to get order", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, newOrderView(found))
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithFlash(h.sessions, w, r, "/admin/orders", "Formulário inválido.")
		return
	}

	customerID, err := strconv.ParseInt(r.PostFormValue("customer_id"), 10, 64)
	if err != nil {
		redirectWithFlash(h.sessions, w, r, "/admin/orders", "Cliente inválido.")
		return
	}

	cart, err := parseCart(r)
	if err != nil {
		redirectWithFlash(h.sessions, w, r, "/admin/orders", "Itens do pedido inválidos.")
		return
	}

	created, err := h.svc.CreateOrder(r.Context(), order.CreateOrderInput{
		CustomerID:     customerID,
		ShippingMethod: r.PostFormValue("shipping_method"),
		Cart:           cart,
	})
	if err != nil {
		h.flashOrderError(w, r, "/admin/orders", err)
		return
	}

	redirectWithFlash(h.sessions, w, r, fmt.Sprintf("/admin/orders/%d", created.ID), fmt.Sprintf("Pedido #%d criado com sucesso!", created.ID))
}

// ReplaceItems swaps the full cart of an existing order.
func (h *OrderHandler) ReplaceItems(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		redirectWithFlash(h.sessions, w, r, fmt.Sprintf("/admin/orders/%d", id), "Formulário inválido.")
		return
	}

	cart, err := parseCart(r)
	if err != nil {
		redirectWithFlash(h.sessions, w, r, fmt.Sprintf("/admin/orders/%d", id), "Itens do pedido inválidos.")
		return
	}

	if _, err := h.svc.ReplaceItems(r.Context(), id, cart); err != nil {
		h.flashOrderError(w, r, fmt.Sprintf("/admin/orders/%d", id), err)
		return
	}

	redirectWithFlash(h.sessions, w, r, fmt.Sprintf("/admin/orders/%d", id), "Itens do pedido atualizados.")
}

// parseFees reads the repeated settlement fee fields: fee_type, fee_amount
// and fee_status ("Paid" marks the fee as already paid).
func parseFees(r *http.Request) ([]order.FeeEntry, error) {
	types := r.PostForm["fee_type"]
	amounts := r.PostForm["fee_amount"]
	statuses := r.PostForm["fee_status"]

	if len(amounts) != len(types) || len(statuses) != len(types) {
		return nil, errors.New("fee fields are misaligned")
	}

	fees := make([]order.FeeEntry, 0, len(types))
	for i := range types {
		amount, err := strconv.ParseFloat(amounts[i], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid fee amount %q", amounts[i])
		}
		fees = append(fees, order.FeeEntry{
			CostType: types[i],
			Amount:   amount,
			Paid:     statuses[i] == string(order.FeePaid),
		})
	}
	return fees, nil
}

func (h *OrderHandler) Settle(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}
	target := fmt.Sprintf("/admin/orders/%d", id)

	if err := r.ParseForm(); err != nil {
		redirectWithFlash(h.sessions, w, r, target, "Formulário inválido.")
		return
	}

	discount, err := formFloat(r, "discount")
	if err != nil {
		redirectWithFlash(h.sessions, w, r, target, "Desconto inválido.")
		return
	}
	deposit, err := formFloat(r, "deposit_amount")
	if err != nil {
		redirectWithFlash(h.sessions, w, r, target, "Valor de entrada inválido.")
		return
	}
	deliveryDate, err := time.Parse("2006-01-02", r.PostFormValue("delivery_date"))
	if err != nil {
		redirectWithFlash(h.sessions, w, r, target, "Data de entrega inválida.")
		return
	}
	fees, err := parseFees(r)
	if err != nil {
		redirectWithFlash(h.sessions, w, r, target, "Custos de envio inválidos.")
		return
	}

	if _, err := h.svc.Settle(r.Context(), order.SettleInput{
		OrderID:       id,
		Discount:      discount,
		DeliveryDate:  deliveryDate,
		DepositAmount: deposit,
		DepositMethod: r.PostFormValue("deposit_method"),
		Fees:          fees,
	}); err != nil {
		h.flashOrderError(w, r, target, err)
		return
	}

	redirectWithFlash(h.sessions, w, r, target, "Pedido fechado com sucesso!")
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}
	target := fmt.Sprintf("/admin/orders/%d", id)

	if err := h.svc.UpdateStatus(r.Context(), id, r.PostFormValue("status")); err != nil {
		h.flashOrderError(w, r, target, err)
		return
	}

	redirectWithFlash(h.sessions, w, r, target, "Status atualizado.")
}

func (h *OrderHandler) AddPayment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}
	target := fmt.Sprintf("/admin/orders/%d", id)

	amount, err := formFloat(r, "amount")
	if err != nil {
		redirectWithFlash(h.sessions, w, r, target, "Valor do pagamento inválido.")
		return
	}

	if _, err := h.svc.AddPayment(r.Context(), id, r.PostFormValue("method"), amount); err != nil {
		h.flashOrderError(w, r, target, err)
		return
	}

	redirectWithFlash(h.sessions, w, r, target, "Pagamento registrado.")
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteOrder(r.Context(), id); err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			http.Error(w, "order not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Int64("order_id", id).Msg("handler: failed to delete order")
		redirectWithFlash(h.sessions, w, r, "/admin/orders", "Não foi possível remover o pedido.")
		return
	}

	redirectWithFlash(h.sessions, w, r, "/admin/orders", "Pedido removido.")
}

// flashOrderError translates domain errors into user-facing flashes; only
// unexpected failures are logged.
func (h *OrderHandler) flashOrderError(w http.ResponseWriter, r *http.Request, target string, err error) {
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		http.Error(w, "order not found", http.StatusNotFound)
	case errors.Is(err, customer.ErrCustomerNotFound):
		redirectWithFlash(h.sessions, w, r, target, "Cliente não encontrado.")
	case errors.Is(err, catalog.ErrProductNotFound):
		redirectWithFlash(h.sessions, w, r, target, "Produto não encontrado.")
	case errors.Is(err, order.ErrEmptyCart):
		redirectWithFlash(h.sessions, w, r, target, "Adicione pelo menos um item ao pedido.")
	case errors.Is(err, order.ErrInvalidQuantity), errors.Is(err, order.ErrNegativeAmount), errors.Is(err, order.ErrEmptyStatus):
		redirectWithFlash(h.sessions, w, r, target, "Dados do pedido inválidos.")
	default:
		log.Error().Err(err).Msg("handler: order operation failed")
		redirectWithFlash(h.sessions, w, r, target, "Não foi possível concluir a operação.")
	}
}
