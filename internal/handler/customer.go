package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/bruninhodeville-wq/atelie-vanda-araujo/internal/customer"
)

type CustomerHandler struct {
	svc      customer.Service
	sessions *Sessions
}

func NewCustomerHandler(svc customer.Service, sessions *Sessions) *CustomerHandler {
	return &CustomerHandler{svc: svc, sessions: sessions}
}

type customerForm struct {
	Name         string `validate:"required"`
	Email        string `validate:"omitempty,email"`
	Address      string `validate:"required"`
	Store        string
	Phone        string `validate:"required"`
	StateCode    string `validate:"required,len=2"`
	CustomerType string `validate:"required"`
}

func customerFromForm(r *http.Request) (*customer.Customer, error) {
	form := customerForm{
		Name:         r.PostFormValue("name"),
		Email:        r.PostFormValue("email"),
		Address:      r.PostFormValue("address"),
		Store:        r.PostFormValue("store"),
		Phone:        r.PostFormValue("phone"),
		StateCode:    r.PostFormValue("state_code"),
		CustomerType: r.PostFormValue("customer_type"),
	}
	if err := validate.Struct(form); err != nil {
		return nil, err
	}

	c := &customer.Customer{
		Name:         form.Name,
		Address:      form.Address,
		Phone:        form.Phone,
		StateCode:    form.StateCode,
		CustomerType: form.CustomerType,
	}
	if form.Email != "" {
		c.Email = &form.Email
	}
	if form.Store != "" {
		c.Store = &form.Store
	}
	return c, nil
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.svc.ListCustomers(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to list customers")
		http.Error(w, "failed to list customers", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, customers)
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		http.Error(w, "invalid customer id", http.StatusBadRequest)
		return
	}

	found, err := h.svc.GetCustomerByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, customer.ErrCustomerNotFound) {
			http.Error(w, "customer not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Int64("customer_id", id).Msg("handler: failed to get customer")
		http.Error(w, "failed to get customer", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, found)
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	c, err := customerFromForm(r)
	if err != nil {
		redirectWithFlash(h.sessions, w, r, "/admin/customers", "Dados do cliente inválidos.")
		return
	}

	if _, err := h.svc.CreateCustomer(r.Context(), c); err != nil {
		if errors.Is(err, customer.ErrEmailExists) {
			redirectWithFlash(h.sessions, w, r, "/admin/customers", "Já existe um cliente com este e-mail.")
			return
		}
		log.Error().Err(err).Msg("handler: failed to create customer")
		redirectWithFlash(h.sessions, w, r, "/admin/customers", "Não foi possível cadastrar o cliente.")
		return
	}

	redirectWithFlash(h.sessions, w, r, "/admin/customers", "Cliente cadastrado com sucesso!")
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		http.Error(w, "invalid customer id", http.StatusBadRequest)
		return
	}

	c, err := customerFromForm(r)
	if err != nil {
		redirectWithFlash(h.sessions, w, r, "/admin/customers", "Dados do cliente inválidos.")
		return
	}
	c.ID = id

	if err := h.svc.UpdateCustomer(r.Context(), c); err != nil {
		switch {
		case errors.Is(err, customer.ErrCustomerNotFound):
			http.Error(w, "customer not found", http.StatusNotFound)
		case errors.Is(err, customer.ErrEmailExists):
			redirectWithFlash(h.sessions, w, r, "/admin/customers", "Já existe um cliente com este e-mail.")
		default:
			log.Error().Err(err).Int64("customer_id", id).Msg("handler: failed to update customer")
			redirectWithFlash(h.sessions, w, r, "/admin/customers", "Não foi possível atualizar o cliente.")
		}
		return
	}

	redirectWithFlash(h.sessions, w, r, "/admin/customers", "Cliente atualizado com sucesso!")
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		http.Error(w, "invalid customer id", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteCustomer(r.Context(), id); err != nil {
		if errors.Is(err, customer.ErrCustomerNotFound) {
			http.Error(w, "customer not found", http.StatusNotFound)
			return
		}
		if errors.Is(err, customer.ErrCustomerHasOrders) {
			redirectWithFlash(h.sessions, w, r, "/admin/customers", "O cliente possui pedidos e não pode ser removido.")
			return
		}
		log.Error().Err(err).Int64("customer_id", id).Msg("handler: failed to delete customer")
		redirectWithFlash(h.sessions, w, r, "/admin/customers", "Não foi possível remover o cliente.")
		return
	}

	redirectWithFlash(h.sessions, w, r, "/admin/customers", "Cliente removido.")
}
