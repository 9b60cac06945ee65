package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/bruninhodeville-wq/atelie-vanda-araujo/internal/catalog"
)

type ProductHandler struct {
	svc      catalog.Service
	sessions *Sessions
}

func NewProductHandler(svc catalog.Service, sessions *Sessions) *ProductHandler {
	return &ProductHandler{svc: svc, sessions: sessions}
}

func productFromForm(r *http.Request) (*catalog.Product, error) {
	product := &catalog.Product{Name: r.PostFormValue("name")}
	if product.Name == "" {
		return nil, errors.New("name is required")
	}

	fields := []struct {
		name string
		dst  *float64
	}{
		{"retail_price", &product.RetailPrice},
		{"wholesale_price", &product.WholesalePrice},
		{"bulk_wholesale_price", &product.BulkWholesalePrice},
		{"premium_wholesale_price", &product.PremiumWholesalePrice},
		{"production_cost", &product.ProductionCost},
		{"production_hours", &product.ProductionHours},
	}
	for _, f := range fields {
		value, err := formFloat(r, f.name)
		if err != nil {
			return nil, err
		}
		*f.dst = value
	}
	return product, nil
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListProducts(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to list products")
		http.Error(w, "failed to list products", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	found, err := h.svc.GetProductByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Int64("product_id", id).Msg("handler: failed to get product")
		http.Error(w, "failed to get product", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, found)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	product, err := productFromForm(r)
	if err != nil {
		redirectWithFlash(h.sessions, w, r, "/admin/products", "Dados do produto inválidos.")
		return
	}

	if _, err := h.svc.CreateProduct(r.Context(), product); err != nil {
		log.Error().Err(err).Msg("handler: failed to create product")
		redirectWithFlash(h.sessions, w, r, "/admin/products", "Não foi possível cadastrar o produto.")
		return
	}

	redirectWithFlash(h.sessions, w, r, "/admin/products", "Produto cadastrado com sucesso!")
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	product, err := productFromForm(r)
	if err != nil {
		redirectWithFlash(h.sessions, w, r, "/admin/products", "Dados do produto inválidos.")
		return
	}
	product.ID = id

	if err := h.svc.UpdateProduct(r.Context(), product); err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Int64("product_id", id).Msg("handler: failed to update product")
		redirectWithFlash(h.sessions, w, r, "/admin/products", "Não foi possível atualizar o produto.")
		return
	}

	redirectWithFlash(h.sessions, w, r, "/admin/products", "Produto atualizado com sucesso!")
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Int64("product_id", id).Msg("handler: failed to delete product")
		redirectWithFlash(h.sessions, w, r, "/admin/products", "Não foi possível remover o produto.")
		return
	}

	redirectWithFlash(h.sessions, w, r, "/admin/products", "Produto removido.")
}
