package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-pos-engine.git/internal/localdb"
	"github.com/ariefcatur/go-pos-engine.git/internal/pos"
)

// CatalogSource: lookup katalog dari mirror lokal (degradasi offline sudah
// tertangani karena mirror memang lokal).
type CatalogSource interface {
	GetProduct(ctx context.Context, id string) (pos.Product, error)
	GetCustomer(ctx context.Context, id string) (pos.Customer, error)
}

type CartHandler struct {
	Session *pos.Session
	Catalog CatalogSource
}

type addItemReq struct {
	ProductID string       `json:"product_id"`
	Variant   *pos.Variant `json:"variant,omitempty"`
}

type updateQtyReq struct {
	Quantity int `json:"quantity"`
}

type setCustomerReq struct {
	CustomerID string `json:"customer_id"`
}

type cartView struct {
	Items          []pos.CartItem `json:"items"`
	Customer       *pos.Customer  `json:"customer,omitempty"`
	Subtotal       int64          `json:"subtotal"`
	Tax            int64          `json:"tax"`
	Discount       int64          `json:"discount"`
	Total          int64          `json:"total"`
	Due            int64          `json:"due"`
	ResumedOrderID string         `json:"resumed_order_id,omitempty"`
}

func (h *CartHandler) Register(r *chi.Mux) {
	r.Get("/cart", h.getCart)
	r.Post("/cart/items", h.addItem)
	r.Patch("/cart/items/{id}", h.updateQuantity)
	r.Delete("/cart/items/{id}", h.removeItem)
	r.Put("/cart/customer", h.setCustomer)
	r.Delete("/cart/customer", h.clearCustomer)
	r.Delete("/cart", h.clearCart)
}

func (h *CartHandler) view() cartView {
	v := h.Session.Checkout()
	return cartView{
		Items:          v.Items,
		Customer:       v.Customer,
		Subtotal:       v.Subtotal,
		Tax:            v.Tax,
		Discount:       v.Discount,
		Total:          v.Total,
		Due:            v.Due,
		ResumedOrderID: v.ResumedOrderID,
	}
}

func (h *CartHandler) getCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.view())
}

func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.ProductID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing product_id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, localdb.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
			return
		}
		writeErr(w, err)
		return
	}

	h.Session.AddItem(p, req.Variant)
	writeJSON(w, http.StatusOK, h.view())
}

func (h *CartHandler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	var req updateQtyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := h.Session.UpdateQuantity(chi.URLParam(r, "id"), req.Quantity); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view())
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.RemoveItem(chi.URLParam(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view())
}

func (h *CartHandler) setCustomer(w http.ResponseWriter, r *http.Request) {
	var req setCustomerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CustomerID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing customer_id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.Catalog.GetCustomer(ctx, req.CustomerID)
	if err != nil {
		if errors.Is(err, localdb.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "customer not found"})
			return
		}
		writeErr(w, err)
		return
	}
	h.Session.SetCustomer(&c)
	writeJSON(w, http.StatusOK, h.view())
}

func (h *CartHandler) clearCustomer(w http.ResponseWriter, r *http.Request) {
	h.Session.SetCustomer(nil)
	writeJSON(w, http.StatusOK, h.view())
}

func (h *CartHandler) clearCart(w http.ResponseWriter, r *http.Request) {
	h.Session.ClearCart()
	writeJSON(w, http.StatusOK, h.view())
}
