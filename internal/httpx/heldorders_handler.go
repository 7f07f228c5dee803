package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-pos-engine.git/internal/pos"
)

type HeldOrdersHandler struct {
	Held *pos.HeldOrders
}

type holdReq struct {
	Notes string `json:"notes"`
}

type resumeReq struct {
	// Force = konfirmasi eksplisit menimpa cart yang masih berisi.
	Force bool `json:"force"`
}

func (h *HeldOrdersHandler) Register(r *chi.Mux) {
	r.Get("/held-orders", h.list)
	r.Post("/held-orders", h.hold)
	r.Post("/held-orders/{id}/resume", h.resume)
	r.Delete("/held-orders/{id}", h.delete)
}

func (h *HeldOrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Held.Fetch(ctx); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Held.List())
}

func (h *HeldOrdersHandler) hold(w http.ResponseWriter, r *http.Request) {
	var req holdReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, err := h.Held.Hold(ctx, req.Notes)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *HeldOrdersHandler) resume(w http.ResponseWriter, r *http.Request) {
	var req resumeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, err := h.Held.Resume(ctx, chi.URLParam(r, "id"), req.Force)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *HeldOrdersHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Held.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
