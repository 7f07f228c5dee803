package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-pos-engine.git/internal/pos"
)

// PINVerifier: verifikasi PIN kasir di backend. Gagal otorisasi bersifat
// terminal untuk percobaan itu; tidak ada auto-retry.
type PINVerifier interface {
	VerifyPIN(ctx context.Context, employeeID, pin string) (pos.Employee, error)
}

type SessionHandler struct {
	Session  *pos.Session
	Verifier PINVerifier
}

type verifyPINReq struct {
	EmployeeID string `json:"employee_id"`
	PIN        string `json:"pin"`
}

func (h *SessionHandler) Register(r *chi.Mux) {
	r.Post("/session/verify-pin", h.verifyPIN)
	r.Get("/session", h.session)
}

func (h *SessionHandler) verifyPIN(w http.ResponseWriter, r *http.Request) {
	var req verifyPINReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.EmployeeID == "" || req.PIN == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing fields"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	emp, err := h.Verifier.VerifyPIN(ctx, req.EmployeeID, req.PIN)
	if err != nil {
		writeErr(w, err)
		return
	}
	h.Session.SetEmployee(&emp)
	writeJSON(w, http.StatusOK, emp)
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"outlet_id": h.Session.OutletID,
		"employee":  h.Session.Employee(),
		"shift":     h.Session.ActiveShift(),
	})
}
