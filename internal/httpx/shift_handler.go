package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-pos-engine.git/internal/pos"
)

type ShiftHandler struct {
	Shifts *pos.Shifts
}

type openShiftReq struct {
	EmployeeID   string `json:"employee_id"`
	StartingCash int64  `json:"starting_cash"`
}

type closeShiftReq struct {
	EndingCash int64  `json:"ending_cash"`
	Notes      string `json:"notes"`
}

func (h *ShiftHandler) Register(r *chi.Mux) {
	r.Get("/shifts/active", h.active)
	r.Post("/shifts/open", h.open)
	r.Post("/shifts/{id}/close", h.close)
}

func (h *ShiftHandler) active(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sh, err := h.Shifts.FetchActive(ctx)
	if err != nil {
		writeErr(w, err)
		return
	}
	if sh == nil {
		// tidak ada shift terbuka = CLOSED normal, bukan error
		writeJSON(w, http.StatusOK, map[string]any{"active": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"active": true, "shift": sh})
}

func (h *ShiftHandler) open(w http.ResponseWriter, r *http.Request) {
	var req openShiftReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.EmployeeID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing employee_id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sh, err := h.Shifts.Open(ctx, req.EmployeeID, req.StartingCash)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sh)
}

func (h *ShiftHandler) close(w http.ResponseWriter, r *http.Request) {
	var req closeShiftReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	report, err := h.Shifts.Close(ctx, chi.URLParam(r, "id"), req.EndingCash, req.Notes)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
