package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-pos-engine.git/internal/metrics"
	"github.com/ariefcatur/go-pos-engine.git/internal/redisx"
	"github.com/ariefcatur/go-pos-engine.git/internal/syncx"
)

type SyncHandler struct {
	Sync     *syncx.Service
	Queue    syncx.Queue
	Store    *redisx.Store       // boleh nil
	Metrics  *metrics.POSMetrics // boleh nil
	OutletID string
}

func (h *SyncHandler) Register(r *chi.Mux) {
	r.Get("/sync/status", h.status)
	r.Post("/sync/run", h.run)
}

func (h *SyncHandler) status(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	depth, err := h.Queue.Depth(ctx)
	if err != nil {
		writeErr(w, err)
		return
	}

	var last json.RawMessage
	if h.Store != nil {
		last, _ = h.Store.LastSyncReport(ctx, h.OutletID)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"queue_depth": depth,
		"last_pass":   last,
	})
}

// run: tombol retry manual dari UI. Satu pass, hasilnya langsung kembali.
func (h *SyncHandler) run(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	report := h.Sync.RunPass(ctx)
	if h.Metrics != nil {
		h.Metrics.SyncItems.WithLabelValues("synced").Add(float64(report.TxSynced))
		h.Metrics.SyncItems.WithLabelValues("failed").Add(float64(report.TxFailed))
	}
	writeJSON(w, http.StatusOK, report)
}
