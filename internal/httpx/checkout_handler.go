package httpx

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ariefcatur/go-pos-engine.git/internal/gateway"
	"github.com/ariefcatur/go-pos-engine.git/internal/metrics"
	"github.com/ariefcatur/go-pos-engine.git/internal/pos"
	"github.com/ariefcatur/go-pos-engine.git/internal/redisx"
)

// GatewayAPI: subset klien gateway yang dipakai checkout.
type GatewayAPI interface {
	CreateCharge(ctx context.Context, req gateway.ChargeRequest) (gateway.Charge, error)
	ChargeStatus(ctx context.Context, orderID string) (string, error)
}

type CheckoutHandler struct {
	Session    *pos.Session
	Settlement *pos.Settlement
	Gateway    GatewayAPI
	Store      *redisx.Store       // boleh nil
	Metrics    *metrics.POSMetrics // boleh nil

	PollInterval time.Duration
	PollDeadline time.Duration

	mu      sync.Mutex
	pending map[string]*pendingCharge
}

// pendingCharge: charge gateway yang masih menunggu settlement, plus poller
// yang terikat pada layar pembayaran yang membuatnya.
type pendingCharge struct {
	charge  gateway.Charge
	payment pos.Payment
	poller  *gateway.Poller
}

type checkoutReq struct {
	Payments []pos.Payment `json:"payments"`
}

type gatewayCheckoutReq struct {
	Type     pos.PaymentType `json:"type"` // qris | transfer (VA)
	MethodID string          `json:"method_id"`
	Bank     string          `json:"bank,omitempty"`
}

type gatewayCheckoutResp struct {
	OrderID    string    `json:"order_id"`
	QRString   string    `json:"qr_string,omitempty"`
	VANumber   string    `json:"va_number,omitempty"`
	BillerCode string    `json:"biller_code,omitempty"`
	Amount     int64     `json:"amount"`
	ExpiresAt  time.Time `json:"expires_at"`
}

func (h *CheckoutHandler) Register(r *chi.Mux) {
	r.Post("/checkout", h.checkout)
	r.Post("/checkout/gateway", h.gatewayCheckout)
	r.Get("/checkout/gateway/{orderID}", h.gatewayStatus)
	r.Delete("/checkout/gateway/{orderID}", h.gatewayDismiss)
}

// checkout: jalur direct (tunai / metode non-gateway) dan transfer manual
// yang dikonfirmasi kasir. Bisa split beberapa pembayaran sekaligus.
func (h *CheckoutHandler) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	sale, queued, err := h.Settlement.Settle(ctx, req.Payments)
	if err != nil {
		writeErr(w, err)
		return
	}
	h.recordSettled(sale, queued)
	writeJSON(w, http.StatusCreated, map[string]any{"sale": sale, "queued": queued})
}

// gatewayCheckout: minta charge ke gateway (QRIS / virtual account), lalu
// mulai poll status dengan interval tetap sampai settled, tenggat habis,
// atau kasir menutup layar pembayaran.
func (h *CheckoutHandler) gatewayCheckout(w http.ResponseWriter, r *http.Request) {
	var req gatewayCheckoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	view := h.Session.Checkout()
	if len(view.Items) == 0 {
		writeErr(w, pos.ErrEmptyCart)
		return
	}
	if view.Shift == nil || view.Shift.Status != pos.ShiftOpen {
		writeErr(w, pos.ErrNoActiveShift)
		return
	}
	if view.Employee == nil {
		writeErr(w, pos.ErrNoEmployee)
		return
	}

	method := gateway.MethodQRIS
	if req.Type == pos.PaymentTransfer {
		method = gateway.MethodVA
	}
	orderID := uuid.NewString()

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	// gagal bikin charge = tanpa efek samping, aman diulang
	charge, err := h.Gateway.CreateCharge(ctx, gateway.ChargeRequest{
		OrderID: orderID,
		Amount:  view.Due,
		Method:  method,
		Bank:    req.Bank,
	})
	if err != nil {
		writeErr(w, err)
		return
	}

	payment := pos.Payment{
		MethodID:  req.MethodID,
		Type:      req.Type,
		Amount:    view.Due,
		Reference: orderID,
	}

	h.startPoller(orderID, charge, payment)
	h.cacheStatus(orderID, pos.ChargePending)

	writeJSON(w, http.StatusAccepted, gatewayCheckoutResp{
		OrderID:    orderID,
		QRString:   charge.QRString,
		VANumber:   charge.VANumber,
		BillerCode: charge.BillerCode,
		Amount:     view.Due,
		ExpiresAt:  charge.ExpiresAt,
	})
}

func (h *CheckoutHandler) startPoller(orderID string, charge gateway.Charge, payment pos.Payment) {
	interval := h.PollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	deadline := h.PollDeadline
	if deadline <= 0 {
		deadline = 15 * time.Minute
	}

	p := gateway.StartPoller(context.Background(), h.Gateway, orderID, pos.ChargeSettled,
		interval, deadline, gateway.PollCallbacks{
			OnSettled: func(ctx context.Context) { h.finalize(ctx, orderID) },
			OnDone: func(lastStatus string) {
				if lastStatus != "" {
					h.cacheStatus(orderID, lastStatus)
				}
				h.mu.Lock()
				delete(h.pending, orderID)
				h.mu.Unlock()
			},
		})

	h.mu.Lock()
	if h.pending == nil {
		h.pending = map[string]*pendingCharge{}
	}
	h.pending[orderID] = &pendingCharge{charge: charge, payment: payment, poller: p}
	h.mu.Unlock()
}

// finalize dipanggil poller saat status settled pertama kali terlihat.
func (h *CheckoutHandler) finalize(ctx context.Context, orderID string) {
	h.mu.Lock()
	pc, ok := h.pending[orderID]
	h.mu.Unlock()
	if !ok {
		return
	}

	sale, queued, err := h.Settlement.Settle(ctx, []pos.Payment{pc.payment})
	if err != nil {
		// pembayaran sudah settled di gateway tapi finalisasi gagal
		// (mis. cart berubah); jangan diam-diam, catat untuk operator
		log.Printf("finalize gateway settlement order=%s: %v", orderID, err)
		return
	}
	h.cacheStatus(orderID, pos.ChargeSettled)
	h.recordSettled(sale, queued)
	log.Printf("gateway settlement finalized order=%s sale=%s queued=%v", orderID, sale.ID, queued)
}

func (h *CheckoutHandler) gatewayStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	// cache dulu; layar pembayaran nge-poll endpoint ini cukup sering
	if h.Store != nil {
		if status, err := h.Store.ChargeStatus(r.Context(), orderID); err == nil && status != "" {
			writeJSON(w, http.StatusOK, map[string]string{"order_id": orderID, "status": status})
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, err := h.Gateway.ChargeStatus(ctx, orderID)
	if err != nil {
		writeErr(w, err)
		return
	}
	h.cacheStatus(orderID, status)
	writeJSON(w, http.StatusOK, map[string]string{"order_id": orderID, "status": status})
}

// gatewayDismiss: kasir menutup layar pembayaran. Poller dihentikan di sini
// juga; callback basi tidak boleh memfinalkan settlement setelah layarnya
// sudah ditinggalkan.
func (h *CheckoutHandler) gatewayDismiss(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	h.mu.Lock()
	pc, ok := h.pending[orderID]
	delete(h.pending, orderID)
	h.mu.Unlock()

	if ok {
		pc.poller.Stop()
		h.cacheStatus(orderID, pos.ChargeCancelled)
	}
	w.WriteHeader(http.StatusNoContent)
}

// StopAll menghentikan semua poller yang masih berjalan dan menunggu
// goroutine-nya keluar. Dipanggil saat shutdown SEBELUM producer kafka
// ditutup; finalisasi yang datang setelah inbox tertutup akan panic.
func (h *CheckoutHandler) StopAll() {
	h.mu.Lock()
	outstanding := make([]*pendingCharge, 0, len(h.pending))
	for _, pc := range h.pending {
		outstanding = append(outstanding, pc)
	}
	h.pending = map[string]*pendingCharge{}
	h.mu.Unlock()

	for _, pc := range outstanding {
		pc.poller.Stop()
	}
}

func (h *CheckoutHandler) cacheStatus(orderID, status string) {
	if h.Store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.Store.SetChargeStatus(ctx, orderID, status); err != nil {
		log.Printf("cache charge status order=%s: %v", orderID, err)
	}
}

func (h *CheckoutHandler) recordSettled(sale pos.Sale, queued bool) {
	if h.Metrics == nil {
		return
	}
	q := strconv.FormatBool(queued)
	for _, p := range sale.Payments {
		h.Metrics.SalesSettled.WithLabelValues(string(p.Type), q).Inc()
	}
	h.Metrics.SettlementAmount.Observe(float64(sale.Total))
}
