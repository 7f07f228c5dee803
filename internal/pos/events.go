package pos

import (
	"encoding/json"
	"time"
)

const (
	EventSaleSettled    = "SaleSettled"
	EventSyncCompleted  = "SyncCompleted"
	EventCatalogUpdated = "CatalogUpdated" // diterbitkan backend, dikonsumsi syncd
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // biasanya sale_id
	Payload       json.RawMessage `json:"payload"`
}

// ---- Payload per event ----

type PaymentSummary struct {
	MethodID string      `json:"method_id"`
	Type     PaymentType `json:"type"`
	Amount   int64       `json:"amount"`
}

type SaleSettledPayload struct {
	SaleID   string           `json:"sale_id"`
	OutletID string           `json:"outlet_id"`
	ShiftID  string           `json:"shift_id"`
	Total    int64            `json:"total"`
	Payments []PaymentSummary `json:"payments"`
	// Queued true jika transaksi masuk antrian lokal (offline), bukan
	// langsung diterima backend.
	Queued bool `json:"queued"`
}

type SyncCompletedPayload struct {
	OutletID  string `json:"outlet_id"`
	Products  int    `json:"products"`
	Customers int    `json:"customers"`
	TxSynced  int    `json:"tx_synced"`
	TxFailed  int    `json:"tx_failed"`
}

type CatalogUpdatedPayload struct {
	Scope string `json:"scope"` // products | customers | all
}
