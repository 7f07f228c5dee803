package redisx

import "time"

const (
	// Snapshot cart aktif per outlet: pos:cart:{outlet_id} -> JSON CartSnapshot.
	// Dipulihkan saat posd restart.
	KeyCartSnapshot = "pos:cart:%s"

	// Cache shift aktif: pos:shift:active:{outlet_id} -> JSON Shift
	KeyActiveShift = "pos:shift:active:%s"

	// Idempotency submit transaksi: idem:tx:submit:{sale_id} -> "1"
	KeyIdemTxSubmit = "idem:tx:submit:%s"

	// Dedup event catalog.updated: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Status charge gateway terakhir yang terlihat: pos:charge:{sale_id} -> status
	KeyChargeStatus = "pos:charge:%s"

	// Ringkasan pass sinkronisasi terakhir: pos:sync:last:{outlet_id} -> JSON PassReport
	KeySyncLastPass = "pos:sync:last:%s"
)

var (
	TTLIdempotency  = 24 * time.Hour
	TTLDedup        = 48 * time.Hour
	TTLChargeStatus = 30 * time.Minute
	TTLActiveShift  = 24 * time.Hour
)
