package gateway

import (
	"context"
	"log"
	"sync"
	"time"
)

// However the charge ends: settled, expired, atau di-dismiss kasir;
// poller HARUS berhenti. Stop() idempoten dan menunggu goroutine keluar,
// supaya callback basi tidak memfinalkan settlement setelah layar pembayaran
// ditinggalkan.

// StatusChecker: subset Client yang dibutuhkan poller.
type StatusChecker interface {
	ChargeStatus(ctx context.Context, orderID string) (string, error)
}

type Poller struct {
	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
}

// OnSettled dipanggil paling banyak sekali, tepat saat status settled
// pertama kali terlihat. OnDone dipanggil sekali saat poller berhenti karena
// alasan apapun (settled / deadline / dibatalkan), dengan status terakhir
// yang terlihat.
type PollCallbacks struct {
	OnSettled func(ctx context.Context)
	OnDone    func(lastStatus string)
}

// StartPoller memulai cek status berkala dengan interval tetap dan tenggat
// keras (tidak pernah retry tanpa batas).
func StartPoller(parent context.Context, checker StatusChecker, orderID, settledStatus string,
	interval, deadline time.Duration, cb PollCallbacks) *Poller {

	ctx, cancel := context.WithTimeout(parent, deadline)
	p := &Poller{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(p.done)
		defer cancel()

		lastStatus := ""
		defer func() {
			if cb.OnDone != nil {
				cb.OnDone(lastStatus)
			}
		}()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			status, err := checker.ChargeStatus(ctx, orderID)
			if err != nil {
				// kegagalan satu poll bukan akhir; coba lagi tick depan
				log.Printf("poll charge status order=%s: %v", orderID, err)
				continue
			}
			lastStatus = status
			if status == settledStatus {
				if cb.OnSettled != nil {
					cb.OnSettled(ctx)
				}
				return
			}
		}
	}()
	return p
}

// Stop membatalkan polling dan menunggu goroutine selesai. Aman dipanggil
// berkali-kali dan dari jalur sukses maupun jalur dismiss.
func (p *Poller) Stop() {
	p.stopOnce.Do(p.cancel)
	<-p.done
}

// Done terbaca selesai saat goroutine poller sudah keluar.
func (p *Poller) Done() <-chan struct{} { return p.done }
