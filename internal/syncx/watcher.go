package syncx

import (
	"context"
	"log"
	"time"
)

// Watcher memprobe kesehatan backend berkala dan memicu satu pass pada
// transisi offline→online (dan saat start jika langsung online). Kegagalan
// pass tidak di-retry ketat; tunggu probe berikutnya.
type Watcher struct {
	Service  *Service
	Interval time.Duration
}

func (w *Watcher) Run(ctx context.Context) {
	interval := w.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	online := w.probe(ctx)
	if online {
		log.Printf("backend reachable at start, running initial sync pass")
		w.run(ctx)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		now := w.probe(ctx)
		if now && !online {
			log.Printf("backend back online, running sync pass")
			w.run(ctx)
		}
		online = now
	}
}

func (w *Watcher) probe(ctx context.Context) bool {
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return w.Service.Backend.Health(pctx) == nil
}

func (w *Watcher) run(ctx context.Context) {
	report := w.Service.RunPass(ctx)
	log.Printf("sync pass done: products=%d customers=%d tx_synced=%d tx_failed=%d pull_errors=%d",
		report.Products, report.Customers, report.TxSynced, report.TxFailed, len(report.PullErrors))
}
