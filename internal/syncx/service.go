package syncx

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/ariefcatur/go-pos-engine.git/internal/kafka"
	"github.com/ariefcatur/go-pos-engine.git/internal/pos"
	"github.com/ariefcatur/go-pos-engine.git/internal/redisx"
)

// BackendAPI: bagian backend yang dibutuhkan rekonsiliasi.
type BackendAPI interface {
	Health(ctx context.Context) error
	ListProducts(ctx context.Context) ([]pos.Product, error)
	ListCustomers(ctx context.Context) ([]pos.Customer, error)
	SubmitTransaction(ctx context.Context, sale pos.Sale) error
}

// Mirror: tempat menimpa katalog per id.
type Mirror interface {
	UpsertProducts(ctx context.Context, products []pos.Product) error
	UpsertCustomers(ctx context.Context, customers []pos.Customer) error
}

// Queue: antrian pending transaction lokal.
type Queue interface {
	ListPending(ctx context.Context) ([]pos.PendingTransaction, error)
	MarkSynced(ctx context.Context, id string) error
	MarkError(ctx context.Context, id, cause string) error
	Depth(ctx context.Context) (int, error)
}

// PassReport: hasil satu pass. Kegagalan per item BUKAN kegagalan pass;
// pass selalu jalan sampai habis.
type PassReport struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Products   int       `json:"products"`
	Customers  int       `json:"customers"`
	TxSynced   int       `json:"tx_synced"`
	TxFailed   int       `json:"tx_failed"`
	// Catatan kegagalan tahap pull (bukan per item antrian).
	PullErrors []string `json:"pull_errors,omitempty"`
}

// Service: rekonsiliasi satu arah: tarik katalog, kuras antrian. Dipicu
// transisi offline→online, event catalog.updated, start aplikasi saat
// online, atau manual dari UI. Tidak pernah retry ketat di dalam pass.
type Service struct {
	Backend     BackendAPI
	Mirror      Mirror
	Queue       Queue
	Redis       *redis.Client      // dedup event; boleh nil
	Store       *redisx.Store      // laporan pass terakhir; boleh nil
	Producer    pos.EventPublisher // boleh nil
	OutletID    string
	ServiceName string
}

// RunPass menjalankan satu pass penuh. Error return hanya untuk kegagalan
// menyeluruh (tidak ada satu tahap pun yang jalan); selebihnya lihat report.
func (s *Service) RunPass(ctx context.Context) PassReport {
	report := PassReport{StartedAt: time.Now().UTC()}

	if n, err := s.syncProducts(ctx); err != nil {
		report.PullErrors = append(report.PullErrors, fmt.Sprintf("products: %v", err))
	} else {
		report.Products = n
	}
	if n, err := s.syncCustomers(ctx); err != nil {
		report.PullErrors = append(report.PullErrors, fmt.Sprintf("customers: %v", err))
	} else {
		report.Customers = n
	}

	report.TxSynced, report.TxFailed = s.SyncPendingTransactions(ctx)
	report.FinishedAt = time.Now().UTC()

	if s.Store != nil {
		if err := s.Store.SaveLastSyncReport(ctx, s.OutletID, report); err != nil {
			log.Printf("save sync report: %v", err)
		}
	}
	s.publishCompleted(report)
	return report
}

func (s *Service) syncProducts(ctx context.Context) (int, error) {
	products, err := s.Backend.ListProducts(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.Mirror.UpsertProducts(ctx, products); err != nil {
		return 0, err
	}
	return len(products), nil
}

func (s *Service) syncCustomers(ctx context.Context) (int, error) {
	customers, err := s.Backend.ListCustomers(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.Mirror.UpsertCustomers(ctx, customers); err != nil {
		return 0, err
	}
	return len(customers), nil
}

// SyncPendingTransactions menguras antrian FIFO. Satu item gagal tidak
// menghentikan pass: ditandai error, lanjut item berikutnya, coba lagi di
// pass berikut. Partial-batch success memang kondisi yang diharapkan.
func (s *Service) SyncPendingTransactions(ctx context.Context) (synced, failed int) {
	pending, err := s.Queue.ListPending(ctx)
	if err != nil {
		log.Printf("list pending transactions: %v", err)
		return 0, 0
	}

	for _, tx := range pending {
		if !s.alreadySubmitted(ctx, tx.ID) {
			if err := s.Backend.SubmitTransaction(ctx, tx.Sale); err != nil {
				failed++
				log.Printf("sync transaction id=%s attempt=%d: %v", tx.ID, tx.Attempts+1, err)
				if merr := s.Queue.MarkError(ctx, tx.ID, err.Error()); merr != nil {
					log.Printf("mark error id=%s: %v", tx.ID, merr)
				}
				continue
			}
			s.rememberSubmitted(ctx, tx.ID)
		}
		if err := s.Queue.MarkSynced(ctx, tx.ID); err != nil {
			// submit sukses tapi dequeue gagal; pass depan melewati submit
			// berkat kunci idempotency dan cukup mengulang dequeue
			log.Printf("mark synced id=%s: %v", tx.ID, err)
			continue
		}
		synced++
	}
	return synced, failed
}

// Kunci idempotency submit menjaga item yang sudah diterima backend tidak
// terkirim dua kali bila dequeue-nya sempat gagal.
func (s *Service) alreadySubmitted(ctx context.Context, saleID string) bool {
	if s.Redis == nil {
		return false
	}
	exists, err := redisx.Exists(ctx, s.Redis, fmt.Sprintf(redisx.KeyIdemTxSubmit, saleID))
	return err == nil && exists
}

func (s *Service) rememberSubmitted(ctx context.Context, saleID string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Set(ctx, fmt.Sprintf(redisx.KeyIdemTxSubmit, saleID), "1", redisx.TTLIdempotency).Err(); err != nil {
		log.Printf("set idempotency key sale=%s: %v", saleID, err)
	}
}

// HandleCatalogUpdated: handler consumer kafka untuk event catalog.updated
// dari backend. Dedup via redis atas event_id.
func (s *Service) HandleCatalogUpdated(ctx context.Context, m kafkago.Message) error {
	var env pos.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != pos.EventCatalogUpdated {
		return nil // ignore
	}

	if s.Redis != nil {
		dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
		exists, _ := redisx.Exists(ctx, s.Redis, dkey)
		if exists {
			return nil
		}
		_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
	}

	payload, err := kafkax.UnwrapPayload[pos.CatalogUpdatedPayload](env.Payload)
	if err != nil {
		return err
	}

	switch payload.Scope {
	case "products":
		_, err = s.syncProducts(ctx)
	case "customers":
		_, err = s.syncCustomers(ctx)
	default:
		s.RunPass(ctx)
	}
	return err
}

func (s *Service) publishCompleted(report PassReport) {
	if s.Producer == nil {
		return
	}
	env := pos.Envelope{
		EventID:      uuid.NewString(),
		EventType:    pos.EventSyncCompleted,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     s.ServiceName,
	}
	env.Payload = kafkax.MustMarshal(pos.SyncCompletedPayload{
		OutletID:  s.OutletID,
		Products:  report.Products,
		Customers: report.Customers,
		TxSynced:  report.TxSynced,
		TxFailed:  report.TxFailed,
	})
	s.Producer.Publish([]byte(s.OutletID), kafkax.MustMarshal(env),
		kafkago.Header{Key: "x-event-type", Value: []byte(pos.EventSyncCompleted)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
