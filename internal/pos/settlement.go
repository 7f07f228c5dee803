package pos

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/ariefcatur/go-pos-engine.git/internal/kafka"
)

// TransactionAPI: submit transaksi final ke backend.
type TransactionAPI interface {
	SubmitTransaction(ctx context.Context, sale Sale) error
}

// PendingQueue: antrian lokal durable untuk transaksi yang gagal mencapai
// backend secara sinkron. Dikuras FIFO oleh sync engine.
type PendingQueue interface {
	Enqueue(ctx context.Context, tx PendingTransaction) error
}

// EventPublisher match dengan kafka.Producer.Publish.
type EventPublisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// Settlement mengubah cart yang sudah dihargai menjadi pembayaran
// terkonfirmasi plus transaksi yang dipersist (remote, atau antrian lokal
// bila backend tidak terjangkau).
type Settlement struct {
	Session     *Session
	Held        *HeldOrders
	Backend     TransactionAPI
	Queue       PendingQueue
	Producer    EventPublisher // boleh nil
	ServiceName string
}

// Remaining: sisa yang belum teralokasi dari tagihan. UI memakai ini untuk
// auto-assign nominal ke metode pembayaran yang baru ditambahkan.
func Remaining(due int64, payments []Payment) int64 {
	rem := due
	for _, p := range payments {
		rem -= p.Amount
	}
	return rem
}

func validatePayments(due int64, payments []Payment) error {
	if len(payments) == 0 {
		return ErrInvalidPayment
	}
	for _, p := range payments {
		if p.Amount <= 0 {
			return ErrInvalidPayment
		}
	}
	if Remaining(due, payments) != 0 {
		return ErrUnbalancedSplit
	}
	return nil
}

// Settle menjalankan seluruh alur: validasi (sebelum ada panggilan jaringan
// apapun), persist, tandai held order selesai bila cart hasil resume, baru
// kosongkan cart. Cart TIDAK disentuh kalau persist gagal total, supaya aman
// di-retry.
func (s *Settlement) Settle(ctx context.Context, payments []Payment) (Sale, bool, error) {
	view := s.Session.Checkout()
	if len(view.Items) == 0 {
		return Sale{}, false, ErrEmptyCart
	}
	if view.Shift == nil || view.Shift.Status != ShiftOpen {
		return Sale{}, false, ErrNoActiveShift
	}
	if view.Employee == nil {
		return Sale{}, false, ErrNoEmployee
	}
	if err := validatePayments(view.Due, payments); err != nil {
		return Sale{}, false, err
	}

	sale := Sale{
		ID:             uuid.NewString(),
		OutletID:       s.Session.OutletID,
		ShiftID:        view.Shift.ID,
		Items:          view.Items,
		Subtotal:       view.Subtotal,
		Tax:            view.Tax,
		Discount:       view.Discount,
		Total:          view.Due,
		Payments:       payments,
		ResumedOrderID: view.ResumedOrderID,
		CreatedAt:      time.Now().UTC(),
	}
	sale.EmployeeID = view.Employee.ID
	if view.Customer != nil {
		sale.CustomerID = view.Customer.ID
	}

	queued, err := s.persist(ctx, sale)
	if err != nil {
		return Sale{}, false, err
	}

	if sale.ResumedOrderID != "" && s.Held != nil {
		// transaksi sudah tersimpan; gagal menandai completed cukup dicatat
		if err := s.Held.MarkCompleted(ctx, sale.ResumedOrderID); err != nil {
			log.Printf("mark held order completed id=%s: %v", sale.ResumedOrderID, err)
		}
	}

	s.Session.ClearCart()
	s.publishSettled(sale, queued)
	return sale, queued, nil
}

// persist mencoba backend dulu; gagal -> antrian lokal. Gagal dua-duanya
// adalah error, dan pemanggil membiarkan cart utuh.
func (s *Settlement) persist(ctx context.Context, sale Sale) (bool, error) {
	err := s.Backend.SubmitTransaction(ctx, sale)
	if err == nil {
		return false, nil
	}
	log.Printf("submit transaction sale=%s: %v (queueing)", sale.ID, err)

	tx := PendingTransaction{
		ID:         sale.ID,
		Sale:       sale,
		SyncStatus: SyncPending,
		EnqueuedAt: time.Now().UTC(),
	}
	if err := s.Queue.Enqueue(ctx, tx); err != nil {
		return false, fmt.Errorf("persist transaction: %w", err)
	}
	return true, nil
}

func (s *Settlement) publishSettled(sale Sale, queued bool) {
	if s.Producer == nil {
		return
	}
	summaries := make([]PaymentSummary, 0, len(sale.Payments))
	for _, p := range sale.Payments {
		summaries = append(summaries, PaymentSummary{MethodID: p.MethodID, Type: p.Type, Amount: p.Amount})
	}
	env := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventSaleSettled,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		CorrelationID: sale.ID,
	}
	env.Payload = kafkax.MustMarshal(SaleSettledPayload{
		SaleID:   sale.ID,
		OutletID: sale.OutletID,
		ShiftID:  sale.ShiftID,
		Total:    sale.Total,
		Payments: summaries,
		Queued:   queued,
	})
	s.Producer.Publish(PartitionKey(sale.ID), kafkax.MustMarshal(env),
		kafkago.Header{Key: "x-event-type", Value: []byte(EventSaleSettled)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
