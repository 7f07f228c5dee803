package syncx

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ariefcatur/go-pos-engine.git/internal/pos"
)

type fakeBackend struct {
	products  []pos.Product
	customers []pos.Customer
	rejectIDs map[string]bool
	submitted []string
	healthy   bool
}

func (f *fakeBackend) Health(ctx context.Context) error {
	if !f.healthy {
		return errors.New("unreachable")
	}
	return nil
}

func (f *fakeBackend) ListProducts(ctx context.Context) ([]pos.Product, error) {
	return f.products, nil
}

func (f *fakeBackend) ListCustomers(ctx context.Context) ([]pos.Customer, error) {
	return f.customers, nil
}

func (f *fakeBackend) SubmitTransaction(ctx context.Context, sale pos.Sale) error {
	if f.rejectIDs[sale.ID] {
		return fmt.Errorf("backend rejected payload for %s", sale.ID)
	}
	f.submitted = append(f.submitted, sale.ID)
	return nil
}

type fakeMirror struct {
	products  map[string]pos.Product
	customers map[string]pos.Customer
}

func (f *fakeMirror) UpsertProducts(ctx context.Context, products []pos.Product) error {
	if f.products == nil {
		f.products = map[string]pos.Product{}
	}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return nil
}

func (f *fakeMirror) UpsertCustomers(ctx context.Context, customers []pos.Customer) error {
	if f.customers == nil {
		f.customers = map[string]pos.Customer{}
	}
	for _, c := range customers {
		f.customers[c.ID] = c
	}
	return nil
}

type fakeSyncQueue struct {
	items []pos.PendingTransaction
}

func (f *fakeSyncQueue) ListPending(ctx context.Context) ([]pos.PendingTransaction, error) {
	out := make([]pos.PendingTransaction, 0, len(f.items))
	for _, it := range f.items {
		if it.SyncStatus != pos.SyncSynced {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeSyncQueue) MarkSynced(ctx context.Context, id string) error {
	for i, it := range f.items {
		if it.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeSyncQueue) MarkError(ctx context.Context, id, cause string) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].SyncStatus = pos.SyncError
			f.items[i].LastError = cause
			f.items[i].Attempts++
		}
	}
	return nil
}

func (f *fakeSyncQueue) Depth(ctx context.Context) (int, error) {
	return len(f.items), nil
}

func pendingTx(id string) pos.PendingTransaction {
	return pos.PendingTransaction{
		ID:         id,
		Sale:       pos.Sale{ID: id, Total: 10000},
		SyncStatus: pos.SyncPending,
		EnqueuedAt: time.Now().UTC(),
	}
}

func TestSyncPendingTransactionsPartialFailure(t *testing.T) {
	backend := &fakeBackend{healthy: true, rejectIDs: map[string]bool{"tx-2": true}}
	queue := &fakeSyncQueue{items: []pos.PendingTransaction{
		pendingTx("tx-1"), pendingTx("tx-2"), pendingTx("tx-3"),
	}}
	svc := &Service{Backend: backend, Mirror: &fakeMirror{}, Queue: queue, OutletID: "outlet-1", ServiceName: "test"}

	synced, failed := svc.SyncPendingTransactions(context.Background())
	if synced != 2 {
		t.Fatalf("expected 2 synced, got %d", synced)
	}
	if failed != 1 {
		t.Fatalf("expected 1 failed, got %d", failed)
	}

	// item 1 & 3 terkirim FIFO, item 2 tetap di antrian dengan status error
	if len(backend.submitted) != 2 || backend.submitted[0] != "tx-1" || backend.submitted[1] != "tx-3" {
		t.Fatalf("expected FIFO submit of tx-1, tx-3; got %v", backend.submitted)
	}
	if len(queue.items) != 1 {
		t.Fatalf("expected 1 item left in queue, got %d", len(queue.items))
	}
	left := queue.items[0]
	if left.ID != "tx-2" || left.SyncStatus != pos.SyncError || left.Attempts != 1 {
		t.Fatalf("expected tx-2 left as error with 1 attempt, got %+v", left)
	}
}

func TestRunPassOverwritesMirrorByID(t *testing.T) {
	backend := &fakeBackend{
		healthy: true,
		products: []pos.Product{
			{ID: "p1", Name: "Nasi Goreng", Price: 20000, Stock: 7},
		},
		customers: []pos.Customer{
			{ID: "c1", Name: "Budi", Points: 120},
		},
	}
	mirror := &fakeMirror{
		products: map[string]pos.Product{
			"p1": {ID: "p1", Name: "Nasi Goreng", Price: 18000, Stock: 10},
		},
	}
	svc := &Service{Backend: backend, Mirror: mirror, Queue: &fakeSyncQueue{}, OutletID: "outlet-1", ServiceName: "test"}

	report := svc.RunPass(context.Background())
	if report.Products != 1 || report.Customers != 1 {
		t.Fatalf("expected 1 product and 1 customer pulled, got %+v", report)
	}
	if mirror.products["p1"].Price != 20000 {
		t.Fatalf("expected server price 20000 to overwrite local, got %d", mirror.products["p1"].Price)
	}
	if len(report.PullErrors) != 0 {
		t.Fatalf("expected no pull errors, got %v", report.PullErrors)
	}
}

func TestRunPassRetriesFailedItemOnNextPass(t *testing.T) {
	backend := &fakeBackend{healthy: true, rejectIDs: map[string]bool{"tx-1": true}}
	queue := &fakeSyncQueue{items: []pos.PendingTransaction{pendingTx("tx-1")}}
	svc := &Service{Backend: backend, Mirror: &fakeMirror{}, Queue: queue, OutletID: "outlet-1", ServiceName: "test"}

	report := svc.RunPass(context.Background())
	if report.TxFailed != 1 {
		t.Fatalf("expected 1 failed, got %d", report.TxFailed)
	}

	// backend pulih; pass berikut membereskan
	backend.rejectIDs = nil
	report = svc.RunPass(context.Background())
	if report.TxSynced != 1 {
		t.Fatalf("expected retry to sync tx-1, got %+v", report)
	}
	if n, _ := queue.Depth(context.Background()); n != 0 {
		t.Fatalf("expected empty queue, depth %d", n)
	}
}
