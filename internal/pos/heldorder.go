package pos

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// HeldOrderAPI: operasi held order di backend (system of record).
type HeldOrderAPI interface {
	CreateHeldOrder(ctx context.Context, o HeldOrder) (HeldOrder, error)
	ListHeldOrders(ctx context.Context, outletID string) ([]HeldOrder, error)
	DeleteHeldOrder(ctx context.Context, id string) error
	CompleteHeldOrder(ctx context.Context, id string) error
}

// HeldOrders: daftar order tergantung milik satu outlet. List lokal hanyalah
// cermin; backend tetap sumber kebenaran statusnya.
type HeldOrders struct {
	Backend HeldOrderAPI
	Session *Session

	mu   sync.Mutex
	list []HeldOrder
}

// Hold membekukan cart menjadi held order di backend. Cart baru dikosongkan
// setelah submit sukses; kegagalan apapun meninggalkan cart utuh.
func (h *HeldOrders) Hold(ctx context.Context, notes string) (HeldOrder, error) {
	view := h.Session.Checkout()
	if len(view.Items) == 0 {
		return HeldOrder{}, ErrEmptyCart
	}

	order := HeldOrder{
		ID:          uuid.NewString(),
		OutletID:    h.Session.OutletID,
		Items:       view.Items,
		Notes:       notes,
		TotalAmount: view.Total,
		Status:      HeldStatusHeld,
		CreatedAt:   time.Now().UTC(),
	}
	if view.Customer != nil {
		order.CustomerID = view.Customer.ID
		order.CustomerName = view.Customer.Name
		order.CustomerPhone = view.Customer.Phone
	}

	created, err := h.Backend.CreateHeldOrder(ctx, order)
	if err != nil {
		return HeldOrder{}, fmt.Errorf("hold order: %w", err)
	}

	h.Session.ClearCart()
	if err := h.Fetch(ctx); err != nil {
		// submit sudah sukses; gagal refresh cukup ditoleransi
		h.mu.Lock()
		h.list = append(h.list, created)
		h.mu.Unlock()
	}
	return created, nil
}

// Fetch mengganti seluruh list lokal dengan hasil backend.
func (h *HeldOrders) Fetch(ctx context.Context) error {
	orders, err := h.Backend.ListHeldOrders(ctx, h.Session.OutletID)
	if err != nil {
		return fmt.Errorf("fetch held orders: %w", err)
	}
	h.mu.Lock()
	h.list = orders
	h.mu.Unlock()
	return nil
}

func (h *HeldOrders) List() []HeldOrder {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]HeldOrder, len(h.list))
	copy(out, h.list)
	return out
}

func (h *HeldOrders) get(id string) (HeldOrder, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, o := range h.list {
		if o.ID == id {
			return o, true
		}
	}
	return HeldOrder{}, false
}

func (h *HeldOrders) removeLocal(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, o := range h.list {
		if o.ID == id {
			h.list = append(h.list[:i], h.list[i+1:]...)
			return
		}
	}
}

// Resume menghidupkan kembali cart dari snapshot. Cart yang masih berisi
// butuh konfirmasi eksplisit (force); tidak ada merge otomatis. Order hanya
// dihapus dari list LOKAL; belum completed di backend, supaya
// resume-lalu-batal tidak menghilangkan order.
func (h *HeldOrders) Resume(ctx context.Context, id string, force bool) (HeldOrder, error) {
	order, ok := h.get(id)
	if !ok {
		return HeldOrder{}, ErrHeldOrderNotFound
	}
	if !h.Session.CartIsEmpty() && !force {
		return HeldOrder{}, ErrCartNotEmpty
	}

	var cust *Customer
	if order.CustomerID != "" {
		cust = &Customer{ID: order.CustomerID, Name: order.CustomerName, Phone: order.CustomerPhone}
	}
	h.Session.RestoreCart(order.Items, cust, order.ID)
	h.removeLocal(id)
	return order, nil
}

// Delete: hapus remote dulu, lokal menyusul kalau sukses. Order yang sudah
// terminal (completed/deleted) ditolak di sini, tidak dikirim ke backend.
func (h *HeldOrders) Delete(ctx context.Context, id string) error {
	if o, ok := h.get(id); ok && !CanTransitionHeld(o.Status, HeldStatusDeleted) {
		return ErrHeldOrderClosed
	}
	if err := h.Backend.DeleteHeldOrder(ctx, id); err != nil {
		return fmt.Errorf("delete held order: %w", err)
	}
	h.removeLocal(id)
	return nil
}

// MarkCompleted dipanggil hanya setelah checkout cart hasil resume sukses.
// Order hasil resume sudah hilang dari list lokal; guard transisi hanya
// berlaku kalau order masih terlihat di sini.
func (h *HeldOrders) MarkCompleted(ctx context.Context, id string) error {
	if o, ok := h.get(id); ok && !CanTransitionHeld(o.Status, HeldStatusCompleted) {
		return ErrHeldOrderClosed
	}
	if err := h.Backend.CompleteHeldOrder(ctx, id); err != nil {
		return fmt.Errorf("complete held order: %w", err)
	}
	h.removeLocal(id)
	return nil
}
