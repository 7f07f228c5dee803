package pos

import (
	"sync"
	"time"
)

// CartSnapshot: bentuk cart yang dipersist (redis) dan dipulihkan saat start.
type CartSnapshot struct {
	OutletID       string     `json:"outlet_id"`
	Items          []CartItem `json:"items"`
	Customer       *Customer  `json:"customer,omitempty"`
	ResumedOrderID string     `json:"resumed_order_id,omitempty"`
	SavedAt        time.Time  `json:"saved_at"`
}

// CheckoutView: potret konsisten satu kali lock untuk proses settlement.
type CheckoutView struct {
	Items          []CartItem
	Customer       *Customer
	Subtotal       int64
	Tax            int64
	Discount       int64
	Total          int64
	Due            int64
	ResumedOrderID string
	Shift          *Shift
	Employee       *Employee
}

// Session: satu handle yang memiliki seluruh state mutable terminal (cart,
// shift aktif, kasir, kebijakan pajak, tier member). Semua mutasi commit
// sinkron di bawah satu mutex; tidak ada store global terpisah.
type Session struct {
	OutletID string

	mu       sync.Mutex
	cart     Cart
	shift    *Shift
	employee *Employee
	tax      TaxPolicy
	tiers    []MemberTier

	// OnChange dipanggil setiap cart berubah (untuk persist snapshot).
	// Boleh nil. Dipanggil di dalam lock; implementasi harus cepat.
	OnChange func(CartSnapshot)
}

func NewSession(outletID string) *Session {
	return &Session{OutletID: outletID}
}

func (s *Session) notify() {
	if s.OnChange == nil {
		return
	}
	s.OnChange(CartSnapshot{
		OutletID:       s.OutletID,
		Items:          s.cart.Items(),
		Customer:       s.cart.Customer(),
		ResumedOrderID: s.cart.ResumedOrderID(),
		SavedAt:        time.Now().UTC(),
	})
}

func (s *Session) AddItem(p Product, v *Variant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.AddItem(p, v)
	s.notify()
}

func (s *Session) UpdateQuantity(id string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.cart.UpdateQuantity(id, qty); err != nil {
		return err
	}
	s.notify()
	return nil
}

func (s *Session) RemoveItem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.cart.RemoveItem(id); err != nil {
		return err
	}
	s.notify()
	return nil
}

func (s *Session) SetCustomer(c *Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.SetCustomer(c)
	s.notify()
}

func (s *Session) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
	s.notify()
}

// RestoreCart memulihkan isi cart dari snapshot (startup) atau resume order.
func (s *Session) RestoreCart(items []CartItem, cust *Customer, resumedOrderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.restore(items, cust, resumedOrderID)
	s.notify()
}

func (s *Session) CartItems() []CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Items()
}

func (s *Session) CartIsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.IsEmpty()
}

func (s *Session) ResumedOrderID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.ResumedOrderID()
}

func (s *Session) SetTaxPolicy(p TaxPolicy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tax = p
}

func (s *Session) SetMemberTiers(tiers []MemberTier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tiers = tiers
}

func (s *Session) SetActiveShift(sh *Shift) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shift = sh
}

func (s *Session) ActiveShift() *Shift {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shift
}

func (s *Session) SetEmployee(e *Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employee = e
}

func (s *Session) Employee() *Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.employee
}

func (s *Session) Subtotal() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Subtotal()
}

func (s *Session) Tax() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Tax(s.tax)
}

func (s *Session) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total(s.tax)
}

func (s *Session) MemberDiscount() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.MemberDiscount(s.tiers)
}

// AmountDue = total − diskon member. Pengecekan split payment berjalan
// melawan angka ini juga, jadi diskon tidak bisa menyimpang dari validasi
// saldo. Catatan: pada kebijakan pajak inclusive, diskon dihitung dari
// subtotal yang sudah mengandung pajak; itu perilaku harga yang disengaja
// di sini, bukan kebetulan dua jalur hitung yang berbeda.
func (s *Session) AmountDue() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.amountDueLocked()
}

func (s *Session) amountDueLocked() int64 {
	due := s.cart.Total(s.tax) - s.cart.MemberDiscount(s.tiers)
	if due < 0 {
		due = 0
	}
	return due
}

// Checkout mengambil potret seluruh state yang dibutuhkan settlement dalam
// satu kali lock, supaya mutasi UI di tengah proses tidak menggeser angka.
func (s *Session) Checkout() CheckoutView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CheckoutView{
		Items:          s.cart.Items(),
		Customer:       s.cart.Customer(),
		Subtotal:       s.cart.Subtotal(),
		Tax:            s.cart.Tax(s.tax),
		Discount:       s.cart.MemberDiscount(s.tiers),
		Total:          s.cart.Total(s.tax),
		Due:            s.amountDueLocked(),
		ResumedOrderID: s.cart.ResumedOrderID(),
		Shift:          s.shift,
		Employee:       s.employee,
	}
}
