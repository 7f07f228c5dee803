package pos

import "time"

// Semua nominal uang dalam satuan rupiah bulat (int64), tanpa pecahan.

type Product struct {
	ID        string    `json:"id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	Stock     int       `json:"stock"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Variant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Stock int    `json:"stock"`
}

type Customer struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Phone  string `json:"phone,omitempty"`
	Points int    `json:"points"`
}

type Employee struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// MemberTier: diskon member berdasarkan poin (referensi dari backend).
type MemberTier struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	MinPoints       int     `json:"min_points"`
	DiscountPercent float64 `json:"discount_percent"`
}

// TaxPolicy: konfigurasi pajak outlet. Inclusive berarti pajak sudah
// tertanam di harga jual.
type TaxPolicy struct {
	Enabled     bool    `json:"enabled"`
	RatePercent float64 `json:"rate_percent"`
	Inclusive   bool    `json:"inclusive"`
}

type CartItem struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	VariantID   string `json:"variant_id,omitempty"`
	Name        string `json:"name"`
	VariantName string `json:"variant_name,omitempty"`
	UnitPrice   int64  `json:"unit_price"`
	Quantity    int    `json:"quantity"`
	// MaxQuantity = snapshot stok saat item masuk cart; batas atas qty.
	MaxQuantity int `json:"max_quantity"`
}

type HeldOrder struct {
	ID            string     `json:"id"`
	OutletID      string     `json:"outlet_id"`
	Items         []CartItem `json:"items"`
	CustomerID    string     `json:"customer_id,omitempty"`
	CustomerName  string     `json:"customer_name,omitempty"`
	CustomerPhone string     `json:"customer_phone,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	TotalAmount   int64      `json:"total_amount"`
	Status        HeldStatus `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
}

type Shift struct {
	ID           string     `json:"id"`
	OutletID     string     `json:"outlet_id"`
	EmployeeID   string     `json:"employee_id"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	StartingCash int64      `json:"starting_cash"`
	EndingCash   *int64     `json:"ending_cash,omitempty"`
	ExpectedCash int64      `json:"expected_cash"`
	Difference   int64      `json:"difference"`
	Status       ShiftState `json:"status"`
	Notes        string     `json:"notes,omitempty"`
}

// ShiftReport: hasil rekonsiliasi kas saat shift ditutup. Selisih bukan
// penghalang penutupan, hanya dicatat.
type ShiftReport struct {
	Shift        Shift `json:"shift"`
	ExpectedCash int64 `json:"expected_cash"`
	EndingCash   int64 `json:"ending_cash"`
	Difference   int64 `json:"difference"`
}

type PaymentType string

const (
	PaymentCash     PaymentType = "cash"
	PaymentQRIS     PaymentType = "qris"
	PaymentTransfer PaymentType = "transfer"
	PaymentOther    PaymentType = "other"
)

type Payment struct {
	MethodID string      `json:"method_id"`
	Type     PaymentType `json:"type"`
	Amount   int64       `json:"amount"`
	// Rekening tujuan untuk transfer manual (konfirmasi oleh kasir).
	BankAccount string `json:"bank_account,omitempty"`
	Reference   string `json:"reference,omitempty"`
}

// Sale: payload transaksi final yang dikirim ke backend (atau diantrikan).
type Sale struct {
	ID             string     `json:"id"`
	OutletID       string     `json:"outlet_id"`
	ShiftID        string     `json:"shift_id"`
	EmployeeID     string     `json:"employee_id"`
	CustomerID     string     `json:"customer_id,omitempty"`
	Items          []CartItem `json:"items"`
	Subtotal       int64      `json:"subtotal"`
	Tax            int64      `json:"tax"`
	Discount       int64      `json:"discount"`
	Total          int64      `json:"total"`
	Payments       []Payment  `json:"payments"`
	ResumedOrderID string     `json:"resumed_order_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type PendingTransaction struct {
	ID         string     `json:"id"`
	Sale       Sale       `json:"sale"`
	SyncStatus SyncStatus `json:"sync_status"`
	LastError  string     `json:"last_error,omitempty"`
	Attempts   int        `json:"attempts"`
	EnqueuedAt time.Time  `json:"enqueued_at"`
}
