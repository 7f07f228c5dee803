package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreateChargeQRIS(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/charges" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"order_id":"order-1","qr_string":"00020101021226...","status":"pending"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	ch, err := c.CreateCharge(context.Background(), ChargeRequest{OrderID: "order-1", Amount: 44000, Method: MethodQRIS})
	if err != nil {
		t.Fatalf("create charge: %v", err)
	}
	if ch.QRString == "" {
		t.Fatalf("expected qr string")
	}
}

func TestCreateChargeVAWithBillerCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"order_id":"order-2","va_number":"8808123456","biller_code":"70012","status":"pending"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	ch, err := c.CreateCharge(context.Background(), ChargeRequest{OrderID: "order-2", Amount: 44000, Method: MethodVA, Bank: "mandiri"})
	if err != nil {
		t.Fatalf("create charge: %v", err)
	}
	if ch.VANumber != "8808123456" || ch.BillerCode != "70012" {
		t.Fatalf("unexpected charge: %+v", ch)
	}
}

func TestCreateChargeNoUsableCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"order_id":"order-3","status":"pending"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.CreateCharge(context.Background(), ChargeRequest{OrderID: "order-3", Amount: 1000, Method: MethodQRIS})
	if !errors.Is(err, ErrNoPaymentCode) {
		t.Fatalf("expected ErrNoPaymentCode, got %v", err)
	}
}

func TestChargeStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/charges/order-1/status" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"order_id":"order-1","status":"settlement"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	status, err := c.ChargeStatus(context.Background(), "order-1")
	if err != nil {
		t.Fatalf("charge status: %v", err)
	}
	if status != "settlement" {
		t.Fatalf("expected settlement, got %q", status)
	}
}
