package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestListHeldOrdersNormalizesItemShapes(t *testing.T) {
	// backend historis: items kadang array terstruktur, kadang string JSON
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/held-orders" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"o1","outlet_id":"outlet-1","status":"held","total_amount":18000,
			 "items":[{"id":"p1","product_id":"p1","name":"Nasi Goreng","unit_price":18000,"quantity":1,"max_quantity":5}]},
			{"id":"o2","outlet_id":"outlet-1","status":"held","total_amount":16000,
			 "items":"[{\"id\":\"p2\",\"product_id\":\"p2\",\"name\":\"Es Teh\",\"unit_price\":8000,\"quantity\":2,\"max_quantity\":9}]"}
		]`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	orders, err := c.ListHeldOrders(context.Background(), "outlet-1")
	if err != nil {
		t.Fatalf("list held orders: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	if len(orders[0].Items) != 1 || orders[0].Items[0].Name != "Nasi Goreng" {
		t.Fatalf("structured items decoded wrong: %+v", orders[0].Items)
	}
	if len(orders[1].Items) != 1 || orders[1].Items[0].Quantity != 2 {
		t.Fatalf("string-encoded items decoded wrong: %+v", orders[1].Items)
	}
}

func TestListHeldOrdersRejectsMalformedItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"o1","items":12345}]`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	if _, err := c.ListHeldOrders(context.Background(), "outlet-1"); err == nil {
		t.Fatalf("expected error for malformed items payload")
	}
}

func TestActiveShiftAbsence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	sh, err := c.ActiveShift(context.Background(), "outlet-1")
	if err != nil {
		t.Fatalf("active shift: %v", err)
	}
	if sh != nil {
		t.Fatalf("expected nil shift, got %+v", sh)
	}
}

func TestVerifyPINUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.VerifyPIN(context.Background(), "emp-1", "0000")
	if !errors.Is(err, ErrInvalidPIN) {
		t.Fatalf("expected ErrInvalidPIN, got %v", err)
	}
}

func TestVerifyPINSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"emp-1","name":"Siti","role":"cashier"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	emp, err := c.VerifyPIN(context.Background(), "emp-1", "1234")
	if err != nil {
		t.Fatalf("verify pin: %v", err)
	}
	if emp.Name != "Siti" || emp.Role != "cashier" {
		t.Fatalf("unexpected employee: %+v", emp)
	}
}

func TestBackendErrorSurfacedVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`invalid transaction payload: missing shift_id`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.do(context.Background(), http.MethodPost, "/transactions", map[string]string{}, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	want := "invalid transaction payload: missing shift_id"
	if got := err.Error(); !strings.Contains(got, want) {
		t.Fatalf("expected error to carry backend message %q, got %q", want, got)
	}
}
