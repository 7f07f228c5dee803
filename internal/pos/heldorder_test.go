package pos

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeHeldAPI struct {
	orders    []HeldOrder
	completed []string
	deleted   []string
	createErr error
	listErr   error
}

func (f *fakeHeldAPI) CreateHeldOrder(ctx context.Context, o HeldOrder) (HeldOrder, error) {
	if f.createErr != nil {
		return HeldOrder{}, f.createErr
	}
	o.CreatedAt = time.Now().UTC()
	f.orders = append(f.orders, o)
	return o, nil
}

func (f *fakeHeldAPI) ListHeldOrders(ctx context.Context, outletID string) ([]HeldOrder, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]HeldOrder, len(f.orders))
	copy(out, f.orders)
	return out, nil
}

func (f *fakeHeldAPI) DeleteHeldOrder(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	for i, o := range f.orders {
		if o.ID == id {
			f.orders = append(f.orders[:i], f.orders[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeHeldAPI) CompleteHeldOrder(ctx context.Context, id string) error {
	f.completed = append(f.completed, id)
	for i, o := range f.orders {
		if o.ID == id {
			f.orders = append(f.orders[:i], f.orders[i+1:]...)
			break
		}
	}
	return nil
}

func heldFixture(t *testing.T) (*HeldOrders, *Session, *fakeHeldAPI) {
	t.Helper()
	session := NewSession("outlet-1")
	session.AddItem(Product{ID: "p1", Name: "Nasi Goreng", Price: 18000, Stock: 10}, nil)
	session.AddItem(Product{ID: "p2", Name: "Es Teh", Price: 8000, Stock: 5}, nil)
	session.SetCustomer(&Customer{ID: "c1", Name: "Budi", Phone: "0812"})

	api := &fakeHeldAPI{}
	return &HeldOrders{Backend: api, Session: session}, session, api
}

func TestHoldClearsCartAndSubmits(t *testing.T) {
	h, session, api := heldFixture(t)

	order, err := h.Hold(context.Background(), "meja 4")
	if err != nil {
		t.Fatalf("hold: %v", err)
	}
	if !session.CartIsEmpty() {
		t.Fatalf("expected cart cleared after hold")
	}
	if len(api.orders) != 1 {
		t.Fatalf("expected 1 remote order, got %d", len(api.orders))
	}
	if order.TotalAmount != 26000 {
		t.Fatalf("expected snapshot total 26000, got %d", order.TotalAmount)
	}
	if order.CustomerName != "Budi" {
		t.Fatalf("expected customer snapshot, got %q", order.CustomerName)
	}
	if order.Status != HeldStatusHeld {
		t.Fatalf("expected status held, got %s", order.Status)
	}
}

func TestHoldEmptyCartRejected(t *testing.T) {
	h, session, _ := heldFixture(t)
	session.ClearCart()

	_, err := h.Hold(context.Background(), "")
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestHoldFailureLeavesCartUntouched(t *testing.T) {
	h, session, api := heldFixture(t)
	api.createErr = errors.New("backend down")

	before := session.CartItems()
	_, err := h.Hold(context.Background(), "")
	if err == nil {
		t.Fatalf("expected error from failed hold")
	}
	after := session.CartItems()
	if len(before) != len(after) {
		t.Fatalf("expected cart untouched, had %d lines, now %d", len(before), len(after))
	}
}

func TestFetchIsIdempotentWithoutMutation(t *testing.T) {
	h, _, api := heldFixture(t)
	api.orders = []HeldOrder{
		{ID: "o1", Items: []CartItem{{ID: "p1", UnitPrice: 1000, Quantity: 1, MaxQuantity: 5}}},
		{ID: "o2", Items: []CartItem{{ID: "p2", UnitPrice: 2000, Quantity: 2, MaxQuantity: 5}}},
	}

	if err := h.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	first := h.List()
	if err := h.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	second := h.List()

	if len(first) != len(second) {
		t.Fatalf("expected identical sets, got %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("order %d differs: %s vs %s", i, first[i].ID, second[i].ID)
		}
	}
}

func TestHoldThenResumeRoundTrip(t *testing.T) {
	h, session, _ := heldFixture(t)
	wantItems := session.CartItems()

	order, err := h.Hold(context.Background(), "")
	if err != nil {
		t.Fatalf("hold: %v", err)
	}

	resumed, err := h.Resume(context.Background(), order.ID, false)
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if resumed.ID != order.ID {
		t.Fatalf("expected resumed order %s, got %s", order.ID, resumed.ID)
	}

	gotItems := session.CartItems()
	if len(gotItems) != len(wantItems) {
		t.Fatalf("expected %d lines, got %d", len(wantItems), len(gotItems))
	}
	for i := range wantItems {
		if gotItems[i] != wantItems[i] {
			t.Fatalf("line %d differs: %+v vs %+v", i, gotItems[i], wantItems[i])
		}
	}
	cust := session.Checkout().Customer
	if cust == nil || cust.ID != "c1" {
		t.Fatalf("expected customer restored, got %+v", cust)
	}
	if session.ResumedOrderID() != order.ID {
		t.Fatalf("expected resumed link %s, got %s", order.ID, session.ResumedOrderID())
	}

	// optimistis: hilang dari list lokal, tapi belum completed di remote
	for _, o := range h.List() {
		if o.ID == order.ID {
			t.Fatalf("expected order removed from local list")
		}
	}
}

func TestResumeNonEmptyCartNeedsForce(t *testing.T) {
	h, session, _ := heldFixture(t)

	order, err := h.Hold(context.Background(), "")
	if err != nil {
		t.Fatalf("hold: %v", err)
	}

	session.AddItem(Product{ID: "p3", Name: "Kopi", Price: 12000, Stock: 3}, nil)

	if _, err := h.Resume(context.Background(), order.ID, false); !errors.Is(err, ErrCartNotEmpty) {
		t.Fatalf("expected ErrCartNotEmpty, got %v", err)
	}
	if _, err := h.Resume(context.Background(), order.ID, true); err != nil {
		t.Fatalf("forced resume: %v", err)
	}
}

func TestResumeUnknownOrder(t *testing.T) {
	h, _, _ := heldFixture(t)
	if _, err := h.Resume(context.Background(), "nope", false); !errors.Is(err, ErrHeldOrderNotFound) {
		t.Fatalf("expected ErrHeldOrderNotFound, got %v", err)
	}
}

func TestDeleteRemovesRemoteThenLocal(t *testing.T) {
	h, session, api := heldFixture(t)
	order, err := h.Hold(context.Background(), "")
	if err != nil {
		t.Fatalf("hold: %v", err)
	}
	if !session.CartIsEmpty() {
		t.Fatalf("expected cart cleared after hold")
	}

	if err := h.Delete(context.Background(), order.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(api.deleted) != 1 || api.deleted[0] != order.ID {
		t.Fatalf("expected remote delete of %s, got %v", order.ID, api.deleted)
	}
	if len(h.List()) != 0 {
		t.Fatalf("expected empty local list")
	}
}

func TestDeleteTerminalOrderRejected(t *testing.T) {
	h, _, api := heldFixture(t)
	h.list = []HeldOrder{{ID: "o1", Status: HeldStatusCompleted}}

	if err := h.Delete(context.Background(), "o1"); !errors.Is(err, ErrHeldOrderClosed) {
		t.Fatalf("expected ErrHeldOrderClosed, got %v", err)
	}
	if len(api.deleted) != 0 {
		t.Fatalf("expected no remote delete for terminal order, got %v", api.deleted)
	}
}

func TestMarkCompletedTerminalOrderRejected(t *testing.T) {
	h, _, api := heldFixture(t)
	h.list = []HeldOrder{{ID: "o1", Status: HeldStatusDeleted}}

	if err := h.MarkCompleted(context.Background(), "o1"); !errors.Is(err, ErrHeldOrderClosed) {
		t.Fatalf("expected ErrHeldOrderClosed, got %v", err)
	}
	if len(api.completed) != 0 {
		t.Fatalf("expected no remote complete for terminal order, got %v", api.completed)
	}
}

func TestHeldStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to HeldStatus
		want     bool
	}{
		{HeldStatusHeld, HeldStatusCompleted, true},
		{HeldStatusHeld, HeldStatusDeleted, true},
		{HeldStatusCompleted, HeldStatusHeld, false},
		{HeldStatusDeleted, HeldStatusCompleted, false},
	}
	for _, tt := range tests {
		if got := CanTransitionHeld(tt.from, tt.to); got != tt.want {
			t.Fatalf("transition %s->%s: expected %v, got %v", tt.from, tt.to, tt.want, got)
		}
	}
}
