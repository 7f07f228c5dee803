package httpx

import (
	"context"
	"testing"
	"time"

	"github.com/ariefcatur/go-pos-engine.git/internal/gateway"
	"github.com/ariefcatur/go-pos-engine.git/internal/pos"
)

type fakeGateway struct{}

func (f *fakeGateway) CreateCharge(ctx context.Context, req gateway.ChargeRequest) (gateway.Charge, error) {
	return gateway.Charge{OrderID: req.OrderID, QRString: "00020101"}, nil
}

func (f *fakeGateway) ChargeStatus(ctx context.Context, orderID string) (string, error) {
	return pos.ChargePending, nil
}

func TestStopAllStopsOutstandingPollers(t *testing.T) {
	h := &CheckoutHandler{
		Gateway:      &fakeGateway{},
		PollInterval: 5 * time.Millisecond,
		PollDeadline: time.Minute,
	}

	h.startPoller("order-1", gateway.Charge{OrderID: "order-1"}, pos.Payment{})
	h.startPoller("order-2", gateway.Charge{OrderID: "order-2"}, pos.Payment{})

	h.mu.Lock()
	dones := make([]<-chan struct{}, 0, len(h.pending))
	for _, pc := range h.pending {
		dones = append(dones, pc.poller.Done())
	}
	h.mu.Unlock()
	if len(dones) != 2 {
		t.Fatalf("expected 2 outstanding pollers, got %d", len(dones))
	}

	h.StopAll()

	for _, done := range dones {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatalf("poller still running after StopAll")
		}
	}
	h.mu.Lock()
	n := len(h.pending)
	h.mu.Unlock()
	if n != 0 {
		t.Fatalf("expected empty pending map after StopAll, got %d", n)
	}

	// idempoten: tidak ada poller tersisa, tidak ada efek samping
	h.StopAll()
}
