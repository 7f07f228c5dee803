package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/ariefcatur/go-pos-engine.git/internal/pos"
)

// ErrInvalidPIN: kegagalan otorisasi: terminal untuk percobaan itu,
// tidak pernah di-retry otomatis.
var ErrInvalidPIN = errors.New("invalid employee pin")

// Client: klien REST ke system of record. Timeout mengikuti context
// pemanggil; tidak ada circuit breaker; semua kegagalan muncul apa adanya
// di call site.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{BaseURL: baseURL, HTTP: http.DefaultClient}
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("backend %s %s: status %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(msg))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

// ---- katalog ----

func (c *Client) ListProducts(ctx context.Context) ([]pos.Product, error) {
	var out []pos.Product
	err := c.do(ctx, http.MethodGet, "/products", nil, &out)
	return out, err
}

func (c *Client) ListCustomers(ctx context.Context) ([]pos.Customer, error) {
	var out []pos.Customer
	err := c.do(ctx, http.MethodGet, "/customers", nil, &out)
	return out, err
}

// ---- transaksi ----

func (c *Client) SubmitTransaction(ctx context.Context, sale pos.Sale) error {
	return c.do(ctx, http.MethodPost, "/transactions", sale, nil)
}

// ---- shift ----

// ActiveShift: (nil, nil) berarti tidak ada shift terbuka, kondisi normal.
func (c *Client) ActiveShift(ctx context.Context, outletID string) (*pos.Shift, error) {
	var out []pos.Shift
	path := "/shifts?status=open&outlet_id=" + url.QueryEscape(outletID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

func (c *Client) CreateShift(ctx context.Context, outletID, employeeID string, startingCash int64) (pos.Shift, error) {
	in := map[string]any{
		"outlet_id":     outletID,
		"employee_id":   employeeID,
		"starting_cash": startingCash,
	}
	var out pos.Shift
	err := c.do(ctx, http.MethodPost, "/shifts", in, &out)
	return out, err
}

func (c *Client) CloseShift(ctx context.Context, shiftID string, endingCash int64, notes string) (pos.ShiftReport, error) {
	in := map[string]any{"ending_cash": endingCash, "notes": notes}
	var out pos.ShiftReport
	err := c.do(ctx, http.MethodPost, "/shifts/"+url.PathEscape(shiftID)+"/close", in, &out)
	return out, err
}

// ---- held orders ----

func (c *Client) CreateHeldOrder(ctx context.Context, o pos.HeldOrder) (pos.HeldOrder, error) {
	var out heldOrderDTO
	if err := c.do(ctx, http.MethodPost, "/held-orders", o, &out); err != nil {
		return pos.HeldOrder{}, err
	}
	return out.toDomain()
}

// ListHeldOrders menormalkan payload item di perbatasan sistem: backend lama
// kadang mengirim items sebagai array terstruktur, kadang sebagai string
// JSON ter-encode. Entri yang dua-duanya gagal di-decode ditolak di sini
// (error), bukan dibiarkan lolos ke setiap pembaca list.
func (c *Client) ListHeldOrders(ctx context.Context, outletID string) ([]pos.HeldOrder, error) {
	var raw []heldOrderDTO
	path := "/held-orders?outlet_id=" + url.QueryEscape(outletID)
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	out := make([]pos.HeldOrder, 0, len(raw))
	for _, dto := range raw {
		o, err := dto.toDomain()
		if err != nil {
			return nil, fmt.Errorf("held order %s: %w", dto.ID, err)
		}
		out = append(out, o)
	}
	return out, nil
}

func (c *Client) DeleteHeldOrder(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/held-orders/"+url.PathEscape(id), nil, nil)
}

func (c *Client) CompleteHeldOrder(ctx context.Context, id string) error {
	in := map[string]string{"status": string(pos.HeldStatusCompleted)}
	return c.do(ctx, http.MethodPost, "/held-orders/"+url.PathEscape(id)+"/complete", in, nil)
}

// ---- referensi ----

func (c *Client) ListMemberTiers(ctx context.Context) ([]pos.MemberTier, error) {
	var out []pos.MemberTier
	err := c.do(ctx, http.MethodGet, "/member-tiers", nil, &out)
	return out, err
}

func (c *Client) TaxPolicy(ctx context.Context) (pos.TaxPolicy, error) {
	var out pos.TaxPolicy
	err := c.do(ctx, http.MethodGet, "/settings/tax", nil, &out)
	return out, err
}

// VerifyPIN: 401/403 dipetakan ke ErrInvalidPIN supaya pemanggil bisa
// membedakan kegagalan otorisasi dari kegagalan jaringan.
func (c *Client) VerifyPIN(ctx context.Context, employeeID, pin string) (pos.Employee, error) {
	in := map[string]string{"employee_id": employeeID, "pin": pin}

	b, err := json.Marshal(in)
	if err != nil {
		return pos.Employee{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/employees/verify-pin", bytes.NewReader(b))
	if err != nil {
		return pos.Employee{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return pos.Employee{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return pos.Employee{}, ErrInvalidPIN
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return pos.Employee{}, fmt.Errorf("verify pin: status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	var out pos.Employee
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return pos.Employee{}, err
	}
	return out, nil
}
