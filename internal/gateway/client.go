package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrNoPaymentCode: gateway menjawab sukses tapi tanpa kode yang bisa
// ditampilkan (bukan QR string, bukan nomor VA). Error integritas; muncul
// apa adanya, tidak ada remediasi otomatis.
var ErrNoPaymentCode = errors.New("gateway returned no usable payment code")

type Method string

const (
	MethodQRIS Method = "qris"
	MethodVA   Method = "va"
)

type ChargeRequest struct {
	OrderID string `json:"order_id"`
	Amount  int64  `json:"amount"`
	Method  Method `json:"method"`
	// Bank tujuan VA; kosong untuk QRIS.
	Bank string `json:"bank,omitempty"`
}

// Charge: hasil pembuatan tagihan. Minimal salah satu dari QRString atau
// VANumber terisi; BillerCode opsional untuk skema VA dua kolom.
type Charge struct {
	OrderID    string    `json:"order_id"`
	QRString   string    `json:"qr_string,omitempty"`
	VANumber   string    `json:"va_number,omitempty"`
	BillerCode string    `json:"biller_code,omitempty"`
	Status     string    `json:"status"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type StatusResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{BaseURL: baseURL, HTTP: http.DefaultClient}
}

// CreateCharge: gagal di sini tidak punya efek samping apapun, aman diulang.
func (c *Client) CreateCharge(ctx context.Context, req ChargeRequest) (Charge, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return Charge{}, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/charges", bytes.NewReader(b))
	if err != nil {
		return Charge{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return Charge{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Charge{}, fmt.Errorf("gateway charge: status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var ch Charge
	if err := json.NewDecoder(resp.Body).Decode(&ch); err != nil {
		return Charge{}, err
	}
	if ch.QRString == "" && ch.VANumber == "" {
		return Charge{}, ErrNoPaymentCode
	}
	return ch, nil
}

func (c *Client) ChargeStatus(ctx context.Context, orderID string) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.BaseURL+"/charges/"+url.PathEscape(orderID)+"/status", nil)
	if err != nil {
		return "", err
	}
	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("gateway status: status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	var sr StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", err
	}
	return sr.Status, nil
}
