package backend

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ariefcatur/go-pos-engine.git/internal/pos"
)

// heldOrderDTO: bentuk kawat held order. Items sengaja RawMessage karena
// backend historis menyimpannya dengan dua bentuk berbeda.
type heldOrderDTO struct {
	ID            string          `json:"id"`
	OutletID      string          `json:"outlet_id"`
	Items         json.RawMessage `json:"items"`
	CustomerID    string          `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	Notes         string          `json:"notes"`
	TotalAmount   int64           `json:"total_amount"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (d heldOrderDTO) toDomain() (pos.HeldOrder, error) {
	items, err := decodeItems(d.Items)
	if err != nil {
		return pos.HeldOrder{}, err
	}
	return pos.HeldOrder{
		ID:            d.ID,
		OutletID:      d.OutletID,
		Items:         items,
		CustomerID:    d.CustomerID,
		CustomerName:  d.CustomerName,
		CustomerPhone: d.CustomerPhone,
		Notes:         d.Notes,
		TotalAmount:   d.TotalAmount,
		Status:        pos.HeldStatus(d.Status),
		CreatedAt:     d.CreatedAt,
	}, nil
}

// decodeItems menerima dua bentuk payload: array CartItem langsung, atau
// string berisi JSON array yang ter-encode sekali lagi.
func decodeItems(raw json.RawMessage) ([]pos.CartItem, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var items []pos.CartItem
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, fmt.Errorf("items payload is neither array nor string")
	}
	if err := json.Unmarshal([]byte(encoded), &items); err != nil {
		return nil, fmt.Errorf("decode encoded items: %w", err)
	}
	return items, nil
}
