package pos

import "math"

// Cart: daftar baris belanja yang mutable. Tidak thread-safe sendiri;
// semua akses lewat Session yang memegang lock.
type Cart struct {
	items          []CartItem
	customer       *Customer
	resumedOrderID string
}

func lineID(productID, variantID string) string {
	if variantID == "" {
		return productID
	}
	return productID + ":" + variantID
}

// AddItem: baris yang sama (product+variant) di-increment selama masih di
// bawah snapshot stok; stok habis = no-op diam (tombol tambah di UI).
func (c *Cart) AddItem(p Product, v *Variant) {
	stock := p.Stock
	price := p.Price
	variantID, variantName := "", ""
	if v != nil {
		stock = v.Stock
		price = v.Price
		variantID = v.ID
		variantName = v.Name
	}
	if stock <= 0 {
		return
	}

	id := lineID(p.ID, variantID)
	for i := range c.items {
		if c.items[i].ID == id {
			if c.items[i].Quantity < c.items[i].MaxQuantity {
				c.items[i].Quantity++
			}
			return
		}
	}
	c.items = append(c.items, CartItem{
		ID:          id,
		ProductID:   p.ID,
		VariantID:   variantID,
		Name:        p.Name,
		VariantName: variantName,
		UnitPrice:   price,
		Quantity:    1,
		MaxQuantity: stock,
	})
}

// UpdateQuantity: qty <= 0 menghapus baris; qty di atas MaxQuantity ditolak
// dan baris tidak berubah (kebijakan seragam, tidak pernah di-clamp diam).
func (c *Cart) UpdateQuantity(id string, qty int) error {
	if qty <= 0 {
		return c.RemoveItem(id)
	}
	for i := range c.items {
		if c.items[i].ID == id {
			if qty > c.items[i].MaxQuantity {
				return ErrQuantityExceedsStock
			}
			c.items[i].Quantity = qty
			return nil
		}
	}
	return ErrLineNotFound
}

func (c *Cart) RemoveItem(id string) error {
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return nil
		}
	}
	return ErrLineNotFound
}

func (c *Cart) SetCustomer(cust *Customer) { c.customer = cust }

func (c *Cart) Customer() *Customer { return c.customer }

// Clear mengosongkan cart termasuk link resumedOrderID.
func (c *Cart) Clear() {
	c.items = nil
	c.customer = nil
	c.resumedOrderID = ""
}

func (c *Cart) Items() []CartItem {
	out := make([]CartItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) IsEmpty() bool { return len(c.items) == 0 }

func (c *Cart) ResumedOrderID() string { return c.resumedOrderID }

func (c *Cart) Subtotal() int64 {
	var sum int64
	for _, it := range c.items {
		sum += it.UnitPrice * int64(it.Quantity)
	}
	return sum
}

// Tax: inclusive -> pajak yang tertanam di subtotal; exclusive -> pajak di
// atas subtotal. 0 jika pajak mati atau rate <= 0.
func (c *Cart) Tax(policy TaxPolicy) int64 {
	if !policy.Enabled || policy.RatePercent <= 0 {
		return 0
	}
	s := float64(c.Subtotal())
	if policy.Inclusive {
		return int64(math.Round(s - s/(1+policy.RatePercent/100)))
	}
	return int64(math.Round(s * policy.RatePercent / 100))
}

// Total: inclusive -> subtotal apa adanya (pajak sudah di dalam);
// exclusive -> subtotal + pajak.
func (c *Cart) Total(policy TaxPolicy) int64 {
	if policy.Enabled && policy.RatePercent > 0 && !policy.Inclusive {
		return c.Subtotal() + c.Tax(policy)
	}
	return c.Subtotal()
}

// MemberDiscount: diskon tier member dari subtotal. Tier dipilih dari
// min_points tertinggi yang masih terpenuhi oleh poin customer.
func (c *Cart) MemberDiscount(tiers []MemberTier) int64 {
	if c.customer == nil || len(tiers) == 0 {
		return 0
	}
	var best *MemberTier
	for i := range tiers {
		t := &tiers[i]
		if c.customer.Points >= t.MinPoints && (best == nil || t.MinPoints > best.MinPoints) {
			best = t
		}
	}
	if best == nil || best.DiscountPercent <= 0 {
		return 0
	}
	return int64(math.Round(float64(c.Subtotal()) * best.DiscountPercent / 100))
}

// restore dipakai resume held order dan pemulihan snapshot saat startup.
func (c *Cart) restore(items []CartItem, cust *Customer, resumedOrderID string) {
	c.items = make([]CartItem, len(items))
	copy(c.items, items)
	c.customer = cust
	c.resumedOrderID = resumedOrderID
}
