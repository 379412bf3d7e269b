package domain

import "time"

// Product is the flattened catalog view the UI consumes: master variant
// pricing collapsed into plain cent amounts.
type Product struct {
	ID              string    `json:"id"`
	Key             string    `json:"key,omitempty"`
	SKU             string    `json:"sku"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	PriceCents      int64     `json:"priceCents"`
	DiscountedCents int64     `json:"discountedCents,omitempty"`
	Currency        string    `json:"currency"`
	Images          []string  `json:"images,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}
