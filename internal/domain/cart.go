package domain

import "time"

// Cart is the local projection of a remote cart. The remote platform is
// the source of truth; Version must be echoed back on every mutation.
type Cart struct {
	ID            string         `json:"id"`
	Version       int            `json:"version"`
	CustomerID    string         `json:"customerId,omitempty"`
	AnonymousID   string         `json:"anonymousId,omitempty"`
	Currency      string         `json:"currency"`
	TotalCents    int64          `json:"totalCents"`
	State         string         `json:"state"`
	LineItems     []LineItem     `json:"lineItems,omitempty"`
	DiscountCodes []DiscountCode `json:"discountCodes,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// LineItem is one product-variant-and-quantity entry within a cart.
type LineItem struct {
	ID                  string   `json:"id"`
	ProductID           string   `json:"productId"`
	VariantID           int      `json:"variantId"`
	VariantKey          string   `json:"variantKey,omitempty"`
	Name                string   `json:"name"`
	Quantity            int      `json:"quantity"`
	UnitPriceCents      int64    `json:"unitPriceCents"`
	DiscountedUnitCents int64    `json:"discountedUnitCents,omitempty"`
	TotalCents          int64    `json:"totalCents"`
	Images              []string `json:"images,omitempty"`
}

// DiscountCode is a promo code currently attached to a cart. ID is the
// platform identifier required to remove the code again.
type DiscountCode struct {
	ID   string `json:"id"`
	Code string `json:"code,omitempty"`
}

// TotalQuantity sums the quantities of all line items.
func (c Cart) TotalQuantity() int {
	total := 0
	for _, li := range c.LineItems {
		total += li.Quantity
	}
	return total
}

// AnonymousCartRef is the locally persisted pointer to a device-scoped
// cart. It is only meaningful while the session is anonymous and is
// cleared after a successful merge into a customer cart.
type AnonymousCartRef struct {
	AnonymousID string `json:"anonymousId"`
	CartID      string `json:"cartId"`
}
