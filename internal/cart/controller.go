package cart

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/makuzaza/rss-ecomm-task/internal/domain"
	"github.com/makuzaza/rss-ecomm-task/internal/platform"
)

// Item is the denormalized line item view the UI renders. Prices are
// minor units in the cart's currency.
type Item struct {
	ID              string `json:"id"`
	ProductID       string `json:"productId"`
	Name            string `json:"name"`
	PriceCents      int64  `json:"price"`
	DiscountedCents int64  `json:"discountedPrice,omitempty"`
	Quantity        int    `json:"quantity"`
	Image           string `json:"image,omitempty"`
	VariantKey      string `json:"variantKey,omitempty"`
}

// Controller owns the cart the UI sees. It caches the last cart the
// platform returned and serializes mutations so two handlers cannot
// race each other's versions. Reset swaps the backing service when the
// session changes identity.
type Controller struct {
	mu   sync.Mutex
	svc  Service
	cart *domain.Cart
}

func NewController(svc Service) *Controller {
	return &Controller{svc: svc}
}

// Reset swaps the backing service and drops the cached cart. The next
// read goes to the platform under the new identity.
func (c *Controller) Reset(svc Service) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.svc = svc
	c.cart = nil
}

func (c *Controller) Cart() *domain.Cart {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cart
}

func (c *Controller) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cart == nil {
		return 0
	}
	return c.cart.TotalQuantity()
}

func (c *Controller) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cart == nil {
		return nil
	}
	items := make([]Item, 0, len(c.cart.LineItems))
	for _, li := range c.cart.LineItems {
		item := Item{
			ID:              li.ID,
			ProductID:       li.ProductID,
			Name:            li.Name,
			PriceCents:      li.UnitPriceCents,
			DiscountedCents: li.DiscountedUnitCents,
			Quantity:        li.Quantity,
			VariantKey:      li.VariantKey,
		}
		if len(li.Images) > 0 {
			item.Image = li.Images[0]
		}
		items = append(items, item)
	}
	return items
}

// Reload refetches the active cart. A missing cart is not an error; the
// cache just goes empty.
func (c *Controller) Reload(ctx context.Context) (*domain.Cart, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cart, err := c.svc.Active(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		c.cart = nil
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.cart = cart
	return cart, nil
}

func (c *Controller) AddLineItem(ctx context.Context, productID string, variantID, quantity int) (*domain.Cart, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cart, err := c.ensureCart(ctx)
	if err != nil {
		return nil, err
	}
	return c.apply(ctx, cart, platform.AddLineItem(productID, variantID, quantity))
}

// RemoveLineItem drops a line item. The cart is refetched first so the
// update runs against the platform's current version, not a stale
// cached one.
func (c *Controller) RemoveLineItem(ctx context.Context, lineItemID string) (*domain.Cart, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cart, err := c.svc.Active(ctx)
	if err != nil {
		return nil, err
	}
	c.cart = cart
	return c.apply(ctx, cart, platform.RemoveLineItem(lineItemID))
}

// ChangeQuantity sets a line item's quantity. A quantity below one
// removes the item instead.
func (c *Controller) ChangeQuantity(ctx context.Context, lineItemID string, quantity int) (*domain.Cart, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cart, err := c.currentCart(ctx)
	if err != nil {
		return nil, err
	}
	if quantity < 1 {
		return c.apply(ctx, cart, platform.RemoveLineItem(lineItemID))
	}
	return c.apply(ctx, cart, platform.ChangeLineItemQuantity(lineItemID, quantity))
}

// ApplyDiscountCode attaches a promo code. Codes are case-insensitive
// on entry and normalized to upper case before submission.
func (c *Controller) ApplyDiscountCode(ctx context.Context, code string) (*domain.Cart, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cart, err := c.ensureCart(ctx)
	if err != nil {
		return nil, err
	}
	normalized := strings.ToUpper(strings.TrimSpace(code))
	return c.apply(ctx, cart, platform.AddDiscountCode(normalized))
}

func (c *Controller) RemoveDiscountCode(ctx context.Context, discountCodeID string) (*domain.Cart, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cart, err := c.currentCart(ctx)
	if err != nil {
		return nil, err
	}
	return c.apply(ctx, cart, platform.RemoveDiscountCode(discountCodeID))
}

func (c *Controller) RemoveAllDiscountCodes(ctx context.Context) (*domain.Cart, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cart, err := c.currentCart(ctx)
	if err != nil {
		return nil, err
	}
	cart, err = StripDiscountCodes(ctx, c.svc, cart)
	if cart != nil {
		c.cart = cart
	}
	return cart, err
}

// Clear empties the cart: discount codes first, then every line item in
// a single batched update.
func (c *Controller) Clear(ctx context.Context) (*domain.Cart, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cart, err := c.currentCart(ctx)
	if err != nil {
		return nil, err
	}
	cart, err = StripDiscountCodes(ctx, c.svc, cart)
	if err != nil {
		c.cart = cart
		return cart, err
	}
	if len(cart.LineItems) == 0 {
		c.cart = cart
		return cart, nil
	}
	update := platform.CartUpdate{Version: cart.Version}
	for _, li := range cart.LineItems {
		update.Actions = append(update.Actions, platform.RemoveLineItem(li.ID))
	}
	cart, err = c.svc.Update(ctx, cart.ID, update)
	if err != nil {
		return nil, err
	}
	c.cart = cart
	return cart, nil
}

// currentCart returns the cached cart, fetching it when the cache is
// cold. Callers must hold c.mu.
func (c *Controller) currentCart(ctx context.Context) (*domain.Cart, error) {
	if c.cart != nil {
		return c.cart, nil
	}
	cart, err := c.svc.Active(ctx)
	if err != nil {
		return nil, err
	}
	c.cart = cart
	return cart, nil
}

// ensureCart is currentCart plus creation when no cart exists yet.
// Callers must hold c.mu.
func (c *Controller) ensureCart(ctx context.Context) (*domain.Cart, error) {
	cart, err := c.currentCart(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		cart, err = c.svc.Create(ctx)
	}
	if err != nil {
		return nil, err
	}
	c.cart = cart
	return cart, nil
}

// apply submits one action against the cart's last known version and
// caches the result. Callers must hold c.mu.
func (c *Controller) apply(ctx context.Context, cart *domain.Cart, action platform.CartAction) (*domain.Cart, error) {
	update := platform.CartUpdate{
		Version: cart.Version,
		Actions: []platform.CartAction{action},
	}
	next, err := c.svc.Update(ctx, cart.ID, update)
	if err != nil {
		return nil, err
	}
	c.cart = next
	return next, nil
}
