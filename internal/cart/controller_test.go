package cart

import (
	"context"
	"testing"

	"github.com/makuzaza/rss-ecomm-task/internal/domain"
	"github.com/makuzaza/rss-ecomm-task/internal/platform"
)

func TestAddLineItemCreatesCartOnFirstUse(t *testing.T) {
	svc := &stubService{
		activeErr: domain.ErrNotFound,
		created:   &domain.Cart{ID: "cart-1", Version: 1},
		updateFn: func(cartID string, update platform.CartUpdate) (*domain.Cart, error) {
			return &domain.Cart{
				ID:      cartID,
				Version: update.Version + 1,
				LineItems: []domain.LineItem{
					{ID: "li-1", ProductID: update.Actions[0].ProductID, Quantity: update.Actions[0].Quantity},
				},
			}, nil
		},
	}
	ctrl := NewController(svc)

	cart, err := ctrl.AddLineItem(context.Background(), "p-1", 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart.Version != 2 {
		t.Fatalf("unexpected version: %d", cart.Version)
	}
	if len(svc.updates) != 1 || svc.updates[0].Actions[0].Action != "addLineItem" {
		t.Fatalf("unexpected updates: %+v", svc.updates)
	}
	if ctrl.ItemCount() != 2 {
		t.Fatalf("unexpected item count: %d", ctrl.ItemCount())
	}
}

func TestRemoveLineItemRefetchesBeforeUpdate(t *testing.T) {
	svc := &stubService{
		active: &domain.Cart{ID: "cart-1", Version: 7},
		updateFn: func(cartID string, update platform.CartUpdate) (*domain.Cart, error) {
			return &domain.Cart{ID: cartID, Version: update.Version + 1}, nil
		},
	}
	ctrl := NewController(svc)
	// Stale cache from an earlier fetch.
	ctrl.cart = &domain.Cart{ID: "cart-1", Version: 3}

	if _, err := ctrl.RemoveLineItem(context.Background(), "li-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.updates[0].Version != 7 {
		t.Fatalf("update must run against the refetched version, got %d", svc.updates[0].Version)
	}
	if svc.updates[0].Actions[0].LineItemID != "li-1" {
		t.Fatalf("unexpected action: %+v", svc.updates[0].Actions[0])
	}
}

func TestChangeQuantityBelowOneRemoves(t *testing.T) {
	svc := &stubService{
		active: &domain.Cart{ID: "cart-1", Version: 2},
		updateFn: func(cartID string, update platform.CartUpdate) (*domain.Cart, error) {
			return &domain.Cart{ID: cartID, Version: update.Version + 1}, nil
		},
	}
	ctrl := NewController(svc)

	if _, err := ctrl.ChangeQuantity(context.Background(), "li-1", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.updates[0].Actions[0].Action != "removeLineItem" {
		t.Fatalf("zero quantity must remove the item: %+v", svc.updates[0].Actions[0])
	}
}

func TestApplyDiscountCodeNormalizesCase(t *testing.T) {
	svc := &stubService{
		active: &domain.Cart{ID: "cart-1", Version: 1},
		updateFn: func(cartID string, update platform.CartUpdate) (*domain.Cart, error) {
			return &domain.Cart{ID: cartID, Version: update.Version + 1}, nil
		},
	}
	ctrl := NewController(svc)

	if _, err := ctrl.ApplyDiscountCode(context.Background(), "  summer10 "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.updates[0].Actions[0].Code != "SUMMER10" {
		t.Fatalf("code not normalized: %q", svc.updates[0].Actions[0].Code)
	}
}

func TestClearStripsCodesThenItems(t *testing.T) {
	svc := &stubService{
		active: &domain.Cart{
			ID:            "cart-1",
			Version:       1,
			LineItems:     []domain.LineItem{{ID: "li-1", Quantity: 1}, {ID: "li-2", Quantity: 2}},
			DiscountCodes: []domain.DiscountCode{{ID: "dc-1", Code: "SUMMER"}},
		},
	}
	svc.updateFn = func(cartID string, update platform.CartUpdate) (*domain.Cart, error) {
		next := &domain.Cart{ID: cartID, Version: update.Version + 1}
		if update.Actions[0].Action == "removeDiscountCode" {
			next.LineItems = svc.active.LineItems
		}
		return next, nil
	}
	ctrl := NewController(svc)

	cart, err := ctrl.Clear(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart.LineItems) != 0 || len(cart.DiscountCodes) != 0 {
		t.Fatalf("cart not cleared: %+v", cart)
	}
	if len(svc.updates) != 2 {
		t.Fatalf("expected code strip then item removal, got %d updates", len(svc.updates))
	}
	if svc.updates[0].Actions[0].Action != "removeDiscountCode" {
		t.Fatalf("codes must go first: %+v", svc.updates[0].Actions[0])
	}
	if len(svc.updates[1].Actions) != 2 || svc.updates[1].Actions[0].Action != "removeLineItem" {
		t.Fatalf("items must be removed in one batch: %+v", svc.updates[1])
	}
}

func TestResetDropsCachedCart(t *testing.T) {
	first := &stubService{active: &domain.Cart{ID: "anon-cart", Version: 1, LineItems: []domain.LineItem{{ID: "li", Quantity: 3}}}}
	ctrl := NewController(first)
	if _, err := ctrl.Reload(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctrl.ItemCount() != 3 {
		t.Fatalf("unexpected count before reset: %d", ctrl.ItemCount())
	}

	ctrl.Reset(&stubService{activeErr: domain.ErrNotFound})
	if ctrl.Cart() != nil || ctrl.ItemCount() != 0 {
		t.Fatalf("reset must drop the cached cart")
	}
	if cart, err := ctrl.Reload(context.Background()); err != nil || cart != nil {
		t.Fatalf("missing cart after reset must reload as empty: %v %v", cart, err)
	}
}

func TestItemsDenormalizeLineItems(t *testing.T) {
	svc := &stubService{active: &domain.Cart{
		ID:      "cart-1",
		Version: 1,
		LineItems: []domain.LineItem{{
			ID:                  "li-1",
			ProductID:           "p-1",
			Name:                "Kettle",
			Quantity:            2,
			UnitPriceCents:      4999,
			DiscountedUnitCents: 3999,
			VariantKey:          "red",
			Images:              []string{"https://img/kettle-front.png", "https://img/kettle-side.png"},
		}},
	}}
	ctrl := NewController(svc)
	if _, err := ctrl.Reload(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items := ctrl.Items()
	if len(items) != 1 {
		t.Fatalf("expected one item, got %d", len(items))
	}
	want := Item{
		ID:              "li-1",
		ProductID:       "p-1",
		Name:            "Kettle",
		PriceCents:      4999,
		DiscountedCents: 3999,
		Quantity:        2,
		Image:           "https://img/kettle-front.png",
		VariantKey:      "red",
	}
	if items[0] != want {
		t.Fatalf("unexpected item view: %+v", items[0])
	}
}
