package cart

import (
	"context"
	"errors"
	"io"
	"log"
	"path/filepath"
	"testing"
	"time"

	"github.com/makuzaza/rss-ecomm-task/internal/domain"
	"github.com/makuzaza/rss-ecomm-task/internal/platform"
	"github.com/makuzaza/rss-ecomm-task/internal/storage"
)

type fakeRemote struct {
	activeFn func(ctx context.Context) (*domain.Cart, error)
	myCartFn func(ctx context.Context, cartID string) (*domain.Cart, error)
	cartFn   func(ctx context.Context, cartID string) (*domain.Cart, error)
	createFn func(ctx context.Context, draft platform.CartDraft) (*domain.Cart, error)
	updateFn func(ctx context.Context, cartID string, update platform.CartUpdate) (*domain.Cart, error)
	deleteFn func(ctx context.Context, cartID string, version int) error
}

func (f *fakeRemote) ActiveCart(ctx context.Context) (*domain.Cart, error) {
	if f.activeFn == nil {
		return nil, errors.New("ActiveCart not stubbed")
	}
	return f.activeFn(ctx)
}

func (f *fakeRemote) MyCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	if f.myCartFn == nil {
		return nil, errors.New("MyCart not stubbed")
	}
	return f.myCartFn(ctx, cartID)
}

func (f *fakeRemote) Cart(ctx context.Context, cartID string) (*domain.Cart, error) {
	if f.cartFn == nil {
		return nil, errors.New("Cart not stubbed")
	}
	return f.cartFn(ctx, cartID)
}

func (f *fakeRemote) CreateMyCart(ctx context.Context, draft platform.CartDraft) (*domain.Cart, error) {
	if f.createFn == nil {
		return nil, errors.New("CreateMyCart not stubbed")
	}
	return f.createFn(ctx, draft)
}

func (f *fakeRemote) UpdateMyCart(ctx context.Context, cartID string, update platform.CartUpdate) (*domain.Cart, error) {
	if f.updateFn == nil {
		return nil, errors.New("UpdateMyCart not stubbed")
	}
	return f.updateFn(ctx, cartID, update)
}

func (f *fakeRemote) DeleteCart(ctx context.Context, cartID string, version int) error {
	if f.deleteFn == nil {
		return errors.New("DeleteCart not stubbed")
	}
	return f.deleteFn(ctx, cartID, version)
}

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	return storage.Open(filepath.Join(t.TempDir(), "state.json"), log.New(io.Discard, "", 0))
}

func TestAnonymousActiveWithoutRef(t *testing.T) {
	svc := NewAnonymous(&fakeRemote{}, newTestStore(t), "EUR")
	_, err := svc.Active(context.Background())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound without a stored cart id, got %v", err)
	}
}

func TestAnonymousCreateRecordsCartID(t *testing.T) {
	store := newTestStore(t)
	var gotDraft platform.CartDraft
	remote := &fakeRemote{
		createFn: func(_ context.Context, draft platform.CartDraft) (*domain.Cart, error) {
			gotDraft = draft
			return &domain.Cart{ID: "cart-1", Version: 1, Currency: draft.Currency}, nil
		},
	}
	svc := NewAnonymous(remote, store, "EUR")

	cart, err := svc.Create(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotDraft.Currency != "EUR" {
		t.Fatalf("unexpected draft currency: %q", gotDraft.Currency)
	}
	if gotDraft.AnonymousID != store.EnsureAnonymousID() {
		t.Fatalf("draft must carry the device anonymous id")
	}
	ref, ok := store.AnonymousCartRef()
	if !ok || ref.CartID != cart.ID {
		t.Fatalf("cart id not recorded: %+v %v", ref, ok)
	}
}

func TestAnonymousActiveUsesStoredRef(t *testing.T) {
	store := newTestStore(t)
	store.EnsureAnonymousID()
	if err := store.SetAnonymousCartID("cart-7"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	remote := &fakeRemote{
		myCartFn: func(_ context.Context, cartID string) (*domain.Cart, error) {
			if cartID != "cart-7" {
				t.Fatalf("unexpected cart id: %q", cartID)
			}
			return &domain.Cart{ID: cartID, Version: 3}, nil
		},
	}
	svc := NewAnonymous(remote, store, "EUR")
	cart, err := svc.Active(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart.ID != "cart-7" {
		t.Fatalf("unexpected cart: %+v", cart)
	}
}

func TestCustomerCreateSeedsCountry(t *testing.T) {
	store := newTestStore(t)
	customer := &domain.Customer{
		Addresses: []domain.CustomerAddress{
			{ID: "addr-1", Country: "DE"},
			{ID: "addr-2", Country: "FI"},
		},
		DefaultShippingAddressID: "addr-2",
	}
	var gotDraft platform.CartDraft
	remote := &fakeRemote{
		createFn: func(_ context.Context, draft platform.CartDraft) (*domain.Cart, error) {
			gotDraft = draft
			return &domain.Cart{ID: "cust-cart", Version: 1}, nil
		},
	}
	svc := NewCustomer(remote, store, "EUR", customer)

	if _, err := svc.Create(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotDraft.Country != "FI" {
		t.Fatalf("expected country from default shipping address, got %q", gotDraft.Country)
	}
	if id, ok := store.CustomerCartID(); !ok || id != "cust-cart" {
		t.Fatalf("customer cart id not recorded: %q %v", id, ok)
	}
}

func TestCustomerActiveRecordsCartID(t *testing.T) {
	store := newTestStore(t)
	remote := &fakeRemote{
		activeFn: func(context.Context) (*domain.Cart, error) {
			return &domain.Cart{ID: "active-cart", Version: 5}, nil
		},
	}
	svc := NewCustomer(remote, store, "EUR", nil)
	if _, err := svc.Active(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id, ok := store.CustomerCartID(); !ok || id != "active-cart" {
		t.Fatalf("customer cart id not recorded: %q %v", id, ok)
	}
}

func TestFactorySelectsVariantByToken(t *testing.T) {
	store := newTestStore(t)
	factory := NewServiceFactory(store, "EUR")
	customer := &domain.Customer{ID: "cust-1"}

	if _, ok := factory.Service(&fakeRemote{}, customer).(*Anonymous); !ok {
		t.Fatalf("expected anonymous variant without a valid token")
	}

	err := store.SetToken(domain.Token{
		Token:          "tok",
		ExpirationTime: time.Now().Add(time.Hour).UnixMilli(),
	})
	if err != nil {
		t.Fatalf("seed token: %v", err)
	}
	if _, ok := factory.Service(&fakeRemote{}, customer).(*Customer); !ok {
		t.Fatalf("expected customer variant with a valid token")
	}
	if _, ok := factory.Service(&fakeRemote{}, nil).(*Anonymous); !ok {
		t.Fatalf("expected anonymous variant without a profile")
	}
}
