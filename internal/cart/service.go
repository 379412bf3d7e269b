// Package cart keeps the device's cart in step with the remote
// platform. A Service wraps the cart operations for one identity kind,
// a Controller exposes the view the UI binds to, and the reconciler
// moves cart contents across the anonymous-to-customer boundary.
package cart

import (
	"context"

	"github.com/makuzaza/rss-ecomm-task/internal/domain"
	"github.com/makuzaza/rss-ecomm-task/internal/platform"
	"github.com/makuzaza/rss-ecomm-task/internal/storage"
)

type remoteCarts interface {
	ActiveCart(ctx context.Context) (*domain.Cart, error)
	MyCart(ctx context.Context, cartID string) (*domain.Cart, error)
	Cart(ctx context.Context, cartID string) (*domain.Cart, error)
	CreateMyCart(ctx context.Context, draft platform.CartDraft) (*domain.Cart, error)
	UpdateMyCart(ctx context.Context, cartID string, update platform.CartUpdate) (*domain.Cart, error)
	DeleteCart(ctx context.Context, cartID string, version int) error
}

// Service is the cart surface for one identity kind. Active reports
// domain.ErrNotFound when the identity has no cart yet; Create makes
// one and records its id locally.
type Service interface {
	Active(ctx context.Context) (*domain.Cart, error)
	Create(ctx context.Context) (*domain.Cart, error)
	Update(ctx context.Context, cartID string, update platform.CartUpdate) (*domain.Cart, error)
}

// Anonymous serves carts for a device-scoped identity. The cart id
// lives in local storage because the platform has no active-cart
// notion we can trust for a shared anonymous token.
type Anonymous struct {
	client   remoteCarts
	store    *storage.Store
	currency string
}

func NewAnonymous(client remoteCarts, store *storage.Store, currency string) *Anonymous {
	return &Anonymous{client: client, store: store, currency: currency}
}

func (a *Anonymous) Active(ctx context.Context) (*domain.Cart, error) {
	ref, ok := a.store.AnonymousCartRef()
	if !ok {
		return nil, domain.ErrNotFound
	}
	return a.client.MyCart(ctx, ref.CartID)
}

func (a *Anonymous) Create(ctx context.Context) (*domain.Cart, error) {
	draft := platform.CartDraft{
		Currency:    a.currency,
		AnonymousID: a.store.EnsureAnonymousID(),
	}
	cart, err := a.client.CreateMyCart(ctx, draft)
	if err != nil {
		return nil, err
	}
	if err := a.store.SetAnonymousCartID(cart.ID); err != nil {
		return nil, err
	}
	return cart, nil
}

func (a *Anonymous) Update(ctx context.Context, cartID string, update platform.CartUpdate) (*domain.Cart, error) {
	return a.client.UpdateMyCart(ctx, cartID, update)
}

// Customer serves carts for a signed-in identity. The platform tracks
// the active cart itself; the locally recorded id is a hint only.
type Customer struct {
	client   remoteCarts
	store    *storage.Store
	currency string
	country  string
}

// NewCustomer builds the customer variant. The customer profile, when
// known, supplies the country for new carts so shipping-dependent
// prices come back right on the first fetch.
func NewCustomer(client remoteCarts, store *storage.Store, currency string, customer *domain.Customer) *Customer {
	country := ""
	if customer != nil {
		if addr := customer.DefaultShippingAddress(); addr != nil {
			country = addr.Country
		}
	}
	return &Customer{client: client, store: store, currency: currency, country: country}
}

func (c *Customer) Active(ctx context.Context) (*domain.Cart, error) {
	cart, err := c.client.ActiveCart(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.store.SetCustomerCartID(cart.ID); err != nil {
		return nil, err
	}
	return cart, nil
}

func (c *Customer) Create(ctx context.Context) (*domain.Cart, error) {
	draft := platform.CartDraft{Currency: c.currency, Country: c.country}
	cart, err := c.client.CreateMyCart(ctx, draft)
	if err != nil {
		return nil, err
	}
	if err := c.store.SetCustomerCartID(cart.ID); err != nil {
		return nil, err
	}
	return cart, nil
}

func (c *Customer) Update(ctx context.Context, cartID string, update platform.CartUpdate) (*domain.Cart, error) {
	return c.client.UpdateMyCart(ctx, cartID, update)
}

type Factory struct {
	store    *storage.Store
	currency string
}

func NewServiceFactory(store *storage.Store, currency string) *Factory {
	return &Factory{store: store, currency: currency}
}

func (f *Factory) Service(client remoteCarts, customer *domain.Customer) Service {
	if f.store.TokenValid() && customer != nil {
		return NewCustomer(client, f.store, f.currency, customer)
	}
	return NewAnonymous(client, f.store, f.currency)
}
