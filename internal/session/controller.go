// Package session runs the identity lifecycle: bootstrap from stored
// credentials, login, registration, logout, and the cart handoff each
// transition implies.
package session

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/makuzaza/rss-ecomm-task/internal/cart"
	"github.com/makuzaza/rss-ecomm-task/internal/domain"
	"github.com/makuzaza/rss-ecomm-task/internal/platform"
	"github.com/makuzaza/rss-ecomm-task/internal/storage"
)

// Controller owns the current identity. It holds the platform handle
// for whoever the session is right now, the loaded profile when signed
// in, and the cart controller that follows the identity across
// transitions. All methods are safe for concurrent use.
type Controller struct {
	factory *platform.Factory
	store   *storage.Store
	carts   *cart.Factory
	recon   *cart.Reconciler
	logger  *log.Logger

	mu       sync.Mutex
	state    State
	client   *platform.Client
	customer *domain.Customer
	cartCtrl *cart.Controller
	lastErr  error
}

func New(factory *platform.Factory, store *storage.Store, carts *cart.Factory, logger *log.Logger) *Controller {
	return &Controller{
		factory: factory,
		store:   store,
		carts:   carts,
		recon:   cart.NewReconciler(store, logger),
		logger:  logger,
		state:   StateUninitialized,
	}
}

// Init restores the session from local storage. A stored valid token
// whose profile no longer loads is purged and the session falls back
// to anonymous; only failure to obtain any token at all is fatal.
func (c *Controller) Init(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	client, authenticated, err := c.factory.InitFromStorage(ctx)
	if err != nil {
		c.fail(err)
		return err
	}

	var customer *domain.Customer
	if authenticated {
		customer, err = client.Me(ctx)
		if err != nil {
			c.logger.Printf("session: stored token rejected, dropping it: %v", err)
			if err := c.store.ClearToken(); err != nil {
				c.fail(err)
				return err
			}
			client, err = c.factory.BuildAnonymous(ctx)
			if err != nil {
				c.fail(err)
				return err
			}
		}
	}

	c.become(client, customer)
	c.reloadCart(ctx)
	return nil
}

// Login exchanges credentials for a customer token, folds the
// anonymous cart into the customer's cart, and swaps the session over.
// On bad credentials the session lands in StateError with the cause in
// Err; the anonymous identity and stored token are untouched.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateAuthenticating

	client, err := c.factory.BuildWithPassword(ctx, email, password)
	if err != nil {
		c.state = StateError
		c.lastErr = err
		return err
	}

	customer, err := client.Me(ctx)
	if err != nil {
		if clearErr := c.store.ClearToken(); clearErr != nil {
			c.logger.Printf("session: could not drop unusable token: %v", clearErr)
		}
		c.state = StateError
		c.lastErr = err
		return fmt.Errorf("load profile after login: %w", err)
	}

	svc := c.carts.Service(client, customer)
	if _, outcome, err := c.recon.MergeOnLogin(ctx, client, svc); err != nil {
		// The reference survives a failed merge, so the next login
		// picks the basket up again.
		c.logger.Printf("session: cart merge failed: %v", err)
	} else if outcome.Merged || outcome.Abandoned {
		c.logger.Printf("session: cart merge done: %+v", outcome)
	}

	c.become(client, customer)
	c.reloadCart(ctx)
	return nil
}

type RegisterInput struct {
	Email                  string
	Password               string
	FirstName              string
	LastName               string
	DateOfBirth            string
	Addresses              []platform.AddressDraft
	DefaultShippingAddress *int
	DefaultBillingAddress  *int
}

// Register creates the account and then signs in with the fresh
// credentials, so registration always ends authenticated or in error.
func (c *Controller) Register(ctx context.Context, in RegisterInput) error {
	c.mu.Lock()
	client := c.client
	c.mu.Unlock()
	if client == nil {
		return fmt.Errorf("session not initialized")
	}

	draft := platform.CustomerDraft{
		Email:                  in.Email,
		Password:               in.Password,
		FirstName:              in.FirstName,
		LastName:               in.LastName,
		DateOfBirth:            in.DateOfBirth,
		Addresses:              in.Addresses,
		DefaultShippingAddress: in.DefaultShippingAddress,
		DefaultBillingAddress:  in.DefaultBillingAddress,
	}
	if _, err := client.Signup(ctx, draft); err != nil {
		return err
	}
	return c.Login(ctx, in.Email, in.Password)
}

// Logout strips discount codes off the customer cart, forgets the
// customer token and cart id, and restarts as a fresh anonymous
// session with a new empty cart.
func (c *Controller) Logout(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cartCtrl != nil {
		if _, err := c.cartCtrl.RemoveAllDiscountCodes(ctx); err != nil {
			c.logger.Printf("session: discount strip on logout failed: %v", err)
		}
	}

	if err := c.store.ClearToken(); err != nil {
		return err
	}
	if err := c.store.ClearCustomerCartID(); err != nil {
		return err
	}

	client, err := c.factory.BuildAnonymous(ctx)
	if err != nil {
		c.fail(err)
		return err
	}
	c.become(client, nil)

	svc := c.carts.Service(client, nil)
	if _, err := svc.Create(ctx); err != nil {
		c.logger.Printf("session: could not open a fresh anonymous cart: %v", err)
	}
	c.reloadCart(ctx)
	return nil
}

// RefreshToken re-validates the stored customer token against the
// platform. A token the platform no longer accepts forces a logout. An
// anonymous session has no stored token and is left untouched.
func (c *Controller) RefreshToken(ctx context.Context) error {
	c.mu.Lock()
	tok, ok := c.store.Token()
	valid := ok && c.store.TokenValid()
	authenticated := c.state == StateAuthenticated
	c.mu.Unlock()
	if !valid {
		if authenticated {
			return c.Logout(ctx)
		}
		return nil
	}

	client := c.factory.BuildWithToken(tok.Token)
	customer, err := client.Me(ctx)
	if err != nil {
		c.logger.Printf("session: token no longer valid, logging out: %v", err)
		if logoutErr := c.Logout(ctx); logoutErr != nil {
			return logoutErr
		}
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.become(client, customer)
	c.reloadCart(ctx)
	return nil
}

// UpdateProfile applies profile actions at the loaded profile version
// and caches the updated customer.
func (c *Controller) UpdateProfile(ctx context.Context, actions ...platform.CustomerAction) (*domain.Customer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.customer == nil {
		return nil, domain.ErrUnauthorized
	}
	updated, err := c.client.UpdateMe(ctx, platform.CustomerUpdate{
		Version: c.customer.Version,
		Actions: actions,
	})
	if err != nil {
		return nil, err
	}
	c.customer = updated
	return updated, nil
}

// ChangePassword changes the account password. The platform revokes
// the current token on success, so the session re-authenticates with
// the new password before returning.
func (c *Controller) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	c.mu.Lock()
	if c.customer == nil {
		c.mu.Unlock()
		return domain.ErrUnauthorized
	}
	client := c.client
	version := c.customer.Version
	email := c.customer.Email
	c.mu.Unlock()

	if _, err := client.ChangeMyPassword(ctx, version, currentPassword, newPassword); err != nil {
		return err
	}
	return c.Login(ctx, email, newPassword)
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) IsAuthenticated() bool {
	return c.State() == StateAuthenticated
}

func (c *Controller) CurrentCustomer() *domain.Customer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.customer
}

func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Controller) Client() *platform.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client
}

// Cart returns the cart controller bound to the current identity. It
// is nil until Init has run.
func (c *Controller) Cart() *cart.Controller {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cartCtrl
}

// become installs a new identity. Callers must hold c.mu.
func (c *Controller) become(client *platform.Client, customer *domain.Customer) {
	c.client = client
	c.customer = customer
	c.lastErr = nil
	if customer != nil {
		c.state = StateAuthenticated
	} else {
		c.state = StateAnonymous
	}
	svc := c.carts.Service(client, customer)
	if c.cartCtrl == nil {
		c.cartCtrl = cart.NewController(svc)
	} else {
		c.cartCtrl.Reset(svc)
	}
}

// fail records a fatal transition. Callers must hold c.mu.
func (c *Controller) fail(err error) {
	c.state = StateError
	c.lastErr = err
}

// reloadCart refreshes the cart cache best-effort. Callers must hold
// c.mu.
func (c *Controller) reloadCart(ctx context.Context) {
	if _, err := c.cartCtrl.Reload(ctx); err != nil {
		c.logger.Printf("session: cart reload failed: %v", err)
	}
}
