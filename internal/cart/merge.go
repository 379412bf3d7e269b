package cart

import (
	"context"
	"errors"
	"log"

	"github.com/makuzaza/rss-ecomm-task/internal/domain"
	"github.com/makuzaza/rss-ecomm-task/internal/platform"
	"github.com/makuzaza/rss-ecomm-task/internal/storage"
)

// MergeOutcome reports what happened to the anonymous cart during
// login. It is informational; a failed merge never fails the login.
type MergeOutcome struct {
	Merged     bool
	ItemsMoved int
	Abandoned  bool
}

// Reconciler carries anonymous cart contents across the login boundary
// and strips customer-only discounts at logout.
type Reconciler struct {
	store  *storage.Store
	logger *log.Logger
}

func NewReconciler(store *storage.Store, logger *log.Logger) *Reconciler {
	return &Reconciler{store: store, logger: logger}
}

// MergeOnLogin folds the device's anonymous cart, if any, into the
// customer's cart. client must hold the customer token and svc must be
// the customer variant. The local anonymous cart reference is cleared
// once the contents are safe or the cart is known to be gone; a
// transient fetch failure keeps the reference so a later login can
// retry the merge.
func (r *Reconciler) MergeOnLogin(ctx context.Context, client remoteCarts, svc Service) (*domain.Cart, MergeOutcome, error) {
	ref, ok := r.store.AnonymousCartRef()
	if !ok {
		return nil, MergeOutcome{}, nil
	}

	anonCart, err := client.Cart(ctx, ref.CartID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, MergeOutcome{}, err
		}
		// The cart no longer exists. Dropping the reference loses at
		// most a device-local basket, never customer data.
		r.logger.Printf("merge: abandoning anonymous cart %s: %v", ref.CartID, err)
		if err := r.store.ClearAnonymousCartRef(); err != nil {
			return nil, MergeOutcome{}, err
		}
		return nil, MergeOutcome{Abandoned: true}, nil
	}

	customerCart, err := svc.Active(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		customerCart, err = svc.Create(ctx)
	}
	if err != nil {
		return nil, MergeOutcome{}, err
	}

	outcome := MergeOutcome{}
	if len(anonCart.LineItems) > 0 {
		update := platform.CartUpdate{Version: customerCart.Version}
		for _, li := range anonCart.LineItems {
			update.Actions = append(update.Actions, platform.AddLineItem(li.ProductID, li.VariantID, li.Quantity))
			outcome.ItemsMoved += li.Quantity
		}
		customerCart, err = svc.Update(ctx, customerCart.ID, update)
		if err != nil {
			return nil, MergeOutcome{}, err
		}
		outcome.Merged = true
	}

	if err := client.DeleteCart(ctx, anonCart.ID, anonCart.Version); err != nil {
		// Contents are already safe in the customer cart; the
		// orphan only wastes a row server-side.
		r.logger.Printf("merge: could not delete anonymous cart %s: %v", anonCart.ID, err)
	}
	if err := r.store.ClearAnonymousCartRef(); err != nil {
		return nil, MergeOutcome{}, err
	}
	return customerCart, outcome, nil
}

// StripDiscountCodes removes every attached discount code one versioned
// update at a time. Codes applied under a customer account may not be
// valid for the anonymous identity that inherits the cart.
func StripDiscountCodes(ctx context.Context, svc Service, cart *domain.Cart) (*domain.Cart, error) {
	current := cart
	for range cart.DiscountCodes {
		if len(current.DiscountCodes) == 0 {
			break
		}
		code := current.DiscountCodes[0]
		update := platform.CartUpdate{
			Version: current.Version,
			Actions: []platform.CartAction{platform.RemoveDiscountCode(code.ID)},
		}
		next, err := svc.Update(ctx, current.ID, update)
		if err != nil {
			return current, err
		}
		current = next
	}
	return current, nil
}
