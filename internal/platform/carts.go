package platform

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/makuzaza/rss-ecomm-task/internal/domain"
)

type CartDraft struct {
	Currency    string `json:"currency"`
	Country     string `json:"country,omitempty"`
	AnonymousID string `json:"anonymousId,omitempty"`
}

// CartUpdate is a versioned batch of mutation actions. The platform
// applies the batch atomically and rejects stale versions.
type CartUpdate struct {
	Version int          `json:"version"`
	Actions []CartAction `json:"actions"`
}

// CartAction is one mutation inside a CartUpdate. Only the fields
// relevant to the named action are serialized.
type CartAction struct {
	Action       string       `json:"action"`
	ProductID    string       `json:"productId,omitempty"`
	VariantID    int          `json:"variantId,omitempty"`
	Quantity     int          `json:"quantity,omitempty"`
	LineItemID   string       `json:"lineItemId,omitempty"`
	Code         string       `json:"code,omitempty"`
	DiscountCode *DiscountRef `json:"discountCode,omitempty"`
}

type DiscountRef struct {
	TypeID string `json:"typeId"`
	ID     string `json:"id"`
}

func AddLineItem(productID string, variantID, quantity int) CartAction {
	return CartAction{Action: "addLineItem", ProductID: productID, VariantID: variantID, Quantity: quantity}
}

func RemoveLineItem(lineItemID string) CartAction {
	return CartAction{Action: "removeLineItem", LineItemID: lineItemID}
}

func ChangeLineItemQuantity(lineItemID string, quantity int) CartAction {
	return CartAction{Action: "changeLineItemQuantity", LineItemID: lineItemID, Quantity: quantity}
}

func AddDiscountCode(code string) CartAction {
	return CartAction{Action: "addDiscountCode", Code: code}
}

func RemoveDiscountCode(discountCodeID string) CartAction {
	return CartAction{
		Action:       "removeDiscountCode",
		DiscountCode: &DiscountRef{TypeID: "discount-code", ID: discountCodeID},
	}
}

func (c *Client) ActiveCart(ctx context.Context) (*domain.Cart, error) {
	var cart ctCart
	if err := c.do(ctx, http.MethodGet, "/me/active-cart", nil, nil, &cart); err != nil {
		return nil, err
	}
	return toCart(cart), nil
}

func (c *Client) MyCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	var cart ctCart
	if err := c.do(ctx, http.MethodGet, "/me/carts/"+cartID, nil, nil, &cart); err != nil {
		return nil, err
	}
	return toCart(cart), nil
}

// Cart fetches any cart in the project by id, regardless of owner. The
// merge path uses this to read the abandoned anonymous cart after the
// session has already switched identity.
func (c *Client) Cart(ctx context.Context, cartID string) (*domain.Cart, error) {
	var cart ctCart
	if err := c.do(ctx, http.MethodGet, "/carts/"+cartID, nil, nil, &cart); err != nil {
		return nil, err
	}
	return toCart(cart), nil
}

func (c *Client) CreateMyCart(ctx context.Context, draft CartDraft) (*domain.Cart, error) {
	var cart ctCart
	if err := c.do(ctx, http.MethodPost, "/me/carts", nil, draft, &cart); err != nil {
		return nil, err
	}
	return toCart(cart), nil
}

func (c *Client) UpdateMyCart(ctx context.Context, cartID string, update CartUpdate) (*domain.Cart, error) {
	var cart ctCart
	if err := c.do(ctx, http.MethodPost, "/me/carts/"+cartID, nil, update, &cart); err != nil {
		return nil, err
	}
	return toCart(cart), nil
}

func (c *Client) DeleteCart(ctx context.Context, cartID string, version int) error {
	query := url.Values{"version": []string{strconv.Itoa(version)}}
	return c.do(ctx, http.MethodDelete, "/carts/"+cartID, query, nil, nil)
}
