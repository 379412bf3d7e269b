package platform

import (
	"sort"
	"time"

	"github.com/makuzaza/rss-ecomm-task/internal/domain"
)

// Wire types for the platform's JSON surface. Only the fields this
// client reads are declared; everything else in the payload is ignored.

type ctCart struct {
	ID            string           `json:"id"`
	Version       int              `json:"version"`
	CustomerID    string           `json:"customerId,omitempty"`
	AnonymousID   string           `json:"anonymousId,omitempty"`
	CartState     string           `json:"cartState"`
	LineItems     []ctLineItem     `json:"lineItems"`
	DiscountCodes []ctDiscountInfo `json:"discountCodes"`
	TotalPrice    ctPriceValue     `json:"totalPrice"`
	CreatedAt     time.Time        `json:"createdAt"`
}

type ctLineItem struct {
	ID                         string              `json:"id"`
	ProductID                  string              `json:"productId"`
	Name                       map[string]string   `json:"name"`
	Variant                    ctVariant           `json:"variant"`
	Price                      ctPrice             `json:"price"`
	DiscountedPricePerQuantity []ctDiscountedPrice `json:"discountedPricePerQuantity,omitempty"`
	Quantity                   int                 `json:"quantity"`
	TotalPrice                 ctPriceValue        `json:"totalPrice"`
}

type ctVariant struct {
	ID     int       `json:"id"`
	Key    string    `json:"key,omitempty"`
	SKU    string    `json:"sku,omitempty"`
	Prices []ctPrice `json:"prices,omitempty"`
	Images []ctImage `json:"images,omitempty"`
}

type ctPrice struct {
	ID         string        `json:"id,omitempty"`
	Value      ctPriceValue  `json:"value"`
	Discounted *ctDiscounted `json:"discounted,omitempty"`
}

type ctDiscounted struct {
	Value ctPriceValue `json:"value"`
}

type ctPriceValue struct {
	Type           string `json:"type,omitempty"`
	CurrencyCode   string `json:"currencyCode"`
	CentAmount     int64  `json:"centAmount"`
	FractionDigits int    `json:"fractionDigits,omitempty"`
}

type ctImage struct {
	URL string `json:"url"`
}

type ctDiscountedPrice struct {
	Quantity        int `json:"quantity"`
	DiscountedPrice struct {
		Value ctPriceValue `json:"value"`
	} `json:"discountedPrice"`
}

type ctDiscountInfo struct {
	DiscountCode ctDiscountCodeRef `json:"discountCode"`
	State        string            `json:"state,omitempty"`
}

type ctDiscountCodeRef struct {
	TypeID string `json:"typeId"`
	ID     string `json:"id"`
	Obj    *struct {
		Code string `json:"code"`
	} `json:"obj,omitempty"`
}

type ctCustomer struct {
	ID                       string      `json:"id"`
	Version                  int         `json:"version"`
	Email                    string      `json:"email"`
	FirstName                string      `json:"firstName,omitempty"`
	LastName                 string      `json:"lastName,omitempty"`
	DateOfBirth              string      `json:"dateOfBirth,omitempty"`
	Addresses                []ctAddress `json:"addresses,omitempty"`
	DefaultShippingAddressID string      `json:"defaultShippingAddressId,omitempty"`
	DefaultBillingAddressID  string      `json:"defaultBillingAddressId,omitempty"`
	CreatedAt                time.Time   `json:"createdAt"`
}

type ctAddress struct {
	ID         string `json:"id"`
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Country    string `json:"country,omitempty"`
	StreetName string `json:"streetName,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	City       string `json:"city,omitempty"`
	Email      string `json:"email,omitempty"`
}

type ctSignInResult struct {
	Customer ctCustomer `json:"customer"`
	Cart     *ctCart    `json:"cart,omitempty"`
}

type ctProductProjection struct {
	ID            string            `json:"id"`
	Key           string            `json:"key,omitempty"`
	Name          map[string]string `json:"name"`
	Description   map[string]string `json:"description,omitempty"`
	Slug          map[string]string `json:"slug,omitempty"`
	MasterVariant ctVariant         `json:"masterVariant"`
	CreatedAt     time.Time         `json:"createdAt"`
}

type ctPagedProducts struct {
	Limit   int                   `json:"limit"`
	Offset  int                   `json:"offset"`
	Count   int                   `json:"count"`
	Total   int                   `json:"total"`
	Results []ctProductProjection `json:"results"`
}

type ctCategory struct {
	ID   string            `json:"id"`
	Key  string            `json:"key,omitempty"`
	Name map[string]string `json:"name"`
	Slug map[string]string `json:"slug,omitempty"`
}

type ctPagedCategories struct {
	Results []ctCategory `json:"results"`
}

// localized picks a display string from a localized field, preferring
// the store locales before falling back to any deterministic value.
func localized(values map[string]string) string {
	for _, locale := range []string{"en-US", "en"} {
		if v := values[locale]; v != "" {
			return v
		}
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if values[k] != "" {
			return values[k]
		}
	}
	return ""
}

func toCart(c ctCart) *domain.Cart {
	out := &domain.Cart{
		ID:          c.ID,
		Version:     c.Version,
		CustomerID:  c.CustomerID,
		AnonymousID: c.AnonymousID,
		Currency:    c.TotalPrice.CurrencyCode,
		TotalCents:  c.TotalPrice.CentAmount,
		State:       c.CartState,
		CreatedAt:   c.CreatedAt,
	}
	for _, li := range c.LineItems {
		out.LineItems = append(out.LineItems, toLineItem(li))
	}
	for _, dc := range c.DiscountCodes {
		code := domain.DiscountCode{ID: dc.DiscountCode.ID}
		if dc.DiscountCode.Obj != nil {
			code.Code = dc.DiscountCode.Obj.Code
		}
		out.DiscountCodes = append(out.DiscountCodes, code)
	}
	return out
}

func toLineItem(li ctLineItem) domain.LineItem {
	out := domain.LineItem{
		ID:             li.ID,
		ProductID:      li.ProductID,
		VariantID:      li.Variant.ID,
		VariantKey:     li.Variant.Key,
		Name:           localized(li.Name),
		Quantity:       li.Quantity,
		UnitPriceCents: li.Price.Value.CentAmount,
		TotalCents:     li.TotalPrice.CentAmount,
	}
	if len(li.DiscountedPricePerQuantity) > 0 {
		out.DiscountedUnitCents = li.DiscountedPricePerQuantity[0].DiscountedPrice.Value.CentAmount
	} else if li.Price.Discounted != nil {
		out.DiscountedUnitCents = li.Price.Discounted.Value.CentAmount
	}
	for _, img := range li.Variant.Images {
		if img.URL != "" {
			out.Images = append(out.Images, img.URL)
		}
	}
	return out
}

func toCustomer(c ctCustomer) *domain.Customer {
	out := &domain.Customer{
		ID:                       c.ID,
		Version:                  c.Version,
		Email:                    c.Email,
		FirstName:                c.FirstName,
		LastName:                 c.LastName,
		DateOfBirth:              c.DateOfBirth,
		DefaultShippingAddressID: c.DefaultShippingAddressID,
		DefaultBillingAddressID:  c.DefaultBillingAddressID,
		CreatedAt:                c.CreatedAt,
	}
	for _, a := range c.Addresses {
		out.Addresses = append(out.Addresses, domain.CustomerAddress(a))
	}
	return out
}

func toProduct(p ctProductProjection) domain.Product {
	out := domain.Product{
		ID:          p.ID,
		Key:         p.Key,
		SKU:         p.MasterVariant.SKU,
		Name:        localized(p.Name),
		Description: localized(p.Description),
		CreatedAt:   p.CreatedAt,
	}
	if len(p.MasterVariant.Prices) > 0 {
		price := p.MasterVariant.Prices[0]
		out.PriceCents = price.Value.CentAmount
		out.Currency = price.Value.CurrencyCode
		if price.Discounted != nil {
			out.DiscountedCents = price.Discounted.Value.CentAmount
		}
	}
	for _, img := range p.MasterVariant.Images {
		if img.URL != "" {
			out.Images = append(out.Images, img.URL)
		}
	}
	return out
}

func toCategory(c ctCategory) domain.Category {
	return domain.Category{
		ID:   c.ID,
		Key:  c.Key,
		Name: localized(c.Name),
		Slug: localized(c.Slug),
	}
}
