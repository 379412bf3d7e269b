package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/makuzaza/rss-ecomm-task/internal/domain"
)

// ProductQuery narrows a catalog listing or search.
type ProductQuery struct {
	Limit         int
	Offset        int
	Sort          []string
	MinPriceCents int64
	MaxPriceCents int64
	DiscountOnly  bool
	Text          string
	CategoryID    string
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	for _, s := range q.Sort {
		v.Add("sort", s)
	}
	if q.MinPriceCents > 0 {
		v.Add("filter.query", fmt.Sprintf("variants.price.centAmount:range(%d to *)", q.MinPriceCents))
	}
	if q.MaxPriceCents > 0 {
		v.Add("filter.query", fmt.Sprintf("variants.price.centAmount:range(* to %d)", q.MaxPriceCents))
	}
	if q.DiscountOnly {
		v.Add("filter.query", "variants.prices.discounted.exists:true")
	}
	if q.CategoryID != "" {
		v.Add("filter.query", fmt.Sprintf("categories.id:%q", q.CategoryID))
	}
	if q.Text != "" {
		v.Set("text.en-US", q.Text)
	}
	return v
}

// Products lists published products, normalized to the flat catalog
// view. The second return value is the total match count for paging.
func (c *Client) Products(ctx context.Context, q ProductQuery) ([]domain.Product, int, error) {
	var page ctPagedProducts
	if err := c.do(ctx, http.MethodGet, "/product-projections", q.values(), nil, &page); err != nil {
		return nil, 0, err
	}
	products := make([]domain.Product, 0, len(page.Results))
	for _, p := range page.Results {
		products = append(products, toProduct(p))
	}
	return products, page.Total, nil
}

// ProductByKey fetches one product by its key.
func (c *Client) ProductByKey(ctx context.Context, key string) (*domain.Product, error) {
	var p ctProductProjection
	if err := c.do(ctx, http.MethodGet, "/product-projections/key="+url.PathEscape(key), nil, nil, &p); err != nil {
		return nil, err
	}
	product := toProduct(p)
	return &product, nil
}

// Search runs the platform's full-text product search.
func (c *Client) Search(ctx context.Context, q ProductQuery) ([]domain.Product, int, error) {
	var page ctPagedProducts
	if err := c.do(ctx, http.MethodGet, "/product-projections/search", q.values(), nil, &page); err != nil {
		return nil, 0, err
	}
	products := make([]domain.Product, 0, len(page.Results))
	for _, p := range page.Results {
		products = append(products, toProduct(p))
	}
	return products, page.Total, nil
}

// Categories lists the catalog categories.
func (c *Client) Categories(ctx context.Context, limit int) ([]domain.Category, error) {
	v := url.Values{}
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	var page ctPagedCategories
	if err := c.do(ctx, http.MethodGet, "/categories", v, nil, &page); err != nil {
		return nil, err
	}
	categories := make([]domain.Category, 0, len(page.Results))
	for _, cat := range page.Results {
		categories = append(categories, toCategory(cat))
	}
	return categories, nil
}
