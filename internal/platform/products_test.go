package platform

import (
	"testing"
)

func TestProductQueryValues(t *testing.T) {
	q := ProductQuery{
		Limit:         12,
		Offset:        24,
		Sort:          []string{"price asc"},
		MinPriceCents: 1000,
		MaxPriceCents: 5000,
		DiscountOnly:  true,
		CategoryID:    "cat-1",
	}
	v := q.values()

	if v.Get("limit") != "12" || v.Get("offset") != "24" {
		t.Fatalf("unexpected paging: %v", v)
	}
	if v.Get("sort") != "price asc" {
		t.Fatalf("unexpected sort: %v", v)
	}
	filters := v["filter.query"]
	want := []string{
		"variants.price.centAmount:range(1000 to *)",
		"variants.price.centAmount:range(* to 5000)",
		"variants.prices.discounted.exists:true",
		`categories.id:"cat-1"`,
	}
	if len(filters) != len(want) {
		t.Fatalf("unexpected filters: %v", filters)
	}
	for i, f := range want {
		if filters[i] != f {
			t.Fatalf("filter %d: got %q, want %q", i, filters[i], f)
		}
	}
}

func TestProductQueryTextTargetsStoreLocale(t *testing.T) {
	v := ProductQuery{Text: "kettle"}.values()
	if v.Get("text.en-US") != "kettle" {
		t.Fatalf("unexpected values: %v", v)
	}
}
