package catalog

import (
	"testing"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func filterFixture() []Product {
	a := testProduct("a", "300", 1)
	a.Brand, a.Location, a.Category, a.Rating = "Brand A", "Chicago", "Tools", 4.5

	b := testProduct("b", "100", 1)
	b.Brand, b.Location, b.Category, b.Rating = "Brand B", "Houston", "Machinery", 3.6

	c := testProduct("c", "200", 1)
	c.Brand, c.Location, c.Category, c.Rating = "Brand A", "Houston", "Tools", 4.9
	return []Product{a, b, c}
}

func ids(products []Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestApplySorts(t *testing.T) {
	products := filterFixture()

	assert.Equal(t, []string{"b", "c", "a"}, ids(Apply(products, Filter{}, enums.ProductSortPriceAsc)))
	assert.Equal(t, []string{"a", "c", "b"}, ids(Apply(products, Filter{}, enums.ProductSortPriceDesc)))
	assert.Equal(t, []string{"c", "a", "b"}, ids(Apply(products, Filter{}, enums.ProductSortRatingDesc)))
	assert.Equal(t, []string{"b", "c", "a"}, ids(Apply(products, Filter{}, "")))
}

func TestApplyFilters(t *testing.T) {
	products := filterFixture()

	cases := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "brand case-insensitive", filter: Filter{Brand: ptr("brand a")}, want: []string{"c", "a"}},
		{name: "location", filter: Filter{Location: ptr("Houston")}, want: []string{"b", "c"}},
		{name: "category and location", filter: Filter{Category: ptr("Tools"), Location: ptr("Chicago")}, want: []string{"a"}},
		{name: "empty string ignored", filter: Filter{Brand: ptr("  ")}, want: []string{"b", "c", "a"}},
		{name: "price range", filter: Filter{MinPrice: ptr(decimal.NewFromInt(150)), MaxPrice: ptr(decimal.NewFromInt(250))}, want: []string{"c"}},
		{name: "inverted range collapses to max", filter: Filter{MinPrice: ptr(decimal.NewFromInt(500)), MaxPrice: ptr(decimal.NewFromInt(100))}, want: []string{"b"}},
		{name: "min rating", filter: Filter{MinRating: ptr(4.5)}, want: []string{"c", "a"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(Apply(products, tc.filter, enums.ProductSortPriceAsc)))
		})
	}
}

func TestBuildFacets(t *testing.T) {
	facets := BuildFacets(filterFixture())
	require.Equal(t, []string{"Brand A", "Brand B"}, facets.Brands)
	assert.Equal(t, []string{"Chicago", "Houston"}, facets.Locations)
	assert.Equal(t, []string{"Machinery", "Tools"}, facets.Categories)
}
