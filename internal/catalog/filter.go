package catalog

import (
	"sort"
	"strings"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Filter narrows a product listing. Nil fields do not constrain.
type Filter struct {
	Brand     *string
	Location  *string
	Category  *string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	MinRating *float64
}

// Normalized collapses an inverted price range to [max, max] and drops
// empty string constraints.
func (f Filter) Normalized() Filter {
	out := f
	out.Brand = nonEmpty(f.Brand)
	out.Location = nonEmpty(f.Location)
	out.Category = nonEmpty(f.Category)
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		max := *f.MaxPrice
		out.MinPrice = &max
	}
	return out
}

// Matches reports whether p satisfies every set constraint.
func (f Filter) Matches(p Product) bool {
	if f.Brand != nil && !strings.EqualFold(p.Brand, *f.Brand) {
		return false
	}
	if f.Location != nil && !strings.EqualFold(p.Location, *f.Location) {
		return false
	}
	if f.Category != nil && !strings.EqualFold(p.Category, *f.Category) {
		return false
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	if f.MinRating != nil && p.Rating < *f.MinRating {
		return false
	}
	return true
}

func nonEmpty(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Apply filters and sorts products, returning a new slice.
func Apply(products []Product, filter Filter, order enums.ProductSort) []Product {
	filter = filter.Normalized()
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if filter.Matches(p) {
			out = append(out, p.Clone())
		}
	}
	sortProducts(out, order)
	return out
}

func sortProducts(products []Product, order enums.ProductSort) {
	switch order {
	case enums.ProductSortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.GreaterThan(products[j].Price)
		})
	case enums.ProductSortRatingDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Rating > products[j].Rating
		})
	default:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.LessThan(products[j].Price)
		})
	}
}

// Facets lists the distinct filter values present in the catalog.
type Facets struct {
	Brands     []string `json:"brands"`
	Locations  []string `json:"locations"`
	Categories []string `json:"categories"`
}

// BuildFacets collects sorted unique brands, locations and categories.
func BuildFacets(products []Product) Facets {
	brands := map[string]struct{}{}
	locations := map[string]struct{}{}
	categories := map[string]struct{}{}
	for _, p := range products {
		brands[p.Brand] = struct{}{}
		locations[p.Location] = struct{}{}
		categories[p.Category] = struct{}{}
	}
	return Facets{
		Brands:     sortedKeys(brands),
		Locations:  sortedKeys(locations),
		Categories: sortedKeys(categories),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for key := range set {
		if key == "" {
			continue
		}
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
