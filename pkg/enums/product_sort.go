package enums

import (
	"fmt"
	"strings"
)

// ProductSort selects the ordering of catalog listings.
type ProductSort string

const (
	ProductSortPriceAsc   ProductSort = "price_asc"
	ProductSortPriceDesc  ProductSort = "price_desc"
	ProductSortRatingDesc ProductSort = "rating_desc"
)

var validProductSorts = []ProductSort{
	ProductSortPriceAsc,
	ProductSortPriceDesc,
	ProductSortRatingDesc,
}

func (p ProductSort) IsValid() bool {
	for _, candidate := range validProductSorts {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductSort accepts an empty value as the default price_asc ordering.
func ParseProductSort(value string) (ProductSort, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ProductSortPriceAsc, nil
	}
	for _, candidate := range validProductSorts {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product sort %q", value)
}
