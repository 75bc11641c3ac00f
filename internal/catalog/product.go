package catalog

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultImageURL is used when a new listing arrives without an image.
const DefaultImageURL = "https://picsum.photos/seed/marketplace/400/300"

// Product is a catalog listing.
type Product struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Brand       string          `json:"brand"`
	Category    string          `json:"category"`
	Location    string          `json:"location"`
	Price       decimal.Decimal `json:"price"`
	Condition   string          `json:"condition"`
	MinOrderQty int             `json:"minOrderQty"`
	MaxOrderQty int             `json:"maxOrderQty"`
	StockQty    int             `json:"stockQty"`
	ImageURL    string          `json:"imageUrl"`
	Description string          `json:"description"`
	Features    []string        `json:"features"`
	Rating      float64         `json:"rating"`
}

var (
	ErrMissingID         = errors.New("product id is required")
	ErrNegativePrice     = errors.New("price cannot be negative")
	ErrNegativeStock     = errors.New("stock quantity cannot be negative")
	ErrInvalidOrderRange = errors.New("order quantity range is invalid")
)

// Validate checks the record-level invariants of a listing.
func (p Product) Validate() error {
	if p.ID == "" {
		return ErrMissingID
	}
	if p.Price.IsNegative() {
		return ErrNegativePrice
	}
	if p.StockQty < 0 {
		return ErrNegativeStock
	}
	if p.MinOrderQty < 1 || p.MaxOrderQty < p.MinOrderQty {
		return fmt.Errorf("%w: min=%d max=%d", ErrInvalidOrderRange, p.MinOrderQty, p.MaxOrderQty)
	}
	return nil
}

// Clone returns a copy that shares no slices with p.
func (p Product) Clone() Product {
	out := p
	if p.Features != nil {
		out.Features = append([]string(nil), p.Features...)
	}
	return out
}
