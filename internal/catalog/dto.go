package catalog

import "github.com/shopspring/decimal"

// CreateProductInput is the vendor-supplied payload for a new listing.
type CreateProductInput struct {
	Title       string          `json:"title" validate:"required"`
	Brand       string          `json:"brand" validate:"required"`
	Category    string          `json:"category" validate:"required"`
	Location    string          `json:"location" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Condition   string          `json:"condition" validate:"required"`
	MinOrderQty int             `json:"minOrderQty" validate:"min=1"`
	MaxOrderQty int             `json:"maxOrderQty" validate:"min=1,gtefield=MinOrderQty"`
	StockQty    int             `json:"stockQty" validate:"min=0"`
	ImageURL    string          `json:"imageUrl" validate:"omitempty,url"`
	Description string          `json:"description" validate:"required"`
	Features    []string        `json:"features"`
}

// UpdateProductInput replaces every editable field of a listing.
type UpdateProductInput struct {
	CreateProductInput
	Rating *float64 `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
}

// PriceStockInput is the payload of the restricted edit flow.
type PriceStockInput struct {
	Price    *decimal.Decimal `json:"price" validate:"required"`
	StockQty int              `json:"stockQty" validate:"min=0"`
}

// ListQuery is the parsed query string of the listing endpoint.
type ListQuery struct {
	Filter Filter
	Sort   string
}
