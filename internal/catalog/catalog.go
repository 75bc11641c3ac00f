package catalog

import (
	"errors"
	"sync"

	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrDuplicateProduct = errors.New("product id already exists")
)

// Catalog is the in-memory product list. Newest listings come first.
type Catalog struct {
	mu       sync.RWMutex
	products []Product
}

// New builds a catalog holding copies of the provided products.
func New(products []Product) (*Catalog, error) {
	c := &Catalog{}
	seen := make(map[string]struct{}, len(products))
	for _, p := range products {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[p.ID]; dup {
			return nil, ErrDuplicateProduct
		}
		seen[p.ID] = struct{}{}
		c.products = append(c.products, p.Clone())
	}
	return c, nil
}

// All returns a snapshot of every product in catalog order.
func (c *Catalog) All() []Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Product, len(c.products))
	for i, p := range c.products {
		out[i] = p.Clone()
	}
	return out
}

// Get returns the product with the given id.
func (c *Catalog) Get(id string) (Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return Product{}, false
	}
	return c.products[idx].Clone(), true
}

// Len returns the number of listings.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.products)
}

// CountBelowStock counts listings whose stock is strictly under threshold.
func (c *Catalog) CountBelowStock(threshold int) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	count := 0
	for _, p := range c.products {
		if p.StockQty < threshold {
			count++
		}
	}
	return count
}

// Add prepends a new listing.
func (c *Catalog) Add(p Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.indexOf(p.ID) >= 0 {
		return ErrDuplicateProduct
	}
	c.products = append([]Product{p.Clone()}, c.products...)
	return nil
}

// Update replaces the listing with the same id after running the edit
// policy. It returns the previous record. The catalog is left untouched on
// any error.
func (c *Catalog) Update(p Product) (Product, error) {
	if err := p.Validate(); err != nil {
		return Product{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(p.ID)
	if idx < 0 {
		return Product{}, ErrProductNotFound
	}
	before := c.products[idx]
	if err := CheckEdit(before, p, false); err != nil {
		return Product{}, err
	}
	c.products[idx] = p.Clone()
	return before.Clone(), nil
}

// EditPriceStock changes only price and stock. An edit that changes neither
// is rejected with ErrNoChanges.
func (c *Catalog) EditPriceStock(id string, price decimal.Decimal, stock int) (Product, Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return Product{}, Product{}, ErrProductNotFound
	}
	before := c.products[idx]
	after := before.Clone()
	after.Price = price
	after.StockQty = stock
	if err := after.Validate(); err != nil {
		return Product{}, Product{}, err
	}
	if err := CheckEdit(before, after, true); err != nil {
		return Product{}, Product{}, err
	}
	c.products[idx] = after
	return before.Clone(), after.Clone(), nil
}

func (c *Catalog) indexOf(id string) int {
	for i := range c.products {
		if c.products[i].ID == id {
			return i
		}
	}
	return -1
}
