package cart

import (
	"fmt"

	"github.com/angelmondragon/marketplace-backend/internal/catalog"
	"github.com/shopspring/decimal"
)

// QuantityError reports a quantity outside [Min, Max] for a product.
type QuantityError struct {
	ProductID string
	Quantity  int
	Min       int
	Max       int
}

func (e *QuantityError) Error() string {
	return fmt.Sprintf("quantity %d for product %s must be between %d and %d", e.Quantity, e.ProductID, e.Min, e.Max)
}

// Is lets errors.Is(err, ErrQuantityOutOfRange) match any QuantityError.
func (e *QuantityError) Is(target error) bool {
	return target == ErrQuantityOutOfRange
}

// ErrQuantityOutOfRange is the sentinel matched by every QuantityError.
var ErrQuantityOutOfRange = &QuantityError{}

// Line is one product in the cart with its quantity.
type Line struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Total returns price × quantity for the line.
func (l Line) Total() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart holds at most one line per product id, in insertion order.
// It is not safe for concurrent use; Service serializes access.
type Cart struct {
	lines []Line
}

// Add inserts a line for product when none exists. A repeated add is a
// no-op and reports false. A nil quantity defaults to MinOrderQty; an
// explicit one must fit the product's order range.
func (c *Cart) Add(product catalog.Product, quantity *int) (bool, error) {
	if c.indexOf(product.ID) >= 0 {
		return false, nil
	}
	qty := product.MinOrderQty
	if quantity != nil {
		if err := checkQuantity(product, *quantity); err != nil {
			return false, err
		}
		qty = *quantity
	}
	c.lines = append(c.lines, Line{Product: product.Clone(), Quantity: qty})
	return true, nil
}

// Remove deletes the line for productID, if any.
func (c *Cart) Remove(productID string) bool {
	idx := c.indexOf(productID)
	if idx < 0 {
		return false
	}
	c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
	return true
}

// UpdateQuantity overwrites the quantity of an existing line. Missing
// lines are left alone and report false.
func (c *Cart) UpdateQuantity(productID string, quantity int) (bool, error) {
	idx := c.indexOf(productID)
	if idx < 0 {
		return false, nil
	}
	if err := checkQuantity(c.lines[idx].Product, quantity); err != nil {
		return false, err
	}
	c.lines[idx].Quantity = quantity
	return true, nil
}

// Lines returns a copy of the cart lines.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	for i, line := range c.lines {
		out[i] = Line{Product: line.Product.Clone(), Quantity: line.Quantity}
	}
	return out
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Subtotal sums price × quantity over the current lines.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Total())
	}
	return total
}

func (c *Cart) indexOf(productID string) int {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

func checkQuantity(product catalog.Product, quantity int) error {
	if quantity < product.MinOrderQty || quantity > product.MaxOrderQty {
		return &QuantityError{
			ProductID: product.ID,
			Quantity:  quantity,
			Min:       product.MinOrderQty,
			Max:       product.MaxOrderQty,
		}
	}
	return nil
}
