package catalog

import "errors"

// Rejection reasons reported by the edit policy.
const (
	ReasonPriceIncrease = "price_increase"
	ReasonStockDecrease = "stock_decrease"
	ReasonNoChanges     = "no_changes"
)

// PolicyViolation describes why a vendor edit was discarded.
type PolicyViolation struct {
	Reason  string
	Title   string
	Message string
}

func (v *PolicyViolation) Error() string {
	return v.Title + ": " + v.Message
}

var (
	ErrPriceIncrease = &PolicyViolation{
		Reason:  ReasonPriceIncrease,
		Title:   "Invalid Price Change",
		Message: "Price can only be decreased or kept the same.",
	}
	ErrStockDecrease = &PolicyViolation{
		Reason:  ReasonStockDecrease,
		Title:   "Invalid Stock Change",
		Message: "Stock quantity can only be increased or kept the same.",
	}
	ErrNoChanges = &PolicyViolation{
		Reason:  ReasonNoChanges,
		Title:   "No Changes Detected",
		Message: "You have not made any changes to the price or stock quantity.",
	}
)

// AsPolicyViolation unwraps err into a PolicyViolation when possible.
func AsPolicyViolation(err error) (*PolicyViolation, bool) {
	var violation *PolicyViolation
	if errors.As(err, &violation) {
		return violation, true
	}
	return nil, false
}

// CheckEdit applies the listing edit policy: price may only go down or stay,
// stock may only go up or stay. With requireChange set, an edit that leaves
// both price and stock untouched is rejected too.
func CheckEdit(current, proposed Product, requireChange bool) error {
	if proposed.Price.GreaterThan(current.Price) {
		return ErrPriceIncrease
	}
	if proposed.StockQty < current.StockQty {
		return ErrStockDecrease
	}
	if requireChange && proposed.Price.Equal(current.Price) && proposed.StockQty == current.StockQty {
		return ErrNoChanges
	}
	return nil
}
