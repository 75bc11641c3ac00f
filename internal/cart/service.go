package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/angelmondragon/marketplace-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/metrics"
	"github.com/shopspring/decimal"
)

// ProductLookup resolves catalog products by id.
type ProductLookup interface {
	Get(ctx context.Context, id string) (catalog.Product, error)
}

// Snapshot is the read model of a buyer cart.
type Snapshot struct {
	Lines     []LineView      `json:"lines"`
	ItemCount int             `json:"itemCount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// LineView is a cart line with its computed total.
type LineView struct {
	Line
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// AddItemInput is the addToCart payload.
type AddItemInput struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  *int   `json:"quantity,omitempty" validate:"omitempty,min=1"`
}

// UpdateQuantityInput is the updateQuantity payload.
type UpdateQuantityInput struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	Products ProductLookup
	Metrics  *metrics.DomainMetrics
}

// Service manages one cart per buyer.
type Service interface {
	Get(ctx context.Context, buyerID string) (Snapshot, error)
	AddItem(ctx context.Context, buyerID string, input AddItemInput) (Snapshot, error)
	UpdateQuantity(ctx context.Context, buyerID, productID string, quantity int) (Snapshot, error)
	RemoveItem(ctx context.Context, buyerID, productID string) (Snapshot, error)
}

type service struct {
	mu       sync.Mutex
	carts    map[string]*Cart
	products ProductLookup
	metrics  *metrics.DomainMetrics
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product lookup is required")
	}
	return &service{
		carts:    map[string]*Cart{},
		products: params.Products,
		metrics:  params.Metrics,
	}, nil
}

func (s *service) Get(_ context.Context, buyerID string) (Snapshot, error) {
	if buyerID == "" {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "buyer id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshotOf(s.cartFor(buyerID)), nil
}

// AddItem is idempotent per product: repeating it leaves the quantity alone.
func (s *service) AddItem(ctx context.Context, buyerID string, input AddItemInput) (Snapshot, error) {
	if buyerID == "" {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "buyer id is required")
	}
	product, err := s.products.Get(ctx, input.ProductID)
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cartFor(buyerID)
	added, err := cart.Add(product, input.Quantity)
	if err != nil {
		s.metrics.Record("cart_add", metrics.OutcomeRejected)
		return Snapshot{}, mapCartError(err)
	}
	if added {
		s.metrics.Record("cart_add", metrics.OutcomeSuccess)
	}
	return snapshotOf(cart), nil
}

func (s *service) UpdateQuantity(_ context.Context, buyerID, productID string, quantity int) (Snapshot, error) {
	if buyerID == "" {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "buyer id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cartFor(buyerID)
	if _, err := cart.UpdateQuantity(productID, quantity); err != nil {
		s.metrics.Record("cart_update", metrics.OutcomeRejected)
		return Snapshot{}, mapCartError(err)
	}
	return snapshotOf(cart), nil
}

func (s *service) RemoveItem(_ context.Context, buyerID, productID string) (Snapshot, error) {
	if buyerID == "" {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "buyer id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cartFor(buyerID)
	if cart.Remove(productID) {
		s.metrics.Record("cart_remove", metrics.OutcomeSuccess)
	}
	return snapshotOf(cart), nil
}

func (s *service) cartFor(buyerID string) *Cart {
	cart, ok := s.carts[buyerID]
	if !ok {
		cart = &Cart{}
		s.carts[buyerID] = cart
	}
	return cart
}

func snapshotOf(cart *Cart) Snapshot {
	lines := cart.Lines()
	views := make([]LineView, 0, len(lines))
	for _, line := range lines {
		views = append(views, LineView{Line: line, LineTotal: line.Total()})
	}
	return Snapshot{
		Lines:     views,
		ItemCount: len(views),
		Subtotal:  cart.Subtotal(),
	}
}

func mapCartError(err error) error {
	var qtyErr *QuantityError
	if errors.As(err, &qtyErr) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "quantity out of range").
			WithDetails(map[string]any{
				"productId": qtyErr.ProductID,
				"quantity":  qtyErr.Quantity,
				"min":       qtyErr.Min,
				"max":       qtyErr.Max,
			})
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cart update failed")
}
