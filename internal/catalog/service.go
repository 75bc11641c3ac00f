package catalog

import (
	"context"
	"errors"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/metrics"
	"github.com/google/uuid"
)

const productIDPrefix = "prod_"

// ChangeListener is told about every accepted listing edit.
type ChangeListener interface {
	NotifyProductChange(ctx context.Context, before, after Product) int
}

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	Catalog  *Catalog
	Listener ChangeListener
	Metrics  *metrics.DomainMetrics
	Logger   *logger.Logger
}

// Service exposes catalog browsing and the vendor edit flows.
type Service interface {
	List(ctx context.Context, filter Filter, order enums.ProductSort) []Product
	Facets(ctx context.Context) Facets
	Get(ctx context.Context, id string) (Product, error)
	Create(ctx context.Context, input CreateProductInput) (Product, error)
	Replace(ctx context.Context, id string, input UpdateProductInput) (Product, error)
	EditPriceStock(ctx context.Context, id string, input PriceStockInput) (Product, error)
	Count(ctx context.Context) int
	CountLowStock(ctx context.Context, threshold int) int
}

type service struct {
	catalog  *Catalog
	listener ChangeListener
	metrics  *metrics.DomainMetrics
	logg     *logger.Logger
}

// NewService builds a catalog service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		catalog:  params.Catalog,
		listener: params.Listener,
		metrics:  params.Metrics,
		logg:     logg,
	}, nil
}

func (s *service) List(_ context.Context, filter Filter, order enums.ProductSort) []Product {
	return Apply(s.catalog.All(), filter, order)
}

func (s *service) Facets(_ context.Context) Facets {
	return BuildFacets(s.catalog.All())
}

func (s *service) Get(ctx context.Context, id string) (Product, error) {
	return NewReader(s.catalog).Get(ctx, id)
}

// Reader is a read-only, context-aware view of a Catalog. It lets
// collaborators that the service itself notifies resolve products without
// holding the service.
type Reader struct {
	catalog *Catalog
}

func NewReader(c *Catalog) Reader {
	return Reader{catalog: c}
}

func (r Reader) Get(_ context.Context, id string) (Product, error) {
	product, ok := r.catalog.Get(id)
	if !ok {
		return Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
			WithDetails(map[string]string{"id": id})
	}
	return product, nil
}

func (s *service) Count(_ context.Context) int {
	return s.catalog.Len()
}

func (s *service) CountLowStock(_ context.Context, threshold int) int {
	return s.catalog.CountBelowStock(threshold)
}

// Create prepends a vendor listing with a server-generated id.
func (s *service) Create(ctx context.Context, input CreateProductInput) (Product, error) {
	if !input.Price.IsPositive() {
		return Product{}, priceError("price must be greater than 0")
	}
	product := input.toProduct(productIDPrefix + uuid.NewString())
	if err := s.catalog.Add(product); err != nil {
		s.metrics.Record("product_create", metrics.OutcomeFailure)
		return Product{}, mapCatalogError(err)
	}
	s.metrics.Record("product_create", metrics.OutcomeSuccess)
	s.logg.Info(s.logg.WithField(ctx, "product_id", product.ID), "product created")
	return product, nil
}

// Replace swaps the whole listing, subject to the price/stock policy.
func (s *service) Replace(ctx context.Context, id string, input UpdateProductInput) (Product, error) {
	current, ok := s.catalog.Get(id)
	if !ok {
		return Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if !input.Price.IsPositive() {
		return Product{}, priceError("price must be greater than 0")
	}

	proposed := input.toProduct(id)
	proposed.Rating = current.Rating
	if input.Rating != nil {
		proposed.Rating = *input.Rating
	}
	if input.ImageURL == "" && current.ImageURL != "" {
		proposed.ImageURL = current.ImageURL
	}

	before, err := s.catalog.Update(proposed)
	if err != nil {
		return Product{}, s.rejected(ctx, "product_update", id, err)
	}
	s.accepted(ctx, "product_update", before, proposed)
	return proposed, nil
}

// EditPriceStock runs the restricted vendor edit flow.
func (s *service) EditPriceStock(ctx context.Context, id string, input PriceStockInput) (Product, error) {
	if input.Price == nil {
		return Product{}, priceError("price is required")
	}
	if !input.Price.IsPositive() {
		return Product{}, priceError("price must be greater than 0")
	}
	before, after, err := s.catalog.EditPriceStock(id, *input.Price, input.StockQty)
	if err != nil {
		return Product{}, s.rejected(ctx, "product_edit", id, err)
	}
	s.accepted(ctx, "product_edit", before, after)
	return after, nil
}

func (s *service) accepted(ctx context.Context, action string, before, after Product) {
	s.metrics.Record(action, metrics.OutcomeSuccess)
	ctx = s.logg.WithField(ctx, "product_id", after.ID)
	s.logg.Info(ctx, "product updated")
	if s.listener == nil {
		return
	}
	if emitted := s.listener.NotifyProductChange(ctx, before, after); emitted > 0 {
		s.metrics.AlertsEmitted(emitted)
	}
}

func (s *service) rejected(ctx context.Context, action, id string, err error) error {
	outcome := metrics.OutcomeFailure
	if _, ok := AsPolicyViolation(err); ok {
		outcome = metrics.OutcomeRejected
	}
	s.metrics.Record(action, outcome)
	s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"product_id": id, "reason": err.Error()}), "product edit rejected")
	return mapCatalogError(err)
}

func (in CreateProductInput) toProduct(id string) Product {
	imageURL := in.ImageURL
	if imageURL == "" {
		imageURL = DefaultImageURL
	}
	return Product{
		ID:          id,
		Title:       in.Title,
		Brand:       in.Brand,
		Category:    in.Category,
		Location:    in.Location,
		Price:       in.Price,
		Condition:   in.Condition,
		MinOrderQty: in.MinOrderQty,
		MaxOrderQty: in.MaxOrderQty,
		StockQty:    in.StockQty,
		ImageURL:    imageURL,
		Description: in.Description,
		Features:    append([]string{}, in.Features...),
	}
}

func priceError(msg string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails(map[string]string{"price": msg})
}

func mapCatalogError(err error) error {
	if violation, ok := AsPolicyViolation(err); ok {
		return pkgerrors.Wrap(pkgerrors.CodeStateConflict, err, violation.Message).
			WithDetails(map[string]string{
				"reason": violation.Reason,
				"title":  violation.Title,
			})
	}
	switch {
	case errors.Is(err, ErrProductNotFound):
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
	case errors.Is(err, ErrDuplicateProduct):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "product already exists")
	case errors.Is(err, ErrNegativePrice),
		errors.Is(err, ErrNegativeStock),
		errors.Is(err, ErrInvalidOrderRange),
		errors.Is(err, ErrMissingID):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "catalog update failed")
}
