package dashboard

import (
	"context"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

// DefaultLowStockThreshold flags listings with fewer units than this.
const DefaultLowStockThreshold = 100

// Catalog is the product surface the vendor dashboard reads.
type Catalog interface {
	Count(ctx context.Context) int
	CountLowStock(ctx context.Context, threshold int) int
}

// Orders is the order surface both dashboards read.
type Orders interface {
	CountByStatus(ctx context.Context, buyerID string, status enums.OrderStatus) int
	CountAllByStatus(ctx context.Context, status enums.OrderStatus) int
}

// Subscriptions counts a user's alert subscriptions.
type Subscriptions interface {
	Count(ctx context.Context, userID string) int
}

// Summary is the role-specific dashboard payload. Only the fields for the
// caller's role are set.
type Summary struct {
	Role          enums.Role `json:"role"`
	TotalOrders   *int       `json:"totalOrders,omitempty"`
	PendingOrders int        `json:"pendingOrders"`
	Subscriptions *int       `json:"subscriptions,omitempty"`
	Products      *int       `json:"products,omitempty"`
	LowStock      *int       `json:"lowStock,omitempty"`
}

// ServiceParams groups dependencies for the dashboard service.
type ServiceParams struct {
	Catalog           Catalog
	Orders            Orders
	Subscriptions     Subscriptions
	LowStockThreshold int
}

// Service builds dashboard summaries.
type Service interface {
	Summary(ctx context.Context, userID string, role enums.Role) (Summary, error)
}

type service struct {
	catalog   Catalog
	orders    Orders
	subs      Subscriptions
	threshold int
}

// NewService builds a dashboard service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Catalog == nil || params.Orders == nil || params.Subscriptions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog, orders and subscriptions are required")
	}
	threshold := params.LowStockThreshold
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	return &service{
		catalog:   params.Catalog,
		orders:    params.Orders,
		subs:      params.Subscriptions,
		threshold: threshold,
	}, nil
}

func (s *service) Summary(ctx context.Context, userID string, role enums.Role) (Summary, error) {
	switch role {
	case enums.RoleBuyer:
		total := 0
		for _, status := range []enums.OrderStatus{
			enums.OrderStatusPending, enums.OrderStatusShipped,
			enums.OrderStatusCompleted, enums.OrderStatusCancelled,
		} {
			total += s.orders.CountByStatus(ctx, userID, status)
		}
		subs := s.subs.Count(ctx, userID)
		return Summary{
			Role:          role,
			TotalOrders:   &total,
			PendingOrders: s.orders.CountByStatus(ctx, userID, enums.OrderStatusPending),
			Subscriptions: &subs,
		}, nil
	case enums.RoleVendor:
		products := s.catalog.Count(ctx)
		lowStock := s.catalog.CountLowStock(ctx, s.threshold)
		return Summary{
			Role:          role,
			PendingOrders: s.orders.CountAllByStatus(ctx, enums.OrderStatusPending),
			Products:      &products,
			LowStock:      &lowStock,
		}, nil
	default:
		return Summary{}, pkgerrors.New(pkgerrors.CodeForbidden, "unknown role")
	}
}
