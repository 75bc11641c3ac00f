package orders

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// Order is a read-only purchase record.
type Order struct {
	ID              string            `json:"id"`
	BuyerID         string            `json:"-"`
	ProductID       string            `json:"productId"`
	ProductTitle    string            `json:"productTitle"`
	ProductImageURL string            `json:"productImageUrl"`
	Quantity        int               `json:"quantity"`
	TotalPrice      decimal.Decimal   `json:"totalPrice"`
	OrderDate       time.Time         `json:"orderDate"`
	Status          enums.OrderStatus `json:"status"`
}

// Summary is the buyer order listing with per-status counts.
type Summary struct {
	Orders   []Order                   `json:"orders"`
	ByStatus map[enums.OrderStatus]int `json:"byStatus"`
}

// Service reads the order history. Orders are never mutated.
type Service interface {
	List(ctx context.Context, buyerID string) (Summary, error)
	CountByStatus(ctx context.Context, buyerID string, status enums.OrderStatus) int
	CountAllByStatus(ctx context.Context, status enums.OrderStatus) int
}

type service struct {
	mu     sync.RWMutex
	orders []Order
}

// NewService builds the order book from seed records.
func NewService(seed []Order) (Service, error) {
	for _, order := range seed {
		if !order.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status "+string(order.Status))
		}
	}
	return &service{orders: append([]Order(nil), seed...)}, nil
}

// List returns the buyer's orders, newest first.
func (s *service) List(_ context.Context, buyerID string) (Summary, error) {
	if buyerID == "" {
		return Summary{}, pkgerrors.New(pkgerrors.CodeValidation, "buyer id is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := Summary{Orders: []Order{}, ByStatus: map[enums.OrderStatus]int{}}
	for _, order := range s.orders {
		if order.BuyerID != buyerID {
			continue
		}
		out.Orders = append(out.Orders, order)
		out.ByStatus[order.Status]++
	}
	sort.SliceStable(out.Orders, func(i, j int) bool {
		return out.Orders[i].OrderDate.After(out.Orders[j].OrderDate)
	})
	return out, nil
}

func (s *service) CountByStatus(_ context.Context, buyerID string, status enums.OrderStatus) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, order := range s.orders {
		if order.BuyerID == buyerID && order.Status == status {
			count++
		}
	}
	return count
}

func (s *service) CountAllByStatus(_ context.Context, status enums.OrderStatus) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, order := range s.orders {
		if order.Status == status {
			count++
		}
	}
	return count
}
