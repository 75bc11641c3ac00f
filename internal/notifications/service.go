package notifications

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/angelmondragon/marketplace-backend/internal/catalog"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/metrics"
	"github.com/google/uuid"
)

// ProductLookup resolves catalog products by id.
type ProductLookup interface {
	Get(ctx context.Context, id string) (catalog.Product, error)
}

// ToggleInput is the toggleSubscription payload.
type ToggleInput struct {
	ProductID    string `json:"productId" validate:"required"`
	Type         string `json:"type" validate:"required,oneof=price stock"`
	ProductTitle string `json:"productTitle"`
}

// ToggleResult reports the state of the (product, type) pair after a toggle.
type ToggleResult struct {
	Subscribed   bool         `json:"subscribed"`
	Subscription Subscription `json:"subscription"`
}

// ServiceParams groups dependencies for the notifications service.
type ServiceParams struct {
	Products ProductLookup
	Metrics  *metrics.DomainMetrics
	Logger   *logger.Logger
	Clock    func() time.Time
	NewID    func() string
}

// Service manages per-user subscriptions and the alert inbox.
type Service interface {
	List(ctx context.Context, userID string) ([]Subscription, error)
	Toggle(ctx context.Context, userID string, input ToggleInput) (ToggleResult, error)
	Remove(ctx context.Context, userID, subscriptionID string) (bool, error)
	Count(ctx context.Context, userID string) int
	Alerts(ctx context.Context, userID string) ([]Alert, error)
	MarkRead(ctx context.Context, userID, alertID string) (Alert, error)
	Seed(userID string, subs []Subscription)
	NotifyProductChange(ctx context.Context, before, after catalog.Product) int
}

type service struct {
	mu       sync.Mutex
	subs     map[string]*Subscriptions
	alerts   map[string][]Alert
	products ProductLookup
	metrics  *metrics.DomainMetrics
	logg     *logger.Logger
	clock    func() time.Time
	newID    func() string
}

// NewService builds a notifications service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product lookup is required")
	}
	svc := &service{
		subs:     map[string]*Subscriptions{},
		alerts:   map[string][]Alert{},
		products: params.Products,
		metrics:  params.Metrics,
		logg:     params.Logger,
		clock:    params.Clock,
		newID:    params.NewID,
	}
	if svc.logg == nil {
		svc.logg = logger.Nop()
	}
	if svc.clock == nil {
		svc.clock = func() time.Time { return time.Now().UTC() }
	}
	if svc.newID == nil {
		svc.newID = uuid.NewString
	}
	return svc, nil
}

// Seed installs pre-built subscriptions for a user, replacing any existing ones.
func (s *service) Seed(userID string, subs []Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[userID] = &Subscriptions{items: append([]Subscription(nil), subs...)}
}

func (s *service) List(_ context.Context, userID string) ([]Subscription, error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subsFor(userID).List(), nil
}

func (s *service) Count(_ context.Context, userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if subs, ok := s.subs[userID]; ok {
		return subs.Len()
	}
	return 0
}

// Toggle flips the subscription for (product, type).
func (s *service) Toggle(ctx context.Context, userID string, input ToggleInput) (ToggleResult, error) {
	if userID == "" {
		return ToggleResult{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	typ, err := enums.ParseSubscriptionType(input.Type)
	if err != nil {
		return ToggleResult{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid subscription type").
			WithDetails(map[string]string{"type": "must be one of price stock"})
	}
	product, err := s.products.Get(ctx, input.ProductID)
	if err != nil {
		return ToggleResult{}, err
	}
	title := input.ProductTitle
	if title == "" {
		title = product.Title
	}

	s.mu.Lock()
	sub, subscribed := s.subsFor(userID).Toggle(s.newID(), product.ID, typ, title)
	s.mu.Unlock()

	action := "unsubscribe"
	if subscribed {
		action = "subscribe"
	}
	s.metrics.Record(action, metrics.OutcomeSuccess)
	return ToggleResult{Subscribed: subscribed, Subscription: sub}, nil
}

// Remove deletes a subscription by id. An unknown id is a no-op and reports
// false.
func (s *service) Remove(_ context.Context, userID, subscriptionID string) (bool, error) {
	if userID == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := s.subsFor(userID).Remove(subscriptionID)
	if removed {
		s.metrics.Record("unsubscribe", metrics.OutcomeSuccess)
	}
	return removed, nil
}

// Alerts returns the user's inbox, newest first.
func (s *service) Alerts(_ context.Context, userID string) ([]Alert, error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := append([]Alert{}, s.alerts[userID]...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *service) MarkRead(_ context.Context, userID, alertID string) (Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inbox := s.alerts[userID]
	for i := range inbox {
		if inbox[i].ID == alertID {
			inbox[i].Read = true
			return inbox[i], nil
		}
	}
	return Alert{}, pkgerrors.New(pkgerrors.CodeNotFound, "alert not found")
}

// NotifyProductChange fans an accepted listing edit out to every user with an
// active matching subscription and returns the number of alerts recorded.
func (s *service) NotifyProductChange(ctx context.Context, before, after catalog.Product) int {
	messages := changeMessages(before, after)
	if len(messages) == 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	emitted := 0
	for userID, subs := range s.subs {
		for _, msg := range messages {
			if !subs.Active(after.ID, msg.typ) {
				continue
			}
			s.alerts[userID] = append(s.alerts[userID], Alert{
				ID:           s.newID(),
				ProductID:    after.ID,
				ProductTitle: after.Title,
				Type:         msg.typ,
				Message:      msg.text,
				CreatedAt:    now,
			})
			emitted++
		}
	}
	if emitted > 0 {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{"product_id": after.ID, "alerts": emitted}), "subscription alerts recorded")
	}
	return emitted
}

func (s *service) subsFor(userID string) *Subscriptions {
	subs, ok := s.subs[userID]
	if !ok {
		subs = &Subscriptions{}
		s.subs[userID] = subs
	}
	return subs
}
