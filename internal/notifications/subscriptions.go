package notifications

import (
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

// Subscription is a user's opt-in alert for one product and alert type.
type Subscription struct {
	ID           string                   `json:"id"`
	ProductID    string                   `json:"productId"`
	ProductTitle string                   `json:"productTitle"`
	Type         enums.SubscriptionType   `json:"type"`
	Status       enums.SubscriptionStatus `json:"status"`
}

// Subscriptions holds at most one entry per (product id, type).
// It is not safe for concurrent use; Service serializes access.
type Subscriptions struct {
	items []Subscription
}

// Toggle removes the entry for (productID, typ) when present, otherwise
// appends a new active one with id. It reports whether the pair is now
// subscribed along with the affected entry.
func (s *Subscriptions) Toggle(id, productID string, typ enums.SubscriptionType, title string) (Subscription, bool) {
	for i, sub := range s.items {
		if sub.ProductID == productID && sub.Type == typ {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return sub, false
		}
	}
	sub := Subscription{
		ID:           id,
		ProductID:    productID,
		ProductTitle: title,
		Type:         typ,
		Status:       enums.SubscriptionStatusActive,
	}
	s.items = append(s.items, sub)
	return sub, true
}

// Remove deletes the entry with the given id.
func (s *Subscriptions) Remove(id string) bool {
	for i, sub := range s.items {
		if sub.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// Active reports whether an active entry exists for (productID, typ).
func (s *Subscriptions) Active(productID string, typ enums.SubscriptionType) bool {
	for _, sub := range s.items {
		if sub.ProductID == productID && sub.Type == typ && sub.Status == enums.SubscriptionStatusActive {
			return true
		}
	}
	return false
}

// List returns a copy of the entries in creation order.
func (s *Subscriptions) List() []Subscription {
	return append([]Subscription{}, s.items...)
}

// Len returns the number of entries.
func (s *Subscriptions) Len() int {
	return len(s.items)
}
