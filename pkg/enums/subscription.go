package enums

import "fmt"

// SubscriptionType is the kind of product alert a user opted into.
type SubscriptionType string

const (
	SubscriptionTypePrice SubscriptionType = "price"
	SubscriptionTypeStock SubscriptionType = "stock"
)

var validSubscriptionTypes = []SubscriptionType{
	SubscriptionTypePrice,
	SubscriptionTypeStock,
}

// IsValid checks whether the given type matches the canonical enum.
func (s SubscriptionType) IsValid() bool {
	for _, candidate := range validSubscriptionTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSubscriptionType converts raw strings into SubscriptionType.
func ParseSubscriptionType(value string) (SubscriptionType, error) {
	for _, candidate := range validSubscriptionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid subscription type %q", value)
}

// SubscriptionStatus tracks whether an alert subscription fires.
type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusInactive SubscriptionStatus = "inactive"
)

// IsValid checks whether the given status matches the canonical enum.
func (s SubscriptionStatus) IsValid() bool {
	return s == SubscriptionStatusActive || s == SubscriptionStatusInactive
}
