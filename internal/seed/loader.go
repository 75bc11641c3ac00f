package seed

import (
	"fmt"

	"github.com/angelmondragon/marketplace-backend/internal/catalog"
	"github.com/angelmondragon/marketplace-backend/internal/notifications"
	"github.com/angelmondragon/marketplace-backend/internal/orders"
	"github.com/angelmondragon/marketplace-backend/internal/users"
)

// Loaded holds the containers built from the dataset.
type Loaded struct {
	Catalog *catalog.Catalog
	Orders  orders.Service
}

// Load validates d, seeds the accounts into dir and builds the catalog and
// the order book.
func Load(d Data, dir *users.Directory) (Loaded, error) {
	if err := Validate(d); err != nil {
		return Loaded{}, fmt.Errorf("invalid seed data: %w", err)
	}
	for _, acct := range d.Accounts {
		if err := dir.Seed(acct.User, acct.Password); err != nil {
			return Loaded{}, fmt.Errorf("seed account %s: %w", acct.User.Email, err)
		}
	}
	cat, err := catalog.New(d.Products)
	if err != nil {
		return Loaded{}, fmt.Errorf("seed catalog: %w", err)
	}
	book, err := orders.NewService(d.Orders)
	if err != nil {
		return Loaded{}, fmt.Errorf("seed orders: %w", err)
	}
	return Loaded{Catalog: cat, Orders: book}, nil
}

// SeedSubscriptions installs the mock subscriptions. It runs after Load
// because the notifications service resolves products through the catalog.
func (d Data) SeedSubscriptions(svc notifications.Service) {
	for userID, subs := range d.Subscriptions {
		svc.Seed(userID, subs)
	}
}
