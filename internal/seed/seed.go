package seed

import (
	"fmt"
	"math"
	"time"

	"github.com/angelmondragon/marketplace-backend/internal/catalog"
	"github.com/angelmondragon/marketplace-backend/internal/notifications"
	"github.com/angelmondragon/marketplace-backend/internal/orders"
	"github.com/angelmondragon/marketplace-backend/internal/users"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// DefaultPassword is shared by the mock accounts.
const DefaultPassword = "Password123"

// Mock account ids.
const (
	BuyerID  = "1"
	VendorID = "2"
)

// Account is a mock user with its plain password.
type Account struct {
	User     users.User
	Password string
}

// Data is the full mock dataset loaded at start.
type Data struct {
	Accounts      []Account
	Products      []catalog.Product
	Orders        []orders.Order
	Subscriptions map[string][]notifications.Subscription
}

var (
	categories = []string{"Electronics", "Machinery", "Tools", "Safety Gear"}
	locations  = []string{"New York", "Los Angeles", "Chicago", "Houston"}
	features   = []string{"Durable Construction", "High-Precision Engineering", "Easy Installation", "Corrosion Resistant"}
)

const productDetails = `

Warranty: 1 year manufacturing warranty.
Packaging: Branded box.
Condition: New factory sealed.
ETA: 2 days.`

type orderSpec struct {
	id        string
	productID string
	qty       int
	at        time.Time
	status    enums.OrderStatus
}

type subscriptionSpec struct {
	id        string
	productID string
	typ       enums.SubscriptionType
}

var (
	mockOrders = []orderSpec{
		{id: "o1", productID: "1", qty: 50, at: date(2023, time.October, 26), status: enums.OrderStatusCompleted},
		{id: "o2", productID: "3", qty: 20, at: date(2023, time.October, 28), status: enums.OrderStatusShipped},
		{id: "o3", productID: "5", qty: 100, at: date(2023, time.November, 1), status: enums.OrderStatusPending},
	}
	mockSubscriptions = []subscriptionSpec{
		{id: "n1", productID: "2", typ: enums.SubscriptionTypePrice},
		{id: "n2", productID: "4", typ: enums.SubscriptionTypeStock},
	}
)

// Default builds the deterministic mock dataset with productCount listings.
func Default(productCount int) Data {
	if productCount < 5 {
		productCount = 5
	}
	products := make([]catalog.Product, 0, productCount)
	for i := 0; i < productCount; i++ {
		products = append(products, mockProduct(i))
	}
	return assemble(products)
}

// assemble attaches the mock accounts, orders and subscriptions to products.
// Orders and subscriptions whose product is absent are skipped.
func assemble(products []catalog.Product) Data {
	byID := make(map[string]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var book []orders.Order
	for _, o := range mockOrders {
		if p, ok := byID[o.productID]; ok {
			book = append(book, mockOrder(o.id, p, o.qty, o.at, o.status))
		}
	}

	var subs []notifications.Subscription
	for _, sub := range mockSubscriptions {
		if p, ok := byID[sub.productID]; ok {
			subs = append(subs, notifications.Subscription{
				ID:           sub.id,
				ProductID:    p.ID,
				ProductTitle: p.Title,
				Type:         sub.typ,
				Status:       enums.SubscriptionStatusActive,
			})
		}
	}

	return Data{
		Accounts: []Account{
			{User: users.User{ID: BuyerID, FullName: "Alice Buyer", Email: "buyer@example.com", CompanyName: "BuyCorp", Role: enums.RoleBuyer}, Password: DefaultPassword},
			{User: users.User{ID: VendorID, FullName: "Bob Vendor", Email: "vendor@example.com", CompanyName: "SellCo", Role: enums.RoleVendor}, Password: DefaultPassword},
		},
		Products:      products,
		Orders:        book,
		Subscriptions: map[string][]notifications.Subscription{BuyerID: subs},
	}
}

// mockProduct derives listing i. Listing 1 is priced at 100.00 with 500 units.
func mockProduct(i int) catalog.Product {
	n := i + 1
	cents := int64((i * 37) % 100)
	price := decimal.NewFromInt(int64(100 + (i*137)%900)).Add(decimal.New(cents, -2))
	tier := i%5 + 1
	return catalog.Product{
		ID:          fmt.Sprintf("%d", n),
		Title:       fmt.Sprintf("Industrial Widget %d", n),
		Brand:       fmt.Sprintf("Brand %c", 'A'+rune(i%5)),
		Category:    categories[i%len(categories)],
		Location:    locations[i%len(locations)],
		Price:       price,
		Condition:   "New, factory sealed",
		MinOrderQty: tier * 10,
		MaxOrderQty: tier * 100,
		StockQty:    (500 + i*173) % 1000,
		ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%d/400/300", n),
		Description: "A high-quality industrial widget designed for durability and performance. Made from premium materials, it ensures reliability in the most demanding environments." + productDetails,
		Features:    append([]string(nil), features...),
		Rating:      math.Round((3.5+float64(i%16)/10)*10) / 10,
	}
}

func mockOrder(id string, product catalog.Product, qty int, at time.Time, status enums.OrderStatus) orders.Order {
	return orders.Order{
		ID:              id,
		BuyerID:         BuyerID,
		ProductID:       product.ID,
		ProductTitle:    product.Title,
		ProductImageURL: fmt.Sprintf("https://picsum.photos/seed/%s/100/100", product.ID),
		Quantity:        qty,
		TotalPrice:      product.Price.Mul(decimal.NewFromInt(int64(qty))),
		OrderDate:       at,
		Status:          status,
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Validate reports every inconsistency in the dataset at once.
func Validate(d Data) error {
	var errs error
	known := make(map[string]struct{}, len(d.Products))
	for _, p := range d.Products {
		if err := p.Validate(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("product %q: %w", p.ID, err))
		}
		if _, dup := known[p.ID]; dup {
			errs = multierr.Append(errs, fmt.Errorf("product %q: duplicate id", p.ID))
		}
		known[p.ID] = struct{}{}
	}

	accounts := map[string]struct{}{}
	for _, acct := range d.Accounts {
		if !acct.User.Role.IsValid() {
			errs = multierr.Append(errs, fmt.Errorf("account %q: invalid role %q", acct.User.ID, acct.User.Role))
		}
		accounts[acct.User.ID] = struct{}{}
	}

	for _, o := range d.Orders {
		if _, ok := known[o.ProductID]; !ok {
			errs = multierr.Append(errs, fmt.Errorf("order %q: unknown product %q", o.ID, o.ProductID))
		}
		if _, ok := accounts[o.BuyerID]; !ok {
			errs = multierr.Append(errs, fmt.Errorf("order %q: unknown buyer %q", o.ID, o.BuyerID))
		}
		if !o.Status.IsValid() {
			errs = multierr.Append(errs, fmt.Errorf("order %q: invalid status %q", o.ID, o.Status))
		}
	}

	for userID, subs := range d.Subscriptions {
		seen := map[string]struct{}{}
		for _, sub := range subs {
			if _, ok := known[sub.ProductID]; !ok {
				errs = multierr.Append(errs, fmt.Errorf("subscription %q: unknown product %q", sub.ID, sub.ProductID))
			}
			key := sub.ProductID + "/" + string(sub.Type)
			if _, dup := seen[key]; dup {
				errs = multierr.Append(errs, fmt.Errorf("subscription %q: duplicate %s for user %q", sub.ID, key, userID))
			}
			seen[key] = struct{}{}
		}
	}
	return errs
}
