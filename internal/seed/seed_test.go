package seed

import (
	"context"
	"testing"

	"github.com/angelmondragon/marketplace-backend/internal/catalog"
	"github.com/angelmondragon/marketplace-backend/internal/notifications"
	"github.com/angelmondragon/marketplace-backend/internal/users"
	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/security"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestDefaultDatasetIsValid(t *testing.T) {
	data := Default(24)
	require.NoError(t, Validate(data))
	require.Len(t, data.Products, 24)

	first := data.Products[0]
	assert.Equal(t, "1", first.ID)
	assert.True(t, first.Price.Equal(decimal.NewFromInt(100)), "got %s", first.Price)
	assert.Equal(t, 500, first.StockQty)

	for _, p := range data.Products {
		assert.GreaterOrEqual(t, p.Rating, 3.5)
		assert.LessOrEqual(t, p.Rating, 5.0)
		assert.True(t, p.Price.GreaterThanOrEqual(decimal.NewFromInt(100)))
	}

	o1 := data.Orders[0]
	assert.True(t, o1.TotalPrice.Equal(first.Price.Mul(decimal.NewFromInt(50))))
	assert.Equal(t, enums.OrderStatusPending, data.Orders[2].Status)
}

func TestDefaultHasMinimumProducts(t *testing.T) {
	assert.Len(t, Default(0).Products, 5)
}

func TestValidateAggregatesErrors(t *testing.T) {
	data := Default(5)
	data.Products[0].StockQty = -1
	data.Orders[1].ProductID = "404"
	data.Subscriptions[BuyerID] = append(data.Subscriptions[BuyerID], notifications.Subscription{
		ID: "dup", ProductID: "2", Type: enums.SubscriptionTypePrice,
	})

	err := Validate(data)
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 3)
	assert.ErrorIs(t, err, catalog.ErrNegativeStock)
}

func TestLoadSeedsContainers(t *testing.T) {
	ctx := context.Background()
	hasher := security.NewHasher(config.PasswordConfig{ArgonMemoryKB: 64, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32})
	dir, err := users.NewDirectory(hasher)
	require.NoError(t, err)

	data := Default(24)
	loaded, err := Load(data, dir)
	require.NoError(t, err)
	assert.Equal(t, 24, loaded.Catalog.Len())

	vendor, err := dir.Authenticate(ctx, "vendor@example.com", DefaultPassword)
	require.NoError(t, err)
	assert.Equal(t, enums.RoleVendor, vendor.Role)

	summary, err := loaded.Orders.List(ctx, BuyerID)
	require.NoError(t, err)
	assert.Len(t, summary.Orders, 3)

	catalogSvc, err := catalog.NewService(catalog.ServiceParams{Catalog: loaded.Catalog})
	require.NoError(t, err)
	notes, err := notifications.NewService(notifications.ServiceParams{Products: catalogSvc})
	require.NoError(t, err)
	data.SeedSubscriptions(notes)
	assert.Equal(t, 2, notes.Count(ctx, BuyerID))
}
