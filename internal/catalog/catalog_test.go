package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func testProduct(id string, price string, stock int) Product {
	return Product{
		ID:          id,
		Title:       "Industrial Widget " + id,
		Brand:       "Brand A",
		Category:    "Tools",
		Location:    "Chicago",
		Price:       decimal.RequireFromString(price),
		Condition:   "New, factory sealed",
		MinOrderQty: 10,
		MaxOrderQty: 100,
		StockQty:    stock,
		Features:    []string{"Durable Construction"},
		Rating:      4.2,
	}
}

func TestCheckEdit(t *testing.T) {
	current := testProduct("1", "100", 50)

	cases := []struct {
		name          string
		price         string
		stock         int
		requireChange bool
		want          error
	}{
		{name: "price increase rejected", price: "150", stock: 50, want: ErrPriceIncrease},
		{name: "price decrease accepted", price: "90", stock: 50},
		{name: "stock decrease rejected", price: "100", stock: 40, want: ErrStockDecrease},
		{name: "stock increase accepted", price: "100", stock: 60},
		{name: "price checked before stock", price: "101", stock: 1, want: ErrPriceIncrease},
		{name: "unchanged allowed for full update", price: "100.00", stock: 50},
		{name: "unchanged rejected in edit flow", price: "100.00", stock: 50, requireChange: true, want: ErrNoChanges},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			proposed := current
			proposed.Price = decimal.RequireFromString(tc.price)
			proposed.StockQty = tc.stock
			err := CheckEdit(current, proposed, tc.requireChange)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCatalogUpdateScenario(t *testing.T) {
	cat, err := New([]Product{testProduct("1", "100", 500)})
	require.NoError(t, err)

	edit := testProduct("1", "80", 600)
	before, err := cat.Update(edit)
	require.NoError(t, err)
	assert.True(t, before.Price.Equal(decimal.NewFromInt(100)))

	got, ok := cat.Get("1")
	require.True(t, ok)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(80)))
	assert.Equal(t, 600, got.StockQty)

	_, err = cat.Update(testProduct("1", "85", 600))
	assert.ErrorIs(t, err, ErrPriceIncrease)

	got, _ = cat.Get("1")
	assert.True(t, got.Price.Equal(decimal.NewFromInt(80)), "catalog must be unchanged after a rejected edit")
}

func TestCatalogEditPriceStock(t *testing.T) {
	cat, err := New([]Product{testProduct("1", "100", 500)})
	require.NoError(t, err)

	_, _, err = cat.EditPriceStock("1", decimal.NewFromInt(100), 500)
	assert.ErrorIs(t, err, ErrNoChanges)

	_, _, err = cat.EditPriceStock("1", decimal.NewFromInt(100), 499)
	assert.ErrorIs(t, err, ErrStockDecrease)

	before, after, err := cat.EditPriceStock("1", decimal.NewFromInt(95), 500)
	require.NoError(t, err)
	assert.True(t, before.Price.Equal(decimal.NewFromInt(100)))
	assert.True(t, after.Price.Equal(decimal.NewFromInt(95)))
	assert.Equal(t, before.Title, after.Title)

	_, _, err = cat.EditPriceStock("missing", decimal.NewFromInt(1), 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogAddPrependsAndRejectsDuplicates(t *testing.T) {
	cat, err := New([]Product{testProduct("1", "100", 5)})
	require.NoError(t, err)

	require.NoError(t, cat.Add(testProduct("2", "50", 5)))
	all := cat.All()
	require.Len(t, all, 2)
	assert.Equal(t, "2", all[0].ID)

	assert.ErrorIs(t, cat.Add(testProduct("1", "10", 1)), ErrDuplicateProduct)

	invalid := testProduct("3", "10", 1)
	invalid.MaxOrderQty = 1
	assert.ErrorIs(t, cat.Add(invalid), ErrInvalidOrderRange)
	assert.Equal(t, 2, cat.Len())
}

func TestCatalogSnapshotsAreIsolated(t *testing.T) {
	cat, err := New([]Product{testProduct("1", "100", 5)})
	require.NoError(t, err)

	snapshot, _ := cat.Get("1")
	snapshot.Features[0] = "mutated"
	snapshot.StockQty = 0

	fresh, _ := cat.Get("1")
	assert.Equal(t, "Durable Construction", fresh.Features[0])
	assert.Equal(t, 5, fresh.StockQty)
}

func TestCatalogCountBelowStock(t *testing.T) {
	cat, err := New([]Product{testProduct("1", "1", 99), testProduct("2", "1", 100), testProduct("3", "1", 0)})
	require.NoError(t, err)
	assert.Equal(t, 2, cat.CountBelowStock(100))
}

func TestNewRejectsInvalidSeed(t *testing.T) {
	_, err := New([]Product{testProduct("1", "-1", 5)})
	assert.ErrorIs(t, err, ErrNegativePrice)

	_, err = New([]Product{testProduct("1", "1", 5), testProduct("1", "2", 5)})
	assert.ErrorIs(t, err, ErrDuplicateProduct)
}
