package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snackparty/catering-api/internal/domain"
)

func TestInventoryService_CreateNormalizes(t *testing.T) {
	state := newMemState()
	svc := NewInventoryService(&memInventoryRepo{state: state}, nil)

	p, err := svc.Create(context.Background(), InventoryInput{
		Name:         " Mango ",
		Category:     "Frutas",
		CurrentStock: decimal.RequireFromString("3.5"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Mango", p.Name)
	assert.Equal(t, domain.CategoryProduce, p.Category)
	assert.Equal(t, domain.DefaultUnit, p.Unit)

	_, err = svc.Create(context.Background(), InventoryInput{Name: ""})
	de := requireDomainError(t, err, http.StatusBadRequest)
	assert.Equal(t, msgProductNameRequired, de.Message)

	_, err = svc.Create(context.Background(), InventoryInput{Name: "Sal", MinStock: decimal.NewFromInt(-1)})
	requireDomainError(t, err, http.StatusBadRequest)
}

func TestInventoryService_UpdateStock(t *testing.T) {
	state := newMemState()
	p := state.addProduct("Chocolate", 1, 5)
	svc := NewInventoryService(&memInventoryRepo{state: state}, nil)
	ctx := context.Background()

	de := requireDomainError(t, svc.UpdateStock(ctx, p.ID, nil), http.StatusBadRequest)
	assert.Equal(t, msgStockRequired, de.Message)

	negative := decimal.NewFromInt(-2)
	requireDomainError(t, svc.UpdateStock(ctx, p.ID, &negative), http.StatusBadRequest)

	twelve := decimal.NewFromInt(12)
	require.NoError(t, svc.UpdateStock(ctx, p.ID, &twelve))
	assert.True(t, state.products[p.ID].CurrentStock.Equal(twelve))

	requireDomainError(t, svc.UpdateStock(ctx, 999, &twelve), http.StatusNotFound)
}

func TestInventoryService_LowStockAndStats(t *testing.T) {
	state := newMemState()
	state.addProduct("Fresas", 2, 5)
	state.addProduct("Nutella", 0, 1)
	state.addProduct("Papas", 30, 5)
	svc := NewInventoryService(&memInventoryRepo{state: state}, nil)
	ctx := context.Background()

	low, err := svc.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "Nutella", low[0].Name)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalProducts)
	assert.Equal(t, int64(2), stats.LowStock)
	assert.True(t, stats.TotalUnits.Equal(decimal.NewFromInt(32)))
}

func TestInventoryService_ListByNormalizedCategory(t *testing.T) {
	state := newMemState()
	svc := NewInventoryService(&memInventoryRepo{state: state}, nil)
	ctx := context.Background()
	_, err := svc.Create(ctx, InventoryInput{Name: "Papas", Category: "snacks"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, InventoryInput{Name: "Jugo", Category: "Bebida"})
	require.NoError(t, err)

	chips, err := svc.List(ctx, InventoryListInput{Category: "CHIP"})
	require.NoError(t, err)
	require.Len(t, chips, 1)
	assert.Equal(t, "Papas", chips[0].Name)

	found, err := svc.List(ctx, InventoryListInput{Search: "jug"})
	require.NoError(t, err)
	require.Len(t, found, 1)

	_, err = svc.Update(ctx, 999, InventoryInput{Name: "X"})
	requireDomainError(t, err, http.StatusNotFound)
}
