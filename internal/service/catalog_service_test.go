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

func newCatalogService(state *memState) *CatalogService {
	return NewCatalogService(CatalogDependencies{
		Store:     &memTxRunner{state: state},
		Catalog:   &memCatalogRepo{state: state},
		Inventory: &memInventoryRepo{state: state},
	})
}

func TestCatalogService_CreateWithProducts(t *testing.T) {
	state := newMemState()
	fresas := state.addProduct("Fresas", 10, 2)
	svc := newCatalogService(state)

	item, err := svc.Create(context.Background(), CreateCatalogInput{
		Name:     "Barra de frutas",
		Type:     "Barra",
		Products: []CatalogProductInput{{ProductID: fresas.ID}},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CatalogStatusActive, item.Status)
	require.Len(t, item.Products, 1)
	assert.True(t, item.Products[0].Quantity.Equal(decimal.NewFromInt(1)))
}

func TestCatalogService_CreateValidation(t *testing.T) {
	state := newMemState()
	svc := newCatalogService(state)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateCatalogInput{Type: "Barra"})
	de := requireDomainError(t, err, http.StatusBadRequest)
	assert.Equal(t, msgCatalogRequired, de.Message)

	_, err = svc.Create(ctx, CreateCatalogInput{Name: "X", Type: "Buffet"})
	de = requireDomainError(t, err, http.StatusBadRequest)
	assert.Equal(t, msgCatalogType, de.Message)

	_, err = svc.Create(ctx, CreateCatalogInput{Name: "X", Type: "Combo", Products: []CatalogProductInput{{ProductID: 999}}})
	requireDomainError(t, err, http.StatusNotFound)
	assert.Empty(t, state.catalog)
}

func TestCatalogService_ListDefaultsToActive(t *testing.T) {
	state := newMemState()
	state.addCatalogItem("Barra activa", domain.CatalogStatusActive)
	state.addCatalogItem("Barra retirada", domain.CatalogStatusInactive)
	svc := newCatalogService(state)

	items, err := svc.List(context.Background(), CatalogListInput{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Barra activa", items[0].Name)

	inactive, err := svc.List(context.Background(), CatalogListInput{Status: "Inactivo"})
	require.NoError(t, err)
	require.Len(t, inactive, 1)
	assert.Equal(t, "Barra retirada", inactive[0].Name)
}

func TestCatalogService_Update(t *testing.T) {
	state := newMemState()
	item := state.addCatalogItem("Barra", domain.CatalogStatusActive)
	svc := newCatalogService(state)
	ctx := context.Background()

	de := requireDomainError(t, svc.Update(ctx, item.ID, UpdateCatalogInput{}), http.StatusBadRequest)
	assert.Equal(t, msgNothingToUpdate, de.Message)

	bad := "Archivado"
	de = requireDomainError(t, svc.Update(ctx, item.ID, UpdateCatalogInput{Status: &bad}), http.StatusBadRequest)
	assert.Equal(t, msgCatalogStatus, de.Message)

	inactive := "Inactivo"
	require.NoError(t, svc.Update(ctx, item.ID, UpdateCatalogInput{Status: &inactive}))
	assert.Equal(t, domain.CatalogStatusInactive, state.catalog[item.ID].Status)

	requireDomainError(t, svc.Update(ctx, 999, UpdateCatalogInput{Status: &inactive}), http.StatusNotFound)
}

func TestCatalogService_ProductLinks(t *testing.T) {
	state := newMemState()
	item := state.addCatalogItem("Combo", domain.CatalogStatusActive)
	chips := state.addProduct("Papas", 5, 1)
	svc := newCatalogService(state)
	ctx := context.Background()

	in := CatalogProductInput{ProductID: chips.ID, Quantity: decimal.NewFromInt(3)}
	require.NoError(t, svc.AddProduct(ctx, item.ID, in))

	de := requireDomainError(t, svc.AddProduct(ctx, item.ID, in), http.StatusConflict)
	assert.Equal(t, msgProductLinked, de.Message)

	requireDomainError(t, svc.AddProduct(ctx, 999, in), http.StatusNotFound)
	requireDomainError(t, svc.AddProduct(ctx, item.ID, CatalogProductInput{}), http.StatusBadRequest)

	require.NoError(t, svc.RemoveProduct(ctx, item.ID, chips.ID))
	de = requireDomainError(t, svc.RemoveProduct(ctx, item.ID, chips.ID), http.StatusNotFound)
	assert.Equal(t, msgRelationNotFound, de.Message)
}

func TestCatalogService_SetImage(t *testing.T) {
	state := newMemState()
	item := state.addCatalogItem("Barra", domain.CatalogStatusActive)
	svc := newCatalogService(state)
	ctx := context.Background()

	de := requireDomainError(t, svc.SetImage(ctx, item.ID, "  "), http.StatusBadRequest)
	assert.Equal(t, msgImageURLRequired, de.Message)

	require.NoError(t, svc.SetImage(ctx, item.ID, "http://img.test/a.png"))
	assert.Equal(t, "http://img.test/a.png", *state.catalog[item.ID].ImageURL)

	require.NoError(t, svc.Delete(ctx, item.ID))
	requireDomainError(t, svc.Delete(ctx, item.ID), http.StatusNotFound)
}
