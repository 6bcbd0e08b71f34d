package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeCategory(t *testing.T) {
	cases := map[string]string{
		"":                CategoryFoods,
		"Frutas":          CategoryProduce,
		"  VERDURAS ":     CategoryProduce,
		"Fruta/Vegetales": CategoryProduce,
		"Esencia":         CategoryEssences,
		"snacks":          CategoryChips,
		"Bebída":          CategoryBeverages,
		"Postrés":         CategoryDesserts,
		"otros":           CategoryFoods,
		"desconocida":     CategoryFoods,
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeCategory(in), "input %q", in)
	}
}

func TestStockLevel(t *testing.T) {
	p := InventoryProduct{CurrentStock: decimal.NewFromInt(5), MinStock: decimal.NewFromInt(5)}
	assert.Equal(t, StockLevelLow, p.StockLevel())
	assert.True(t, p.IsLowStock())

	p.CurrentStock = decimal.RequireFromString("9.5")
	assert.Equal(t, StockLevelMedium, p.StockLevel())

	p.CurrentStock = decimal.NewFromInt(11)
	assert.Equal(t, StockLevelNormal, p.StockLevel())
}
