package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Canonical inventory categories.
const (
	CategoryProduce     = "Fruta/Vegetales"
	CategoryChips       = "chips"
	CategoryToppings    = "toppings"
	CategoryEssences    = "escencias"
	CategorySupplements = "Suplementos"
	CategoryFoods       = "Alimentos"
	CategoryBeverages   = "bebidas"
	CategoryDesserts    = "postres"
)

// categorySynonyms maps folded input to a canonical category. Keys are
// lowercase without accents.
var categorySynonyms = map[string]string{
	"topping":         CategoryToppings,
	"toppings":        CategoryToppings,
	"chip":            CategoryChips,
	"chips":           CategoryChips,
	"fruta/vegetales": CategoryProduce,
	"fruta":           CategoryProduce,
	"frutas":          CategoryProduce,
	"vegetales":       CategoryProduce,
	"verduras":        CategoryProduce,
	"escencias":       CategoryEssences,
	"esencias":        CategoryEssences,
	"escencia":        CategoryEssences,
	"esencia":         CategoryEssences,
	"suplemento":      CategorySupplements,
	"suplementos":     CategorySupplements,
	"alimento":        CategoryFoods,
	"alimentos":       CategoryFoods,
	"bebida":          CategoryBeverages,
	"bebidas":         CategoryBeverages,
	"postre":          CategoryDesserts,
	"postres":         CategoryDesserts,

	// legacy categories
	"snack":        CategoryChips,
	"snacks":       CategoryChips,
	"ingrediente":  CategoryFoods,
	"ingredientes": CategoryFoods,
	"otro":         CategoryFoods,
	"otros":        CategoryFoods,
}

// NormalizeCategory maps free-form input to a canonical category. Unknown
// or empty input maps to Alimentos.
func NormalizeCategory(raw string) string {
	if canonical, ok := categorySynonyms[foldCategory(raw)]; ok {
		return canonical
	}
	return CategoryFoods
}

// Categories lists the canonical categories.
func Categories() []string {
	return []string{
		CategoryProduce, CategoryChips, CategoryToppings, CategoryEssences,
		CategorySupplements, CategoryFoods, CategoryBeverages, CategoryDesserts,
	}
}

func foldCategory(raw string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, raw)
	if err != nil {
		folded = raw
	}
	return strings.ToLower(strings.TrimSpace(folded))
}
