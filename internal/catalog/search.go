package catalog

import (
	"strings"

	"github.com/angelmondragon/storewise-backend/pkg/db/models"
	"golang.org/x/text/cases"
)

// fold lowercases s with Unicode case folding. A Caser is stateful, so a new
// one is built per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

// Matches reports whether the product name contains query case-insensitively
// or the barcode contains it verbatim. An empty query matches everything.
func Matches(product models.Product, query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}
	if strings.Contains(fold(product.Name), fold(query)) {
		return true
	}
	return strings.Contains(product.Barcode, query)
}

// Filter keeps the products matching query, preserving order.
func Filter(products []models.Product, query string) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if Matches(p, query) {
			out = append(out, p)
		}
	}
	return out
}

// FirstLookupMatch implements the register quick search: the first product
// whose name contains query or whose barcode equals it.
func FirstLookupMatch(products []models.Product, query string) (models.Product, bool) {
	folded := fold(query)
	for _, p := range products {
		if strings.Contains(fold(p.Name), folded) || p.Barcode == query {
			return p, true
		}
	}
	return models.Product{}, false
}
