// Package catalog implements the in-memory filter and sort pipeline used by
// the list views.
package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"catalog-browser/internal/models"
)

// Apply returns the products that satisfy c, sorted by c.Sort. The input
// slice is never modified; the result is a new slice, empty but non-nil
// when nothing matches.
func Apply(products []models.Product, c models.FilterCriteria) []models.Product {
	// collate.Collator and cases.Caser keep internal buffers and are not
	// safe for concurrent use.
	fold := cases.Fold()
	// Blank terms disable the search; otherwise the term is matched as
	// typed, surrounding spaces included.
	var term string
	if strings.TrimSpace(c.Search) != "" {
		term = fold.String(c.Search)
	}

	filtered := make([]models.Product, 0, len(products))
	for _, p := range products {
		if !matchCategory(p, c.Category) {
			continue
		}
		if term != "" && !matchSearch(p, term, fold) {
			continue
		}
		if p.Price < c.PriceMin || p.Price > c.PriceMax {
			continue
		}
		filtered = append(filtered, p)
	}

	sortProducts(filtered, c.Sort)
	return filtered
}

func matchCategory(p models.Product, category string) bool {
	if category == models.CategoryAll {
		return true
	}
	return p.Category.Name == category
}

func matchSearch(p models.Product, term string, fold cases.Caser) bool {
	return strings.Contains(fold.String(p.Title), term) ||
		strings.Contains(fold.String(p.Description), term)
}

// sortProducts orders products in place. Ties keep their input order.
func sortProducts(products []models.Product, key models.SortKey) {
	switch models.ParseSortKey(string(key)) {
	case models.SortByPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price < products[j].Price
		})
	case models.SortByPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price > products[j].Price
		})
	default:
		col := collate.New(language.English)
		sort.SliceStable(products, func(i, j int) bool {
			return col.CompareString(products[i].Title, products[j].Title) < 0
		})
	}
}

// MaxPrice returns the highest price in products, or 0 for an empty set.
func MaxPrice(products []models.Product) float64 {
	var highest float64
	for _, p := range products {
		if p.Price > highest {
			highest = p.Price
		}
	}
	return highest
}

// DefaultCriteria returns the reset state of the filters for a product set
// whose highest price is maxPrice.
func DefaultCriteria(maxPrice float64) models.FilterCriteria {
	return models.FilterCriteria{
		Category: models.CategoryAll,
		Search:   "",
		PriceMin: 0,
		PriceMax: maxPrice,
		Sort:     models.SortByName,
	}
}

// CategoryNames returns the names of categories sorted ascending.
// Duplicate names are kept.
func CategoryNames(categories []models.Category) []string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}
