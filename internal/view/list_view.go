// Package view holds the list and detail view models that drive the catalog
// browser. Views own their state and are safe for concurrent use.
package view

import (
	"context"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"catalog-browser/internal/catalog"
	"catalog-browser/internal/models"
)

// Source is the read side of the catalog, served by the API client or the
// MongoDB mirror.
type Source interface {
	FetchProducts(ctx context.Context) ([]models.Product, error)
	FetchProductByID(ctx context.Context, id int) (*models.Product, error)
	FetchCategoryNames(ctx context.Context) ([]string, error)
}

// ListState is the lifecycle of a ListView.
type ListState string

const (
	ListLoading ListState = "loading"
	ListReady   ListState = "ready"
)

// ListSnapshot is an immutable copy of a ListView.
type ListSnapshot struct {
	State           ListState             `json:"state"`
	Criteria        models.FilterCriteria `json:"criteria"`
	Categories      []string              `json:"categories"`
	MaxPrice        float64               `json:"max_price"`
	Total           int                   `json:"total"`
	Products        []models.Product      `json:"products"`
	Error           string                `json:"error,omitempty"`
	CategoriesError string                `json:"categories_error,omitempty"`
}

// ListView keeps the full loaded product set and the active criteria.
// Every criteria change re-runs the pipeline over the full set.
type ListView struct {
	src Source

	mu            sync.RWMutex
	state         ListState
	products      []models.Product
	filtered      []models.Product
	categories    []string
	criteria      models.FilterCriteria
	maxPrice      float64
	loadErr       error
	categoriesErr error
}

func NewListView(src Source) *ListView {
	return &ListView{
		src:        src,
		state:      ListLoading,
		products:   []models.Product{},
		filtered:   []models.Product{},
		categories: []string{},
		criteria:   catalog.DefaultCriteria(models.DefaultMaxPrice),
		maxPrice:   models.DefaultMaxPrice,
	}
}

// Load fetches products and category names concurrently. The two requests
// complete independently: a failure of one does not affect the other.
// Failures are logged and surfaced in the snapshot; the view always ends
// in the ready state.
func (v *ListView) Load(ctx context.Context) {
	v.mu.Lock()
	v.state = ListLoading
	v.mu.Unlock()

	var g errgroup.Group
	g.Go(func() error {
		products, err := v.src.FetchProducts(ctx)
		v.onProducts(products, err)
		return nil
	})
	g.Go(func() error {
		names, err := v.src.FetchCategoryNames(ctx)
		v.onCategories(names, err)
		return nil
	})
	_ = g.Wait()
}

func (v *ListView) onProducts(products []models.Product, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.state = ListReady
	if err != nil {
		log.Printf("❌ Error fetching products: %v", err)
		v.loadErr = err
		v.products = []models.Product{}
		v.refilter()
		return
	}

	v.loadErr = nil
	v.products = products
	v.maxPrice = catalog.MaxPrice(products)
	v.criteria.PriceMax = v.maxPrice
	v.refilter()
}

func (v *ListView) onCategories(names []string, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err != nil {
		log.Printf("❌ Error fetching categories: %v", err)
		v.categoriesErr = err
		v.categories = []string{}
		return
	}
	v.categoriesErr = nil
	v.categories = names
}

// refilter recomputes the filtered list. Callers hold v.mu.
func (v *ListView) refilter() {
	v.filtered = catalog.Apply(v.products, v.criteria)
}

func (v *ListView) update(fn func(c *models.FilterCriteria)) ListSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	fn(&v.criteria)
	v.refilter()
	return v.snapshot()
}

// SetCategory selects a category name, or models.CategoryAll.
func (v *ListView) SetCategory(category string) ListSnapshot {
	return v.update(func(c *models.FilterCriteria) { c.Category = category })
}

// SetSearch sets the free-text search term.
func (v *ListView) SetSearch(term string) ListSnapshot {
	return v.update(func(c *models.FilterCriteria) { c.Search = term })
}

// SetPriceRange sets the inclusive price bounds.
func (v *ListView) SetPriceRange(minPrice, maxPrice float64) ListSnapshot {
	return v.update(func(c *models.FilterCriteria) {
		c.PriceMin = minPrice
		c.PriceMax = maxPrice
	})
}

// SetSort selects the sort key. Unknown keys sort by name.
func (v *ListView) SetSort(key models.SortKey) ListSnapshot {
	return v.update(func(c *models.FilterCriteria) { c.Sort = models.ParseSortKey(string(key)) })
}

// Apply merges a partial criteria update and re-filters once.
func (v *ListView) Apply(patch models.CriteriaPatch) ListSnapshot {
	return v.update(func(c *models.FilterCriteria) { *c = c.Merge(patch) })
}

// ClearFilters restores the default criteria for the loaded set.
func (v *ListView) ClearFilters() ListSnapshot {
	return v.update(func(c *models.FilterCriteria) { *c = catalog.DefaultCriteria(v.maxPrice) })
}

// Criteria returns the active criteria.
func (v *ListView) Criteria() models.FilterCriteria {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.criteria
}

// State returns the lifecycle state.
func (v *ListView) State() ListState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}

// Snapshot returns a copy of the view that later updates do not touch.
func (v *ListView) Snapshot() ListSnapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.snapshot()
}

func (v *ListView) snapshot() ListSnapshot {
	s := ListSnapshot{
		State:      v.state,
		Criteria:   v.criteria,
		Categories: append([]string{}, v.categories...),
		MaxPrice:   v.maxPrice,
		Total:      len(v.products),
		Products:   append([]models.Product{}, v.filtered...),
	}
	if v.loadErr != nil {
		s.Error = v.loadErr.Error()
	}
	if v.categoriesErr != nil {
		s.CategoriesError = v.categoriesErr.Error()
	}
	return s
}
