package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/singleflight"

	"catalog-browser/internal/catalog"
	"catalog-browser/internal/models"
	"catalog-browser/internal/view"
)

// ProductListQuery holds the query parameters of GET /v1/products.
type ProductListQuery struct {
	Category string   `form:"category"`
	Search   string   `form:"q"`
	MinPrice *float64 `form:"min_price" binding:"omitempty,gte=0"`
	MaxPrice *float64 `form:"max_price" binding:"omitempty,gte=0"`
	Sort     string   `form:"sort"`
}

// ProductListResponse is the body of GET /v1/products.
type ProductListResponse struct {
	Criteria models.FilterCriteria `json:"criteria"`
	MaxPrice float64               `json:"max_price"`
	Total    int                   `json:"total"`
	Products []models.Product      `json:"products"`
}

// CatalogHandler serves stateless catalog reads.
type CatalogHandler struct {
	src     view.Source
	sfGroup singleflight.Group // collapses concurrent full-catalog fetches
}

func NewCatalogHandler(src view.Source) *CatalogHandler {
	return &CatalogHandler{src: src}
}

// ListProducts fetches the catalog and applies the query criteria.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var q ProductListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	products, err := h.fetchProducts(c.Request.Context())
	if err != nil {
		log.Printf("❌ Error fetching products: %v", err)
		respondError(c, err)
		return
	}

	maxPrice := catalog.MaxPrice(products)
	criteria := buildCriteria(q, maxPrice)
	filtered := catalog.Apply(products, criteria)

	c.JSON(http.StatusOK, ProductListResponse{
		Criteria: criteria,
		MaxPrice: maxPrice,
		Total:    len(products),
		Products: filtered,
	})
}

// GetProduct shows the detail view of a single product.
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	detail := view.NewDetailView(h.src)
	s := detail.Navigate(c.Request.Context(), c.Param("id"))

	if s.State != view.DetailLoaded {
		respondError(c, s.Err)
		return
	}
	c.JSON(http.StatusOK, s.Product)
}

// ListCategories returns the sorted category names.
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	names, err := h.src.FetchCategoryNames(c.Request.Context())
	if err != nil {
		log.Printf("❌ Error fetching categories: %v", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": names})
}

// fetchProducts shares one in-flight catalog fetch between concurrent
// requests. The shared fetch is detached from any single request, so a
// caller that goes away only abandons its own wait.
func (h *CatalogHandler) fetchProducts(ctx context.Context) ([]models.Product, error) {
	ch := h.sfGroup.DoChan("products", func() (interface{}, error) {
		return h.src.FetchProducts(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]models.Product), nil
	}
}

// buildCriteria turns query parameters into criteria. A missing max price
// means no upper bound beyond the most expensive product.
func buildCriteria(q ProductListQuery, maxPrice float64) models.FilterCriteria {
	criteria := catalog.DefaultCriteria(maxPrice)

	if q.Category != "" {
		criteria.Category = q.Category
	}
	criteria.Search = q.Search
	if q.MinPrice != nil {
		criteria.PriceMin = *q.MinPrice
	}
	if q.MaxPrice != nil {
		criteria.PriceMax = *q.MaxPrice
	}
	criteria.Sort = models.ParseSortKey(q.Sort)
	return criteria
}
