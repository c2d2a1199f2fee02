package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"catalog-browser/internal/models"
)

// Upstream is the catalog the mirror copies from.
type Upstream interface {
	FetchProducts(ctx context.Context) ([]models.Product, error)
	FetchCategories(ctx context.Context) ([]models.Category, error)
}

// Mirror stores a copy of the catalog.
type Mirror interface {
	ReplaceAll(ctx context.Context, products []models.Product, categories []models.Category) error
}

// MirrorHandler copies the upstream catalog into the mirror.
type MirrorHandler struct {
	upstream Upstream
	mirror   Mirror
}

func NewMirrorHandler(upstream Upstream, mirror Mirror) *MirrorHandler {
	return &MirrorHandler{
		upstream: upstream,
		mirror:   mirror,
	}
}

// Sync fetches products and categories from the API and replaces the
// mirror contents. The mirror is left untouched if either fetch fails.
func (h *MirrorHandler) Sync(c *gin.Context) {
	var (
		products   []models.Product
		categories []models.Category
	)

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		products, err = h.upstream.FetchProducts(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = h.upstream.FetchCategories(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Printf("❌ Mirror sync fetch failed: %v", err)
		respondError(c, err)
		return
	}

	if err := h.mirror.ReplaceAll(c.Request.Context(), products, categories); err != nil {
		log.Printf("❌ Mirror sync write failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update mirror"})
		return
	}

	log.Printf("✅ Mirror synced: %d products, %d categories", len(products), len(categories))
	c.JSON(http.StatusOK, gin.H{
		"products":   len(products),
		"categories": len(categories),
	})
}
