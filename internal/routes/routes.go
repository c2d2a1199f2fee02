package routes

import (
	"net/http"

	"catalog-browser/internal/handlers"

	"github.com/gin-gonic/gin"
)

// Deps are the handlers mounted by RegisterRoutes. Mirror is optional.
type Deps struct {
	Catalog *handlers.CatalogHandler
	Browse  *handlers.BrowseHandler
	Mirror  *handlers.MirrorHandler
}

func RegisterRoutes(router *gin.Engine, d Deps) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	v1 := router.Group("/v1")
	{
		v1.GET("/products", d.Catalog.ListProducts)
		v1.GET("/products/:id", d.Catalog.GetProduct)
		v1.GET("/categories", d.Catalog.ListCategories)

		v1.POST("/sessions", d.Browse.CreateSession)
		v1.GET("/sessions/:sid", d.Browse.GetSession)
		v1.DELETE("/sessions/:sid", d.Browse.DeleteSession)
		v1.PATCH("/sessions/:sid/criteria", d.Browse.UpdateCriteria)
		v1.POST("/sessions/:sid/clear", d.Browse.ClearFilters)
		v1.GET("/sessions/:sid/products/:id", d.Browse.ShowProduct)

		if d.Mirror != nil {
			v1.POST("/mirror/sync", d.Mirror.Sync)
		}
	}
}
