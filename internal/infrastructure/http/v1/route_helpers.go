package v1

import (
	"github.com/gin-gonic/gin"
)

// catalogRoutes is the route surface every catalog handler shares.
// List is registered by the caller because several catalogs extend it
// with entity-specific filters.
type catalogRoutes interface {
	Get(c *gin.Context)
	GetByCode(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Deactivate(c *gin.Context)
}

// RegisterCatalogRoutes wires the standard catalog CRUD routes.
func RegisterCatalogRoutes(g *gin.RouterGroup, h catalogRoutes) {
	g.GET("/:id", h.Get)
	g.GET("/by-code/:code", h.GetByCode)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.POST("/:id/deactivate", h.Deactivate)
}
