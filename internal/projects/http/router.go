package http

import (
	"github.com/gin-gonic/gin"

	"github.com/takdev/portfolio-backend/internal/auth"
)

// Register attaches the project routes to the given group. Reads are public;
// every mutating route and the export path sit behind the admin check.
func (h *Handler) Register(rg *gin.RouterGroup, authorizer auth.Authorizer) {
	rg.GET("", h.list)
	rg.GET("/stream", h.stream)
	rg.GET("/:id", h.get)

	admin := rg.Group("")
	admin.Use(auth.AdminRequired(authorizer))

	admin.POST("", h.create)
	admin.PUT("/:id", h.update)
	admin.DELETE("/:id", h.delete)
	admin.DELETE("", h.clear)
	admin.POST("/import", h.importBulk)
	admin.GET("/export", h.export)
	admin.GET("/stats", h.stats)
}
