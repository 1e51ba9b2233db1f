package visitors

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/takdev/portfolio-backend/internal/auth"
)

type Handler struct {
	recorder *Recorder
}

func NewHandler(recorder *Recorder) *Handler {
	return &Handler{recorder: recorder}
}

// Register attaches the beacon routes. The beacon itself is public; the
// stats view is admin-only.
func (h *Handler) Register(rg *gin.RouterGroup, authorizer auth.Authorizer) {
	rg.POST("", h.record)
	rg.GET("/stats", auth.AdminRequired(authorizer), h.stats)
}

func (h *Handler) record(c *gin.Context) {
	var v Visit
	// a malformed beacon is still answered with success: telemetry must
	// never surface errors into the page
	if err := c.ShouldBindJSON(&v); err == nil {
		h.recorder.Record(c.ClientIP(), v)
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": h.recorder.Stats()})
}
