package http

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/takdev/portfolio-backend/internal/projects/domain"
)

// stream pushes the full project list as a server-sent event whenever the
// store changes. The first event carries the current snapshot. Slow readers
// drop intermediate snapshots rather than blocking writers.
func (h *Handler) stream(c *gin.Context) {
	snapshots := make(chan []domain.Project, 8)

	unsubscribe := h.repo.Subscribe(func(list []domain.Project) {
		select {
		case snapshots <- list:
		default: // reader is behind; it will catch up on the next change
		}
	})
	defer unsubscribe()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case list := <-snapshots:
			c.SSEvent("projects", list)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
