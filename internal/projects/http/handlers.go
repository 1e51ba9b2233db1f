package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/takdev/portfolio-backend/internal/auth"
	"github.com/takdev/portfolio-backend/internal/projects/domain"
)

func (h *Handler) list(c *gin.Context) {
	projects := h.repo.ListAll(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"success": true, "projects": projects})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "project": p})
}

func (h *Handler) create(c *gin.Context) {
	var in domain.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	p, err := h.repo.Add(c.Request.Context(), auth.Credential(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Project added successfully",
		"project": p,
	})
}

func (h *Handler) update(c *gin.Context) {
	var patch domain.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	p, err := h.repo.Update(c.Request.Context(), auth.Credential(c), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Project updated successfully",
		"project": p,
	})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.repo.Delete(c.Request.Context(), auth.Credential(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Project deleted successfully"})
}

func (h *Handler) importBulk(c *gin.Context) {
	var records []domain.Project
	if err := c.ShouldBindJSON(&records); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid projects data"})
		return
	}

	created, err := h.repo.ImportBulk(c.Request.Context(), auth.Credential(c), records)
	if err != nil {
		// best-effort batch: everything before the failure stays committed,
		// so report what made it alongside the error
		if len(created) > 0 {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success":  false,
				"message":  err.Error(),
				"projects": created,
			})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Projects imported successfully",
		"projects": created,
	})
}

func (h *Handler) export(c *gin.Context) {
	projects, err := h.repo.ExportAll(c.Request.Context(), auth.Credential(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "projects": projects})
}

func (h *Handler) clear(c *gin.Context) {
	if err := h.repo.ClearAll(c.Request.Context(), auth.Credential(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "All projects cleared"})
}

func (h *Handler) stats(c *gin.Context) {
	st, err := h.repo.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": st})
}

// respondError maps the domain error taxonomy onto the wire contract.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized"})
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Project not found"})
	case errors.Is(err, domain.ErrQuotaExceeded):
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Storage quota exceeded"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
	}
}
