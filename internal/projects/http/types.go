package http

import (
	"github.com/takdev/portfolio-backend/internal/projects/repository"
)

// Handler bundles the dependencies for the projects HTTP endpoints.
type Handler struct {
	repo *repository.Repository
}

func New(repo *repository.Repository) *Handler {
	return &Handler{repo: repo}
}
