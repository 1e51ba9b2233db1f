// Package store defines the record-store contract every storage backend
// implements. The repository is written against this interface only; which
// adapter backs it is a deployment decision.
package store

import (
	"context"

	"github.com/takdev/portfolio-backend/internal/projects/domain"
)

// Store is the CRUD contract over project records.
//
// List returns every record ordered createdAt descending. Get returns
// domain.ErrNotFound for a missing id, as do Update and Delete. Create and
// Update write the full record atomically; a failed write leaves the store
// unchanged. Create rejects an id that already exists, so the unique-id
// invariant holds no matter where the id came from. Adapters backed by a
// byte-budgeted cache return domain.ErrQuotaExceeded when a write would
// exceed the budget.
type Store interface {
	List(ctx context.Context) ([]domain.Project, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
	Create(ctx context.Context, p domain.Project) (*domain.Project, error)
	Update(ctx context.Context, id string, p domain.Project) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// Replacer is implemented by adapters that can swap the whole list in one
// write. The synchronizer uses it to persist a merged snapshot.
type Replacer interface {
	ReplaceAll(ctx context.Context, list []domain.Project) error
}

// Sizer is implemented by adapters that track their serialized footprint
// against a byte budget.
type Sizer interface {
	Size(ctx context.Context) (used, budget int64, err error)
}
