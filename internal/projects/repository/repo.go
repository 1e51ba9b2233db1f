// Package repository is the single authorized entry point for project reads
// and mutations. It validates input, stamps ids and timestamps, enforces the
// admin check before any write, and fans the resulting snapshots out to
// subscribers.
package repository

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/takdev/portfolio-backend/internal/auth"
	"github.com/takdev/portfolio-backend/internal/projects/domain"
	"github.com/takdev/portfolio-backend/internal/projects/store"
)

// Hooks are invoked after a mutation has committed. They are best-effort:
// implementations must not block and their failures never roll back the
// originating write. The synchronizer and the mail notifier hang off these.
type Hooks struct {
	Added   func(domain.Project)
	Updated func(domain.Project)
	Deleted func(id string)
}

type Repository struct {
	store      store.Store
	authorizer auth.Authorizer
	hooks      Hooks
	hub        *hub
	now        func() time.Time
}

func New(st store.Store, authorizer auth.Authorizer, hooks Hooks) *Repository {
	return &Repository{
		store:      st,
		authorizer: authorizer,
		hooks:      hooks,
		hub:        newHub(),
		now:        time.Now,
	}
}

// ListAll returns every project, newest first. The read path never fails the
// caller: a backend error is logged and an empty list returned, so a page
// render survives an unreachable store.
func (r *Repository) ListAll(ctx context.Context) []domain.Project {
	list, err := r.store.List(ctx)
	if err != nil {
		log.Printf("[projects] list failed, serving empty: %v", err)
		return []domain.Project{}
	}
	return list
}

// GetByID returns the record or domain.ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return r.store.Get(ctx, id)
}

// Subscribe registers fn for snapshot pushes: once immediately with the
// current list, then after every committed mutation. The returned function
// stops delivery; calling it more than once is a no-op.
func (r *Repository) Subscribe(fn func([]domain.Project)) func() {
	return r.hub.subscribe(fn, func() []domain.Project {
		return r.ListAll(context.Background())
	})
}

// Add creates a project. The stored record is returned with its generated id
// and createdAt == updatedAt.
func (r *Repository) Add(ctx context.Context, credential string, in domain.Input) (*domain.Project, error) {
	if !r.authorizer.IsAuthorized(ctx, credential) {
		return nil, domain.ErrUnauthorized
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" {
		return nil, fmt.Errorf("%w: title and description required", domain.ErrValidation)
	}

	p := domain.NewProject(in)
	p.ID = domain.NewProjectID()
	now := r.now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	created, err := r.store.Create(ctx, p)
	if err != nil {
		return nil, err
	}

	log.Printf("[projects] added %s (%s)", created.ID, created.Title)
	if r.hooks.Added != nil {
		r.hooks.Added(*created)
	}
	r.publish(ctx)
	return created, nil
}

// Update merges the patch over the stored record. A field present in the
// request always overwrites, including explicit empty strings and arrays;
// absent fields are untouched.
func (r *Repository) Update(ctx context.Context, credential, id string, patch domain.Patch) (*domain.Project, error) {
	if !r.authorizer.IsAuthorized(ctx, credential) {
		return nil, domain.ErrUnauthorized
	}

	existing, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := patch.Apply(*existing)
	merged.ID = existing.ID
	merged.CreatedAt = existing.CreatedAt
	merged.UpdatedAt = r.now().UTC()

	updated, err := r.store.Update(ctx, id, merged)
	if err != nil {
		return nil, err
	}

	log.Printf("[projects] updated %s", id)
	if r.hooks.Updated != nil {
		r.hooks.Updated(*updated)
	}
	r.publish(ctx)
	return updated, nil
}

// Delete removes the record permanently. There is no soft delete.
func (r *Repository) Delete(ctx context.Context, credential, id string) error {
	if !r.authorizer.IsAuthorized(ctx, credential) {
		return domain.ErrUnauthorized
	}
	if err := r.store.Delete(ctx, id); err != nil {
		return err
	}

	log.Printf("[projects] deleted %s", id)
	if r.hooks.Deleted != nil {
		r.hooks.Deleted(id)
	}
	r.publish(ctx)
	return nil
}

// ImportBulk writes each record in sequence, assigning a fresh id when none
// is given and defaulting missing fields. The batch is best-effort and
// non-atomic: a mid-batch failure leaves earlier records committed, and the
// error says how many made it.
func (r *Repository) ImportBulk(ctx context.Context, credential string, records []domain.Project) ([]domain.Project, error) {
	if !r.authorizer.IsAuthorized(ctx, credential) {
		return nil, domain.ErrUnauthorized
	}
	if records == nil {
		return nil, fmt.Errorf("%w: projects payload must be an array", domain.ErrValidation)
	}

	now := r.now().UTC()
	created := make([]domain.Project, 0, len(records))
	for i, rec := range records {
		if rec.ID == "" {
			rec.ID = domain.NewProjectID()
		}
		if strings.TrimSpace(rec.Title) == "" {
			rec.Title = "Untitled"
		}
		if rec.Images == nil {
			rec.Images = []string{}
		}
		if rec.Technologies == nil {
			rec.Technologies = []string{}
		}
		if rec.Category == "" {
			rec.Category = domain.DefaultCategory
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
		rec.UpdatedAt = now

		p, err := r.store.Create(ctx, rec)
		if err != nil {
			r.publish(ctx)
			return created, fmt.Errorf("import stopped at record %d (%d written): %w", i, len(created), err)
		}
		created = append(created, *p)
	}

	log.Printf("[projects] imported %d records", len(created))
	r.publish(ctx)
	return created, nil
}

// ExportAll is the operator-facing full read. Unlike ListAll it surfaces
// store failures instead of degrading to empty.
func (r *Repository) ExportAll(ctx context.Context, credential string) ([]domain.Project, error) {
	if !r.authorizer.IsAuthorized(ctx, credential) {
		return nil, domain.ErrUnauthorized
	}
	list, err := r.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("export projects: %w", err)
	}
	return list, nil
}

// ClearAll wipes every record.
func (r *Repository) ClearAll(ctx context.Context, credential string) error {
	if !r.authorizer.IsAuthorized(ctx, credential) {
		return domain.ErrUnauthorized
	}

	if rep, ok := r.store.(store.Replacer); ok {
		if err := rep.ReplaceAll(ctx, []domain.Project{}); err != nil {
			return err
		}
	} else {
		list, err := r.store.List(ctx)
		if err != nil {
			return err
		}
		for _, p := range list {
			if err := r.store.Delete(ctx, p.ID); err != nil {
				return err
			}
		}
	}

	log.Printf("[projects] cleared all records")
	r.publish(ctx)
	return nil
}

// Stats describes how full the store is.
type Stats struct {
	TotalProjects int   `json:"totalProjects"`
	BytesUsed     int64 `json:"bytesUsed"`
	BytesBudget   int64 `json:"bytesBudget,omitempty"`
}

func (r *Repository) Stats(ctx context.Context) (Stats, error) {
	list, err := r.store.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{TotalProjects: len(list)}
	if sz, ok := r.store.(store.Sizer); ok {
		used, budget, err := sz.Size(ctx)
		if err == nil {
			st.BytesUsed = used
			st.BytesBudget = budget
		}
	}
	return st, nil
}

// Ping reports store liveness for the health endpoint.
func (r *Repository) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

func (r *Repository) publish(ctx context.Context) {
	r.hub.publish(r.ListAll(ctx))
}
