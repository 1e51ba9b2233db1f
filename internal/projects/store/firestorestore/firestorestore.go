// Package firestorestore is the cloud record store: one Firestore document
// per project in the "projects" collection, ordered by createdAt.
package firestorestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/takdev/portfolio-backend/internal/projects/domain"
)

const collection = "projects"

type Store struct {
	client *firestore.Client
}

func New(client *firestore.Client) *Store {
	return &Store{client: client}
}

// record is the Firestore document shape. The id lives in the document path,
// not in the document body.
type record struct {
	Title        string    `firestore:"title"`
	Description  string    `firestore:"description"`
	Images       []string  `firestore:"images"`
	Technologies []string  `firestore:"technologies"`
	LiveURL      string    `firestore:"liveUrl"`
	GithubURL    string    `firestore:"githubUrl"`
	Featured     bool      `firestore:"featured"`
	Category     string    `firestore:"category"`
	CreatedAt    time.Time `firestore:"createdAt"`
	UpdatedAt    time.Time `firestore:"updatedAt"`
}

func toRecord(p domain.Project) record {
	return record{
		Title:        p.Title,
		Description:  p.Description,
		Images:       p.Images,
		Technologies: p.Technologies,
		LiveURL:      p.LiveURL,
		GithubURL:    p.GithubURL,
		Featured:     p.Featured,
		Category:     p.Category,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (r record) toProject(id string) domain.Project {
	p := domain.Project{
		ID:           id,
		Title:        r.Title,
		Description:  r.Description,
		Images:       r.Images,
		Technologies: r.Technologies,
		LiveURL:      r.LiveURL,
		GithubURL:    r.GithubURL,
		Featured:     r.Featured,
		Category:     r.Category,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Technologies == nil {
		p.Technologies = []string{}
	}
	return p
}

func (s *Store) List(ctx context.Context) ([]domain.Project, error) {
	iter := s.client.Collection(collection).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	out := make([]domain.Project, 0, 16)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list projects: %w", err)
		}
		var rec record
		if err := snap.DataTo(&rec); err != nil {
			return nil, fmt.Errorf("decode project %s: %w", snap.Ref.ID, err)
		}
		out = append(out, rec.toProject(snap.Ref.ID))
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, id string) (*domain.Project, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}
	var rec record
	if err := snap.DataTo(&rec); err != nil {
		return nil, fmt.Errorf("decode project %s: %w", id, err)
	}
	p := rec.toProject(snap.Ref.ID)
	return &p, nil
}

func (s *Store) Create(ctx context.Context, p domain.Project) (*domain.Project, error) {
	// Create (not Set) so a duplicate id is rejected instead of overwritten.
	if _, err := s.client.Collection(collection).Doc(p.ID).Create(ctx, toRecord(p)); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return &p, nil
}

func (s *Store) Update(ctx context.Context, id string, p domain.Project) (*domain.Project, error) {
	ref := s.client.Collection(collection).Doc(id)
	if _, err := ref.Get(ctx); status.Code(err) == codes.NotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}
	if _, err := ref.Set(ctx, toRecord(p)); err != nil {
		return nil, fmt.Errorf("update project %s: %w", id, err)
	}
	return &p, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	ref := s.client.Collection(collection).Doc(id)
	if _, err := ref.Get(ctx); status.Code(err) == codes.NotFound {
		return domain.ErrNotFound
	} else if err != nil {
		return fmt.Errorf("get project %s: %w", id, err)
	}
	if _, err := ref.Delete(ctx); err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	// A one-document read is the cheapest liveness probe Firestore offers.
	iter := s.client.Collection(collection).Limit(1).Documents(ctx)
	defer iter.Stop()
	if _, err := iter.Next(); err != nil && err != iterator.Done {
		return err
	}
	return nil
}
