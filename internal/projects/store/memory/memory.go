// Package memory is the in-process record store: an ordered list guarded by
// a mutex. It is the zero-config default backend and the store the unit
// tests run against.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/takdev/portfolio-backend/internal/projects/domain"
)

type Store struct {
	mu       sync.Mutex
	list     []domain.Project
	maxBytes int64 // 0 disables the quota
}

func New() *Store {
	return &Store{list: []domain.Project{}}
}

// NewWithQuota builds a store that rejects writes once the JSON-serialized
// list would exceed maxBytes, mirroring the 5 MiB local cache budget.
func NewWithQuota(maxBytes int64) *Store {
	return &Store{list: []domain.Project{}, maxBytes: maxBytes}
}

func (s *Store) List(ctx context.Context) ([]domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Project, len(s.list))
	copy(out, s.list)
	domain.SortByCreatedDesc(out)
	return out, nil
}

func (s *Store) Get(ctx context.Context, id string) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.list {
		if s.list[i].ID == id {
			p := s.list[i]
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) Create(ctx context.Context, p domain.Project) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.list {
		if s.list[i].ID == p.ID {
			return nil, fmt.Errorf("duplicate project id %s", p.ID)
		}
	}
	next := append(append([]domain.Project{}, s.list...), p)
	if err := s.checkQuota(next); err != nil {
		return nil, err
	}
	s.list = next
	return &p, nil
}

func (s *Store) Update(ctx context.Context, id string, p domain.Project) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.list {
		if s.list[i].ID == id {
			next := make([]domain.Project, len(s.list))
			copy(next, s.list)
			next[i] = p
			if err := s.checkQuota(next); err != nil {
				return nil, err
			}
			s.list = next
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.list {
		if s.list[i].ID == id {
			s.list = append(s.list[:i:i], s.list[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *Store) ReplaceAll(ctx context.Context, list []domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.Project, len(list))
	copy(next, list)
	if err := s.checkQuota(next); err != nil {
		return err
	}
	s.list = next
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) Size(ctx context.Context) (int64, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(s.list)
	if err != nil {
		return 0, s.maxBytes, err
	}
	return int64(len(data)), s.maxBytes, nil
}

func (s *Store) checkQuota(list []domain.Project) error {
	if s.maxBytes <= 0 {
		return nil
	}
	data, err := json.Marshal(list)
	if err != nil {
		return err
	}
	if int64(len(data)) > s.maxBytes {
		return domain.ErrQuotaExceeded
	}
	return nil
}
