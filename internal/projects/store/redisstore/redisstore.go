// Package redisstore keeps the project list as a single JSON value in Redis,
// the server-side analog of the original's capped local cache: a flat ordered
// list serialized as JSON text with a hard byte budget.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/takdev/portfolio-backend/internal/projects/domain"
)

const (
	// DefaultKey is the cache key for the serialized project list.
	DefaultKey = "portfolio:projects"

	// DefaultMaxBytes matches the original 5 MB local storage limit.
	DefaultMaxBytes = 5242880
)

// Store serializes its mutations: every write is a load-modify-save cycle on
// the one cache key, so the mutex keeps concurrent writers from clobbering
// each other's list.
type Store struct {
	mu       sync.Mutex
	client   *redis.Client
	key      string
	maxBytes int64
}

func New(client *redis.Client, key string, maxBytes int64) *Store {
	if key == "" {
		key = DefaultKey
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Store{client: client, key: key, maxBytes: maxBytes}
}

func (s *Store) List(ctx context.Context) ([]domain.Project, error) {
	list, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	domain.SortByCreatedDesc(list)
	return list, nil
}

func (s *Store) Get(ctx context.Context, id string) (*domain.Project, error) {
	list, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			p := list[i]
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) Create(ctx context.Context, p domain.Project) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == p.ID {
			return nil, fmt.Errorf("duplicate project id %s", p.ID)
		}
	}
	if err := s.save(ctx, append(list, p)); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) Update(ctx context.Context, id string, p domain.Project) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			list[i] = p
			if err := s.save(ctx, list); err != nil {
				return nil, err
			}
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].ID == id {
			return s.save(ctx, append(list[:i], list[i+1:]...))
		}
	}
	return domain.ErrNotFound
}

func (s *Store) ReplaceAll(ctx context.Context, list []domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(ctx, list)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Size(ctx context.Context) (int64, int64, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err == redis.Nil {
		return 0, s.maxBytes, nil
	}
	if err != nil {
		return 0, s.maxBytes, fmt.Errorf("read cache size: %w", err)
	}
	return int64(len(data)), s.maxBytes, nil
}

func (s *Store) load(ctx context.Context) ([]domain.Project, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err == redis.Nil {
		return []domain.Project{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read project cache: %w", err)
	}
	var list []domain.Project
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse project cache: %w", err)
	}
	return list, nil
}

// save rejects payloads over the byte budget before touching Redis, so a
// quota failure leaves the previously persisted list unchanged.
func (s *Store) save(ctx context.Context, list []domain.Project) error {
	if list == nil {
		list = []domain.Project{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("marshal project cache: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return domain.ErrQuotaExceeded
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("write project cache: %w", err)
	}
	return nil
}
