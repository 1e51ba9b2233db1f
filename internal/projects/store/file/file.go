// Package file persists project records in a single JSON database file using
// the same `{"projects": [...]}` envelope the original flat-file server kept.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/takdev/portfolio-backend/internal/projects/domain"
)

type Store struct {
	mu   sync.Mutex
	path string
}

type dbFile struct {
	Projects []domain.Project `json:"projects"`
}

// New opens (and if needed seeds) the database file at path.
func New(path string) (*Store, error) {
	s := &Store{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.write(dbFile{Projects: []domain.Project{}}); err != nil {
			return nil, fmt.Errorf("init db file: %w", err)
		}
	}
	return s, nil
}

func (s *Store) List(ctx context.Context) ([]domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.read()
	if err != nil {
		return nil, err
	}
	domain.SortByCreatedDesc(db.Projects)
	return db.Projects, nil
}

func (s *Store) Get(ctx context.Context, id string) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.read()
	if err != nil {
		return nil, err
	}
	for i := range db.Projects {
		if db.Projects[i].ID == id {
			p := db.Projects[i]
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) Create(ctx context.Context, p domain.Project) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.read()
	if err != nil {
		return nil, err
	}
	for i := range db.Projects {
		if db.Projects[i].ID == p.ID {
			return nil, fmt.Errorf("duplicate project id %s", p.ID)
		}
	}
	db.Projects = append(db.Projects, p)
	if err := s.write(db); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) Update(ctx context.Context, id string, p domain.Project) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.read()
	if err != nil {
		return nil, err
	}
	for i := range db.Projects {
		if db.Projects[i].ID == id {
			db.Projects[i] = p
			if err := s.write(db); err != nil {
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

	db, err := s.read()
	if err != nil {
		return err
	}
	for i := range db.Projects {
		if db.Projects[i].ID == id {
			db.Projects = append(db.Projects[:i], db.Projects[i+1:]...)
			return s.write(db)
		}
	}
	return domain.ErrNotFound
}

func (s *Store) ReplaceAll(ctx context.Context, list []domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]domain.Project, len(list))
	copy(cp, list)
	return s.write(dbFile{Projects: cp})
}

func (s *Store) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.read()
	return err
}

func (s *Store) read() (dbFile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return dbFile{}, fmt.Errorf("read db file: %w", err)
	}
	var db dbFile
	if err := json.Unmarshal(data, &db); err != nil {
		return dbFile{}, fmt.Errorf("parse db file: %w", err)
	}
	if db.Projects == nil {
		db.Projects = []domain.Project{}
	}
	return db, nil
}

// write serializes via a temp file and renames it into place so a crashed
// write never leaves a half-written database behind.
func (s *Store) write(db dbFile) error {
	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal db file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".projects-db-*.json")
	if err != nil {
		return fmt.Errorf("create temp db file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp db file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp db file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace db file: %w", err)
	}
	return nil
}
