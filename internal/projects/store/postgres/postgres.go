// Package postgres backs the record store with a projects table. Useful when
// the portfolio runs next to an existing Postgres instance instead of
// Firestore.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/takdev/portfolio-backend/internal/projects/domain"
)

type Store struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the projects table when it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const q = `
create table if not exists projects (
    id           text primary key,
    title        text not null,
    description  text not null,
    images       text[] not null default '{}',
    technologies text[] not null default '{}',
    live_url     text not null default '',
    github_url   text not null default '',
    featured     boolean not null default false,
    category     text not null default 'other',
    created_at   timestamptz not null,
    updated_at   timestamptz not null
);
`
	if _, err := s.db.Exec(ctx, q); err != nil {
		return fmt.Errorf("ensure projects table: %w", err)
	}
	return nil
}

const cols = "id, title, description, images, technologies, live_url, github_url, featured, category, created_at, updated_at"

func scanProject(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Images, &p.Technologies,
		&p.LiveURL, &p.GithubURL, &p.Featured, &p.Category, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Technologies == nil {
		p.Technologies = []string{}
	}
	return &p, nil
}

func (s *Store) List(ctx context.Context) ([]domain.Project, error) {
	q := fmt.Sprintf("select %s from projects order by created_at desc;", cols)
	rows, err := s.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (*domain.Project, error) {
	q := fmt.Sprintf("select %s from projects where id = $1;", cols)
	p, err := scanProject(s.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return p, err
}

func (s *Store) Create(ctx context.Context, p domain.Project) (*domain.Project, error) {
	const q = `
insert into projects (id, title, description, images, technologies, live_url, github_url, featured, category, created_at, updated_at)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
`
	_, err := s.db.Exec(ctx, q, p.ID, p.Title, p.Description, p.Images, p.Technologies,
		p.LiveURL, p.GithubURL, p.Featured, p.Category, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		// unique violation means the id already exists
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("duplicate project id %s: %w", p.ID, err)
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) Update(ctx context.Context, id string, p domain.Project) (*domain.Project, error) {
	const q = `
update projects
set title = $2, description = $3, images = $4, technologies = $5,
    live_url = $6, github_url = $7, featured = $8, category = $9, updated_at = $10
where id = $1
returning ` + cols + `;`
	out, err := scanProject(s.db.QueryRow(ctx, q, id, p.Title, p.Description, p.Images,
		p.Technologies, p.LiveURL, p.GithubURL, p.Featured, p.Category, p.UpdatedAt))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return out, err
}

func (s *Store) Delete(ctx context.Context, id string) error {
	ct, err := s.db.Exec(ctx, "delete from projects where id = $1;", id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
