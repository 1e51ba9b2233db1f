package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/takdev/portfolio-backend/config"
	"github.com/takdev/portfolio-backend/internal/auth"
	"github.com/takdev/portfolio-backend/internal/projects/store"
	filestore "github.com/takdev/portfolio-backend/internal/projects/store/file"
	"github.com/takdev/portfolio-backend/internal/projects/store/firestorestore"
	"github.com/takdev/portfolio-backend/internal/projects/store/memory"
	"github.com/takdev/portfolio-backend/internal/projects/store/postgres"
	"github.com/takdev/portfolio-backend/internal/projects/store/redisstore"
)

// Backend owns the opened record store, the authorizer that matches it, and
// whatever clients need closing on shutdown.
type Backend struct {
	Store      store.Store
	Authorizer auth.Authorizer
	closers    []func()
}

func (b *Backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// OpenBackend builds the record store selected by STORE_BACKEND and the
// authorizer appropriate for it: Firebase-verified admin checks whenever
// Firebase credentials are configured, the expiring session token otherwise.
func OpenBackend(ctx context.Context, cfg *config.Config) (*Backend, error) {
	b := &Backend{Authorizer: auth.NewSessionAuthorizer()}

	switch cfg.Store.Backend {
	case "memory":
		b.Store = memory.NewWithQuota(cfg.Store.QuotaBytes)

	case "file":
		st, err := filestore.New(cfg.Store.FilePath)
		if err != nil {
			return nil, err
		}
		b.Store = st

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		b.closers = append(b.closers, func() { client.Close() })
		b.Store = redisstore.New(client, cfg.Redis.Key, cfg.Store.QuotaBytes)

	case "firestore":
		app, err := auth.InitializeFirebase(ctx, cfg.Firebase.CredentialsPath, cfg.Firebase.ProjectID)
		if err != nil {
			return nil, err
		}
		fsClient, err := app.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("firestore client: %w", err)
		}
		b.closers = append(b.closers, func() { fsClient.Close() })
		b.Store = firestorestore.New(fsClient)

		authClient, err := app.Auth(ctx)
		if err != nil {
			return nil, fmt.Errorf("firebase auth client: %w", err)
		}
		b.Authorizer = auth.NewFirebaseAuthorizer(authClient, fsClient, cfg.Firebase.AdminUIDs)

	case "postgres":
		pool, err := openDB(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, pool.Close)
		st := postgres.New(pool)
		if err := st.EnsureSchema(ctx); err != nil {
			b.Close()
			return nil, err
		}
		b.Store = st

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	log.Printf("[bootstrap] record store: %s", cfg.Store.Backend)
	return b, nil
}

func openDB(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DB_DSN is not set")
	}

	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(cctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	pctx, pcancel := context.WithTimeout(ctx, 2*time.Second)
	defer pcancel()

	if err := pool.Ping(pctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return pool, nil
}
