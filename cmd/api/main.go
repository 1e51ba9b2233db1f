package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/takdev/portfolio-backend/config"
	"github.com/takdev/portfolio-backend/internal/bootstrap"
	"github.com/takdev/portfolio-backend/internal/notify"
	"github.com/takdev/portfolio-backend/internal/projects/domain"
	"github.com/takdev/portfolio-backend/internal/projects/remote"
	"github.com/takdev/portfolio-backend/internal/projects/repository"
	projectsync "github.com/takdev/portfolio-backend/internal/projects/sync"
	"github.com/takdev/portfolio-backend/internal/visitors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := bootstrap.OpenBackend(ctx, cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer backend.Close()

	var hooks repository.Hooks

	// hybrid mode: replicate local mutations to the remote functions API and
	// reconcile on a schedule
	var syncer *projectsync.Syncer
	if cfg.Sync.RemoteBaseURL != "" {
		local, ok := backend.Store.(projectsync.LocalStore)
		if !ok {
			log.Fatalf("sync: the %s backend cannot act as the local side of hybrid mode", cfg.Store.Backend)
		}
		syncer = projectsync.New(local, remote.New(cfg.Sync.RemoteBaseURL, cfg.Sync.Credential))
		hooks.Added, hooks.Updated, hooks.Deleted = syncer.Hooks()
		if err := syncer.StartPeriodic(cfg.Sync.CronSpec); err != nil {
			log.Fatalf("sync: %v", err)
		}
		defer syncer.Stop()
	}

	if cfg.MailEnabled() {
		mailer := notify.NewMailer(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username,
			cfg.Mail.Password, cfg.Mail.From, cfg.Mail.To)
		added := hooks.Added
		hooks.Added = func(p domain.Project) {
			if added != nil {
				added(p)
			}
			mailer.ProjectAdded(p)
		}
		log.Println("[main] email notifications enabled")
	}

	repo := repository.New(backend.Store, backend.Authorizer, hooks)

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "portfolio-backend",
		Version:     cfg.App.Version,
		Repo:        repo,
		Recorder:    visitors.NewRecorder(),
		Authorizer:  backend.Authorizer,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("[main] listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("[main] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[main] shutdown: %v", err)
	}
}
