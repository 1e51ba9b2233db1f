// Package sync reconciles the local record store with the remote functions
// API. The policy is merge-prefer-remote: a record present in both stores
// always takes the remote version in full, and records that only exist
// locally (created while offline) are appended after all remote records.
//
// That policy means an offline local edit to a record that also exists
// remotely does not survive the next reconcile. This mirrors the original
// behavior and is a deliberate decision, not a bug; revisit it before
// attaching anything that needs stronger guarantees.
package sync

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/takdev/portfolio-backend/internal/projects/domain"
	"github.com/takdev/portfolio-backend/internal/projects/store"
)

// RemoteAPI is what the synchronizer needs from the remote client.
type RemoteAPI interface {
	FetchAll(ctx context.Context) ([]domain.Project, error)
	PushAdd(ctx context.Context, p domain.Project) error
	PushUpdate(ctx context.Context, p domain.Project) error
	PushDelete(ctx context.Context, id string) error
}

// LocalStore is the local side of the reconcile: a record store that can
// swap its whole list in one write.
type LocalStore interface {
	store.Store
	store.Replacer
}

type Syncer struct {
	local   LocalStore
	remote  RemoteAPI
	cron    *cron.Cron
	wg      sync.WaitGroup
	timeout time.Duration
}

func New(local LocalStore, remote RemoteAPI) *Syncer {
	return &Syncer{local: local, remote: remote, timeout: 15 * time.Second}
}

// SyncOnce performs one reconcile. A remote failure is the offline case: it
// is logged and swallowed, the local list stays authoritative.
func (s *Syncer) SyncOnce(ctx context.Context) error {
	remote, err := s.remote.FetchAll(ctx)
	if err != nil {
		log.Printf("[sync] remote unavailable, keeping local data: %v", err)
		return nil
	}

	local, err := s.local.List(ctx)
	if err != nil {
		return err
	}

	merged := Merge(local, remote)
	if err := s.local.ReplaceAll(ctx, merged); err != nil {
		return err
	}
	log.Printf("[sync] reconciled: %d remote, %d local-only", len(remote), len(merged)-len(remote))
	return nil
}

// Merge applies the merge-prefer-remote rule. Remote records are kept
// verbatim and first, in remote order; local records whose id the remote
// does not know are appended in their existing order.
func Merge(local, remote []domain.Project) []domain.Project {
	merged := make([]domain.Project, 0, len(remote)+len(local))
	merged = append(merged, remote...)

	remoteIDs := make(map[string]bool, len(remote))
	for _, p := range remote {
		remoteIDs[p.ID] = true
	}
	for _, p := range local {
		if !remoteIDs[p.ID] {
			merged = append(merged, p)
		}
	}
	return merged
}

// Hooks returns repository hooks that replicate each committed local
// mutation to the remote store. Each push runs in its own goroutine and is
// best-effort: failures are logged, never retried, never surfaced.
func (s *Syncer) Hooks() (added func(domain.Project), updated func(domain.Project), deleted func(id string)) {
	added = func(p domain.Project) {
		s.dispatch("add", p.ID, func(ctx context.Context) error { return s.remote.PushAdd(ctx, p) })
	}
	updated = func(p domain.Project) {
		s.dispatch("update", p.ID, func(ctx context.Context) error { return s.remote.PushUpdate(ctx, p) })
	}
	deleted = func(id string) {
		s.dispatch("delete", id, func(ctx context.Context) error { return s.remote.PushDelete(ctx, id) })
	}
	return added, updated, deleted
}

func (s *Syncer) dispatch(op, id string, push func(context.Context) error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := push(ctx); err != nil {
			log.Printf("[sync] %s replication for %s failed (local write kept): %v", op, id, err)
		}
	}()
}

// Flush waits for in-flight replication goroutines. Tests use it; the server
// calls it on shutdown.
func (s *Syncer) Flush() {
	s.wg.Wait()
}

// StartPeriodic schedules SyncOnce on the given cron spec and runs one
// reconcile immediately.
func (s *Syncer) StartPeriodic(spec string) error {
	if spec == "" {
		spec = "@every 5m"
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.SyncOnce(ctx); err != nil {
			log.Printf("[sync] periodic reconcile failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.SyncOnce(ctx); err != nil {
			log.Printf("[sync] initial reconcile failed: %v", err)
		}
	}()

	c.Start()
	s.cron = c
	log.Printf("[sync] periodic reconcile scheduled (%s)", spec)
	return nil
}

// Stop halts the periodic schedule and waits for in-flight pushes.
func (s *Syncer) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	s.Flush()
}
