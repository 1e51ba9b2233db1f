// Package visitors records the page-view beacon the site fires on load.
// The beacon is telemetry: recording must never fail the page, so the
// handler answers success even when the store is down.
package visitors

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Visit is one beacon hit.
type Visit struct {
	ID        string    `json:"id"`
	Page      string    `json:"page"`
	UserAgent string    `json:"userAgent"`
	Referrer  string    `json:"referrer"`
	Timestamp time.Time `json:"timestamp"`
}

// Stats summarizes recorded traffic.
type Stats struct {
	TotalVisits int            `json:"totalVisits"`
	ByPage      map[string]int `json:"byPage"`
}

const maxRetained = 10000

// Recorder keeps a bounded in-memory visit log and rate-limits recording
// per client IP so a stuck reload loop cannot flood it.
type Recorder struct {
	mu       sync.Mutex
	visits   []Visit
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewRecorder() *Recorder {
	return &Recorder{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(time.Second), // 1 beacon/sec per IP
		burst:    5,
	}
}

// Record stores the visit unless the source IP is over its rate. Returns
// whether the visit was kept; callers treat both outcomes as success.
func (r *Recorder) Record(ip string, v Visit) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	lim, ok := r.limiters[ip]
	if !ok {
		lim = rate.NewLimiter(r.limit, r.burst)
		r.limiters[ip] = lim
	}
	if !lim.Allow() {
		return false
	}

	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.Timestamp.IsZero() {
		v.Timestamp = time.Now().UTC()
	}
	if v.Referrer == "" {
		v.Referrer = "direct"
	}

	r.visits = append(r.visits, v)
	if len(r.visits) > maxRetained {
		r.visits = r.visits[len(r.visits)-maxRetained:]
	}
	return true
}

func (r *Recorder) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	byPage := make(map[string]int)
	for _, v := range r.visits {
		byPage[v.Page]++
	}
	return Stats{TotalVisits: len(r.visits), ByPage: byPage}
}
