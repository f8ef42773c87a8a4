package metrics

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	rateLimited     uint64
	totalDurationMs uint64

	saves     uint64
	submits   uint64
	advances  uint64
	mu        sync.Mutex
	savesRole map[string]uint64
}

func New() *Collector {
	return &Collector{savesRole: map[string]uint64{}}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == http.StatusTooManyRequests {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) ObserveSave(role string, submitted, advanced bool) {
	atomic.AddUint64(&c.saves, 1)
	if submitted {
		atomic.AddUint64(&c.submits, 1)
	}
	if advanced {
		atomic.AddUint64(&c.advances, 1)
	}
	c.mu.Lock()
	c.savesRole[role]++
	c.mu.Unlock()
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	errs := atomic.LoadUint64(&c.errorRequests)
	limited := atomic.LoadUint64(&c.rateLimited)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	c.mu.Lock()
	byRole := make(map[string]uint64, len(c.savesRole))
	for role, n := range c.savesRole {
		byRole[role] = n
	}
	c.mu.Unlock()
	return map[string]any{
		"requestsTotal":    total,
		"errorsTotal":      errs,
		"rateLimitedTotal": limited,
		"avgDurationMs":    avg,
		"totalDurationMs":  totalMs,
		"savesTotal":       atomic.LoadUint64(&c.saves),
		"submitsTotal":     atomic.LoadUint64(&c.submits),
		"advancesTotal":    atomic.LoadUint64(&c.advances),
		"savesByRole":      byRole,
	}
}

func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		c.Record(rec.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
