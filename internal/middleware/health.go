package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const checkTimeout = 2 * time.Second

// HealthChecker probes one optional dependency (audit database, archive bucket).
type HealthChecker interface {
	Check(ctx context.Context) error
}

// DatabaseHealthChecker checks the audit database
type DatabaseHealthChecker struct {
	DB *sql.DB
}

func (d *DatabaseHealthChecker) Check(ctx context.Context) error {
	return d.DB.PingContext(ctx)
}

// CheckFunc adapts a plain function, e.g. the archive bucket probe
type CheckFunc func(ctx context.Context) error

func (f CheckFunc) Check(ctx context.Context) error { return f(ctx) }

type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Visits    int                    `json:"visits"`
	Checks    map[string]CheckStatus `json:"checks"`
}

type CheckStatus struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	LatencyMS int64  `json:"latencyMs"`
}

// ReadinessStatus is the /readyz body. Failing lists the checks that did not pass.
type ReadinessStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Visits    int       `json:"visits"`
	Draining  bool      `json:"draining,omitempty"`
	Failing   []string  `json:"failing,omitempty"`
}

var draining atomic.Bool

// SetDraining marks the process as shutting down; readiness fails from then on.
func SetDraining(v bool) { draining.Store(v) }

// runChecks probes every checker concurrently, each with its own deadline.
func runChecks(ctx context.Context, checkers map[string]HealthChecker) map[string]CheckStatus {
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		out = make(map[string]CheckStatus, len(checkers))
	)
	for name, checker := range checkers {
		wg.Add(1)
		go func(name string, checker HealthChecker) {
			defer wg.Done()
			cctx, cancel := context.WithTimeout(ctx, checkTimeout)
			defer cancel()

			start := time.Now()
			st := CheckStatus{Status: "healthy"}
			if err := checker.Check(cctx); err != nil {
				st = CheckStatus{Status: "unhealthy", Message: err.Error()}
			}
			st.LatencyMS = time.Since(start).Milliseconds()

			mu.Lock()
			out[name] = st
			mu.Unlock()
		}(name, checker)
	}
	wg.Wait()
	return out
}

func liveVisitCount() int {
	if fn := liveVisits.Load(); fn != nil {
		return (*fn)()
	}
	return 0
}

// HealthHandler reports every dependency with its latency; 503 when one fails.
func HealthHandler(checkers map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := HealthStatus{
			Status:    "healthy",
			Timestamp: time.Now(),
			Visits:    liveVisitCount(),
			Checks:    runChecks(ctx, checkers),
		}
		for _, c := range health.Checks {
			if c.Status != "healthy" {
				health.Status = "unhealthy"
			}
		}

		statusCode := http.StatusOK
		if health.Status == "unhealthy" {
			statusCode = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		json.NewEncoder(w).Encode(health)
	}
}

// ReadinessHandler is ready when the process is not draining and every
// configured dependency answers.
func ReadinessHandler(checkers map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		ready := ReadinessStatus{
			Status:    "ready",
			Timestamp: time.Now(),
			Visits:    liveVisitCount(),
			Draining:  draining.Load(),
		}
		for name, c := range runChecks(ctx, checkers) {
			if c.Status != "healthy" {
				ready.Failing = append(ready.Failing, name)
			}
		}
		sort.Strings(ready.Failing)

		statusCode := http.StatusOK
		if ready.Draining || len(ready.Failing) > 0 {
			ready.Status = "not ready"
			statusCode = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		json.NewEncoder(w).Encode(ready)
	}
}

// LivenessHandler creates a liveness check handler (simplest check)
func LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
