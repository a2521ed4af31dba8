package middleware

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"
)

// Metrics stores application metrics
type Metrics struct {
	RequestsTotal        uint64
	RequestsInProgress   uint64
	RequestsSuccess      uint64
	RequestsFailed       uint64
	RateLimited          uint64
	DiagnosesTotal       uint64
	DiagnosesInFlight    uint64
	DiagnosesFallback    uint64
	DiagnosesRejected    uint64
	TranscriptionsTotal  uint64
	TranscriptionsFailed uint64
	StartTime            time.Time
}

var globalMetrics = &Metrics{
	StartTime: time.Now(),
}

// gauge of live liveVisitCount(), set by the server
var liveVisits atomic.Pointer[func() int]

// IncrementRequests increments total request counter
func IncrementRequests() {
	atomic.AddUint64(&globalMetrics.RequestsTotal, 1)
}

func IncrementInProgress() {
	atomic.AddUint64(&globalMetrics.RequestsInProgress, 1)
}

func DecrementInProgress() {
	atomic.AddUint64(&globalMetrics.RequestsInProgress, ^uint64(0))
}

func IncrementSuccess() {
	atomic.AddUint64(&globalMetrics.RequestsSuccess, 1)
}

func IncrementFailed() {
	atomic.AddUint64(&globalMetrics.RequestsFailed, 1)
}

func IncrementRateLimited() {
	atomic.AddUint64(&globalMetrics.RateLimited, 1)
}

// DiagnosisStarted counts a diagnosis and marks it in flight; call the returned
// func with whether the outcome fell back to optimal.
func DiagnosisStarted() func(fallback bool) {
	atomic.AddUint64(&globalMetrics.DiagnosesTotal, 1)
	atomic.AddUint64(&globalMetrics.DiagnosesInFlight, 1)
	return func(fallback bool) {
		atomic.AddUint64(&globalMetrics.DiagnosesInFlight, ^uint64(0))
		if fallback {
			atomic.AddUint64(&globalMetrics.DiagnosesFallback, 1)
		}
	}
}

// IncrementDiagnosesRejected counts diagnoses refused because another was in flight
func IncrementDiagnosesRejected() {
	atomic.AddUint64(&globalMetrics.DiagnosesRejected, 1)
}

func IncrementTranscriptions(failed bool) {
	atomic.AddUint64(&globalMetrics.TranscriptionsTotal, 1)
	if failed {
		atomic.AddUint64(&globalMetrics.TranscriptionsFailed, 1)
	}
}

// SetLiveVisits registers the source of the live visit gauge.
func SetLiveVisits(fn func() int) {
	liveVisits.Store(&fn)
}

// GetMetrics returns current metrics
func GetMetrics() map[string]interface{} {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return map[string]interface{}{
		"requests_total":        atomic.LoadUint64(&globalMetrics.RequestsTotal),
		"requests_in_progress":  atomic.LoadUint64(&globalMetrics.RequestsInProgress),
		"requests_success":      atomic.LoadUint64(&globalMetrics.RequestsSuccess),
		"requests_failed":       atomic.LoadUint64(&globalMetrics.RequestsFailed),
		"requests_rate_limited": atomic.LoadUint64(&globalMetrics.RateLimited),
		"diagnoses_total":       atomic.LoadUint64(&globalMetrics.DiagnosesTotal),
		"diagnoses_in_flight":   atomic.LoadUint64(&globalMetrics.DiagnosesInFlight),
		"diagnoses_fallback":    atomic.LoadUint64(&globalMetrics.DiagnosesFallback),
		"diagnoses_rejected":    atomic.LoadUint64(&globalMetrics.DiagnosesRejected),
		"transcriptions_total":  atomic.LoadUint64(&globalMetrics.TranscriptionsTotal),
		"transcriptions_failed": atomic.LoadUint64(&globalMetrics.TranscriptionsFailed),
		"visits_live":           liveVisitCount(),
		"uptime_seconds":        time.Since(globalMetrics.StartTime).Seconds(),
		"memory": map[string]interface{}{
			"alloc_bytes":       m.Alloc,
			"total_alloc_bytes": m.TotalAlloc,
			"sys_bytes":         m.Sys,
			"num_gc":            m.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	}
}

// MetricsMiddleware tracks request metrics
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		IncrementRequests()
		IncrementInProgress()
		defer DecrementInProgress()

		// Wrap response writer to capture status
		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		// Track success/failure based on status code
		if wrapped.statusCode >= 200 && wrapped.statusCode < 400 {
			IncrementSuccess()
		} else {
			IncrementFailed()
		}
	})
}

// MetricsHandler returns metrics as JSON
func MetricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(GetMetrics())
}
