package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/arishali16742/SOW/internal/domain/ai"
)

// counters kept for the lifetime of the process
var (
	startTime = time.Now()

	requestsTotal    atomic.Uint64
	requestsInFlight atomic.Int64
	requestsFailed   atomic.Uint64

	scansTotal     atomic.Uint64
	scansRunning   atomic.Int64
	scansFailed    atomic.Uint64
	scansEmpty     atomic.Uint64
	complianceHigh atomic.Uint64
	complianceMid  atomic.Uint64
	complianceLow  atomic.Uint64

	modelUnavailable   atomic.Uint64
	modelQuota         atomic.Uint64
	modelOutputInvalid atomic.Uint64
)

// ScanTracker is returned by TrackScan; call exactly one of its methods.
type ScanTracker struct{ done atomic.Bool }

// TrackScan counts a scan as started.
func TrackScan() *ScanTracker {
	scansTotal.Add(1)
	scansRunning.Add(1)
	return &ScanTracker{}
}

// Failed finishes a scan that returned an error.
func (t *ScanTracker) Failed() {
	if !t.done.CompareAndSwap(false, true) {
		return
	}
	scansRunning.Add(-1)
	scansFailed.Add(1)
}

// Completed finishes a scan with its compliance percentage. persisted=false
// marks a scan the model found nothing in.
func (t *ScanTracker) Completed(compliance int, persisted bool) {
	if !t.done.CompareAndSwap(false, true) {
		return
	}
	scansRunning.Add(-1)
	if !persisted {
		scansEmpty.Add(1)
		return
	}
	switch {
	case compliance >= 80:
		complianceHigh.Add(1)
	case compliance >= 50:
		complianceMid.Add(1)
	default:
		complianceLow.Add(1)
	}
}

// RecordModelError counts a failed model call by kind. Other errors are ignored.
func RecordModelError(err error) {
	switch {
	case errors.Is(err, ai.ErrQuotaExceeded):
		modelQuota.Add(1)
	case errors.Is(err, ai.ErrModelUnavailable):
		modelUnavailable.Add(1)
	case errors.Is(err, ai.ErrModelOutputInvalid):
		modelOutputInvalid.Add(1)
	}
}

type Snapshot struct {
	Requests struct {
		Total    uint64 `json:"total"`
		InFlight int64  `json:"in_flight"`
		Failed   uint64 `json:"failed"`
	} `json:"requests"`
	Scans struct {
		Total      uint64            `json:"total"`
		Running    int64             `json:"running"`
		Failed     uint64            `json:"failed"`
		Empty      uint64            `json:"empty"`
		Compliance map[string]uint64 `json:"compliance"`
	} `json:"scans"`
	ModelErrors struct {
		Unavailable   uint64 `json:"unavailable"`
		QuotaExceeded uint64 `json:"quota_exceeded"`
		OutputInvalid uint64 `json:"output_invalid"`
	} `json:"model_errors"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Goroutines    int     `json:"goroutines"`
	HeapBytes     uint64  `json:"heap_bytes"`
}

// GetMetrics reads every counter.
func GetMetrics() Snapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	var s Snapshot
	s.Requests.Total = requestsTotal.Load()
	s.Requests.InFlight = requestsInFlight.Load()
	s.Requests.Failed = requestsFailed.Load()
	s.Scans.Total = scansTotal.Load()
	s.Scans.Running = scansRunning.Load()
	s.Scans.Failed = scansFailed.Load()
	s.Scans.Empty = scansEmpty.Load()
	s.Scans.Compliance = map[string]uint64{
		"high":   complianceHigh.Load(),
		"medium": complianceMid.Load(),
		"low":    complianceLow.Load(),
	}
	s.ModelErrors.Unavailable = modelUnavailable.Load()
	s.ModelErrors.QuotaExceeded = modelQuota.Load()
	s.ModelErrors.OutputInvalid = modelOutputInvalid.Load()
	s.UptimeSeconds = time.Since(startTime).Seconds()
	s.Goroutines = runtime.NumGoroutine()
	s.HeapBytes = m.HeapAlloc
	return s
}

// MetricsMiddleware counts requests; 4xx and 5xx responses count as failed.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestsTotal.Add(1)
		requestsInFlight.Add(1)
		defer requestsInFlight.Add(-1)

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		if wrapped.statusCode >= http.StatusBadRequest {
			requestsFailed.Add(1)
		}
	})
}

// MetricsHandler returns metrics as JSON
func MetricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(GetMetrics())
}
