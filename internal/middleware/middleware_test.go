package middleware

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arishali16742/SOW/internal/domain/ai"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, GetClientFromContext(r.Context()))
	})
}

func TestAPIKeyAuth(t *testing.T) {
	h := APIKeyAuth(map[string]string{"dashboard": "k-1"})(okHandler())

	tests := []struct {
		name   string
		path   string
		header map[string]string
		status int
		body   string
	}{
		{"missing header", "/v1/checks", nil, http.StatusUnauthorized, ""},
		{"wrong key", "/v1/checks", map[string]string{"Authorization": "Bearer nope"}, http.StatusUnauthorized, ""},
		{"bearer key", "/v1/checks", map[string]string{"Authorization": "Bearer k-1"}, http.StatusOK, "dashboard"},
		{"x-api-key", "/v1/checks", map[string]string{"X-API-Key": "k-1"}, http.StatusOK, "dashboard"},
		{"health is public", "/health", nil, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestAPIKeyAuthDisabled(t *testing.T) {
	rec := httptest.NewRecorder()
	APIKeyAuth(nil)(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/checks", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTokenBucket(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tb := NewTokenBucket(4, 2, t0)
	assert.True(t, tb.Take(3, t0))
	assert.False(t, tb.Take(2, t0))
	// half a second refills one token
	assert.True(t, tb.Take(2, t0.Add(500*time.Millisecond)))
	assert.False(t, tb.Take(1, t0.Add(500*time.Millisecond)))
	// never above capacity
	assert.True(t, tb.Take(4, t0.Add(time.Hour)))
}

func TestRateLimiterCostAndSweep(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(5, 0)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a", 50)) // capped at capacity
	assert.False(t, rl.Allow("a", 1))
	assert.True(t, rl.Allow("b", 1))

	now = now.Add(11 * time.Minute)
	assert.True(t, rl.Allow("c", 1))
	assert.Len(t, rl.buckets, 1)
}

func TestRateLimitMiddleware(t *testing.T) {
	h := RateLimitMiddleware(1, 0, nil)(okHandler())

	do := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}
	assert.Equal(t, http.StatusOK, do("/v1/history").Code)
	limited := do("/v1/history")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "60", limited.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusOK, do("/health").Code)
}

func TestHealthHandler(t *testing.T) {
	healthy := HealthCheckerFunc(func(context.Context) error { return nil })
	broken := HealthCheckerFunc(func(context.Context) error { return errors.New("bucket unreachable") })

	rec := httptest.NewRecorder()
	HealthHandler(map[string]HealthChecker{"db": healthy})(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)

	rec = httptest.NewRecorder()
	HealthHandler(map[string]HealthChecker{"db": healthy, "minio": broken})(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "bucket unreachable")
}

func TestLoggingRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/scans", nil))
	assert.Contains(t, buf.String(), "status=418")
	assert.Contains(t, buf.String(), "path=/v1/scans")
}

func TestRecordModelError(t *testing.T) {
	before := GetMetrics().ModelErrors
	RecordModelError(fmt.Errorf("scan: %w", ai.ErrQuotaExceeded))
	RecordModelError(errors.New("unrelated"))
	after := GetMetrics().ModelErrors
	assert.Equal(t, before.QuotaExceeded+1, after.QuotaExceeded)
	assert.Equal(t, before.Unavailable, after.Unavailable)
}

func TestScanTracker(t *testing.T) {
	before := GetMetrics().Scans

	TrackScan().Completed(85, true)
	TrackScan().Completed(100, false)
	failed := TrackScan()
	failed.Failed()
	failed.Failed() // second call is ignored

	after := GetMetrics().Scans
	assert.Equal(t, before.Total+3, after.Total)
	assert.Equal(t, before.Running, after.Running)
	assert.Equal(t, before.Failed+1, after.Failed)
	assert.Equal(t, before.Empty+1, after.Empty)
	assert.Equal(t, before.Compliance["high"]+1, after.Compliance["high"])
}

func TestValidators(t *testing.T) {
	allowed := []string{".docx", ".pdf"}
	require.NoError(t, ValidateFileName("SOW Final.docx", allowed))
	assert.Error(t, ValidateFileName("", allowed))
	assert.Error(t, ValidateFileName("../etc/passwd.docx", allowed))
	assert.Error(t, ValidateFileName("notes.exe", allowed))

	require.NoError(t, ValidateCheckID("check1"))
	require.NoError(t, ValidateCheckID("check-0190a6b2-7c1e-7d3a-9f00-123456789abc"))
	assert.Error(t, ValidateCheckID("check 1"))

	require.NoError(t, ValidateScanID("scan-1718000000000"))
	assert.Error(t, ValidateScanID("scan-abc"))

	assert.Error(t, ValidatePrompt("   "))
	assert.Error(t, ValidateTitle(""))

	assert.Equal(t, "ab", SanitizeString(" a\x00b\x07 "))
	assert.Equal(t, 20, ValidateLimit(0))
	assert.Equal(t, 100, ValidateLimit(1000))
	assert.Equal(t, 1, ValidatePage(-3))
}
