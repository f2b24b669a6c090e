package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimitAllowsWithinBurst(t *testing.T) {
	t.Parallel()

	handler := Chain(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }),
		RateLimitByIP(RateLimitConfig{RequestsPerWindow: 3, Window: time.Minute, Burst: 3}),
	)

	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRateLimitKeysAreIndependent(t *testing.T) {
	t.Parallel()

	handler := Chain(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }),
		RateLimitByIP(RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}),
	)

	first := httptest.NewRequest(http.MethodGet, "/", nil)
	first.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	require.Equal(t, http.StatusOK, rec.Code)

	second := httptest.NewRequest(http.MethodGet, "/", nil)
	second.RemoteAddr = "10.0.0.2:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, second)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestIPKeyExtractorPrefersForwardedFor(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.9:9999"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	require.Equal(t, "203.0.113.7", IPKeyExtractor(req))

	req.Header.Del("X-Forwarded-For")
	req.Header.Set("X-Real-IP", "203.0.113.8")
	require.Equal(t, "203.0.113.8", IPKeyExtractor(req))

	req.Header.Del("X-Real-IP")
	require.Equal(t, "10.0.0.9", IPKeyExtractor(req))
}

func TestRateLimitByUserFallsBackToIP(t *testing.T) {
	t.Parallel()

	handler := Chain(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }),
		RateLimitByUser(RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}),
	)

	// Authenticated request keyed by user, unauthenticated by IP: they do not
	// share a bucket.
	authed := httptest.NewRequest(http.MethodGet, "/", nil)
	authed.RemoteAddr = "10.0.0.1:1"
	authed = authed.WithContext(ContextWithUserID(authed.Context(), "01JUSERA"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authed)
	require.Equal(t, http.StatusOK, rec.Code)

	anon := httptest.NewRequest(http.MethodGet, "/", nil)
	anon.RemoteAddr = "10.0.0.1:1"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, anon)
	require.Equal(t, http.StatusOK, rec.Code)
}
