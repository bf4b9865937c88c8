package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiter_AllowsWithinBurst(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	mw := rl.Middleware(okHandler())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/v1/matches", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimiter_RejectsOverBurst(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	mw := rl.Middleware(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/matches", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec2 := httptest.NewRecorder()
	mw.ServeHTTP(rec2, req)
	assert.Equal(t, http.StatusTooManyRequests, rec2.Code)
}

func TestRateLimiter_DistinctIPsDontShareBucket(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	mw := rl.Middleware(okHandler())

	reqA := httptest.NewRequest(http.MethodGet, "/v1/matches", nil)
	reqA.RemoteAddr = "10.0.0.3:1"
	recA := httptest.NewRecorder()
	mw.ServeHTTP(recA, reqA)
	assert.Equal(t, http.StatusOK, recA.Code)

	reqB := httptest.NewRequest(http.MethodGet, "/v1/matches", nil)
	reqB.RemoteAddr = "10.0.0.4:1"
	recB := httptest.NewRecorder()
	mw.ServeHTTP(recB, reqB)
	assert.Equal(t, http.StatusOK, recB.Code)
}
