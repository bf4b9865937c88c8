package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wordlex/wordlex/pkg/query"
	"github.com/wordlex/wordlex/pkg/wordlist"
)

func testHandler(t *testing.T) *Handler {
	t.Helper()
	idx, err := wordlist.BuildFromReader(strings.NewReader("cat\nbat\nrat\ncar\n"), wordlist.MaxWordLen)
	assert.NoError(t, err)
	service := &query.Service{Index: idx, MaxPageSize: 100}
	return NewHandler(service, false)
}

func TestMatches_OK(t *testing.T) {
	h := testHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/matches?pattern=_at", nil)
	rec := httptest.NewRecorder()

	h.Matches(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=300", rec.Header().Get("Cache-Control"))

	var resp query.MatchesResult
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.ElementsMatch(t, []string{"bat", "cat", "rat"}, resp.Items)
}

func TestMatches_InvalidPatternReturns400(t *testing.T) {
	h := testHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/matches?pattern=", nil)
	rec := httptest.NewRecorder()

	h.Matches(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMatches_NonNumericPageReturns400(t *testing.T) {
	h := testHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/matches?pattern=cat&page=abc", nil)
	rec := httptest.NewRecorder()

	h.Matches(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnagrams_OK(t *testing.T) {
	h := testHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/anagrams?letters=tac", nil)
	rec := httptest.NewRecorder()

	h.Anagrams(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp query.MatchesResult
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Items, "cat")
}

func TestHealthz(t *testing.T) {
	h := testHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	h.Healthz(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestRobots_CarriesImmutableCache(t *testing.T) {
	h := testHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/robots.txt", nil)
	rec := httptest.NewRecorder()

	h.Robots(rec, req)

	assert.Equal(t, "public, max-age=86400, immutable", rec.Header().Get("Cache-Control"))
}

func TestDisableCacheSkipsHeader(t *testing.T) {
	idx, err := wordlist.BuildFromReader(strings.NewReader("cat\n"), wordlist.MaxWordLen)
	assert.NoError(t, err)
	service := &query.Service{Index: idx, MaxPageSize: 100}
	h := NewHandler(service, true)

	req := httptest.NewRequest(http.MethodGet, "/v1/matches?pattern=cat", nil)
	rec := httptest.NewRecorder()

	h.Matches(rec, req)

	assert.Empty(t, rec.Header().Get("Cache-Control"))
}
