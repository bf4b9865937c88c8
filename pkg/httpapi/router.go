// Package httpapi exposes the query package's pattern, anagram and WordNet
// lookups over plain net/http, with a per-client-IP rate limiter in front.
package httpapi

import "net/http"

// NewRouter wires every route onto a fresh *http.ServeMux. rateLimiter may be
// nil, in which case requests pass straight through unthrottled.
func NewRouter(handler *Handler, rateLimiter *RateLimiter) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /robots.txt", handler.Robots)
	mux.HandleFunc("GET /v1/matches", handler.Matches)
	mux.HandleFunc("GET /v1/anagrams", handler.Anagrams)
	mux.HandleFunc("GET /v1/wordnet/dictionary", handler.DictionaryLookup)
	mux.HandleFunc("GET /v1/wordnet/related", handler.RelatedWords)

	if rateLimiter == nil {
		return mux
	}
	return rateLimiter.Middleware(mux)
}
