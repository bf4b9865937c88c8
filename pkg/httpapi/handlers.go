package httpapi

import (
	"net/http"
	"strconv"

	"github.com/wordlex/wordlex/pkg/query"
)

// Handler serves the wordlex HTTP surface: pattern/anagram queries over the
// wordlist index and dictionary/related lookups over WordNet.
type Handler struct {
	service      *query.Service
	disableCache bool
}

// NewHandler builds a Handler over an already-loaded query.Service.
// disableCache skips every Cache-Control header, useful for local debugging.
func NewHandler(service *query.Service, disableCache bool) *Handler {
	return &Handler{service: service, disableCache: disableCache}
}

func (h *Handler) setCache(w http.ResponseWriter, value string) {
	if h.disableCache {
		return
	}
	w.Header().Set("Cache-Control", value)
}

func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, query.NewInvalidInputError("%s must be a number", name)
	}
	return n, nil
}

func (h *Handler) Matches(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := intParam(r, "page")
	if err != nil {
		writeError(w, err)
		return
	}
	pageSize, err := intParam(r, "page_size")
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.Matches(query.MatchesParams{
		Pattern:       q.Get("pattern"),
		Page:          page,
		PageSize:      pageSize,
		MustInclude:   q.Get("must_include"),
		CannotInclude: q.Get("cannot_include"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.setCache(w, "public, max-age=300")
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) Anagrams(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := intParam(r, "page")
	if err != nil {
		writeError(w, err)
		return
	}
	pageSize, err := intParam(r, "page_size")
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.Anagrams(query.AnagramParams{
		Letters:  q.Get("letters"),
		Pattern:  q.Get("pattern"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.setCache(w, "public, max-age=300")
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) DictionaryLookup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.service.Dictionary(q.Get("word"), q.Get("pos"))
	if err != nil {
		writeError(w, err)
		return
	}

	h.setCache(w, "public, max-age=3600")
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) RelatedWords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.service.Related(q.Get("word"), q.Get("pos"))
	if err != nil {
		writeError(w, err)
		return
	}

	h.setCache(w, "public, max-age=1800")
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (h *Handler) Robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	h.setCache(w, "public, max-age=86400, immutable")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("User-agent: *\nDisallow: /\n"))
}
