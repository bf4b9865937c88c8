package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/wordlex/wordlex/internal/logger"
	"github.com/wordlex/wordlex/pkg/query"
)

var errLog = logger.Default("httpapi")

// errorResponse is the wire shape for every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps a query-layer error to the right HTTP status and writes
// it as JSON. InvalidInputError is the client's fault (400); anything else
// is ours (500), and gets logged since the client can't do anything about it.
func writeError(w http.ResponseWriter, err error) {
	var status int
	var msg string

	if invalid, ok := err.(*query.InvalidInputError); ok {
		status = http.StatusBadRequest
		msg = invalid.Error()
	} else {
		status = http.StatusInternalServerError
		msg = "internal server error"
		errLog.Errorf("unhandled error: %v", err)
	}

	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		errLog.Errorf("encoding response: %v", err)
	}
}
