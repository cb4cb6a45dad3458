package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/rinhabackend/pessoas-api/internal/logging"
)

// writeJSON encodes v as the response body using goccy/go-json, the same
// encoder the ingest queue uses for its wire format.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error().Err(err).Msg("api: failed to encode response body")
	}
}

func writeError(w http.ResponseWriter, status int, body apiError) {
	writeJSON(w, status, body)
}
