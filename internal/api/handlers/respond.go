package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/markdave123-py/covidsearch/internal/core"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps the core error taxonomy to a status code. Details
// stay in the log; clients only see msg or a fixed message per class.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error, msg string) {
	switch {
	case errors.Is(err, core.ErrUnknownFacet):
		writeError(w, http.StatusBadRequest, "unknown facet dimension")
	case errors.Is(err, core.ErrNotFound):
		writeError(w, http.StatusNotFound, "document not found")
	case errors.Is(err, core.ErrAuthRequired):
		writeError(w, http.StatusBadRequest, "user not identified")
	case errors.Is(err, core.ErrAuthInvalid):
		writeError(w, http.StatusUnauthorized, "invalid token")
	default:
		log.Error(msg, zap.Error(err))
		writeError(w, http.StatusInternalServerError, msg)
	}
}
