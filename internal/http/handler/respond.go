package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"calldex/internal/directory"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

// writeErr maps the service error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is an unexpected store failure and surfaces as a 500
// carrying the underlying message.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, directory.ErrValidation),
		errors.Is(err, directory.ErrDuplicateNumber),
		errors.Is(err, directory.ErrAlreadyReported):
		writeErrMsg(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, directory.ErrInvalidCredentials):
		writeErrMsg(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, directory.ErrNotFound):
		writeErrMsg(w, http.StatusNotFound, err.Error())
	default:
		writeErrMsg(w, http.StatusInternalServerError, err.Error())
	}
}
