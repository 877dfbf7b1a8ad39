package api

import (
	"encoding/json"
	"net/http"

	"biosense/domain/core"
	"biosense/internal"
	apperrors "biosense/internal/errors"
)

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps domain and application errors onto HTTP statuses. Internal
// failures log server-side and surface a generic body.
func writeError(w http.ResponseWriter, log *internal.Logger, err error) {
	status := http.StatusInternalServerError
	code := apperrors.CodeOf(err)

	switch {
	case core.IsNotFoundError(err):
		status = http.StatusNotFound
		code = apperrors.CodeNotFound
	case core.IsLifecycleError(err):
		status = http.StatusConflict
		code = apperrors.CodeBadInput
	case core.IsPreconditionError(err), core.IsValidationError(err):
		status = http.StatusBadRequest
		code = apperrors.CodeBadInput
	case code == apperrors.CodeBadInput, code == apperrors.CodeImportFailed:
		status = http.StatusBadRequest
	case code == apperrors.CodeNotFound:
		status = http.StatusNotFound
	case code == apperrors.CodeStoreUnavailable:
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		log.Error("request failed: %v", err)
		writeJSON(w, status, errorResponse{Code: code, Error: "internal error"})
		return
	}
	writeJSON(w, status, errorResponse{Code: code, Error: err.Error()})
}
