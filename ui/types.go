package ui

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"annexval/app"
	"annexval/domain/coercion"
	"annexval/domain/core"
	"annexval/domain/validation"
	apperrors "annexval/internal/errors"
	"annexval/ports"
)

// sessionResponse is the session read model returned by create/get.
type sessionResponse struct {
	Session app.Status         `json:"session"`
	States  []string           `json:"states,omitempty"`
	Report  *validation.Report `json:"report"`
}

// coercionResponse pairs the applied fix with the fresh report.
type coercionResponse struct {
	Result coercion.Result    `json:"result"`
	Report *validation.Report `json:"report"`
}

// previewResponse shows an unconfirmed fix plus the column's current profile.
type previewResponse struct {
	Preview app.PreviewPair      `json:"preview"`
	Profile *ports.ColumnProfile `json:"profile,omitempty"`
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[API] Failed to encode response: %v", err)
	}
}

// writeError maps application errors onto HTTP statuses: schema and
// coercion failures are unprocessable input, lookups are 404, malformed
// requests are 400, everything else is a 500.
func writeError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)

	var ce *coercion.Error
	switch {
	case errors.As(err, &ce):
		code = apperrors.CodeCoercionError
	case errors.Is(err, core.ErrNotFound), errors.Is(err, app.ErrNoPendingFix):
		code = apperrors.CodeNotFound
	}
	if code == "UNKNOWN" {
		code = apperrors.CodeInternalError
	}

	status := http.StatusInternalServerError
	switch code {
	case apperrors.CodeSchemaError, apperrors.CodeCoercionError:
		status = http.StatusUnprocessableEntity
	case apperrors.CodeNotFound:
		status = http.StatusNotFound
	case apperrors.CodeInvalidInput:
		status = http.StatusBadRequest
	case apperrors.CodeLimitExceeded:
		status = http.StatusTooManyRequests
	}

	writeJSON(w, status, errorResponse{Error: err.Error(), Code: code})
}
