package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/Lllllllleong/lawsuitflow/internal/apperr"
	"github.com/Lllllllleong/lawsuitflow/internal/validation"
)

const maxBodyBytes = 1 << 20

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string   `json:"error"`
	Code    string   `json:"code"`
	Details []string `json:"details,omitempty"`
}

// writeJSON marshals v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, log *zap.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("writeJSON encode error", zap.Error(err))
	}
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, log *zap.Logger, status int, code, message string) {
	writeJSON(w, log, status, errorBody{Error: message, Code: code})
}

// decodeValidated reads the body, checks it against the named schema and decodes it into v.
func decodeValidated(r *http.Request, schema string, v any) error {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if err := validation.Validate(schema, body); err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}

// writeDecodeError reports a request that failed validation or decoding.
func writeDecodeError(w http.ResponseWriter, log *zap.Logger, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		writeJSON(w, log, http.StatusBadRequest, errorBody{
			Error:   "invalid request",
			Code:    "INVALID_REQUEST",
			Details: verr.Details,
		})
		return
	}
	writeError(w, log, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
}

// writeServiceError maps pipeline errors to HTTP responses.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error) {
	code := apperr.CodeOf(err)
	switch code {
	case apperr.ErrCodeIncompleteData, apperr.ErrCodeMissingContract:
		writeError(w, log, http.StatusUnprocessableEntity, string(code), err.Error())
	case apperr.ErrCodeNotReady:
		writeError(w, log, http.StatusConflict, string(code), err.Error())
	default:
		log.Error("request failed", zap.Error(err))
		writeError(w, log, http.StatusInternalServerError, "INTERNAL", "processing failed")
	}
}
