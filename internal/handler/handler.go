package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"seedmart/internal/model"

	"github.com/rs/zerolog"
)

// Response is the success envelope returned by write endpoints.
type Response struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code, code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Warn().Str("code", code).Int("status", status).Str("message", message).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeDomainError maps a service failure to an HTTP status. Non-domain
// errors are infrastructure failures and surface as STORAGE_ERROR without
// leaking internals.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		logger.Error().Err(err).Msg("storage error")
		writeError(w, http.StatusInternalServerError, model.ErrCodeStorageError, "something went wrong, please retry later", logger)
		return
	}

	status := http.StatusInternalServerError
	switch domainErr.Code {
	case model.ErrCodeInvalidRequest, model.ErrCodeProductNotFound, model.ErrCodeInsufficientStock:
		status = http.StatusBadRequest
	case model.ErrCodeOrderNotFound:
		status = http.StatusNotFound
	case model.ErrCodeConflict, model.ErrCodeNotCancellable:
		status = http.StatusConflict
	case model.ErrCodeUnauthorised:
		status = http.StatusUnauthorized
	}

	writeError(w, status, domainErr.Code, domainErr.Message, logger)
}
