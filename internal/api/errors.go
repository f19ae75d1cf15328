package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/levelupapp/levelup-server/internal/errors"
	"github.com/levelupapp/levelup-server/internal/http/response"
)

// APIError implements huma.StatusError for domain, store and request errors.
type APIError struct { //nolint:revive // API prefix matches the envelope types
	status  int
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// RegisterErrorHandler makes huma report errors as APIError values.
// Call it after creating the huma.API but before serving requests.
func RegisterErrorHandler(logger *slog.Logger) {
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		for _, err := range errs {
			if p, ok := response.ProblemFor(err); ok {
				return &APIError{
					status:  p.Status,
					Code:    string(p.Code),
					Message: p.Message,
					Details: p.Details,
				}
			}
		}

		// Request schema failures come from huma as 422; they are client
		// input errors like any other validation failure.
		if status == http.StatusUnprocessableEntity || status == http.StatusBadRequest {
			return &APIError{
				status:  http.StatusBadRequest,
				Code:    string(domainerrors.CodeValidation),
				Message: message,
				Details: schemaDetails(errs),
			}
		}

		if status >= http.StatusInternalServerError && logger != nil && len(errs) > 0 {
			logger.Error("request failed", "status", status, "error", errors.Join(errs...))
		}

		return &APIError{
			status:  status,
			Code:    string(response.StatusCode(status)),
			Message: message,
		}
	}
}

// schemaDetails maps each failing location (e.g. body.email) to its message.
func schemaDetails(errs []error) map[string]string {
	details := make(map[string]string, len(errs))
	for _, err := range errs {
		var detailer huma.ErrorDetailer
		if errors.As(err, &detailer) {
			d := detailer.ErrorDetail()
			details[d.Location] = d.Message
		}
	}
	if len(details) == 0 {
		return nil
	}
	return details
}
