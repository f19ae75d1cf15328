// Package response writes the JSON envelope shared by every API response.
//
// Huma operations get the envelope from the api package's transformer; plain
// chi handlers such as the SSE stream and the rate limiter write it with the
// helpers here so clients only ever parse one shape.
package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	domainerrors "github.com/levelupapp/levelup-server/internal/errors"
	"github.com/levelupapp/levelup-server/internal/store"
)

// Version is the envelope format version sent as "v".
const Version = 1

// Envelope wraps successful responses and simple errors.
type Envelope struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ErrorEnvelope wraps errors that carry a machine-readable code.
// Error repeats Message so clients reading only "error" still get text.
type ErrorEnvelope struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Problem is the client-facing description of a failure.
type Problem struct {
	Status  int
	Code    domainerrors.Code
	Message string
	Details any
}

// Envelope converts p into its wire form.
func (p Problem) Envelope() ErrorEnvelope {
	return ErrorEnvelope{
		Version: Version,
		Error:   p.Message,
		Code:    string(p.Code),
		Message: p.Message,
		Details: p.Details,
	}
}

// ProblemFor maps domain and store errors to a Problem.
// ok is false when err carries no known classification.
func ProblemFor(err error) (p Problem, ok bool) {
	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		return Problem{
			Status:  domainErr.HTTPStatus(),
			Code:    domainErr.Code,
			Message: domainErr.Message,
			Details: domainErr.Details,
		}, true
	}

	if errors.Is(err, store.ErrStaleWrite) {
		return Problem{
			Status:  http.StatusConflict,
			Code:    domainerrors.CodeStaleWrite,
			Message: "progress was modified concurrently, please retry",
		}, true
	}

	var storeErr *store.Error
	if errors.As(err, &storeErr) {
		return Problem{
			Status:  storeErr.HTTPCode(),
			Code:    StatusCode(storeErr.HTTPCode()),
			Message: storeErr.Message,
		}, true
	}

	return Problem{}, false
}

// StatusCode maps an HTTP status to the closest error code.
func StatusCode(status int) domainerrors.Code {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domainerrors.CodeValidation
	case http.StatusNotFound:
		return domainerrors.CodeNotFound
	case http.StatusConflict:
		return domainerrors.CodeAlreadyExists
	case http.StatusTooManyRequests:
		return domainerrors.CodeRateLimited
	default:
		return domainerrors.CodeInternal
	}
}

// JSON writes data inside a success envelope. Statuses >= 400 are marked unsuccessful.
func JSON(w http.ResponseWriter, status int, data any, logger *slog.Logger) {
	write(w, status, Envelope{Version: Version, Success: status < 400, Data: data}, logger)
}

// Success writes a 200 OK response.
func Success(w http.ResponseWriter, data any, logger *slog.Logger) {
	JSON(w, http.StatusOK, data, logger)
}

// Fail writes p as an error envelope.
func Fail(w http.ResponseWriter, p Problem, logger *slog.Logger) {
	write(w, p.Status, p.Envelope(), logger)
}

// BadRequest writes a 400 Bad Request response.
func BadRequest(w http.ResponseWriter, message string, logger *slog.Logger) {
	Fail(w, Problem{Status: http.StatusBadRequest, Code: domainerrors.CodeValidation, Message: message}, logger)
}

// MethodNotAllowed writes a 405 Method Not Allowed response.
func MethodNotAllowed(w http.ResponseWriter, logger *slog.Logger) {
	Fail(w, Problem{Status: http.StatusMethodNotAllowed, Code: domainerrors.CodeValidation, Message: "method not allowed"}, logger)
}

// TooManyRequests writes a 429 Too Many Requests response.
func TooManyRequests(w http.ResponseWriter, message string, logger *slog.Logger) {
	Fail(w, Problem{Status: http.StatusTooManyRequests, Code: domainerrors.CodeRateLimited, Message: message}, logger)
}

// InternalError writes a 500 Internal Server Error response.
func InternalError(w http.ResponseWriter, message string, logger *slog.Logger) {
	Fail(w, Problem{Status: http.StatusInternalServerError, Code: domainerrors.CodeInternal, Message: message}, logger)
}

// HandleError writes the response matching err. Unclassified errors become a
// generic 500 and are logged, since their text is never sent to the client.
func HandleError(w http.ResponseWriter, err error, logger *slog.Logger) {
	if p, ok := ProblemFor(err); ok {
		Fail(w, p, logger)
		return
	}
	if logger != nil {
		logger.Error("unhandled error", "error", err)
	}
	InternalError(w, "internal server error", logger)
}

func write(w http.ResponseWriter, status int, body any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil && logger != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}
