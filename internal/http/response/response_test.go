package response

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/levelupapp/levelup-server/internal/errors"
	"github.com/levelupapp/levelup-server/internal/store"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestJSON_Success(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, map[string]string{"level": "Novice"}, discard())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	body := decode(t, w)
	assert.Equal(t, float64(Version), body["v"])
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]any{"level": "Novice"}, body["data"])
	assert.NotContains(t, body, "error")
}

func TestJSON_StatusBoundary(t *testing.T) {
	tests := []struct {
		status  int
		success bool
	}{
		{http.StatusOK, true},
		{http.StatusCreated, true},
		{399, true},
		{http.StatusBadRequest, false},
		{http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			w := httptest.NewRecorder()
			JSON(w, tt.status, nil, nil)

			assert.Equal(t, tt.success, decode(t, w)["success"])
		})
	}
}

func TestHelpers_WriteErrorEnvelope(t *testing.T) {
	tests := []struct {
		name   string
		write  func(w http.ResponseWriter)
		status int
		code   string
	}{
		{"bad request", func(w http.ResponseWriter) { BadRequest(w, "user_id is required", nil) }, http.StatusBadRequest, "VALIDATION"},
		{"method", func(w http.ResponseWriter) { MethodNotAllowed(w, nil) }, http.StatusMethodNotAllowed, "VALIDATION"},
		{"rate limited", func(w http.ResponseWriter) { TooManyRequests(w, "slow down", nil) }, http.StatusTooManyRequests, "RATE_LIMITED"},
		{"internal", func(w http.ResponseWriter) { InternalError(w, "boom", nil) }, http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w)

			assert.Equal(t, tt.status, w.Code)
			body := decode(t, w)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.code, body["code"])
			assert.Equal(t, body["message"], body["error"])
		})
	}
}

func TestProblemFor(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   domainerrors.Code
	}{
		{"domain not found", domainerrors.NotFound("unknown task"), http.StatusNotFound, domainerrors.CodeNotFound},
		{"wrapped domain validation", fmt.Errorf("ctx: %w", domainerrors.Validation("bad")), http.StatusBadRequest, domainerrors.CodeValidation},
		{"store not found", fmt.Errorf("get: %w", store.ErrNotFound), http.StatusNotFound, domainerrors.CodeNotFound},
		{"store exists", store.ErrAlreadyExists, http.StatusConflict, domainerrors.CodeAlreadyExists},
		{"store invalid", store.ErrInvalidInput, http.StatusBadRequest, domainerrors.CodeValidation},
		{"stale write", fmt.Errorf("saving progress after 5 attempt(s): %w", store.ErrStaleWrite), http.StatusConflict, domainerrors.CodeStaleWrite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := ProblemFor(tt.err)
			require.True(t, ok)
			assert.Equal(t, tt.status, p.Status)
			assert.Equal(t, tt.code, p.Code)
		})
	}

	_, ok := ProblemFor(io.EOF)
	assert.False(t, ok)
}

func TestHandleError_HidesUnknownErrors(t *testing.T) {
	w := httptest.NewRecorder()
	HandleError(w, fmt.Errorf("badger: value log corrupted"), discard())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, "internal server error", body["message"])
}

func TestHandleError_ValidationDetails(t *testing.T) {
	w := httptest.NewRecorder()
	HandleError(w, domainerrors.ValidationWithDetails("invalid request", map[string]string{"email": "must be a valid email"}), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, map[string]any{"email": "must be a valid email"}, body["details"])
}
