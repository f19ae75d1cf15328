package store_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/levelupapp/levelup-server/internal/store"
)

func TestError_Error(t *testing.T) {
	err := &store.Error{Code: http.StatusNotFound, Message: "not found"}

	assert.Equal(t, "not found", err.Error())
}

func TestError_ErrorWithCause(t *testing.T) {
	cause := errors.New("underlying error")
	err := &store.Error{Code: http.StatusNotFound, Message: "not found", Err: cause}

	assert.Contains(t, err.Error(), "not found")
	assert.Contains(t, err.Error(), "underlying error")
	assert.Equal(t, cause, err.Unwrap())
}

func TestSentinels(t *testing.T) {
	assert.Equal(t, http.StatusConflict, store.ErrStaleWrite.HTTPCode())
	assert.Equal(t, http.StatusBadRequest, store.ErrInvalidInput.HTTPCode())

	wrapped := fmt.Errorf("save progress for u1: %w", store.ErrStaleWrite)
	assert.ErrorIs(t, wrapped, store.ErrStaleWrite)
	assert.NotErrorIs(t, wrapped, store.ErrAlreadyExists)
}
