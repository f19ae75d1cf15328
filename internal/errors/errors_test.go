package errors_test

import (
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/levelupapp/levelup-server/internal/errors"
)

func TestError_IsMatchesByCode(t *testing.T) {
	err := errors.NotFoundf("task %q not found", "yoga")

	assert.True(t, errors.Is(err, errors.ErrNotFound))
	assert.False(t, errors.Is(err, errors.ErrValidation))
	assert.Equal(t, `task "yoga" not found`, err.Error())
}

func TestError_IsSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("complete task: %w", errors.Validation("bad input"))
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestError_WrapKeepsCause(t *testing.T) {
	err := errors.Wrap(io.ErrUnexpectedEOF, errors.CodeInternal, "read failed")

	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.Equal(t, "read failed: unexpected EOF", err.Error())
}

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.CodeNotFound, http.StatusNotFound},
		{errors.CodeAlreadyExists, http.StatusConflict},
		{errors.CodeConflict, http.StatusConflict},
		{errors.CodeStaleWrite, http.StatusConflict},
		{errors.CodeValidation, http.StatusBadRequest},
		{errors.CodeRateLimited, http.StatusTooManyRequests},
		{errors.CodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestError_WithDetails(t *testing.T) {
	base := errors.Validation("validation failed")
	detailed := base.WithDetails(map[string]string{"email": "is required"})

	assert.Nil(t, base.Details)
	assert.Equal(t, map[string]string{"email": "is required"}, detailed.Details)
	assert.True(t, errors.Is(detailed, errors.ErrValidation))
}
