package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodedErrors(t *testing.T) {
	t.Run("wrap keeps cause and code", func(t *testing.T) {
		cause := errors.New("db down")
		err := Wrap(cause, CodeInternal, "failed to load person")

		require.ErrorIs(t, err, cause)
		assert.True(t, HasCode(err, CodeInternal))
		assert.Equal(t, "failed to load person: db down", err.Error())
		assert.Equal(t, "failed to load person", MessageOf(err))
	})

	t.Run("wrap of nil is nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, CodeInternal, "ignored"))
	})

	t.Run("code survives fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("context: %w", New(CodeNotFound, "person not found"))
		assert.True(t, Is(err, CodeNotFound))
		assert.Equal(t, CodeNotFound, CodeOf(err))
	})

	t.Run("plain errors default to internal", func(t *testing.T) {
		err := errors.New("boom")
		assert.False(t, HasCode(err, CodeBadRequest))
		assert.Equal(t, CodeInternal, CodeOf(err))
		assert.Empty(t, MessageOf(err))
	})

	t.Run("errors.Is compares code and message", func(t *testing.T) {
		err := New(CodeUnauthorized, "invalid token")
		assert.ErrorIs(t, err, New(CodeUnauthorized, "invalid token"))
		assert.NotErrorIs(t, err, New(CodeUnauthorized, "token has expired"))
	})
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeBadRequest:         http.StatusBadRequest,
		CodeValidation:         http.StatusBadRequest,
		CodeInvalidInput:       http.StatusBadRequest,
		CodeUnauthorized:       http.StatusUnauthorized,
		CodeForbidden:          http.StatusForbidden,
		CodeNotFound:           http.StatusNotFound,
		CodeConflict:           http.StatusConflict,
		CodeInvariantViolation: http.StatusUnprocessableEntity,
		CodeTimeout:            http.StatusGatewayTimeout,
		CodeInternal:           http.StatusInternalServerError,
		Code("unknown"):        http.StatusInternalServerError,
	}
	for code, status := range cases {
		assert.Equal(t, status, ToHTTPStatus(code), "code %s", code)
	}
}
