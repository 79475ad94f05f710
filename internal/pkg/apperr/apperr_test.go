package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultsMessageAndDetails(t *testing.T) {
	e := New(http.StatusNotFound, "")
	assert.Equal(t, "Not Found", e.Message)
	assert.NotNil(t, e.Details)
	assert.Empty(t, e.Details)
	assert.True(t, e.Operational)
}

func TestConstructors(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
	}{
		{BadRequest("title is required"), http.StatusBadRequest},
		{Unauthorized("Unauthorized request"), http.StatusUnauthorized},
		{Forbidden("not yours"), http.StatusForbidden},
		{NotFound("Video not found"), http.StatusNotFound},
		{Conflict("exists"), http.StatusConflict},
	}
	for _, c := range cases {
		assert.Equal(t, c.status, c.err.StatusCode)
		assert.True(t, c.err.Operational)
	}
}

func TestInternal_IsNotOperationalAndKeepsCause(t *testing.T) {
	cause := errors.New("dynamo: connection reset")
	e := Internal(cause)
	assert.Equal(t, http.StatusInternalServerError, e.StatusCode)
	assert.False(t, e.Operational)
	assert.Equal(t, "Internal Server Error", e.Message)
	assert.ErrorIs(t, e, cause)
}

func TestAs_FindsWrapped(t *testing.T) {
	wrapped := fmt.Errorf("loading video: %w", NotFound("Video not found"))
	e, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, e.StatusCode)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}
