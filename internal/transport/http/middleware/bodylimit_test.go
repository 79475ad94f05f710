package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// readAll reports how many bytes the handler could read and whether the cap tripped.
func readAll(n *int, tripped *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(r.Body)
		*n = len(b)
		var mbe *http.MaxBytesError
		*tripped = errors.As(err, &mbe)
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestBodyLimit_CapsJSONBodies(t *testing.T) {
	var n int
	var tripped bool
	h := BodyLimit(16)(readAll(&n, &tripped))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("a", 64)))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, tripped)
	assert.LessOrEqual(t, n, 16)
}

func TestBodyLimit_MultipartPassesThrough(t *testing.T) {
	var n int
	var tripped bool
	h := BodyLimit(16)(readAll(&n, &tripped))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("a", 64)))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.False(t, tripped)
	assert.Equal(t, 64, n)
}

func TestBodyLimit_ZeroDisables(t *testing.T) {
	var n int
	var tripped bool
	h := BodyLimit(0)(readAll(&n, &tripped))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("a", 64))))

	assert.False(t, tripped)
	assert.Equal(t, 64, n)
}
