package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/go-video-api/internal/pkg/apperr"
)

// ReadJSON decodes exactly one JSON value from the request body into dst.
func ReadJSON(r *http.Request, dst any) error {
	body := &bodyReader{r: r.Body}
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(body.err, &mbe) || errors.As(err, &mbe) {
			return apperr.New(http.StatusRequestEntityTooLarge, "Request body too large")
		}
		if errors.Is(err, io.EOF) {
			return apperr.BadRequest("Request body is required")
		}
		return apperr.BadRequest("Invalid JSON body", err.Error())
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return apperr.BadRequest("Invalid JSON body", "body must contain a single JSON object")
	}
	return nil
}

// bodyReader remembers the first read error, which the decoder may replace
// with a syntax error.
type bodyReader struct {
	r   io.Reader
	err error
}

func (b *bodyReader) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	if err != nil && err != io.EOF && b.err == nil {
		b.err = err
	}
	return n, err
}
