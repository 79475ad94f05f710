package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-video-api/internal/application/media"
	"github.com/go-video-api/internal/pkg/apperr"
)

// multipartMemory is the part of a multipart body kept in memory; the rest
// spills to temporary files.
const multipartMemory = 32 << 20

// parseMultipart bounds the body to maxBytes and parses it as a multipart form.
func parseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return err
		}
		return apperr.BadRequest("Invalid multipart form", err.Error())
	}
	return nil
}

// cleanupForm drops the temporary files of a parsed multipart form.
func cleanupForm(r *http.Request) {
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}

// formFile opens an uploaded file. It returns nil when the field is absent.
// The returned close func is never nil.
func formFile(r *http.Request, field string) (*media.File, func(), error) {
	f, fh, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, apperr.BadRequest("Invalid "+field+" upload", err.Error())
	}
	return &media.File{Reader: f, Filename: fh.Filename}, func() { _ = f.Close() }, nil
}

// formValue returns a pointer to the trimmed value of key, or nil when the
// form does not carry key at all.
func formValue(r *http.Request, key string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	vs, ok := r.MultipartForm.Value[key]
	if !ok || len(vs) == 0 {
		return nil
	}
	v := strings.TrimSpace(vs[0])
	return &v
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}
