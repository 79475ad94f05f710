package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/go-video-api/internal/pkg/apperr"
	"github.com/go-video-api/internal/pkg/id"
)

// sniffLen is how much of an upload is read to detect its content type.
const sniffLen = 3072

// Kind is the category of an uploaded file. It selects the storage prefix and
// the accepted content types.
type Kind struct {
	Prefix string
	Field  string
	Type   string // "image" or "video"
}

var (
	Avatar     = Kind{Prefix: "avatars", Field: "avatar", Type: "image"}
	CoverImage = Kind{Prefix: "covers", Field: "coverImage", Type: "image"}
	VideoFile  = Kind{Prefix: "videos", Field: "videoFile", Type: "video"}
	Thumbnail  = Kind{Prefix: "thumbnails", Field: "thumbnail", Type: "image"}
)

// File is an uploaded file as received from a multipart form.
type File struct {
	Reader   io.Reader
	Filename string
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

type Service interface {
	// Store checks the file's content type and uploads it, returning its public URL.
	Store(ctx context.Context, kind Kind, ownerID string, f File) (string, error)
	// Remove deletes a previously stored file. Failures are logged, not returned.
	Remove(ctx context.Context, url string)
}

type service struct {
	store objectStore
}

func NewService(store objectStore) Service {
	return &service{store: store}
}

func (s *service) Store(ctx context.Context, kind Kind, ownerID string, f File) (string, error) {
	if f.Reader == nil {
		return "", apperr.BadRequest(fmt.Sprintf("%s file is required", kind.Field))
	}
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f.Reader, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return "", err
		}
		return "", fmt.Errorf("read %s: %w", kind.Field, err)
	}
	if n == 0 {
		return "", apperr.BadRequest(fmt.Sprintf("%s file is empty", kind.Field))
	}
	head = head[:n]

	mt := mimetype.Detect(head)
	if !strings.HasPrefix(mt.String(), kind.Type+"/") {
		return "", apperr.BadRequest(
			fmt.Sprintf("%s must be %s file", kind.Field, article(kind.Type)),
			fmt.Sprintf("detected content type %s", mt.String()),
		)
	}

	key := fmt.Sprintf("%s/%s/%s%s", kind.Prefix, ownerID, id.New(), mt.Extension())
	url, err := s.store.Upload(ctx, key, io.MultiReader(bytes.NewReader(head), f.Reader), mt.String())
	if err != nil {
		return "", apperr.Wrap(http.StatusInternalServerError, "Error while uploading "+kind.Field, err)
	}
	return url, nil
}

func (s *service) Remove(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.store.Delete(ctx, url); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("url", url).Msg("failed to remove media")
	}
}

func article(t string) string {
	if t == "image" {
		return "an image"
	}
	return "a " + t
}
