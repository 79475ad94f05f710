package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/go-video-api/internal/domain"
	"github.com/go-video-api/internal/pkg/apperr"
	"github.com/go-video-api/internal/pkg/id"
)

// PathID returns the URL parameter name after checking it is a well-formed id.
func PathID(r *http.Request, name string) (string, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if err := id.Validate(name, raw); err != nil {
		return "", err
	}
	return raw, nil
}

// PageFromQuery reads limit and cursor. Limit defaults to domain.DefaultPageLimit
// and is clamped to domain.MaxPageLimit.
func PageFromQuery(r *http.Request) (domain.PageRequest, error) {
	q := r.URL.Query()
	pr := domain.PageRequest{Limit: domain.DefaultPageLimit, Cursor: strings.TrimSpace(q.Get("cursor"))}
	if s := strings.TrimSpace(q.Get("limit")); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return pr, apperr.BadRequest("limit must be a positive integer")
		}
		pr.Limit = min(n, domain.MaxPageLimit)
	}
	return pr, nil
}
