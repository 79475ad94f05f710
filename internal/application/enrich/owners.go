// Package enrich resolves the user summaries embedded in listings.
package enrich

import (
	"context"

	"github.com/go-video-api/internal/domain"
)

type UserBatcher interface {
	BatchGet(ctx context.Context, userIDs []string) ([]domain.User, error)
}

// Owners loads the summaries of the given users, keyed by id. Unknown users
// are absent from the map.
func Owners(ctx context.Context, users UserBatcher, userIDs []string) (map[string]*domain.UserSummary, error) {
	out := make(map[string]*domain.UserSummary, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	found, err := users.BatchGet(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	for i := range found {
		s := found[i].Summary()
		out[s.UserID] = &s
	}
	return out, nil
}

// MapPage converts the items of a page, keeping its cursor.
func MapPage[T, U any](p domain.Page[T], f func(T) U) domain.Page[U] {
	out := domain.Page[U]{Items: make([]U, len(p.Items)), NextCursor: p.NextCursor, Limit: p.Limit}
	for i, it := range p.Items {
		out.Items[i] = f(it)
	}
	return out
}
