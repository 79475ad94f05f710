package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"

	"github.com/go-video-api/internal/domain"
)

// New generates a new ULID string. ULIDs are lexicographically sortable
// by creation time and safe for use as DynamoDB partition keys.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// Validate checks that s is a well-formed ULID. field names the offending
// parameter in the returned *domain.InvalidIDError.
func Validate(field, s string) error {
	if _, err := ulid.ParseStrict(s); err != nil {
		return &domain.InvalidIDError{Field: field, Value: s}
	}
	return nil
}
