package id

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-video-api/internal/domain"
)

func TestNew_IsSortableAndValid(t *testing.T) {
	a := New()
	b := New()
	assert.Len(t, a, 26)
	assert.NoError(t, Validate("videoId", a))
	assert.LessOrEqual(t, strings.Compare(a[:10], b[:10]), 0)
}

func TestValidate_Rejects(t *testing.T) {
	for _, s := range []string{"", "abc", "not-a-ulid-at-all-xxxxxxxxx", "ZZZZZZZZZZZZZZZZZZZZZZZZZZ"} {
		err := Validate("videoId", s)
		require.Error(t, err, s)

		var ie *domain.InvalidIDError
		require.True(t, errors.As(err, &ie))
		assert.Equal(t, "videoId", ie.Field)
		assert.Equal(t, s, ie.Value)
	}
}
