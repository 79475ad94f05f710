package tweet

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/go-video-api/internal/domain"
	"github.com/go-video-api/internal/pkg/apperr"
)

// --- mocks ---

type mockTweetStore struct{ mock.Mock }

func (m *mockTweetStore) Put(ctx context.Context, t *domain.Tweet) error {
	return m.Called(ctx, t).Error(0)
}
func (m *mockTweetStore) Get(ctx context.Context, id string) (*domain.Tweet, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*domain.Tweet)
	return t, args.Error(1)
}
func (m *mockTweetStore) UpdateContent(ctx context.Context, id, content string) (*domain.Tweet, error) {
	args := m.Called(ctx, id, content)
	t, _ := args.Get(0).(*domain.Tweet)
	return t, args.Error(1)
}
func (m *mockTweetStore) Delete(ctx context.Context, id string) (*domain.Tweet, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*domain.Tweet)
	return t, args.Error(1)
}
func (m *mockTweetStore) ListByOwner(ctx context.Context, ownerID string, pr domain.PageRequest) (domain.Page[domain.Tweet], error) {
	args := m.Called(ctx, ownerID, pr)
	return args.Get(0).(domain.Page[domain.Tweet]), args.Error(1)
}

type mockLikes struct{ mock.Mock }

func (m *mockLikes) Count(ctx context.Context, kind domain.LikeTarget, targetID string) (int, error) {
	args := m.Called(ctx, kind, targetID)
	return args.Int(0), args.Error(1)
}

type mockUsers struct{ mock.Mock }

func (m *mockUsers) BatchGet(ctx context.Context, ids []string) ([]domain.User, error) {
	args := m.Called(ctx, ids)
	out, _ := args.Get(0).([]domain.User)
	return out, args.Error(1)
}

func newSvc() (Service, *mockTweetStore, *mockLikes, *mockUsers) {
	ts, ls, us := new(mockTweetStore), new(mockLikes), new(mockUsers)
	return NewService(ServiceDeps{TweetRepo: ts, LikeRepo: ls, UserRepo: us}), ts, ls, us
}

func TestCreate(t *testing.T) {
	svc, ts, _, _ := newSvc()
	ts.On("Put", mock.Anything, mock.AnythingOfType("*domain.Tweet")).Return(nil)

	tw, err := svc.Create(context.Background(), "me", domain.ContentRequest{Content: " hello "})
	require.NoError(t, err)
	assert.Equal(t, "hello", tw.Content)
	assert.NotEmpty(t, tw.TweetID)
}

func TestListByUser(t *testing.T) {
	svc, ts, ls, us := newSvc()
	ts.On("ListByOwner", mock.Anything, "me", domain.PageRequest{Limit: 2}).Return(domain.Page[domain.Tweet]{
		Items: []domain.Tweet{{TweetID: "t1", OwnerID: "me"}, {TweetID: "t2", OwnerID: "me"}}, Limit: 2, NextCursor: "c",
	}, nil)
	us.On("BatchGet", mock.Anything, []string{"me"}).Return([]domain.User{{UserID: "me", Username: "ann"}}, nil)
	ls.On("Count", mock.Anything, domain.LikeTweet, "t1").Return(4, nil)
	ls.On("Count", mock.Anything, domain.LikeTweet, "t2").Return(0, nil)

	page, err := svc.ListByUser(context.Background(), "me", domain.PageRequest{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, 4, page.Items[0].LikesCount)
	assert.Equal(t, "ann", page.Items[1].Owner.Username)
	assert.Equal(t, "c", page.NextCursor)
}

func TestUpdate_NonOwnerForbidden(t *testing.T) {
	svc, ts, _, _ := newSvc()
	ts.On("Get", mock.Anything, "t1").Return(&domain.Tweet{TweetID: "t1", OwnerID: "other"}, nil)

	_, err := svc.Update(context.Background(), "t1", "me", domain.ContentRequest{Content: "x"})
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, ae.StatusCode)
}

func TestDelete_Missing(t *testing.T) {
	svc, ts, _, _ := newSvc()
	ts.On("Get", mock.Anything, "t1").Return(nil, errors.Join(errors.New("tweet not found"), domain.ErrNotFound))

	_, err := svc.Delete(context.Background(), "t1", "me")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	ts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
