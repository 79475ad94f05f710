package playlist

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/go-video-api/internal/domain"
	"github.com/go-video-api/internal/pkg/apperr"
)

// --- mocks ---

type mockPlaylistStore struct{ mock.Mock }

func (m *mockPlaylistStore) ret(args mock.Arguments) (*domain.Playlist, error) {
	p, _ := args.Get(0).(*domain.Playlist)
	return p, args.Error(1)
}
func (m *mockPlaylistStore) Put(ctx context.Context, p *domain.Playlist) error {
	return m.Called(ctx, p).Error(0)
}
func (m *mockPlaylistStore) Get(ctx context.Context, id string) (*domain.Playlist, error) {
	return m.ret(m.Called(ctx, id))
}
func (m *mockPlaylistStore) UpdateDetails(ctx context.Context, id, name, description string) (*domain.Playlist, error) {
	return m.ret(m.Called(ctx, id, name, description))
}
func (m *mockPlaylistStore) Delete(ctx context.Context, id string) (*domain.Playlist, error) {
	return m.ret(m.Called(ctx, id))
}
func (m *mockPlaylistStore) AddVideo(ctx context.Context, id, videoID string) (*domain.Playlist, error) {
	return m.ret(m.Called(ctx, id, videoID))
}
func (m *mockPlaylistStore) RemoveVideo(ctx context.Context, id, videoID string) (*domain.Playlist, error) {
	return m.ret(m.Called(ctx, id, videoID))
}
func (m *mockPlaylistStore) ListByOwner(ctx context.Context, ownerID string, pr domain.PageRequest) (domain.Page[domain.Playlist], error) {
	args := m.Called(ctx, ownerID, pr)
	return args.Get(0).(domain.Page[domain.Playlist]), args.Error(1)
}

type mockVideoStore struct{ mock.Mock }

func (m *mockVideoStore) Get(ctx context.Context, id string) (*domain.Video, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*domain.Video)
	return v, args.Error(1)
}
func (m *mockVideoStore) BatchGet(ctx context.Context, ids []string) ([]domain.Video, error) {
	args := m.Called(ctx, ids)
	out, _ := args.Get(0).([]domain.Video)
	return out, args.Error(1)
}

type mockUsers struct{ mock.Mock }

func (m *mockUsers) BatchGet(ctx context.Context, ids []string) ([]domain.User, error) {
	args := m.Called(ctx, ids)
	out, _ := args.Get(0).([]domain.User)
	return out, args.Error(1)
}

func newSvc() (Service, *mockPlaylistStore, *mockVideoStore, *mockUsers) {
	ps, vs, us := new(mockPlaylistStore), new(mockVideoStore), new(mockUsers)
	return NewService(ServiceDeps{PlaylistRepo: ps, VideoRepo: vs, UserRepo: us}), ps, vs, us
}

func TestCreate(t *testing.T) {
	svc, ps, _, _ := newSvc()
	ps.On("Put", mock.Anything, mock.AnythingOfType("*domain.Playlist")).Return(nil)

	p, err := svc.Create(context.Background(), "me", domain.PlaylistRequest{Name: " Mix ", Description: "songs"})
	require.NoError(t, err)
	assert.Equal(t, "Mix", p.Name)
	assert.Equal(t, "me", p.OwnerID)
	assert.NotNil(t, p.VideoIDs)
}

func TestCreate_NameRequired(t *testing.T) {
	svc, _, _, _ := newSvc()
	_, err := svc.Create(context.Background(), "me", domain.PlaylistRequest{Description: "d"})
	var ve validator.ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve[0].Field())
}

func TestGet_OnlyPublishedVideosCount(t *testing.T) {
	svc, ps, vs, us := newSvc()
	ps.On("Get", mock.Anything, "p1").Return(&domain.Playlist{PlaylistID: "p1", OwnerID: "o", VideoIDs: []string{"v2", "v1", "v3"}}, nil)
	vs.On("BatchGet", mock.Anything, []string{"v1", "v2", "v3"}).Return([]domain.Video{
		{VideoID: "v1", IsPublished: true, Views: 5},
		{VideoID: "v2", IsPublished: false, Views: 100},
		{VideoID: "v3", IsPublished: true, Views: 7},
	}, nil)
	us.On("BatchGet", mock.Anything, []string{"o"}).Return([]domain.User{{UserID: "o", Username: "owner"}}, nil)

	d, err := svc.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, d.VideoCount)
	assert.Equal(t, int64(12), d.ViewCount)
	assert.Equal(t, "owner", d.Owner.Username)
	assert.Equal(t, "v1", d.Videos[0].VideoID)
}

func TestListByUser_CountsVideos(t *testing.T) {
	svc, ps, _, _ := newSvc()
	ps.On("ListByOwner", mock.Anything, "u", domain.PageRequest{}).Return(domain.Page[domain.Playlist]{
		Items: []domain.Playlist{{PlaylistID: "p1", VideoIDs: []string{"a", "b"}}, {PlaylistID: "p2"}},
	}, nil)

	page, err := svc.ListByUser(context.Background(), "u", domain.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Items[0].VideoCount)
	assert.Equal(t, 0, page.Items[1].VideoCount)
	assert.NotNil(t, page.Items[1].VideoIDs)
}

func TestAddVideo_NonOwnerForbidden(t *testing.T) {
	svc, ps, vs, _ := newSvc()
	ps.On("Get", mock.Anything, "p1").Return(&domain.Playlist{PlaylistID: "p1", OwnerID: "other"}, nil)

	_, err := svc.AddVideo(context.Background(), "p1", "v1", "me")
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, ae.StatusCode)
	vs.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestAddVideo_Twice(t *testing.T) {
	svc, ps, vs, _ := newSvc()
	ps.On("Get", mock.Anything, "p1").Return(&domain.Playlist{PlaylistID: "p1", OwnerID: "me"}, nil)
	vs.On("Get", mock.Anything, "v1").Return(&domain.Video{VideoID: "v1", IsPublished: true}, nil)
	ps.On("AddVideo", mock.Anything, "p1", "v1").Return(&domain.Playlist{PlaylistID: "p1", VideoIDs: []string{"v1"}}, nil)

	for range 2 {
		p, err := svc.AddVideo(context.Background(), "p1", "v1", "me")
		require.NoError(t, err)
		assert.Equal(t, []string{"v1"}, p.VideoIDs)
	}
}

func TestRemoveVideo(t *testing.T) {
	svc, ps, vs, _ := newSvc()
	ps.On("Get", mock.Anything, "p1").Return(&domain.Playlist{PlaylistID: "p1", OwnerID: "me", VideoIDs: []string{"v1"}}, nil)
	vs.On("Get", mock.Anything, "v1").Return(&domain.Video{VideoID: "v1"}, nil)
	ps.On("RemoveVideo", mock.Anything, "p1", "v1").Return(&domain.Playlist{PlaylistID: "p1"}, nil)

	p, err := svc.RemoveVideo(context.Background(), "p1", "v1", "me")
	require.NoError(t, err)
	assert.Empty(t, p.VideoIDs)
}

func TestUpdate(t *testing.T) {
	svc, ps, _, _ := newSvc()
	ps.On("Get", mock.Anything, "p1").Return(&domain.Playlist{PlaylistID: "p1", OwnerID: "me"}, nil)
	ps.On("UpdateDetails", mock.Anything, "p1", "New", "desc").Return(&domain.Playlist{PlaylistID: "p1", Name: "New"}, nil)

	p, err := svc.Update(context.Background(), "p1", "me", domain.PlaylistRequest{Name: "New ", Description: " desc"})
	require.NoError(t, err)
	assert.Equal(t, "New", p.Name)
}
