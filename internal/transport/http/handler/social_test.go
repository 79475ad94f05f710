package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/go-video-api/internal/domain"
	"github.com/go-video-api/internal/pkg/apperr"
)

// --- mocks ---

type mockCommentSvc struct{ mock.Mock }

func (m *mockCommentSvc) List(ctx context.Context, videoID, viewerID string, pr domain.PageRequest) (domain.Page[domain.CommentView], error) {
	args := m.Called(ctx, videoID, viewerID, pr)
	return args.Get(0).(domain.Page[domain.CommentView]), args.Error(1)
}

func (m *mockCommentSvc) Add(ctx context.Context, videoID, ownerID string, req domain.ContentRequest) (*domain.Comment, error) {
	args := m.Called(ctx, videoID, ownerID, req)
	c, _ := args.Get(0).(*domain.Comment)
	return c, args.Error(1)
}

func (m *mockCommentSvc) Update(ctx context.Context, commentID, ownerID string, req domain.ContentRequest) (*domain.Comment, error) {
	args := m.Called(ctx, commentID, ownerID, req)
	c, _ := args.Get(0).(*domain.Comment)
	return c, args.Error(1)
}

func (m *mockCommentSvc) Delete(ctx context.Context, commentID, ownerID string) (*domain.Comment, error) {
	args := m.Called(ctx, commentID, ownerID)
	c, _ := args.Get(0).(*domain.Comment)
	return c, args.Error(1)
}

type mockLikeSvc struct{ mock.Mock }

func (m *mockLikeSvc) Toggle(ctx context.Context, kind domain.LikeTarget, targetID, userID string) (*domain.LikeState, error) {
	args := m.Called(ctx, kind, targetID, userID)
	s, _ := args.Get(0).(*domain.LikeState)
	return s, args.Error(1)
}

func (m *mockLikeSvc) LikedVideos(ctx context.Context, userID string, pr domain.PageRequest) (domain.Page[domain.VideoView], error) {
	args := m.Called(ctx, userID, pr)
	return args.Get(0).(domain.Page[domain.VideoView]), args.Error(1)
}

type mockSubscriptionSvc struct{ mock.Mock }

func (m *mockSubscriptionSvc) Toggle(ctx context.Context, subscriberID, channelID string) (*domain.SubscriptionState, error) {
	args := m.Called(ctx, subscriberID, channelID)
	s, _ := args.Get(0).(*domain.SubscriptionState)
	return s, args.Error(1)
}

func (m *mockSubscriptionSvc) Subscribers(ctx context.Context, channelID string, pr domain.PageRequest) (domain.Page[domain.UserSummary], error) {
	args := m.Called(ctx, channelID, pr)
	return args.Get(0).(domain.Page[domain.UserSummary]), args.Error(1)
}

func (m *mockSubscriptionSvc) Channels(ctx context.Context, subscriberID string, pr domain.PageRequest) (domain.Page[domain.SubscribedChannel], error) {
	args := m.Called(ctx, subscriberID, pr)
	return args.Get(0).(domain.Page[domain.SubscribedChannel]), args.Error(1)
}

var firstPage = domain.PageRequest{Limit: domain.DefaultPageLimit}

// --- comments ---

func TestCommentList_PassesViewerAndPage(t *testing.T) {
	svc := &mockCommentSvc{}
	h := NewCommentHandler(svc)
	svc.On("List", mock.Anything, videoID, callerID, firstPage).Return(domain.Page[domain.CommentView]{
		Items: []domain.CommentView{{Comment: domain.Comment{CommentID: commentID, Content: "hi"}, LikesCount: 2, IsLiked: true}},
		Limit: domain.DefaultPageLimit,
	}, nil)

	r := withParams(authed(httptest.NewRequest(http.MethodGet, "/api/v1/comments/"+videoID, nil)), "videoId", videoID)
	rec := httptest.NewRecorder()
	testResponder().WrapAuthed(h.List)(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Contains(t, string(env.Data), `"likesCount":2`)
	assert.Contains(t, string(env.Data), `"isLiked":true`)
	svc.AssertExpectations(t)
}

func TestCommentAdd_EmptyBody(t *testing.T) {
	h := NewCommentHandler(&mockCommentSvc{})

	r := withParams(authed(httptest.NewRequest(http.MethodPost, "/api/v1/comments/"+videoID, http.NoBody)), "videoId", videoID)
	rec := httptest.NewRecorder()
	testResponder().WrapAuthed(h.Add)(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Request body is required", decodeEnvelope(t, rec).Message)
}

func TestCommentAdd_Created(t *testing.T) {
	svc := &mockCommentSvc{}
	h := NewCommentHandler(svc)
	req := domain.ContentRequest{Content: "nice video"}
	svc.On("Add", mock.Anything, videoID, callerID, req).Return(&domain.Comment{CommentID: commentID, Content: req.Content}, nil)

	r := withParams(authed(httptest.NewRequest(http.MethodPost, "/api/v1/comments/"+videoID, jsonBody(t, req))), "videoId", videoID)
	rec := httptest.NewRecorder()
	testResponder().WrapAuthed(h.Add)(rec, r)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, decodeEnvelope(t, rec).Success)
}

func TestCommentDelete_SecondTimeNotFound(t *testing.T) {
	svc := &mockCommentSvc{}
	h := NewCommentHandler(svc)
	svc.On("Delete", mock.Anything, commentID, callerID).Return(&domain.Comment{CommentID: commentID}, nil).Once()
	svc.On("Delete", mock.Anything, commentID, callerID).Return(nil, apperr.NotFound("Comment not found")).Once()

	call := func() *httptest.ResponseRecorder {
		r := withParams(authed(httptest.NewRequest(http.MethodDelete, "/api/v1/comments/c/"+commentID, nil)), "commentId", commentID)
		rec := httptest.NewRecorder()
		testResponder().WrapAuthed(h.Delete)(rec, r)
		return rec
	}

	assert.Equal(t, http.StatusOK, call().Code)
	rec := call()
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Comment not found", decodeEnvelope(t, rec).Message)
}

// --- likes ---

func TestLikeToggle_Kinds(t *testing.T) {
	cases := []struct {
		name   string
		param  string
		kind   domain.LikeTarget
		handle func(h *LikeHandler) func(http.ResponseWriter, *http.Request, domain.Principal) error
	}{
		{"video", "videoId", domain.LikeVideo, func(h *LikeHandler) func(http.ResponseWriter, *http.Request, domain.Principal) error { return h.ToggleVideo }},
		{"comment", "commentId", domain.LikeComment, func(h *LikeHandler) func(http.ResponseWriter, *http.Request, domain.Principal) error { return h.ToggleComment }},
		{"tweet", "tweetId", domain.LikeTweet, func(h *LikeHandler) func(http.ResponseWriter, *http.Request, domain.Principal) error { return h.ToggleTweet }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockLikeSvc{}
			h := NewLikeHandler(svc)
			svc.On("Toggle", mock.Anything, tc.kind, videoID, callerID).Return(&domain.LikeState{IsLiked: true}, nil)

			r := withParams(authed(httptest.NewRequest(http.MethodPost, "/", nil)), tc.param, videoID)
			rec := httptest.NewRecorder()
			testResponder().WrapAuthed(tc.handle(h))(rec, r)

			assert.Equal(t, http.StatusOK, rec.Code)
			env := decodeEnvelope(t, rec)
			assert.JSONEq(t, `{"isLiked":true}`, string(env.Data))
			assert.Equal(t, "Liked successfully", env.Message)
			svc.AssertExpectations(t)
		})
	}
}

func TestLikeToggle_Unlike(t *testing.T) {
	svc := &mockLikeSvc{}
	h := NewLikeHandler(svc)
	svc.On("Toggle", mock.Anything, domain.LikeVideo, videoID, callerID).Return(&domain.LikeState{IsLiked: false}, nil)

	r := withParams(authed(httptest.NewRequest(http.MethodPost, "/", nil)), "videoId", videoID)
	rec := httptest.NewRecorder()
	testResponder().WrapAuthed(h.ToggleVideo)(rec, r)

	assert.Equal(t, "Like removed successfully", decodeEnvelope(t, rec).Message)
}

func TestLikedVideos(t *testing.T) {
	svc := &mockLikeSvc{}
	h := NewLikeHandler(svc)
	svc.On("LikedVideos", mock.Anything, callerID, domain.PageRequest{Limit: 3}).
		Return(domain.Page[domain.VideoView]{Items: []domain.VideoView{}, NextCursor: "next", Limit: 3}, nil)

	r := authed(httptest.NewRequest(http.MethodGet, "/api/v1/likes/videos?limit=3", nil))
	rec := httptest.NewRecorder()
	testResponder().WrapAuthed(h.LikedVideos)(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"next"`, extract(t, decodeEnvelope(t, rec).Data, "nextCursor"))
}

// --- subscriptions ---

func TestSubscriptionToggle_StatusFollowsState(t *testing.T) {
	svc := &mockSubscriptionSvc{}
	h := NewSubscriptionHandler(svc)
	svc.On("Toggle", mock.Anything, callerID, otherID).Return(&domain.SubscriptionState{IsSubscribed: true}, nil).Once()
	svc.On("Toggle", mock.Anything, callerID, otherID).Return(&domain.SubscriptionState{IsSubscribed: false}, nil).Once()

	call := func() *httptest.ResponseRecorder {
		r := withParams(authed(httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions/c/"+otherID, nil)), "channelId", otherID)
		rec := httptest.NewRecorder()
		testResponder().WrapAuthed(h.Toggle)(rec, r)
		return rec
	}

	rec := call()
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Subscribed successfully", decodeEnvelope(t, rec).Message)

	rec = call()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Unsubscribed successfully", decodeEnvelope(t, rec).Message)
}

func TestSubscriptionToggle_Self(t *testing.T) {
	svc := &mockSubscriptionSvc{}
	h := NewSubscriptionHandler(svc)
	svc.On("Toggle", mock.Anything, callerID, callerID).Return(nil, apperr.BadRequest("You cannot subscribe to your own channel"))

	r := withParams(authed(httptest.NewRequest(http.MethodPost, "/", nil)), "channelId", callerID)
	rec := httptest.NewRecorder()
	testResponder().WrapAuthed(h.Toggle)(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubscriptionChannels_MalformedSubscriber(t *testing.T) {
	svc := &mockSubscriptionSvc{}
	h := NewSubscriptionHandler(svc)

	r := withParams(authed(httptest.NewRequest(http.MethodGet, "/", nil)), "subscriberId", "x")
	rec := httptest.NewRecorder()
	testResponder().WrapAuthed(h.Channels)(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid subscriberId", decodeEnvelope(t, rec).Message)
}
