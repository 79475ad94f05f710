package handler

import (
	"net/http"

	"github.com/go-video-api/internal/application/like"
	"github.com/go-video-api/internal/domain"
	"github.com/go-video-api/internal/transport/http/api"
)

type LikeHandler struct {
	svc like.Service
}

func NewLikeHandler(svc like.Service) *LikeHandler { return &LikeHandler{svc: svc} }

func (h *LikeHandler) ToggleVideo(w http.ResponseWriter, r *http.Request, p domain.Principal) error {
	return h.toggle(w, r, p, domain.LikeVideo, "videoId")
}

func (h *LikeHandler) ToggleComment(w http.ResponseWriter, r *http.Request, p domain.Principal) error {
	return h.toggle(w, r, p, domain.LikeComment, "commentId")
}

func (h *LikeHandler) ToggleTweet(w http.ResponseWriter, r *http.Request, p domain.Principal) error {
	return h.toggle(w, r, p, domain.LikeTweet, "tweetId")
}

func (h *LikeHandler) toggle(w http.ResponseWriter, r *http.Request, p domain.Principal, kind domain.LikeTarget, param string) error {
	targetID, err := api.PathID(r, param)
	if err != nil {
		return err
	}
	state, err := h.svc.Toggle(r.Context(), kind, targetID, p.UserID)
	if err != nil {
		return err
	}
	msg := "Like removed successfully"
	if state.IsLiked {
		msg = "Liked successfully"
	}
	return api.Respond(w, api.OK(state, msg))
}

func (h *LikeHandler) LikedVideos(w http.ResponseWriter, r *http.Request, p domain.Principal) error {
	pr, err := api.PageFromQuery(r)
	if err != nil {
		return err
	}
	page, err := h.svc.LikedVideos(r.Context(), p.UserID, pr)
	if err != nil {
		return err
	}
	return api.Respond(w, api.OK(page, "Liked videos fetched successfully"))
}
