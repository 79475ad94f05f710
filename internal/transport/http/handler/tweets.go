package handler

import (
	"net/http"

	"github.com/go-video-api/internal/application/tweet"
	"github.com/go-video-api/internal/domain"
	"github.com/go-video-api/internal/transport/http/api"
)

type TweetHandler struct {
	svc tweet.Service
}

func NewTweetHandler(svc tweet.Service) *TweetHandler { return &TweetHandler{svc: svc} }

func (h *TweetHandler) Create(w http.ResponseWriter, r *http.Request, p domain.Principal) error {
	var req domain.ContentRequest
	if err := api.ReadJSON(r, &req); err != nil {
		return err
	}
	t, err := h.svc.Create(r.Context(), p.UserID, req)
	if err != nil {
		return err
	}
	return api.Respond(w, api.Created(t, "Tweet created successfully"))
}

func (h *TweetHandler) ListByUser(w http.ResponseWriter, r *http.Request, _ domain.Principal) error {
	userID, err := api.PathID(r, "userId")
	if err != nil {
		return err
	}
	pr, err := api.PageFromQuery(r)
	if err != nil {
		return err
	}
	page, err := h.svc.ListByUser(r.Context(), userID, pr)
	if err != nil {
		return err
	}
	return api.Respond(w, api.OK(page, "Tweets fetched successfully"))
}

func (h *TweetHandler) Update(w http.ResponseWriter, r *http.Request, p domain.Principal) error {
	tweetID, err := api.PathID(r, "tweetId")
	if err != nil {
		return err
	}
	var req domain.ContentRequest
	if err := api.ReadJSON(r, &req); err != nil {
		return err
	}
	t, err := h.svc.Update(r.Context(), tweetID, p.UserID, req)
	if err != nil {
		return err
	}
	return api.Respond(w, api.OK(t, "Tweet updated successfully"))
}

func (h *TweetHandler) Delete(w http.ResponseWriter, r *http.Request, p domain.Principal) error {
	tweetID, err := api.PathID(r, "tweetId")
	if err != nil {
		return err
	}
	t, err := h.svc.Delete(r.Context(), tweetID, p.UserID)
	if err != nil {
		return err
	}
	return api.Respond(w, api.OK(t, "Tweet deleted successfully"))
}
