package handler

import (
	"net/http"

	"github.com/go-video-api/internal/application/comment"
	"github.com/go-video-api/internal/domain"
	"github.com/go-video-api/internal/transport/http/api"
)

type CommentHandler struct {
	svc comment.Service
}

func NewCommentHandler(svc comment.Service) *CommentHandler { return &CommentHandler{svc: svc} }

func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request, p domain.Principal) error {
	videoID, err := api.PathID(r, "videoId")
	if err != nil {
		return err
	}
	pr, err := api.PageFromQuery(r)
	if err != nil {
		return err
	}
	page, err := h.svc.List(r.Context(), videoID, p.UserID, pr)
	if err != nil {
		return err
	}
	return api.Respond(w, api.OK(page, "Comments fetched successfully"))
}

func (h *CommentHandler) Add(w http.ResponseWriter, r *http.Request, p domain.Principal) error {
	videoID, err := api.PathID(r, "videoId")
	if err != nil {
		return err
	}
	var req domain.ContentRequest
	if err := api.ReadJSON(r, &req); err != nil {
		return err
	}
	c, err := h.svc.Add(r.Context(), videoID, p.UserID, req)
	if err != nil {
		return err
	}
	return api.Respond(w, api.Created(c, "Comment added successfully"))
}

func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request, p domain.Principal) error {
	commentID, err := api.PathID(r, "commentId")
	if err != nil {
		return err
	}
	var req domain.ContentRequest
	if err := api.ReadJSON(r, &req); err != nil {
		return err
	}
	c, err := h.svc.Update(r.Context(), commentID, p.UserID, req)
	if err != nil {
		return err
	}
	return api.Respond(w, api.OK(c, "Comment updated successfully"))
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request, p domain.Principal) error {
	commentID, err := api.PathID(r, "commentId")
	if err != nil {
		return err
	}
	c, err := h.svc.Delete(r.Context(), commentID, p.UserID)
	if err != nil {
		return err
	}
	return api.Respond(w, api.OK(c, "Comment deleted successfully"))
}
