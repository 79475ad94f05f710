package handler

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-video-api/internal/application/media"
	"github.com/go-video-api/internal/application/video"
	"github.com/go-video-api/internal/domain"
	"github.com/go-video-api/internal/pkg/apperr"
	"github.com/go-video-api/internal/transport/http/api"
)

type VideoHandler struct {
	svc       video.Service
	maxUpload int64
}

func NewVideoHandler(svc video.Service, maxUpload int64) *VideoHandler {
	return &VideoHandler{svc: svc, maxUpload: maxUpload}
}

// List serves the published feed. Query parameters: userId, query, sortType
// (asc|desc, by upload time), limit and cursor.
func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request, _ domain.Principal) error {
	pr, err := api.PageFromQuery(r)
	if err != nil {
		return err
	}
	q := r.URL.Query()
	vq := domain.VideoQuery{
		OwnerID:     strings.TrimSpace(q.Get("userId")),
		Text:        strings.TrimSpace(q.Get("query")),
		PageRequest: pr,
	}
	switch strings.ToLower(strings.TrimSpace(q.Get("sortType"))) {
	case "", "desc":
	case "asc":
		vq.Ascending = true
	default:
		return apperr.BadRequest("sortType must be asc or desc")
	}

	page, err := h.svc.List(r.Context(), vq)
	if err != nil {
		return err
	}
	return api.Respond(w, api.OK(page, "Videos fetched successfully"))
}

func (h *VideoHandler) Publish(w http.ResponseWriter, r *http.Request, p domain.Principal) error {
	if err := parseMultipart(w, r, h.maxUpload); err != nil {
		return err
	}
	defer cleanupForm(r)

	req := domain.CreateVideoRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
	}
	if raw := strings.TrimSpace(r.FormValue("duration")); raw != "" {
		d, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsInf(d, 0) || math.IsNaN(d) {
			return apperr.BadRequest("duration must be a number of seconds")
		}
		req.Duration = d
	}
	videoFile, closeVideo, err := formFile(r, media.VideoFile.Field)
	if err != nil {
		return err
	}
	defer closeVideo()
	thumbnail, closeThumb, err := formFile(r, media.Thumbnail.Field)
	if err != nil {
		return err
	}
	defer closeThumb()

	v, err := h.svc.Publish(r.Context(), p.UserID, req, videoFile, thumbnail)
	if err != nil {
		return err
	}
	return api.Respond(w, api.Created(v, "Video published successfully"))
}

func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request, p domain.Principal) error {
	videoID, err := api.PathID(r, "videoId")
	if err != nil {
		return err
	}
	v, err := h.svc.Get(r.Context(), videoID, p.UserID)
	if err != nil {
		return err
	}
	return api.Respond(w, api.OK(v, "Video fetched successfully"))
}

// Update accepts either a multipart form (title, description, thumbnail) or
// a JSON body with title and description.
func (h *VideoHandler) Update(w http.ResponseWriter, r *http.Request, p domain.Principal) error {
	videoID, err := api.PathID(r, "videoId")
	if err != nil {
		return err
	}

	var (
		req       domain.UpdateVideoRequest
		thumbnail *media.File
	)
	if isMultipart(r) {
		if err := parseMultipart(w, r, h.maxUpload); err != nil {
			return err
		}
		defer cleanupForm(r)
		req.Title = formValue(r, "title")
		req.Description = formValue(r, "description")
		f, closeThumb, err := formFile(r, media.Thumbnail.Field)
		if err != nil {
			return err
		}
		defer closeThumb()
		thumbnail = f
	} else if err := api.ReadJSON(r, &req); err != nil {
		return err
	}

	v, err := h.svc.Update(r.Context(), videoID, p.UserID, req, thumbnail)
	if err != nil {
		return err
	}
	return api.Respond(w, api.OK(v, "Video updated successfully"))
}

func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request, p domain.Principal) error {
	videoID, err := api.PathID(r, "videoId")
	if err != nil {
		return err
	}
	v, err := h.svc.Delete(r.Context(), videoID, p.UserID)
	if err != nil {
		return err
	}
	return api.Respond(w, api.OK(v, "Video deleted successfully"))
}

func (h *VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request, p domain.Principal) error {
	videoID, err := api.PathID(r, "videoId")
	if err != nil {
		return err
	}
	v, err := h.svc.TogglePublish(r.Context(), videoID, p.UserID)
	if err != nil {
		return err
	}
	return api.Respond(w, api.OK(v, "Publish status toggled successfully"))
}
