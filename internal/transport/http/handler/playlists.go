package handler

import (
	"net/http"

	"github.com/go-video-api/internal/application/playlist"
	"github.com/go-video-api/internal/domain"
	"github.com/go-video-api/internal/transport/http/api"
)

type PlaylistHandler struct {
	svc playlist.Service
}

func NewPlaylistHandler(svc playlist.Service) *PlaylistHandler { return &PlaylistHandler{svc: svc} }

func (h *PlaylistHandler) Create(w http.ResponseWriter, r *http.Request, p domain.Principal) error {
	var req domain.PlaylistRequest
	if err := api.ReadJSON(r, &req); err != nil {
		return err
	}
	pl, err := h.svc.Create(r.Context(), p.UserID, req)
	if err != nil {
		return err
	}
	return api.Respond(w, api.Created(pl, "Playlist created successfully"))
}

func (h *PlaylistHandler) ListByUser(w http.ResponseWriter, r *http.Request, _ domain.Principal) error {
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
	return api.Respond(w, api.OK(page, "User playlists fetched successfully"))
}

func (h *PlaylistHandler) Get(w http.ResponseWriter, r *http.Request, _ domain.Principal) error {
	playlistID, err := api.PathID(r, "playlistId")
	if err != nil {
		return err
	}
	pl, err := h.svc.Get(r.Context(), playlistID)
	if err != nil {
		return err
	}
	return api.Respond(w, api.OK(pl, "Playlist fetched successfully"))
}

func (h *PlaylistHandler) Update(w http.ResponseWriter, r *http.Request, p domain.Principal) error {
	playlistID, err := api.PathID(r, "playlistId")
	if err != nil {
		return err
	}
	var req domain.PlaylistRequest
	if err := api.ReadJSON(r, &req); err != nil {
		return err
	}
	pl, err := h.svc.Update(r.Context(), playlistID, p.UserID, req)
	if err != nil {
		return err
	}
	return api.Respond(w, api.OK(pl, "Playlist updated successfully"))
}

func (h *PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request, p domain.Principal) error {
	playlistID, err := api.PathID(r, "playlistId")
	if err != nil {
		return err
	}
	pl, err := h.svc.Delete(r.Context(), playlistID, p.UserID)
	if err != nil {
		return err
	}
	return api.Respond(w, api.OK(pl, "Playlist deleted successfully"))
}

func (h *PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request, p domain.Principal) error {
	playlistID, videoID, err := playlistVideoIDs(r)
	if err != nil {
		return err
	}
	pl, err := h.svc.AddVideo(r.Context(), playlistID, videoID, p.UserID)
	if err != nil {
		return err
	}
	return api.Respond(w, api.OK(pl, "Video added to playlist successfully"))
}

func (h *PlaylistHandler) RemoveVideo(w http.ResponseWriter, r *http.Request, p domain.Principal) error {
	playlistID, videoID, err := playlistVideoIDs(r)
	if err != nil {
		return err
	}
	pl, err := h.svc.RemoveVideo(r.Context(), playlistID, videoID, p.UserID)
	if err != nil {
		return err
	}
	return api.Respond(w, api.OK(pl, "Video removed from playlist successfully"))
}

func playlistVideoIDs(r *http.Request) (playlistID, videoID string, err error) {
	if videoID, err = api.PathID(r, "videoId"); err != nil {
		return "", "", err
	}
	if playlistID, err = api.PathID(r, "playlistId"); err != nil {
		return "", "", err
	}
	return playlistID, videoID, nil
}
