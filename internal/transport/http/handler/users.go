package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/go-video-api/internal/application/media"
	"github.com/go-video-api/internal/application/user"
	"github.com/go-video-api/internal/domain"
	"github.com/go-video-api/internal/transport/http/api"
)

// UserHandler serves registration, account management and channel profiles.
type UserHandler struct {
	svc       user.Service
	maxUpload int64
}

func NewUserHandler(svc user.Service, maxUpload int64) *UserHandler {
	return &UserHandler{svc: svc, maxUpload: maxUpload}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) error {
	if err := parseMultipart(w, r, h.maxUpload); err != nil {
		return err
	}
	defer cleanupForm(r)

	req := domain.RegisterRequest{
		FullName: r.FormValue("fullName"),
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}
	avatar, closeAvatar, err := formFile(r, media.Avatar.Field)
	if err != nil {
		return err
	}
	defer closeAvatar()
	cover, closeCover, err := formFile(r, media.CoverImage.Field)
	if err != nil {
		return err
	}
	defer closeCover()

	u, err := h.svc.Register(r.Context(), req, avatar, cover)
	if err != nil {
		return err
	}
	return api.Respond(w, api.Created(u, "User registered successfully"))
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request, p domain.Principal) error {
	var req domain.ChangePasswordRequest
	if err := api.ReadJSON(r, &req); err != nil {
		return err
	}
	if err := h.svc.ChangePassword(r.Context(), p, req); err != nil {
		return err
	}
	return api.Respond(w, api.OK(struct{}{}, "Password changed successfully"))
}

func (h *UserHandler) CurrentUser(w http.ResponseWriter, r *http.Request, p domain.Principal) error {
	u, err := h.svc.Get(r.Context(), p.UserID)
	if err != nil {
		return err
	}
	return api.Respond(w, api.OK(u, "User fetched successfully"))
}

func (h *UserHandler) UpdateAccount(w http.ResponseWriter, r *http.Request, p domain.Principal) error {
	var req domain.UpdateAccountRequest
	if err := api.ReadJSON(r, &req); err != nil {
		return err
	}
	u, err := h.svc.UpdateAccount(r.Context(), p.UserID, req)
	if err != nil {
		return err
	}
	return api.Respond(w, api.OK(u, "Account details updated successfully"))
}

func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request, p domain.Principal) error {
	return h.replaceImage(w, r, media.Avatar.Field, func(f *media.File) (*domain.User, error) {
		return h.svc.UpdateAvatar(r.Context(), p.UserID, f)
	}, "Avatar updated successfully")
}

func (h *UserHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request, p domain.Principal) error {
	return h.replaceImage(w, r, media.CoverImage.Field, func(f *media.File) (*domain.User, error) {
		return h.svc.UpdateCoverImage(r.Context(), p.UserID, f)
	}, "Cover image updated successfully")
}

func (h *UserHandler) replaceImage(w http.ResponseWriter, r *http.Request, field string, update func(*media.File) (*domain.User, error), msg string) error {
	if err := parseMultipart(w, r, h.maxUpload); err != nil {
		return err
	}
	defer cleanupForm(r)
	f, closeFile, err := formFile(r, field)
	if err != nil {
		return err
	}
	defer closeFile()

	u, err := update(f)
	if err != nil {
		return err
	}
	return api.Respond(w, api.OK(u, msg))
}

func (h *UserHandler) ChannelProfile(w http.ResponseWriter, r *http.Request, p domain.Principal) error {
	profile, err := h.svc.ChannelProfile(r.Context(), chi.URLParam(r, "username"), p.UserID)
	if err != nil {
		return err
	}
	return api.Respond(w, api.OK(profile, "User channel fetched successfully"))
}

func (h *UserHandler) WatchHistory(w http.ResponseWriter, r *http.Request, p domain.Principal) error {
	videos, err := h.svc.WatchHistory(r.Context(), p.UserID)
	if err != nil {
		return err
	}
	return api.Respond(w, api.OK(videos, "Watch history fetched successfully"))
}
