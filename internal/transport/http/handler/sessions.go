package handler

import (
	"net/http"
	"time"

	"github.com/go-video-api/internal/application/session"
	"github.com/go-video-api/internal/domain"
	"github.com/go-video-api/internal/transport/http/api"
	"github.com/go-video-api/internal/transport/http/middleware"
)

// SessionHandler serves login, logout and token refresh. Tokens are returned
// in the body and as HttpOnly cookies.
type SessionHandler struct {
	svc        session.Service
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewSessionHandler(svc session.Service, accessTTL, refreshTTL time.Duration) *SessionHandler {
	return &SessionHandler{svc: svc, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) error {
	var req domain.LoginRequest
	if err := api.ReadJSON(r, &req); err != nil {
		return err
	}
	res, err := h.svc.Login(r.Context(), req)
	if err != nil {
		return err
	}
	setTokenCookies(w, res.AccessToken, res.RefreshToken, h.accessTTL, h.refreshTTL)
	return api.Respond(w, api.OK(res, "User logged in successfully"))
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request, p domain.Principal) error {
	if err := h.svc.Logout(r.Context(), p); err != nil {
		return err
	}
	clearTokenCookies(w)
	return api.Respond(w, api.OK(struct{}{}, "User logged out"))
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh takes the refresh token from its cookie, falling back to the body.
func (h *SessionHandler) Refresh(w http.ResponseWriter, r *http.Request) error {
	var token string
	if c, err := r.Cookie(middleware.RefreshTokenCookie); err == nil {
		token = c.Value
	}
	if token == "" && r.ContentLength != 0 {
		var req refreshRequest
		if err := api.ReadJSON(r, &req); err != nil {
			return err
		}
		token = req.RefreshToken
	}
	tokens, err := h.svc.Refresh(r.Context(), token)
	if err != nil {
		return err
	}
	setTokenCookies(w, tokens.AccessToken, tokens.RefreshToken, h.accessTTL, h.refreshTTL)
	return api.Respond(w, api.OK(tokens, "Access token refreshed"))
}
