package handler

import (
	"net/http"

	"github.com/go-video-api/internal/application/dashboard"
	"github.com/go-video-api/internal/domain"
	"github.com/go-video-api/internal/transport/http/api"
)

type DashboardHandler struct {
	svc dashboard.Service
}

func NewDashboardHandler(svc dashboard.Service) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request, p domain.Principal) error {
	stats, err := h.svc.Stats(r.Context(), p.UserID)
	if err != nil {
		return err
	}
	return api.Respond(w, api.OK(stats, "Channel stats fetched successfully"))
}

func (h *DashboardHandler) Videos(w http.ResponseWriter, r *http.Request, p domain.Principal) error {
	pr, err := api.PageFromQuery(r)
	if err != nil {
		return err
	}
	page, err := h.svc.Videos(r.Context(), p.UserID, pr)
	if err != nil {
		return err
	}
	return api.Respond(w, api.OK(page, "Channel videos fetched successfully"))
}
