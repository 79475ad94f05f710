package handler

import (
	"net/http"

	"github.com/go-video-api/internal/application/subscription"
	"github.com/go-video-api/internal/domain"
	"github.com/go-video-api/internal/transport/http/api"
)

type SubscriptionHandler struct {
	svc subscription.Service
}

func NewSubscriptionHandler(svc subscription.Service) *SubscriptionHandler {
	return &SubscriptionHandler{svc: svc}
}

// Toggle answers 201 when a subscription was created and 200 when it was removed.
func (h *SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request, p domain.Principal) error {
	channelID, err := api.PathID(r, "channelId")
	if err != nil {
		return err
	}
	state, err := h.svc.Toggle(r.Context(), p.UserID, channelID)
	if err != nil {
		return err
	}
	if state.IsSubscribed {
		return api.Respond(w, api.Created(state, "Subscribed successfully"))
	}
	return api.Respond(w, api.OK(state, "Unsubscribed successfully"))
}

func (h *SubscriptionHandler) Subscribers(w http.ResponseWriter, r *http.Request, _ domain.Principal) error {
	channelID, err := api.PathID(r, "channelId")
	if err != nil {
		return err
	}
	pr, err := api.PageFromQuery(r)
	if err != nil {
		return err
	}
	page, err := h.svc.Subscribers(r.Context(), channelID, pr)
	if err != nil {
		return err
	}
	return api.Respond(w, api.OK(page, "Subscribers fetched successfully"))
}

func (h *SubscriptionHandler) Channels(w http.ResponseWriter, r *http.Request, _ domain.Principal) error {
	subscriberID, err := api.PathID(r, "subscriberId")
	if err != nil {
		return err
	}
	pr, err := api.PageFromQuery(r)
	if err != nil {
		return err
	}
	page, err := h.svc.Channels(r.Context(), subscriberID, pr)
	if err != nil {
		return err
	}
	return api.Respond(w, api.OK(page, "Subscribed channels fetched successfully"))
}
