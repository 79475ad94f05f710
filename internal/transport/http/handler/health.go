package handler

import (
	"net/http"

	"github.com/go-video-api/internal/transport/http/api"
)

type healthStatus struct {
	Status string `json:"status"`
}

// Health reports that the process is up. It does not probe dependencies.
func Health(w http.ResponseWriter, _ *http.Request) error {
	return api.Respond(w, api.OK(healthStatus{Status: "ok"}, "Health check passed"))
}
