package handlers

import (
	"net/http"
	"time"

	"streamhub/services/notify"
)

// AdminHandler provides administrative endpoints for monitoring the server
type AdminHandler struct {
	sessions Sessions
	hub      *notify.Hub
	started  time.Time
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(sessions Sessions, hub *notify.Hub) *AdminHandler {
	return &AdminHandler{
		sessions: sessions,
		hub:      hub,
		started:  time.Now(),
	}
}

// StatusResponse is the response for the status endpoint
type StatusResponse struct {
	Visitors  int    `json:"visitors"`
	Listening int    `json:"listening"`
	Sockets   int    `json:"sockets"`
	Uptime    string `json:"uptime"`
}

// GetStatus reports live visitor sessions and open notification sockets.
func (h *AdminHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	response := StatusResponse{
		Uptime: time.Since(h.started).Round(time.Second).String(),
	}
	if h.sessions != nil {
		response.Visitors = h.sessions.Len()
	}
	if h.hub != nil {
		response.Listening, response.Sockets = h.hub.Stats()
	}
	writeJSON(w, http.StatusOK, response)
}
