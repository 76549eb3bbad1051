package handlers

import (
	"net/http"

	"streamhub/services/notify"
)

// NotificationsHandler streams watchlist notifications over a websocket.
type NotificationsHandler struct {
	hub      *notify.Hub
	sessions Sessions
}

func NewNotificationsHandler(hub *notify.Hub, sessions Sessions) *NotificationsHandler {
	return &NotificationsHandler{hub: hub, sessions: sessions}
}

func (h *NotificationsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Resolve(w, r)
	h.hub.ServeWS(w, r, s.Visitor.ID)
}
