package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"streamhub/services/portal"
	"streamhub/services/watchlist"
)

// WatchlistHandler toggles and lists the visitor's watchlist.
type WatchlistHandler struct {
	portal    *portal.Portal
	watchlist *watchlist.Service
	sessions  Sessions
	logger    *zap.Logger
}

func NewWatchlistHandler(p *portal.Portal, svc *watchlist.Service, sessions Sessions, logger *zap.Logger) *WatchlistHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WatchlistHandler{portal: p, watchlist: svc, sessions: sessions, logger: logger.Named("watchlist")}
}

func (h *WatchlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s := h.sessions.Resolve(w, r)
	result, err := h.portal.ToggleWatchlist(r.Context(), s.Visitor.ID, s.State, id)
	if err != nil {
		h.logger.Error("toggle", zap.String("visitor", s.Visitor.ID), zap.Int64("id", id), zap.Error(err))
		http.Error(w, "failed to update watchlist", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Resolve(w, r)
	ids, err := h.watchlist.List(r.Context(), s.Visitor.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if ids == nil {
		ids = []int64{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"watchlist": ids})
}
