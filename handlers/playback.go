package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"streamhub/models"
	playbacksvc "streamhub/services/playback"
)

const maxPlayerMessage = 64 << 10

type playbackService interface {
	HandleMessage(ctx context.Context, namespace, raw string) error
	Progress(ctx context.Context, namespace string, id int64) (models.PlaybackProgress, bool, error)
	AllProgress(ctx context.Context, namespace string) ([]models.PlaybackProgress, error)
	ClearProgress(ctx context.Context, namespace string, id int64) error
}

var _ playbackService = (*playbacksvc.Service)(nil)

// PlaybackHandler receives the messages the embedded player posts to the page.
type PlaybackHandler struct {
	Service  playbackService
	sessions Sessions
	logger   *zap.Logger
}

func NewPlaybackHandler(s playbackService, sessions Sessions, logger *zap.Logger) *PlaybackHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlaybackHandler{Service: s, sessions: sessions, logger: logger.Named("player")}
}

// Events stores time updates. Malformed messages are rejected with 400 and never shown to the visitor.
func (h *PlaybackHandler) Events(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxPlayerMessage+1))
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}
	if len(body) > maxPlayerMessage {
		http.Error(w, "message too large", http.StatusRequestEntityTooLarge)
		return
	}

	session := h.sessions.Resolve(w, r)
	if err := h.Service.HandleMessage(r.Context(), session.Visitor.ID, string(body)); err != nil {
		switch {
		case errors.Is(err, playbacksvc.ErrInvalidMessage):
			h.logger.Debug("rejected player message", zap.String("visitor", session.Visitor.ID), zap.Error(err))
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.logger.Error("store player message", zap.String("visitor", session.Visitor.ID), zap.Error(err))
			http.Error(w, "failed to store progress", http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Progress reports the last stored progress of a movie.
func (h *PlaybackHandler) Progress(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	session := h.sessions.Resolve(w, r)
	progress, found, err := h.Service.Progress(r.Context(), session.Visitor.ID, id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "no progress recorded", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

// ListProgress reports every stored progress record of the visitor.
func (h *PlaybackHandler) ListProgress(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Resolve(w, r)
	records, err := h.Service.AllProgress(r.Context(), session.Visitor.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"progress": records})
}

// ClearProgress deletes the stored progress of a movie. Clearing a movie without progress succeeds.
func (h *PlaybackHandler) ClearProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	session := h.sessions.Resolve(w, r)
	if err := h.Service.ClearProgress(r.Context(), session.Visitor.ID, id); err != nil {
		h.logger.Error("clear progress", zap.String("visitor", session.Visitor.ID), zap.Int64("id", id), zap.Error(err))
		http.Error(w, "failed to clear progress", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
