package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const maxDebugEntries = 50

// DebugHandler records diagnostics reported by the page script.
type DebugHandler struct {
	sessions Sessions
	logger   *zap.Logger
}

type debugLogEntry struct {
	Level     string `json:"level"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type debugLogRequest struct {
	UserAgent string          `json:"userAgent"`
	Path      string          `json:"path"`
	Entries   []debugLogEntry `json:"entries"`
}

func NewDebugHandler(sessions Sessions, logger *zap.Logger) *DebugHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DebugHandler{sessions: sessions, logger: logger.Named("client")}
}

func (h *DebugHandler) Capture(w http.ResponseWriter, r *http.Request) {
	var payload debugLogRequest
	decoder := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := decoder.Decode(&payload); err != nil {
		http.Error(w, fmt.Sprintf("invalid payload: %v", err), http.StatusBadRequest)
		return
	}

	if len(payload.Entries) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ignored", "reason": "no entries"})
		return
	}
	if len(payload.Entries) > maxDebugEntries {
		payload.Entries = payload.Entries[:maxDebugEntries]
	}

	session := h.sessions.Resolve(w, r)
	remoteAddr := strings.TrimSpace(r.Header.Get("X-Forwarded-For"))
	if remoteAddr == "" {
		remoteAddr = strings.TrimSpace(r.RemoteAddr)
	}

	logged := 0
	for _, entry := range payload.Entries {
		message := strings.TrimSpace(entry.Message)
		if message == "" {
			continue
		}
		timestamp := strings.TrimSpace(entry.Timestamp)
		if timestamp == "" {
			timestamp = time.Now().UTC().Format(time.RFC3339)
		}

		fields := []zap.Field{
			zap.String("visitor", session.Visitor.ID),
			zap.String("remote", remoteAddr),
			zap.String("ua", strings.TrimSpace(payload.UserAgent)),
			zap.String("path", strings.TrimSpace(payload.Path)),
			zap.String("ts", timestamp),
		}
		switch strings.ToLower(strings.TrimSpace(entry.Level)) {
		case "error":
			h.logger.Error(message, fields...)
		case "warn", "warning":
			h.logger.Warn(message, fields...)
		case "debug":
			h.logger.Debug(message, fields...)
		default:
			h.logger.Info(message, fields...)
		}
		logged++
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "logged": logged})
}
