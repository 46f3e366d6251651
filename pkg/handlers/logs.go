package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/logtail"
)

// LogsResponse carries the most recent log snapshot.
type LogsResponse struct {
	Logs string `json:"logs"`
}

// LogsHandler serves the refreshing log panel.
type LogsHandler struct {
	tailer *logtail.Tailer
	logger *zap.Logger
}

// NewLogsHandler creates a new LogsHandler.
func NewLogsHandler(tailer *logtail.Tailer, logger *zap.Logger) *LogsHandler {
	return &LogsHandler{tailer: tailer, logger: logger}
}

// RegisterRoutes registers the logs route on the given mux.
func (h *LogsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/logs", h.Logs)
}

// Logs handles GET /api/logs with the tailer's current snapshot.
func (h *LogsHandler) Logs(w http.ResponseWriter, r *http.Request) {
	if err := WriteJSON(w, http.StatusOK, LogsResponse{Logs: h.tailer.Snapshot()}); err != nil {
		h.logger.Error("Failed to encode logs response", zap.Error(err))
	}
}
