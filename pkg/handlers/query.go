package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/apperrors"
	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/services"
)

// QueryRequest is one user turn. SessionID is optional: an empty value
// starts a fresh session whose id is echoed back for reuse.
type QueryRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Question  string `json:"question"`
}

// QueryResponse carries the tabular result, the SQL that was actually
// attempted, and a short info line combining both query and result shape.
type QueryResponse struct {
	SessionID string     `json:"session_id"`
	SQL       string     `json:"sql"`
	Columns   []string   `json:"columns"`
	Rows      [][]string `json:"rows"`
	Info      string     `json:"info"`
}

// QueryHandler routes user questions into their sessions.
type QueryHandler struct {
	sessions *services.SessionManager
	logger   *zap.Logger
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(sessions *services.SessionManager, logger *zap.Logger) *QueryHandler {
	return &QueryHandler{sessions: sessions, logger: logger}
}

// RegisterRoutes registers the query route on the given mux.
func (h *QueryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/query", h.Query)
}

// Query handles POST /api/query: ensure the session is initialized, run the
// turn, and return the table plus echoed SQL. Each request runs on its own
// server goroutine, so one session's slow inference cannot stall another's.
func (h *QueryHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Question == "" {
		WriteError(w, http.StatusBadRequest, "question is required")
		return
	}

	sessionID := uuid.New()
	if req.SessionID != "" {
		parsed, err := uuid.Parse(req.SessionID)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "invalid session_id")
			return
		}
		sessionID = parsed
	}

	session := h.sessions.GetOrCreate(sessionID)
	table, echoedSQL, err := session.HandleTurn(r.Context(), req.Question)
	if err != nil {
		h.logger.Error("turn failed",
			zap.String("session_id", sessionID.String()),
			zap.Error(err))
		status := http.StatusBadGateway
		if errors.Is(err, apperrors.ErrNotConnected) {
			status = http.StatusInternalServerError
		}
		WriteError(w, status, "session initialization failed")
		return
	}

	response := QueryResponse{
		SessionID: sessionID.String(),
		SQL:       echoedSQL,
		Columns:   table.Columns,
		Rows:      table.Rows,
		Info:      fmt.Sprintf("%s --- %s", echoedSQL, table.Shape()),
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode query response", zap.Error(err))
	}
}
