package services

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/config"
)

// SessionManager owns the live sessions. Sessions are independent: each has
// its own datasource connection, model handle, and cached schema context,
// so many sessions can run concurrently while each one serves its turns
// sequentially.
type SessionManager struct {
	cfg       *config.Config
	logger    *zap.Logger
	openStore StoreOpener
	newEngine EngineFactory

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewSessionManager creates a manager that builds sessions with the given
// factories.
func NewSessionManager(cfg *config.Config, logger *zap.Logger, openStore StoreOpener, newEngine EngineFactory) *SessionManager {
	return &SessionManager{
		cfg:       cfg,
		logger:    logger,
		openStore: openStore,
		newEngine: newEngine,
		sessions:  make(map[uuid.UUID]*Session),
	}
}

// GetOrCreate returns the session for id, creating it lazily. Creation does
// not connect anything; the first turn does.
func (m *SessionManager) GetOrCreate(id uuid.UUID) *Session {
	m.mu.RLock()
	session, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		return session
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if session, ok := m.sessions[id]; ok {
		return session
	}
	session = NewSession(id, m.cfg, m.logger, m.openStore, m.newEngine)
	m.sessions[id] = session
	m.logger.Info("session created", zap.String("session_id", id.String()))
	return session
}

// Close shuts down every session.
func (m *SessionManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, session := range m.sessions {
		if err := session.Close(); err != nil {
			m.logger.Warn("failed to close session",
				zap.String("session_id", id.String()),
				zap.Error(err))
		}
		delete(m.sessions, id)
	}
}
