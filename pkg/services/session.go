package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/apperrors"
	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/config"
	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/datasource"
	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/llm"
	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/models"
)

// SessionState names the initialization states of a session.
type SessionState int

const (
	// StateUninitialized means neither datasource nor model handle exists.
	StateUninitialized SessionState = iota
	// StatePartiallyReady means the datasource is connected and the schema
	// context cached, but the model handle is not yet built.
	StatePartiallyReady
	// StateReady means both handles exist and turns can be served.
	StateReady
)

func (s SessionState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StatePartiallyReady:
		return "partially-ready"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// StoreOpener opens a datasource connection. Injected so tests can verify
// initialization happens exactly once.
type StoreOpener func(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) (datasource.Store, error)

// EngineFactory builds an inference engine. Injected for the same reason.
type EngineFactory func(cfg *config.ModelConfig, logger *zap.Logger) (llm.StructuredInferenceEngine, error)

// Session owns one user's pipeline state: the datasource connection, the
// model handle, and the cached schema context. Handles are built lazily on
// the first turn that needs them and reused afterwards. A session is served
// sequentially; independent sessions share nothing.
type Session struct {
	id     uuid.UUID
	cfg    *config.Config
	logger *zap.Logger

	openStore StoreOpener
	newEngine EngineFactory

	mu         sync.Mutex
	state      SessionState
	store      datasource.Store
	engine     llm.StructuredInferenceEngine
	promptCtx  string
	translator *QueryTranslator
	executor   *QueryExecutor
}

// NewSession creates an uninitialized session. No connection is made until
// the first turn.
func NewSession(id uuid.UUID, cfg *config.Config, logger *zap.Logger, openStore StoreOpener, newEngine EngineFactory) *Session {
	return &Session{
		id:        id,
		cfg:       cfg,
		logger:    logger.Named("session").With(zap.String("session_id", id.String())),
		openStore: openStore,
		newEngine: newEngine,
		state:     StateUninitialized,
	}
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// State returns the current initialization state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// advance is the single transition function of the state machine. It is
// idempotent: handles that already exist are never rebuilt, so repeated
// calls after Ready have no observable effect.
func (s *Session) advance(ctx context.Context) error {
	if s.store == nil {
		store, err := s.openStore(ctx, &s.cfg.Database, s.logger)
		if err != nil {
			return fmt.Errorf("initialize datasource: %w", err)
		}

		schema, err := store.Reflect(ctx)
		if err != nil {
			_ = store.Close()
			return fmt.Errorf("reflect schema: %w", err)
		}
		s.collectFacts(ctx, store, schema)

		s.store = store
		s.promptCtx = SynthesizeContext(schema)
		s.executor = NewQueryExecutor(store, s.logger)
		s.state = StatePartiallyReady
		s.logger.Info("datasource ready",
			zap.Int("tables", len(schema.Tables)),
			zap.Int("facts", len(schema.Facts)))
	}

	if s.engine == nil {
		engine, err := s.newEngine(&s.cfg.Model, s.logger)
		if err != nil {
			return fmt.Errorf("initialize model: %w", err)
		}
		s.engine = engine
		s.translator = NewQueryTranslator(engine, s.logger)
		s.state = StateReady
		s.logger.Info("model ready", zap.String("model", s.cfg.Model.Name))
	}

	return nil
}

// collectFacts enumerates distinct values for the configured categorical
// columns. Fact collection is best-effort: a failing column is logged and
// skipped, never fatal to initialization.
func (s *Session) collectFacts(ctx context.Context, store datasource.Store, schema *models.SchemaDescription) {
	for _, fc := range s.cfg.Database.FactColumns {
		sep := strings.LastIndex(fc, ".")
		if sep < 0 {
			continue
		}
		table, column := fc[:sep], fc[sep+1:]

		values, err := store.DistinctValues(ctx, table, column, s.cfg.Database.FactValueLimit)
		if err != nil {
			s.logger.Warn("skipping fact column",
				zap.String("column", fc),
				zap.Error(err))
			continue
		}
		if len(values) > 0 {
			schema.Facts = append(schema.Facts, FormatDistinctValuesFact(column, values))
		}
	}
}

// HandleTurn serves one user turn: ensure both handles exist, translate the
// question, execute the SQL, and format the result. The returned SQL string
// is exactly what was attempted, including the sentinel text on translation
// failure, so the caller can show why no rows came back.
//
// Only connection-establishment failures abort the turn. Translation and
// execution failures degrade to an empty table.
func (s *Session) HandleTurn(ctx context.Context, question string) (models.Table, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.advance(ctx); err != nil {
		return models.Table{}, "", err
	}

	translation := s.translator.Translate(ctx, s.promptCtx, question)
	result, execErr := s.executor.Execute(ctx, translation.SQLQuery)
	if execErr != nil {
		if errors.Is(execErr, apperrors.ErrNotConnected) {
			return models.Table{}, translation.SQLQuery, execErr
		}
		// Degraded path: the executor logged the failure and returned the
		// empty result; the user still gets a response.
	}

	return FormatResult(result), translation.SQLQuery, nil
}

// Close releases the session's datasource connection.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store != nil {
		err := s.store.Close()
		s.store = nil
		s.state = StateUninitialized
		return err
	}
	return nil
}
