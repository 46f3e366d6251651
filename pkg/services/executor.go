package services

import (
	"context"

	libinjection "github.com/corazawaf/libinjection-go"
	"go.uber.org/zap"

	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/apperrors"
	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/datasource"
	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/logging"
	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/models"
)

// QueryExecutor runs generated SQL against the session's datasource.
//
// Execution failures never propagate as crashes: the caller always receives
// a well-formed (possibly empty) result, and the captured error is returned
// alongside it so tests and logs can see why no rows came back. No retry is
// attempted; a second-attempt repair loop is an extension point.
type QueryExecutor struct {
	store  datasource.Store
	logger *zap.Logger
}

// NewQueryExecutor creates an executor over an established connection.
func NewQueryExecutor(store datasource.Store, logger *zap.Logger) *QueryExecutor {
	return &QueryExecutor{
		store:  store,
		logger: logger.Named("executor"),
	}
}

// Execute runs exactly one statement. A missing connection is an
// orchestrator invariant violation and fails fast with
// apperrors.ErrNotConnected. Any execution-time error yields the empty
// result plus the captured error; the failure reason is visible in logs
// only, never as a crash.
func (e *QueryExecutor) Execute(ctx context.Context, sqlQuery string) (models.QueryResult, error) {
	if e == nil || e.store == nil {
		return models.EmptyQueryResult(), apperrors.ErrNotConnected
	}

	// A translation sentinel still goes to the database and fails there;
	// note it so the log explains the inevitable execution error.
	if sqlQuery == models.TranslationFailed {
		e.logger.Info("executing translation sentinel, expecting driver failure")
	}

	// Advisory only: generated SQL that trips the injection detector is
	// logged for review but never blocked.
	if isSQLi, fingerprint := libinjection.IsSQLi(sqlQuery); isSQLi {
		e.logger.Warn("generated SQL matches injection fingerprint",
			zap.String("fingerprint", string(fingerprint)),
			zap.String("sql", logging.SanitizeQuery(sqlQuery)))
	}

	result, err := e.store.Execute(ctx, sqlQuery)
	if err != nil {
		e.logger.Error("query execution failed",
			zap.String("sql", logging.SanitizeQuery(sqlQuery)),
			zap.String("error", logging.SanitizeError(err)))
		return models.EmptyQueryResult(), err
	}

	e.logger.Debug("query executed",
		zap.String("sql", logging.SanitizeQuery(sqlQuery)),
		zap.Int("rows", len(result.Rows)))
	return result, nil
}
