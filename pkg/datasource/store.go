// Package datasource provides schema reflection and SQL execution against
// the live database that questions are answered from.
package datasource

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/apperrors"
	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/config"
	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/models"
)

// Store is the capability contract the session orchestrator depends on: a
// connected datasource that can describe itself and run SQL. The connection
// is opened once by Open and retained for later execution; it is owned by
// exactly one session and never shared.
type Store interface {
	// Reflect returns table and column metadata in the database's natural
	// enumeration order, filtered by the configured allow-list.
	Reflect(ctx context.Context) (*models.SchemaDescription, error)

	// DistinctValues returns up to limit distinct non-null values of a
	// column, in the database's own result order.
	DistinctValues(ctx context.Context, table, column string, limit int) ([]string, error)

	// Execute runs exactly one SQL statement and returns rows plus column
	// names in driver order.
	Execute(ctx context.Context, sqlQuery string) (models.QueryResult, error)

	// Close releases the connection.
	Close() error
}

// Open connects to the configured datasource and returns a live Store.
// Unreachable hosts and rejected credentials surface as
// apperrors.ErrConnection.
func Open(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) (Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, logger)
	case config.DriverMySQL, config.DriverSQLServer:
		return openSQL(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// filterTables applies the allow-list while preserving reflection order.
// An empty allow-list means all tables. Reflection that yields no usable
// tables, either because the database is empty or because no allow-listed
// table exists, is apperrors.ErrNoTables.
func filterTables(tables []models.TableDescriptor, allowed []string) ([]models.TableDescriptor, error) {
	if len(allowed) == 0 {
		if len(tables) == 0 {
			return nil, apperrors.ErrNoTables
		}
		return tables, nil
	}

	allowedSet := make(map[string]struct{}, len(allowed))
	for _, name := range allowed {
		allowedSet[name] = struct{}{}
	}

	var kept []models.TableDescriptor
	for _, t := range tables {
		if _, ok := allowedSet[t.Name]; ok {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("%w: none of the allow-listed tables %v were found", apperrors.ErrNoTables, allowed)
	}
	return kept, nil
}
