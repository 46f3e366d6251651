package datasource

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/apperrors"
	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/config"
	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/logging"
	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/models"
)

// postgresStore is the pgx-backed Store implementation.
type postgresStore struct {
	pool    *pgxpool.Pool
	allowed []string
	logger  *zap.Logger
}

func openPostgres(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) (*postgresStore, error) {
	connStr := cfg.URL()

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConnection, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConnection, err)
	}

	logger.Info("connected to datasource",
		zap.String("driver", cfg.Driver),
		zap.String("url", logging.SanitizeConnectionString(connStr)))

	return &postgresStore{
		pool:    pool,
		allowed: cfg.Tables,
		logger:  logger.Named("datasource"),
	}, nil
}

// Reflect returns user tables in the database's enumeration order. Tables
// outside the public schema are qualified as schema.table so generated SQL
// can reference them directly.
func (s *postgresStore) Reflect(ctx context.Context) (*models.SchemaDescription, error) {
	const query = `
		SELECT c.table_schema, c.table_name, c.column_name, c.data_type
		FROM information_schema.columns c
		JOIN information_schema.tables t
		  ON t.table_schema = c.table_schema AND t.table_name = c.table_name
		WHERE t.table_type = 'BASE TABLE'
		  AND c.table_schema NOT IN ('pg_catalog', 'information_schema')
		ORDER BY c.table_schema, c.table_name, c.ordinal_position
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("reflect schema: %w", err)
	}
	defer rows.Close()

	var tables []models.TableDescriptor
	for rows.Next() {
		var schemaName, tableName, columnName, dataType string
		if err := rows.Scan(&schemaName, &tableName, &columnName, &dataType); err != nil {
			return nil, fmt.Errorf("scan column metadata: %w", err)
		}

		name := tableName
		if schemaName != "public" {
			name = schemaName + "." + tableName
		}

		if len(tables) == 0 || tables[len(tables)-1].Name != name {
			tables = append(tables, models.TableDescriptor{Name: name})
		}
		last := &tables[len(tables)-1]
		last.Columns = append(last.Columns, models.ColumnDescriptor{Name: columnName, Type: dataType})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate column metadata: %w", err)
	}

	kept, err := filterTables(tables, s.allowed)
	if err != nil {
		return nil, err
	}
	return &models.SchemaDescription{Tables: kept}, nil
}

// DistinctValues keeps the database's own DISTINCT result order.
func (s *postgresStore) DistinctValues(ctx context.Context, table, column string, limit int) ([]string, error) {
	query := fmt.Sprintf("SELECT DISTINCT %s FROM %s WHERE %s IS NOT NULL LIMIT %d",
		quotePostgres(column), quotePostgres(table), quotePostgres(column), limit)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("distinct values of %s.%s: %w", table, column, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read distinct value: %w", err)
		}
		values = append(values, fmt.Sprint(vals[0]))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate distinct values: %w", err)
	}
	return values, nil
}

// Execute runs the statement and collects all rows.
func (s *postgresStore) Execute(ctx context.Context, sqlQuery string) (models.QueryResult, error) {
	rows, err := s.pool.Query(ctx, sqlQuery)
	if err != nil {
		return models.EmptyQueryResult(), fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	columns := make([]string, len(fieldDescs))
	for i, fd := range fieldDescs {
		columns[i] = fd.Name
	}

	result := models.QueryResult{Columns: columns, Rows: [][]any{}}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return models.EmptyQueryResult(), fmt.Errorf("read row values: %w", err)
		}
		row := make([]any, len(values))
		copy(row, values)
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return models.EmptyQueryResult(), fmt.Errorf("iterate rows: %w", err)
	}
	return result, nil
}

func (s *postgresStore) Close() error {
	s.pool.Close()
	return nil
}

// quotePostgres quotes a possibly schema-qualified identifier.
func quotePostgres(name string) string {
	return pgx.Identifier(splitQualified(name)).Sanitize()
}
