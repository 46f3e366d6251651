package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql"
	_ "github.com/microsoft/go-mssqldb" // sqlserver driver registration
	"go.uber.org/zap"

	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/apperrors"
	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/config"
	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/logging"
	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/models"
)

// dialect captures the per-driver differences of the database/sql adapters.
type dialect struct {
	name string
	// columnsQuery lists (table, column, type) for the configured schema in
	// enumeration order. The mysql variant takes the schema name as its only
	// parameter; the sqlserver variant resolves the database itself.
	columnsQuery  string
	usesSchemaArg bool
	quote         func(name string) string
	distinctQuery func(table, column string, limit int) string
}

var mysqlDialect = dialect{
	name: config.DriverMySQL,
	columnsQuery: `SELECT TABLE_NAME, COLUMN_NAME, COLUMN_TYPE
		FROM information_schema.COLUMNS
		WHERE TABLE_SCHEMA = ?
		ORDER BY TABLE_NAME, ORDINAL_POSITION`,
	usesSchemaArg: true,
	quote:         quoteMySQL,
	distinctQuery: func(table, column string, limit int) string {
		return fmt.Sprintf("SELECT DISTINCT %s FROM %s WHERE %s IS NOT NULL LIMIT %d",
			quoteMySQL(column), quoteMySQL(table), quoteMySQL(column), limit)
	},
}

var sqlserverDialect = dialect{
	name: config.DriverSQLServer,
	columnsQuery: `SELECT TABLE_NAME, COLUMN_NAME, DATA_TYPE
		FROM INFORMATION_SCHEMA.COLUMNS
		ORDER BY TABLE_NAME, ORDINAL_POSITION`,
	quote: quoteSQLServer,
	distinctQuery: func(table, column string, limit int) string {
		return fmt.Sprintf("SELECT DISTINCT TOP (%d) %s FROM %s WHERE %s IS NOT NULL",
			limit, quoteSQLServer(column), quoteSQLServer(table), quoteSQLServer(column))
	},
}

// sqlStore is the database/sql-backed Store shared by the mysql and
// sqlserver adapters.
type sqlStore struct {
	db      *sql.DB
	dialect dialect
	schema  string
	allowed []string
	logger  *zap.Logger
}

func openSQL(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) (*sqlStore, error) {
	var d dialect
	var dsn string
	switch cfg.Driver {
	case config.DriverMySQL:
		d = mysqlDialect
		dsn = mysqlDSN(cfg)
	case config.DriverSQLServer:
		d = sqlserverDialect
		dsn = sqlserverDSN(cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := sql.Open(d.name, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConnection, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConnection, err)
	}

	logger.Info("connected to datasource",
		zap.String("driver", cfg.Driver),
		zap.String("url", logging.SanitizeConnectionString(cfg.URL())))

	return newSQLStore(db, d, cfg, logger), nil
}

// newSQLStore wraps an open handle. Split from openSQL so tests can inject
// a sqlmock-backed *sql.DB.
func newSQLStore(db *sql.DB, d dialect, cfg *config.DatabaseConfig, logger *zap.Logger) *sqlStore {
	return &sqlStore{
		db:      db,
		dialect: d,
		schema:  cfg.Schema,
		allowed: cfg.Tables,
		logger:  logger.Named("datasource"),
	}
}

// mysqlDSN builds the go-sql-driver DSN from the connection parameters.
func mysqlDSN(cfg *config.DatabaseConfig) string {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	mc.DBName = cfg.Schema
	return mc.FormatDSN()
}

// sqlserverDSN builds the go-mssqldb URL form of the connection string.
func sqlserverDSN(cfg *config.DatabaseConfig) string {
	u := url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		RawQuery: url.Values{"database": {cfg.Schema}}.Encode(),
	}
	return u.String()
}

func (s *sqlStore) Reflect(ctx context.Context) (*models.SchemaDescription, error) {
	var args []any
	if s.dialect.usesSchemaArg {
		args = append(args, s.schema)
	}

	rows, err := s.db.QueryContext(ctx, s.dialect.columnsQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("reflect schema: %w", err)
	}
	defer rows.Close()

	var tables []models.TableDescriptor
	for rows.Next() {
		var tableName, columnName, columnType string
		if err := rows.Scan(&tableName, &columnName, &columnType); err != nil {
			return nil, fmt.Errorf("scan column metadata: %w", err)
		}
		if len(tables) == 0 || tables[len(tables)-1].Name != tableName {
			tables = append(tables, models.TableDescriptor{Name: tableName})
		}
		last := &tables[len(tables)-1]
		last.Columns = append(last.Columns, models.ColumnDescriptor{Name: columnName, Type: columnType})
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

func (s *sqlStore) DistinctValues(ctx context.Context, table, column string, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.distinctQuery(table, column, limit))
	if err != nil {
		return nil, fmt.Errorf("distinct values of %s.%s: %w", table, column, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v any
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("read distinct value: %w", err)
		}
		values = append(values, renderValue(v))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate distinct values: %w", err)
	}
	return values, nil
}

func (s *sqlStore) Execute(ctx context.Context, sqlQuery string) (models.QueryResult, error) {
	rows, err := s.db.QueryContext(ctx, sqlQuery)
	if err != nil {
		return models.EmptyQueryResult(), fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return models.EmptyQueryResult(), fmt.Errorf("read result columns: %w", err)
	}

	result := models.QueryResult{Columns: columns, Rows: [][]any{}}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return models.EmptyQueryResult(), fmt.Errorf("scan row: %w", err)
		}
		for i, v := range values {
			// MySQL returns text columns as []byte; surface them as strings.
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return models.EmptyQueryResult(), fmt.Errorf("iterate rows: %w", err)
	}
	return result, nil
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}

// renderValue stringifies a driver value for fact enumeration.
func renderValue(v any) string {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return fmt.Sprint(v)
}

// quoteMySQL backtick-quotes a possibly schema-qualified identifier.
func quoteMySQL(name string) string {
	parts := splitQualified(name)
	for i, p := range parts {
		parts[i] = "`" + strings.ReplaceAll(p, "`", "``") + "`"
	}
	return strings.Join(parts, ".")
}

// quoteSQLServer bracket-quotes a possibly schema-qualified identifier.
func quoteSQLServer(name string) string {
	parts := splitQualified(name)
	for i, p := range parts {
		parts[i] = "[" + strings.ReplaceAll(p, "]", "]]") + "]"
	}
	return strings.Join(parts, ".")
}

// splitQualified splits "schema.table" style names into their parts.
func splitQualified(name string) []string {
	return strings.Split(name, ".")
}
