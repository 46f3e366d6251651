package datasource

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/apperrors"
	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/config"
	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/models"
)

func newMockStore(t *testing.T, cfg *config.DatabaseConfig) (*sqlStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return newSQLStore(db, mysqlDialect, cfg, zap.NewNop()), mock
}

func TestReflect(t *testing.T) {
	cfg := &config.DatabaseConfig{Schema: "home_data"}
	store, mock := newMockStore(t, cfg)

	mock.ExpectQuery(mysqlDialect.columnsQuery).
		WithArgs("home_data").
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_NAME", "COLUMN_NAME", "COLUMN_TYPE"}).
			AddRow("home", "id", "int").
			AddRow("home", "province", "varchar(64)").
			AddRow("home", "price", "int").
			AddRow("neighborhood", "name", "varchar(128)"))

	schema, err := store.Reflect(context.Background())
	require.NoError(t, err)
	require.Len(t, schema.Tables, 2)

	assert.Equal(t, "home", schema.Tables[0].Name)
	assert.Equal(t, []models.ColumnDescriptor{
		{Name: "id", Type: "int"},
		{Name: "province", Type: "varchar(64)"},
		{Name: "price", Type: "int"},
	}, schema.Tables[0].Columns)
	assert.Equal(t, "neighborhood", schema.Tables[1].Name)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReflectAllowList(t *testing.T) {
	cfg := &config.DatabaseConfig{Schema: "home_data", Tables: []string{"home"}}
	store, mock := newMockStore(t, cfg)

	mock.ExpectQuery(mysqlDialect.columnsQuery).
		WithArgs("home_data").
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_NAME", "COLUMN_NAME", "COLUMN_TYPE"}).
			AddRow("home", "id", "int").
			AddRow("neighborhood", "name", "varchar(128)"))

	schema, err := store.Reflect(context.Background())
	require.NoError(t, err)
	require.Len(t, schema.Tables, 1)
	assert.Equal(t, "home", schema.Tables[0].Name)
}

func TestReflectAllowListNotFound(t *testing.T) {
	cfg := &config.DatabaseConfig{Schema: "home_data", Tables: []string{"missing"}}
	store, mock := newMockStore(t, cfg)

	mock.ExpectQuery(mysqlDialect.columnsQuery).
		WithArgs("home_data").
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_NAME", "COLUMN_NAME", "COLUMN_TYPE"}).
			AddRow("home", "id", "int"))

	_, err := store.Reflect(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNoTables))
}

func TestReflectEmptyDatabase(t *testing.T) {
	cfg := &config.DatabaseConfig{Schema: "home_data"}
	store, mock := newMockStore(t, cfg)

	mock.ExpectQuery(mysqlDialect.columnsQuery).
		WithArgs("home_data").
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_NAME", "COLUMN_NAME", "COLUMN_TYPE"}))

	_, err := store.Reflect(context.Background())
	assert.True(t, errors.Is(err, apperrors.ErrNoTables))
}

func TestExecute(t *testing.T) {
	store, mock := newMockStore(t, &config.DatabaseConfig{Schema: "home_data"})

	const query = "SELECT province, price FROM home"
	mock.ExpectQuery(query).
		WillReturnRows(sqlmock.NewRows([]string{"province", "price"}).
			AddRow([]byte("Madrid"), 250000).
			AddRow([]byte("Barcelona"), 320000))

	result, err := store.Execute(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, []string{"province", "price"}, result.Columns)
	require.Len(t, result.Rows, 2)
	// []byte text columns are surfaced as strings.
	assert.Equal(t, []any{"Madrid", int64(250000)}, result.Rows[0])

	for _, row := range result.Rows {
		assert.Len(t, row, len(result.Columns))
	}
}

func TestExecuteFailure(t *testing.T) {
	store, mock := newMockStore(t, &config.DatabaseConfig{Schema: "home_data"})

	const query = "SELECT nope FROM nowhere"
	mock.ExpectQuery(query).WillReturnError(errors.New("table nowhere does not exist"))

	result, err := store.Execute(context.Background(), query)
	require.Error(t, err)
	// Failures still yield a well-formed empty result.
	assert.NotNil(t, result.Columns)
	assert.NotNil(t, result.Rows)
	assert.Empty(t, result.Columns)
	assert.Empty(t, result.Rows)
}

func TestDistinctValues(t *testing.T) {
	store, mock := newMockStore(t, &config.DatabaseConfig{Schema: "home_data"})

	mock.ExpectQuery("SELECT DISTINCT `province` FROM `home` WHERE `province` IS NOT NULL LIMIT 25").
		WillReturnRows(sqlmock.NewRows([]string{"province"}).
			AddRow([]byte("Madrid")).
			AddRow([]byte("Barcelona")).
			AddRow([]byte("Valencia")))

	values, err := store.DistinctValues(context.Background(), "home", "province", 25)
	require.NoError(t, err)
	// Order is the database's own result order, never resorted.
	assert.Equal(t, []string{"Madrid", "Barcelona", "Valencia"}, values)
}

func TestQuoteIdentifiers(t *testing.T) {
	assert.Equal(t, "`home`", quoteMySQL("home"))
	assert.Equal(t, "`home_data`.`home`", quoteMySQL("home_data.home"))
	assert.Equal(t, "`we``ird`", quoteMySQL("we`ird"))

	assert.Equal(t, "[home]", quoteSQLServer("home"))
	assert.Equal(t, "[dbo].[home]", quoteSQLServer("dbo.home"))
	assert.Equal(t, "[we]]ird]", quoteSQLServer("we]ird"))
}

func TestMysqlDSN(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host:     "192.168.1.94",
		Port:     3306,
		User:     "jorge",
		Password: "secret",
		Schema:   "home_data",
	}
	dsn := mysqlDSN(cfg)
	assert.Contains(t, dsn, "tcp(192.168.1.94:3306)")
	assert.Contains(t, dsn, "/home_data")
}

func TestSqlserverDSN(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host:     "db.internal",
		Port:     1433,
		User:     "reader",
		Password: "secret",
		Schema:   "homes",
	}
	dsn := sqlserverDSN(cfg)
	assert.Contains(t, dsn, "sqlserver://")
	assert.Contains(t, dsn, "db.internal:1433")
	assert.Contains(t, dsn, "database=homes")
}
