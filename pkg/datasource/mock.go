package datasource

import (
	"context"

	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/models"
)

// MockStore is a configurable mock for testing the query pipeline without a
// database. Set the function fields to control behavior; calls are counted
// so tests can verify idempotent initialization.
type MockStore struct {
	// ReflectFunc is called when Reflect is invoked. If nil, returns a
	// single-table schema.
	ReflectFunc func(ctx context.Context) (*models.SchemaDescription, error)

	// DistinctValuesFunc is called when DistinctValues is invoked. If nil,
	// returns nil values.
	DistinctValuesFunc func(ctx context.Context, table, column string, limit int) ([]string, error)

	// ExecuteFunc is called when Execute is invoked. If nil, returns an
	// empty result.
	ExecuteFunc func(ctx context.Context, sqlQuery string) (models.QueryResult, error)

	// Call tracking for verification.
	ReflectCalls        int
	DistinctValuesCalls int
	ExecuteCalls        int
	Closed              bool

	// LastSQL holds the statement of the most recent Execute call.
	LastSQL string
}

// Reflect implements Store.
func (m *MockStore) Reflect(ctx context.Context) (*models.SchemaDescription, error) {
	m.ReflectCalls++
	if m.ReflectFunc != nil {
		return m.ReflectFunc(ctx)
	}
	return &models.SchemaDescription{
		Tables: []models.TableDescriptor{
			{
				Name: "home",
				Columns: []models.ColumnDescriptor{
					{Name: "id", Type: "int"},
					{Name: "province", Type: "varchar(64)"},
					{Name: "price", Type: "int"},
				},
			},
		},
	}, nil
}

// DistinctValues implements Store.
func (m *MockStore) DistinctValues(ctx context.Context, table, column string, limit int) ([]string, error) {
	m.DistinctValuesCalls++
	if m.DistinctValuesFunc != nil {
		return m.DistinctValuesFunc(ctx, table, column, limit)
	}
	return nil, nil
}

// Execute implements Store.
func (m *MockStore) Execute(ctx context.Context, sqlQuery string) (models.QueryResult, error) {
	m.ExecuteCalls++
	m.LastSQL = sqlQuery
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, sqlQuery)
	}
	return models.EmptyQueryResult(), nil
}

// Close implements Store.
func (m *MockStore) Close() error {
	m.Closed = true
	return nil
}

var _ Store = (*MockStore)(nil)
