package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/models"
)

func TestFormatResultRoundTrip(t *testing.T) {
	result := models.QueryResult{
		Columns: []string{"a", "b"},
		Rows:    [][]any{{1, "x"}, {2, "y"}},
	}

	table := FormatResult(result)
	assert.Equal(t, []string{"a", "b"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"1", "x"}, table.Rows[0])
	assert.Equal(t, []string{"2", "y"}, table.Rows[1])
	assert.Equal(t, "(2, 2)", table.Shape())
}

func TestFormatResultEmpty(t *testing.T) {
	table := FormatResult(models.EmptyQueryResult())
	// An empty result is a zero-column table, not an error.
	assert.Empty(t, table.Columns)
	assert.Empty(t, table.Rows)
	assert.Equal(t, "(0, 0)", table.Shape())
}

func TestFormatResultCellRendering(t *testing.T) {
	result := models.QueryResult{
		Columns: []string{"v"},
		Rows: [][]any{
			{nil},
			{[]byte("bytes")},
			{"text"},
			{3.14},
			{true},
		},
	}

	table := FormatResult(result)
	require.Len(t, table.Rows, 5)
	assert.Equal(t, "", table.Rows[0][0])
	assert.Equal(t, "bytes", table.Rows[1][0])
	assert.Equal(t, "text", table.Rows[2][0])
	assert.Equal(t, "3.14", table.Rows[3][0])
	assert.Equal(t, "true", table.Rows[4][0])
}
