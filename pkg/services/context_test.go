package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/models"
)

func sampleSchema() *models.SchemaDescription {
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
			{
				Name: "home_data.neighborhoods",
				Columns: []models.ColumnDescriptor{
					{Name: "name", Type: "varchar(128)"},
				},
			},
		},
	}
}

func TestSynthesizeContextTableBlocks(t *testing.T) {
	got := SynthesizeContext(sampleSchema())

	// One block per reflected table, in schema order.
	assert.Equal(t, 1, strings.Count(got, "Table 0:"))
	assert.Equal(t, 1, strings.Count(got, "Table 1:"))
	assert.Less(t, strings.Index(got, "Table 0: home"), strings.Index(got, "Table 1: home_data.neighborhoods"))

	// Columns in declaration order with their type names.
	idIdx := strings.Index(got, "id (int)")
	provinceIdx := strings.Index(got, "province (varchar(64))")
	priceIdx := strings.Index(got, "price (int)")
	require.True(t, idIdx >= 0 && provinceIdx >= 0 && priceIdx >= 0, got)
	assert.Less(t, idIdx, provinceIdx)
	assert.Less(t, provinceIdx, priceIdx)

	// Entity hints are singularized from the unqualified table name.
	assert.Contains(t, got, "(entity: home)")
	assert.Contains(t, got, "(entity: neighborhood)")
}

func TestSynthesizeContextDeterministic(t *testing.T) {
	schema := sampleSchema()
	first := SynthesizeContext(schema)
	second := SynthesizeContext(schema)
	assert.Equal(t, first, second, "identical input must yield byte-identical output")
}

func TestSynthesizeContextFacts(t *testing.T) {
	schema := sampleSchema()
	schema.Facts = []string{
		FormatDistinctValuesFact("province", []string{"Madrid", "Barcelona", "Valencia"}),
	}

	got := SynthesizeContext(schema)
	assert.Contains(t, got, "Possible values of column province are: Madrid, Barcelona, Valencia.")
	// Fact value order is the database's, never resorted.
	assert.Less(t, strings.Index(got, "Madrid"), strings.Index(got, "Barcelona"))
}

func TestSynthesizeContextEmptySchema(t *testing.T) {
	got := SynthesizeContext(&models.SchemaDescription{})
	assert.Empty(t, got)
}
