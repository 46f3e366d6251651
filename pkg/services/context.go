// Package services implements the query-translation pipeline: schema context
// synthesis, question-to-SQL translation, execution, formatting, and the
// per-session orchestration that ties them together.
package services

import (
	"fmt"
	"strings"

	"github.com/jinzhu/inflection"

	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/models"
)

// SynthesizeContext converts a reflected schema into the natural-language
// description that grounds the translation prompt. It is a pure function:
// identical input yields byte-identical output, so the result can be cached
// for the session lifetime.
//
// One block per table in schema order; one "name (type)" line per column in
// declaration order; auxiliary facts appended as free-text sentences in the
// order they were collected.
func SynthesizeContext(schema *models.SchemaDescription) string {
	var b strings.Builder

	for i, table := range schema.Tables {
		fmt.Fprintf(&b, "Table %d: %s (entity: %s)\n", i, table.Name, entityName(table.Name))
		b.WriteString("columns:\n")
		for _, col := range table.Columns {
			fmt.Fprintf(&b, "%s (%s)\n", col.Name, col.Type)
		}
		b.WriteString("\n")
	}

	for _, fact := range schema.Facts {
		b.WriteString(fact)
		b.WriteString("\n")
	}

	return b.String()
}

// FormatDistinctValuesFact renders a distinct-value enumeration as a prompt
// sentence. Values keep the database's own result order: consumers treat
// proximity as a soft signal only.
func FormatDistinctValuesFact(column string, values []string) string {
	return fmt.Sprintf("Possible values of column %s are: %s.", column, strings.Join(values, ", "))
}

// entityName derives a singular entity hint from a possibly qualified table
// name, e.g. "home_data.homes" -> "home".
func entityName(tableName string) string {
	parts := strings.Split(tableName, ".")
	return inflection.Singular(parts[len(parts)-1])
}
