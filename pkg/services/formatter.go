package services

import (
	"fmt"

	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/models"
)

// FormatResult converts an execution result into a display table. Pure
// transformation: column names and row order come straight from the driver,
// and an empty result becomes a zero-column table, not an error.
func FormatResult(result models.QueryResult) models.Table {
	table := models.Table{
		Columns: append([]string{}, result.Columns...),
		Rows:    make([][]string, 0, len(result.Rows)),
	}

	for _, row := range result.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = renderCell(v)
		}
		table.Rows = append(table.Rows, cells)
	}

	return table
}

func renderCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(val)
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
