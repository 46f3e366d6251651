package models

import "fmt"

// TranslationFailed is the sentinel SQL value produced when the model's
// structured output cannot be parsed or omits the sql_query field. It is a
// data value, not an error: it flows through the pipeline like any other
// query so the user always sees what was attempted.
const TranslationFailed = "Error"

// TranslationResult is the outcome of translating a natural-language
// question into SQL.
type TranslationResult struct {
	// SQLQuery is the generated statement, or TranslationFailed.
	SQLQuery string `json:"sql_query"`
	// Raw is the model's unparsed output, kept for diagnosis.
	Raw string `json:"raw,omitempty"`
}

// Failed reports whether the translation produced the sentinel value rather
// than a query. A valid-but-empty query is not a failure.
func (t TranslationResult) Failed() bool {
	return t.SQLQuery == TranslationFailed
}

// QueryResult holds rows and column names returned by the datasource.
// Every row has exactly len(Columns) values. A failed execution yields
// empty, non-nil slices.
type QueryResult struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// EmptyQueryResult returns the well-formed zero-row, zero-column result used
// when execution fails.
func EmptyQueryResult() QueryResult {
	return QueryResult{Columns: []string{}, Rows: [][]any{}}
}

// Table is the display-ready form of a QueryResult: the same columns in the
// same order, with every cell rendered as a string.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Shape returns "(rows, columns)" for inclusion in user-facing echo text.
func (t Table) Shape() string {
	return fmt.Sprintf("(%d, %d)", len(t.Rows), len(t.Columns))
}
