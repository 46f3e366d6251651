package models

// ColumnDescriptor describes a single reflected column.
type ColumnDescriptor struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// TableDescriptor describes a reflected table with its columns in
// declaration order.
type TableDescriptor struct {
	Name    string             `json:"name"`
	Columns []ColumnDescriptor `json:"columns"`
}

// SchemaDescription is the ordered result of reflecting a live database.
// Tables appear in the database's natural enumeration order and columns in
// declaration order. Facts are free-text sentences appended to the prompt
// context, typically distinct-value enumerations for categorical columns.
type SchemaDescription struct {
	Tables []TableDescriptor `json:"tables"`
	Facts  []string          `json:"facts,omitempty"`
}

// TableNames returns the reflected table names in schema order.
func (s *SchemaDescription) TableNames() []string {
	names := make([]string, len(s.Tables))
	for i, t := range s.Tables {
		names[i] = t.Name
	}
	return names
}
