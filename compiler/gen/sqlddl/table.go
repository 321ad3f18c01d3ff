// Package sqlddl emits the CREATE TABLE artifacts. Emission is split in
// two: a builder turns a normalized collection into a typed Table value,
// and a per-dialect renderer serializes that value to SQL text. Column
// types, nullability and defaults are decided once, in the IR, so the
// two dialects can never disagree on table shape.
package sqlddl

import "github.com/croutondev/crouton/schema/field"

// Table is the dialect-neutral definition of one generated table.
type Table struct {
	Name string
	// PrimaryKey names the primary-key column.
	PrimaryKey  string
	Columns     []*Column
	ForeignKeys []*ForeignKey
	Indexes     []*Index
}

// Column is one dialect-neutral column definition. The renderer maps
// Kind (plus MaxLength/Precision/Scale) to a concrete SQL type.
type Column struct {
	Name     string
	Kind     field.Kind
	Nullable bool
	Unique   bool
	// MaxLength bounds string columns; zero means unbounded.
	MaxLength int
	// Precision and Scale size decimal columns; zero precision means
	// the dialect default.
	Precision int
	Scale     int
	// Default is the column default, nil for none. Allowed values are
	// bool, string, int and float64; the renderer serializes them.
	Default any
}

// ForeignKey points a column at another table's primary key.
type ForeignKey struct {
	Column    string
	RefTable  string
	RefColumn string
	// OnDeleteCascade removes dependent rows with their parent.
	OnDeleteCascade bool
}

// Index is a secondary index on one or more columns.
type Index struct {
	Name    string
	Columns []string
	Unique  bool
}

// Column returns a column by name.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}
