// Package core contains the relational schema model the translator emits.
// It is the single source of truth handed to diff engines, formatters, and
// dialect generators: tables, typed columns with a fixed option vocabulary,
// primary keys, and indexes.
package core

import (
	"fmt"
	"strings"
)

// Type is the relational column type a semantic column kind maps onto.
type Type string

const (
	TypeString            Type = "string"
	TypeInteger           Type = "integer"
	TypeFloat             Type = "float"
	TypeBoolean           Type = "boolean"
	TypeDatetime          Type = "datetime"
	TypeDatetimeImmutable Type = "datetime_immutable"
	TypeJSON              Type = "json"
)

// Table is one emitted table: ordered columns, the primary-key column names
// in declared order, and named indexes.
type Table struct {
	Name       string    `json:"name"`
	Columns    []*Column `json:"columns"`
	PrimaryKey []string  `json:"primaryKey,omitempty"`
	Indexes    []*Index  `json:"indexes,omitempty"`
}

// Column is one emitted column: its target type plus the option bag.
type Column struct {
	Name    string  `json:"name"`
	Type    Type    `json:"type"`
	Options Options `json:"options"`
}

// Options is the fixed option vocabulary consumed by the migration engine.
// Absent options carry no key in the emitted map: a nullable column has no
// notnull entry at all.
type Options struct {
	NotNull  bool `json:"notnull,omitempty"`
	Scale    *int `json:"scale,omitempty"`
	Unsigned bool `json:"unsigned,omitempty"`
	Length   *int `json:"length,omitempty"`

	HasDefault bool `json:"-"`
	Default    any  `json:"default,omitempty"`

	// ColumnDefinition is a raw, dialect-native type expression that
	// takes precedence over the synthesized type in the target engine.
	ColumnDefinition string `json:"columnDefinition,omitempty"`

	AutoIncrement bool `json:"autoincrement,omitempty"`
}

// Map renders the option bag using the fixed key vocabulary: notnull,
// scale, unsigned, length, default, columnDefinition, autoincrement.
// Only present options are emitted.
func (o Options) Map() map[string]any {
	m := make(map[string]any, 7)
	if o.NotNull {
		m["notnull"] = true
	}
	if o.Scale != nil {
		m["scale"] = *o.Scale
	}
	if o.Unsigned {
		m["unsigned"] = true
	}
	if o.Length != nil {
		m["length"] = *o.Length
	}
	if o.HasDefault {
		m["default"] = o.Default
	}
	if o.ColumnDefinition != "" {
		m["columnDefinition"] = o.ColumnDefinition
	}
	if o.AutoIncrement {
		m["autoincrement"] = true
	}
	return m
}

// Index is one emitted index with its resolved name.
type Index struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Unique  bool     `json:"unique,omitempty"`
}

// FindColumn looks for a column by name inside a table.
func (t *Table) FindColumn(name string) *Column {
	for _, c := range t.Columns {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

// FindIndex looks for an index by name inside a table.
func (t *Table) FindIndex(name string) *Index {
	for _, i := range t.Indexes {
		if strings.EqualFold(i.Name, name) {
			return i
		}
	}
	return nil
}

// String returns a short human-readable summary of the table.
func (t *Table) String() string {
	return fmt.Sprintf("Table: %s (%d cols, %d pk cols, %d indexes)",
		t.Name, len(t.Columns), len(t.PrimaryKey), len(t.Indexes))
}

// BuildEnumDefinition renders a native enumerated type expression from a
// list of values, e.g. ["free","pro"] -> "ENUM('free', 'pro')". Single
// quotes inside values are doubled.
func BuildEnumDefinition(values []string) string {
	var sb strings.Builder
	sb.Grow(len(values)*10 + 8)
	sb.WriteString("ENUM(")
	for i, v := range values {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('\'')
		sb.WriteString(strings.ReplaceAll(v, "'", "''"))
		sb.WriteByte('\'')
	}
	sb.WriteByte(')')
	return sb.String()
}
