// Package entity defines the descriptor model for persistent record types.
// A Descriptor carries everything the schema translator needs to know about
// one entity: its table name, the connection it lives on, its typed columns,
// and its table-level index declarations.
package entity

import (
	"fmt"
	"strings"
)

// Kind is the semantic kind of an entity column. It is a closed set; the
// translator maps each kind onto a relational column type.
type Kind string

const (
	KindString            Kind = "string"
	KindInteger           Kind = "integer"
	KindFloat             Kind = "float"
	KindBoolean           Kind = "boolean"
	KindDatetime          Kind = "datetime"
	KindDatetimeImmutable Kind = "datetime_immutable"
	KindEnum              Kind = "enum"
	KindJSON              Kind = "json"
)

// Kinds returns all recognized column kinds.
func Kinds() []Kind {
	return []Kind{
		KindString,
		KindInteger,
		KindFloat,
		KindBoolean,
		KindDatetime,
		KindDatetimeImmutable,
		KindEnum,
		KindJSON,
	}
}

// ValidKind reports whether k is a recognized kind string.
func ValidKind(k string) bool {
	for _, known := range Kinds() {
		if strings.EqualFold(string(known), k) {
			return true
		}
	}
	return false
}

// Descriptor is the structured metadata for one entity. It is derived fresh
// on every translation call and never mutated afterwards.
type Descriptor struct {
	// Name identifies the entity in reports and logs. Defaults to the
	// table name when the provider has nothing better.
	Name string

	// Table is the relational table name the entity maps to.
	Table string

	// Connection identifies the database connection the entity is
	// declared on. The translator only emits tables for entities whose
	// connection matches the requested target.
	Connection string

	Columns []*Column
	Indexes []*Index

	// PrimaryKey lists the primary-key column names in declared order.
	PrimaryKey []string

	// AutoIncrement names the auto-increment column, if any. It must be
	// part of the primary key.
	AutoIncrement string
}

// Column is the structured metadata for one entity field.
type Column struct {
	Name     string
	Kind     Kind
	Nullable bool

	// HasDefault marks the presence of a computed default value (for
	// example a construction-time timestamp). Default holds the raw,
	// uncast value.
	HasDefault bool
	Default    any

	// Attr is the column-level attribute, when the entity declares one.
	// A column belongs to at most one attribute.
	Attr *Attr

	// Enum carries the enumeration payload when Kind is KindEnum.
	Enum *EnumSet
}

// Attr is the declared column-level attribute: explicit size, precision,
// scale, unsigned and default overrides, or a raw dialect-native definition.
type Attr struct {
	Size      *int
	Precision *int
	Scale     *int
	Unsigned  bool

	HasDefault bool
	Default    any

	// Definition is a raw column-definition override that bypasses the
	// synthesized type entirely (e.g. "VARCHAR(36) CHARACTER SET ascii").
	Definition string
}

// EnumBacking distinguishes how an enumeration stores its cases.
type EnumBacking string

const (
	// EnumPure enumerations have named cases without declared values;
	// the case names themselves are stored.
	EnumPure EnumBacking = "pure"
	// EnumString enumerations store each case's declared string value.
	EnumString EnumBacking = "string"
	// EnumInt enumerations store integers and map to an integer column.
	EnumInt EnumBacking = "int"
)

// EnumCase is one case of an enumeration: its name and, for backed
// enumerations, its declared value.
type EnumCase struct {
	Name  string
	Value any
}

// EnumSet describes an enumeration column: its backing and ordered cases.
type EnumSet struct {
	Backing EnumBacking
	Cases   []EnumCase
}

// Names returns the case names in declared order.
func (e *EnumSet) Names() []string {
	names := make([]string, len(e.Cases))
	for i, c := range e.Cases {
		names[i] = c.Name
	}
	return names
}

// StringValues returns the declared string values in declared order. Cases
// without a string value fall back to their name.
func (e *EnumSet) StringValues() []string {
	values := make([]string, len(e.Cases))
	for i, c := range e.Cases {
		if s, ok := c.Value.(string); ok {
			values[i] = s
			continue
		}
		values[i] = c.Name
	}
	return values
}

// Index is a table-level index declaration on an entity.
type Index struct {
	// Name is the explicit index name. When empty the translator
	// synthesizes one from the table and column names.
	Name    string
	Columns []string
	Unique  bool
}

// FindColumn looks for a column by name inside a descriptor.
func (d *Descriptor) FindColumn(name string) *Column {
	for _, c := range d.Columns {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

// EntityName returns the descriptor's display name, defaulting to the table name.
func (d *Descriptor) EntityName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.Table
}

// Validate checks the descriptor's structural invariants: a non-empty table
// name, unique column names, primary-key and index columns that reference
// existing columns, and an auto-increment column that is part of the primary
// key. A violation makes the whole entity untranslatable; the translator
// records it and skips the entity.
func (d *Descriptor) Validate() error {
	if strings.TrimSpace(d.Table) == "" {
		return fmt.Errorf("entity %q: table name is empty", d.EntityName())
	}
	if len(d.Columns) == 0 {
		return fmt.Errorf("entity %q: no columns declared", d.EntityName())
	}

	seen := make(map[string]bool, len(d.Columns))
	for _, c := range d.Columns {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("entity %q: column name is empty", d.EntityName())
		}
		lower := strings.ToLower(c.Name)
		if seen[lower] {
			return fmt.Errorf("entity %q: duplicate column name %q", d.EntityName(), c.Name)
		}
		seen[lower] = true

		if !ValidKind(string(c.Kind)) {
			return fmt.Errorf("entity %q: column %q has unknown kind %q", d.EntityName(), c.Name, c.Kind)
		}
		if c.Kind == KindEnum && (c.Enum == nil || len(c.Enum.Cases) == 0) {
			return fmt.Errorf("entity %q: enum column %q has no cases", d.EntityName(), c.Name)
		}
	}

	for _, pk := range d.PrimaryKey {
		if d.FindColumn(pk) == nil {
			return fmt.Errorf("entity %q: primary key references nonexistent column %q", d.EntityName(), pk)
		}
	}

	for _, idx := range d.Indexes {
		if len(idx.Columns) == 0 {
			name := idx.Name
			if name == "" {
				name = "(unnamed)"
			}
			return fmt.Errorf("entity %q: index %s has no columns", d.EntityName(), name)
		}
		for _, col := range idx.Columns {
			if d.FindColumn(col) == nil {
				return fmt.Errorf("entity %q: index %q references nonexistent column %q", d.EntityName(), idx.Name, col)
			}
		}
	}

	if d.AutoIncrement != "" {
		inPK := false
		for _, pk := range d.PrimaryKey {
			if strings.EqualFold(pk, d.AutoIncrement) {
				inPK = true
				break
			}
		}
		if !inPK {
			return fmt.Errorf("entity %q: auto-increment column %q is not part of the primary key", d.EntityName(), d.AutoIncrement)
		}
	}

	return nil
}
