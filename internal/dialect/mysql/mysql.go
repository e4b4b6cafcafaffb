// Package mysql provides MySQL capabilities and DDL generation for the
// emitted schema graph. MySQL has native enumerated types, so enumeration
// columns carry an ENUM(...) column definition; its type registry also
// distinguishes the immutable datetime variant.
package mysql

import (
	"strings"

	"entmig/internal/dialect"
)

func init() {
	dialect.Register(dialect.MySQL, func() dialect.Dialect {
		return New()
	})
}

// Dialect is the MySQL dialect: capability answers plus a generator.
type Dialect struct {
	generator *Generator
}

// New initializes a new MySQL dialect instance.
func New() *Dialect {
	return &Dialect{generator: NewGenerator()}
}

// Name returns the dialect identifier.
func (d *Dialect) Name() dialect.Type {
	return dialect.MySQL
}

// SupportsEnum reports native ENUM column support.
func (d *Dialect) SupportsEnum() bool {
	return true
}

// SupportsDatetimeImmutable reports that the type registry distinguishes
// immutable from mutable datetime columns.
func (d *Dialect) SupportsDatetimeImmutable() bool {
	return true
}

// Generator returns the DDL generator for the MySQL dialect.
func (d *Dialect) Generator() dialect.Generator {
	return d.generator
}

// Generator is a stateless DDL generator for MySQL.
type Generator struct{}

// NewGenerator initializes a new MySQL DDL generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// QuoteIdentifier quotes a table, column, or index name with backticks.
func (g *Generator) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// QuoteString quotes a string literal with single quotes.
func (g *Generator) QuoteString(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}
