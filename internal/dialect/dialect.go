// Package dialect provides the capability and generation layer for target
// databases. The translator queries a dialect's capabilities to decide what
// it may emit (native enums, an immutable datetime variant); the generator
// renders the emitted schema graph as dialect-native DDL.
package dialect

import (
	"fmt"
	"strings"

	"entmig/internal/core"
)

// Type identifies a supported target dialect.
type Type string

const (
	MySQL  Type = "mysql"
	SQLite Type = "sqlite"
)

// Capabilities answers the feature questions the translator asks before
// emitting dialect-sensitive output.
type Capabilities interface {
	Name() Type

	// SupportsEnum reports whether the dialect has native enumerated
	// column types. Without it, no columnDefinition is produced for
	// enumeration columns and they fall back to their synthesized type.
	SupportsEnum() bool

	// SupportsDatetimeImmutable reports whether the dialect's type
	// registry distinguishes an immutable timestamp type from the
	// mutable one.
	SupportsDatetimeImmutable() bool
}

// Generator renders the emitted schema graph as DDL statements.
type Generator interface {
	GenerateCreateTable(t *core.Table) string
	GenerateCreateIndexes(t *core.Table) []string
	GenerateDropTable(t *core.Table) string
	QuoteIdentifier(name string) string
	QuoteString(value string) string
}

// Dialect bundles capabilities with a DDL generator.
type Dialect interface {
	Capabilities
	Generator() Generator
}

var registry = map[Type]func() Dialect{}

// Register adds a dialect constructor to the registry. Dialect packages
// call it from init.
func Register(t Type, ctor func() Dialect) {
	registry[t] = ctor
}

// Get returns the dialect registered under the given name.
func Get(name string) (Dialect, error) {
	ctor, ok := registry[Type(strings.ToLower(strings.TrimSpace(name)))]
	if !ok {
		return nil, fmt.Errorf("dialect: unsupported dialect %q; supported: %v", name, Supported())
	}
	return ctor(), nil
}

// Supported returns the registered dialect names in stable order.
func Supported() []Type {
	out := make([]Type, 0, len(registry))
	for _, t := range []Type{MySQL, SQLite} {
		if _, ok := registry[t]; ok {
			out = append(out, t)
		}
	}
	return out
}
