// Package output provides formatters for translation reports and schema
// diffs. It is extendable and for now provides three formats: human, JSON,
// and SQL.
package output

import (
	"fmt"
	"strings"

	"entmig/internal/dialect"
	"entmig/internal/diff"
	"entmig/internal/translate"
)

// Format is an enum type representing the available output formats.
type Format string

const (
	FormatHuman Format = "human"
	FormatJSON  Format = "json"
	FormatSQL   Format = "sql"
)

// Formatter renders translation reports and schema diffs.
type Formatter interface {
	FormatSchema(*translate.Report) (string, error)
	FormatDiff(*diff.SchemaDiff) (string, error)
}

// NewFormatter creates a Formatter for the given format name. The generator
// is only used by the SQL format; human and JSON ignore it. An empty name
// defaults to human output.
func NewFormatter(name string, gen dialect.Generator) (Formatter, error) {
	format := Format(strings.ToLower(strings.TrimSpace(name)))
	switch format {
	case "", FormatHuman:
		return humanFormatter{}, nil
	case FormatJSON:
		return jsonFormatter{}, nil
	case FormatSQL:
		if gen == nil {
			return nil, fmt.Errorf("output: sql format requires a dialect generator")
		}
		return sqlFormatter{gen: gen}, nil
	default:
		return nil, fmt.Errorf("output: unsupported format %q; use 'human', 'json', or 'sql'", name)
	}
}
