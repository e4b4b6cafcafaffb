package output

import (
	"fmt"
	"strings"

	"entmig/internal/dialect"
	"entmig/internal/diff"
	"entmig/internal/translate"
)

type sqlFormatter struct {
	gen dialect.Generator
}

func (f sqlFormatter) FormatSchema(rep *translate.Report) (string, error) {
	var sb strings.Builder

	for _, res := range rep.Failed() {
		fmt.Fprintf(&sb, "-- skipped entity %s: %v\n", res.Entity, res.Err)
	}

	for i, t := range rep.Tables() {
		if i > 0 || sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(f.gen.GenerateCreateTable(t))
		sb.WriteByte('\n')
		for _, stmt := range f.gen.GenerateCreateIndexes(t) {
			sb.WriteString(stmt)
			sb.WriteByte('\n')
		}
	}

	return sb.String(), nil
}

// FormatDiff renders added tables as CREATE statements and removed tables
// as DROP statements. Modified tables need dialect-specific ALTER handling
// and are emitted as review comments instead.
func (f sqlFormatter) FormatDiff(d *diff.SchemaDiff) (string, error) {
	if d == nil || d.IsEmpty() {
		return "-- no schema changes\n", nil
	}

	var sb strings.Builder

	for _, t := range d.AddedTables {
		sb.WriteString(f.gen.GenerateCreateTable(t))
		sb.WriteByte('\n')
		for _, stmt := range f.gen.GenerateCreateIndexes(t) {
			sb.WriteString(stmt)
			sb.WriteByte('\n')
		}
	}

	for _, t := range d.RemovedTables {
		sb.WriteString(f.gen.GenerateDropTable(t))
		sb.WriteByte('\n')
	}

	for _, td := range d.ModifiedTables {
		fmt.Fprintf(&sb, "-- table %s changed (%d column changes); review and alter manually\n",
			td.Name, len(td.AddedColumns)+len(td.RemovedColumns)+len(td.ModifiedColumns))
	}

	return sb.String(), nil
}
