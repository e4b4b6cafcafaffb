package output

import (
	"fmt"
	"sort"
	"strings"

	"entmig/internal/core"
	"entmig/internal/diff"
	"entmig/internal/translate"
)

type humanFormatter struct{}

func (humanFormatter) FormatSchema(rep *translate.Report) (string, error) {
	var sb strings.Builder

	tables := rep.Tables()
	fmt.Fprintf(&sb, "Schema: %d table(s)\n", len(tables))

	for _, t := range tables {
		sb.WriteByte('\n')
		writeTable(&sb, t)
	}

	if failed := rep.Failed(); len(failed) > 0 {
		sb.WriteByte('\n')
		fmt.Fprintf(&sb, "Skipped %d entit(y/ies):\n", len(failed))
		for _, res := range failed {
			fmt.Fprintf(&sb, "  ✗ %s: %v\n", res.Entity, res.Err)
		}
	}

	return sb.String(), nil
}

func writeTable(sb *strings.Builder, t *core.Table) {
	fmt.Fprintf(sb, "TABLE %s\n", t.Name)
	for _, c := range t.Columns {
		fmt.Fprintf(sb, "  %-20s %-20s %s\n", c.Name, c.Type, optionSummary(c.Options))
	}
	if len(t.PrimaryKey) > 0 {
		fmt.Fprintf(sb, "  PRIMARY KEY (%s)\n", strings.Join(t.PrimaryKey, ", "))
	}
	for _, idx := range t.Indexes {
		kind := "INDEX"
		if idx.Unique {
			kind = "UNIQUE INDEX"
		}
		fmt.Fprintf(sb, "  %s %s (%s)\n", kind, idx.Name, strings.Join(idx.Columns, ", "))
	}
}

// optionSummary renders the option bag as "key=value" pairs in stable order.
func optionSummary(o core.Options) string {
	m := o.Map()
	if len(m) == 0 {
		return ""
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, m[k]))
	}
	return strings.Join(pairs, " ")
}

func (humanFormatter) FormatDiff(d *diff.SchemaDiff) (string, error) {
	if d == nil || d.IsEmpty() {
		return "No schema changes detected.\n", nil
	}

	var sb strings.Builder

	for _, t := range d.AddedTables {
		fmt.Fprintf(&sb, "+ table %s (%d columns)\n", t.Name, len(t.Columns))
	}
	for _, t := range d.RemovedTables {
		fmt.Fprintf(&sb, "- table %s\n", t.Name)
	}
	for _, td := range d.ModifiedTables {
		fmt.Fprintf(&sb, "~ table %s\n", td.Name)
		for _, c := range td.AddedColumns {
			fmt.Fprintf(&sb, "  + column %s %s\n", c.Name, c.Type)
		}
		for _, c := range td.RemovedColumns {
			fmt.Fprintf(&sb, "  - column %s\n", c.Name)
		}
		for _, cc := range td.ModifiedColumns {
			fmt.Fprintf(&sb, "  ~ column %s\n", cc.Name)
			for _, fc := range cc.Changes {
				fmt.Fprintf(&sb, "      %s: %q -> %q\n", fc.Field, fc.Old, fc.New)
			}
		}
		for _, idx := range td.AddedIndexes {
			fmt.Fprintf(&sb, "  + index %s\n", idx.Name)
		}
		for _, idx := range td.RemovedIndexes {
			fmt.Fprintf(&sb, "  - index %s\n", idx.Name)
		}
		if td.PrimaryKeyMoved {
			fmt.Fprintf(&sb, "  ~ primary key: (%s) -> (%s)\n",
				strings.Join(td.OldPrimaryKey, ", "), strings.Join(td.NewPrimaryKey, ", "))
		}
	}

	return sb.String(), nil
}
