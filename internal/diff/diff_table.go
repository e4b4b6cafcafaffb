package diff

import (
	"fmt"
	"strconv"
	"strings"

	"entmig/internal/core"
)

func compareTable(oldT, newT *core.Table) *TableDiff {
	td := &TableDiff{Name: newT.Name}

	compareColumns(oldT, newT, td)
	compareIndexes(oldT, newT, td)

	if !equalNames(oldT.PrimaryKey, newT.PrimaryKey) {
		td.PrimaryKeyMoved = true
		td.OldPrimaryKey = oldT.PrimaryKey
		td.NewPrimaryKey = newT.PrimaryKey
	}

	if td.isEmpty() {
		return nil
	}
	return td
}

func (td *TableDiff) isEmpty() bool {
	return len(td.AddedColumns) == 0 &&
		len(td.RemovedColumns) == 0 &&
		len(td.ModifiedColumns) == 0 &&
		len(td.AddedIndexes) == 0 &&
		len(td.RemovedIndexes) == 0 &&
		!td.PrimaryKeyMoved
}

func compareColumns(oldT, newT *core.Table, td *TableDiff) {
	for _, newC := range newT.Columns {
		oldC := oldT.FindColumn(newC.Name)
		if oldC == nil {
			td.AddedColumns = append(td.AddedColumns, newC)
			continue
		}
		if changes := columnFieldChanges(oldC, newC); len(changes) > 0 {
			td.ModifiedColumns = append(td.ModifiedColumns, &ColumnChange{
				Name:    newC.Name,
				Old:     oldC,
				New:     newC,
				Changes: changes,
			})
		}
	}

	for _, oldC := range oldT.Columns {
		if newT.FindColumn(oldC.Name) == nil {
			td.RemovedColumns = append(td.RemovedColumns, oldC)
		}
	}
}

// columnFieldChanges compares the type and the option vocabulary of two
// column versions field by field.
func columnFieldChanges(oldC, newC *core.Column) []*FieldChange {
	var changes []*FieldChange
	add := func(field, oldV, newV string) {
		if oldV != newV {
			changes = append(changes, &FieldChange{Field: field, Old: oldV, New: newV})
		}
	}

	add("type", string(oldC.Type), string(newC.Type))
	add("notnull", strconv.FormatBool(oldC.Options.NotNull), strconv.FormatBool(newC.Options.NotNull))
	add("scale", intOption(oldC.Options.Scale), intOption(newC.Options.Scale))
	add("unsigned", strconv.FormatBool(oldC.Options.Unsigned), strconv.FormatBool(newC.Options.Unsigned))
	add("length", intOption(oldC.Options.Length), intOption(newC.Options.Length))
	add("default", defaultOption(oldC.Options), defaultOption(newC.Options))
	add("columnDefinition", oldC.Options.ColumnDefinition, newC.Options.ColumnDefinition)
	add("autoincrement", strconv.FormatBool(oldC.Options.AutoIncrement), strconv.FormatBool(newC.Options.AutoIncrement))

	return changes
}

func intOption(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func defaultOption(o core.Options) string {
	if !o.HasDefault {
		return ""
	}
	return fmt.Sprintf("%v", o.Default)
}

func compareIndexes(oldT, newT *core.Table, td *TableDiff) {
	for _, newI := range newT.Indexes {
		oldI := oldT.FindIndex(newI.Name)
		if oldI == nil {
			td.AddedIndexes = append(td.AddedIndexes, newI)
			continue
		}
		if oldI.Unique != newI.Unique || !equalNames(oldI.Columns, newI.Columns) {
			// An index rebuild: the old definition goes away and the
			// new one is created under the same name.
			td.RemovedIndexes = append(td.RemovedIndexes, oldI)
			td.AddedIndexes = append(td.AddedIndexes, newI)
		}
	}

	for _, oldI := range oldT.Indexes {
		if newT.FindIndex(oldI.Name) == nil {
			td.RemovedIndexes = append(td.RemovedIndexes, oldI)
		}
	}
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}
