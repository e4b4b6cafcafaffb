// Package diff compares two emitted schema graphs and reports the tables,
// columns, and indexes that were added, removed, or modified. It lets two
// entity-model revisions be compared without touching a database.
package diff

import (
	"strings"

	"entmig/internal/core"
)

// SchemaDiff represents the differences between two schema graphs.
type SchemaDiff struct {
	AddedTables    []*core.Table `json:"addedTables,omitempty"`
	RemovedTables  []*core.Table `json:"removedTables,omitempty"`
	ModifiedTables []*TableDiff  `json:"modifiedTables,omitempty"`
}

// IsEmpty reports whether the two schemas are identical.
func (d *SchemaDiff) IsEmpty() bool {
	return len(d.AddedTables) == 0 && len(d.RemovedTables) == 0 && len(d.ModifiedTables) == 0
}

// TableDiff represents the differences between two versions of one table.
type TableDiff struct {
	Name            string          `json:"name"`
	AddedColumns    []*core.Column  `json:"addedColumns,omitempty"`
	RemovedColumns  []*core.Column  `json:"removedColumns,omitempty"`
	ModifiedColumns []*ColumnChange `json:"modifiedColumns,omitempty"`
	AddedIndexes    []*core.Index   `json:"addedIndexes,omitempty"`
	RemovedIndexes  []*core.Index   `json:"removedIndexes,omitempty"`
	OldPrimaryKey   []string        `json:"oldPrimaryKey,omitempty"`
	NewPrimaryKey   []string        `json:"newPrimaryKey,omitempty"`
	PrimaryKeyMoved bool            `json:"primaryKeyMoved,omitempty"`
}

// ColumnChange represents the differences between two versions of one column.
type ColumnChange struct {
	Name    string         `json:"name"`
	Old     *core.Column   `json:"old"`
	New     *core.Column   `json:"new"`
	Changes []*FieldChange `json:"changes"`
}

// FieldChange is a single changed field, rendered as strings for output.
type FieldChange struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

// Diff compares two schema graphs. Tables are matched by name
// (case-insensitively); output preserves the new schema's table order, with
// removals in the old schema's order.
func Diff(oldTables, newTables []*core.Table) *SchemaDiff {
	d := &SchemaDiff{}
	oldByName := mapTablesByName(oldTables)
	newByName := mapTablesByName(newTables)

	for _, newT := range newTables {
		oldT, exists := oldByName[strings.ToLower(newT.Name)]
		if !exists {
			d.AddedTables = append(d.AddedTables, newT)
			continue
		}
		if td := compareTable(oldT, newT); td != nil {
			d.ModifiedTables = append(d.ModifiedTables, td)
		}
	}

	for _, oldT := range oldTables {
		if _, exists := newByName[strings.ToLower(oldT.Name)]; !exists {
			d.RemovedTables = append(d.RemovedTables, oldT)
		}
	}

	return d
}

func mapTablesByName(tables []*core.Table) map[string]*core.Table {
	m := make(map[string]*core.Table, len(tables))
	for _, t := range tables {
		m[strings.ToLower(t.Name)] = t
	}
	return m
}
