package output

import (
	"encoding/json"
	"fmt"

	"entmig/internal/core"
	"entmig/internal/diff"
	"entmig/internal/translate"
)

type jsonFormatter struct{}

type schemaSummary struct {
	Tables  int `json:"tables"`
	Skipped int `json:"skipped"`
}

type skippedEntity struct {
	Entity string `json:"entity"`
	Error  string `json:"error"`
}

type schemaPayload struct {
	Format  string          `json:"format"`
	Summary schemaSummary   `json:"summary"`
	Tables  []jsonTable     `json:"tables,omitempty"`
	Skipped []skippedEntity `json:"skipped,omitempty"`
}

// jsonTable renders each column's option bag through the fixed option-key
// vocabulary instead of the struct field names.
type jsonTable struct {
	Name       string        `json:"name"`
	Columns    []jsonColumn  `json:"columns"`
	PrimaryKey []string      `json:"primaryKey,omitempty"`
	Indexes    []*core.Index `json:"indexes,omitempty"`
}

type jsonColumn struct {
	Name    string         `json:"name"`
	Type    core.Type      `json:"type"`
	Options map[string]any `json:"options"`
}

type diffSummary struct {
	AddedTables    int `json:"addedTables"`
	RemovedTables  int `json:"removedTables"`
	ModifiedTables int `json:"modifiedTables"`
}

type diffPayload struct {
	Format         string            `json:"format"`
	Summary        diffSummary       `json:"summary"`
	AddedTables    []jsonTable       `json:"addedTables,omitempty"`
	RemovedTables  []jsonTable       `json:"removedTables,omitempty"`
	ModifiedTables []*diff.TableDiff `json:"modifiedTables,omitempty"`
}

func (jsonFormatter) FormatSchema(rep *translate.Report) (string, error) {
	payload := schemaPayload{Format: string(FormatJSON)}

	for _, t := range rep.Tables() {
		payload.Tables = append(payload.Tables, toJSONTable(t))
	}
	for _, res := range rep.Failed() {
		payload.Skipped = append(payload.Skipped, skippedEntity{
			Entity: res.Entity,
			Error:  res.Err.Error(),
		})
	}
	payload.Summary = schemaSummary{
		Tables:  len(payload.Tables),
		Skipped: len(payload.Skipped),
	}

	return marshal(payload)
}

func (jsonFormatter) FormatDiff(d *diff.SchemaDiff) (string, error) {
	payload := diffPayload{Format: string(FormatJSON)}
	if d != nil {
		for _, t := range d.AddedTables {
			payload.AddedTables = append(payload.AddedTables, toJSONTable(t))
		}
		for _, t := range d.RemovedTables {
			payload.RemovedTables = append(payload.RemovedTables, toJSONTable(t))
		}
		payload.ModifiedTables = d.ModifiedTables
		payload.Summary = diffSummary{
			AddedTables:    len(d.AddedTables),
			RemovedTables:  len(d.RemovedTables),
			ModifiedTables: len(d.ModifiedTables),
		}
	}
	return marshal(payload)
}

func toJSONTable(t *core.Table) jsonTable {
	jt := jsonTable{
		Name:       t.Name,
		PrimaryKey: t.PrimaryKey,
		Indexes:    t.Indexes,
	}
	for _, c := range t.Columns {
		jt.Columns = append(jt.Columns, jsonColumn{
			Name:    c.Name,
			Type:    c.Type,
			Options: c.Options.Map(),
		})
	}
	return jt
}

func marshal(payload any) (string, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("output: marshal json: %w", err)
	}
	return string(data) + "\n", nil
}
