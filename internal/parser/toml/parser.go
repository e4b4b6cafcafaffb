// Package toml provides a parser for declarative entity-definition files.
// It reads entity metadata (table, connection, typed columns, attributes,
// indexes) from a .toml file and converts it into the entity descriptors
// that the schema translator operates on.
package toml

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"entmig/internal/entity"
)

// definitionFile is the top-level TOML document: a flat list of
// [[entities]] blocks.
type definitionFile struct {
	Entities []tomlEntity `toml:"entities"`
}

// tomlEntity maps one [[entities]] block.
type tomlEntity struct {
	Name          string       `toml:"name"`
	Table         string       `toml:"table"`
	Connection    string       `toml:"connection"`
	PrimaryKey    []string     `toml:"primary_key"`
	AutoIncrement string       `toml:"auto_increment"`
	Columns       []tomlColumn `toml:"columns"`
	Indexes       []tomlIndex  `toml:"indexes"`
}

// Parser reads entity-definition TOML files.
type Parser struct{}

// NewParser creates a new entity-definition parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseFile opens the file at the given path and parses it as an
// entity-definition document.
func (p *Parser) ParseFile(path string) ([]*entity.Descriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("toml: open file %q: %w", path, err)
	}
	defer f.Close()

	return p.Parse(f)
}

// Parse reads TOML content from reader and returns the declared entity
// descriptors in declaration order.
func (p *Parser) Parse(r io.Reader) ([]*entity.Descriptor, error) {
	var df definitionFile
	if _, err := toml.NewDecoder(r).Decode(&df); err != nil {
		return nil, fmt.Errorf("toml: decode error: %w", err)
	}

	descriptors := make([]*entity.Descriptor, 0, len(df.Entities))
	for i := range df.Entities {
		d, err := convertEntity(&df.Entities[i])
		if err != nil {
			return nil, fmt.Errorf("toml: entity %q: %w", df.Entities[i].Table, err)
		}
		descriptors = append(descriptors, d)
	}

	return descriptors, nil
}

// Sources parses the file and wraps each descriptor as a translation source.
func (p *Parser) Sources(path string) ([]entity.Source, error) {
	descriptors, err := p.ParseFile(path)
	if err != nil {
		return nil, err
	}
	sources := make([]entity.Source, len(descriptors))
	for i, d := range descriptors {
		sources[i] = entity.Static(d)
	}
	return sources, nil
}

func convertEntity(te *tomlEntity) (*entity.Descriptor, error) {
	if strings.TrimSpace(te.Table) == "" {
		return nil, fmt.Errorf("table name is empty")
	}

	d := &entity.Descriptor{
		Name:          te.Name,
		Table:         te.Table,
		Connection:    te.Connection,
		PrimaryKey:    te.PrimaryKey,
		AutoIncrement: te.AutoIncrement,
	}
	if d.Connection == "" {
		d.Connection = entity.DefaultConnection
	}

	for i := range te.Columns {
		col, err := convertColumn(&te.Columns[i])
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", te.Columns[i].Name, err)
		}
		d.Columns = append(d.Columns, col)
	}

	for i := range te.Indexes {
		idx, err := convertIndex(&te.Indexes[i])
		if err != nil {
			return nil, err
		}
		d.Indexes = append(d.Indexes, idx)
	}

	return d, nil
}
