package toml

import (
	"fmt"

	"entmig/internal/entity"
)

// tomlIndex maps [[entities.indexes]].
type tomlIndex struct {
	Name    string   `toml:"name"`
	Columns []string `toml:"columns"`
	Unique  bool     `toml:"unique"`
}

func convertIndex(ti *tomlIndex) (*entity.Index, error) {
	if len(ti.Columns) == 0 {
		name := ti.Name
		if name == "" {
			name = "(unnamed)"
		}
		return nil, fmt.Errorf("index %s has no columns", name)
	}

	return &entity.Index{
		Name:    ti.Name,
		Columns: ti.Columns,
		Unique:  ti.Unique,
	}, nil
}
