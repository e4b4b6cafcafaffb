package toml

import (
	"errors"
	"fmt"
	"strings"

	"entmig/internal/entity"
)

// tomlColumn maps [[entities.columns]].
type tomlColumn struct {
	Name     string `toml:"name"`
	Kind     string `toml:"kind"`
	Nullable bool   `toml:"nullable"`

	// Default accepts string, bool, or number from TOML. It is the
	// attribute-declared default and takes precedence over any computed
	// column default.
	Default any `toml:"default"`

	// Attribute keys. Presence of any of them attaches a column-level
	// attribute to the descriptor.
	Size       *int   `toml:"size"`
	Precision  *int   `toml:"precision"`
	Scale      *int   `toml:"scale"`
	Unsigned   bool   `toml:"unsigned"`
	Definition string `toml:"definition"`

	// Enumeration payload. Values lists the case names (pure backing)
	// or stored values (string backing); int backing needs no cases
	// here since the column maps to an integer anyway.
	Values  []string `toml:"values"`
	Backing string   `toml:"backing"`
}

func convertColumn(tc *tomlColumn) (*entity.Column, error) {
	if strings.TrimSpace(tc.Name) == "" {
		return nil, errors.New("column name is empty")
	}
	kind := strings.ToLower(strings.TrimSpace(tc.Kind))
	if kind == "" {
		return nil, errors.New("kind is empty")
	}
	if !entity.ValidKind(kind) {
		return nil, fmt.Errorf("unknown kind %q; supported: %v", tc.Kind, entity.Kinds())
	}

	col := &entity.Column{
		Name:     tc.Name,
		Kind:     entity.Kind(kind),
		Nullable: tc.Nullable,
	}

	if col.Kind == entity.KindEnum {
		set, err := convertEnum(tc)
		if err != nil {
			return nil, err
		}
		col.Enum = set
	}

	col.Attr = convertAttr(tc)

	return col, nil
}

// convertAttr builds the column-level attribute when any attribute key is
// present, nil otherwise.
func convertAttr(tc *tomlColumn) *entity.Attr {
	hasAttr := tc.Size != nil || tc.Precision != nil || tc.Scale != nil ||
		tc.Unsigned || tc.Definition != "" || tc.Default != nil
	if !hasAttr {
		return nil
	}

	attr := &entity.Attr{
		Size:       tc.Size,
		Precision:  tc.Precision,
		Scale:      tc.Scale,
		Unsigned:   tc.Unsigned,
		Definition: tc.Definition,
	}
	if tc.Default != nil {
		attr.HasDefault = true
		attr.Default = tc.Default
	}
	return attr
}

func convertEnum(tc *tomlColumn) (*entity.EnumSet, error) {
	backing := strings.ToLower(strings.TrimSpace(tc.Backing))
	if backing == "" {
		backing = string(entity.EnumString)
	}

	switch entity.EnumBacking(backing) {
	case entity.EnumInt:
		set := &entity.EnumSet{Backing: entity.EnumInt}
		for i, v := range tc.Values {
			set.Cases = append(set.Cases, entity.EnumCase{Name: v, Value: int64(i)})
		}
		if len(set.Cases) == 0 {
			// Int-backed enums map to integers; a placeholder case
			// keeps the descriptor structurally valid.
			set.Cases = []entity.EnumCase{{Name: "0", Value: int64(0)}}
		}
		return set, nil
	case entity.EnumString, entity.EnumPure:
		if len(tc.Values) == 0 {
			return nil, errors.New("enum column has no values")
		}
		set := &entity.EnumSet{Backing: entity.EnumBacking(backing)}
		for _, v := range tc.Values {
			c := entity.EnumCase{Name: v}
			if backing == string(entity.EnumString) {
				c.Value = v
			}
			set.Cases = append(set.Cases, c)
		}
		return set, nil
	default:
		return nil, fmt.Errorf("unknown enum backing %q; supported: pure, string, int", tc.Backing)
	}
}
