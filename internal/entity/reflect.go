package entity

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Tabler binds a struct to its relational table name.
type Tabler interface {
	EntityTable() string
}

// ConnectionNamer declares the connection an entity lives on. Structs
// without it default to the "default" connection.
type ConnectionNamer interface {
	EntityConnection() string
}

// Indexer declares table-level indexes for an entity struct.
type Indexer interface {
	EntityIndexes() []Index
}

// Enum is implemented by field types that are enumerations. The backing is
// inferred from the type's underlying kind: string types are string-backed,
// integer types are int-backed, anything else is a pure enumeration.
type Enum interface {
	EnumCases() []EnumCase
}

// DefaultConnection is the connection assigned to structs that do not
// implement ConnectionNamer.
const DefaultConnection = "default"

// TagKey is the struct-tag key the deriver reads column metadata from.
const TagKey = "entmig"

var (
	enumType = reflect.TypeOf((*Enum)(nil)).Elem()
	timeType = reflect.TypeOf(time.Time{})
)

type structSource struct {
	value any
}

// Struct wraps a Go struct instance as a descriptor source. The descriptor
// is derived by reflection on each Describe call: exported fields become
// columns, `entmig` tags carry column options, and non-zero field values
// on the instance become column defaults.
func Struct(v any) Source {
	return &structSource{value: v}
}

func (s *structSource) EntityName() string {
	t := reflect.TypeOf(s.value)
	if t == nil {
		return "<nil>"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

func (s *structSource) Describe() (*Descriptor, error) {
	return Derive(s.value)
}

// Derive builds a descriptor from a struct instance. It returns an error
// when the value is not a struct or a tag cannot be interpreted; the
// translator isolates such failures per entity.
func Derive(v any) (*Descriptor, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("entity: nil pointer %T", v)
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("entity: %T is not a struct", v)
	}
	rt := rv.Type()

	d := &Descriptor{
		Name:       rt.Name(),
		Connection: DefaultConnection,
	}
	if tabler, ok := v.(Tabler); ok {
		d.Table = tabler.EntityTable()
	} else {
		d.Table = snakeCase(rt.Name())
	}
	if namer, ok := v.(ConnectionNamer); ok {
		d.Connection = namer.EntityConnection()
	}
	if indexer, ok := v.(Indexer); ok {
		for _, idx := range indexer.EntityIndexes() {
			idx := idx
			d.Indexes = append(d.Indexes, &idx)
		}
	}

	for i := range rt.NumField() {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := field.Tag.Get(TagKey)
		if tag == "-" {
			continue
		}

		col, pk, autoInc, err := deriveColumn(field, rv.Field(i), tag)
		if err != nil {
			return nil, fmt.Errorf("entity %s: field %s: %w", rt.Name(), field.Name, err)
		}
		d.Columns = append(d.Columns, col)
		if pk {
			d.PrimaryKey = append(d.PrimaryKey, col.Name)
		}
		if autoInc {
			d.AutoIncrement = col.Name
		}
	}

	return d, nil
}

func deriveColumn(field reflect.StructField, value reflect.Value, tag string) (col *Column, pk, autoInc bool, err error) {
	col = &Column{Name: snakeCase(field.Name)}

	ft := field.Type
	if ft.Kind() == reflect.Pointer {
		col.Nullable = true
		ft = ft.Elem()
		if !value.IsNil() {
			value = value.Elem()
		} else {
			value = reflect.Zero(ft)
		}
	}

	var attr Attr
	hasAttr := false
	immutable := false
	forceJSON := false

	parts := strings.Split(tag, ",")
	if tag != "" && parts[0] != "" {
		col.Name = parts[0]
	}
	for _, opt := range parts[1:] {
		key, val, hasVal := strings.Cut(opt, "=")
		switch key {
		case "":
		case "pk":
			pk = true
		case "autoincrement":
			pk = true
			autoInc = true
		case "nullable":
			col.Nullable = true
		case "unsigned":
			attr.Unsigned = true
			hasAttr = true
		case "immutable":
			immutable = true
		case "json":
			forceJSON = true
		case "size", "precision", "scale":
			if !hasVal {
				return nil, false, false, fmt.Errorf("tag option %q requires a value", key)
			}
			n, convErr := strconv.Atoi(val)
			if convErr != nil {
				return nil, false, false, fmt.Errorf("tag option %s=%q is not an integer", key, val)
			}
			switch key {
			case "size":
				attr.Size = &n
			case "precision":
				attr.Precision = &n
			case "scale":
				attr.Scale = &n
			}
			hasAttr = true
		case "default":
			attr.HasDefault = true
			attr.Default = val
			hasAttr = true
		case "definition":
			attr.Definition = val
			hasAttr = true
		default:
			return nil, false, false, fmt.Errorf("unknown tag option %q", key)
		}
	}

	col.Kind, col.Enum, err = deriveKind(ft, immutable, forceJSON)
	if err != nil {
		return nil, false, false, err
	}

	if hasAttr {
		col.Attr = &attr
	}

	if value.IsValid() && !value.IsZero() {
		col.HasDefault = true
		col.Default = value.Interface()
	}

	return col, pk, autoInc, nil
}

func deriveKind(ft reflect.Type, immutable, forceJSON bool) (Kind, *EnumSet, error) {
	if forceJSON {
		return KindJSON, nil, nil
	}
	if set, ok := enumSetFor(ft); ok {
		return KindEnum, set, nil
	}
	if ft == timeType {
		if immutable {
			return KindDatetimeImmutable, nil, nil
		}
		return KindDatetime, nil, nil
	}

	switch ft.Kind() {
	case reflect.String:
		return KindString, nil, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindInteger, nil, nil
	case reflect.Float32, reflect.Float64:
		return KindFloat, nil, nil
	case reflect.Bool:
		return KindBoolean, nil, nil
	case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array:
		return KindJSON, nil, nil
	default:
		return "", nil, fmt.Errorf("unsupported field type %s", ft)
	}
}

// enumSetFor detects Enum implementations on the type or its pointer and
// infers the backing from the underlying kind.
func enumSetFor(ft reflect.Type) (*EnumSet, bool) {
	var e Enum
	switch {
	case ft.Implements(enumType):
		e = reflect.New(ft).Elem().Interface().(Enum)
	case reflect.PointerTo(ft).Implements(enumType):
		e = reflect.New(ft).Interface().(Enum)
	default:
		return nil, false
	}

	set := &EnumSet{Cases: e.EnumCases()}
	switch ft.Kind() {
	case reflect.String:
		set.Backing = EnumString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		set.Backing = EnumInt
	default:
		set.Backing = EnumPure
	}
	return set, true
}

// snakeCase converts a Go identifier to snake_case ("CreatedAt" -> "created_at",
// "UserID" -> "user_id").
func snakeCase(name string) string {
	runes := []rune(name)
	var sb strings.Builder
	sb.Grow(len(name) + 4)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && !unicode.IsUpper(runes[i-1])
			nextLower := i+1 < len(runes) && !unicode.IsUpper(runes[i+1])
			if i > 0 && (prevLower || nextLower) {
				sb.WriteByte('_')
			}
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
