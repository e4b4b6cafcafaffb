// Package translate converts entity descriptors into the relational schema
// graph consumed by the migration engine. Translation is best-effort: a
// malformed entity is recorded in the report and skipped, so one broken
// entity never blocks schema generation for the others.
package translate

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"entmig/internal/core"
	"entmig/internal/dialect"
	"entmig/internal/entity"
)

// DefaultStringLength is the length emitted for plain string columns
// without an explicit size.
const DefaultStringLength = 255

// CurrentTimestamp is the sentinel emitted for construction-time datetime
// defaults.
const CurrentTimestamp = "CURRENT_TIMESTAMP"

// Options configures a translation run.
type Options struct {
	// Logger receives per-entity skip and failure diagnostics. Nil means
	// no logging.
	Logger *zap.Logger
}

// Translate derives each source's descriptor and translates the entities
// declared on targetConnection into tables, in source order. Entities on
// other connections are filtered out silently; entities whose derivation or
// validation fails are recorded in the report and skipped. The report is
// always returned, never an error for the batch.
func Translate(sources []entity.Source, targetConnection string, caps dialect.Capabilities, opts Options) *Report {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	report := &Report{}
	for _, src := range sources {
		desc, err := src.Describe()
		if err != nil {
			logger.Warn("entity derivation failed, skipping",
				zap.String("entity", src.EntityName()), zap.Error(err))
			report.add(Result{Entity: src.EntityName(), Err: err})
			continue
		}

		if desc.Connection != targetConnection {
			logger.Debug("entity filtered out by connection",
				zap.String("entity", desc.EntityName()),
				zap.String("connection", desc.Connection),
				zap.String("target", targetConnection))
			continue
		}

		if err := desc.Validate(); err != nil {
			logger.Warn("entity validation failed, skipping",
				zap.String("entity", desc.EntityName()), zap.Error(err))
			report.add(Result{Entity: desc.EntityName(), Err: err})
			continue
		}

		report.add(Result{
			Entity: desc.EntityName(),
			Table:  translateEntity(desc, caps),
		})
	}
	return report
}

func translateEntity(desc *entity.Descriptor, caps dialect.Capabilities) *core.Table {
	table := &core.Table{
		Name:    desc.Table,
		Columns: make([]*core.Column, 0, len(desc.Columns)),
	}

	for _, col := range desc.Columns {
		table.Columns = append(table.Columns, &core.Column{
			Name:    col.Name,
			Type:    mapColumnType(col, caps),
			Options: buildOptions(col, desc, caps),
		})
	}

	table.PrimaryKey = append(table.PrimaryKey, desc.PrimaryKey...)

	for _, idx := range desc.Indexes {
		table.Indexes = append(table.Indexes, &core.Index{
			Name:    indexName(desc.Table, idx),
			Columns: append([]string(nil), idx.Columns...),
			Unique:  idx.Unique,
		})
	}

	return table
}

// mapColumnType maps a semantic kind onto a relational column type.
// Integer-backed enumerations take precedence over everything else; the
// immutable datetime variant is only kept when the dialect exposes it.
func mapColumnType(col *entity.Column, caps dialect.Capabilities) core.Type {
	if col.Kind == entity.KindEnum && col.Enum != nil && col.Enum.Backing == entity.EnumInt {
		return core.TypeInteger
	}

	switch col.Kind {
	case entity.KindJSON:
		return core.TypeJSON
	case entity.KindBoolean:
		return core.TypeBoolean
	case entity.KindDatetimeImmutable:
		if caps.SupportsDatetimeImmutable() {
			return core.TypeDatetimeImmutable
		}
		return core.TypeDatetime
	case entity.KindDatetime:
		return core.TypeDatetime
	case entity.KindFloat:
		return core.TypeFloat
	case entity.KindInteger:
		return core.TypeInteger
	default:
		// Plain strings and non-integer-backed enumerations.
		return core.TypeString
	}
}

// buildOptions assembles the option bag for one column, attribute values
// taking precedence over descriptor defaults.
func buildOptions(col *entity.Column, desc *entity.Descriptor, caps dialect.Capabilities) core.Options {
	opts := core.Options{
		NotNull: !col.Nullable,
	}

	attr := col.Attr
	if attr != nil {
		// The scale option intentionally carries both declared scale
		// and precision, precision winning when both are set. This
		// mirrors the upstream metadata contract; see DESIGN.md.
		if attr.Scale != nil {
			v := *attr.Scale
			opts.Scale = &v
		}
		if attr.Precision != nil {
			v := *attr.Precision
			opts.Scale = &v
		}
		opts.Unsigned = attr.Unsigned
		if attr.Size != nil {
			v := *attr.Size
			opts.Length = &v
		}
	}

	if opts.Length == nil && col.Kind == entity.KindString {
		v := DefaultStringLength
		opts.Length = &v
	}

	switch {
	case attr != nil && attr.HasDefault:
		opts.HasDefault = true
		opts.Default = attr.Default
	case col.HasDefault:
		opts.HasDefault = true
		opts.Default = computeDefault(col.Default)
	}

	if attr != nil && attr.Definition != "" {
		opts.ColumnDefinition = attr.Definition
	} else if col.Kind == entity.KindEnum {
		opts.ColumnDefinition = enumDefinition(col.Enum, caps)
	}

	opts.AutoIncrement = desc.AutoIncrement != "" && strings.EqualFold(col.Name, desc.AutoIncrement)

	return opts
}

// computeDefault substitutes the CURRENT_TIMESTAMP sentinel for datetime
// defaults stamped at descriptor construction time. A timestamp within one
// second before now is treated as "now"; anything else passes through as
// the raw, uncast value.
func computeDefault(v any) any {
	if t, ok := v.(time.Time); ok {
		if d := time.Since(t); d >= 0 && d <= time.Second {
			return CurrentTimestamp
		}
	}
	return v
}

// enumDefinition computes the raw column definition for an enumeration
// column. Pure enumerations enumerate their case names, string-backed ones
// their case values; integer-backed enumerations are handled by the type
// mapping and never reach here with a definition. Without native enum
// support no definition is produced.
func enumDefinition(set *entity.EnumSet, caps dialect.Capabilities) string {
	if set == nil || !caps.SupportsEnum() {
		return ""
	}
	switch set.Backing {
	case entity.EnumPure:
		return core.BuildEnumDefinition(set.Names())
	case entity.EnumString:
		return core.BuildEnumDefinition(set.StringValues())
	default:
		return ""
	}
}

// indexName resolves an index name: the explicit name when given, otherwise
// "{table}_{unq|idx}_{col1}_{col2}..." with "unq" marking unique indexes.
func indexName(table string, idx *entity.Index) string {
	if idx.Name != "" {
		return idx.Name
	}
	marker := "idx"
	if idx.Unique {
		marker = "unq"
	}
	return fmt.Sprintf("%s_%s_%s", table, marker, strings.Join(idx.Columns, "_"))
}
