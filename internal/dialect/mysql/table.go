package mysql

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"entmig/internal/core"
)

const defaultStringLength = 255

// GenerateCreateTable renders a CREATE TABLE statement for one emitted
// table. Indexes are rendered separately by GenerateCreateIndexes.
func (g *Generator) GenerateCreateTable(t *core.Table) string {
	var sb strings.Builder
	sb.WriteString("CREATE TABLE ")
	sb.WriteString(g.QuoteIdentifier(t.Name))
	sb.WriteString(" (\n")

	for i, c := range t.Columns {
		if i > 0 {
			sb.WriteString(",\n")
		}
		sb.WriteString("  ")
		sb.WriteString(g.columnDefinition(c))
	}

	if len(t.PrimaryKey) > 0 {
		sb.WriteString(",\n  PRIMARY KEY (")
		for i, pk := range t.PrimaryKey {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(g.QuoteIdentifier(pk))
		}
		sb.WriteString(")")
	}

	sb.WriteString("\n);")
	return sb.String()
}

// GenerateCreateIndexes renders a CREATE INDEX statement per table index.
func (g *Generator) GenerateCreateIndexes(t *core.Table) []string {
	if len(t.Indexes) == 0 {
		return nil
	}
	stmts := make([]string, 0, len(t.Indexes))
	for _, idx := range t.Indexes {
		cols := make([]string, len(idx.Columns))
		for i, c := range idx.Columns {
			cols[i] = g.QuoteIdentifier(c)
		}
		unique := ""
		if idx.Unique {
			unique = "UNIQUE "
		}
		stmts = append(stmts, fmt.Sprintf("CREATE %sINDEX %s ON %s (%s);",
			unique, g.QuoteIdentifier(idx.Name), g.QuoteIdentifier(t.Name), strings.Join(cols, ", ")))
	}
	return stmts
}

// GenerateDropTable renders a DROP TABLE statement.
func (g *Generator) GenerateDropTable(t *core.Table) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s;", g.QuoteIdentifier(t.Name))
}

func (g *Generator) columnDefinition(c *core.Column) string {
	parts := []string{g.QuoteIdentifier(c.Name), g.columnType(c)}

	if c.Options.NotNull {
		parts = append(parts, "NOT NULL")
	}
	if c.Options.AutoIncrement {
		parts = append(parts, "AUTO_INCREMENT")
	}
	if c.Options.HasDefault {
		parts = append(parts, "DEFAULT", g.formatValue(c.Options.Default))
	}

	return strings.Join(parts, " ")
}

// columnType synthesizes the SQL type. A raw column definition, when
// present, takes precedence over the synthesized type.
func (g *Generator) columnType(c *core.Column) string {
	if def := strings.TrimSpace(c.Options.ColumnDefinition); def != "" {
		return def
	}

	switch c.Type {
	case core.TypeString:
		length := defaultStringLength
		if c.Options.Length != nil {
			length = *c.Options.Length
		}
		return fmt.Sprintf("VARCHAR(%d)", length)
	case core.TypeInteger:
		if c.Options.Unsigned {
			return "INT UNSIGNED"
		}
		return "INT"
	case core.TypeFloat:
		if c.Options.Unsigned {
			return "DOUBLE UNSIGNED"
		}
		return "DOUBLE"
	case core.TypeBoolean:
		return "TINYINT(1)"
	case core.TypeDatetime, core.TypeDatetimeImmutable:
		return "DATETIME"
	case core.TypeJSON:
		return "JSON"
	default:
		return "TEXT"
	}
}

// formatValue renders a default value as a SQL literal. The
// CURRENT_TIMESTAMP sentinel and boolean/numeric values stay unquoted.
func (g *Generator) formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case bool:
		if val {
			return "1"
		}
		return "0"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		return g.QuoteString(val.UTC().Format("2006-01-02 15:04:05"))
	case string:
		if strings.EqualFold(val, "CURRENT_TIMESTAMP") || strings.EqualFold(val, "NULL") {
			return strings.ToUpper(val)
		}
		return g.QuoteString(val)
	default:
		return g.QuoteString(fmt.Sprintf("%v", val))
	}
}
