package mysql

import (
	"fmt"

	"github.com/pingcap/tidb/pkg/parser"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver" // registers the parser's value-expression driver

	"entmig/internal/core"
)

// ValidateRawDefinition checks that a raw column-definition override is
// syntactically valid MySQL by parsing it inside a probe CREATE TABLE
// statement.
func ValidateRawDefinition(def string) error {
	stmt := fmt.Sprintf("CREATE TABLE `_entmig_probe` (`_c` %s)", def)
	p := parser.New()
	if _, _, err := p.Parse(stmt, "", ""); err != nil {
		return fmt.Errorf("mysql: invalid column definition %q: %w", def, err)
	}
	return nil
}

// ValidateDefinitions validates every raw column definition in the emitted
// tables. It returns one error per invalid definition, annotated with the
// table and column it belongs to.
func ValidateDefinitions(tables []*core.Table) []error {
	var errs []error
	for _, t := range tables {
		for _, c := range t.Columns {
			if c.Options.ColumnDefinition == "" {
				continue
			}
			if err := ValidateRawDefinition(c.Options.ColumnDefinition); err != nil {
				errs = append(errs, fmt.Errorf("table %s column %s: %w", t.Name, c.Name, err))
			}
		}
	}
	return errs
}
