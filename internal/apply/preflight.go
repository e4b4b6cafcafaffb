package apply

import (
	"fmt"
	"strings"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
)

// Severity classifies a preflight finding.
type Severity string

const (
	// SeverityNotice marks statements that may lock tables or otherwise
	// deserve a look before running against production.
	SeverityNotice Severity = "NOTICE"
	// SeverityDestructive marks statements that permanently remove
	// schema objects or data.
	SeverityDestructive Severity = "DESTRUCTIVE"
)

// Finding is one preflight observation about a statement.
type Finding struct {
	Severity  Severity
	Message   string
	Statement string
}

// Preflight is the result of inspecting a batch of statements before
// execution: per-statement findings plus whether the whole batch can run
// inside a single transaction.
type Preflight struct {
	Findings []Finding

	// Transactional is false when any statement causes an implicit
	// commit in MySQL, which silently breaks a surrounding transaction.
	Transactional bool
	CommitReasons []string
}

// Destructive reports whether any finding is destructive.
func (p *Preflight) Destructive() bool {
	for _, f := range p.Findings {
		if f.Severity == SeverityDestructive {
			return true
		}
	}
	return false
}

// Check inspects the statements through the MySQL AST and classifies each
// one: destructive operations produce findings, and DDL that causes an
// implicit commit marks the batch non-transactional. Statements the parser
// cannot handle are classified by keyword.
func Check(statements []string) *Preflight {
	pre := &Preflight{Transactional: true}
	p := parser.New()

	for _, stmt := range statements {
		nodes, _, err := p.Parse(stmt, "", "")
		if err != nil || len(nodes) == 0 {
			checkUnparsed(pre, stmt)
			continue
		}
		for _, node := range nodes {
			checkNode(pre, node, stmt)
		}
	}

	return pre
}

func checkNode(pre *Preflight, node ast.StmtNode, stmt string) {
	switch n := node.(type) {
	case *ast.CreateTableStmt, *ast.CreateDatabaseStmt, *ast.CreateViewStmt:
		markImplicitCommit(pre, stmt)
	case *ast.CreateIndexStmt:
		pre.note(stmt, "CREATE INDEX may lock the table while the index is built")
		markImplicitCommit(pre, stmt)
	case *ast.DropTableStmt:
		pre.destructive(stmt, "DROP TABLE permanently deletes the table and its data")
		markImplicitCommit(pre, stmt)
	case *ast.DropDatabaseStmt:
		pre.destructive(stmt, "DROP DATABASE permanently deletes the entire database")
		markImplicitCommit(pre, stmt)
	case *ast.DropIndexStmt:
		pre.note(stmt, "DROP INDEX may briefly lock the table")
		markImplicitCommit(pre, stmt)
	case *ast.TruncateTableStmt:
		pre.destructive(stmt, "TRUNCATE TABLE deletes all rows from the table")
		markImplicitCommit(pre, stmt)
	case *ast.RenameTableStmt:
		pre.note(stmt, "RENAME TABLE acquires an exclusive lock")
		markImplicitCommit(pre, stmt)
	case *ast.AlterTableStmt:
		checkAlterTable(pre, n, stmt)
		markImplicitCommit(pre, stmt)
	case *ast.DeleteStmt:
		pre.destructive(stmt, "DELETE removes rows from the table")
	case *ast.InsertStmt, *ast.UpdateStmt, *ast.SelectStmt:
		// Transaction-safe DML.
	default:
		checkUnparsed(pre, stmt)
	}
}

func checkAlterTable(pre *Preflight, n *ast.AlterTableStmt, stmt string) {
	for _, spec := range n.Specs {
		switch spec.Tp {
		case ast.AlterTableDropColumn:
			pre.destructive(stmt, "DROP COLUMN permanently deletes the column and its data")
		case ast.AlterTableDropPrimaryKey:
			pre.note(stmt, "DROP PRIMARY KEY requires a full table rebuild")
		case ast.AlterTableModifyColumn, ast.AlterTableChangeColumn:
			pre.note(stmt, "changing a column may require a table rebuild")
		case ast.AlterTableAddConstraint:
			pre.note(stmt, "ADD CONSTRAINT may lock the table while validating existing data")
		}
	}
}

// checkUnparsed classifies a statement the parser rejected by its leading
// keyword: any DDL prefix is assumed to commit implicitly.
func checkUnparsed(pre *Preflight, stmt string) {
	upper := strings.ToUpper(strings.TrimSpace(stmt))
	for _, prefix := range []string{"CREATE ", "DROP ", "ALTER ", "RENAME ", "TRUNCATE "} {
		if strings.HasPrefix(upper, prefix) {
			markImplicitCommit(pre, stmt)
			return
		}
	}
}

func markImplicitCommit(pre *Preflight, stmt string) {
	pre.Transactional = false
	pre.CommitReasons = append(pre.CommitReasons,
		fmt.Sprintf("DDL causes an implicit commit in MySQL: %s", firstLine(stmt)))
}

func (p *Preflight) note(stmt, message string) {
	p.Findings = append(p.Findings, Finding{
		Severity:  SeverityNotice,
		Message:   message,
		Statement: stmt,
	})
}

func (p *Preflight) destructive(stmt, message string) {
	p.Findings = append(p.Findings, Finding{
		Severity:  SeverityDestructive,
		Message:   message,
		Statement: stmt,
	})
}
