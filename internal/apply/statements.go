package apply

import (
	"strings"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/format"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver" // registers the parser's value-expression driver
)

// SplitStatements splits SQL text into individual statements. The text is
// parsed as MySQL first, so semicolons inside string literals, escaped
// quotes, and comments never become statement boundaries; content the
// parser cannot handle falls back to a line-based split.
func SplitStatements(content string) []string {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}

	if statements := splitParsed(content); len(statements) > 0 {
		return statements
	}
	return splitLines(content)
}

// splitParsed parses the whole text and restores each statement node back
// to SQL. A parse error yields nil and defers to the fallback.
func splitParsed(content string) []string {
	stmtNodes, _, err := parser.New().Parse(content, "", "")
	if err != nil || len(stmtNodes) == 0 {
		return nil
	}

	statements := make([]string, 0, len(stmtNodes))
	for _, node := range stmtNodes {
		if node == nil {
			continue
		}
		var sb strings.Builder
		ctx := format.NewRestoreCtx(format.DefaultRestoreFlags, &sb)
		if restoreErr := node.Restore(ctx); restoreErr != nil {
			continue
		}
		if stmt := strings.TrimSpace(sb.String()); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}

// splitLines is the lenient fallback: statements end on lines with a
// trailing semicolon, line comments and blank lines are dropped.
func splitLines(content string) []string {
	var statements []string
	var current strings.Builder

	for line := range strings.SplitSeq(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}

		current.WriteString(line)
		current.WriteString("\n")

		if strings.HasSuffix(trimmed, ";") {
			if stmt := strings.TrimSpace(current.String()); stmt != "" {
				statements = append(statements, stmt)
			}
			current.Reset()
		}
	}

	if remaining := strings.TrimSpace(current.String()); remaining != "" {
		statements = append(statements, remaining)
	}

	return statements
}
