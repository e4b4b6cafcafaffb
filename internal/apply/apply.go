// Package apply connects to a target database and executes generated DDL
// statements. Statements are preflight-checked first: destructive
// operations need an explicit opt-in, and a transactional run is refused
// when the batch contains DDL that MySQL implicitly commits.
package apply

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"
)

// Options contains the settings available when applying a schema.
type Options struct {
	// Driver is the database/sql driver name (e.g. "mysql").
	Driver string
	// DSN is the database connection string.
	DSN string
	// DryRun prints the preflight result and the statements without
	// connecting or executing.
	DryRun bool
	// Transaction wraps the run in a single transaction. Refused when
	// the batch contains non-transactional DDL, unless
	// AllowNonTransactional is set, in which case the run proceeds
	// without the transaction wrapper.
	Transaction bool
	// AllowNonTransactional lets a --transaction run proceed (without
	// the wrapper) when the batch contains implicit-commit DDL.
	AllowNonTransactional bool
	// Unsafe permits destructive statements (DROP TABLE, TRUNCATE, ...).
	Unsafe bool
	// Out receives progress output. Nil discards it.
	Out io.Writer
}

// Applier executes DDL statements against a live database.
type Applier struct {
	db      *sql.DB
	options Options
	out     io.Writer
}

// NewApplier returns an Applier with the provided options.
func NewApplier(options Options) *Applier {
	out := options.Out
	if out == nil {
		out = io.Discard
	}
	return &Applier{options: options, out: out}
}

func (a *Applier) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}

// Connect opens and pings the database connection.
func (a *Applier) Connect(ctx context.Context) error {
	driver := a.options.Driver
	if driver == "" {
		driver = "mysql"
	}
	db, err := sql.Open(driver, a.options.DSN)
	if err != nil {
		return fmt.Errorf("apply: open connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("apply: ping database: %w", err)
	}
	a.db = db
	return nil
}

// ConnectDB attaches an existing database handle instead of opening one.
func (a *Applier) ConnectDB(db *sql.DB) {
	a.db = db
}

// Close closes the database connection.
func (a *Applier) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// Apply preflight-checks the statements and executes them in order. In
// dry-run mode the preflight result and the statements are printed and
// nothing is executed, but the preflight gates still apply.
func (a *Applier) Apply(ctx context.Context, statements []string) error {
	preflight := Check(statements)

	if a.options.DryRun {
		return a.dryRun(statements, preflight)
	}

	if err := a.gate(preflight); err != nil {
		return err
	}
	if a.db == nil {
		return fmt.Errorf("apply: not connected")
	}
	if a.options.Transaction && preflight.Transactional {
		return a.applyWithTransaction(ctx, statements)
	}
	if a.options.Transaction {
		a.printf("Batch contains non-transactional DDL; applying without transaction wrapper\n")
	}
	return a.applyWithoutTransaction(ctx, statements)
}

// gate enforces the preflight opt-ins: destructive statements need Unsafe,
// and a transactional run over implicit-commit DDL needs
// AllowNonTransactional.
func (a *Applier) gate(preflight *Preflight) error {
	if preflight.Destructive() && !a.options.Unsafe {
		return fmt.Errorf("apply: batch contains destructive statements; pass --unsafe to proceed")
	}
	if a.options.Transaction && !preflight.Transactional && !a.options.AllowNonTransactional {
		return fmt.Errorf("apply: batch contains non-transactional DDL; pass --allow-non-transactional to proceed without a transaction")
	}
	return nil
}

func (a *Applier) dryRun(statements []string, preflight *Preflight) error {
	a.printf("Dry run: %d statement(s)\n", len(statements))

	for _, f := range preflight.Findings {
		a.printf("[%s] %s\n    %s\n", f.Severity, f.Message, firstLine(f.Statement))
	}
	if preflight.Transactional {
		a.printf("All statements are transaction-safe\n")
	} else {
		a.printf("Batch is NOT transaction-safe:\n")
		for _, reason := range preflight.CommitReasons {
			a.printf("  - %s\n", reason)
		}
	}

	for _, stmt := range statements {
		a.printf("%s\n", stmt)
	}

	return a.gate(preflight)
}

func (a *Applier) applyWithTransaction(ctx context.Context, statements []string) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("apply: begin transaction: %w", err)
	}

	for i, stmt := range statements {
		a.printf("[%d/%d] %s\n", i+1, len(statements), firstLine(stmt))
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply: statement %d failed: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("apply: commit: %w", err)
	}
	a.printf("Applied %d statement(s)\n", len(statements))
	return nil
}

func (a *Applier) applyWithoutTransaction(ctx context.Context, statements []string) error {
	for i, stmt := range statements {
		a.printf("[%d/%d] %s\n", i+1, len(statements), firstLine(stmt))
		if _, err := a.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply: statement %d failed: %w", i+1, err)
		}
	}
	a.printf("Applied %d statement(s)\n", len(statements))
	return nil
}

func firstLine(stmt string) string {
	stmt = strings.TrimSpace(stmt)
	if i := strings.IndexByte(stmt, '\n'); i >= 0 {
		return stmt[:i] + " ..."
	}
	return stmt
}
