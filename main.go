package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"entmig/internal/apply"
	"entmig/internal/dialect"
	mysqldialect "entmig/internal/dialect/mysql"
	_ "entmig/internal/dialect/sqlite"
	"entmig/internal/diff"
	"entmig/internal/output"
	"entmig/internal/parser/toml"
	"entmig/internal/translate"
)

func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	cfg := zap.NewDevelopmentConfig()
	return cfg.Build()
}

func translateFile(path, connection, dialectName string, logger *zap.Logger) (*translate.Report, dialect.Dialect, error) {
	d, err := dialect.Get(dialectName)
	if err != nil {
		return nil, nil, err
	}

	sources, err := toml.NewParser().Sources(path)
	if err != nil {
		return nil, nil, err
	}

	report := translate.Translate(sources, connection, d, translate.Options{Logger: logger})
	return report, d, nil
}

func writeOut(content, outFile string) error {
	if outFile == "" {
		fmt.Print(content)
		return nil
	}
	if err := os.WriteFile(outFile, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Output saved to %s\n", outFile)
	return nil
}

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "entmig",
		Short: "Translate entity definitions into migration-ready schemas",
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log skipped entities and translation details")

	var genConnection string
	var genDialect string
	var genFormat string
	var genOutFile string
	generateCmd := &cobra.Command{
		Use:   "generate <entities.toml>",
		Short: "Generate a schema from entity definitions",
		Long: `Generate reads declarative entity definitions, translates the entities
declared on the target connection into a relational schema, and prints it in
the chosen format. Entities with malformed metadata are skipped and reported;
they never block the rest of the schema.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			report, d, err := translateFile(args[0], genConnection, genDialect, logger)
			if err != nil {
				return err
			}

			if d.Name() == dialect.MySQL && strings.EqualFold(genFormat, string(output.FormatSQL)) {
				for _, vErr := range mysqldialect.ValidateDefinitions(report.Tables()) {
					fmt.Fprintf(os.Stderr, "warning: %v\n", vErr)
				}
			}

			formatter, err := output.NewFormatter(genFormat, d.Generator())
			if err != nil {
				return err
			}
			formatted, err := formatter.FormatSchema(report)
			if err != nil {
				return fmt.Errorf("failed to format output: %w", err)
			}
			return writeOut(formatted, genOutFile)
		},
	}
	generateCmd.Flags().StringVarP(&genConnection, "connection", "c", "default", "Target connection; entities on other connections are skipped")
	generateCmd.Flags().StringVarP(&genDialect, "dialect", "d", "mysql", "Target dialect: mysql or sqlite")
	generateCmd.Flags().StringVarP(&genFormat, "format", "f", "", "Output format: human, json, or sql")
	generateCmd.Flags().StringVarP(&genOutFile, "output", "o", "", "Output file for the generated schema")

	var diffConnection string
	var diffDialect string
	var diffFormat string
	var diffOutFile string
	diffCmd := &cobra.Command{
		Use:   "diff <old-entities.toml> <new-entities.toml>",
		Short: "Compare two entity-definition revisions",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			oldReport, d, err := translateFile(args[0], diffConnection, diffDialect, logger)
			if err != nil {
				return fmt.Errorf("old definitions: %w", err)
			}
			newReport, _, err := translateFile(args[1], diffConnection, diffDialect, logger)
			if err != nil {
				return fmt.Errorf("new definitions: %w", err)
			}

			schemaDiff := diff.Diff(oldReport.Tables(), newReport.Tables())

			formatter, err := output.NewFormatter(diffFormat, d.Generator())
			if err != nil {
				return err
			}
			formatted, err := formatter.FormatDiff(schemaDiff)
			if err != nil {
				return fmt.Errorf("failed to format output: %w", err)
			}
			return writeOut(formatted, diffOutFile)
		},
	}
	diffCmd.Flags().StringVarP(&diffConnection, "connection", "c", "default", "Target connection")
	diffCmd.Flags().StringVarP(&diffDialect, "dialect", "d", "mysql", "Target dialect: mysql or sqlite")
	diffCmd.Flags().StringVarP(&diffFormat, "format", "f", "", "Output format: human, json, or sql")
	diffCmd.Flags().StringVarP(&diffOutFile, "output", "o", "", "Output file for the diff")

	var applyDSN string
	var applyFile string
	var applyDryRun bool
	var applyTransaction bool
	var applyAllowNonTx bool
	var applyUnsafe bool
	var applyTimeout int
	applyCmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply a generated schema to a MySQL database",
		Long: `Connects to your database and executes the statements from a generated
SQL file.

Examples:
  entmig apply --dsn "user:pass@tcp(localhost:3306)/mydb" --file schema.sql
  entmig apply --dsn "user:pass@tcp(localhost:3306)/mydb" --file schema.sql --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if applyDSN == "" && !applyDryRun {
				return fmt.Errorf("--dsn is required")
			}
			if applyFile == "" {
				return fmt.Errorf("--file is required")
			}

			content, err := os.ReadFile(applyFile)
			if err != nil {
				return fmt.Errorf("failed to read schema file: %w", err)
			}

			statements := apply.SplitStatements(string(content))
			if len(statements) == 0 {
				fmt.Println("No SQL statements found in schema file")
				return nil
			}

			applier := apply.NewApplier(apply.Options{
				Driver:                "mysql",
				DSN:                   applyDSN,
				DryRun:                applyDryRun,
				Transaction:           applyTransaction,
				AllowNonTransactional: applyAllowNonTx,
				Unsafe:                applyUnsafe,
				Out:                   os.Stdout,
			})

			if applyDryRun {
				return applier.Apply(context.Background(), statements)
			}

			ctx, cancel := context.WithTimeout(context.Background(), time.Duration(applyTimeout)*time.Second)
			defer cancel()

			if err := applier.Connect(ctx); err != nil {
				return err
			}
			defer func() {
				if err := applier.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Failed to close database connection: %v\n", err)
				}
			}()

			return applier.Apply(ctx, statements)
		},
	}
	applyCmd.Flags().StringVar(&applyDSN, "dsn", "", "Database connection string (required unless --dry-run)")
	applyCmd.Flags().StringVarP(&applyFile, "file", "f", "", "Path to generated SQL file (required)")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Print statements without executing")
	applyCmd.Flags().BoolVarP(&applyTransaction, "transaction", "t", false, "Run statements in a single transaction; refused when the batch contains implicit-commit DDL")
	applyCmd.Flags().BoolVar(&applyAllowNonTx, "allow-non-transactional", false, "Let a --transaction run proceed without the wrapper when the batch contains implicit-commit DDL")
	applyCmd.Flags().BoolVar(&applyUnsafe, "unsafe", false, "Permit destructive statements (DROP TABLE, TRUNCATE, ...)")
	applyCmd.Flags().IntVar(&applyTimeout, "timeout", 300, "Connection timeout in seconds")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(applyCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
