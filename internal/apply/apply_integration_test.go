package apply

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
)

const integrationSchema = "CREATE TABLE `users` (\n" +
	"  `id` INT UNSIGNED NOT NULL AUTO_INCREMENT,\n" +
	"  `email` VARCHAR(190) NOT NULL,\n" +
	"  PRIMARY KEY (`id`)\n" +
	");\n" +
	"CREATE UNIQUE INDEX `users_unq_email` ON `users` (`email`);\n"

func TestApplierIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	dsn := startMySQL(t)

	t.Run("applies generated schema", func(t *testing.T) {
		applier := NewApplier(Options{Driver: "mysql", DSN: dsn})
		require.NoError(t, applier.Connect(ctx))
		defer func() { require.NoError(t, applier.Close()) }()

		statements := SplitStatements(integrationSchema)
		require.Len(t, statements, 2)
		require.NoError(t, applier.Apply(ctx, statements))

		db, err := sql.Open("mysql", dsn)
		require.NoError(t, err)
		defer db.Close()

		var name string
		err = db.QueryRowContext(ctx, "SHOW TABLES LIKE 'users'").Scan(&name)
		require.NoError(t, err)
		assert.Equal(t, "users", name)

		var indexCount int
		err = db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM information_schema.statistics WHERE table_name = 'users' AND index_name = 'users_unq_email' AND non_unique = 0",
		).Scan(&indexCount)
		require.NoError(t, err)
		assert.Positive(t, indexCount)
	})

	t.Run("reapplying fails and reports the statement", func(t *testing.T) {
		applier := NewApplier(Options{Driver: "mysql", DSN: dsn})
		require.NoError(t, applier.Connect(ctx))
		defer func() { require.NoError(t, applier.Close()) }()

		err := applier.Apply(ctx, SplitStatements(integrationSchema))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "statement 1 failed")
	})

	t.Run("invalid DSN fails on connect", func(t *testing.T) {
		applier := NewApplier(Options{Driver: "mysql", DSN: "invalid:user@tcp(127.0.0.1:1)/nope"})
		assert.Error(t, applier.Connect(ctx))
		assert.NoError(t, applier.Close())
	})
}

func startMySQL(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := mysql.Run(ctx, "mysql:8.0",
		mysql.WithDatabase("testdb"),
		mysql.WithUsername("root"),
		mysql.WithPassword("testpass"),
	)
	require.NoError(t, err, "failed to start MySQL container")

	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "parseTime=true")
	require.NoError(t, err, "failed to get connection string")
	return dsn
}
