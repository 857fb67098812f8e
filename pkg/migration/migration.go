package migration

import (
	"fmt"
	"path"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"
)

func newMigrate(sourceURL string, dsn string) *migrate.Migrate {
	m, err := migrate.New(sourceURL, "mysql://"+dsn)
	if err != nil {
		panic(err)
	}
	return m
}

// MigrateCommand returns the up/down migration commands for the given DSN
func MigrateCommand(dsn string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "migrate",
		Short: "database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "apply all pending migrations",
		Run: func(cmd *cobra.Command, args []string) {
			m := newMigrate("file://migrations", dsn)
			err := m.Up()
			if err != nil && err != migrate.ErrNoChange {
				panic(err)
			}
			fmt.Println("Migrated up successfully")
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "revert the last migration",
		Run: func(cmd *cobra.Command, args []string) {
			m := newMigrate("file://migrations", dsn)
			err := m.Steps(-1)
			if err != nil {
				panic(err)
			}
			fmt.Println("Migrated down successfully")
		},
	}

	rootCmd.AddCommand(upCmd, downCmd)
	return rootCmd
}

// MigrateUpForTesting applies all migrations from the module root
func MigrateUpForTesting(rootDir string, dsn string) {
	m := newMigrate("file://"+path.Join(rootDir, "migrations"), dsn)
	err := m.Up()
	if err != nil && err != migrate.ErrNoChange {
		panic(err)
	}
}
