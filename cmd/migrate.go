/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

/*
Package main provides the CLI commands for managing database migrations.
This includes commands for applying and rolling back migrations.
*/

package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"

	"github.com/blnkfinance/wallet"
	"github.com/blnkfinance/wallet/config"
	"github.com/blnkfinance/wallet/database"
)

func migrationSource() migrate.MigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{
		FileSystem: wallet.SQLFiles,
		Root:       "sql",
	}
}

func migrationDB(cnf *config.Configuration) (*sql.DB, error) {
	if strings.HasPrefix(cnf.DataSource.Dns, memoryDNS) {
		return nil, errors.New("the in-memory datasource has no schema to migrate")
	}
	return database.ConnectDB(cnf.DataSource)
}

// migrateCommands creates the root command for migration-related operations.
func migrateCommands(b *walletInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "run wallet schema migrations",
	}

	cmd.AddCommand(migrateUpCommands(b))
	cmd.AddCommand(migrateDownCommands(b))

	return cmd
}

func migrateUpCommands(b *walletInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "up",
		Short: "apply all pending migrations",
		Run: func(cmd *cobra.Command, args []string) {
			db, err := migrationDB(b.cnf)
			if err != nil {
				log.Printf("Error connecting to database: %v", err)
				return
			}
			defer db.Close()

			n, err := migrate.Exec(db, "postgres", migrationSource(), migrate.Up)
			if err != nil {
				log.Printf("Error migrating up: %v", err)
			} else {
				fmt.Printf("Applied %d migrations!\n", n)
			}
		},
	}

	return cmd
}

func migrateDownCommands(b *walletInstance) *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   "down",
		Short: "roll back migrations",
		Run: func(cmd *cobra.Command, args []string) {
			db, err := migrationDB(b.cnf)
			if err != nil {
				log.Printf("Error connecting to database: %v", err)
				return
			}
			defer db.Close()

			n, err := migrate.ExecMax(db, "postgres", migrationSource(), migrate.Down, steps)
			if err != nil {
				log.Printf("Error migrating down: %v", err)
			} else {
				fmt.Printf("Rolled back %d migrations!\n", n)
			}
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back, 0 for all")

	return cmd
}
